package tui

import (
	"context"

	"github.com/akyairhashvil/cadlookup/internal/database"
	"github.com/akyairhashvil/cadlookup/internal/models"
)

// Database defines the persistence methods the console requires.
type Database interface {
	SaveRecord(ctx context.Context, rec models.Record) (models.CachedRecord, error)
	GetRecord(ctx context.Context, kind models.Kind, recordID string) (models.Record, error)
	SearchRecords(ctx context.Context, query string, limit int) ([]models.CachedRecord, error)
	RecentRecords(ctx context.Context, kind models.Kind, limit int) ([]models.CachedRecord, error)
	RecordLookup(ctx context.Context, entry models.LookupEntry) (int64, error)

	GetSetting(ctx context.Context, key string) (string, bool)
	SetSetting(ctx context.Context, key, value string) error
}

var _ Database = (*database.Database)(nil)

// Poster sends non-search actions to the backend. It is nil when running
// from the offline cache.
type Poster interface {
	Post(ctx context.Context, path string, body any) ([]byte, error)
}
