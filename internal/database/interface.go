package database

import (
	"context"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/models"
)

// RecordRepository defines cached-record operations.
type RecordRepository interface {
	SaveRecord(ctx context.Context, rec models.Record) (models.CachedRecord, error)
	GetRecord(ctx context.Context, kind models.Kind, recordID string) (models.Record, error)
	SearchRecords(ctx context.Context, query string, limit int) ([]models.CachedRecord, error)
	SearchKind(ctx context.Context, kind models.Kind, text string, limit int) ([]models.CachedRecord, error)
	RecentRecords(ctx context.Context, kind models.Kind, limit int) ([]models.CachedRecord, error)
	PurgeRecords(ctx context.Context, before time.Time) (int64, error)
}

// SettingsRepository defines key/value settings operations.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, bool)
	SetSetting(ctx context.Context, key, value string) error
}

// HistoryRepository defines lookup history operations.
type HistoryRepository interface {
	RecordLookup(ctx context.Context, entry models.LookupEntry) (int64, error)
	LookupHistory(ctx context.Context, limit int) ([]models.LookupEntry, error)
}

// Repository combines all repository interfaces.
//
//go:generate mockgen -source=interface.go -destination=mock_repository_test.go -package=database
type Repository interface {
	RecordRepository
	SettingsRepository
	HistoryRepository
}

var _ Repository = (*Database)(nil)
