package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/testutil"
)

type TestDataBuilder struct {
	t   *testing.T
	ctx context.Context
	db  *Database
	ids []string
}

func NewTestDataBuilder(t *testing.T) *TestDataBuilder {
	t.Helper()
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	return &TestDataBuilder{t: t, ctx: ctx, db: db}
}

func (b *TestDataBuilder) save(rec models.Record) {
	b.t.Helper()
	if _, err := b.db.SaveRecord(b.ctx, rec); err != nil {
		b.t.Fatalf("SaveRecord failed: %v", err)
	}
	b.ids = append(b.ids, rec.SuggestionID())
}

func (b *TestDataBuilder) WithCitizen(id, name, surname string) *TestDataBuilder {
	b.t.Helper()
	b.save(testutil.NewCitizen(id).WithName(name, surname).Build())
	return b
}

func (b *TestDataBuilder) WithVehicle(id, plate string) *TestDataBuilder {
	b.t.Helper()
	b.save(testutil.NewVehicle(id, plate).Build())
	return b
}

func (b *TestDataBuilder) WithCitizens(count int) *TestDataBuilder {
	b.t.Helper()
	for i := 0; i < count; i++ {
		b.WithCitizen(fmt.Sprintf("c%d", i+1), "Citizen", fmt.Sprintf("Number%d", i+1))
	}
	return b
}

func (b *TestDataBuilder) Build() *Database {
	return b.db
}
