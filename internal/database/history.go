package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/models"
)

// RecordLookup appends an entry to the lookup history.
func (d *Database) RecordLookup(ctx context.Context, entry models.LookupEntry) (int64, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (int64, error) {
		created := entry.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		res, err := d.DB.ExecContext(ctx,
			"INSERT INTO lookup_history (lookup, query, record_id, officer_id, created_at) VALUES (?, ?, ?, ?, ?)",
			entry.Lookup, entry.Query, nullableString(entry.RecordID), nullableString(entry.OfficerID), created.UTC())
		if err != nil {
			return 0, wrapErr(EntityHistory, "add", entry.Lookup, err)
		}
		id, err := res.LastInsertId()
		return id, wrapErr(EntityHistory, "add", entry.Lookup, err)
	})
}

// LookupHistory returns the newest entries first.
func (d *Database) LookupHistory(ctx context.Context, limit int) ([]models.LookupEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	return withDBContextResult(d, ctx, func(ctx context.Context) ([]models.LookupEntry, error) {
		rows, err := d.DB.QueryContext(ctx, `
			SELECT id, lookup, query, record_id, officer_id, created_at
			FROM lookup_history
			ORDER BY created_at DESC, id DESC
			LIMIT ?`, limit)
		if err != nil {
			return nil, wrapErr(EntityHistory, "list", "", err)
		}
		defer rows.Close()

		var entries []models.LookupEntry
		for rows.Next() {
			var e models.LookupEntry
			var recordID, officerID sql.NullString
			if err := rows.Scan(&e.ID, &e.Lookup, &e.Query, &recordID, &officerID, &e.CreatedAt); err != nil {
				return nil, wrapErr(EntityHistory, "list", "", err)
			}
			e.RecordID = recordID.String
			e.OfficerID = officerID.String
			entries = append(entries, e)
		}
		if err := rows.Err(); err != nil {
			return nil, wrapErr(EntityHistory, "list", "", err)
		}
		return entries, nil
	})
}
