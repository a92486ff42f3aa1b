package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/util"
)

// maxFuzzyCandidates bounds how many rows are ranked in memory.
const maxFuzzyCandidates = 500

// SaveRecord stores rec, replacing an earlier copy, and marks it as just
// looked up.
func (d *Database) SaveRecord(ctx context.Context, rec models.Record) (models.CachedRecord, error) {
	kind := string(rec.RecordKind())
	id := rec.SuggestionID()
	if strings.TrimSpace(id) == "" {
		return models.CachedRecord{}, wrapErr(EntityRecord, "save", kind, errors.New("record has no id"))
	}

	plain, err := json.Marshal(rec)
	if err != nil {
		return models.CachedRecord{}, wrapErr(EntityRecord, "encode", id, err)
	}
	payload := plain
	if d.sealer != nil {
		payload, err = d.sealer.Seal(plain, payloadBinding(kind, id))
		if err != nil {
			return models.CachedRecord{}, wrapErr(EntityRecord, "seal", id, err)
		}
	}

	now := time.Now().UTC()
	cached := models.CachedRecord{
		Kind:       rec.RecordKind(),
		RecordID:   id,
		Label:      rec.Label(),
		Payload:    plain,
		LookedUpAt: now,
	}
	err = d.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO records (kind, record_id, label, payload, looked_up_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(kind, record_id) DO UPDATE SET
				label = excluded.label,
				payload = excluded.payload,
				looked_up_at = excluded.looked_up_at`,
			kind, id, cached.Label, payload, now)
		if err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			"SELECT id FROM records WHERE kind = ? AND record_id = ?", kind, id).Scan(&cached.ID)
	})
	if err != nil {
		return models.CachedRecord{}, wrapErr(EntityRecord, "save", id, err)
	}
	return cached, nil
}

// GetRecord returns the cached record of kind with the backend id.
func (d *Database) GetRecord(ctx context.Context, kind models.Kind, recordID string) (models.Record, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (models.Record, error) {
		var payload []byte
		err := d.DB.QueryRowContext(ctx,
			"SELECT payload FROM records WHERE kind = ? AND record_id = ?", string(kind), recordID).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr(EntityRecord, "get", recordID, ErrNotFound)
		}
		if err != nil {
			return nil, wrapErr(EntityRecord, "get", recordID, err)
		}
		plain, err := d.openPayload(string(kind), recordID, payload)
		if err != nil {
			return nil, wrapErr(EntityRecord, "open", recordID, err)
		}
		return models.Decode(kind, plain)
	})
}

// RecentRecords lists the most recently looked-up records. An empty kind
// lists all kinds.
func (d *Database) RecentRecords(ctx context.Context, kind models.Kind, limit int) ([]models.CachedRecord, error) {
	q := NewRecordQuery().OrderBy("looked_up_at DESC, id DESC").Limit(limit)
	if kind != "" {
		q.WhereKinds([]string{string(kind)})
	}
	query, args := q.Build()
	return d.queryRecords(ctx, "recent", query, args...)
}

// SearchRecords matches cached records against a query such as
// "kind:vehicle abc 123". Free text is fuzzy-matched against labels and
// ids; results are ordered best match first.
func (d *Database) SearchRecords(ctx context.Context, query string, limit int) ([]models.CachedRecord, error) {
	sq := util.ParseSearchQuery(query)
	q := NewRecordQuery().
		WhereKinds(sq.Kinds).
		WhereRecordIDs(sq.IDs)
	return d.searchRecords(ctx, "search", q, sq.Text, limit)
}

// SearchKind fuzzy-matches text against records of one kind. The text is
// taken literally; kind: and id: tokens in it are not filters.
func (d *Database) SearchKind(ctx context.Context, kind models.Kind, text string, limit int) ([]models.CachedRecord, error) {
	q := NewRecordQuery().WhereKinds([]string{string(kind)})
	return d.searchRecords(ctx, "search kind", q, strings.Fields(text), limit)
}

func (d *Database) searchRecords(ctx context.Context, op string, q *RecordQuery, terms []string, limit int) ([]models.CachedRecord, error) {
	q.OrderBy("looked_up_at DESC, id DESC")
	if len(terms) == 0 {
		q.Limit(limit)
	} else {
		q.Limit(maxFuzzyCandidates)
	}
	sqlQuery, args := q.Build()
	records, err := d.queryRecords(ctx, op, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(terms) > 0 {
		records = rankRecords(records, terms)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// PurgeRecords deletes records not looked up since before.
func (d *Database) PurgeRecords(ctx context.Context, before time.Time) (int64, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (int64, error) {
		res, err := d.DB.ExecContext(ctx, "DELETE FROM records WHERE looked_up_at < ?", before.UTC())
		if err != nil {
			return 0, wrapErr(EntityRecord, "purge", "", err)
		}
		n, err := res.RowsAffected()
		return n, wrapErr(EntityRecord, "purge", "", err)
	})
}

func (d *Database) queryRecords(ctx context.Context, op, query string, args ...interface{}) ([]models.CachedRecord, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) ([]models.CachedRecord, error) {
		rows, err := d.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, wrapErr(EntityRecord, op, "", err)
		}
		defer rows.Close()

		var records []models.CachedRecord
		for rows.Next() {
			var r models.CachedRecord
			var kind string
			var payload []byte
			if err := rows.Scan(&r.ID, &kind, &r.RecordID, &r.Label, &payload, &r.LookedUpAt); err != nil {
				return nil, wrapErr(EntityRecord, op, "", err)
			}
			r.Kind = models.Kind(kind)
			plain, err := d.openPayload(kind, r.RecordID, payload)
			if err != nil {
				// A row written under another key is skipped, not fatal.
				logDBError(wrapErr(EntityRecord, "open", r.RecordID, err))
				continue
			}
			r.Payload = plain
			records = append(records, r)
		}
		if err := rows.Err(); err != nil {
			return nil, wrapErr(EntityRecord, op, "", err)
		}
		return records, nil
	})
}

func (d *Database) openPayload(kind, recordID string, payload []byte) ([]byte, error) {
	if d.sealer == nil {
		return payload, nil
	}
	plain, err := d.sealer.Open(payload, payloadBinding(kind, recordID))
	if err != nil {
		return nil, fmt.Errorf("unseal payload: %w", err)
	}
	return plain, nil
}
