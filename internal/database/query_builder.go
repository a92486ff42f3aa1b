package database

import (
	"fmt"
	"strings"
)

const recordColumns = "id, kind, record_id, label, payload, looked_up_at"

type RecordQuery struct {
	columns string
	filters []string
	args    []interface{}
	orderBy string
	limit   int
}

func NewRecordQuery() *RecordQuery {
	return &RecordQuery{columns: recordColumns}
}

func (q *RecordQuery) Where(filter string, args ...interface{}) *RecordQuery {
	q.filters = append(q.filters, filter)
	q.args = append(q.args, args...)
	return q
}

// WhereKinds restricts to the given kinds. An empty list matches all.
func (q *RecordQuery) WhereKinds(kinds []string) *RecordQuery {
	return q.whereIn("kind", kinds)
}

func (q *RecordQuery) WhereRecordIDs(ids []string) *RecordQuery {
	return q.whereIn("record_id", ids)
}

func (q *RecordQuery) whereIn(column string, values []string) *RecordQuery {
	if len(values) == 0 {
		return q
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return q.Where(fmt.Sprintf("%s IN (%s)", column, placeholders), args...)
}

func (q *RecordQuery) OrderBy(orderBy string) *RecordQuery {
	q.orderBy = orderBy
	return q
}

func (q *RecordQuery) Limit(limit int) *RecordQuery {
	q.limit = limit
	return q
}

func (q *RecordQuery) Build() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM records", q.columns)
	if len(q.filters) > 0 {
		query += " WHERE " + strings.Join(q.filters, " AND ")
	}
	if q.orderBy != "" {
		query += " ORDER BY " + q.orderBy
	}
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return query, q.args
}
