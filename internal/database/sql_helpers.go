package database

import (
	"database/sql"

	"github.com/akyairhashvil/cadlookup/internal/util"
)

// nullableString converts a string to sql.NullString for optional fields.
// Empty strings are treated as NULL.
func nullableString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func logDBError(err error) {
	util.LogError("database", err)
}

// payloadBinding ties a sealed payload to its row.
func payloadBinding(kind, recordID string) []byte {
	return []byte(kind + "/" + recordID)
}
