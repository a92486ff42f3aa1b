package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrDatabaseEncrypted = errors.New("cache is sealed; a passphrase is required")
	ErrDatabaseCorrupted = errors.New("cache file is corrupted")
	ErrWrongPassphrase   = errors.New("incorrect passphrase")
	ErrLocked            = errors.New("cache is in use by another cadlookup instance")
	ErrNotFound          = errors.New("record not found")
)

const (
	EntityRecord  = "record"
	EntitySetting = "setting"
	EntityHistory = "lookup history"
)

type OpError struct {
	Op       string
	Resource string
	ID       string
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(resource, op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: resource, ID: id, Err: err}
}

func isNotADatabase(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrNotADB
}
