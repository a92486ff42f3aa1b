// Package database is the local SQLite cache of looked-up records, user
// settings and the lookup history.
package database

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/util"
	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

const defaultDBTimeout = 5 * time.Second

const (
	settingCacheSalt  = "cache_salt"
	settingCacheCheck = "cache_check"
)

var cacheCheckPlain = []byte("cadlookup-cache")

// Database wraps the cache connection. The lock file is held for the
// lifetime of the handle.
type Database struct {
	DB     *sql.DB
	dbFile string
	sealer *util.Sealer
	lock   *flock.Flock
}

// Open opens or creates the cache at path. A non-empty passphrase seals
// record payloads; opening an existing sealed cache with another
// passphrase fails with ErrWrongPassphrase.
func Open(ctx context.Context, path, passphrase string) (*Database, error) {
	lock, err := acquireLock(path + ".lock")
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open cache: %w", err)
	}
	conn.SetMaxOpenConns(1)

	d := &Database{DB: conn, dbFile: path, lock: lock}
	if err := d.init(ctx, passphrase); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) init(ctx context.Context, passphrase string) error {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()

	err := d.DB.PingContext(ctx)
	if err == nil {
		err = d.createTables(ctx)
	}
	if err != nil {
		if isNotADatabase(err) {
			return ErrDatabaseCorrupted
		}
		return err
	}
	if err := d.migrate(ctx); err != nil {
		return err
	}
	if passphrase != "" {
		return d.unseal(ctx, passphrase)
	}
	if _, sealed := d.GetSetting(ctx, settingCacheCheck); sealed {
		return ErrDatabaseEncrypted
	}
	return nil
}

func (d *Database) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			record_id TEXT NOT NULL,
			label TEXT NOT NULL,
			payload BLOB NOT NULL,
			looked_up_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(kind, record_id)
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS lookup_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lookup TEXT NOT NULL,
			query TEXT NOT NULL,
			record_id TEXT,
			officer_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, query := range queries {
		if _, err := d.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func (d *Database) migrate(ctx context.Context) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_records_looked_up ON records(looked_up_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind)",
		"CREATE INDEX IF NOT EXISTS idx_history_created ON lookup_history(created_at DESC)",
	}
	for _, stmt := range indexes {
		if _, err := d.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// unseal derives the payload key and checks it against the stored probe.
func (d *Database) unseal(ctx context.Context, passphrase string) error {
	var salt []byte
	if encoded, ok := d.GetSetting(ctx, settingCacheSalt); ok {
		decoded, err := hex.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("%w: bad salt", ErrDatabaseCorrupted)
		}
		salt = decoded
	} else {
		fresh, err := util.NewSalt()
		if err != nil {
			return err
		}
		salt = fresh
		if err := d.SetSetting(ctx, settingCacheSalt, hex.EncodeToString(salt)); err != nil {
			return err
		}
	}

	sealer, err := util.NewSealer(util.DeriveKey(passphrase, salt))
	if err != nil {
		return err
	}

	if encoded, ok := d.GetSetting(ctx, settingCacheCheck); ok {
		probe, err := hex.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("%w: bad probe", ErrDatabaseCorrupted)
		}
		plain, err := sealer.Open(probe, nil)
		if err != nil || !bytes.Equal(plain, cacheCheckPlain) {
			return ErrWrongPassphrase
		}
	} else {
		var plainRows int
		if err := d.DB.QueryRowContext(ctx, "SELECT COUNT(1) FROM records").Scan(&plainRows); err != nil {
			return wrapErr(EntityRecord, "count", "", err)
		}
		if plainRows > 0 {
			// Existing payloads were written unsealed.
			if _, err := d.DB.ExecContext(ctx, "DELETE FROM records"); err != nil {
				return wrapErr(EntityRecord, "reset", "", err)
			}
		}
		probe, err := sealer.Seal(cacheCheckPlain, nil)
		if err != nil {
			return err
		}
		if err := d.SetSetting(ctx, settingCacheCheck, hex.EncodeToString(probe)); err != nil {
			return err
		}
	}
	d.sealer = sealer
	return nil
}

// Sealed reports whether payloads are encrypted at rest.
func (d *Database) Sealed() bool {
	return d.sealer != nil
}

// Path returns the cache file location.
func (d *Database) Path() string {
	return d.dbFile
}

func (d *Database) Close() error {
	var errs []error
	if d.DB != nil {
		errs = append(errs, d.DB.Close())
	}
	if d.lock != nil {
		errs = append(errs, d.lock.Unlock())
	}
	return errors.Join(errs...)
}

func (d *Database) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func withDBContext(d *Database, ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	return fn(ctx)
}

func withDBContextResult[T any](d *Database, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	return fn(ctx)
}

// WithTx runs fn in a transaction, rolling back on error.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return withDBContext(d, ctx, func(ctx context.Context) error {
		tx, err := d.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Join(err, rbErr)
			}
			return err
		}
		return tx.Commit()
	})
}
