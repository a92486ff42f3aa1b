package database

import (
	"context"
	"database/sql"
	"errors"
)

// Setting keys used by the console.
const (
	SettingTheme         = "theme"
	SettingActiveOfficer = "active_officer"
)

func (d *Database) GetSetting(ctx context.Context, key string) (string, bool) {
	value, err := withDBContextResult(d, ctx, func(ctx context.Context) (*string, error) {
		var value *string
		err := d.DB.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
		return value, err
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logDBError(wrapErr(EntitySetting, "get", key, err))
		}
		return "", false
	}
	if value != nil {
		return *value, true
	}
	return "", false
}

func (d *Database) SetSetting(ctx context.Context, key, value string) error {
	return withDBContext(d, ctx, func(ctx context.Context) error {
		_, err := d.DB.ExecContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
		return wrapErr(EntitySetting, "set", key, err)
	})
}

func (d *Database) DeleteSetting(ctx context.Context, key string) error {
	return withDBContext(d, ctx, func(ctx context.Context) error {
		_, err := d.DB.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
		return wrapErr(EntitySetting, "delete", key, err)
	})
}
