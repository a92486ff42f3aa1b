package database

import (
	"context"
	"testing"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/models"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if _, ok := db.GetSetting(ctx, SettingTheme); ok {
		t.Fatalf("expected missing setting")
	}
	if err := db.SetSetting(ctx, SettingTheme, "dracula"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := db.SetSetting(ctx, SettingTheme, "nord"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}
	if v, ok := db.GetSetting(ctx, SettingTheme); !ok || v != "nord" {
		t.Fatalf("GetSetting() = %q, %v", v, ok)
	}
	if err := db.DeleteSetting(ctx, SettingTheme); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	if _, ok := db.GetSetting(ctx, SettingTheme); ok {
		t.Fatalf("expected setting deleted")
	}
}

func TestLookupHistory(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	base := time.Now().Add(-time.Hour)
	entries := []models.LookupEntry{
		{Lookup: "name", Query: "john", RecordID: "c1", OfficerID: "u1", CreatedAt: base},
		{Lookup: "plate", Query: "abc", CreatedAt: base.Add(time.Minute)},
	}
	for _, e := range entries {
		if _, err := db.RecordLookup(ctx, e); err != nil {
			t.Fatalf("RecordLookup failed: %v", err)
		}
	}
	got, err := db.LookupHistory(ctx, 0)
	if err != nil {
		t.Fatalf("LookupHistory failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Lookup != "plate" || got[0].RecordID != "" {
		t.Fatalf("newest entry = %+v", got[0])
	}
	if got[1].OfficerID != "u1" || got[1].RecordID != "c1" {
		t.Fatalf("oldest entry = %+v", got[1])
	}
	one, err := db.LookupHistory(ctx, 1)
	if err != nil || len(one) != 1 {
		t.Fatalf("LookupHistory(1) = %v, %v", one, err)
	}
}
