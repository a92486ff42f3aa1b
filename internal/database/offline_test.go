package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/typeahead"
)

func TestOfflineTransportServesCachedRecords(t *testing.T) {
	ctx := context.Background()
	db := NewTestDataBuilder(t).
		WithCitizen("c1", "John", "Doe").
		WithVehicle("v1", "JD0001").
		Build()
	if _, err := db.SaveRecord(ctx, models.Unit{ID: "u1", Callsign: "1", Callsign2: "A-12", FirstName: "Sam"}); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	transport, err := NewOfflineTransport(db, config.DefaultLookups())
	if err != nil {
		t.Fatalf("NewOfflineTransport failed: %v", err)
	}

	body, err := transport.Do(ctx, typeahead.Request{
		Path:   "/search/name",
		Method: "POST",
		Body:   map[string]any{"name": "john"},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	var citizens []models.Citizen
	if err := json.Unmarshal(body, &citizens); err != nil {
		t.Fatalf("response is not a citizen list: %v (%s)", err, body)
	}
	if len(citizens) != 1 || citizens[0].ID != "c1" {
		t.Fatalf("citizens = %+v", citizens)
	}

	body, err = transport.Do(ctx, typeahead.Request{Path: "/leo/officers?query=1-A", Method: "GET", Body: map[string]any{}})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	var units []models.Unit
	if err := json.Unmarshal(body, &units); err != nil || len(units) != 1 {
		t.Fatalf("units = %+v (%v)", units, err)
	}

	body, err = transport.Do(ctx, typeahead.Request{Path: "/search/weapon", Method: "POST", Body: map[string]any{"serialNumber": "zz"}})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if string(body) != "[]" {
		t.Fatalf("empty result = %s, want []", body)
	}
}

func TestOfflineTransportUnknownRoute(t *testing.T) {
	db := setupTestDB(t, context.Background())
	transport, err := NewOfflineTransport(db, config.DefaultLookups())
	if err != nil {
		t.Fatalf("NewOfflineTransport failed: %v", err)
	}
	_, err = transport.Do(context.Background(), typeahead.Request{Path: "/nope"})
	if !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("err = %v, want ErrUnknownRoute", err)
	}
}

func TestOfflineTransportIgnoresTypedFilters(t *testing.T) {
	ctx := context.Background()
	db := NewTestDataBuilder(t).
		WithCitizen("c1", "John", "Doe").
		WithVehicle("v1", "JD0001").
		Build()
	transport, err := NewOfflineTransport(db, config.DefaultLookups())
	if err != nil {
		t.Fatalf("NewOfflineTransport failed: %v", err)
	}

	for _, query := range []string{"kind:vehicle JD", "id:v1", "kind:vehicle"} {
		body, err := transport.Do(ctx, typeahead.Request{
			Path:   "/search/name",
			Method: "POST",
			Body:   map[string]any{"name": query},
		})
		if err != nil {
			t.Fatalf("Do(%q) failed: %v", query, err)
		}
		var rows []struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			t.Fatalf("Do(%q) returned %s: %v", query, body, err)
		}
		for _, row := range rows {
			if row.ID != "c1" {
				t.Fatalf("Do(%q) leaked record %q from another kind", query, row.ID)
			}
		}
	}
}

func TestSearchKindKeepsKind(t *testing.T) {
	ctx := context.Background()
	db := NewTestDataBuilder(t).
		WithCitizen("c1", "John", "Doe").
		WithVehicle("v1", "JD0001").
		Build()

	records, err := db.SearchKind(ctx, models.KindCitizen, "", 10)
	if err != nil {
		t.Fatalf("SearchKind failed: %v", err)
	}
	if len(records) != 1 || records[0].RecordID != "c1" {
		t.Fatalf("records = %+v", records)
	}
	records, err = db.SearchKind(ctx, models.KindVehicle, "jd", 10)
	if err != nil {
		t.Fatalf("SearchKind failed: %v", err)
	}
	if len(records) != 1 || records[0].Kind != models.KindVehicle {
		t.Fatalf("records = %+v", records)
	}
}

func TestNewOfflineTransportRejectsConflictingRoutes(t *testing.T) {
	db := setupTestDB(t, context.Background())
	lookups := config.DefaultLookups()
	lookups["people"] = config.Lookup{Kind: config.KindUnit, Path: "/search/name", Method: "POST", RequestKey: "name"}
	if _, err := NewOfflineTransport(db, lookups); !errors.Is(err, ErrConflictingRoute) {
		t.Fatalf("err = %v, want ErrConflictingRoute", err)
	}

	lookups["people"] = config.Lookup{Kind: config.KindCitizen, Path: "/search/name/", Method: "POST", RequestKey: "name"}
	if _, err := NewOfflineTransport(db, lookups); err != nil {
		t.Fatalf("same kind on a shared path: %v", err)
	}
}

func TestRequestQuery(t *testing.T) {
	cases := []struct {
		req  typeahead.Request
		want string
	}{
		{typeahead.Request{Body: map[string]any{"plateOrVin": "ABC"}}, "ABC"},
		{typeahead.Request{Path: "/leo/officers?query=1-A%2012"}, "1-A 12"},
		{typeahead.Request{Path: "/x?term=foo"}, "foo"},
		{typeahead.Request{Path: "/x"}, ""},
	}
	for _, tc := range cases {
		if got := requestQuery(tc.req); got != tc.want {
			t.Fatalf("requestQuery(%+v) = %q, want %q", tc.req, got, tc.want)
		}
	}
}
