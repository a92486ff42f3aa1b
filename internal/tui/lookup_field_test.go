package tui

import (
	"testing"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/testutil"
)

func TestNewLookupFieldUnknownKind(t *testing.T) {
	_, err := newLookupField("pets", config.Lookup{Kind: "pet", Path: "/pets", Method: "POST"}, fieldOptions{})
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestNewLookupFieldPerKind(t *testing.T) {
	for name, l := range config.DefaultLookups() {
		field, err := newLookupField(name, l, fieldOptions{Styles: Themes["default"].suggestionStyles()})
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if field.Focused() || field.Open() {
			t.Fatalf("lookup %s: expected idle field", name)
		}
	}
}

func TestSearchConfigResolvesDynamicPath(t *testing.T) {
	unit := config.DefaultLookups()[config.LookupUnit]
	sc := searchConfig(unit)
	if got := sc.Path.Resolve("1A 12"); got != "/leo/officers?query=1A+12" {
		t.Fatalf("unexpected path %q", got)
	}
	name := config.DefaultLookups()[config.LookupName]
	sc = searchConfig(name)
	if got := sc.Path.Resolve("john"); got != "/search/name" {
		t.Fatalf("unexpected path %q", got)
	}
	if sc.RequestKey != "name" || sc.Method != "POST" {
		t.Fatalf("unexpected search config %+v", sc)
	}
}

func TestSuggestionRenderers(t *testing.T) {
	dob := time.Date(1985, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := renderCitizen(models.Citizen{Name: "John", Surname: "Doe", DateOfBirth: &dob}); got != "John Doe  1985-12-01" {
		t.Fatalf("unexpected citizen row %q", got)
	}
	owner := testutil.NewCitizen("c9").WithName("Ann", "Lee").Build()
	if got := renderVehicle(testutil.NewVehicle("v1", "ab1").WithOwner(owner).Build()); got != "AB1 (Sultan)  Ann Lee" {
		t.Fatalf("unexpected vehicle row %q", got)
	}
	if got := renderUnit(onDutyUnit()); got != "1A-12 Jane Doe  [On duty]" {
		t.Fatalf("unexpected unit row %q", got)
	}
	if got := unitName(nil); got != "none" {
		t.Fatalf("unexpected unit name %q", got)
	}
}
