package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/models"
)

const dateLayout = "2006-01-02"

func renderCitizen(c models.Citizen) string {
	if c.DateOfBirth == nil {
		return c.Label()
	}
	return fmt.Sprintf("%s  %s", c.Label(), c.DateOfBirth.Format(dateLayout))
}

func renderVehicle(v models.Vehicle) string {
	if v.Owner == nil {
		return v.Label()
	}
	return fmt.Sprintf("%s  %s", v.Label(), v.Owner.Label())
}

func renderWeapon(w models.Weapon) string {
	if w.Owner == nil {
		return w.Label()
	}
	return fmt.Sprintf("%s  %s", w.Label(), w.Owner.Label())
}

func renderUnit(u models.Unit) string {
	if u.Status == nil {
		return u.Label()
	}
	return fmt.Sprintf("%s  [%s]", u.Label(), u.Status.Value)
}

func renderCall(c models.Call) string {
	return c.Label()
}

// detailField is one labelled line of the detail pane and the record sheet.
type detailField struct {
	Label string
	Value string
}

// recordFields lists the printable fields of a record, skipping blanks.
func recordFields(rec models.Record) []detailField {
	var fields []detailField
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fields = append(fields, detailField{Label: label, Value: value})
		}
	}

	switch r := rec.(type) {
	case models.Citizen:
		add("Name", r.Label())
		add("Date of birth", formatDate(r.DateOfBirth))
		add("Gender", r.Gender.String())
		add("Address", r.Address)
		add("Phone", r.PhoneNumber)
		add("License", r.License.String())
		add("Flags", joinValues(r.Flags))
		if r.Warrants > 0 {
			add("Warrants", strconv.Itoa(r.Warrants))
		}
		if r.Deceased {
			add("Status", "Deceased")
		}
	case models.Vehicle:
		add("Plate", strings.ToUpper(r.Plate))
		add("Model", r.Model.String())
		add("Color", r.Color)
		add("VIN", r.VinNumber)
		add("Registration", r.Registration.String())
		if r.Owner != nil {
			add("Owner", r.Owner.Label())
		}
		if r.Impounded {
			add("Status", "Impounded")
		}
	case models.Weapon:
		add("Serial number", r.SerialNumber)
		add("Model", r.Model.String())
		add("Registration", r.Registration.String())
		if r.Owner != nil {
			add("Owner", r.Owner.Label())
		}
	case models.Unit:
		add("Callsign", r.FullCallsign())
		if r.Combined() {
			add("Officers", strings.Join(r.Members, ", "))
		} else {
			add("Name", strings.TrimSpace(r.FirstName+" "+r.LastName))
		}
		add("Badge", r.BadgeNo)
		add("Department", r.Department.String())
		if r.Status != nil {
			add("Status", r.Status.Value)
		}
	case models.Call:
		add("Case", "#"+strconv.Itoa(r.CaseNumber))
		add("Location", r.Location)
		add("Caller", r.Caller)
		add("Description", r.Description)
		if !r.CreatedAt.IsZero() {
			add("Created", r.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		if r.Ended {
			add("Status", "Ended")
		}
	default:
		add("Record", rec.Label())
	}
	return fields
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func joinValues(values []models.Value) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, v.Value)
	}
	return strings.Join(parts, ", ")
}

func kindTitle(kind models.Kind) string {
	s := string(kind)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// unitName is the active-officer line shown in the header.
func unitName(u *models.Unit) string {
	if u == nil {
		return "none"
	}
	if u.OnDuty() {
		return u.Label()
	}
	return u.Label() + " (off-duty)"
}
