package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind enumerates the record types served by the backend.
type Kind string

const (
	KindCitizen Kind = "citizen"
	KindVehicle Kind = "vehicle"
	KindWeapon  Kind = "weapon"
	KindUnit    Kind = "unit"
	KindCall    Kind = "call"
)

// Record is implemented by every looked-up entity.
type Record interface {
	SuggestionID() string
	RecordKind() Kind
	Label() string
}

// Value is a backend lookup value (license type, vehicle model, status).
type Value struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return v.Value
}

// Citizen represents a registered person.
type Citizen struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Surname     string     `json:"surname"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      *Value     `json:"gender,omitempty"`
	Address     string     `json:"address,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	License     *Value     `json:"driversLicense,omitempty"`
	Flags       []Value    `json:"flags,omitempty"`
	Warrants    int        `json:"warrantCount,omitempty"`
	Deceased    bool       `json:"dead,omitempty"`
}

func (c Citizen) SuggestionID() string { return c.ID }
func (c Citizen) RecordKind() Kind     { return KindCitizen }
func (c Citizen) Label() string        { return strings.TrimSpace(c.Name + " " + c.Surname) }

// Vehicle represents a registered vehicle.
type Vehicle struct {
	ID           string   `json:"id"`
	Plate        string   `json:"plate"`
	VinNumber    string   `json:"vinNumber,omitempty"`
	Color        string   `json:"color,omitempty"`
	Model        *Value   `json:"model,omitempty"`
	Registration *Value   `json:"registrationStatus,omitempty"`
	Owner        *Citizen `json:"citizen,omitempty"`
	Impounded    bool     `json:"impounded,omitempty"`
}

func (v Vehicle) SuggestionID() string { return v.ID }
func (v Vehicle) RecordKind() Kind     { return KindVehicle }
func (v Vehicle) Label() string {
	if model := v.Model.String(); model != "" {
		return fmt.Sprintf("%s (%s)", strings.ToUpper(v.Plate), model)
	}
	return strings.ToUpper(v.Plate)
}

// Weapon represents a registered firearm.
type Weapon struct {
	ID           string   `json:"id"`
	SerialNumber string   `json:"serialNumber"`
	Model        *Value   `json:"model,omitempty"`
	Registration *Value   `json:"registrationStatus,omitempty"`
	Owner        *Citizen `json:"citizen,omitempty"`
}

func (w Weapon) SuggestionID() string { return w.ID }
func (w Weapon) RecordKind() Kind     { return KindWeapon }
func (w Weapon) Label() string {
	if model := w.Model.String(); model != "" {
		return fmt.Sprintf("%s (%s)", w.SerialNumber, model)
	}
	return w.SerialNumber
}

// Unit represents a law-enforcement officer or combined unit.
type Unit struct {
	ID         string   `json:"id"`
	Callsign   string   `json:"callsign"`
	Callsign2  string   `json:"callsign2,omitempty"`
	FirstName  string   `json:"firstName,omitempty"`
	LastName   string   `json:"lastName,omitempty"`
	BadgeNo    string   `json:"badgeNumber,omitempty"`
	Department *Value   `json:"department,omitempty"`
	Status     *Status  `json:"status,omitempty"`
	Members    []string `json:"officers,omitempty"`
}

// Status is the on-duty state of a unit.
type Status struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	ShouldDo string `json:"shouldDo"`
}

// Off-duty status marker sent by the backend.
const ShouldDoSetOffDuty = "SET_OFF_DUTY"

func (u Unit) SuggestionID() string { return u.ID }
func (u Unit) RecordKind() Kind     { return KindUnit }
func (u Unit) Label() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if u.Combined() {
		name = strings.Join(u.Members, ", ")
	}
	return strings.TrimSpace(u.FullCallsign() + " " + name)
}

// FullCallsign joins both callsign parts as the dispatch templates do.
func (u Unit) FullCallsign() string {
	if u.Callsign2 == "" {
		return u.Callsign
	}
	return u.Callsign + "-" + u.Callsign2
}

// Combined reports whether the unit pairs several officers.
func (u Unit) Combined() bool {
	return len(u.Members) > 1
}

// OnDuty reports whether the unit may run searches and actions.
func (u *Unit) OnDuty() bool {
	if u == nil || u.Status == nil {
		return false
	}
	return u.Status.ShouldDo != ShouldDoSetOffDuty
}

// Call represents a 911 call.
type Call struct {
	ID          string    `json:"id"`
	CaseNumber  int       `json:"caseNumber"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Caller      string    `json:"name,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Ended       bool      `json:"ended,omitempty"`
}

func (c Call) SuggestionID() string { return c.ID }
func (c Call) RecordKind() Kind     { return KindCall }
func (c Call) Label() string        { return fmt.Sprintf("#%d %s", c.CaseNumber, c.Location) }

// CachedRecord is a record stored in the local cache.
type CachedRecord struct {
	ID         int64     `json:"id"`
	Kind       Kind      `json:"kind"`
	RecordID   string    `json:"recordId"`
	Label      string    `json:"label"`
	Payload    []byte    `json:"-"`
	LookedUpAt time.Time `json:"lookedUpAt"`
	Score      int       `json:"-"`
}

// LookupEntry is one row of the lookup history.
type LookupEntry struct {
	ID        int64
	Lookup    string
	Query     string
	RecordID  string
	OfficerID string
	CreatedAt time.Time
}
