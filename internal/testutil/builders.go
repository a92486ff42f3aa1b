// Package testutil holds record builders shared by package tests.
package testutil

import (
	"time"

	"github.com/akyairhashvil/cadlookup/internal/models"
)

// CitizenBuilder provides fluent API for creating test citizens.
type CitizenBuilder struct {
	citizen models.Citizen
}

func NewCitizen(id string) *CitizenBuilder {
	return &CitizenBuilder{
		citizen: models.Citizen{
			ID:      id,
			Name:    "John",
			Surname: "Doe",
		},
	}
}

func (b *CitizenBuilder) WithName(name, surname string) *CitizenBuilder {
	b.citizen.Name = name
	b.citizen.Surname = surname
	return b
}

func (b *CitizenBuilder) BornOn(year int, month time.Month, day int) *CitizenBuilder {
	dob := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	b.citizen.DateOfBirth = &dob
	return b
}

func (b *CitizenBuilder) WithAddress(address string) *CitizenBuilder {
	b.citizen.Address = address
	return b
}

func (b *CitizenBuilder) WithFlags(flags ...string) *CitizenBuilder {
	for _, f := range flags {
		b.citizen.Flags = append(b.citizen.Flags, models.Value{ID: f, Value: f})
	}
	return b
}

func (b *CitizenBuilder) Build() models.Citizen {
	return b.citizen
}

// VehicleBuilder provides fluent API for creating test vehicles.
type VehicleBuilder struct {
	vehicle models.Vehicle
}

func NewVehicle(id, plate string) *VehicleBuilder {
	return &VehicleBuilder{
		vehicle: models.Vehicle{
			ID:    id,
			Plate: plate,
			Model: &models.Value{ID: "m1", Value: "Sultan"},
		},
	}
}

func (b *VehicleBuilder) WithOwner(owner models.Citizen) *VehicleBuilder {
	b.vehicle.Owner = &owner
	return b
}

func (b *VehicleBuilder) WithModel(model string) *VehicleBuilder {
	if model == "" {
		b.vehicle.Model = nil
		return b
	}
	b.vehicle.Model = &models.Value{ID: model, Value: model}
	return b
}

func (b *VehicleBuilder) Impounded() *VehicleBuilder {
	b.vehicle.Impounded = true
	return b
}

func (b *VehicleBuilder) Build() models.Vehicle {
	return b.vehicle
}

// UnitBuilder provides fluent API for creating test units.
type UnitBuilder struct {
	unit models.Unit
}

func NewUnit(id, callsign string) *UnitBuilder {
	return &UnitBuilder{
		unit: models.Unit{
			ID:       id,
			Callsign: callsign,
		},
	}
}

func (b *UnitBuilder) WithCallsign2(callsign2 string) *UnitBuilder {
	b.unit.Callsign2 = callsign2
	return b
}

func (b *UnitBuilder) WithOfficer(first, last string) *UnitBuilder {
	b.unit.FirstName = first
	b.unit.LastName = last
	return b
}

func (b *UnitBuilder) Combined(members ...string) *UnitBuilder {
	b.unit.Members = members
	return b
}

func (b *UnitBuilder) OnDuty() *UnitBuilder {
	b.unit.Status = &models.Status{ID: "on", Value: "On duty", ShouldDo: "SET_STATUS"}
	return b
}

func (b *UnitBuilder) OffDuty() *UnitBuilder {
	b.unit.Status = &models.Status{ID: "off", Value: "Off duty", ShouldDo: models.ShouldDoSetOffDuty}
	return b
}

func (b *UnitBuilder) Build() models.Unit {
	return b.unit
}
