package models

import (
	"encoding/json"
	"fmt"
)

// Decode unmarshals a cached payload into the record type for kind.
func Decode(kind Kind, payload []byte) (Record, error) {
	var (
		rec Record
		err error
	)
	switch kind {
	case KindCitizen:
		var c Citizen
		err = json.Unmarshal(payload, &c)
		rec = c
	case KindVehicle:
		var v Vehicle
		err = json.Unmarshal(payload, &v)
		rec = v
	case KindWeapon:
		var w Weapon
		err = json.Unmarshal(payload, &w)
		rec = w
	case KindUnit:
		var u Unit
		err = json.Unmarshal(payload, &u)
		rec = u
	case KindCall:
		var c Call
		err = json.Unmarshal(payload, &c)
		rec = c
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return rec, nil
}
