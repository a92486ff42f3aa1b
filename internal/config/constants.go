package config

import "time"

// Search timing.
const (
	DebounceDelay  = 150 * time.Millisecond
	RequestTimeout = 10 * time.Second
)

// Query constraints.
const (
	MinQueryLength = 2
	MaxQueryLength = 64
)

// Record kinds served by the backend.
const (
	KindCitizen = "citizen"
	KindVehicle = "vehicle"
	KindWeapon  = "weapon"
	KindUnit    = "unit"
	KindCall    = "call"
)

// Lookup names used by the console buttons.
const (
	LookupName   = "name"
	LookupPlate  = "plate"
	LookupWeapon = "weapon"
	LookupUnit   = "unit"
)

// Backend actions.
const (
	PanicButtonPath = "/leo/panic-button"
)

// Database/application settings.
const (
	AppName        = "cadlookup"
	DBFileName     = "cadlookup.db"
	LogFileName    = "cadlookup.log"
	ConfigFileName = "config.yaml"
	TokenEnv       = "CAD_API_TOKEN"
	CacheKeyEnv    = "CAD_CACHE_KEY"
	MaxRecentItems = 20
	CacheRetention = 30 * 24 * time.Hour
)
