package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// QueryPlaceholder is replaced by the escaped query in lookup paths.
const QueryPlaceholder = "{query}"

// Config is the runtime configuration read from config.yaml.
type Config struct {
	API     APIConfig         `yaml:"api"`
	UI      UIConfig          `yaml:"ui"`
	Cache   CacheConfig       `yaml:"cache"`
	Lookups map[string]Lookup `yaml:"lookups"`
}

type APIConfig struct {
	BaseURL  string        `yaml:"base_url"`
	TokenEnv string        `yaml:"token_env"`
	Timeout  time.Duration `yaml:"timeout"`
}

type UIConfig struct {
	Theme string `yaml:"theme"`
	// Touch disables closing suggestion lists when focus leaves them.
	Touch bool `yaml:"touch"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	KeyEnv  string `yaml:"key_env"`
	Offline bool   `yaml:"offline"`
}

// Lookup describes one typeahead search against the backend.
type Lookup struct {
	Title        string `yaml:"title"`
	Kind         string `yaml:"kind"`
	Path         string `yaml:"path"`
	Method       string `yaml:"method"`
	RequestKey   string `yaml:"request_key"`
	AllowUnknown bool   `yaml:"allow_unknown"`
	Placeholder  string `yaml:"placeholder"`
}

// Dynamic reports whether the path depends on the query.
func (l Lookup) Dynamic() bool {
	return strings.Contains(l.Path, QueryPlaceholder)
}

// ResolvePath substitutes the escaped query into the lookup path.
func (l Lookup) ResolvePath(query string) string {
	return strings.ReplaceAll(l.Path, QueryPlaceholder, url.QueryEscape(query))
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  "http://localhost:8080/v1",
			TokenEnv: TokenEnv,
			Timeout:  RequestTimeout,
		},
		UI: UIConfig{
			Theme: "default",
		},
		Cache: CacheConfig{
			Enabled: true,
			KeyEnv:  CacheKeyEnv,
		},
		Lookups: DefaultLookups(),
	}
}

// DefaultLookups mirrors the officer search buttons.
func DefaultLookups() map[string]Lookup {
	return map[string]Lookup{
		LookupName: {
			Title:       "Name Search",
			Kind:        KindCitizen,
			Path:        "/search/name",
			Method:      "POST",
			RequestKey:  "name",
			Placeholder: "John Doe",
		},
		LookupPlate: {
			Title:       "Plate Search",
			Kind:        KindVehicle,
			Path:        "/search/vehicle",
			Method:      "POST",
			RequestKey:  "plateOrVin",
			Placeholder: "Plate or VIN",
		},
		LookupWeapon: {
			Title:       "Weapon Search",
			Kind:        KindWeapon,
			Path:        "/search/weapon",
			Method:      "POST",
			RequestKey:  "serialNumber",
			Placeholder: "Serial number",
		},
		LookupUnit: {
			Title:       "Select Unit",
			Kind:        KindUnit,
			Path:        "/leo/officers?query=" + QueryPlaceholder,
			Method:      "GET",
			Placeholder: "Callsign or name",
		},
	}
}

// Load reads the config file at path. A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the lookups and API settings.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" && !c.Cache.Offline {
		return fmt.Errorf("api.base_url is required unless cache.offline is set")
	}
	if c.API.BaseURL != "" {
		if _, err := url.Parse(c.API.BaseURL); err != nil {
			return fmt.Errorf("invalid api.base_url: %w", err)
		}
	}
	for name, l := range c.Lookups {
		if l.Path == "" {
			return fmt.Errorf("lookup %q: path is required", name)
		}
		switch l.Method {
		case "GET", "POST":
		default:
			return fmt.Errorf("lookup %q: unsupported method %q", name, l.Method)
		}
		if l.Kind == "" {
			return fmt.Errorf("lookup %q: kind is required", name)
		}
	}
	return nil
}

// Lookup returns the named lookup definition.
func (c *Config) Lookup(name string) (Lookup, bool) {
	l, ok := c.Lookups[name]
	return l, ok
}

func (c *Config) fillDefaults() {
	if c.API.TokenEnv == "" {
		c.API.TokenEnv = TokenEnv
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = RequestTimeout
	}
	if c.Cache.KeyEnv == "" {
		c.Cache.KeyEnv = CacheKeyEnv
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "default"
	}
	if c.Lookups == nil {
		c.Lookups = DefaultLookups()
	}
	for name, l := range c.Lookups {
		l.Method = strings.ToUpper(l.Method)
		if l.Method == "" {
			l.Method = "POST"
		}
		if l.Title == "" {
			l.Title = name
		}
		c.Lookups[name] = l
	}
}
