// Package config loads and validates application configuration. Values are
// layered with koanf: built-in defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// Trip windows accepted by TripWindow.
const (
	WindowHoliday  = "holiday"
	WindowDecember = "december"
)

// FileEnv names the variable holding the config file path.
const FileEnv = "CONFIG_FILE"

const defaultFile = "config.yaml"

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `koanf:"port"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `koanf:"database_url"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins. The
	// websocket origin check uses the same list.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `koanf:"cors_origins"`

	// PhotoDir is where uploaded photos and thumbnails are stored.
	PhotoDir string `koanf:"photo_dir"`

	// MaxUploadBytes caps every request body, photo uploads included.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// UploadsPerMinute and UploadBurst rate limit POST /photos per visitor.
	UploadsPerMinute float64 `koanf:"uploads_per_minute"`
	UploadBurst      int     `koanf:"upload_burst"`

	// TripWindow selects the calendar: "holiday" (Dec 18 - Jan 2) or
	// "december" (Dec 18 - Dec 31).
	TripWindow string `koanf:"trip_window"`

	// Seed fills empty collections with the starter itinerary and packing
	// list at startup.
	Seed bool `koanf:"seed"`

	// Roster is the family, in grid column order. YAML only; defaults to
	// domain.DefaultRoster.
	Roster domain.Roster `koanf:"roster"`
}

func defaults() Config {
	return Config{
		Port:             "8080",
		LogLevel:         "info",
		CORSOrigins:      []string{"http://localhost:5173"},
		PhotoDir:         "data/photos",
		MaxUploadBytes:   10 << 20,
		UploadsPerMinute: 10,
		UploadBurst:      5,
		TripWindow:       WindowHoliday,
		Seed:             true,
	}
}

// Load builds the Config from defaults, the YAML file named by CONFIG_FILE
// (default config.yaml; a missing file is fine) and environment variables
// such as DATABASE_URL or PORT. Empty variables are ignored.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config.Load: defaults: %w", err)
	}

	path := os.Getenv(FileEnv)
	if path == "" {
		path = defaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: %s: %w", path, err)
	}

	err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, v string) (string, any) {
			if v == "" {
				return "", nil
			}
			key = strings.ToLower(key)
			if key == "cors_origins" {
				return key, splitCSV(v)
			}
			return key, v
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if len(cfg.Roster) == 0 {
		cfg.Roster = domain.DefaultRoster()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid key at once.
func (c Config) Validate() error {
	var problems []string
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.TripWindow != WindowHoliday && c.TripWindow != WindowDecember {
		problems = append(problems, fmt.Sprintf("trip_window must be %q or %q, got %q", WindowHoliday, WindowDecember, c.TripWindow))
	}
	if c.MaxUploadBytes <= 0 {
		problems = append(problems, "max_upload_bytes must be positive")
	}
	if c.UploadsPerMinute <= 0 || c.UploadBurst <= 0 {
		problems = append(problems, "uploads_per_minute and upload_burst must be positive")
	}
	if err := c.Roster.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
