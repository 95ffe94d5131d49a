package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	Server   ServerConfig   `yaml:"server"`
	Request  RequestConfig  `yaml:"request"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Aerodata AerodataConfig `yaml:"aerodata"`
	Session  SessionConfig  `yaml:"session"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Gap     Duration      `yaml:"gap"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// LogSettings holds configuration for a specific log file.
type LogSettings struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path             string   `yaml:"path"`
	CacheTTL         Duration `yaml:"cache_ttl"`
	AttemptRetention Duration `yaml:"attempt_retention"`
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	// StaticDir is served at / when set, with index.html as the fallback
	// for unknown paths.
	StaticDir string `yaml:"static_dir"`
}

// ScenarioConfig holds timeline pacing and UK defaults.
type ScenarioConfig struct {
	StartTimeEarliest string   `yaml:"start_time_earliest"` // HH:MM
	StartTimeLatest   string   `yaml:"start_time_latest"`
	CruiseAltitudeFt  float64  `yaml:"cruise_altitude_ft"`
	CruiseAirspeedKt  float64  `yaml:"cruise_airspeed_kt"`
	ClimbAltitudeFt   float64  `yaml:"climb_altitude_ft"`
	ClimbAirspeedKt   float64  `yaml:"climb_airspeed_kt"`
	AverageSpeed      float64  `yaml:"average_speed_km_per_min"`
	FlightTimeFactor  float64  `yaml:"flight_time_multiplier"`
	ZoneExitDistance  Distance `yaml:"zone_exit_distance"`
	PreIntersection   Distance `yaml:"pre_intersection"`
	ArrivalBufferMin  int      `yaml:"arrival_buffer_min"`
	MaxFlightLevel    float64  `yaml:"max_flight_level"`
	FISName           string   `yaml:"fis_name"`
	FISFrequency      string   `yaml:"fis_frequency"`
	ConspicuitySquawk string   `yaml:"conspicuity_squawk"`
	Callsign          string   `yaml:"callsign"`
	Prefix            string   `yaml:"prefix"`
	AircraftType      string   `yaml:"aircraft_type"`
	CacheSize         int      `yaml:"cache_size"`
}

// AerodataConfig holds the reference data source and its sanity thresholds.
type AerodataConfig struct {
	Source        string            `yaml:"source"` // "openaip", "file"
	BaseURL       string            `yaml:"base_url"`
	Key           string            `yaml:"key"`
	Country       string            `yaml:"country"`
	PageSize      int               `yaml:"page_size"`
	AirportsFile  string            `yaml:"airports_file"`
	AirspacesFile string            `yaml:"airspaces_file"`
	MinAirports   int               `yaml:"min_airports"`
	MinAirspaces  int               `yaml:"min_airspaces"`
	CacheTTL      Duration          `yaml:"cache_ttl"`
	ExplicitZones map[string]string `yaml:"explicit_zones"`
}

// SessionConfig holds the retry policy and session lifetime.
type SessionConfig struct {
	RevealThreshold int      `yaml:"reveal_threshold"`
	DeclineCooldown int      `yaml:"decline_cooldown"`
	TTL             Duration `yaml:"ttl"`
	SweepInterval   Duration `yaml:"sweep_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries: 3,
			Timeout: Duration(60 * time.Second),
			Gap:     Duration(500 * time.Millisecond),
			Backoff: BackoffConfig{
				BaseDelay: Duration(500 * time.Millisecond),
				MaxDelay:  Duration(30 * time.Second),
			},
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:       "./logs/server.log",
				Level:      "INFO",
				MaxSizeMB:  10,
				MaxBackups: 3,
			},
			Requests: LogSettings{
				Path:       "./logs/requests.log",
				Level:      "INFO",
				MaxSizeMB:  10,
				MaxBackups: 3,
			},
		},
		DB: DBConfig{
			Path:             "./data/rttrainer.db",
			CacheTTL:         Duration(30 * Day),
			AttemptRetention: Duration(13 * Week),
		},
		Server: ServerConfig{
			Address: "localhost:8080",
		},
		Scenario: ScenarioConfig{
			StartTimeEarliest: "09:00",
			StartTimeLatest:   "16:00",
			CruiseAltitudeFt:  2000,
			CruiseAirspeedKt:  100,
			ClimbAltitudeFt:   1200,
			ClimbAirspeedKt:   70,
			AverageSpeed:      3.75,
			FlightTimeFactor:  1.3,
			ZoneExitDistance:  Distance(4000),
			PreIntersection:   Distance(500),
			ArrivalBufferMin:  10,
			MaxFlightLevel:    30,
			FISName:           "London Information",
			FISFrequency:      "124.600",
			ConspicuitySquawk: "7000",
			Callsign:          "G-OFLY",
			Prefix:            "",
			AircraftType:      "Cessna 172",
			CacheSize:         64,
		},
		Aerodata: AerodataConfig{
			Source:        "openaip",
			BaseURL:       "https://api.core.openaip.net/api",
			Country:       "GB",
			PageSize:      1000,
			AirportsFile:  "./data/airports.json",
			AirspacesFile: "./data/airspaces.geojson",
			MinAirports:   50,
			MinAirspaces:  100,
			CacheTTL:      Duration(Week),
		},
		Session: SessionConfig{
			RevealThreshold: 3,
			DeclineCooldown: 3,
			TTL:             Duration(2 * time.Hour),
			SweepInterval:   Duration(time.Minute),
		},
	}
}

// Validate checks values that would make the trainer misbehave silently.
func (c *Config) Validate() error {
	lo, err := ParseClock(c.Scenario.StartTimeEarliest)
	if err != nil {
		return fmt.Errorf("scenario.start_time_earliest: %w", err)
	}
	hi, err := ParseClock(c.Scenario.StartTimeLatest)
	if err != nil {
		return fmt.Errorf("scenario.start_time_latest: %w", err)
	}
	if hi <= lo {
		return fmt.Errorf("scenario start time window %s-%s is empty", c.Scenario.StartTimeEarliest, c.Scenario.StartTimeLatest)
	}
	if c.Session.RevealThreshold < 1 {
		return fmt.Errorf("session.reveal_threshold must be at least 1, got %d", c.Session.RevealThreshold)
	}
	if c.Session.DeclineCooldown < 1 {
		return fmt.Errorf("session.decline_cooldown must be at least 1, got %d", c.Session.DeclineCooldown)
	}
	switch c.Aerodata.Source {
	case "openaip", "file":
	default:
		return fmt.Errorf("unknown aerodata.source %q", c.Aerodata.Source)
	}
	return nil
}

var clockRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, nil
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Env fallback only, never written back
	if cfg.Aerodata.Key == "" {
		if key := os.Getenv("OPENAIP_API_KEY"); key != "" {
			cfg.Aerodata.Key = key
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# RT Trainer Configuration
# ------------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles)

`)
	data = append(header, data...)

	reSource := regexp.MustCompile(`(?m)^(\s+)source:`)
	data = reSource.ReplaceAll(data, []byte("${1}# Options: openaip, file\n${1}source:"))

	reKey := regexp.MustCompile(`(?m)^(\s+)key:`)
	data = reKey.ReplaceAll(data, []byte("${1}# Falls back to OPENAIP_API_KEY\n${1}key:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
