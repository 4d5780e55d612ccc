package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Oversold policies for slots whose capacity was lowered below the live
// booking count after bookings already existed.
const (
	OversoldKeep  = "keep"  // freeze the slot: report it full, touch nothing
	OversoldEvict = "evict" // trim excess bookings newest-first at read time
)

// Config represents the overall application configuration.
type Config struct {
	Env     string        `yaml:"env"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Auth    AuthConfig    `yaml:"auth"`
	Booking BookingConfig `yaml:"booking"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestIPHeader string        `yaml:"request_ip_header"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// StoreConfig selects and configures the row store backend.
type StoreConfig struct {
	// Backend is either "csv" or "database".
	Backend  string         `yaml:"backend"`
	CSV      CSVConfig      `yaml:"csv"`
	Database DatabaseConfig `yaml:"database"`
}

// CSVConfig holds the flat-file backend configuration.
type CSVConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig holds the database-backed row store configuration.
type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds the administrator credentials and session settings.
// Member credentials live in the users table of the row store.
type AuthConfig struct {
	AdminID           string `yaml:"admin_id"`
	AdminPassword     string `yaml:"admin_password"`
	AdminName         string `yaml:"admin_name"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
}

// BookingConfig holds booking engine policy knobs.
type BookingConfig struct {
	OversoldPolicy string `yaml:"oversold_policy"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	switch cfg.Store.Backend {
	case "":
		cfg.Store.Backend = "csv"
	case "csv", "database":
	default:
		return nil, fmt.Errorf("store.backend must be \"csv\" or \"database\", got %q", cfg.Store.Backend)
	}
	if cfg.Store.CSV.Dir == "" {
		cfg.Store.CSV.Dir = "./data"
	}
	if cfg.Store.Backend == "database" {
		switch cfg.Store.Database.Driver {
		case "sqlite", "postgres":
		default:
			return nil, fmt.Errorf("store.database.driver must be \"sqlite\" or \"postgres\", got %q", cfg.Store.Database.Driver)
		}
		if cfg.Store.Database.DSN == "" {
			return nil, fmt.Errorf("store.database.dsn is required for the database backend")
		}
	}

	if cfg.Auth.AdminID == "" {
		return nil, fmt.Errorf("auth.admin_id is required")
	}
	if cfg.Auth.AdminPassword == "" {
		return nil, fmt.Errorf("auth.admin_password is required")
	}
	if cfg.Auth.AdminName == "" {
		cfg.Auth.AdminName = cfg.Auth.AdminID
	}
	if cfg.Auth.SessionTTLMinutes <= 0 {
		cfg.Auth.SessionTTLMinutes = 120
	}

	switch cfg.Booking.OversoldPolicy {
	case "":
		cfg.Booking.OversoldPolicy = OversoldKeep
	case OversoldKeep, OversoldEvict:
	default:
		return nil, fmt.Errorf("booking.oversold_policy must be %q or %q, got %q", OversoldKeep, OversoldEvict, cfg.Booking.OversoldPolicy)
	}

	return &cfg, nil
}
