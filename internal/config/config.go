// Package config loads server settings from defaults, an optional YAML file
// and environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`

	// Timezone names the IANA location used for derived dates and "today".
	Timezone string `yaml:"timezone"`

	// Currency prefixes amounts in the dashboard activity feed.
	Currency string `yaml:"currency"`
}

type ServerConfig struct {
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"` // "*" allows any origin
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql or mongo

	DBPath   string `yaml:"db_path"`   // SQLite file
	MySQLDSN string `yaml:"mysql_dsn"` // go-sql-driver DSN

	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_database"`

	// ReconnectDelay is the fixed wait between connection attempts.
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text (colored) or json
}

type AuthConfig struct {
	// JWTSecret enables bearer-token authentication on /api when set.
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       5000,
			CORSOrigin: "*",
		},
		Storage: StorageConfig{
			Driver:         DriverSQLite,
			DBPath:         "./data/tracker.db",
			MongoDatabase:  "freelance_tracker",
			ReconnectDelay: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Timezone: "UTC",
		Currency: "₹",
	}
}

// Load builds the configuration. path may be empty; a path that does not
// exist is an error, since it was asked for explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	str("CORS_ORIGIN", &c.Server.CORSOrigin)

	str("STORE_DRIVER", &c.Storage.Driver)
	str("DB_PATH", &c.Storage.DBPath)
	str("MYSQL_DSN", &c.Storage.MySQLDSN)
	str("MONGODB_URI", &c.Storage.MongoURI)
	str("MONGODB_DATABASE", &c.Storage.MongoDatabase)
	if v, ok := lookup("RECONNECT_DELAY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RECONNECT_DELAY %q: %w", v, err)
		}
		c.Storage.ReconnectDelay = d
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	str("JWT_SECRET", &c.Auth.JWTSecret)
	if v, ok := lookup("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.Auth.TokenTTL = d
	}

	str("TIMEZONE", &c.Timezone)
	str("CURRENCY_SYMBOL", &c.Currency)
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Server.Port)
	}

	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path is required for the sqlite driver")
		}
	case DriverMySQL:
		if c.Storage.MySQLDSN == "" {
			return errors.New("mysql_dsn is required for the mysql driver")
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return errors.New("mongodb_uri is required for the mongo driver")
		}
		if c.Storage.MongoDatabase == "" {
			return errors.New("mongodb_database is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if c.Storage.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect_delay must be positive, got %s", c.Storage.ReconnectDelay)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Auth.JWTSecret != "" && c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

// Location resolves Timezone. An empty name means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
