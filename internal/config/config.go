// Package config provides configuration management for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/navikt/zbook/internal/models"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
)

// Config is the complete application configuration
type Config struct {
	Port     string
	Storage  StorageConfig
	Schedule ScheduleConfig
}

// StorageConfig selects and configures the booking store
type StorageConfig struct {
	Backend string
	Redis   RedisConfig
	SQL     SQLConfig
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for bookings (0 means no expiration)
	BookingTTL time.Duration
}

// SQLConfig holds relational database configuration
type SQLConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver       string
	DSN          string
	MaxOpenConns int
}

// ScheduleConfig holds time handling settings
type ScheduleConfig struct {
	Timezone         string
	DefaultWorkHours models.WorkHours
	// StatusPushInterval is how often the status stream is refreshed
	StatusPushInterval time.Duration
	// AnalyticsMaxDays caps the number of calendar days in one analytics query
	AnalyticsMaxDays int
}

// Location resolves the configured timezone, falling back to UTC
func (c ScheduleConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables and then applies the
// TOML file named by ZBOOK_CONFIG, if any
func Load() (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}

	if path := getEnv("ZBOOK_CONFIG", ""); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv loads configuration from environment variables
func FromEnv() (Config, error) {
	workHours := models.DefaultWorkHours
	if value := getEnv("DEFAULT_WORK_HOURS", ""); value != "" {
		wh, err := models.ParseWorkHours(value)
		if err != nil {
			return Config{}, fmt.Errorf("DEFAULT_WORK_HOURS: %w", err)
		}
		workHours = wh
	}

	pushInterval, err := time.ParseDuration(getEnv("STATUS_PUSH_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("STATUS_PUSH_INTERVAL: %w", err)
	}

	return Config{
		Port: getEnv("PORT", "8080"),
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
			Redis:   GetRedisConfig(),
			SQL: SQLConfig{
				Driver:       getEnv("SQL_DRIVER", "sqlite"),
				DSN:          getEnv("SQL_DSN", "file:zbook.db"),
				MaxOpenConns: getEnvInt("SQL_MAX_OPEN_CONNS", 10),
			},
		},
		Schedule: ScheduleConfig{
			Timezone:           getEnv("TIMEZONE", "Europe/Oslo"),
			DefaultWorkHours:   workHours,
			StatusPushInterval: pushInterval,
			AnalyticsMaxDays:   getEnvInt("ANALYTICS_MAX_DAYS", 366),
		},
	}, nil
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours := getEnvInt("REDIS_BOOKING_TTL_HOURS", 0)
	ttl := time.Duration(ttlHours) * time.Hour

	return RedisConfig{
		URI:        getEnv("REDIS_URI_ZBOOK", ""),
		Host:       getEnv("REDIS_HOST_ZBOOK", getEnv("REDIS_ADDRESS", "localhost")),
		Port:       getEnv("REDIS_PORT_ZBOOK", "6379"),
		Username:   getEnv("REDIS_USERNAME_ZBOOK", ""),
		Password:   getEnv("REDIS_PASSWORD_ZBOOK", getEnv("REDIS_PASSWORD", "")),
		DB:         getEnvInt("REDIS_DB", 0),
		KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "zbook:"),
		BookingTTL: ttl,
	}
}

// fileConfig mirrors Config with optional fields so that only keys present
// in the file override the environment
type fileConfig struct {
	Port    *string `toml:"port"`
	Storage struct {
		Backend *string `toml:"backend"`
		Redis   struct {
			URI        *string   `toml:"uri"`
			Host       *string   `toml:"host"`
			Port       *string   `toml:"port"`
			Username   *string   `toml:"username"`
			Password   *string   `toml:"password"`
			DB         *int      `toml:"db"`
			KeyPrefix  *string   `toml:"key_prefix"`
			BookingTTL *duration `toml:"booking_ttl"`
		} `toml:"redis"`
		SQL struct {
			Driver       *string `toml:"driver"`
			DSN          *string `toml:"dsn"`
			MaxOpenConns *int    `toml:"max_open_conns"`
		} `toml:"sql"`
	} `toml:"storage"`
	Schedule struct {
		Timezone           *string   `toml:"timezone"`
		DefaultWorkHours   *string   `toml:"default_work_hours"`
		StatusPushInterval *duration `toml:"status_push_interval"`
		AnalyticsMaxDays   *int      `toml:"analytics_max_days"`
	} `toml:"schedule"`
}

// duration decodes TOML strings such as "30s"
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// ApplyFile overrides c with the keys set in the TOML file at path
func (c *Config) ApplyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	if fc.Storage.Backend != nil {
		c.Storage.Backend = strings.ToLower(*fc.Storage.Backend)
	}

	r := &c.Storage.Redis
	setString(&r.URI, fc.Storage.Redis.URI)
	setString(&r.Host, fc.Storage.Redis.Host)
	setString(&r.Port, fc.Storage.Redis.Port)
	setString(&r.Username, fc.Storage.Redis.Username)
	setString(&r.Password, fc.Storage.Redis.Password)
	setString(&r.KeyPrefix, fc.Storage.Redis.KeyPrefix)
	if fc.Storage.Redis.DB != nil {
		r.DB = *fc.Storage.Redis.DB
	}
	if fc.Storage.Redis.BookingTTL != nil {
		r.BookingTTL = fc.Storage.Redis.BookingTTL.Duration
	}

	s := &c.Storage.SQL
	setString(&s.Driver, fc.Storage.SQL.Driver)
	setString(&s.DSN, fc.Storage.SQL.DSN)
	if fc.Storage.SQL.MaxOpenConns != nil {
		s.MaxOpenConns = *fc.Storage.SQL.MaxOpenConns
	}

	setString(&c.Schedule.Timezone, fc.Schedule.Timezone)
	if fc.Schedule.DefaultWorkHours != nil {
		wh, err := models.ParseWorkHours(*fc.Schedule.DefaultWorkHours)
		if err != nil {
			return fmt.Errorf("default_work_hours: %w", err)
		}
		c.Schedule.DefaultWorkHours = wh
	}
	if fc.Schedule.StatusPushInterval != nil {
		c.Schedule.StatusPushInterval = fc.Schedule.StatusPushInterval.Duration
	}
	if fc.Schedule.AnalyticsMaxDays != nil {
		c.Schedule.AnalyticsMaxDays = *fc.Schedule.AnalyticsMaxDays
	}

	return nil
}

// Validate checks that the configuration can be used to start the service
func (c Config) Validate() error {
	var invalid []string

	switch c.Storage.Backend {
	case BackendMemory, BackendRedis:
	case BackendSQL:
		if c.Storage.SQL.Driver != "postgres" && c.Storage.SQL.Driver != "sqlite" {
			invalid = append(invalid, "SQL_DRIVER")
		}
		if c.Storage.SQL.DSN == "" {
			invalid = append(invalid, "SQL_DSN")
		}
	default:
		invalid = append(invalid, "STORAGE_BACKEND")
	}

	if c.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			invalid = append(invalid, "TIMEZONE")
		}
	}
	if !c.Schedule.DefaultWorkHours.Valid() {
		invalid = append(invalid, "DEFAULT_WORK_HOURS")
	}
	if c.Schedule.StatusPushInterval <= 0 {
		invalid = append(invalid, "STATUS_PUSH_INTERVAL")
	}
	if c.Schedule.AnalyticsMaxDays <= 0 {
		invalid = append(invalid, "ANALYTICS_MAX_DAYS")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}
