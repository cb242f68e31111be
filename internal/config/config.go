// Package config loads service configuration from a YAML file with .env and
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultServerPort      = 8060
	defaultServerTimeout   = 30
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5
	defaultRedisAddress    = "localhost:6379"

	defaultProviderTimeout   = 30 * time.Second
	defaultHandshakeTimeout  = 10 * time.Second
	defaultDeepScanInterval  = 10 * time.Second
	defaultDeepScanAttempts  = 30
	defaultPageSpeedBaseURL  = "https://www.googleapis.com/pagespeedonline/v5"
	defaultSSLLabsBaseURL    = "https://api.ssllabs.com/api/v3"
	defaultUptimeRobotAPIURL = "https://api.uptimerobot.com/v2"
)

type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Providers ProvidersConfig `yaml:"providers"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds Redis connection configuration for event publishing.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"` // Feature flag for event publishing
}

// ProvidersConfig holds base URLs and tuning for the external providers.
// Base URLs are overridable so tests can point clients at local fakes.
type ProvidersConfig struct {
	Timeout          time.Duration  `yaml:"timeout"`
	PageSpeed        EndpointConfig `yaml:"pagespeed"`
	SSLLabs          DeepScanConfig `yaml:"ssllabs"`
	UptimeRobot      EndpointConfig `yaml:"uptimerobot"`
	HandshakeTimeout time.Duration  `yaml:"handshake_timeout"`
}

type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
}

type DeepScanConfig struct {
	BaseURL      string        `yaml:"base_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxAttempts  int           `yaml:"max_attempts"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database.port is required and must be positive")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Providers.SSLLabs.MaxAttempts <= 0 {
		return errors.New("providers.ssllabs.max_attempts must be positive")
	}
	return nil
}

// Load reads the YAML config file, applies defaults and environment variable
// overrides, and validates the result. A missing file is not an error; defaults
// and the environment fully describe a runnable configuration.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err == nil {
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parse config: %w", unmarshalErr)
		}
	}

	setDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid config: %w", validateErr)
	}

	return &cfg, nil
}

// loadEnvFiles loads .env files in priority order:
// 1. ENV_FILE environment variable (if set, loads only this file)
// 2. .env.local (if exists, overrides .env)
// 3. .env (default)
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env.local: %w", err)
	}

	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{
			"http://localhost:3000", // Dashboard frontend
		}
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = defaultProviderTimeout
	}
	if cfg.Providers.HandshakeTimeout == 0 {
		cfg.Providers.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.Providers.PageSpeed.BaseURL == "" {
		cfg.Providers.PageSpeed.BaseURL = defaultPageSpeedBaseURL
	}
	if cfg.Providers.SSLLabs.BaseURL == "" {
		cfg.Providers.SSLLabs.BaseURL = defaultSSLLabsBaseURL
	}
	if cfg.Providers.SSLLabs.PollInterval == 0 {
		cfg.Providers.SSLLabs.PollInterval = defaultDeepScanInterval
	}
	if cfg.Providers.SSLLabs.MaxAttempts == 0 {
		cfg.Providers.SSLLabs.MaxAttempts = defaultDeepScanAttempts
	}
	if cfg.Providers.UptimeRobot.BaseURL == "" {
		cfg.Providers.UptimeRobot.BaseURL = defaultUptimeRobotAPIURL
	}
}

// applyEnvOverrides applies environment variables on top of file values and
// defaults. Env always wins.
func applyEnvOverrides(cfg *Config) {
	overrideBool(&cfg.Debug, "APP_DEBUG")
	overrideString(&cfg.Server.Host, "SERVER_HOST")
	overrideInt(&cfg.Server.Port, "SERVER_PORT")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.DBName, "DB_NAME")
	overrideString(&cfg.Database.SSLMode, "DB_SSLMODE")
	overrideString(&cfg.Redis.Address, "REDIS_ADDRESS")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&cfg.Redis.DB, "REDIS_DB")
	overrideBool(&cfg.Redis.Enabled, "REDIS_EVENTS_ENABLED")
	overrideString(&cfg.Providers.PageSpeed.BaseURL, "PAGESPEED_BASE_URL")
	overrideString(&cfg.Providers.SSLLabs.BaseURL, "SSLLABS_BASE_URL")
	overrideInt(&cfg.Providers.SSLLabs.MaxAttempts, "SSLLABS_MAX_ATTEMPTS")
	overrideString(&cfg.Providers.UptimeRobot.BaseURL, "UPTIMEROBOT_BASE_URL")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
