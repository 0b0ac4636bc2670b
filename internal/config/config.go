// Package config loads the service configuration from the environment.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the process fails fast on bad/missing config.
//   - Provide sane defaults for everything that is not a secret.
//
// The config is built once in main and passed by pointer to everything else.
// Nothing reads the environment after LoadConfig returns.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads a `.env` file from the working directory, if present, before
	// any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the prefix TASKAPI_. The prefix is stripped, the
	rest lower-cased, and "__" marks nesting:

		TASKAPI_STORE__URL          -> store.url          -> Config.Store.URL
		TASKAPI_SERVER__RATE_LIMIT  -> server.rate_limit  -> Config.Server.RateLimit

	The Supabase variables used by existing deployments are accepted
	as aliases and loaded first, so TASKAPI_ values override them:

		SUPABASE_URL              -> store.url
		SUPABASE_SERVICE_ROLE_KEY -> store.service_key
*/

const (
	envPrefix    = "TASKAPI_"
	envNestDelim = "__"

	// ServiceName is forced onto the observability config.
	ServiceName = "taskapi"
)

var storeAliases = map[string]string{
	"SUPABASE_URL":              "store.url",
	"SUPABASE_SERVICE_ROLE_KEY": "store.service_key",
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=0"`
}

// StoreConfig describes the managed database that receives task rows.
//
// URL and ServiceKey are the two values the service cannot start without.
// The URL scheme picks the driver:
//   - postgres:// or postgresql:// talks to Postgres directly; ServiceKey is the role password.
//   - http:// or https:// talks to a PostgREST-compatible REST API; ServiceKey is the bearer token.
type StoreConfig struct {
	URL        string `koanf:"url" validate:"required,url"`
	ServiceKey string `koanf:"service_key" validate:"required"`
	Schema     string `koanf:"schema" validate:"required"`
	Table      string `koanf:"table" validate:"required"`

	// AutoMigrate runs the embedded migrations at start (Postgres only).
	AutoMigrate bool `koanf:"auto_migrate"`

	// RequestTimeout bounds a single REST call, in seconds.
	RequestTimeout int   `koanf:"request_timeout" validate:"min=1"`
	MaxConns       int32 `koanf:"max_conns" validate:"min=1"`
}

// IsPostgres reports whether URL points at a Postgres server rather than a REST API.
func (s StoreConfig) IsPostgres() bool {
	u, err := url.Parse(s.URL)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// DefaultConfig returns a Config with every non-secret field populated.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          0,
			RateBurst:          40,
		},
		Store: StoreConfig{
			Schema:         "public",
			Table:          "tasks",
			RequestTimeout: 10,
			MaxConns:       10,
		},
	}
}

// skipEmpty wraps a key mapper so variables set to "" are ignored and the
// default (or an alias) stays in place.
func skipEmpty(mapKey func(string) string) func(string, string) (string, interface{}) {
	return func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return mapKey(key), value
	}
}

// LoadConfig builds the Config from the environment.
//
// Order: defaults, then SUPABASE_* aliases, then TASKAPI_* variables.
// Variables set to the empty string count as unset.
// The result is validated with go-playground/validator and the observability
// block is defaulted and validated separately. Any error is meant to be fatal.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// Unknown SUPABASE_* variables map to "" and are skipped.
	err := k.Load(env.ProviderWithValue("SUPABASE_", ".", skipEmpty(func(s string) string {
		return storeAliases[s]
	})), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load store alias env variables: %w", err)
	}

	err = k.Load(env.ProviderWithValue(envPrefix, ".", skipEmpty(func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, envNestDelim, ".")
	})), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
