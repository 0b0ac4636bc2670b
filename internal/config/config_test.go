package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresStoreValues(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	t.Setenv("TASKAPI_STORE__URL", "")
	t.Setenv("TASKAPI_STORE__SERVICE_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfig_MissingServiceKey(t *testing.T) {
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	t.Setenv("TASKAPI_STORE__SERVICE_KEY", "")
	t.Setenv("TASKAPI_STORE__URL", "https://project.supabase.co")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ServiceKey")
}

func TestLoadConfig_SupabaseAliases(t *testing.T) {
	t.Setenv("TASKAPI_STORE__URL", "")
	t.Setenv("TASKAPI_STORE__SERVICE_KEY", "")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-role")
	t.Setenv("SUPABASE_ANON_KEY", "ignored")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://project.supabase.co", cfg.Store.URL)
	assert.Equal(t, "service-role", cfg.Store.ServiceKey)
	assert.False(t, cfg.Store.IsPostgres())
}

func TestLoadConfig_PrefixedValuesOverrideAliases(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-role")
	t.Setenv("TASKAPI_STORE__URL", "postgres://tasks@localhost:5432/tasks")
	t.Setenv("TASKAPI_STORE__SERVICE_KEY", "secret")
	t.Setenv("TASKAPI_SERVER__PORT", "9090")
	t.Setenv("TASKAPI_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TASKAPI_PRIMARY__ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://tasks@localhost:5432/tasks", cfg.Store.URL)
	assert.Equal(t, "secret", cfg.Store.ServiceKey)
	assert.True(t, cfg.Store.IsPostgres())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)

	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	t.Setenv("TASKAPI_STORE__URL", "https://project.supabase.co")
	t.Setenv("TASKAPI_STORE__SERVICE_KEY", "key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "public", cfg.Store.Schema)
	assert.Equal(t, "tasks", cfg.Store.Table)
	assert.Equal(t, 10, cfg.Store.RequestTimeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, 100*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
	assert.False(t, cfg.Observability.NewRelicEnabled())
	assert.Zero(t, cfg.Server.RateLimit)
}

func TestLoadConfig_RateLimitFromEnv(t *testing.T) {
	t.Setenv("TASKAPI_STORE__URL", "https://project.supabase.co")
	t.Setenv("TASKAPI_STORE__SERVICE_KEY", "key")
	t.Setenv("TASKAPI_SERVER__RATE_LIMIT", "5")
	t.Setenv("TASKAPI_SERVER__RATE_BURST", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 10, cfg.Server.RateBurst)
}

func TestStoreConfig_IsPostgres(t *testing.T) {
	tests := map[string]bool{
		"postgres://u@h/db":      true,
		"POSTGRESQL://u@h/db":    true,
		"https://x.supabase.co":  false,
		"http://localhost:54321": false,
		"::not a url::":          false,
	}

	for raw, want := range tests {
		assert.Equal(t, want, StoreConfig{URL: raw}.IsPostgres(), raw)
	}
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "local"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "warn"
	assert.Equal(t, "warn", cfg.GetLogLevel())
}
