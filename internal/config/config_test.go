package config_test

import (
	"testing"

	"github.com/UnknownOlympus/pinmap/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadDefaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "SavedLocations", cfg.Storage.Key)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, "nominatim", cfg.Provider.Type)
	assert.Equal(t, 50, cfg.Provider.RateLimit)
	assert.Equal(t, config.LocationSourceHTTP, cfg.Location.Source)
	assert.Equal(t, "pinmap.device", cfg.Location.SubjectPrefix)
}

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("PINMAP_ENV", "local")
	t.Setenv("PINMAP_PORT", "9090")
	t.Setenv("PINMAP_STORAGE_BACKEND", "postgres")
	t.Setenv("PINMAP_STORAGE_KEY", "TestLocations")
	t.Setenv("PINMAP_STORAGE_POSTGRES_HOST", "testHost")
	t.Setenv("PINMAP_STORAGE_POSTGRES_PORT", "12345")
	t.Setenv("PINMAP_STORAGE_POSTGRES_USER", "admin")
	t.Setenv("PINMAP_STORAGE_POSTGRES_PASSWORD", "adminpass")
	t.Setenv("PINMAP_STORAGE_POSTGRES_NAME", "testName")
	t.Setenv("PINMAP_STORAGE_S3_USE_SSL", "true")
	t.Setenv("PINMAP_PROVIDER_TYPE", "google")
	t.Setenv("PINMAP_PROVIDER_API_KEY", "testAPIKey")
	t.Setenv("PINMAP_PROVIDER_RATE_LIMIT", "10")
	t.Setenv("PINMAP_LOCATION_SOURCE", "nats")
	t.Setenv("PINMAP_LOCATION_NATS_URL", "nats://nats:4222")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "TestLocations", cfg.Storage.Key)
	assert.Equal(t, "testHost", cfg.Storage.Postgres.Host)
	assert.Equal(t, "12345", cfg.Storage.Postgres.Port)
	assert.Equal(t, "admin", cfg.Storage.Postgres.User)
	assert.Equal(t, "adminpass", cfg.Storage.Postgres.Password)
	assert.Equal(t, "testName", cfg.Storage.Postgres.Name)
	assert.True(t, cfg.Storage.S3.UseSSL)
	assert.Equal(t, "google", cfg.Provider.Type)
	assert.Equal(t, "testAPIKey", cfg.Provider.APIKey)
	assert.Equal(t, 10, cfg.Provider.RateLimit)
	assert.Equal(t, config.LocationSourceNATS, cfg.Location.Source)
	assert.Equal(t, "nats://nats:4222", cfg.Location.NATSURL)
}

func TestMustLoad_ParseError(t *testing.T) {
	t.Setenv("PINMAP_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse configuration from environment", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("PINMAP_PORT", "70000")

	assert.PanicsWithValue(t, "failed to parse port for http server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_StorageError(t *testing.T) {
	t.Setenv("PINMAP_STORAGE_BACKEND", "floppy")

	assert.PanicsWithValue(t, "unsupported storage backend in configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RateLimitError(t *testing.T) {
	t.Setenv("PINMAP_PROVIDER_RATE_LIMIT", "0")

	assert.PanicsWithValue(t, "provider rate limit must be a positive integer", func() {
		config.MustLoad()
	})
}

func TestMustLoad_LocationSourceError(t *testing.T) {
	t.Setenv("PINMAP_LOCATION_SOURCE", "carrier-pigeon")

	assert.PanicsWithValue(t, "unsupported location source in configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_NATSURLError(t *testing.T) {
	t.Setenv("PINMAP_LOCATION_SOURCE", "nats")
	t.Setenv("PINMAP_LOCATION_NATS_URL", "")

	assert.PanicsWithValue(t, "nats url is required for the nats location source", func() {
		config.MustLoad()
	})
}
