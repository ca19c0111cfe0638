package config

import (
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment variable, e.g. PINMAP_STORAGE_BACKEND.
const envPrefix = "PINMAP"

// Config holds the configuration settings for the pin service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port of the HTTP API, health and metrics server.
// - Storage: Where the pin collection is persisted.
// - Provider: The place-search provider (may be disabled).
// - Location: Where device permission and position events come from.
type Config struct {
	Env      string         `mapstructure:"env"`      // Env is the current environment: local, development, production.
	Port     int            `mapstructure:"port"`     // Port is the HTTP server port.
	Storage  StorageConfig  `mapstructure:"storage"`  // Storage holds the key-value store configuration.
	Provider ProviderConfig `mapstructure:"provider"` // Provider holds the place-search configuration.
	Location LocationConfig `mapstructure:"location"` // Location holds the device event source configuration.
}

// StorageConfig selects and configures the key-value store backend.
type StorageConfig struct {
	Backend    string         `mapstructure:"backend"`     // Backend is one of memory, file, postgres, valkey, s3.
	Key        string         `mapstructure:"key"`         // Key under which the pin collection is stored.
	Dir        string         `mapstructure:"dir"`         // Dir is the data directory of the file backend.
	ValkeyAddr string         `mapstructure:"valkey_addr"` // ValkeyAddr is the address of the valkey server.
	Postgres   PostgresConfig `mapstructure:"postgres"`    // Postgres holds the postgres database configuration.
	S3         S3Config       `mapstructure:"s3"`          // S3 holds the object storage configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"name"`     // Name is the name of the database.
}

// S3Config holds the settings for an S3-compatible object store.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// ProviderConfig configures place search. An empty type or "none" disables it.
type ProviderConfig struct {
	Type      string `mapstructure:"type"`
	APIKey    string `mapstructure:"api_key"`
	RateLimit int    `mapstructure:"rate_limit"`
	Language  string `mapstructure:"language"`
}

// LocationConfig selects the source of device location events.
type LocationConfig struct {
	Source        string `mapstructure:"source"`         // Source is http or nats.
	NATSURL       string `mapstructure:"nats_url"`       // NATSURL is the NATS server used by the nats source.
	SubjectPrefix string `mapstructure:"subject_prefix"` // SubjectPrefix of the device event subjects.
}

const (
	// LocationSourceHTTP accepts device events on the HTTP API.
	LocationSourceHTTP = "http"
	// LocationSourceNATS accepts device events from NATS subjects.
	LocationSourceNATS = "nats"
)

var storageBackends = []string{"memory", "file", "postgres", "valkey", "s3"}

// MustLoad reads the configuration from a .env file and the environment and
// returns a Config struct. It panics when a value cannot be used.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("failed to parse configuration from environment")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		panic("failed to parse port for http server from configuration")
	}

	if !slices.Contains(storageBackends, cfg.Storage.Backend) {
		panic("unsupported storage backend in configuration")
	}

	if cfg.Provider.RateLimit <= 0 {
		panic("provider rate limit must be a positive integer")
	}

	switch cfg.Location.Source {
	case LocationSourceHTTP:
	case LocationSourceNATS:
		if cfg.Location.NATSURL == "" {
			panic("nats url is required for the nats location source")
		}
	default:
		panic("unsupported location source in configuration")
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("port", 8080)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.key", "SavedLocations")
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.valkey_addr", "localhost:6379")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", "5432")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.name", "pinmap")
	v.SetDefault("storage.s3.endpoint", "localhost:9000")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.bucket", "pinmap")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.use_ssl", false)

	v.SetDefault("provider.type", "nominatim")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.rate_limit", 50)
	v.SetDefault("provider.language", "en")

	v.SetDefault("location.source", LocationSourceHTTP)
	v.SetDefault("location.nats_url", "nats://localhost:4222")
	v.SetDefault("location.subject_prefix", "pinmap.device")
}
