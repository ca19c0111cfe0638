package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
)

// Backend names a key-value store implementation.
type Backend string

const (
	// BackendMemory keeps values in process memory.
	BackendMemory Backend = "memory"
	// BackendFile keeps values as files in a local directory.
	BackendFile Backend = "file"
	// BackendPostgres keeps values in a PostgreSQL table.
	BackendPostgres Backend = "postgres"
	// BackendValkey keeps values in Valkey.
	BackendValkey Backend = "valkey"
	// BackendS3 keeps values as objects in an S3-compatible bucket.
	BackendS3 Backend = "s3"
)

// PostgresConfig holds the settings for the PostgreSQL backend.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Config holds configuration for creating a key-value store.
type Config struct {
	Backend    Backend        // Backend selects the implementation
	Dir        string         // Dir is the directory used by the file backend
	Fs         afero.Fs       // Fs overrides the filesystem of the file backend (OS filesystem when nil)
	Postgres   PostgresConfig // Postgres is used by the postgres backend
	ValkeyAddr string         // ValkeyAddr is used by the valkey backend
	S3         S3Config       // S3 is used by the s3 backend
	Logger     *slog.Logger
}

// NewStore creates the key-value store selected by config.Backend.
func NewStore(ctx context.Context, config Config) (Store, error) {
	switch config.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return newFileStore(config)
	case BackendPostgres:
		return newPostgresStore(ctx, config)
	case BackendValkey:
		return newValkeyStore(config)
	case BackendS3:
		return newS3Store(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", config.Backend)
	}
}

func newFileStore(config Config) (Store, error) {
	fsys := config.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	store, err := NewFileStore(fsys, config.Dir, config.Logger)
	if err != nil {
		return nil, err
	}

	return store, nil
}

func newPostgresStore(ctx context.Context, config Config) (Store, error) {
	pgc := config.Postgres
	pool, err := NewDatabase(ctx, pgc.Host, pgc.Port, pgc.User, pgc.Password, pgc.Name)
	if err != nil {
		return nil, err
	}

	store := NewPostgresStore(pool, config.Logger)
	if err = store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func newValkeyStore(config Config) (Store, error) {
	if config.ValkeyAddr == "" {
		return nil, errors.New("address is required for valkey backend")
	}

	store, err := NewValkeyStore(config.ValkeyAddr)
	if err != nil {
		return nil, err
	}

	return store, nil
}

func newS3Store(ctx context.Context, config Config) (Store, error) {
	store, err := NewS3Store(ctx, config.S3, config.Logger)
	if err != nil {
		return nil, err
	}

	return store, nil
}
