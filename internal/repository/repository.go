package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/pinmap/internal/kvstore"
	"github.com/UnknownOlympus/pinmap/internal/models"
)

// DefaultKey is the well-known key the pin collection is stored under.
const DefaultKey = "SavedLocations"

// Repository persists the pin collection as one serialized value in a key-value store.
type Repository struct {
	store kvstore.Store
	key   string
	log   *slog.Logger
}

type Interface interface {
	Save(ctx context.Context, pins []models.Pin) error
	Load(ctx context.Context) ([]models.Pin, error)
}

// NewRepository creates a new instance of Repository on top of the given store.
// An empty key selects DefaultKey.
func NewRepository(store kvstore.Store, key string, log *slog.Logger) *Repository {
	if key == "" {
		key = DefaultKey
	}

	return &Repository{store: store, key: key, log: log}
}
