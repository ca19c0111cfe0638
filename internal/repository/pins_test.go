package repository_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/pinmap/internal/kvstore"
	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/UnknownOlympus/pinmap/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore fails every operation with the configured error.
type failingStore struct {
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }

func samplePins() []models.Pin {
	return []models.Pin{
		models.NewPin("Cafe", models.Coordinates{Latitude: 60.17, Longitude: 24.93}, "#FF0000"),
		models.NewPin("Park", models.Coordinates{Latitude: 60.18, Longitude: 24.94}, "#00FF00"),
		models.NewPin("Pier", models.Coordinates{Latitude: -33.858542, Longitude: 151.2153412}, "#0000ff"),
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	repo := repository.NewRepository(kvstore.NewMemoryStore(), "", slog.Default())
	pins := samplePins()

	require.NoError(t, repo.Save(ctx, pins))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(pins))
	for idx := range pins {
		assert.Equal(t, pins[idx].ID, loaded[idx].ID)
		assert.Equal(t, pins[idx].Name, loaded[idx].Name)
		assert.Equal(t, pins[idx].Coordinate, loaded[idx].Coordinate)
		assert.Equal(t, pins[idx].Color, loaded[idx].Color)
	}
}

func TestRepository_WireFormat(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	store := kvstore.NewMemoryStore()
	repo := repository.NewRepository(store, "", slog.Default())
	pin := models.Pin{
		ID:         uuid.MustParse("6f1c2b9e-3c1d-4a53-9a7e-2b1f0c9d8e7a"),
		Name:       "Cafe",
		Coordinate: models.Coordinates{Latitude: 60.17, Longitude: 24.93},
		Color:      "#FF0000",
	}

	require.NoError(t, repo.Save(ctx, []models.Pin{pin}))

	raw, err := store.Get(ctx, repository.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"6f1c2b9e-3c1d-4a53-9a7e-2b1f0c9d8e7a","name":"Cafe","latitude":60.17,"longitude":24.93,"colorHex":"#FF0000"}]`,
		string(raw))
}

func TestRepository_Load(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	logger := slog.Default()

	t.Run("missing key yields empty collection", func(t *testing.T) {
		t.Parallel()
		repo := repository.NewRepository(kvstore.NewMemoryStore(), "", logger)

		pins, err := repo.Load(ctx)

		require.NoError(t, err)
		require.NotNil(t, pins)
		assert.Empty(t, pins)
	})

	t.Run("custom key", func(t *testing.T) {
		t.Parallel()
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, repository.DefaultKey, []byte(`not json`)))
		repo := repository.NewRepository(store, "OtherLocations", logger)

		require.NoError(t, repo.Save(ctx, samplePins()[:1]))

		pins, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, pins, 1)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, repository.DefaultKey, []byte(`{"broken":`)))
		repo := repository.NewRepository(store, "", logger)

		pins, err := repo.Load(ctx)

		require.Nil(t, pins)
		require.ErrorIs(t, err, repository.ErrMalformed)
	})

	t.Run("invalid identifier", func(t *testing.T) {
		t.Parallel()
		store := kvstore.NewMemoryStore()
		payload := `[{"id":"nope","name":"Cafe","latitude":1,"longitude":2,"colorHex":"#FF0000"}]`
		require.NoError(t, store.Set(ctx, repository.DefaultKey, []byte(payload)))
		repo := repository.NewRepository(store, "", logger)

		pins, err := repo.Load(ctx)

		require.Nil(t, pins)
		require.ErrorIs(t, err, repository.ErrMalformed)
		require.ErrorContains(t, err, "invalid id")
	})

	t.Run("unparseable color resolves to default", func(t *testing.T) {
		t.Parallel()
		store := kvstore.NewMemoryStore()
		payload := `[{"id":"6f1c2b9e-3c1d-4a53-9a7e-2b1f0c9d8e7a","name":"Cafe","latitude":1,"longitude":2,"colorHex":"red"}]`
		require.NoError(t, store.Set(ctx, repository.DefaultKey, []byte(payload)))
		repo := repository.NewRepository(store, "", logger)

		pins, err := repo.Load(ctx)

		require.NoError(t, err)
		require.Len(t, pins, 1)
		assert.Equal(t, models.DefaultColor, pins[0].Color)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		repo := repository.NewRepository(failingStore{err: assert.AnError}, "", logger)

		pins, err := repo.Load(ctx)

		require.Nil(t, pins)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to read pins")
	})
}

func TestRepository_Save(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		repo := repository.NewRepository(failingStore{err: assert.AnError}, "", slog.Default())

		err := repo.Save(ctx, samplePins())

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to write pins")
	})

	t.Run("empty collection is stored as empty array", func(t *testing.T) {
		t.Parallel()
		store := kvstore.NewMemoryStore()
		repo := repository.NewRepository(store, "", slog.Default())

		require.NoError(t, repo.Save(ctx, nil))

		raw, err := store.Get(ctx, repository.DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})
}
