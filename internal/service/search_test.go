package service_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/pinmap/internal/location"
	"github.com/UnknownOlympus/pinmap/internal/metrics"
	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/UnknownOlympus/pinmap/internal/service"
	"github.com/UnknownOlympus/pinmap/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinStore_SearchPlaces(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	newStore := func(t *testing.T, provider *mocks.Provider) (*service.PinStore, *metrics.Metrics) {
		t.Helper()
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		repo := mocks.NewInterface(t)
		feed := location.NewFeed(slog.Default())
		if provider == nil {
			return service.NewPinStore(slog.Default(), repo, feed, nil, "", appMetrics), appMetrics
		}
		return service.NewPinStore(slog.Default(), repo, feed, provider, "nominatim", appMetrics), appMetrics
	}

	t.Run("no provider configured", func(t *testing.T) {
		t.Parallel()
		store, _ := newStore(t, nil)

		places, err := store.SearchPlaces(ctx, "Helsinki")

		require.ErrorIs(t, err, service.ErrSearchUnavailable)
		assert.Nil(t, places)
	})

	t.Run("results are returned", func(t *testing.T) {
		t.Parallel()
		provider := mocks.NewProvider(t)
		store, appMetrics := newStore(t, provider)
		expected := []models.Place{
			{Name: "Helsinki Cathedral", Coordinate: models.Coordinates{Latitude: 60.1704, Longitude: 24.9522}},
		}
		provider.On("Search", ctx, "Helsinki Cathedral").Return(expected, nil).Once()

		places, err := store.SearchPlaces(ctx, "Helsinki Cathedral")

		require.NoError(t, err)
		assert.Equal(t, expected, places)
		assert.InDelta(t, 0, testutil.ToFloat64(appMetrics.SearchErrors), 0)
		assert.Equal(t, 1, testutil.CollectAndCount(appMetrics.SearchSeconds))
	})

	t.Run("provider errors are counted", func(t *testing.T) {
		t.Parallel()
		provider := mocks.NewProvider(t)
		store, appMetrics := newStore(t, provider)
		provider.On("Search", ctx, "nowhere").Return(nil, assert.AnError).Once()

		places, err := store.SearchPlaces(ctx, "nowhere")

		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, places)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.SearchErrors), 0)
	})

	t.Run("searching places leaves pins untouched", func(t *testing.T) {
		t.Parallel()
		provider := mocks.NewProvider(t)
		store, _ := newStore(t, provider)
		provider.On("Search", ctx, "Park").Return([]models.Place{{Name: "Park"}}, nil).Once()

		_, err := store.SearchPlaces(ctx, "Park")

		require.NoError(t, err)
		assert.Empty(t, store.Pins())
	})
}
