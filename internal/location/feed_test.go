package location_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/pinmap/internal/location"
	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_Positions(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	feed := location.NewFeed(slog.Default())
	events, unsubscribe := feed.Subscribe(4)
	defer unsubscribe()

	coord := models.Coordinates{Latitude: 60.17, Longitude: 24.93}

	t.Run("positions before updates are ignored", func(t *testing.T) {
		require.NoError(t, feed.PushPosition(coord))

		_, ok := feed.CurrentPosition()
		assert.False(t, ok)
		assert.Empty(t, events)
	})

	t.Run("positions after updates are delivered", func(t *testing.T) {
		require.NoError(t, feed.StartUpdates(ctx))
		require.NoError(t, feed.PushPosition(coord))

		current, ok := feed.CurrentPosition()
		require.True(t, ok)
		assert.Equal(t, coord, current)

		event := <-events
		assert.Equal(t, location.EventPosition, event.Kind)
		assert.Equal(t, coord, event.Position)
	})

	t.Run("invalid positions are rejected", func(t *testing.T) {
		err := feed.PushPosition(models.Coordinates{Latitude: 91})

		require.ErrorIs(t, err, models.ErrInvalidCoordinate)
		current, _ := feed.CurrentPosition()
		assert.Equal(t, coord, current)
	})
}

func TestFeed_Permission(t *testing.T) {
	t.Parallel()
	feed := location.NewFeed(slog.Default())
	first, unsubscribeFirst := feed.Subscribe(1)
	second, unsubscribeSecond := feed.Subscribe(1)
	defer unsubscribeSecond()

	assert.Equal(t, models.AuthorizationNotDetermined, feed.Status())

	feed.PushPermission(models.AuthorizationAuthorizedWhenInUse)

	assert.Equal(t, models.AuthorizationAuthorizedWhenInUse, feed.Status())
	assert.Equal(t, location.Event{Kind: location.EventPermission, Status: models.AuthorizationAuthorizedWhenInUse}, <-first)
	assert.Equal(t, location.Event{Kind: location.EventPermission, Status: models.AuthorizationAuthorizedWhenInUse}, <-second)

	unsubscribeFirst()
	unsubscribeFirst()

	_, open := <-first
	assert.False(t, open, "channel must be closed after unsubscribe")

	// the second subscriber still has room for exactly one event
	feed.PushPermission(models.AuthorizationDenied)
	feed.PushPermission(models.AuthorizationRestricted)
	assert.Equal(t, models.AuthorizationDenied, (<-second).Status)
	assert.Empty(t, second)
}

func TestFeed_RequestPermission(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	feed := location.NewFeed(slog.Default())

	require.NoError(t, feed.RequestPermission(ctx))

	calls := 0
	feed.SetPermissionRequester(func(context.Context) error {
		calls++
		return assert.AnError
	})

	require.ErrorIs(t, feed.RequestPermission(ctx), assert.AnError)
	assert.Equal(t, 1, calls)
}
