package service

import (
	"context"

	"github.com/UnknownOlympus/pinmap/internal/location"
	"github.com/UnknownOlympus/pinmap/internal/models"
)

// Viewport returns the current map viewport.
func (ps *PinStore) Viewport() models.Viewport {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	return ps.viewport
}

// Permission returns the current location permission state.
func (ps *PinStore) Permission() models.Permission {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	return ps.permission
}

// CenterOnLocation moves the viewport center to the pin. The span is kept.
func (ps *PinStore) CenterOnLocation(ctx context.Context, pin models.Pin) models.Viewport {
	ps.log.DebugContext(ctx, "Centering on pin", "id", pin.ID)
	return ps.CenterOn(pin.Coordinate)
}

// CenterOn moves the viewport center to coord, for example a search result. The span is kept.
func (ps *PinStore) CenterOn(coord models.Coordinates) models.Viewport {
	return ps.updateViewport(func(viewport *models.Viewport) {
		viewport.Center = coord
	})
}

// CenterOnCurrentLocation moves the viewport center to the device position.
// When the position is unknown both center and span fall back to FallbackViewport.
func (ps *PinStore) CenterOnCurrentLocation(ctx context.Context) models.Viewport {
	coord, ok := ps.location.CurrentPosition()
	if !ok {
		ps.log.InfoContext(ctx, "Current location not available, using fallback viewport")
		return ps.updateViewport(func(viewport *models.Viewport) {
			*viewport = models.FallbackViewport()
		})
	}

	return ps.CenterOn(coord)
}

func (ps *PinStore) updateViewport(fn func(*models.Viewport)) models.Viewport {
	snapshot, _ := ps.commit(func() (bool, error) {
		fn(&ps.viewport)
		return true, nil
	})

	return snapshot.Viewport
}

// RequestPermission asks the location provider to prompt the user.
func (ps *PinStore) RequestPermission(ctx context.Context) error {
	return ps.location.RequestPermission(ctx)
}

// HandlePermission applies a platform authorization change. Only transitions
// out of the not-determined state are applied: granted and denied stay fixed
// for the rest of the session. Location updates start on the transition to granted.
func (ps *PinStore) HandlePermission(ctx context.Context, status models.AuthorizationStatus) {
	next := models.PermissionFromStatus(status)

	var current models.Permission
	snapshot, _ := ps.commit(func() (bool, error) {
		current = ps.permission
		if current != models.PermissionNotDetermined || next == current {
			return false, nil
		}
		ps.permission = next
		return true, nil
	})

	if snapshot.Permission == current {
		ps.log.DebugContext(ctx, "Permission change ignored", "current", current, "status", status)
		return
	}

	ps.log.InfoContext(ctx, "Location permission changed", "from", current, "to", next)

	if next != models.PermissionGranted {
		return
	}

	if err := ps.location.StartUpdates(ctx); err != nil {
		ps.log.ErrorContext(ctx, "Failed to start location updates", "error", err)
	}
}

// HandlePosition moves the viewport center to a new device position. The span never changes.
func (ps *PinStore) HandlePosition(ctx context.Context, coord models.Coordinates) {
	ps.log.DebugContext(ctx, "Device position updated", "lat", coord.Latitude, "lon", coord.Longitude)
	ps.CenterOn(coord)
}

// Run seeds the permission from the provider's current status, then consumes
// location events until the context is canceled or the provider ends the
// subscription. All events are applied one at a time.
func (ps *PinStore) Run(ctx context.Context) {
	events, unsubscribe := ps.location.Subscribe(eventBuffer)
	defer unsubscribe()

	// status reported before the subscription existed is not replayed as an event
	ps.HandlePermission(ctx, ps.location.Status())

	ps.log.InfoContext(ctx, "Pin store started listening for location events...")

	for {
		select {
		case <-ctx.Done():
			ps.log.InfoContext(ctx, "Pin store stopped listening for location events.")
			return
		case event, ok := <-events:
			if !ok {
				ps.log.WarnContext(ctx, "Location event stream closed")
				return
			}
			ps.apply(ctx, event)
		}
	}
}

func (ps *PinStore) apply(ctx context.Context, event location.Event) {
	ps.metrics.LocationEvents.WithLabelValues(string(event.Kind)).Inc()

	switch event.Kind {
	case location.EventPermission:
		ps.HandlePermission(ctx, event.Status)
	case location.EventPosition:
		ps.HandlePosition(ctx, event.Position)
	default:
		ps.log.WarnContext(ctx, "Unknown location event", "kind", event.Kind)
	}
}
