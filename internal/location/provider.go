package location

import (
	"context"

	"github.com/UnknownOlympus/pinmap/internal/models"
)

// EventKind tells which field of an Event is set.
type EventKind string

const (
	// EventPermission carries a new platform authorization status.
	EventPermission EventKind = "permission"
	// EventPosition carries a new device position.
	EventPosition EventKind = "position"
)

// Event is a single notification from the device location service.
type Event struct {
	Kind     EventKind
	Status   models.AuthorizationStatus
	Position models.Coordinates
}

// Provider is the device location service consumed by the pin store.
// Status reports the last known authorization status. Subscribe returns a
// channel of events and a function that ends the subscription and closes the channel.
type Provider interface {
	Status() models.AuthorizationStatus
	RequestPermission(ctx context.Context) error
	StartUpdates(ctx context.Context) error
	CurrentPosition() (models.Coordinates, bool)
	Subscribe(buffer int) (<-chan Event, func())
}
