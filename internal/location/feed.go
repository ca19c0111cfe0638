package location

import (
	"context"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/pinmap/internal/models"
)

// PermissionRequester forwards a permission prompt to the device.
type PermissionRequester func(ctx context.Context) error

// Feed is an in-process Provider. Device events are pushed into it and fanned
// out to every subscriber. A subscriber whose buffer is full misses the event.
type Feed struct {
	mu       sync.Mutex
	log      *slog.Logger
	status   models.AuthorizationStatus
	position *models.Coordinates
	updating bool
	nextID   int
	subs     map[int]chan Event
	request  PermissionRequester
}

// NewFeed creates a Feed with an undetermined authorization status and no known position.
func NewFeed(log *slog.Logger) *Feed {
	return &Feed{
		log:    log,
		status: models.AuthorizationNotDetermined,
		subs:   make(map[int]chan Event),
	}
}

// SetPermissionRequester installs the hook called by RequestPermission.
func (f *Feed) SetPermissionRequester(request PermissionRequester) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.request = request
}

// RequestPermission asks the device to prompt the user. Without a requester
// installed the call only logs the request.
func (f *Feed) RequestPermission(ctx context.Context) error {
	f.mu.Lock()
	request := f.request
	f.mu.Unlock()

	f.log.InfoContext(ctx, "Location permission requested")
	if request == nil {
		return nil
	}

	return request(ctx)
}

// StartUpdates makes the feed remember pushed positions as the current position.
func (f *Feed) StartUpdates(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.updating {
		f.log.InfoContext(ctx, "Location updates started")
	}
	f.updating = true

	return nil
}

// CurrentPosition returns the most recent position received while updates were started.
func (f *Feed) CurrentPosition() (models.Coordinates, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.position == nil {
		return models.Coordinates{}, false
	}

	return *f.position, true
}

// Status returns the last authorization status pushed into the feed.
func (f *Feed) Status() models.AuthorizationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.status
}

// Subscribe registers a new subscriber with the given channel buffer size.
func (f *Feed) Subscribe(buffer int) (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	events := make(chan Event, buffer)
	f.subs[id] = events

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()

			delete(f.subs, id)
			close(events)
		})
	}

	return events, unsubscribe
}

// PushPermission records a new authorization status and notifies subscribers.
func (f *Feed) PushPermission(status models.AuthorizationStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.status = status
	f.publish(Event{Kind: EventPermission, Status: status})
}

// PushPosition notifies subscribers of a new device position. The position
// becomes the current position only once updates have been started.
func (f *Feed) PushPosition(coord models.Coordinates) error {
	if err := coord.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.updating {
		f.log.Debug("Position ignored, updates not started", "lat", coord.Latitude, "lon", coord.Longitude)
		return nil
	}

	f.position = &coord
	f.publish(Event{Kind: EventPosition, Position: coord})

	return nil
}

// publish must be called with f.mu held.
func (f *Feed) publish(event Event) {
	for id, events := range f.subs {
		select {
		case events <- event:
		default:
			f.log.Warn("Subscriber buffer full, location event dropped", "subscriber", id, "kind", event.Kind)
		}
	}
}
