package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/UnknownOlympus/pinmap/internal/geocoding"
	"github.com/UnknownOlympus/pinmap/internal/location"
	"github.com/UnknownOlympus/pinmap/internal/metrics"
	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/UnknownOlympus/pinmap/internal/repository"
	"github.com/google/uuid"
)

// eventBuffer is the channel size used when subscribing to the location provider.
const eventBuffer = 16

var (
	// ErrPositionUnavailable is returned when the device position is needed but unknown.
	ErrPositionUnavailable = errors.New("current position not available")
	// ErrSearchUnavailable is returned when no place-search provider is configured.
	ErrSearchUnavailable = errors.New("place search is not configured")
)

// Snapshot is a copy of the store state handed to observers.
type Snapshot struct {
	Pins       []models.Pin
	Viewport   models.Viewport
	Permission models.Permission
}

// PinStore is the single source of truth for the pin collection, the map
// viewport and the location permission. Every mutation of the collection is
// persisted before the call returns.
type PinStore struct {
	log          *slog.Logger         // Logger for logging store activities
	repo         repository.Interface // Persistence adapter for the pin collection
	location     location.Provider    // Device location service
	search       geocoding.Provider   // Place-search provider, may be nil
	providerName string               // Name of the search provider for metrics labeling
	metrics      *metrics.Metrics     // Metrics for tracking store activity

	// commitMu orders changes together with their delivery to observers.
	commitMu   sync.Mutex
	mu         sync.Mutex
	pins       []models.Pin
	viewport   models.Viewport
	permission models.Permission

	obsMu     sync.Mutex
	nextObs   int
	observers map[int]func(Snapshot)
}

// NewPinStore creates a new instance of PinStore with an empty collection,
// the initial viewport and an undetermined permission. Call Load to read the
// persisted collection and Run to start consuming location events.
func NewPinStore(
	log *slog.Logger,
	repo repository.Interface,
	locationProvider location.Provider,
	searchProvider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
) *PinStore {
	return &PinStore{
		log:          log,
		repo:         repo,
		location:     locationProvider,
		search:       searchProvider,
		providerName: providerName,
		metrics:      metrics,
		pins:         []models.Pin{},
		viewport:     models.InitialViewport(),
		permission:   models.PermissionNotDetermined,
		observers:    make(map[int]func(Snapshot)),
	}
}

// Load replaces the in-memory collection with the persisted one. Any failure
// is logged and leaves the store with an empty collection.
func (ps *PinStore) Load(ctx context.Context) {
	pins, err := ps.repo.Load(ctx)
	if err != nil {
		ps.log.ErrorContext(ctx, "Failed to load saved pins, starting with an empty list", "error", err)
		ps.metrics.PersistenceErrors.WithLabelValues("load").Inc()
		pins = []models.Pin{}
	}

	snapshot, _ := ps.commit(func() (bool, error) {
		ps.pins = pins
		return true, nil
	})

	ps.log.InfoContext(ctx, "Pins loaded", "count", len(snapshot.Pins))
}

// AddLocation appends a new pin and persists the collection.
func (ps *PinStore) AddLocation(
	ctx context.Context,
	name string,
	coord models.Coordinates,
	color string,
) (models.Pin, error) {
	if err := coord.Validate(); err != nil {
		return models.Pin{}, err
	}

	pin := models.NewPin(name, coord, color)
	if err := ps.mutate(ctx, "add", func(pins []models.Pin) []models.Pin {
		return append(pins, pin)
	}); err != nil {
		return pin, err
	}

	ps.log.DebugContext(ctx, "Pin added", "id", pin.ID, "name", pin.Name)

	return pin, nil
}

// AddCurrentLocation adds a pin at the last known device position. Without a
// known position nothing is added and ErrPositionUnavailable is returned.
func (ps *PinStore) AddCurrentLocation(ctx context.Context, name, color string) (models.Pin, error) {
	coord, ok := ps.location.CurrentPosition()
	if !ok {
		ps.log.WarnContext(ctx, "Current location not available, pin not added", "name", name)
		return models.Pin{}, ErrPositionUnavailable
	}

	return ps.AddLocation(ctx, name, coord, color)
}

// DeleteLocation removes the pin with the given id, if present, and persists
// the collection. An unknown id is not an error.
func (ps *PinStore) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return ps.mutate(ctx, "delete", func(pins []models.Pin) []models.Pin {
		return slices.DeleteFunc(pins, func(pin models.Pin) bool { return pin.ID == id })
	})
}

// ResetLocations removes every pin and persists the empty collection.
func (ps *PinStore) ResetLocations(ctx context.Context) error {
	return ps.mutate(ctx, "reset", func([]models.Pin) []models.Pin {
		return []models.Pin{}
	})
}

// mutate applies fn to the collection and saves the result while holding the
// lock, so saves land in the same order as the mutations. A failed save keeps
// the in-memory change; the next successful save brings the store back in sync.
func (ps *PinStore) mutate(ctx context.Context, operation string, fn func([]models.Pin) []models.Pin) error {
	_, err := ps.commit(func() (bool, error) {
		ps.pins = fn(ps.pins)
		return true, ps.repo.Save(ctx, slices.Clone(ps.pins))
	})

	ps.metrics.Mutations.WithLabelValues(operation).Inc()

	if err != nil {
		ps.log.ErrorContext(ctx, "Failed to save pins", "operation", operation, "error", err)
		ps.metrics.PersistenceErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to persist pins after %s: %w", operation, err)
	}

	return nil
}

// Pins returns a copy of the collection in insertion order.
func (ps *PinStore) Pins() []models.Pin {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	return slices.Clone(ps.pins)
}

// Search returns the pins whose name contains query, ignoring case. A blank
// query returns every pin. Insertion order is preserved.
func (ps *PinStore) Search(query string) []models.Pin {
	query = strings.ToLower(strings.TrimSpace(query))
	pins := ps.Pins()
	if query == "" {
		return pins
	}

	return slices.DeleteFunc(pins, func(pin models.Pin) bool {
		return !strings.Contains(strings.ToLower(pin.Name), query)
	})
}

// Pin returns the pin with the given id.
func (ps *PinStore) Pin(id uuid.UUID) (models.Pin, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	idx := slices.IndexFunc(ps.pins, func(pin models.Pin) bool { return pin.ID == id })
	if idx < 0 {
		return models.Pin{}, false
	}

	return ps.pins[idx], true
}

// Snapshot returns a copy of the full store state.
func (ps *PinStore) Snapshot() Snapshot {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	return ps.snapshotLocked()
}

// commit runs change under the store lock. When change reports a modification
// the pin gauge is updated and observers receive the new snapshot; commits are
// delivered in the order they were made.
func (ps *PinStore) commit(change func() (bool, error)) (Snapshot, error) {
	ps.commitMu.Lock()
	defer ps.commitMu.Unlock()

	ps.mu.Lock()
	changed, err := change()
	snapshot := ps.snapshotLocked()
	ps.mu.Unlock()

	if changed {
		ps.metrics.Pins.Set(float64(len(snapshot.Pins)))
		ps.notify(snapshot)
	}

	return snapshot, err
}

// snapshotLocked must be called with ps.mu held.
func (ps *PinStore) snapshotLocked() Snapshot {
	return Snapshot{
		Pins:       slices.Clone(ps.pins),
		Viewport:   ps.viewport,
		Permission: ps.permission,
	}
}

// Subscribe registers an observer that receives a snapshot after every change,
// in the order the changes were made. Observers are called synchronously,
// outside the store lock; they may read the store but must not modify it.
func (ps *PinStore) Subscribe(observer func(Snapshot)) func() {
	ps.obsMu.Lock()
	defer ps.obsMu.Unlock()

	id := ps.nextObs
	ps.nextObs++
	ps.observers[id] = observer

	return func() {
		ps.obsMu.Lock()
		defer ps.obsMu.Unlock()

		delete(ps.observers, id)
	}
}

func (ps *PinStore) notify(snapshot Snapshot) {
	ps.obsMu.Lock()
	observers := make([]func(Snapshot), 0, len(ps.observers))
	for _, observer := range ps.observers {
		observers = append(observers, observer)
	}
	ps.obsMu.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
}
