package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/pinmap/internal/kvstore"
	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrSerialize is returned when the pin collection cannot be encoded.
	ErrSerialize = errors.New("failed to serialize pins")
	// ErrMalformed is returned when the stored value cannot be decoded into pins.
	ErrMalformed = errors.New("stored pins are malformed")
)

// pinRecord is the persisted shape of a pin. The format carries no schema
// version, so changing it breaks previously saved collections.
type pinRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ColorHex  string  `json:"colorHex"`
}

// Save serializes the full ordered collection and overwrites the stored value.
func (r *Repository) Save(ctx context.Context, pins []models.Pin) error {
	records := make([]pinRecord, 0, len(pins))
	for _, pin := range pins {
		records = append(records, pinRecord{
			ID:        pin.ID.String(),
			Name:      pin.Name,
			Latitude:  pin.Coordinate.Latitude,
			Longitude: pin.Coordinate.Longitude,
			ColorHex:  pin.Color.String(),
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	if err = r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to write pins: %w", err)
	}

	r.log.DebugContext(ctx, "Pins saved", "key", r.key, "count", len(pins))

	return nil
}

// Load reads the stored collection. A missing value yields an empty collection
// and no error; a value that cannot be decoded yields an error wrapping ErrMalformed.
func (r *Repository) Load(ctx context.Context) ([]models.Pin, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			r.log.DebugContext(ctx, "No saved pins found", "key", r.key)
			return []models.Pin{}, nil
		}
		return nil, fmt.Errorf("failed to read pins: %w", err)
	}

	var records []pinRecord
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	pins := make([]models.Pin, 0, len(records))
	for idx, record := range records {
		id, errParse := uuid.Parse(record.ID)
		if errParse != nil {
			return nil, fmt.Errorf("%w: pin %d has invalid id %q: %w", ErrMalformed, idx, record.ID, errParse)
		}

		pins = append(pins, models.Pin{
			ID:   id,
			Name: models.PinName(record.Name),
			Coordinate: models.Coordinates{
				Latitude:  record.Latitude,
				Longitude: record.Longitude,
			},
			Color: models.ParseColor(record.ColorHex),
		})
	}

	r.log.DebugContext(ctx, "Pins loaded", "key", r.key, "count", len(pins))

	return pins, nil
}
