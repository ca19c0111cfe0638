package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned when a latitude or longitude is outside its valid range.
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
}

// Validate reports whether the latitude lies in [-90, 90] and the longitude in [-180, 180].
func (c Coordinates) Validate() error {
	const (
		maxLatitude  = 90
		maxLongitude = 180
	)

	if math.IsNaN(c.Latitude) || c.Latitude < -maxLatitude || c.Latitude > maxLatitude {
		return fmt.Errorf("%w: latitude %f", ErrInvalidCoordinate, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -maxLongitude || c.Longitude > maxLongitude {
		return fmt.Errorf("%w: longitude %f", ErrInvalidCoordinate, c.Longitude)
	}

	return nil
}

// Place is a single result returned by a place-search provider.
type Place struct {
	Name       string      `json:"name"`       // Human readable name or formatted address.
	Coordinate Coordinates `json:"coordinate"` // Location of the place.
}
