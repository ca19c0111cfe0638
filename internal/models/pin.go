package models

import (
	"strings"

	"github.com/google/uuid"
)

// UnnamedPin is the name given to a pin created with a blank name.
const UnnamedPin = "Unnamed"

// Pin is a named, colored location saved by the user. Pins are never mutated
// after creation; two pins are the same pin only if their IDs match.
type Pin struct {
	ID         uuid.UUID   // ID is assigned once at creation.
	Name       string      // Name is never empty.
	Coordinate Coordinates // Coordinate is where the pin was dropped.
	Color      Color       // Color is the marker tint in "#RRGGBB" form.
}

// NewPin creates a pin with a fresh identifier. A blank name is replaced by
// UnnamedPin and the color is normalized with ParseColor.
func NewPin(name string, coord Coordinates, color string) Pin {
	return Pin{
		ID:         uuid.New(),
		Name:       PinName(name),
		Coordinate: coord,
		Color:      ParseColor(color),
	}
}

// PinName trims the given name and falls back to UnnamedPin when nothing is left.
func PinName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnnamedPin
	}

	return name
}

// Equal reports whether both pins share the same identifier.
func (p Pin) Equal(other Pin) bool {
	return p.ID == other.ID
}
