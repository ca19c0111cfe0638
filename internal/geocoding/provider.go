package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/pinmap/internal/models"
)

// MaxResults caps the number of places returned by a single search.
const MaxResults = 5

// ErrEmptyQuery is returned when a search is requested for a blank query.
var ErrEmptyQuery = errors.New("search query is empty")

// Provider is an interface that defines a method for searching places.
// The Search method takes a context and a free-text query as input,
// and returns the matching places, best match first, and an error if any occurs.
type Provider interface {
	Search(ctx context.Context, query string) ([]models.Place, error)
}
