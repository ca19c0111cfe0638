package service

import (
	"context"
	"time"

	"github.com/UnknownOlympus/pinmap/internal/models"
)

// SearchPlaces looks places up with the configured search provider.
func (ps *PinStore) SearchPlaces(ctx context.Context, query string) ([]models.Place, error) {
	if ps.search == nil {
		return nil, ErrSearchUnavailable
	}

	startTime := time.Now()
	places, err := ps.search.Search(ctx, query)
	ps.metrics.SearchSeconds.WithLabelValues(ps.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		ps.log.ErrorContext(ctx, "Place search failed", "query", query, "error", err)
		ps.metrics.SearchErrors.Inc()
		return nil, err
	}

	ps.log.DebugContext(ctx, "Place search finished", "query", query, "results", len(places))

	return places, nil
}
