package handler

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/pinmap/internal/geocoding"
	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/UnknownOlympus/pinmap/internal/service"
)

type centerRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type placeResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GetViewport returns the current map viewport.
// GET /api/viewport
func (h *Handler) GetViewport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.log, http.StatusOK, h.store.Viewport())
}

// CenterOnCurrent moves the viewport to the device, or to the fallback region.
// POST /api/viewport/current
func (h *Handler) CenterOnCurrent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, h.store.CenterOnCurrentLocation(r.Context()))
}

// CenterOn moves the viewport to a coordinate, typically a picked search result.
// POST /api/viewport/center
func (h *Handler) CenterOn(w http.ResponseWriter, r *http.Request) {
	var req centerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "request body is not valid JSON")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "latitude and longitude are required")
		return
	}

	coord := models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := coord.Validate(); err != nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidCoordinate, err.Error())
		return
	}

	writeJSON(w, h.log, http.StatusOK, h.store.CenterOn(coord))
}

// GetPermission returns the location permission state.
// GET /api/permission
func (h *Handler) GetPermission(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.log, http.StatusOK, permissionResponse{Permission: h.store.Permission()})
}

// RequestPermission asks the device to prompt for location access.
// POST /api/permission/request
func (h *Handler) RequestPermission(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RequestPermission(r.Context()); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to request location permission", "error", err)
		writeError(w, h.log, http.StatusBadGateway, codePermissionFailed, "failed to request location permission")
		return
	}

	writeJSON(w, h.log, http.StatusAccepted, permissionResponse{Permission: h.store.Permission()})
}

// SearchPlaces looks places up by free text.
// GET /api/places
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.store.SearchPlaces(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) || errors.Is(err, geocoding.ErrEmptyQuery) {
			writeServiceError(w, h.log, err)
			return
		}
		writeError(w, h.log, http.StatusBadGateway, codeSearchFailed, "place search failed")
		return
	}

	result := make([]placeResponse, 0, len(places))
	for _, place := range places {
		result = append(result, placeResponse{
			Name:      place.Name,
			Latitude:  place.Coordinate.Latitude,
			Longitude: place.Coordinate.Longitude,
		})
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
