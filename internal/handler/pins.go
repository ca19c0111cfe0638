package handler

import (
	"net/http"

	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type addPinRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ColorHex  string   `json:"colorHex"`
}

type addCurrentPinRequest struct {
	Name     string `json:"name"`
	ColorHex string `json:"colorHex"`
}

// ListPins returns the pins, filtered by the optional "q" query parameter.
// GET /api/pins
func (h *Handler) ListPins(w http.ResponseWriter, r *http.Request) {
	pins := h.store.Search(r.URL.Query().Get("q"))
	writeJSON(w, h.log, http.StatusOK, toPinResponses(pins))
}

// AddPin drops a new pin at the given coordinate.
// POST /api/pins
func (h *Handler) AddPin(w http.ResponseWriter, r *http.Request) {
	var req addPinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "request body is not valid JSON")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "latitude and longitude are required")
		return
	}

	coord := models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	pin, err := h.store.AddLocation(r.Context(), req.Name, coord, req.ColorHex)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusCreated, toPinResponse(pin))
}

// AddCurrentPin drops a new pin at the device position.
// POST /api/pins/current
func (h *Handler) AddCurrentPin(w http.ResponseWriter, r *http.Request) {
	var req addCurrentPinRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "request body is not valid JSON")
			return
		}
	}

	pin, err := h.store.AddCurrentLocation(r.Context(), req.Name, req.ColorHex)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusCreated, toPinResponse(pin))
}

// DeletePin removes a pin. Unknown ids are accepted.
// DELETE /api/pins/{id}
func (h *Handler) DeletePin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pinID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteLocation(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetPins removes every pin.
// DELETE /api/pins
func (h *Handler) ResetPins(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ResetLocations(r.Context()); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CenterOnPin moves the viewport to a pin.
// POST /api/pins/{id}/center
func (h *Handler) CenterOnPin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pinID(w, r)
	if !ok {
		return
	}

	pin, found := h.store.Pin(id)
	if !found {
		writeError(w, h.log, http.StatusNotFound, codeNotFound, "pin not found")
		return
	}

	writeJSON(w, h.log, http.StatusOK, h.store.CenterOnLocation(r.Context(), pin))
}

func (h *Handler) pinID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidID, "pin id must be a UUID")
		return uuid.Nil, false
	}

	return id, true
}
