package handler

import (
	"net/http"

	"github.com/UnknownOlympus/pinmap/internal/models"
)

type devicePermissionRequest struct {
	Status models.AuthorizationStatus `json:"status"`
}

// DevicePermission reports a platform authorization change.
// POST /api/device/permission
func (h *Handler) DevicePermission(w http.ResponseWriter, r *http.Request) {
	var req devicePermissionRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "status is required")
		return
	}

	h.device.PushPermission(req.Status)
	w.WriteHeader(http.StatusAccepted)
}

// DevicePosition reports a new device position.
// POST /api/device/position
func (h *Handler) DevicePosition(w http.ResponseWriter, r *http.Request) {
	var req centerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "request body is not valid JSON")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidRequest, "latitude and longitude are required")
		return
	}

	if err := h.device.PushPosition(models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}); err != nil {
		writeError(w, h.log, http.StatusBadRequest, codeInvalidCoordinate, err.Error())
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
