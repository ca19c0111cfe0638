package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/pinmap/internal/geocoding"
	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/UnknownOlympus/pinmap/internal/service"
)

// Error codes returned in the "code" field of error responses.
const (
	codeInvalidRequest      = "INVALID_REQUEST"
	codeInvalidCoordinate   = "INVALID_COORDINATE"
	codeInvalidID           = "INVALID_ID"
	codeNotFound            = "NOT_FOUND"
	codePositionUnavailable = "POSITION_UNAVAILABLE"
	codeSearchUnavailable   = "SEARCH_UNAVAILABLE"
	codeSearchFailed        = "SEARCH_FAILED"
	codePersistenceFailed   = "PERSISTENCE_FAILED"
	codePermissionFailed    = "PERMISSION_REQUEST_FAILED"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to write reply", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, code, message string) {
	writeJSON(w, log, status, errorResponse{Code: code, Message: message})
}

// writeServiceError maps a pin store error to a status and code.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCoordinate):
		writeError(w, log, http.StatusBadRequest, codeInvalidCoordinate, err.Error())
	case errors.Is(err, service.ErrPositionUnavailable):
		writeError(w, log, http.StatusConflict, codePositionUnavailable, err.Error())
	case errors.Is(err, service.ErrSearchUnavailable):
		writeError(w, log, http.StatusNotImplemented, codeSearchUnavailable, err.Error())
	case errors.Is(err, geocoding.ErrEmptyQuery):
		writeError(w, log, http.StatusBadRequest, codeInvalidRequest, err.Error())
	default:
		writeError(w, log, http.StatusInternalServerError, codePersistenceFailed, "failed to save pins")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(dst)
}

// pinResponse uses the same field names as the persisted pin records.
type pinResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ColorHex  string  `json:"colorHex"`
}

func toPinResponse(pin models.Pin) pinResponse {
	return pinResponse{
		ID:        pin.ID.String(),
		Name:      pin.Name,
		Latitude:  pin.Coordinate.Latitude,
		Longitude: pin.Coordinate.Longitude,
		ColorHex:  pin.Color.String(),
	}
}

func toPinResponses(pins []models.Pin) []pinResponse {
	result := make([]pinResponse, 0, len(pins))
	for _, pin := range pins {
		result = append(result, toPinResponse(pin))
	}

	return result
}

type permissionResponse struct {
	Permission models.Permission `json:"permission"`
}
