package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PinService is the part of the pin store used by the HTTP API.
type PinService interface {
	Search(query string) []models.Pin
	Pin(id uuid.UUID) (models.Pin, bool)
	AddLocation(ctx context.Context, name string, coord models.Coordinates, color string) (models.Pin, error)
	AddCurrentLocation(ctx context.Context, name, color string) (models.Pin, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	ResetLocations(ctx context.Context) error
	CenterOnLocation(ctx context.Context, pin models.Pin) models.Viewport
	CenterOn(coord models.Coordinates) models.Viewport
	CenterOnCurrentLocation(ctx context.Context) models.Viewport
	Viewport() models.Viewport
	Permission() models.Permission
	RequestPermission(ctx context.Context) error
	SearchPlaces(ctx context.Context, query string) ([]models.Place, error)
}

// DeviceFeed accepts permission and position events reported by the device.
type DeviceFeed interface {
	PushPermission(status models.AuthorizationStatus)
	PushPosition(coord models.Coordinates) error
}

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps holds everything NewRouter needs.
type RouterDeps struct {
	Store    PinService
	Device   DeviceFeed        // Device is nil when device events arrive over NATS
	Checks   map[string]Pinger // Checks are pinged by /healthz
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Handler serves the pin API.
type Handler struct {
	store  PinService
	device DeviceFeed
	log    *slog.Logger
}

// NewRouter builds the chi router with the pin API, the device endpoints and monitoring.
func NewRouter(deps *RouterDeps) http.Handler {
	h := &Handler{
		store:  deps.Store,
		device: deps.Device,
		log:    deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(deps.Logger, deps.Checks))
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(requestLogger(deps.Logger))

		r.Route("/pins", func(r chi.Router) {
			r.Get("/", h.ListPins)
			r.Post("/", h.AddPin)
			r.Delete("/", h.ResetPins)
			r.Post("/current", h.AddCurrentPin)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", h.DeletePin)
				r.Post("/center", h.CenterOnPin)
			})
		})

		r.Route("/viewport", func(r chi.Router) {
			r.Get("/", h.GetViewport)
			r.Post("/current", h.CenterOnCurrent)
			r.Post("/center", h.CenterOn)
		})

		r.Get("/permission", h.GetPermission)
		r.Post("/permission/request", h.RequestPermission)

		r.Get("/places", h.SearchPlaces)

		if deps.Device != nil {
			r.Route("/device", func(r chi.Router) {
				r.Post("/permission", h.DevicePermission)
				r.Post("/position", h.DevicePosition)
			})
		}
	})

	return r
}

// requestLogger logs one line per API request, with the level raised for failures.
func requestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelDebug
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			log.Log(r.Context(), level, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// healthHandler pings every dependency and answers 503 on the first failure.
func healthHandler(log *slog.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(writer http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log.DebugContext(ctx, "Performing health checks...")

		status, body := http.StatusOK, "OK"
		for name, check := range checks {
			if err := check.Ping(ctx); err != nil {
				log.WarnContext(ctx, "Health check failed", "dependency", name, "error", err)
				status, body = http.StatusServiceUnavailable, name+" ping failed"
				break
			}
		}

		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	}
}
