package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/pinmap/internal/config"
	"github.com/UnknownOlympus/pinmap/internal/geocoding"
	"github.com/UnknownOlympus/pinmap/internal/handler"
	"github.com/UnknownOlympus/pinmap/internal/kvstore"
	"github.com/UnknownOlympus/pinmap/internal/location"
	"github.com/UnknownOlympus/pinmap/internal/metrics"
	"github.com/UnknownOlympus/pinmap/internal/repository"
	"github.com/UnknownOlympus/pinmap/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	checks := make(map[string]handler.Pinger)

	// Initialize the key-value store selected in the configuration.
	store, err := kvstore.NewStore(ctx, kvstore.Config{
		Backend:    kvstore.Backend(cfg.Storage.Backend),
		Dir:        cfg.Storage.Dir,
		Postgres:   kvstore.PostgresConfig(cfg.Storage.Postgres),
		ValkeyAddr: cfg.Storage.ValkeyAddr,
		S3:         kvstore.S3Config(cfg.Storage.S3),
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if pinger, ok := store.(kvstore.Pinger); ok {
		checks["storage"] = pinger
	}
	if closer, ok := store.(kvstore.Closer); ok {
		defer closeQuietly(logger, "storage", closer)
	}

	logger.InfoContext(ctx, "Storage initialized", "backend", cfg.Storage.Backend)

	// Create a new repository instance on top of the store.
	repo := repository.NewRepository(store, cfg.Storage.Key, logger)

	// Select where device permission and position events come from.
	var (
		locationProvider location.Provider
		device           handler.DeviceFeed
	)
	switch cfg.Location.Source {
	case config.LocationSourceNATS:
		conn, connErr := location.Connect(cfg.Location.NATSURL)
		if connErr != nil {
			log.Fatalf("Failed to connect to NATS: %v", connErr)
		}
		natsFeed, feedErr := location.NewNATSFeed(conn, cfg.Location.SubjectPrefix, logger)
		if feedErr != nil {
			log.Fatalf("Failed to subscribe to device events: %v", feedErr)
		}
		defer closeQuietly(logger, "nats", natsFeed)
		locationProvider = natsFeed
	default:
		feed := location.NewFeed(logger)
		locationProvider = feed
		device = feed
	}

	logger.InfoContext(ctx, "Location source initialized", "source", cfg.Location.Source)

	// Create place-search provider using factory pattern based on configuration.
	// This allows runtime selection between Google, Visicom and Nominatim, or no search at all.
	searchProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Provider.Type),
		APIKey:    cfg.Provider.APIKey,
		RateLimit: cfg.Provider.RateLimit,
		Language:  cfg.Provider.Language,
		Logger:    logger,
	})
	switch {
	case errors.Is(err, geocoding.ErrProviderDisabled):
		logger.InfoContext(ctx, "Place search disabled")
	case err != nil:
		log.Fatalf("Failed to create place-search provider: %v", err)
	default:
		logger.InfoContext(ctx, "Place-search provider initialized", "type", cfg.Provider.Type)
	}

	// Init the pin store and restore the saved pins.
	pinStore := service.NewPinStore(
		logger,
		repo,
		locationProvider,
		searchProvider,
		cfg.Provider.Type, // Provider name for metrics
		appMetrics,
	)
	pinStore.Load(ctx)

	go pinStore.Run(ctx)

	if err = pinStore.RequestPermission(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to request location permission", "error", err)
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	router := handler.NewRouter(&handler.RouterDeps{
		Store:    pinStore,
		Device:   device,
		Checks:   checks,
		Gatherer: reg,
		Logger:   logger,
	})

	// Start the HTTP server in a goroutine to allow main to listen for signals.
	server := newServer(router, cfg.Port)
	go startServer(ctx, logger, server)

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 10
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "HTTP server shutdown failed", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

func newServer(router http.Handler, port int) *http.Server {
	readTimeout := 5
	writeTimeout := 10

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}

// startServer serves the pin API, health check and metrics endpoints until
// the server is shut down.
func startServer(ctx context.Context, log *slog.Logger, server *http.Server) {
	log.InfoContext(ctx, "Starting HTTP server", "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "HTTP server failed", "error", err)
	}
}

func closeQuietly(log *slog.Logger, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		log.Error("Failed to close connection", "dependency", name, "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
