package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Pins              prometheus.Gauge
	Mutations         *prometheus.CounterVec
	PersistenceErrors *prometheus.CounterVec
	SearchSeconds     *prometheus.HistogramVec
	SearchErrors      prometheus.Counter
	LocationEvents    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Pins: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "pinmap_pins",
			Help: "Current number of pins in the collection.",
		}),
		Mutations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pinmap_mutations_total",
			Help: "Total number of pin collection mutations by operation.",
		}, []string{"operation"}),
		PersistenceErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pinmap_persistence_errors_total",
			Help: "Total number of failed saves and loads of the pin collection.",
		}, []string{"operation"}),
		SearchSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pinmap_search_request_duration_seconds",
			Help:    "Duration of requests to the place-search provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		SearchErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pinmap_search_errors_total",
			Help: "Total number of errors received from the place-search provider.",
		}),
		LocationEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pinmap_location_events_total",
			Help: "Total number of device location events applied by kind.",
		}, []string{"kind"}),
	}
}
