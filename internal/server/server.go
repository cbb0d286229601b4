package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bulletrow/internal/config"
	"bulletrow/internal/logger"
	"bulletrow/internal/storage"
)

// maxRequestBytes bounds the size of a /render request body
const maxRequestBytes = 1 << 20

// Server serves bullet row renders over HTTP
type Server struct {
	Config  *config.Config
	Storage storage.StorageClient

	log     *logger.Logger
	metrics *metrics
	now     func() time.Time

	// storeMu serializes picking a free name and writing it
	storeMu sync.Mutex
}

type metrics struct {
	registry *prometheus.Registry
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulletrow",
			Name:      "renders_total",
			Help:      "Rendered bullet rows by output format and outcome.",
		}, []string{"format", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bulletrow",
			Name:      "render_duration_seconds",
			Help:      "Time spent laying out and encoding a bullet row.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"format"}),
	}
	m.registry.MustRegister(m.renders, m.duration)
	return m
}

// NewServer creates a server. store may be nil, in which case requests
// asking for the render to be kept are rejected.
func NewServer(cfg *config.Config, store storage.StorageClient) *Server {
	return &Server{
		Config:  cfg,
		Storage: store,
		log:     logger.Component("server"),
		metrics: newMetrics(),
		now:     time.Now,
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/render", s.HandleRender)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
