package observability

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig controls the sidecar HTTP server Router builds. AllowedOrigins
// and friends follow the same shape as a browser-facing CORS policy. Left
// empty, the defaults allow any origin ("*"), the GET method only, and the
// Accept and Content-Type headers.
type ServerConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func (c ServerConfig) corsOptions() cors.Options {
	origins := c.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	methods := c.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET"}
	}
	headers := c.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Accept", "Content-Type"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

// Router builds the sidecar HTTP surface this module exposes alongside the
// DICOM Upper Layer listener: a liveness probe at /healthz and a Prometheus
// scrape endpoint at /metrics backed by reg. It never touches the DICOM
// wire protocol itself.
func Router(reg *prometheus.Registry, cfg ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(cfg.corsOptions()))

	r.Get("/healthz", healthHandler)

	gatherer := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	r.Handle("/metrics", gatherer)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
