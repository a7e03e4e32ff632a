package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil members are skipped.
type RouterConfig struct {
	ClassificationHandler *handlers.ClassificationHandler
	HealthHandler         *handlers.HealthHandler

	// MetricsHandler serves the prometheus exposition at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string
	HTTPRecorder   middleware.HTTPRecorder

	Logger        logging.Logger
	LoggingConfig *middleware.LoggingConfig
}

// NewRouter builds the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Logger != nil {
		lc := middleware.DefaultLoggingConfig()
		if cfg.LoggingConfig != nil {
			lc = *cfg.LoggingConfig
		}
		r.Use(middleware.RequestLogging(cfg.Logger, lc))
	}
	if cfg.HTTPRecorder != nil {
		r.Use(middleware.Metrics(cfg.HTTPRecorder))
	}
	r.Use(chimw.Recoverer)

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerClassificationRoutes(api, cfg.ClassificationHandler)
	})

	return r
}

func registerClassificationRoutes(r chi.Router, h *handlers.ClassificationHandler) {
	if h == nil {
		return
	}
	r.Route("/classifications", func(cr chi.Router) {
		cr.Post("/", h.Submit)
		cr.Get("/{id}", h.Get)
	})
}

//Personal.AI order the ending
