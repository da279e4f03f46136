package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zabuzara/project-milestone-dashboard-backend/logging"
)

// Pinger reports whether the database is reachable.
type Pinger func(ctx context.Context) error

type RouterConfig struct {
	Members        *MemberHandler
	Milestones     *MilestoneHandler
	Projects       *ProjectHandler
	Ping           Pinger
	AllowedOrigin  string
	RequestTimeout time.Duration
}

// NewRouter wires every API route plus /health and /metrics behind the CORS, logging and
// timeout middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)
	if cfg.RequestTimeout > 0 {
		r.Use(TimeoutMiddleware(cfg.RequestTimeout))
	}

	cfg.Members.Register(r)
	cfg.Milestones.Register(r)
	cfg.Projects.Register(r)

	r.HandleFunc("/health", healthHandler(cfg.Ping)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// mux skips router middleware when no route matches.
	r.NotFoundHandler = LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Result{Message: "Route not found"})
	}))
	r.MethodNotAllowedHandler = LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Result{Message: "Method not allowed"})
	}))

	return EnableCORS(cfg.AllowedOrigin)(r)
}

func healthHandler(ping Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				logging.Logger.Warnf("Event ID: HEALTH_CHECK_FAILED, Description: Database ping failed: %v", err)
				writeJSON(w, http.StatusServiceUnavailable, Result{Message: "Database unreachable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, Result{Success: true, Message: "OK"})
	}
}
