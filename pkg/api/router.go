package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodeforest/pkg/service"
)

// Options configures the router.
type Options struct {
	// Logger receives one line per request. Defaults to log.Default().
	Logger *log.Logger

	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
}

// NewRouter returns the HTTP handler for svc.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	h := NewHandlers(svc, opts.Logger)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HandleHealth)
	r.Get("/nodes", h.HandleGetNodes)
	r.Patch("/nodes/move", h.HandleMove)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})
	return r
}
