// Package httpapi assembles the site router: the shared middleware chain,
// the operational endpoints and every feature's routes.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	authmw "ecohubs/internal/auth/middleware"
	"ecohubs/internal/platform/metrics"
	"ecohubs/internal/platform/middleware"
	"ecohubs/pkg/platform/httputil"
	metadata "ecohubs/pkg/platform/middleware/metadata"
	"ecohubs/pkg/platform/middleware/requesttime"
)

// Registrar mounts one feature's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Deps is everything the router needs. Session and Health may be nil.
// Admin routes are mounted only together with a Session: without one there
// is no admin surface at all, whatever cookies clients present.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Proxies  metadata.TrustedProxies
	Session  func(http.Handler) http.Handler
	Paths    authmw.Paths
	Health   http.HandlerFunc
	Exporter http.Handler
	Features []Registrar
	Admin    []Registrar
}

// NewRouter wires the middleware chain in order: request id, panic recovery,
// security headers, request time, client metadata, access log, latency,
// session, admin gate.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(NewRequestID))
	r.Use(middleware.Recovery(deps.Logger, deps.Metrics))
	r.Use(middleware.SecurityHeaders)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata(deps.Proxies))
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Latency(deps.Metrics))
	}
	if deps.Session != nil {
		r.Use(deps.Session)
	}
	r.Use(authmw.Gate(deps.Paths))

	if deps.Health != nil {
		r.Get("/healthz", deps.Health)
	}
	if deps.Exporter != nil {
		r.Method(http.MethodGet, "/metrics", deps.Exporter)
	}
	for _, f := range deps.Features {
		f.Register(r)
	}
	if deps.Session != nil {
		for _, f := range deps.Admin {
			f.Register(r)
		}
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "not_found"})
	})
	return r
}

// NewRequestID returns a ULID, sortable by creation time.
func NewRequestID() string {
	return ulid.Make().String()
}
