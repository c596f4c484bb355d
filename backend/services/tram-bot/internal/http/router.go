package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"metrotram/backend/services/tram-bot/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	BoardHandlers *handlers.BoardHandlers
	HealthHandler http.HandlerFunc
	// PanelsStream serves /ws/panels; nil leaves the route unregistered.
	PanelsStream http.Handler
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recovery(logger))

	r.Get("/health", deps.HealthHandler)

	r.Route("/api/lines", func(r chi.Router) {
		r.Get("/", deps.BoardHandlers.Lines)
		r.Get("/{lineID}/stops", deps.BoardHandlers.Stops)
		r.Get("/{lineID}/stops/{stopID}/panels", deps.BoardHandlers.Panels)
	})

	if deps.PanelsStream != nil {
		r.Method(http.MethodGet, "/ws/panels", deps.PanelsStream)
	}
	return r
}
