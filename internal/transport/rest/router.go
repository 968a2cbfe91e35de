package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/entity-events/internal/transport/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Health  *HealthHandler
	Events  *EventHandler
	Mediums *MediumHandler
}

// NewRouter mounts every endpoint behind the request ID, logging and
// recovery middleware.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/events", h.Events.Create)
	mux.HandleFunc("POST /api/events/batch", h.Events.CreateBatch)

	mux.HandleFunc("GET /api/mediums/{medium}/events", h.Mediums.Events)
	mux.HandleFunc("GET /api/mediums/{medium}/entities/{entity}/events", h.Mediums.EntityEvents)
	mux.HandleFunc("GET /api/mediums/{medium}/targets", h.Mediums.Targets)
	mux.HandleFunc("GET /api/mediums/{medium}/feed/{entity}", h.Mediums.Feed)
	mux.HandleFunc("POST /api/mediums/{medium}/seen", h.Mediums.MarkSeen)

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)(mux)
}
