package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/contextload"
	"github.com/heartmarshall/entity-events/internal/service/events"
	"github.com/heartmarshall/entity-events/internal/service/matching"
)

type mediumResolver interface {
	MediumByName(ctx context.Context, name string) (*matching.Medium, error)
}

type contextLoader interface {
	Load(ctx context.Context, events []domain.Event, mediums ...domain.Medium) ([]*contextload.LoadedEvent, error)
}

type seenMarker interface {
	MarkSeen(ctx context.Context, input events.MarkSeenInput) (int, error)
}

// MediumHandler serves the per-medium read endpoints.
type MediumHandler struct {
	mediums mediumResolver
	loader  contextLoader
	seen    seenMarker
	log     *slog.Logger
}

// NewMediumHandler creates a MediumHandler.
func NewMediumHandler(mediums mediumResolver, loader contextLoader, seen seenMarker, logger *slog.Logger) *MediumHandler {
	return &MediumHandler{
		mediums: mediums,
		loader:  loader,
		seen:    seen,
		log:     logger.With("handler", "mediums"),
	}
}

// medium resolves the {medium} path segment and the filter. It writes the
// error response itself and returns ok=false on failure.
func (h *MediumHandler) medium(w http.ResponseWriter, r *http.Request) (*matching.Medium, matching.Filter, bool) {
	f, err := parseFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return nil, f, false
	}
	m, err := h.mediums.MediumByName(r.Context(), r.PathValue("medium"))
	if err != nil {
		handleError(h.log, w, r, err)
		return nil, f, false
	}
	return m, f, true
}

// Events handles GET /api/mediums/{medium}/events.
func (h *MediumHandler) Events(w http.ResponseWriter, r *http.Request) {
	m, f, ok := h.medium(w, r)
	if !ok {
		return
	}

	evs, err := m.Events(r.Context(), f)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": toEventResponses(evs)})
}

// EntityEvents handles GET /api/mediums/{medium}/entities/{entity}/events.
func (h *MediumHandler) EntityEvents(w http.ResponseWriter, r *http.Request) {
	_, evs, ok := h.entityEvents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": toEventResponses(evs)})
}

func (h *MediumHandler) entityEvents(w http.ResponseWriter, r *http.Request) (*matching.Medium, []domain.Event, bool) {
	entityID, err := pathID(r, "entity")
	if err != nil {
		handleError(h.log, w, r, err)
		return nil, nil, false
	}
	m, f, ok := h.medium(w, r)
	if !ok {
		return nil, nil, false
	}

	evs, err := m.EntityEvents(r.Context(), entityID, f)
	if err != nil {
		handleError(h.log, w, r, err)
		return nil, nil, false
	}
	return m, evs, true
}

// Targets handles GET /api/mediums/{medium}/targets. The optional kind
// parameter keeps only targets of that entity kind ID.
func (h *MediumHandler) Targets(w http.ResponseWriter, r *http.Request) {
	p := &queryParser{q: r.URL.Query()}
	kindID := p.id("kind")
	if err := p.err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	m, f, ok := h.medium(w, r)
	if !ok {
		return
	}

	targets, err := m.EventsTargets(r.Context(), f, kindID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": toTargetsResponses(targets)})
}

// Feed handles GET /api/mediums/{medium}/feed/{entity}: the entity's events
// with hydrated contexts, rendered for the medium.
func (h *MediumHandler) Feed(w http.ResponseWriter, r *http.Request) {
	m, evs, ok := h.entityEvents(w, r)
	if !ok {
		return
	}

	loaded, err := h.loader.Load(r.Context(), evs, m.Medium)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items := make([]feedItem, 0, len(loaded))
	for _, le := range loaded {
		item, err := h.feedItem(r.Context(), le, m.Medium)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": items})
}

func (h *MediumHandler) feedItem(ctx context.Context, le *contextload.LoadedEvent, m domain.Medium) (feedItem, error) {
	data, err := le.SerializedContext(m)
	if err != nil {
		return feedItem{}, err
	}
	item := feedItem{ID: le.ID, SourceID: le.SourceID, CreatedAt: le.CreatedAt, Context: data}

	renderer, err := le.Renderer(m)
	if err != nil || renderer == nil {
		return item, err
	}
	out, err := le.Render(ctx, m)
	if err != nil {
		return feedItem{}, err
	}
	item.Text, item.HTML = &out.Text, &out.HTML
	return item, nil
}

// MarkSeen handles POST /api/mediums/{medium}/seen.
func (h *MediumHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	var req markSeenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := h.mediums.MediumByName(r.Context(), r.PathValue("medium"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	n, err := h.seen.MarkSeen(r.Context(), events.MarkSeenInput{MediumID: m.ID, EventIDs: req.EventIDs})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"marked": n})
}
