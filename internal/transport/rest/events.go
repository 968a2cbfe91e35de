package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/events"
)

type eventService interface {
	CreateEvent(ctx context.Context, input events.CreateEventInput) (*domain.Event, error)
	CreateEvents(ctx context.Context, inputs []events.CreateEventInput) ([]domain.Event, error)
}

// EventHandler serves event ingestion.
type EventHandler struct {
	svc eventService
	log *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(svc eventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: logger.With("handler", "events")}
}

func (req createEventRequest) input() events.CreateEventInput {
	return events.CreateEventInput{
		SourceID:         req.SourceID,
		Context:          req.Context,
		ActorIDs:         req.ActorIDs,
		CreatedAt:        req.CreatedAt,
		ExpiresAt:        req.ExpiresAt,
		UUID:             req.UUID,
		IgnoreDuplicates: req.IgnoreDuplicates,
	}
}

// Create handles POST /api/events. An ignored duplicate answers 200 with a
// null event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req.input())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if event == nil {
		writeJSON(w, http.StatusOK, map[string]any{"event": nil})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"event": toEventResponse(*event)})
}

// CreateBatch handles POST /api/events/batch. The batch is atomic.
func (h *EventHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inputs := make([]events.CreateEventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = e.input()
	}

	created, err := h.svc.CreateEvents(r.Context(), inputs)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"events": toEventResponses(created)})
}
