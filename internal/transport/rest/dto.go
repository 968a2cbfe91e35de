package rest

import (
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/matching"
	"github.com/heartmarshall/entity-events/internal/service/serializer"
)

type eventResponse struct {
	ID        int64      `json:"id"`
	SourceID  int64      `json:"source_id"`
	UUID      string     `json:"uuid"`
	Context   any        `json:"context"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ActorIDs  []int64    `json:"actor_ids"`
}

func toEventResponse(e domain.Event) eventResponse {
	actors := e.ActorIDs
	if actors == nil {
		actors = []int64{}
	}
	return eventResponse{
		ID:        e.ID,
		SourceID:  e.SourceID,
		UUID:      e.UUID,
		Context:   serializer.Serialize(e.Context),
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
		ActorIDs:  actors,
	}
}

func toEventResponses(events []domain.Event) []eventResponse {
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}

type entityResponse struct {
	ID          int64  `json:"id"`
	KindID      int64  `json:"kind_id"`
	DisplayName string `json:"display_name"`
}

type targetsResponse struct {
	Event   eventResponse    `json:"event"`
	Targets []entityResponse `json:"targets"`
}

func toTargetsResponses(ts []matching.EventTargets) []targetsResponse {
	out := make([]targetsResponse, len(ts))
	for i, et := range ts {
		targets := make([]entityResponse, len(et.Targets))
		for j, e := range et.Targets {
			targets[j] = entityResponse{ID: e.ID, KindID: e.KindID, DisplayName: e.DisplayName}
		}
		out[i] = targetsResponse{Event: toEventResponse(et.Event), Targets: targets}
	}
	return out
}

// feedItem is an event rendered for a medium. Text and HTML are null when no
// renderer applies to the event's source.
type feedItem struct {
	ID        int64          `json:"id"`
	SourceID  int64          `json:"source_id"`
	CreatedAt time.Time      `json:"created_at"`
	Context   map[string]any `json:"context"`
	Text      *string        `json:"text"`
	HTML      *string        `json:"html"`
}

type createEventRequest struct {
	SourceID         int64          `json:"source_id"`
	Context          map[string]any `json:"context"`
	ActorIDs         []int64        `json:"actor_ids"`
	CreatedAt        *time.Time     `json:"created_at"`
	ExpiresAt        *time.Time     `json:"expires_at"`
	UUID             string         `json:"uuid"`
	IgnoreDuplicates bool           `json:"ignore_duplicates"`
}

type createEventsRequest struct {
	Events []createEventRequest `json:"events"`
}

type markSeenRequest struct {
	EventIDs []int64 `json:"event_ids"`
}
