package domain

import "time"

// Event is an immutable record emitted by a producer.
type Event struct {
	ID        int64
	SourceID  int64
	Context   map[string]any
	CreatedAt time.Time
	ExpiresAt *time.Time
	UUID      string
	ActorIDs  []int64
}

// IsExpired reports whether the event has an expiry at or before now.
func (e *Event) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// EventSeen records that an event was seen on a medium.
type EventSeen struct {
	ID       int64
	EventID  int64
	MediumID int64
	SeenAt   time.Time
}

// EventIDs returns the IDs of the given events in order.
func EventIDs(events []Event) []int64 {
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
