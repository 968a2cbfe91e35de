package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// CreateEventInput holds the parameters for emitting one event.
type CreateEventInput struct {
	SourceID  int64
	Context   map[string]any
	ActorIDs  []int64
	CreatedAt *time.Time
	ExpiresAt *time.Time
	// UUID is the idempotency key. Empty means a fresh one is generated.
	UUID string
	// IgnoreDuplicates turns a uuid conflict into a silent no-op.
	IgnoreDuplicates bool
}

// Validate checks all fields and collects all errors.
func (i CreateEventInput) Validate() error {
	if errs := i.fieldErrors(""); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i CreateEventInput) fieldErrors(prefix string) []domain.FieldError {
	var errs []domain.FieldError

	if i.SourceID <= 0 {
		errs = append(errs, domain.FieldError{Field: prefix + "source_id", Message: "required"})
	}
	if len(i.ActorIDs) > MaxActors {
		errs = append(errs, domain.FieldError{Field: prefix + "actor_ids", Message: fmt.Sprintf("max %d actors", MaxActors)})
	}
	for _, id := range i.ActorIDs {
		if id <= 0 {
			errs = append(errs, domain.FieldError{Field: prefix + "actor_ids", Message: "must be positive"})
			break
		}
	}
	if len(strings.TrimSpace(i.UUID)) > MaxUUIDLength {
		errs = append(errs, domain.FieldError{Field: prefix + "uuid", Message: fmt.Sprintf("max %d characters", MaxUUIDLength)})
	}
	if i.CreatedAt != nil && i.ExpiresAt != nil && i.ExpiresAt.Before(*i.CreatedAt) {
		errs = append(errs, domain.FieldError{Field: prefix + "expires_at", Message: "must not be before created_at"})
	}
	return errs
}

// MarkSeenInput holds the parameters for marking events seen on a medium.
type MarkSeenInput struct {
	MediumID int64
	EventIDs []int64
}

// Validate checks all fields and collects all errors.
func (i MarkSeenInput) Validate() error {
	var errs []domain.FieldError
	if i.MediumID <= 0 {
		errs = append(errs, domain.FieldError{Field: "medium_id", Message: "required"})
	}
	if len(i.EventIDs) > MaxBatchSize {
		errs = append(errs, domain.FieldError{Field: "event_ids", Message: fmt.Sprintf("max %d events", MaxBatchSize)})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// PurgeInput selects what a retention run removes. Zero durations disable
// the corresponding purge.
type PurgeInput struct {
	ExpiredGrace  time.Duration
	SeenRetention time.Duration
}

// PurgeResult reports how many rows a retention run removed.
type PurgeResult struct {
	ExpiredEvents int64
	SeenMarkers   int64
}
