package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// CreateEvent stores one event with its actors in a single transaction.
//
// With IgnoreDuplicates an already used UUID yields (nil, nil); otherwise it
// fails with domain.ErrDuplicateEvent. An unknown source or actor fails with
// domain.ErrInvalidReference.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Event
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var insertErr error
		created, insertErr = s.insert(txCtx, input)
		return insertErr
	})
	if err != nil {
		return nil, err
	}

	if created == nil {
		s.log.DebugContext(ctx, "duplicate event ignored", slog.Int64("source_id", input.SourceID))
		return nil, nil
	}
	s.log.InfoContext(ctx, "event created",
		slog.Int64("event_id", created.ID),
		slog.Int64("source_id", created.SourceID),
		slog.Int("actors", len(created.ActorIDs)),
	)
	return created, nil
}

// CreateEvents stores a batch of events in one transaction. Each element
// follows the duplicate rule of CreateEvent on its own, including
// duplicates within the batch. The result keeps input order and omits
// ignored duplicates.
func (s *Service) CreateEvents(ctx context.Context, inputs []CreateEventInput) ([]domain.Event, error) {
	if len(inputs) > MaxBatchSize {
		return nil, domain.NewValidationError("events", fmt.Sprintf("max %d events per batch", MaxBatchSize))
	}
	var errs []domain.FieldError
	for i, in := range inputs {
		errs = append(errs, in.fieldErrors(fmt.Sprintf("events[%d].", i))...)
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}
	if len(inputs) == 0 {
		return []domain.Event{}, nil
	}

	var created []domain.Event
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created = make([]domain.Event, 0, len(inputs))
		for i, in := range inputs {
			e, insertErr := s.insert(txCtx, in)
			if insertErr != nil {
				return fmt.Errorf("event %d: %w", i, insertErr)
			}
			if e != nil {
				created = append(created, *e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "events created",
		slog.Int("requested", len(inputs)),
		slog.Int("created", len(created)),
	)
	return created, nil
}

func (s *Service) insert(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	e := domain.Event{
		SourceID:  in.SourceID,
		Context:   in.Context,
		ActorIDs:  in.ActorIDs,
		CreatedAt: s.now(),
		ExpiresAt: in.ExpiresAt,
		UUID:      strings.TrimSpace(in.UUID),
	}
	if in.CreatedAt != nil {
		e.CreatedAt = *in.CreatedAt
	}
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	if e.Context == nil {
		e.Context = map[string]any{}
	}

	created, err := s.events.Insert(ctx, e, in.IgnoreDuplicates)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("event %q: %w", e.UUID, domain.ErrDuplicateEvent)
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}
