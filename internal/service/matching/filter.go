package matching

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
)

// Filter holds the event-level conditions shared by every medium query.
type Filter struct {
	// Start is inclusive. End is inclusive unless the engine was built
	// WithExclusiveEnd. Nil bounds are open.
	Start *time.Time
	End   *time.Time

	// IncludeExpired keeps events whose expiry has passed.
	IncludeExpired bool

	// ActorID keeps only events with that actor.
	ActorID *int64

	// Seen selects events seen (true) or not yet seen (false) on the medium.
	// Nil disables the check.
	Seen *bool

	// MarkSeen, together with Seen=false, marks every unseen event of the
	// medium within the time window as seen, in the same transaction that
	// returns the matched ones.
	MarkSeen bool

	// Limit caps the number of candidate events read from the store.
	// Zero means no limit. A marking filter cannot be limited: the events
	// past the limit would be marked without ever being returned.
	Limit int
}

// Validate checks all fields and collects all errors.
func (f Filter) Validate() error {
	var errs []domain.FieldError
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		errs = append(errs, domain.FieldError{Field: "end", Message: "must not be before start"})
	}
	if f.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if f.Limit > 0 && f.marksSeen() {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "cannot be combined with mark_seen"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (f Filter) marksSeen() bool {
	return f.MarkSeen && f.Seen != nil && !*f.Seen
}

// stageOne builds the event-level predicate for the medium.
func (m *Medium) stageOne(f Filter) predicate.Predicate {
	var ps []predicate.Predicate
	if f.Start != nil || f.End != nil {
		ps = append(ps, predicate.TimeRange{Start: f.Start, End: f.End, ExclusiveEnd: m.engine.exclusiveEnd})
	}
	if !f.IncludeExpired {
		ps = append(ps, predicate.NotExpired{Now: m.engine.now()})
	}
	if f.ActorID != nil {
		ps = append(ps, predicate.ActorIn{EntityIDs: []int64{*f.ActorID}})
	}
	if f.Seen != nil {
		ps = append(ps, predicate.Seen{MediumID: m.ID, Seen: *f.Seen})
	}
	return predicate.AllOf(ps...)
}

// query returns the events satisfying both the filter and match.
//
// When the filter marks events seen, the unseen set is materialized once,
// marked, and the final read is restricted to exactly that set. Marking
// covers the whole unseen set of the medium, not only the matched events,
// and happens even when match can never hold.
func (m *Medium) query(ctx context.Context, f Filter, match predicate.Predicate) ([]domain.Event, error) {
	stage := m.stageOne(f)
	if !f.marksSeen() {
		if predicate.IsFalse(match) {
			return []domain.Event{}, nil
		}
		events, err := m.engine.events.Find(ctx, predicate.AllOf(stage, match), f.Limit)
		if err != nil {
			return nil, fmt.Errorf("find events: %w", err)
		}
		return events, nil
	}

	var events []domain.Event
	err := m.engine.tx.RunInTx(ctx, func(ctx context.Context) error {
		ids, err := m.engine.events.FindIDs(ctx, stage)
		if err != nil {
			return fmt.Errorf("find unseen events: %w", err)
		}
		if len(ids) == 0 {
			events = []domain.Event{}
			return nil
		}

		marked, err := m.engine.events.MarkSeen(ctx, m.ID, ids, m.engine.now())
		if err != nil {
			return fmt.Errorf("mark events seen: %w", err)
		}
		m.engine.log.InfoContext(ctx, "events marked seen",
			slog.String("medium", m.Name),
			slog.Int("unseen", len(ids)),
			slog.Int("marked", marked),
		)

		if predicate.IsFalse(match) {
			events = []domain.Event{}
			return nil
		}
		events, err = m.engine.events.Find(ctx, predicate.AllOf(predicate.IDIn{EventIDs: ids}, match), f.Limit)
		if err != nil {
			return fmt.Errorf("find events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// none answers a query that matches nothing. A marking filter still marks
// the unseen set of the medium.
func (m *Medium) none(ctx context.Context, f Filter) error {
	_, err := m.query(ctx, f, predicate.Or{})
	return err
}
