package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// Subscribe makes the events of a source visible on a medium for an entity
// or a group of sub-entities.
func (s *Service) Subscribe(ctx context.Context, input SubscribeInput) (*domain.Subscription, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.subs.Create(ctx, domain.Subscription{
		MediumID:        input.MediumID,
		SourceID:        input.SourceID,
		EntityID:        input.EntityID,
		SubEntityKindID: input.SubEntityKindID,
		OnlyFollowing:   input.OnlyFollowing,
	})
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.log.InfoContext(ctx, "subscription created",
		slog.Int64("subscription_id", sub.ID),
		slog.Int64("medium_id", sub.MediumID),
		slog.Int64("source_id", sub.SourceID),
		slog.Int64("entity_id", sub.EntityID),
		slog.Bool("group", sub.IsGroup()),
	)
	return sub, nil
}

// DeleteSubscription removes a subscription by ID.
func (s *Service) DeleteSubscription(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "required")
	}
	if err := s.subs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	s.log.InfoContext(ctx, "subscription deleted", slog.Int64("subscription_id", id))
	return nil
}

// Unsubscribe opts an entity out of a source on a medium. It overrides
// every subscription and is idempotent.
func (s *Service) Unsubscribe(ctx context.Context, input UnsubscribeInput) (*domain.Unsubscription, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	u, err := s.subs.CreateUnsubscription(ctx, domain.Unsubscription{
		EntityID: input.EntityID,
		MediumID: input.MediumID,
		SourceID: input.SourceID,
	})
	if err != nil {
		return nil, fmt.Errorf("create unsubscription: %w", err)
	}

	s.log.InfoContext(ctx, "entity unsubscribed",
		slog.Int64("entity_id", u.EntityID),
		slog.Int64("medium_id", u.MediumID),
		slog.Int64("source_id", u.SourceID),
	)
	return u, nil
}

// Resubscribe lifts an opt-out created by Unsubscribe.
func (s *Service) Resubscribe(ctx context.Context, input UnsubscribeInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if err := s.subs.DeleteUnsubscription(ctx, input.EntityID, input.MediumID, input.SourceID); err != nil {
		return fmt.Errorf("delete unsubscription: %w", err)
	}
	s.log.InfoContext(ctx, "entity resubscribed",
		slog.Int64("entity_id", input.EntityID),
		slog.Int64("medium_id", input.MediumID),
		slog.Int64("source_id", input.SourceID),
	)
	return nil
}
