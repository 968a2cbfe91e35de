package events

import (
	"context"
	"fmt"
	"log/slog"
)

// MarkSeen records that the medium has seen the events and returns how many
// markers were new. Already seen events are skipped.
func (s *Service) MarkSeen(ctx context.Context, input MarkSeenInput) (int, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}
	if len(input.EventIDs) == 0 {
		return 0, nil
	}

	n, err := s.events.MarkSeen(ctx, input.MediumID, input.EventIDs, s.now())
	if err != nil {
		return 0, fmt.Errorf("mark seen: %w", err)
	}

	s.log.InfoContext(ctx, "events marked seen",
		slog.Int64("medium_id", input.MediumID),
		slog.Int("requested", len(input.EventIDs)),
		slog.Int("marked", n),
	)
	return n, nil
}

// Purge removes events expired for longer than the grace period and seen
// markers older than the retention window.
func (s *Service) Purge(ctx context.Context, input PurgeInput) (PurgeResult, error) {
	var res PurgeResult
	now := s.now()

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if input.ExpiredGrace > 0 {
			n, err := s.events.DeleteExpiredBefore(txCtx, now.Add(-input.ExpiredGrace))
			if err != nil {
				return fmt.Errorf("purge expired events: %w", err)
			}
			res.ExpiredEvents = n
		}
		if input.SeenRetention > 0 {
			n, err := s.events.DeleteSeenBefore(txCtx, now.Add(-input.SeenRetention))
			if err != nil {
				return fmt.Errorf("purge seen markers: %w", err)
			}
			res.SeenMarkers = n
		}
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}

	s.log.InfoContext(ctx, "retention purge done",
		slog.Int64("expired_events", res.ExpiredEvents),
		slog.Int64("seen_markers", res.SeenMarkers),
	)
	return res, nil
}
