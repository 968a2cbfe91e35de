package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
)

type eventRepo interface {
	Insert(ctx context.Context, e domain.Event, ignoreDuplicates bool) (*domain.Event, error)
	MarkSeen(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	MaxBatchSize  = 1000
	MaxActors     = 500
	MaxUUIDLength = 255
)

// Service writes events and their seen markers.
type Service struct {
	events eventRepo
	tx     txManager
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a new Events service.
func NewService(
	log *slog.Logger,
	events eventRepo,
	tx txManager,
) *Service {
	return &Service{
		events: events,
		tx:     tx,
		log:    log.With("service", "events"),
		now:    time.Now,
	}
}
