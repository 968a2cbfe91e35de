package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/entity-events/internal/domain"
)

type catalogRepo interface {
	GetSource(ctx context.Context, id int64) (*domain.Source, error)
	CreateSourceGroup(ctx context.Context, g domain.SourceGroup) (*domain.SourceGroup, error)
	CreateSource(ctx context.Context, s domain.Source) (*domain.Source, error)
	UpdateSource(ctx context.Context, s domain.Source) (*domain.Source, error)
	CreateRenderingStyle(ctx context.Context, s domain.RenderingStyle) (*domain.RenderingStyle, error)
	CreateMedium(ctx context.Context, m domain.Medium) (*domain.Medium, error)
	ListMediums(ctx context.Context) ([]domain.Medium, error)
	CreateRenderer(ctx context.Context, cr domain.ContextRenderer) (*domain.ContextRenderer, error)
}

type subscriptionRepo interface {
	Create(ctx context.Context, s domain.Subscription) (*domain.Subscription, error)
	Delete(ctx context.Context, id int64) error
	CreateUnsubscription(ctx context.Context, u domain.Unsubscription) (*domain.Unsubscription, error)
	DeleteUnsubscription(ctx context.Context, entityID, mediumID, sourceID int64) error
}

type entityRepo interface {
	CreateKind(ctx context.Context, kind domain.EntityKind) (*domain.EntityKind, error)
	Create(ctx context.Context, e domain.Entity) (*domain.Entity, error)
	AddRelationship(ctx context.Context, rel domain.EntityRelationship) error
	RemoveRelationship(ctx context.Context, rel domain.EntityRelationship) error
}

// registry reports which context loaders and hint kinds the process serves.
type registry interface {
	HasLoader(name string) bool
	HasFetcher(kind string) bool
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages the configuration side of the engine: sources, mediums,
// renderers, subscriptions and the entity hierarchy.
type Service struct {
	catalog  catalogRepo
	subs     subscriptionRepo
	entities entityRepo
	registry registry
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new Catalog service.
func NewService(
	log *slog.Logger,
	catalog catalogRepo,
	subs subscriptionRepo,
	entities entityRepo,
	registry registry,
	tx txManager,
) *Service {
	return &Service{
		catalog:  catalog,
		subs:     subs,
		entities: entities,
		registry: registry,
		tx:       tx,
		log:      log.With("service", "catalog"),
	}
}
