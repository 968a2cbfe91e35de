package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/entity-events/internal/adapter/postgres"
	pgcatalog "github.com/heartmarshall/entity-events/internal/adapter/postgres/catalog"
	pgentity "github.com/heartmarshall/entity-events/internal/adapter/postgres/entity"
	pgevent "github.com/heartmarshall/entity-events/internal/adapter/postgres/event"
	pgsubscription "github.com/heartmarshall/entity-events/internal/adapter/postgres/subscription"
	"github.com/heartmarshall/entity-events/internal/adapter/sqlite"
	"github.com/heartmarshall/entity-events/internal/config"
	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
	"github.com/heartmarshall/entity-events/migrations"
)

// EventRepo is the event storage shared by both drivers.
type EventRepo interface {
	Find(ctx context.Context, p predicate.Predicate, limit int) ([]domain.Event, error)
	FindIDs(ctx context.Context, p predicate.Predicate) ([]int64, error)
	Insert(ctx context.Context, e domain.Event, ignoreDuplicates bool) (*domain.Event, error)
	MarkSeen(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CatalogRepo stores sources, styles, mediums and renderers.
type CatalogRepo interface {
	GetSource(ctx context.Context, id int64) (*domain.Source, error)
	GetSourceByName(ctx context.Context, name string) (*domain.Source, error)
	GetSourcesByIDs(ctx context.Context, ids []int64) ([]domain.Source, error)
	GetRenderingStyleByName(ctx context.Context, name string) (*domain.RenderingStyle, error)
	GetMedium(ctx context.Context, id int64) (*domain.Medium, error)
	GetMediumByName(ctx context.Context, name string) (*domain.Medium, error)
	ListMediums(ctx context.Context) ([]domain.Medium, error)
	RenderersFor(ctx context.Context, sourceIDs, styleIDs []int64) ([]domain.ContextRenderer, error)
	CreateSourceGroup(ctx context.Context, g domain.SourceGroup) (*domain.SourceGroup, error)
	CreateSource(ctx context.Context, s domain.Source) (*domain.Source, error)
	UpdateSource(ctx context.Context, s domain.Source) (*domain.Source, error)
	CreateRenderingStyle(ctx context.Context, s domain.RenderingStyle) (*domain.RenderingStyle, error)
	CreateMedium(ctx context.Context, m domain.Medium) (*domain.Medium, error)
	CreateRenderer(ctx context.Context, cr domain.ContextRenderer) (*domain.ContextRenderer, error)
}

// SubscriptionRepo stores subscriptions and unsubscriptions.
type SubscriptionRepo interface {
	ListByMedium(ctx context.Context, mediumID int64) ([]domain.Subscription, error)
	UnsubscriptionsByMedium(ctx context.Context, mediumID int64) ([]domain.Unsubscription, error)
	Create(ctx context.Context, s domain.Subscription) (*domain.Subscription, error)
	Delete(ctx context.Context, id int64) error
	CreateUnsubscription(ctx context.Context, u domain.Unsubscription) (*domain.Unsubscription, error)
	DeleteUnsubscription(ctx context.Context, entityID, mediumID, sourceID int64) error
}

// EntityRepo stores entities, kinds and the hierarchy.
type EntityRepo interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Entity, error)
	AncestorsOf(ctx context.Context, ids []int64) (map[int64][]int64, error)
	DescendantsOf(ctx context.Context, ids []int64) (map[int64][]int64, error)
	GetKind(ctx context.Context, id int64) (*domain.EntityKind, error)
	GetKindByName(ctx context.Context, name string) (*domain.EntityKind, error)
	CreateKind(ctx context.Context, kind domain.EntityKind) (*domain.EntityKind, error)
	Create(ctx context.Context, e domain.Entity) (*domain.Entity, error)
	AddRelationship(ctx context.Context, rel domain.EntityRelationship) error
	RemoveRelationship(ctx context.Context, rel domain.EntityRelationship) error
}

// TxManager runs a callback in a transaction carried by the context.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage bundles the repositories of one storage driver.
type Storage struct {
	Driver   string
	Events   EventRepo
	Catalog  CatalogRepo
	Subs     SubscriptionRepo
	Entities EntityRepo
	Tx       TxManager

	ping  func(ctx context.Context) error
	sqlDB func() *sql.DB
	close func()
}

// OpenStorage connects to the configured driver and builds its repositories.
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresStorage(pool), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStorage(db), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgresStorage builds the postgres repositories over an open pool.
// Close closes the pool.
func NewPostgresStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		Driver:   config.DriverPostgres,
		Events:   pgevent.New(pool),
		Catalog:  pgcatalog.New(pool),
		Subs:     pgsubscription.New(pool),
		Entities: pgentity.New(pool),
		Tx:       postgres.NewTxManager(pool),
		ping:     pool.Ping,
		sqlDB:    func() *sql.DB { return stdlib.OpenDBFromPool(pool) },
		close:    pool.Close,
	}
}

// NewSQLiteStorage builds the sqlite repositories over an open database.
// Close closes the database.
func NewSQLiteStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Driver:   config.DriverSQLite,
		Events:   sqlite.NewEventRepo(db),
		Catalog:  sqlite.NewCatalogRepo(db),
		Subs:     sqlite.NewSubscriptionRepo(db),
		Entities: sqlite.NewEntityRepo(db),
		Tx:       sqlite.NewTxManager(db),
		ping:     db.PingContext,
		sqlDB:    func() *sql.DB { return db.DB },
		close:    func() { db.Close() },
	}
}

// Ping checks the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Migrate applies pending migrations and returns how many were applied.
func (s *Storage) Migrate(ctx context.Context) (int, error) {
	return migrations.Up(ctx, s.Driver, s.sqlDB())
}

// Close releases the connection pool.
func (s *Storage) Close() {
	s.close()
}
