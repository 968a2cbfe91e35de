// Package subscription implements subscription and unsubscription persistence
// using PostgreSQL.
package subscription

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/entity-events/internal/adapter/postgres"
	"github.com/heartmarshall/entity-events/internal/domain"
)

// Repo provides subscription persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new subscription repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByMedium returns every subscription of a medium ordered by ID.
func (r *Repo) ListByMedium(ctx context.Context, mediumID int64) ([]domain.Subscription, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`SELECT id, medium_id, source_id, entity_id, sub_entity_kind_id, only_following
		 FROM subscriptions WHERE medium_id = $1 ORDER BY id`, mediumID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	result := []domain.Subscription{}
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(&s.ID, &s.MediumID, &s.SourceID, &s.EntityID, &s.SubEntityKindID, &s.OnlyFollowing); err != nil {
			return nil, fmt.Errorf("list subscriptions: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return result, nil
}

// UnsubscriptionsByMedium returns every unsubscription recorded for a medium.
func (r *Repo) UnsubscriptionsByMedium(ctx context.Context, mediumID int64) ([]domain.Unsubscription, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`SELECT id, entity_id, medium_id, source_id
		 FROM unsubscriptions WHERE medium_id = $1 ORDER BY id`, mediumID)
	if err != nil {
		return nil, fmt.Errorf("list unsubscriptions: %w", err)
	}
	defer rows.Close()

	result := []domain.Unsubscription{}
	for rows.Next() {
		var u domain.Unsubscription
		if err := rows.Scan(&u.ID, &u.EntityID, &u.MediumID, &u.SourceID); err != nil {
			return nil, fmt.Errorf("list unsubscriptions: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unsubscriptions: %w", err)
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a subscription.
func (r *Repo) Create(ctx context.Context, s domain.Subscription) (*domain.Subscription, error) {
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO subscriptions (medium_id, source_id, entity_id, sub_entity_kind_id, only_following)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.MediumID, s.SourceID, s.EntityID, s.SubEntityKindID, s.OnlyFollowing,
	).Scan(&s.ID)
	if err != nil {
		return nil, postgres.MapError(err, "subscription", 0)
	}
	return &s, nil
}

// Delete removes a subscription. Returns domain.ErrNotFound if it does not exist.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "subscription", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CreateUnsubscription records an opt-out. Recording an existing opt-out
// returns the stored row.
func (r *Repo) CreateUnsubscription(ctx context.Context, u domain.Unsubscription) (*domain.Unsubscription, error) {
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO unsubscriptions (entity_id, medium_id, source_id) VALUES ($1, $2, $3)
		 ON CONFLICT (entity_id, medium_id, source_id) DO UPDATE SET entity_id = EXCLUDED.entity_id
		 RETURNING id`,
		u.EntityID, u.MediumID, u.SourceID,
	).Scan(&u.ID)
	if err != nil {
		return nil, postgres.MapError(err, "unsubscription", 0)
	}
	return &u, nil
}

// DeleteUnsubscription removes an opt-out. Returns domain.ErrNotFound if none matched.
func (r *Repo) DeleteUnsubscription(ctx context.Context, entityID, mediumID, sourceID int64) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM unsubscriptions WHERE entity_id = $1 AND medium_id = $2 AND source_id = $3`,
		entityID, mediumID, sourceID,
	)
	if err != nil {
		return postgres.MapError(err, "unsubscription", entityID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unsubscription of entity %d: %w", entityID, domain.ErrNotFound)
	}
	return nil
}
