package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// SubscriptionRepo provides subscription persistence backed by SQLite.
type SubscriptionRepo struct {
	db *sqlx.DB
}

// NewSubscriptionRepo creates a new subscription repository.
func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

type subscriptionRow struct {
	ID              int64         `db:"id"`
	MediumID        int64         `db:"medium_id"`
	SourceID        int64         `db:"source_id"`
	EntityID        int64         `db:"entity_id"`
	SubEntityKindID sql.NullInt64 `db:"sub_entity_kind_id"`
	OnlyFollowing   bool          `db:"only_following"`
}

// ListByMedium returns every subscription of a medium ordered by ID.
func (r *SubscriptionRepo) ListByMedium(ctx context.Context, mediumID int64) ([]domain.Subscription, error) {
	var rows []subscriptionRow
	err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &rows,
		`SELECT id, medium_id, source_id, entity_id, sub_entity_kind_id, only_following
		 FROM subscriptions WHERE medium_id = ? ORDER BY id`, mediumID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	result := make([]domain.Subscription, len(rows))
	for i, row := range rows {
		result[i] = domain.Subscription{
			ID: row.ID, MediumID: row.MediumID, SourceID: row.SourceID, EntityID: row.EntityID,
			SubEntityKindID: nullInt(row.SubEntityKindID), OnlyFollowing: row.OnlyFollowing,
		}
	}
	return result, nil
}

// UnsubscriptionsByMedium returns every unsubscription recorded for a medium.
func (r *SubscriptionRepo) UnsubscriptionsByMedium(ctx context.Context, mediumID int64) ([]domain.Unsubscription, error) {
	result := []domain.Unsubscription{}
	rows, err := QuerierFromCtx(ctx, r.db).QueryxContext(ctx,
		`SELECT id, entity_id, medium_id, source_id FROM unsubscriptions WHERE medium_id = ? ORDER BY id`, mediumID)
	if err != nil {
		return nil, fmt.Errorf("list unsubscriptions: %w", err)
	}
	defer rows.Close()

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

// Create inserts a subscription.
func (r *SubscriptionRepo) Create(ctx context.Context, s domain.Subscription) (*domain.Subscription, error) {
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO subscriptions (medium_id, source_id, entity_id, sub_entity_kind_id, only_following)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		s.MediumID, s.SourceID, s.EntityID, s.SubEntityKindID, s.OnlyFollowing,
	).Scan(&s.ID)
	if err != nil {
		return nil, mapError(err, "subscription", 0)
	}
	return &s, nil
}

// Delete removes a subscription. Returns domain.ErrNotFound if it does not exist.
func (r *SubscriptionRepo) Delete(ctx context.Context, id int64) error {
	res, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return mapError(err, "subscription", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("subscription %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CreateUnsubscription records an opt-out. Recording an existing opt-out
// returns the stored row.
func (r *SubscriptionRepo) CreateUnsubscription(ctx context.Context, u domain.Unsubscription) (*domain.Unsubscription, error) {
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO unsubscriptions (entity_id, medium_id, source_id) VALUES (?, ?, ?)
		 ON CONFLICT (entity_id, medium_id, source_id) DO UPDATE SET entity_id = excluded.entity_id
		 RETURNING id`,
		u.EntityID, u.MediumID, u.SourceID,
	).Scan(&u.ID)
	if err != nil {
		return nil, mapError(err, "unsubscription", 0)
	}
	return &u, nil
}

// DeleteUnsubscription removes an opt-out. Returns domain.ErrNotFound if none matched.
func (r *SubscriptionRepo) DeleteUnsubscription(ctx context.Context, entityID, mediumID, sourceID int64) error {
	res, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx,
		`DELETE FROM unsubscriptions WHERE entity_id = ? AND medium_id = ? AND source_id = ?`,
		entityID, mediumID, sourceID,
	)
	if err != nil {
		return mapError(err, "unsubscription", entityID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unsubscription of entity %d: %w", entityID, domain.ErrNotFound)
	}
	return nil
}
