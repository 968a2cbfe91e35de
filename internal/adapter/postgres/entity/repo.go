// Package entity implements the entity hierarchy repository using PostgreSQL.
// Closures over entity_relationships are computed with recursive CTEs that use
// UNION, so cycles in the graph terminate.
package entity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/entity-events/internal/adapter/postgres"
	"github.com/heartmarshall/entity-events/internal/adapter/querysql"
	"github.com/heartmarshall/entity-events/internal/domain"
)

// Repo provides entity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new entity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const ancestorsSQL = `
WITH RECURSIVE closure (origin, entity_id) AS (
    SELECT sub_entity_id, super_entity_id
    FROM entity_relationships
    WHERE sub_entity_id = ANY($1)
  UNION
    SELECT c.origin, r.super_entity_id
    FROM closure c
    JOIN entity_relationships r ON r.sub_entity_id = c.entity_id
)
SELECT origin, entity_id FROM closure ORDER BY origin, entity_id`

const descendantsSQL = `
WITH RECURSIVE closure (origin, entity_id) AS (
    SELECT super_entity_id, sub_entity_id
    FROM entity_relationships
    WHERE super_entity_id = ANY($1)
  UNION
    SELECT c.origin, r.sub_entity_id
    FROM closure c
    JOIN entity_relationships r ON r.super_entity_id = c.entity_id
)
SELECT origin, entity_id FROM closure ORDER BY origin, entity_id`

var entityColumns = []string{"id", "kind_id", "display_name", "meta", "is_active"}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByIDs returns the entities with the given IDs ordered by ID. Unknown IDs
// are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Entity, error) {
	if len(ids) == 0 {
		return []domain.Entity{}, nil
	}

	query, args, err := querysql.Postgres.Builder().
		Select(entityColumns...).
		From("entities").
		Where("id = ANY(?)", ids).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get entities: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get entities: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Entity, 0, len(ids))
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("get entities: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get entities: %w", err)
	}

	return result, nil
}

// AncestorsOf returns, for each given ID, every entity reachable by following
// sub → super edges. The origin itself is only included when it lies on a cycle.
// IDs without ancestors are absent from the map.
func (r *Repo) AncestorsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	return r.closure(ctx, ancestorsSQL, ids)
}

// DescendantsOf is the inverse of AncestorsOf.
func (r *Repo) DescendantsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	return r.closure(ctx, descendantsSQL, ids)
}

func (r *Repo) closure(ctx context.Context, query string, ids []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("entity closure: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var origin, id int64
		if err := rows.Scan(&origin, &id); err != nil {
			return nil, fmt.Errorf("entity closure: %w", err)
		}
		result[origin] = append(result[origin], id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("entity closure: %w", err)
	}

	return result, nil
}

// GetKind returns an entity kind by ID.
func (r *Repo) GetKind(ctx context.Context, id int64) (*domain.EntityKind, error) {
	var k domain.EntityKind
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, display_name FROM entity_kinds WHERE id = $1`, id,
	).Scan(&k.ID, &k.Name, &k.DisplayName)
	if err != nil {
		return nil, postgres.MapError(err, "entity kind", id)
	}
	return &k, nil
}

// GetKindByName returns an entity kind by its unique name.
func (r *Repo) GetKindByName(ctx context.Context, name string) (*domain.EntityKind, error) {
	var k domain.EntityKind
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, display_name FROM entity_kinds WHERE name = $1`, name,
	).Scan(&k.ID, &k.Name, &k.DisplayName)
	if err != nil {
		return nil, postgres.MapError(err, "entity kind "+name, 0)
	}
	return &k, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateKind inserts an entity kind.
func (r *Repo) CreateKind(ctx context.Context, kind domain.EntityKind) (*domain.EntityKind, error) {
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO entity_kinds (name, display_name) VALUES ($1, $2) RETURNING id`,
		kind.Name, kind.DisplayName,
	).Scan(&kind.ID)
	if err != nil {
		return nil, postgres.MapError(err, "entity kind", 0)
	}
	return &kind, nil
}

// Create inserts an entity.
func (r *Repo) Create(ctx context.Context, e domain.Entity) (*domain.Entity, error) {
	meta, err := querysql.EncodeObject(e.Meta)
	if err != nil {
		return nil, err
	}

	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO entities (kind_id, display_name, meta, is_active) VALUES ($1, $2, $3, $4) RETURNING id`,
		e.KindID, e.DisplayName, meta, e.IsActive,
	).Scan(&e.ID)
	if err != nil {
		return nil, postgres.MapError(err, "entity", 0)
	}
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	return &e, nil
}

// AddRelationship links sub under super. Adding an existing edge is a no-op.
func (r *Repo) AddRelationship(ctx context.Context, rel domain.EntityRelationship) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO entity_relationships (super_entity_id, sub_entity_id) VALUES ($1, $2)
		 ON CONFLICT (super_entity_id, sub_entity_id) DO NOTHING`,
		rel.SuperEntityID, rel.SubEntityID,
	)
	return postgres.MapError(err, "entity relationship", rel.SubEntityID)
}

// RemoveRelationship deletes an edge. Returns domain.ErrNotFound if it did not exist.
func (r *Repo) RemoveRelationship(ctx context.Context, rel domain.EntityRelationship) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM entity_relationships WHERE super_entity_id = $1 AND sub_entity_id = $2`,
		rel.SuperEntityID, rel.SubEntityID,
	)
	if err != nil {
		return postgres.MapError(err, "entity relationship", rel.SubEntityID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entity relationship %d→%d: %w", rel.SuperEntityID, rel.SubEntityID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanEntity(row pgx.Row) (domain.Entity, error) {
	var (
		e    domain.Entity
		meta []byte
	)
	if err := row.Scan(&e.ID, &e.KindID, &e.DisplayName, &meta, &e.IsActive); err != nil {
		return domain.Entity{}, err
	}
	m, err := querysql.DecodeObject(meta)
	if err != nil {
		return domain.Entity{}, err
	}
	e.Meta = m
	return e, nil
}
