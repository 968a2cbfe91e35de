package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/entity-events/internal/adapter/querysql"
	"github.com/heartmarshall/entity-events/internal/domain"
)

// EntityRepo provides entity hierarchy persistence backed by SQLite.
type EntityRepo struct {
	db *sqlx.DB
}

// NewEntityRepo creates a new entity repository.
func NewEntityRepo(db *sqlx.DB) *EntityRepo {
	return &EntityRepo{db: db}
}

const ancestorsSQL = `
WITH RECURSIVE closure (origin, entity_id) AS (
    SELECT sub_entity_id, super_entity_id
    FROM entity_relationships
    WHERE sub_entity_id IN (SELECT value FROM json_each(?))
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
    WHERE super_entity_id IN (SELECT value FROM json_each(?))
  UNION
    SELECT c.origin, r.sub_entity_id
    FROM closure c
    JOIN entity_relationships r ON r.super_entity_id = c.entity_id
)
SELECT origin, entity_id FROM closure ORDER BY origin, entity_id`

type entityRow struct {
	ID          int64  `db:"id"`
	KindID      int64  `db:"kind_id"`
	DisplayName string `db:"display_name"`
	Meta        string `db:"meta"`
	IsActive    bool   `db:"is_active"`
}

func (r entityRow) toDomain() (domain.Entity, error) {
	meta, err := querysql.DecodeObject([]byte(r.Meta))
	if err != nil {
		return domain.Entity{}, err
	}
	return domain.Entity{ID: r.ID, KindID: r.KindID, DisplayName: r.DisplayName, Meta: meta, IsActive: r.IsActive}, nil
}

type closureRow struct {
	Origin   int64 `db:"origin"`
	EntityID int64 `db:"entity_id"`
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByIDs returns the entities with the given IDs ordered by ID. Unknown IDs
// are skipped.
func (r *EntityRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Entity, error) {
	if len(ids) == 0 {
		return []domain.Entity{}, nil
	}

	var rows []entityRow
	err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &rows,
		`SELECT id, kind_id, display_name, meta, is_active FROM entities
		 WHERE id IN (SELECT value FROM json_each(?)) ORDER BY id`, querysql.IDArray(ids))
	if err != nil {
		return nil, fmt.Errorf("get entities: %w", err)
	}

	result := make([]domain.Entity, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("get entities: %w", err)
		}
		result = append(result, e)
	}
	return result, nil
}

// AncestorsOf returns, for each given ID, every entity reachable by following
// sub → super edges. IDs without ancestors are absent from the map.
func (r *EntityRepo) AncestorsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	return r.closure(ctx, ancestorsSQL, ids)
}

// DescendantsOf is the inverse of AncestorsOf.
func (r *EntityRepo) DescendantsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	return r.closure(ctx, descendantsSQL, ids)
}

func (r *EntityRepo) closure(ctx context.Context, base string, ids []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64)
	if len(ids) == 0 {
		return result, nil
	}

	var rows []closureRow
	if err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &rows, base, querysql.IDArray(ids)); err != nil {
		return nil, fmt.Errorf("entity closure: %w", err)
	}
	for _, row := range rows {
		result[row.Origin] = append(result[row.Origin], row.EntityID)
	}
	return result, nil
}

// GetKind returns an entity kind by ID.
func (r *EntityRepo) GetKind(ctx context.Context, id int64) (*domain.EntityKind, error) {
	var k domain.EntityKind
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`SELECT id, name, display_name FROM entity_kinds WHERE id = ?`, id,
	).Scan(&k.ID, &k.Name, &k.DisplayName)
	if err != nil {
		return nil, mapError(err, "entity kind", id)
	}
	return &k, nil
}

// GetKindByName returns an entity kind by its unique name.
func (r *EntityRepo) GetKindByName(ctx context.Context, name string) (*domain.EntityKind, error) {
	var k domain.EntityKind
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`SELECT id, name, display_name FROM entity_kinds WHERE name = ?`, name,
	).Scan(&k.ID, &k.Name, &k.DisplayName)
	if err != nil {
		return nil, mapError(err, "entity kind "+name, 0)
	}
	return &k, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateKind inserts an entity kind.
func (r *EntityRepo) CreateKind(ctx context.Context, kind domain.EntityKind) (*domain.EntityKind, error) {
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO entity_kinds (name, display_name) VALUES (?, ?) RETURNING id`,
		kind.Name, kind.DisplayName,
	).Scan(&kind.ID)
	if err != nil {
		return nil, mapError(err, "entity kind", 0)
	}
	return &kind, nil
}

// Create inserts an entity.
func (r *EntityRepo) Create(ctx context.Context, e domain.Entity) (*domain.Entity, error) {
	meta, err := querysql.EncodeObject(e.Meta)
	if err != nil {
		return nil, err
	}

	err = QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO entities (kind_id, display_name, meta, is_active) VALUES (?, ?, ?, ?) RETURNING id`,
		e.KindID, e.DisplayName, string(meta), e.IsActive,
	).Scan(&e.ID)
	if err != nil {
		return nil, mapError(err, "entity", 0)
	}
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	return &e, nil
}

// AddRelationship links sub under super. Adding an existing edge is a no-op.
func (r *EntityRepo) AddRelationship(ctx context.Context, rel domain.EntityRelationship) error {
	_, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx,
		`INSERT INTO entity_relationships (super_entity_id, sub_entity_id) VALUES (?, ?)
		 ON CONFLICT (super_entity_id, sub_entity_id) DO NOTHING`,
		rel.SuperEntityID, rel.SubEntityID,
	)
	return mapError(err, "entity relationship", rel.SubEntityID)
}

// RemoveRelationship deletes an edge. Returns domain.ErrNotFound if it did not exist.
func (r *EntityRepo) RemoveRelationship(ctx context.Context, rel domain.EntityRelationship) error {
	res, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx,
		`DELETE FROM entity_relationships WHERE super_entity_id = ? AND sub_entity_id = ?`,
		rel.SuperEntityID, rel.SubEntityID,
	)
	if err != nil {
		return mapError(err, "entity relationship", rel.SubEntityID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entity relationship %d→%d: %w", rel.SuperEntityID, rel.SubEntityID, domain.ErrNotFound)
	}
	return nil
}
