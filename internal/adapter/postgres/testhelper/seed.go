package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
// Tests share one database, so every unique name carries a suffix.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

func insertID(t *testing.T, pool *pgxpool.Pool, what, query string, args ...any) int64 {
	t.Helper()

	var id int64
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&id); err != nil {
		t.Fatalf("testhelper: %s: %v", what, err)
	}
	return id
}

// SeedKind creates an entity kind with a unique name derived from prefix.
func SeedKind(t *testing.T, pool *pgxpool.Pool, prefix string) domain.EntityKind {
	t.Helper()

	k := domain.EntityKind{Name: prefix + "-" + uniqueSuffix(), DisplayName: prefix}
	k.ID = insertID(t, pool, "SeedKind",
		`INSERT INTO entity_kinds (name, display_name) VALUES ($1, $2) RETURNING id`, k.Name, k.DisplayName)
	return k
}

// SeedEntity creates an active entity of the given kind.
func SeedEntity(t *testing.T, pool *pgxpool.Pool, kindID int64, name string) domain.Entity {
	t.Helper()

	e := domain.Entity{KindID: kindID, DisplayName: name, Meta: map[string]any{}, IsActive: true}
	e.ID = insertID(t, pool, "SeedEntity",
		`INSERT INTO entities (kind_id, display_name) VALUES ($1, $2) RETURNING id`, kindID, name)
	return e
}

// SeedRelationship links sub under super.
func SeedRelationship(t *testing.T, pool *pgxpool.Pool, superID, subID int64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO entity_relationships (super_entity_id, sub_entity_id) VALUES ($1, $2)`, superID, subID)
	if err != nil {
		t.Fatalf("testhelper: SeedRelationship: %v", err)
	}
}

// SeedSource creates a source inside a fresh source group.
func SeedSource(t *testing.T, pool *pgxpool.Pool) domain.Source {
	t.Helper()

	suffix := uniqueSuffix()
	groupID := insertID(t, pool, "SeedSource group",
		`INSERT INTO source_groups (name, display_name) VALUES ($1, $1) RETURNING id`, "group-"+suffix)

	s := domain.Source{Name: "source-" + suffix, DisplayName: "Source " + suffix, GroupID: groupID}
	s.ID = insertID(t, pool, "SeedSource",
		`INSERT INTO sources (name, display_name, group_id) VALUES ($1, $2, $3) RETURNING id`,
		s.Name, s.DisplayName, s.GroupID)
	return s
}

// SeedStyle creates a rendering style.
func SeedStyle(t *testing.T, pool *pgxpool.Pool) domain.RenderingStyle {
	t.Helper()

	s := domain.RenderingStyle{Name: "style-" + uniqueSuffix()}
	s.ID = insertID(t, pool, "SeedStyle",
		`INSERT INTO rendering_styles (name) VALUES ($1) RETURNING id`, s.Name)
	return s
}

// SeedMedium creates a medium without a rendering style.
func SeedMedium(t *testing.T, pool *pgxpool.Pool) domain.Medium {
	t.Helper()

	m := domain.Medium{Name: "medium-" + uniqueSuffix(), AdditionalContext: map[string]any{}}
	m.ID = insertID(t, pool, "SeedMedium",
		`INSERT INTO mediums (name) VALUES ($1) RETURNING id`, m.Name)
	return m
}

// SeedSubscription stores s and returns it with its ID.
func SeedSubscription(t *testing.T, pool *pgxpool.Pool, s domain.Subscription) domain.Subscription {
	t.Helper()

	s.ID = insertID(t, pool, "SeedSubscription",
		`INSERT INTO subscriptions (medium_id, source_id, entity_id, sub_entity_kind_id, only_following)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.MediumID, s.SourceID, s.EntityID, s.SubEntityKindID, s.OnlyFollowing)
	return s
}
