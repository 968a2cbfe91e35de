package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/entity-events/internal/domain"
)

func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

func insertID(t *testing.T, db *sqlx.DB, what, query string, args ...any) int64 {
	t.Helper()

	var id int64
	if err := db.QueryRowxContext(context.Background(), query, args...).Scan(&id); err != nil {
		t.Fatalf("testhelper: %s: %v", what, err)
	}
	return id
}

func exec(t *testing.T, db *sqlx.DB, what, query string, args ...any) {
	t.Helper()

	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("testhelper: %s: %v", what, err)
	}
}

// SeedKind creates an entity kind named name.
func SeedKind(t *testing.T, db *sqlx.DB, name string) domain.EntityKind {
	t.Helper()

	k := domain.EntityKind{Name: name, DisplayName: name}
	k.ID = insertID(t, db, "SeedKind",
		`INSERT INTO entity_kinds (name, display_name) VALUES (?, ?) RETURNING id`, k.Name, k.DisplayName)
	return k
}

// SeedEntity creates an active entity of the given kind.
func SeedEntity(t *testing.T, db *sqlx.DB, kindID int64, name string) domain.Entity {
	t.Helper()

	e := domain.Entity{KindID: kindID, DisplayName: name, Meta: map[string]any{}, IsActive: true}
	e.ID = insertID(t, db, "SeedEntity",
		`INSERT INTO entities (kind_id, display_name) VALUES (?, ?) RETURNING id`, kindID, name)
	return e
}

// SeedRelationship links sub under super.
func SeedRelationship(t *testing.T, db *sqlx.DB, superID, subID int64) {
	t.Helper()
	exec(t, db, "SeedRelationship",
		`INSERT INTO entity_relationships (super_entity_id, sub_entity_id) VALUES (?, ?)`, superID, subID)
}

// SeedSource creates a source inside a fresh source group.
func SeedSource(t *testing.T, db *sqlx.DB) domain.Source {
	t.Helper()

	suffix := uniqueSuffix()
	groupID := insertID(t, db, "SeedSource group",
		`INSERT INTO source_groups (name, display_name) VALUES (?, ?) RETURNING id`, "group-"+suffix, "group-"+suffix)

	s := domain.Source{Name: "source-" + suffix, DisplayName: "Source " + suffix, GroupID: groupID}
	s.ID = insertID(t, db, "SeedSource",
		`INSERT INTO sources (name, display_name, group_id) VALUES (?, ?, ?) RETURNING id`,
		s.Name, s.DisplayName, s.GroupID)
	return s
}

// SeedStyle creates a rendering style named name.
func SeedStyle(t *testing.T, db *sqlx.DB, name string) domain.RenderingStyle {
	t.Helper()

	s := domain.RenderingStyle{Name: name}
	s.ID = insertID(t, db, "SeedStyle",
		`INSERT INTO rendering_styles (name) VALUES (?) RETURNING id`, s.Name)
	return s
}

// SeedMedium creates a medium with an optional rendering style.
func SeedMedium(t *testing.T, db *sqlx.DB, name string, styleID *int64) domain.Medium {
	t.Helper()

	m := domain.Medium{Name: name, RenderingStyleID: styleID, AdditionalContext: map[string]any{}}
	m.ID = insertID(t, db, "SeedMedium",
		`INSERT INTO mediums (name, rendering_style_id) VALUES (?, ?) RETURNING id`, m.Name, styleID)
	return m
}

// SeedSubscription stores s and returns it with its ID.
func SeedSubscription(t *testing.T, db *sqlx.DB, s domain.Subscription) domain.Subscription {
	t.Helper()

	s.ID = insertID(t, db, "SeedSubscription",
		`INSERT INTO subscriptions (medium_id, source_id, entity_id, sub_entity_kind_id, only_following)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		s.MediumID, s.SourceID, s.EntityID, s.SubEntityKindID, s.OnlyFollowing)
	return s
}

// SeedUnsubscription opts the entity out of a source on a medium.
func SeedUnsubscription(t *testing.T, db *sqlx.DB, entityID, mediumID, sourceID int64) {
	t.Helper()
	exec(t, db, "SeedUnsubscription",
		`INSERT INTO unsubscriptions (entity_id, medium_id, source_id) VALUES (?, ?, ?)`,
		entityID, mediumID, sourceID)
}

// SeedEvent stores an event created at the given time with the given actors.
// An empty context is stored as "{}".
func SeedEvent(t *testing.T, db *sqlx.DB, sourceID int64, createdAt time.Time, actorIDs ...int64) domain.Event {
	t.Helper()

	e := domain.Event{
		SourceID:  sourceID,
		Context:   map[string]any{},
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
		UUID:      uuid.NewString(),
		ActorIDs:  actorIDs,
	}
	e.ID = insertID(t, db, "SeedEvent",
		`INSERT INTO events (source_id, created_at, uuid) VALUES (?, ?, ?) RETURNING id`,
		sourceID, e.CreatedAt.UnixMicro(), e.UUID)
	for _, actor := range actorIDs {
		exec(t, db, "SeedEvent actor",
			`INSERT INTO event_actors (event_id, entity_id) VALUES (?, ?)`, e.ID, actor)
	}
	return e
}

// SeedSeen marks the event as seen on the medium.
func SeedSeen(t *testing.T, db *sqlx.DB, eventID, mediumID int64) {
	t.Helper()
	exec(t, db, "SeedSeen",
		`INSERT INTO event_seen (event_id, medium_id, seen_at) VALUES (?, ?, ?)`,
		eventID, mediumID, time.Now().UnixMicro())
}
