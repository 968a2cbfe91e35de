// Package testhelper opens throwaway in-memory SQLite databases with the
// schema applied. Each call returns an isolated database, so tests may run in
// parallel without coordinating names.
package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/entity-events/internal/adapter/sqlite"
	"github.com/heartmarshall/entity-events/migrations"
)

// SetupTestDB returns a migrated in-memory database closed at test cleanup.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	dsn := "file:" + uuid.NewString() + "?mode=memory"

	db, err := sqlite.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("testhelper: open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Up(ctx, "sqlite", db.DB); err != nil {
		t.Fatalf("testhelper: migrate sqlite: %v", err)
	}
	return db
}
