// Package migrations embeds the goose SQL migrations for every supported
// storage driver.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// FS returns the migrations of one driver ("postgres" or "sqlite").
func FS(driver string) (fs.FS, error) {
	switch driver {
	case "postgres", "sqlite":
		return fs.Sub(files, driver)
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}
}

// Up applies all pending migrations for driver on db and returns the number
// of applied versions.
func Up(ctx context.Context, driver string, db *sql.DB) (int, error) {
	fsys, err := FS(driver)
	if err != nil {
		return 0, err
	}

	dialect := goose.DialectPostgres
	if driver == "sqlite" {
		dialect = goose.DialectSQLite3
	}

	// goose.NewProvider handles $$-delimited bodies, unlike the legacy goose.Up
	// which splits on semicolons.
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}
