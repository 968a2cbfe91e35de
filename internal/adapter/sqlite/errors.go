package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// mapError converts driver errors to domain errors. Context errors pass through.
func mapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	label := entity
	if id != 0 {
		label = fmt.Sprintf("%s %d", entity, id)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", label, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", label, domain.ErrNotFound)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if sentinel := constraintError(sqliteErr.Code(), sqliteErr.Error()); sentinel != nil {
			return fmt.Errorf("%s: %w", label, sentinel)
		}
	}

	return fmt.Errorf("%s: %w", label, err)
}

func constraintError(code int, msg string) error {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return domain.ErrAlreadyExists
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return domain.ErrInvalidReference
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return domain.ErrValidation
	}

	// Primary result code only: fall back to the message.
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return domain.ErrAlreadyExists
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return domain.ErrInvalidReference
	case strings.Contains(msg, "CHECK constraint failed"):
		return domain.ErrValidation
	}
	return nil
}
