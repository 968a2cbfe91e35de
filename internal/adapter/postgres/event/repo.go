// Package event implements the event store using PostgreSQL. Filtered reads
// take a predicate tree compiled by querysql.
package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/entity-events/internal/adapter/postgres"
	"github.com/heartmarshall/entity-events/internal/adapter/querysql"
	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
)

// seenChunkSize bounds the number of rows per seen-marker INSERT.
const seenChunkSize = 1000

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var eventColumns = []string{
	"e.id", "e.source_id", "e.context", "e.created_at", "e.expires_at", "e.uuid",
	"ARRAY(SELECT a.entity_id FROM event_actors a WHERE a.event_id = e.id ORDER BY a.entity_id) AS actor_ids",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Find returns the events matching p, newest first, with their actors.
// limit <= 0 means no limit.
func (r *Repo) Find(ctx context.Context, p predicate.Predicate, limit int) ([]domain.Event, error) {
	compiled, err := querysql.Compile(querysql.Postgres, p)
	if err != nil {
		return nil, err
	}

	q := compiled.Apply(querysql.Postgres.Builder().Select(eventColumns...).From("events e")).
		OrderBy("e.created_at DESC", "e.id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find events: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer rows.Close()

	result := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("find events: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	return result, nil
}

// FindIDs returns the IDs of the events matching p.
func (r *Repo) FindIDs(ctx context.Context, p predicate.Predicate) ([]int64, error) {
	compiled, err := querysql.Compile(querysql.Postgres, p)
	if err != nil {
		return nil, err
	}

	query, args, err := compiled.Apply(querysql.Postgres.Builder().Select("e.id").From("events e")).
		OrderBy("e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find event ids: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find event ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("find event ids: %w", err)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert stores an event with its actors. Call it inside a transaction so the
// actor rows become visible together with the event.
//
// With ignoreDuplicates an existing uuid makes Insert return (nil, nil) and no
// actor rows are written. Otherwise the conflict surfaces as
// domain.ErrAlreadyExists.
func (r *Repo) Insert(ctx context.Context, e domain.Event, ignoreDuplicates bool) (*domain.Event, error) {
	payload, err := querysql.EncodeObject(e.Context)
	if err != nil {
		return nil, err
	}

	q := querysql.Postgres.Builder().
		Insert("events").
		Columns("source_id", "context", "created_at", "expires_at", "uuid").
		Values(e.SourceID, payload, e.CreatedAt, e.ExpiresAt, e.UUID)
	if ignoreDuplicates {
		q = q.Suffix("ON CONFLICT (uuid) DO NOTHING RETURNING id")
	} else {
		q = q.Suffix("RETURNING id")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert event: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if err := querier.QueryRow(ctx, query, args...).Scan(&e.ID); err != nil {
		if ignoreDuplicates && errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.MapError(err, "event "+e.UUID, 0)
	}

	e.ActorIDs = uniqueSorted(e.ActorIDs)
	if len(e.ActorIDs) > 0 {
		ins := querysql.Postgres.Builder().Insert("event_actors").Columns("event_id", "entity_id")
		for _, actor := range e.ActorIDs {
			ins = ins.Values(e.ID, actor)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build insert actors: %w", err)
		}
		if _, err := querier.Exec(ctx, query, args...); err != nil {
			return nil, postgres.MapError(err, "event actors", e.ID)
		}
	}

	if e.Context == nil {
		e.Context = map[string]any{}
	}
	if e.ActorIDs == nil {
		e.ActorIDs = []int64{}
	}
	return &e, nil
}

// MarkSeen records that the medium has seen the events. Pairs that are
// already recorded are skipped; the number of new rows is returned.
func (r *Repo) MarkSeen(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	inserted := 0
	for chunk := range slices.Chunk(uniqueSorted(eventIDs), seenChunkSize) {
		ins := querysql.Postgres.Builder().
			Insert("event_seen").
			Columns("event_id", "medium_id", "seen_at")
		for _, id := range chunk {
			ins = ins.Values(id, mediumID, at)
		}

		query, args, err := ins.Suffix("ON CONFLICT (event_id, medium_id) DO NOTHING").ToSql()
		if err != nil {
			return inserted, fmt.Errorf("build mark seen: %w", err)
		}

		tag, err := querier.Exec(ctx, query, args...)
		if err != nil {
			return inserted, postgres.MapError(err, "event seen for medium", mediumID)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// DeleteExpiredBefore removes events whose expiry is earlier than cutoff.
// Actor and seen rows cascade.
func (r *Repo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM events WHERE expires_at IS NOT NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteSeenBefore removes seen markers recorded before cutoff.
func (r *Repo) DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM event_seen WHERE seen_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete seen markers: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		e       domain.Event
		payload []byte
	)
	if err := row.Scan(&e.ID, &e.SourceID, &payload, &e.CreatedAt, &e.ExpiresAt, &e.UUID, &e.ActorIDs); err != nil {
		return domain.Event{}, err
	}
	ctxMap, err := querysql.DecodeObject(payload)
	if err != nil {
		return domain.Event{}, err
	}
	e.Context = ctxMap
	e.CreatedAt = e.CreatedAt.UTC()
	if e.ExpiresAt != nil {
		t := e.ExpiresAt.UTC()
		e.ExpiresAt = &t
	}
	if e.ActorIDs == nil {
		e.ActorIDs = []int64{}
	}
	return e, nil
}

func uniqueSorted(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
