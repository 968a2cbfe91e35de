package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/entity-events/internal/adapter/querysql"
	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
)

// seenChunkSize keeps each seen-marker INSERT under SQLite's bind limit.
const seenChunkSize = 300

// EventRepo provides event persistence backed by SQLite.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo creates a new event repository.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

var eventColumns = []string{
	"e.id", "e.source_id", "e.context", "e.created_at", "e.expires_at", "e.uuid",
	"(SELECT group_concat(a.entity_id) FROM event_actors a WHERE a.event_id = e.id) AS actor_ids",
}

type eventRow struct {
	ID        int64          `db:"id"`
	SourceID  int64          `db:"source_id"`
	Context   string         `db:"context"`
	CreatedAt int64          `db:"created_at"`
	ExpiresAt sql.NullInt64  `db:"expires_at"`
	UUID      string         `db:"uuid"`
	ActorIDs  sql.NullString `db:"actor_ids"`
}

func (r eventRow) toDomain() (domain.Event, error) {
	payload, err := querysql.DecodeObject([]byte(r.Context))
	if err != nil {
		return domain.Event{}, err
	}
	actors, err := parseIDList(r.ActorIDs.String)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %d actors: %w", r.ID, err)
	}

	e := domain.Event{
		ID:        r.ID,
		SourceID:  r.SourceID,
		Context:   payload,
		CreatedAt: fromMicros(r.CreatedAt),
		UUID:      r.UUID,
		ActorIDs:  actors,
	}
	if r.ExpiresAt.Valid {
		t := fromMicros(r.ExpiresAt.Int64)
		e.ExpiresAt = &t
	}
	return e, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Find returns the events matching p, newest first, with their actors.
// limit <= 0 means no limit.
func (r *EventRepo) Find(ctx context.Context, p predicate.Predicate, limit int) ([]domain.Event, error) {
	compiled, err := querysql.Compile(querysql.SQLite, p)
	if err != nil {
		return nil, err
	}

	q := compiled.Apply(querysql.SQLite.Builder().Select(eventColumns...).From("events e")).
		OrderBy("e.created_at DESC", "e.id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find events: %w", err)
	}

	var rows []eventRow
	if err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}

	result := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("find events: %w", err)
		}
		result = append(result, e)
	}
	return result, nil
}

// FindIDs returns the IDs of the events matching p.
func (r *EventRepo) FindIDs(ctx context.Context, p predicate.Predicate) ([]int64, error) {
	compiled, err := querysql.Compile(querysql.SQLite, p)
	if err != nil {
		return nil, err
	}

	query, args, err := compiled.Apply(querysql.SQLite.Builder().Select("e.id").From("events e")).
		OrderBy("e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find event ids: %w", err)
	}

	ids := []int64{}
	if err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("find event ids: %w", err)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert stores an event with its actors. With ignoreDuplicates an existing
// uuid makes Insert return (nil, nil); otherwise the conflict surfaces as
// domain.ErrAlreadyExists.
func (r *EventRepo) Insert(ctx context.Context, e domain.Event, ignoreDuplicates bool) (*domain.Event, error) {
	payload, err := querysql.EncodeObject(e.Context)
	if err != nil {
		return nil, err
	}

	var expires any
	if e.ExpiresAt != nil {
		expires = toMicros(*e.ExpiresAt)
	}

	q := querysql.SQLite.Builder().
		Insert("events").
		Columns("source_id", "context", "created_at", "expires_at", "uuid").
		Values(e.SourceID, string(payload), toMicros(e.CreatedAt), expires, e.UUID)
	if ignoreDuplicates {
		q = q.Suffix("ON CONFLICT (uuid) DO NOTHING RETURNING id")
	} else {
		q = q.Suffix("RETURNING id")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert event: %w", err)
	}

	querier := QuerierFromCtx(ctx, r.db)
	if err := querier.QueryRowxContext(ctx, query, args...).Scan(&e.ID); err != nil {
		if ignoreDuplicates && errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "event "+e.UUID, 0)
	}

	e.ActorIDs = uniqueSorted(e.ActorIDs)
	if len(e.ActorIDs) > 0 {
		ins := querysql.SQLite.Builder().Insert("event_actors").Columns("event_id", "entity_id")
		for _, actor := range e.ActorIDs {
			ins = ins.Values(e.ID, actor)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build insert actors: %w", err)
		}
		if _, err := querier.ExecContext(ctx, query, args...); err != nil {
			return nil, mapError(err, "event actors", e.ID)
		}
	}

	if e.Context == nil {
		e.Context = map[string]any{}
	}
	if e.ActorIDs == nil {
		e.ActorIDs = []int64{}
	}
	e.CreatedAt = fromMicros(toMicros(e.CreatedAt))
	if e.ExpiresAt != nil {
		t := fromMicros(toMicros(*e.ExpiresAt))
		e.ExpiresAt = &t
	}
	return &e, nil
}

// MarkSeen records that the medium has seen the events. Pairs that are
// already recorded are skipped; the number of new rows is returned.
func (r *EventRepo) MarkSeen(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error) {
	querier := QuerierFromCtx(ctx, r.db)

	inserted := 0
	for chunk := range slices.Chunk(uniqueSorted(eventIDs), seenChunkSize) {
		ins := querysql.SQLite.Builder().
			Insert("event_seen").
			Columns("event_id", "medium_id", "seen_at")
		for _, id := range chunk {
			ins = ins.Values(id, mediumID, toMicros(at))
		}

		query, args, err := ins.Suffix("ON CONFLICT (event_id, medium_id) DO NOTHING").ToSql()
		if err != nil {
			return inserted, fmt.Errorf("build mark seen: %w", err)
		}

		res, err := querier.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, mapError(err, "event seen for medium", mediumID)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	return inserted, nil
}

// DeleteExpiredBefore removes events whose expiry is earlier than cutoff.
// Actor and seen rows cascade.
func (r *EventRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx,
		`DELETE FROM events WHERE expires_at IS NOT NULL AND expires_at < ?`, toMicros(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete expired events: %w", err)
	}
	return res.RowsAffected()
}

// DeleteSeenBefore removes seen markers recorded before cutoff.
func (r *EventRepo) DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx,
		`DELETE FROM event_seen WHERE seen_at < ?`, toMicros(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete seen markers: %w", err)
	}
	return res.RowsAffected()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func toMicros(t time.Time) int64 {
	return querysql.SQLite.Time(t).(int64)
}

func fromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

// parseIDList parses the comma-separated output of group_concat.
func parseIDList(s string) ([]int64, error) {
	ids := []int64{}
	if s == "" {
		return ids, nil
	}
	for part := range strings.SplitSeq(s, ",") {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func uniqueSorted(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
