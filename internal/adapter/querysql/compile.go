// Package querysql compiles predicate trees into squirrel SQL fragments over
// the events table aliased as "e".
//
// Seen-state leaves compile to LEFT OUTER JOINs against event_seen with a
// NULL check on the joined row. The (event_id, medium_id) pair is unique, so
// the joins never multiply event rows and may appear anywhere in the tree,
// including under OR and NOT.
package querysql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/heartmarshall/entity-events/internal/predicate"
)

// Dialect captures what differs between storage backends.
type Dialect struct {
	Name string
	// InList renders "column is one of ids". ids is never empty.
	InList func(column string, ids []int64) squirrel.Sqlizer
	// Time converts a time into the representation stored in timestamp columns.
	Time func(time.Time) any
	// Placeholder is the bind-variable format of the backend.
	Placeholder squirrel.PlaceholderFormat
}

// Postgres binds ID lists as a single array parameter.
var Postgres = Dialect{
	Name: "postgres",
	InList: func(column string, ids []int64) squirrel.Sqlizer {
		return squirrel.Expr(column+" = ANY(?)", ids)
	},
	Time:        func(t time.Time) any { return t },
	Placeholder: squirrel.Dollar,
}

// SQLite stores timestamps as unix microseconds and binds ID lists as one
// JSON array parameter unpacked by json_each, so list length is not bounded
// by the bind-variable limit.
var SQLite = Dialect{
	Name: "sqlite",
	InList: func(column string, ids []int64) squirrel.Sqlizer {
		return squirrel.Expr(column+" IN (SELECT value FROM json_each(?))", IDArray(ids))
	},
	Time:        func(t time.Time) any { return t.UTC().UnixMicro() },
	Placeholder: squirrel.Question,
}

// Builder returns a statement builder using the dialect's placeholders.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// Join is a LEFT JOIN clause required by a compiled predicate.
type Join struct {
	SQL  string
	Args []any
}

// Compiled is a predicate ready to be attached to a SELECT over "events e".
type Compiled struct {
	Where squirrel.Sqlizer
	Joins []Join
}

// Apply adds the joins and the WHERE condition to q.
func (c Compiled) Apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	for _, j := range c.Joins {
		q = q.LeftJoin(j.SQL, j.Args...)
	}
	return q.Where(c.Where)
}

// Compile translates p for the dialect. A nil predicate is true.
func Compile(d Dialect, p predicate.Predicate) (Compiled, error) {
	c := &compiler{dialect: d, seenAliases: make(map[int64]string)}
	where, err := c.compile(p)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{Where: where, Joins: c.joins}, nil
}

type compiler struct {
	dialect     Dialect
	joins       []Join
	seenAliases map[int64]string
}

func (c *compiler) compile(p predicate.Predicate) (squirrel.Sqlizer, error) {
	switch v := p.(type) {
	case nil:
		return squirrel.And{}, nil
	case predicate.And:
		out := make(squirrel.And, 0, len(v))
		for _, q := range v {
			s, err := c.compile(q)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case predicate.Or:
		out := make(squirrel.Or, 0, len(v))
		for _, q := range v {
			s, err := c.compile(q)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case predicate.Not:
		s, err := c.compile(v.P)
		if err != nil {
			return nil, err
		}
		return not{s}, nil
	case predicate.TimeRange:
		out := squirrel.And{}
		if v.Start != nil {
			out = append(out, squirrel.GtOrEq{"e.created_at": c.dialect.Time(*v.Start)})
		}
		if v.End != nil {
			if v.ExclusiveEnd {
				out = append(out, squirrel.Lt{"e.created_at": c.dialect.Time(*v.End)})
			} else {
				out = append(out, squirrel.LtOrEq{"e.created_at": c.dialect.Time(*v.End)})
			}
		}
		return out, nil
	case predicate.NotExpired:
		return squirrel.Or{
			squirrel.Eq{"e.expires_at": nil},
			squirrel.Gt{"e.expires_at": c.dialect.Time(v.Now)},
		}, nil
	case predicate.Seen:
		alias := c.seenJoin(v.MediumID)
		if v.Seen {
			return squirrel.Expr(alias + ".event_id IS NOT NULL"), nil
		}
		return squirrel.Expr(alias + ".event_id IS NULL"), nil
	case predicate.SourceIs:
		return squirrel.Eq{"e.source_id": v.SourceID}, nil
	case predicate.SourceIn:
		if len(v.SourceIDs) == 0 {
			return squirrel.Or{}, nil
		}
		return c.dialect.InList("e.source_id", v.SourceIDs), nil
	case predicate.ActorIn:
		if len(v.EntityIDs) == 0 {
			return squirrel.Or{}, nil
		}
		return exists{
			prefix: "SELECT 1 FROM event_actors ea WHERE ea.event_id = e.id AND ",
			cond:   c.dialect.InList("ea.entity_id", v.EntityIDs),
		}, nil
	case predicate.IDIn:
		if len(v.EventIDs) == 0 {
			return squirrel.Or{}, nil
		}
		return c.dialect.InList("e.id", v.EventIDs), nil
	default:
		return nil, fmt.Errorf("querysql: unsupported predicate %T", p)
	}
}

// seenJoin registers one LEFT JOIN per medium and returns its alias.
func (c *compiler) seenJoin(mediumID int64) string {
	if alias, ok := c.seenAliases[mediumID]; ok {
		return alias
	}
	alias := "es" + strconv.Itoa(len(c.seenAliases))
	c.seenAliases[mediumID] = alias
	c.joins = append(c.joins, Join{
		SQL:  fmt.Sprintf("event_seen %[1]s ON %[1]s.event_id = e.id AND %[1]s.medium_id = ?", alias),
		Args: []any{mediumID},
	})
	return alias
}

type not struct {
	inner squirrel.Sqlizer
}

func (n not) ToSql() (string, []any, error) {
	sql, args, err := n.inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

type exists struct {
	prefix string
	cond   squirrel.Sqlizer
}

func (e exists) ToSql() (string, []any, error) {
	sql, args, err := e.cond.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "EXISTS (" + e.prefix + sql + ")", args, nil
}
