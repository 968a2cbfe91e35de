// Package catalog implements persistence for sources, source groups, rendering
// styles, mediums and context renderers using PostgreSQL.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/entity-events/internal/adapter/postgres"
	"github.com/heartmarshall/entity-events/internal/adapter/querysql"
	"github.com/heartmarshall/entity-events/internal/domain"
)

// Repo provides catalog persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var (
	sourceColumns   = []string{"id", "name", "display_name", "description", "group_id", "context_loader"}
	mediumColumns   = []string{"id", "name", "display_name", "description", "rendering_style_id", "additional_context"}
	rendererColumns = []string{
		"id", "name", "text_template_path", "html_template_path", "text_template", "html_template",
		"rendering_style_id", "source_id", "source_group_id", "context_hints",
	}
)

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetSource returns a source by ID.
func (r *Repo) GetSource(ctx context.Context, id int64) (*domain.Source, error) {
	query, args, err := querysql.Postgres.Builder().
		Select(sourceColumns...).From("sources").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get source: %w", err)
	}

	s, err := scanSource(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "source", id)
	}
	return &s, nil
}

// GetSourceByName returns a source by its unique name.
func (r *Repo) GetSourceByName(ctx context.Context, name string) (*domain.Source, error) {
	query, args, err := querysql.Postgres.Builder().
		Select(sourceColumns...).From("sources").Where("name = ?", name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get source: %w", err)
	}

	s, err := scanSource(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "source "+name, 0)
	}
	return &s, nil
}

// GetSourcesByIDs returns the sources with the given IDs ordered by ID.
func (r *Repo) GetSourcesByIDs(ctx context.Context, ids []int64) ([]domain.Source, error) {
	if len(ids) == 0 {
		return []domain.Source{}, nil
	}

	query, args, err := querysql.Postgres.Builder().
		Select(sourceColumns...).From("sources").Where("id = ANY(?)", ids).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sources: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Source, 0, len(ids))
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("get sources: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}
	return result, nil
}

// GetRenderingStyleByName returns a rendering style by its unique name.
func (r *Repo) GetRenderingStyleByName(ctx context.Context, name string) (*domain.RenderingStyle, error) {
	var s domain.RenderingStyle
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, display_name FROM rendering_styles WHERE name = $1`, name,
	).Scan(&s.ID, &s.Name, &s.DisplayName)
	if err != nil {
		return nil, postgres.MapError(err, "rendering style "+name, 0)
	}
	return &s, nil
}

// GetMedium returns a medium by ID.
func (r *Repo) GetMedium(ctx context.Context, id int64) (*domain.Medium, error) {
	query, args, err := querysql.Postgres.Builder().
		Select(mediumColumns...).From("mediums").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get medium: %w", err)
	}

	m, err := scanMedium(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "medium", id)
	}
	return &m, nil
}

// GetMediumByName returns a medium by its unique name.
func (r *Repo) GetMediumByName(ctx context.Context, name string) (*domain.Medium, error) {
	query, args, err := querysql.Postgres.Builder().
		Select(mediumColumns...).From("mediums").Where("name = ?", name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get medium: %w", err)
	}

	m, err := scanMedium(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "medium "+name, 0)
	}
	return &m, nil
}

// ListMediums returns all mediums ordered by name.
func (r *Repo) ListMediums(ctx context.Context) ([]domain.Medium, error) {
	query, args, err := querysql.Postgres.Builder().
		Select(mediumColumns...).From("mediums").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list mediums: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mediums: %w", err)
	}
	defer rows.Close()

	result := []domain.Medium{}
	for rows.Next() {
		m, err := scanMedium(rows)
		if err != nil {
			return nil, fmt.Errorf("list mediums: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list mediums: %w", err)
	}
	return result, nil
}

// RenderersFor returns every renderer with one of the given styles that is
// attached either to one of the sources or to the group of one of the sources.
func (r *Repo) RenderersFor(ctx context.Context, sourceIDs, styleIDs []int64) ([]domain.ContextRenderer, error) {
	if len(sourceIDs) == 0 || len(styleIDs) == 0 {
		return []domain.ContextRenderer{}, nil
	}

	query, args, err := querysql.Postgres.Builder().
		Select(rendererColumns...).
		From("context_renderers").
		Where("rendering_style_id = ANY(?)", styleIDs).
		Where("(source_id = ANY(?) OR source_group_id IN (SELECT group_id FROM sources WHERE id = ANY(?)))", sourceIDs, sourceIDs).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build renderers: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get renderers: %w", err)
	}
	defer rows.Close()

	result := []domain.ContextRenderer{}
	for rows.Next() {
		cr, err := scanRenderer(rows)
		if err != nil {
			return nil, fmt.Errorf("get renderers: %w", err)
		}
		result = append(result, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get renderers: %w", err)
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateSourceGroup inserts a source group.
func (r *Repo) CreateSourceGroup(ctx context.Context, g domain.SourceGroup) (*domain.SourceGroup, error) {
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO source_groups (name, display_name, description) VALUES ($1, $2, $3) RETURNING id`,
		g.Name, g.DisplayName, g.Description,
	).Scan(&g.ID)
	if err != nil {
		return nil, postgres.MapError(err, "source group", 0)
	}
	return &g, nil
}

// CreateSource inserts a source.
func (r *Repo) CreateSource(ctx context.Context, s domain.Source) (*domain.Source, error) {
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO sources (name, display_name, description, group_id, context_loader)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.Name, s.DisplayName, s.Description, s.GroupID, s.ContextLoader,
	).Scan(&s.ID)
	if err != nil {
		return nil, postgres.MapError(err, "source", 0)
	}
	return &s, nil
}

// UpdateSource rewrites the mutable columns of a source.
func (r *Repo) UpdateSource(ctx context.Context, s domain.Source) (*domain.Source, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE sources SET display_name = $2, description = $3, context_loader = $4 WHERE id = $1`,
		s.ID, s.DisplayName, s.Description, s.ContextLoader,
	)
	if err != nil {
		return nil, postgres.MapError(err, "source", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("source %d: %w", s.ID, domain.ErrNotFound)
	}
	return r.GetSource(ctx, s.ID)
}

// CreateRenderingStyle inserts a rendering style.
func (r *Repo) CreateRenderingStyle(ctx context.Context, s domain.RenderingStyle) (*domain.RenderingStyle, error) {
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO rendering_styles (name, display_name) VALUES ($1, $2) RETURNING id`,
		s.Name, s.DisplayName,
	).Scan(&s.ID)
	if err != nil {
		return nil, postgres.MapError(err, "rendering style", 0)
	}
	return &s, nil
}

// CreateMedium inserts a medium.
func (r *Repo) CreateMedium(ctx context.Context, m domain.Medium) (*domain.Medium, error) {
	extra, err := querysql.EncodeObject(m.AdditionalContext)
	if err != nil {
		return nil, err
	}

	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO mediums (name, display_name, description, rendering_style_id, additional_context)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.Name, m.DisplayName, m.Description, m.RenderingStyleID, extra,
	).Scan(&m.ID)
	if err != nil {
		return nil, postgres.MapError(err, "medium", 0)
	}
	if m.AdditionalContext == nil {
		m.AdditionalContext = map[string]any{}
	}
	return &m, nil
}

// CreateRenderer inserts a context renderer.
func (r *Repo) CreateRenderer(ctx context.Context, cr domain.ContextRenderer) (*domain.ContextRenderer, error) {
	hints, err := encodeHints(cr.ContextHints)
	if err != nil {
		return nil, err
	}

	query, args, err := querysql.Postgres.Builder().
		Insert("context_renderers").
		Columns(rendererColumns[1:]...).
		Values(cr.Name, cr.TextTemplatePath, cr.HTMLTemplatePath, cr.TextTemplate, cr.HTMLTemplate,
			cr.RenderingStyleID, cr.SourceID, cr.SourceGroupID, hints).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create renderer: %w", err)
	}

	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&cr.ID); err != nil {
		return nil, postgres.MapError(err, "context renderer", 0)
	}
	if cr.ContextHints == nil {
		cr.ContextHints = domain.ContextHints{}
	}
	return &cr, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanSource(row pgx.Row) (domain.Source, error) {
	var s domain.Source
	err := row.Scan(&s.ID, &s.Name, &s.DisplayName, &s.Description, &s.GroupID, &s.ContextLoader)
	return s, err
}

func scanMedium(row pgx.Row) (domain.Medium, error) {
	var (
		m     domain.Medium
		extra []byte
	)
	if err := row.Scan(&m.ID, &m.Name, &m.DisplayName, &m.Description, &m.RenderingStyleID, &extra); err != nil {
		return domain.Medium{}, err
	}
	ac, err := querysql.DecodeObject(extra)
	if err != nil {
		return domain.Medium{}, err
	}
	m.AdditionalContext = ac
	return m, nil
}

func scanRenderer(row pgx.Row) (domain.ContextRenderer, error) {
	var (
		cr    domain.ContextRenderer
		hints []byte
	)
	err := row.Scan(&cr.ID, &cr.Name, &cr.TextTemplatePath, &cr.HTMLTemplatePath, &cr.TextTemplate, &cr.HTMLTemplate,
		&cr.RenderingStyleID, &cr.SourceID, &cr.SourceGroupID, &hints)
	if err != nil {
		return domain.ContextRenderer{}, err
	}
	cr.ContextHints = domain.ContextHints{}
	if len(hints) > 0 {
		if err := json.Unmarshal(hints, &cr.ContextHints); err != nil {
			return domain.ContextRenderer{}, fmt.Errorf("decode context hints: %w", err)
		}
	}
	return cr, nil
}

func encodeHints(h domain.ContextHints) ([]byte, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode context hints: %w", err)
	}
	return b, nil
}
