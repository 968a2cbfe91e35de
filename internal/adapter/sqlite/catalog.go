package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/entity-events/internal/adapter/querysql"
	"github.com/heartmarshall/entity-events/internal/domain"
)

// CatalogRepo provides persistence for sources, source groups, rendering
// styles, mediums and context renderers backed by SQLite.
type CatalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo creates a new catalog repository.
func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const (
	sourceSelect   = `SELECT id, name, display_name, description, group_id, context_loader FROM sources`
	mediumSelect   = `SELECT id, name, display_name, description, rendering_style_id, additional_context FROM mediums`
	rendererSelect = `SELECT id, name, text_template_path, html_template_path, text_template, html_template,
       rendering_style_id, source_id, source_group_id, context_hints FROM context_renderers`
)

type sourceRow struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	DisplayName   string `db:"display_name"`
	Description   string `db:"description"`
	GroupID       int64  `db:"group_id"`
	ContextLoader string `db:"context_loader"`
}

func (r sourceRow) toDomain() domain.Source {
	return domain.Source{
		ID: r.ID, Name: r.Name, DisplayName: r.DisplayName, Description: r.Description,
		GroupID: r.GroupID, ContextLoader: r.ContextLoader,
	}
}

type mediumRow struct {
	ID                int64         `db:"id"`
	Name              string        `db:"name"`
	DisplayName       string        `db:"display_name"`
	Description       string        `db:"description"`
	RenderingStyleID  sql.NullInt64 `db:"rendering_style_id"`
	AdditionalContext string        `db:"additional_context"`
}

func (r mediumRow) toDomain() (domain.Medium, error) {
	extra, err := querysql.DecodeObject([]byte(r.AdditionalContext))
	if err != nil {
		return domain.Medium{}, err
	}
	return domain.Medium{
		ID: r.ID, Name: r.Name, DisplayName: r.DisplayName, Description: r.Description,
		RenderingStyleID: nullInt(r.RenderingStyleID), AdditionalContext: extra,
	}, nil
}

type rendererRow struct {
	ID               int64         `db:"id"`
	Name             string        `db:"name"`
	TextTemplatePath string        `db:"text_template_path"`
	HTMLTemplatePath string        `db:"html_template_path"`
	TextTemplate     string        `db:"text_template"`
	HTMLTemplate     string        `db:"html_template"`
	RenderingStyleID int64         `db:"rendering_style_id"`
	SourceID         sql.NullInt64 `db:"source_id"`
	SourceGroupID    sql.NullInt64 `db:"source_group_id"`
	ContextHints     string        `db:"context_hints"`
}

func (r rendererRow) toDomain() (domain.ContextRenderer, error) {
	cr := domain.ContextRenderer{
		ID: r.ID, Name: r.Name,
		TextTemplatePath: r.TextTemplatePath, HTMLTemplatePath: r.HTMLTemplatePath,
		TextTemplate: r.TextTemplate, HTMLTemplate: r.HTMLTemplate,
		RenderingStyleID: r.RenderingStyleID,
		SourceID:         nullInt(r.SourceID),
		SourceGroupID:    nullInt(r.SourceGroupID),
		ContextHints:     domain.ContextHints{},
	}
	if r.ContextHints != "" {
		if err := json.Unmarshal([]byte(r.ContextHints), &cr.ContextHints); err != nil {
			return domain.ContextRenderer{}, fmt.Errorf("decode context hints: %w", err)
		}
	}
	return cr, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetSource returns a source by ID.
func (r *CatalogRepo) GetSource(ctx context.Context, id int64) (*domain.Source, error) {
	var row sourceRow
	if err := QuerierFromCtx(ctx, r.db).GetContext(ctx, &row, sourceSelect+` WHERE id = ?`, id); err != nil {
		return nil, mapError(err, "source", id)
	}
	s := row.toDomain()
	return &s, nil
}

// GetSourceByName returns a source by its unique name.
func (r *CatalogRepo) GetSourceByName(ctx context.Context, name string) (*domain.Source, error) {
	var row sourceRow
	if err := QuerierFromCtx(ctx, r.db).GetContext(ctx, &row, sourceSelect+` WHERE name = ?`, name); err != nil {
		return nil, mapError(err, "source "+name, 0)
	}
	s := row.toDomain()
	return &s, nil
}

// GetSourcesByIDs returns the sources with the given IDs ordered by ID.
func (r *CatalogRepo) GetSourcesByIDs(ctx context.Context, ids []int64) ([]domain.Source, error) {
	if len(ids) == 0 {
		return []domain.Source{}, nil
	}

	query, args, err := sqlx.In(sourceSelect+` WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("build get sources: %w", err)
	}

	var rows []sourceRow
	if err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	result := make([]domain.Source, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

// GetRenderingStyleByName returns a rendering style by its unique name.
func (r *CatalogRepo) GetRenderingStyleByName(ctx context.Context, name string) (*domain.RenderingStyle, error) {
	var s domain.RenderingStyle
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`SELECT id, name, display_name FROM rendering_styles WHERE name = ?`, name,
	).Scan(&s.ID, &s.Name, &s.DisplayName)
	if err != nil {
		return nil, mapError(err, "rendering style "+name, 0)
	}
	return &s, nil
}

// GetMedium returns a medium by ID.
func (r *CatalogRepo) GetMedium(ctx context.Context, id int64) (*domain.Medium, error) {
	var row mediumRow
	if err := QuerierFromCtx(ctx, r.db).GetContext(ctx, &row, mediumSelect+` WHERE id = ?`, id); err != nil {
		return nil, mapError(err, "medium", id)
	}
	m, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMediumByName returns a medium by its unique name.
func (r *CatalogRepo) GetMediumByName(ctx context.Context, name string) (*domain.Medium, error) {
	var row mediumRow
	if err := QuerierFromCtx(ctx, r.db).GetContext(ctx, &row, mediumSelect+` WHERE name = ?`, name); err != nil {
		return nil, mapError(err, "medium "+name, 0)
	}
	m, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMediums returns all mediums ordered by name.
func (r *CatalogRepo) ListMediums(ctx context.Context) ([]domain.Medium, error) {
	var rows []mediumRow
	if err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &rows, mediumSelect+` ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list mediums: %w", err)
	}

	result := make([]domain.Medium, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list mediums: %w", err)
		}
		result = append(result, m)
	}
	return result, nil
}

// RenderersFor returns every renderer with one of the given styles that is
// attached either to one of the sources or to the group of one of the sources.
func (r *CatalogRepo) RenderersFor(ctx context.Context, sourceIDs, styleIDs []int64) ([]domain.ContextRenderer, error) {
	if len(sourceIDs) == 0 || len(styleIDs) == 0 {
		return []domain.ContextRenderer{}, nil
	}

	query, args, err := sqlx.In(rendererSelect+`
WHERE rendering_style_id IN (?)
  AND (source_id IN (?) OR source_group_id IN (SELECT group_id FROM sources WHERE id IN (?)))
ORDER BY id`, styleIDs, sourceIDs, sourceIDs)
	if err != nil {
		return nil, fmt.Errorf("build renderers: %w", err)
	}

	var rows []rendererRow
	if err := QuerierFromCtx(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get renderers: %w", err)
	}

	result := make([]domain.ContextRenderer, 0, len(rows))
	for _, row := range rows {
		cr, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("get renderers: %w", err)
		}
		result = append(result, cr)
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateSourceGroup inserts a source group.
func (r *CatalogRepo) CreateSourceGroup(ctx context.Context, g domain.SourceGroup) (*domain.SourceGroup, error) {
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO source_groups (name, display_name, description) VALUES (?, ?, ?) RETURNING id`,
		g.Name, g.DisplayName, g.Description,
	).Scan(&g.ID)
	if err != nil {
		return nil, mapError(err, "source group", 0)
	}
	return &g, nil
}

// CreateSource inserts a source.
func (r *CatalogRepo) CreateSource(ctx context.Context, s domain.Source) (*domain.Source, error) {
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO sources (name, display_name, description, group_id, context_loader)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		s.Name, s.DisplayName, s.Description, s.GroupID, s.ContextLoader,
	).Scan(&s.ID)
	if err != nil {
		return nil, mapError(err, "source", 0)
	}
	return &s, nil
}

// UpdateSource rewrites the mutable columns of a source.
func (r *CatalogRepo) UpdateSource(ctx context.Context, s domain.Source) (*domain.Source, error) {
	res, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx,
		`UPDATE sources SET display_name = ?, description = ?, context_loader = ? WHERE id = ?`,
		s.DisplayName, s.Description, s.ContextLoader, s.ID,
	)
	if err != nil {
		return nil, mapError(err, "source", s.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("source %d: %w", s.ID, domain.ErrNotFound)
	}
	return r.GetSource(ctx, s.ID)
}

// CreateRenderingStyle inserts a rendering style.
func (r *CatalogRepo) CreateRenderingStyle(ctx context.Context, s domain.RenderingStyle) (*domain.RenderingStyle, error) {
	err := QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO rendering_styles (name, display_name) VALUES (?, ?) RETURNING id`,
		s.Name, s.DisplayName,
	).Scan(&s.ID)
	if err != nil {
		return nil, mapError(err, "rendering style", 0)
	}
	return &s, nil
}

// CreateMedium inserts a medium.
func (r *CatalogRepo) CreateMedium(ctx context.Context, m domain.Medium) (*domain.Medium, error) {
	extra, err := querysql.EncodeObject(m.AdditionalContext)
	if err != nil {
		return nil, err
	}

	err = QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO mediums (name, display_name, description, rendering_style_id, additional_context)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		m.Name, m.DisplayName, m.Description, m.RenderingStyleID, string(extra),
	).Scan(&m.ID)
	if err != nil {
		return nil, mapError(err, "medium", 0)
	}
	if m.AdditionalContext == nil {
		m.AdditionalContext = map[string]any{}
	}
	return &m, nil
}

// CreateRenderer inserts a context renderer.
func (r *CatalogRepo) CreateRenderer(ctx context.Context, cr domain.ContextRenderer) (*domain.ContextRenderer, error) {
	if cr.ContextHints == nil {
		cr.ContextHints = domain.ContextHints{}
	}
	hints, err := json.Marshal(cr.ContextHints)
	if err != nil {
		return nil, fmt.Errorf("encode context hints: %w", err)
	}

	err = QuerierFromCtx(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO context_renderers (name, text_template_path, html_template_path, text_template, html_template,
		     rendering_style_id, source_id, source_group_id, context_hints)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		cr.Name, cr.TextTemplatePath, cr.HTMLTemplatePath, cr.TextTemplate, cr.HTMLTemplate,
		cr.RenderingStyleID, cr.SourceID, cr.SourceGroupID, string(hints),
	).Scan(&cr.ID)
	if err != nil {
		return nil, mapError(err, "context renderer", 0)
	}
	return &cr, nil
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
