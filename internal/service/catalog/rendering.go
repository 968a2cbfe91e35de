package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// CreateRenderingStyle creates a rendering style.
func (s *Service) CreateRenderingStyle(ctx context.Context, input CreateRenderingStyleInput) (*domain.RenderingStyle, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	style, err := s.catalog.CreateRenderingStyle(ctx, domain.RenderingStyle{
		Name:        strings.TrimSpace(input.Name),
		DisplayName: strings.TrimSpace(input.DisplayName),
	})
	if err != nil {
		return nil, fmt.Errorf("create rendering style: %w", err)
	}

	s.log.InfoContext(ctx, "rendering style created", slog.String("name", style.Name))
	return style, nil
}

// CreateMedium creates a medium.
func (s *Service) CreateMedium(ctx context.Context, input CreateMediumInput) (*domain.Medium, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	m, err := s.catalog.CreateMedium(ctx, domain.Medium{
		Name:              strings.TrimSpace(input.Name),
		DisplayName:       strings.TrimSpace(input.DisplayName),
		Description:       strings.TrimSpace(input.Description),
		RenderingStyleID:  input.RenderingStyleID,
		AdditionalContext: input.AdditionalContext,
	})
	if err != nil {
		return nil, fmt.Errorf("create medium: %w", err)
	}

	s.log.InfoContext(ctx, "medium created",
		slog.Int64("medium_id", m.ID),
		slog.String("name", m.Name),
	)
	return m, nil
}

// ListMediums returns every medium ordered by name.
func (s *Service) ListMediums(ctx context.Context) ([]domain.Medium, error) {
	mediums, err := s.catalog.ListMediums(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mediums: %w", err)
	}
	return mediums, nil
}

// CreateRenderer creates a context renderer. Every hint kind must be served
// by a registered fetcher.
func (s *Service) CreateRenderer(ctx context.Context, input CreateRendererInput) (*domain.ContextRenderer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var errs []domain.FieldError
	for _, key := range slices.Sorted(maps.Keys(input.ContextHints)) {
		if kind := input.ContextHints[key].Kind; !s.registry.HasFetcher(kind) {
			errs = append(errs, domain.FieldError{
				Field:   "context_hints." + key,
				Message: fmt.Sprintf("no fetcher registered for kind %q", kind),
			})
		}
	}
	if err := toError(errs); err != nil {
		return nil, err
	}

	cr, err := s.catalog.CreateRenderer(ctx, domain.ContextRenderer{
		Name:             strings.TrimSpace(input.Name),
		TextTemplatePath: input.TextTemplatePath,
		HTMLTemplatePath: input.HTMLTemplatePath,
		TextTemplate:     input.TextTemplate,
		HTMLTemplate:     input.HTMLTemplate,
		RenderingStyleID: input.RenderingStyleID,
		SourceID:         input.SourceID,
		SourceGroupID:    input.SourceGroupID,
		ContextHints:     input.ContextHints,
	})
	if err != nil {
		return nil, fmt.Errorf("create context renderer: %w", err)
	}

	s.log.InfoContext(ctx, "context renderer created",
		slog.Int64("renderer_id", cr.ID),
		slog.String("name", cr.Name),
		slog.Int("hints", len(cr.ContextHints)),
	)
	return cr, nil
}
