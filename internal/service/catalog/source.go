package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// CreateSourceGroup creates a source group.
func (s *Service) CreateSourceGroup(ctx context.Context, input CreateSourceGroupInput) (*domain.SourceGroup, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	group, err := s.catalog.CreateSourceGroup(ctx, domain.SourceGroup{
		Name:        strings.TrimSpace(input.Name),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Description: strings.TrimSpace(input.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("create source group: %w", err)
	}

	s.log.InfoContext(ctx, "source group created",
		slog.Int64("group_id", group.ID),
		slog.String("name", group.Name),
	)
	return group, nil
}

// CreateSource creates a source. A non-empty context loader must be
// registered, otherwise domain.ErrMisconfiguredContextLoader is returned.
func (s *Service) CreateSource(ctx context.Context, input CreateSourceInput) (*domain.Source, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	loader := strings.TrimSpace(input.ContextLoader)
	if err := s.checkLoader(loader); err != nil {
		return nil, err
	}

	src, err := s.catalog.CreateSource(ctx, domain.Source{
		Name:          strings.TrimSpace(input.Name),
		DisplayName:   strings.TrimSpace(input.DisplayName),
		Description:   strings.TrimSpace(input.Description),
		GroupID:       input.GroupID,
		ContextLoader: loader,
	})
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	s.log.InfoContext(ctx, "source created",
		slog.Int64("source_id", src.ID),
		slog.String("name", src.Name),
		slog.String("context_loader", src.ContextLoader),
	)
	return src, nil
}

// UpdateSource changes the display fields or the context loader of a
// source. Name and group are fixed once events may reference the source.
func (s *Service) UpdateSource(ctx context.Context, input UpdateSourceInput) (*domain.Source, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Source
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		src, err := s.catalog.GetSource(txCtx, input.ID)
		if err != nil {
			return fmt.Errorf("get source: %w", err)
		}

		if input.DisplayName != nil {
			src.DisplayName = strings.TrimSpace(*input.DisplayName)
		}
		if input.Description != nil {
			src.Description = strings.TrimSpace(*input.Description)
		}
		if input.ContextLoader != nil {
			src.ContextLoader = strings.TrimSpace(*input.ContextLoader)
			if err := s.checkLoader(src.ContextLoader); err != nil {
				return err
			}
		}

		updated, err = s.catalog.UpdateSource(txCtx, *src)
		if err != nil {
			return fmt.Errorf("update source: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "source updated",
		slog.Int64("source_id", updated.ID),
		slog.String("context_loader", updated.ContextLoader),
	)
	return updated, nil
}

func (s *Service) checkLoader(name string) error {
	if name == "" || s.registry.HasLoader(name) {
		return nil
	}
	return fmt.Errorf("context loader %q is not registered: %w", name, domain.ErrMisconfiguredContextLoader)
}
