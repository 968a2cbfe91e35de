package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// CreateEntityKind creates an entity kind.
func (s *Service) CreateEntityKind(ctx context.Context, input CreateEntityKindInput) (*domain.EntityKind, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	kind, err := s.entities.CreateKind(ctx, domain.EntityKind{
		Name:        strings.TrimSpace(input.Name),
		DisplayName: strings.TrimSpace(input.DisplayName),
	})
	if err != nil {
		return nil, fmt.Errorf("create entity kind: %w", err)
	}

	s.log.InfoContext(ctx, "entity kind created", slog.String("name", kind.Name))
	return kind, nil
}

// CreateEntity creates an entity and links it under its super-entities in
// one transaction.
func (s *Service) CreateEntity(ctx context.Context, input CreateEntityInput) (*domain.Entity, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var entity *domain.Entity
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		entity, err = s.entities.Create(txCtx, domain.Entity{
			KindID:      input.KindID,
			DisplayName: strings.TrimSpace(input.DisplayName),
			Meta:        input.Meta,
			IsActive:    !input.Inactive,
		})
		if err != nil {
			return fmt.Errorf("create entity: %w", err)
		}

		for _, super := range input.SuperEntityIDs {
			rel := domain.EntityRelationship{SuperEntityID: super, SubEntityID: entity.ID}
			if err := s.entities.AddRelationship(txCtx, rel); err != nil {
				return fmt.Errorf("link entity under %d: %w", super, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "entity created",
		slog.Int64("entity_id", entity.ID),
		slog.Int64("kind_id", entity.KindID),
		slog.Int("super_entities", len(input.SuperEntityIDs)),
	)
	return entity, nil
}

// Link adds a super/sub edge to the hierarchy. Existing edges are kept.
func (s *Service) Link(ctx context.Context, input RelationshipInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	rel := domain.EntityRelationship{SuperEntityID: input.SuperEntityID, SubEntityID: input.SubEntityID}
	if err := s.entities.AddRelationship(ctx, rel); err != nil {
		return fmt.Errorf("add relationship: %w", err)
	}
	s.log.InfoContext(ctx, "entities linked",
		slog.Int64("super_entity_id", input.SuperEntityID),
		slog.Int64("sub_entity_id", input.SubEntityID),
	)
	return nil
}

// Unlink removes a super/sub edge from the hierarchy.
func (s *Service) Unlink(ctx context.Context, input RelationshipInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	rel := domain.EntityRelationship{SuperEntityID: input.SuperEntityID, SubEntityID: input.SubEntityID}
	if err := s.entities.RemoveRelationship(ctx, rel); err != nil {
		return fmt.Errorf("remove relationship: %w", err)
	}
	s.log.InfoContext(ctx, "entities unlinked",
		slog.Int64("super_entity_id", input.SuperEntityID),
		slog.Int64("sub_entity_id", input.SubEntityID),
	)
	return nil
}
