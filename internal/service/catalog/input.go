package catalog

import (
	"regexp"
	"strings"

	"github.com/heartmarshall/entity-events/internal/domain"
)

const (
	MaxNameLength        = 128
	MaxDisplayNameLength = 256
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// validateName checks a machine name: lowercase, no spaces.
func validateName(field, name string) []domain.FieldError {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return []domain.FieldError{{Field: field, Message: "required"}}
	case len(name) > MaxNameLength:
		return []domain.FieldError{{Field: field, Message: "max 128 characters"}}
	case !namePattern.MatchString(name):
		return []domain.FieldError{{Field: field, Message: "lowercase letters, digits, '_', '.' and '-' only"}}
	}
	return nil
}

func validateDisplayName(field, name string) []domain.FieldError {
	if len(strings.TrimSpace(name)) > MaxDisplayNameLength {
		return []domain.FieldError{{Field: field, Message: "max 256 characters"}}
	}
	return nil
}

func toError(errs []domain.FieldError) error {
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateSourceGroupInput holds the parameters for creating a source group.
type CreateSourceGroupInput struct {
	Name        string
	DisplayName string
	Description string
}

// Validate checks all fields and collects all errors.
func (i CreateSourceGroupInput) Validate() error {
	errs := validateName("name", i.Name)
	errs = append(errs, validateDisplayName("display_name", i.DisplayName)...)
	return toError(errs)
}

// CreateSourceInput holds the parameters for creating a source.
type CreateSourceInput struct {
	Name          string
	DisplayName   string
	Description   string
	GroupID       int64
	ContextLoader string
}

// Validate checks all fields and collects all errors.
func (i CreateSourceInput) Validate() error {
	errs := validateName("name", i.Name)
	errs = append(errs, validateDisplayName("display_name", i.DisplayName)...)
	if i.GroupID <= 0 {
		errs = append(errs, domain.FieldError{Field: "group_id", Message: "required"})
	}
	return toError(errs)
}

// UpdateSourceInput changes the mutable fields of a source. Nil fields are
// left unchanged.
type UpdateSourceInput struct {
	ID            int64
	DisplayName   *string
	Description   *string
	ContextLoader *string
}

// Validate checks all fields and collects all errors.
func (i UpdateSourceInput) Validate() error {
	var errs []domain.FieldError
	if i.ID <= 0 {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.DisplayName != nil {
		errs = append(errs, validateDisplayName("display_name", *i.DisplayName)...)
	}
	return toError(errs)
}

// CreateRenderingStyleInput holds the parameters for creating a rendering style.
type CreateRenderingStyleInput struct {
	Name        string
	DisplayName string
}

// Validate checks all fields and collects all errors.
func (i CreateRenderingStyleInput) Validate() error {
	errs := validateName("name", i.Name)
	errs = append(errs, validateDisplayName("display_name", i.DisplayName)...)
	return toError(errs)
}

// CreateMediumInput holds the parameters for creating a medium.
type CreateMediumInput struct {
	Name              string
	DisplayName       string
	Description       string
	RenderingStyleID  *int64
	AdditionalContext map[string]any
}

// Validate checks all fields and collects all errors.
func (i CreateMediumInput) Validate() error {
	errs := validateName("name", i.Name)
	errs = append(errs, validateDisplayName("display_name", i.DisplayName)...)
	if i.RenderingStyleID != nil && *i.RenderingStyleID <= 0 {
		errs = append(errs, domain.FieldError{Field: "rendering_style_id", Message: "must be positive"})
	}
	return toError(errs)
}

// CreateRendererInput holds the parameters for creating a context renderer.
// Exactly one of SourceID and SourceGroupID must be set.
type CreateRendererInput struct {
	Name             string
	TextTemplatePath string
	HTMLTemplatePath string
	TextTemplate     string
	HTMLTemplate     string
	RenderingStyleID int64
	SourceID         *int64
	SourceGroupID    *int64
	ContextHints     domain.ContextHints
}

// Validate checks all fields and collects all errors. Hint kinds are
// checked against the registry by the service.
func (i CreateRendererInput) Validate() error {
	errs := validateName("name", i.Name)
	if i.RenderingStyleID <= 0 {
		errs = append(errs, domain.FieldError{Field: "rendering_style_id", Message: "required"})
	}
	if (i.SourceID == nil) == (i.SourceGroupID == nil) {
		errs = append(errs, domain.FieldError{Field: "source_id", Message: "exactly one of source_id and source_group_id is required"})
	}
	for _, p := range []struct{ field, path string }{
		{"text_template_path", i.TextTemplatePath},
		{"html_template_path", i.HTMLTemplatePath},
	} {
		if strings.HasPrefix(p.path, "/") || strings.Contains(p.path, "..") {
			errs = append(errs, domain.FieldError{Field: p.field, Message: "must be relative to the template directory"})
		}
	}
	for key, hint := range i.ContextHints {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, domain.FieldError{Field: "context_hints", Message: "keys must not be empty"})
		}
		if strings.TrimSpace(hint.Kind) == "" {
			errs = append(errs, domain.FieldError{Field: "context_hints." + key, Message: "kind is required"})
		}
	}
	return toError(errs)
}

// SubscribeInput holds the parameters for a subscription. With
// SubEntityKindID set it subscribes every descendant of EntityID with that
// kind.
type SubscribeInput struct {
	MediumID        int64
	SourceID        int64
	EntityID        int64
	SubEntityKindID *int64
	OnlyFollowing   bool
}

// Validate checks all fields and collects all errors.
func (i SubscribeInput) Validate() error {
	var errs []domain.FieldError
	if i.MediumID <= 0 {
		errs = append(errs, domain.FieldError{Field: "medium_id", Message: "required"})
	}
	if i.SourceID <= 0 {
		errs = append(errs, domain.FieldError{Field: "source_id", Message: "required"})
	}
	if i.EntityID <= 0 {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.SubEntityKindID != nil && *i.SubEntityKindID <= 0 {
		errs = append(errs, domain.FieldError{Field: "sub_entity_kind_id", Message: "must be positive"})
	}
	return toError(errs)
}

// UnsubscribeInput names an (entity, medium, source) opt-out.
type UnsubscribeInput struct {
	EntityID int64
	MediumID int64
	SourceID int64
}

// Validate checks all fields and collects all errors.
func (i UnsubscribeInput) Validate() error {
	var errs []domain.FieldError
	if i.EntityID <= 0 {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.MediumID <= 0 {
		errs = append(errs, domain.FieldError{Field: "medium_id", Message: "required"})
	}
	if i.SourceID <= 0 {
		errs = append(errs, domain.FieldError{Field: "source_id", Message: "required"})
	}
	return toError(errs)
}

// CreateEntityKindInput holds the parameters for creating an entity kind.
type CreateEntityKindInput struct {
	Name        string
	DisplayName string
}

// Validate checks all fields and collects all errors.
func (i CreateEntityKindInput) Validate() error {
	errs := validateName("name", i.Name)
	errs = append(errs, validateDisplayName("display_name", i.DisplayName)...)
	return toError(errs)
}

// CreateEntityInput holds the parameters for creating an entity, optionally
// placed under existing super-entities.
type CreateEntityInput struct {
	KindID         int64
	DisplayName    string
	Meta           map[string]any
	Inactive       bool
	SuperEntityIDs []int64
}

// Validate checks all fields and collects all errors.
func (i CreateEntityInput) Validate() error {
	var errs []domain.FieldError
	if i.KindID <= 0 {
		errs = append(errs, domain.FieldError{Field: "kind_id", Message: "required"})
	}
	errs = append(errs, validateDisplayName("display_name", i.DisplayName)...)
	for _, id := range i.SuperEntityIDs {
		if id <= 0 {
			errs = append(errs, domain.FieldError{Field: "super_entity_ids", Message: "must be positive"})
			break
		}
	}
	return toError(errs)
}

// RelationshipInput names a direct super/sub edge.
type RelationshipInput struct {
	SuperEntityID int64
	SubEntityID   int64
}

// Validate checks all fields and collects all errors.
func (i RelationshipInput) Validate() error {
	var errs []domain.FieldError
	if i.SuperEntityID <= 0 {
		errs = append(errs, domain.FieldError{Field: "super_entity_id", Message: "required"})
	}
	if i.SubEntityID <= 0 {
		errs = append(errs, domain.FieldError{Field: "sub_entity_id", Message: "required"})
	}
	if i.SuperEntityID > 0 && i.SuperEntityID == i.SubEntityID {
		errs = append(errs, domain.FieldError{Field: "sub_entity_id", Message: "must differ from super_entity_id"})
	}
	return toError(errs)
}
