package contextload

import (
	"context"
	"fmt"
	"maps"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/render"
	"github.com/heartmarshall/entity-events/internal/service/serializer"
)

// LoadedEvent is an event whose context was hydrated by Engine.Load, with
// the renderer resolved for each medium passed to Load.
type LoadedEvent struct {
	domain.Event

	render    renderer
	mediums   map[int64]domain.Medium
	renderers map[int64]*domain.ContextRenderer
}

// Renderer returns the renderer chosen for the medium, or nil when no
// renderer applies.
func (le *LoadedEvent) Renderer(medium domain.Medium) (*domain.ContextRenderer, error) {
	r, ok := le.renderers[medium.ID]
	if !ok {
		return nil, fmt.Errorf("medium %s: %w", medium.Name, domain.ErrRendererNotResolved)
	}
	return r, nil
}

// SerializedContext returns the event context as plain data with the
// medium's additional context merged over it.
func (le *LoadedEvent) SerializedContext(medium domain.Medium) (map[string]any, error) {
	m, ok := le.mediums[medium.ID]
	if !ok {
		return nil, fmt.Errorf("medium %s: %w", medium.Name, domain.ErrRendererNotResolved)
	}

	merged := make(map[string]any, len(le.Context)+len(m.AdditionalContext))
	maps.Copy(merged, le.Context)
	maps.Copy(merged, m.AdditionalContext)

	out, _ := serializer.Serialize(merged).(map[string]any)
	return out, nil
}

// Render renders the event for the medium with the renderer chosen by Load.
func (le *LoadedEvent) Render(ctx context.Context, medium domain.Medium) (render.Output, error) {
	r, err := le.Renderer(medium)
	if err != nil {
		return render.Output{}, err
	}
	if r == nil {
		return render.Output{}, fmt.Errorf("no renderer for source %d on medium %s: %w",
			le.SourceID, medium.Name, domain.ErrRendererNotResolved)
	}

	data, err := le.SerializedContext(medium)
	if err != nil {
		return render.Output{}, err
	}
	return le.render.Render(ctx, render.Templates{
		TextPath: r.TextTemplatePath,
		HTMLPath: r.HTMLTemplatePath,
		Text:     r.TextTemplate,
		HTML:     r.HTMLTemplate,
	}, data)
}
