package domain

// SourceGroup is a coarse grouping of sources that can share rendering
// configuration.
type SourceGroup struct {
	ID          int64
	Name        string
	DisplayName string
	Description string
}

// Source is a named category of events.
type Source struct {
	ID          int64
	Name        string
	DisplayName string
	Description string
	GroupID     int64
	// ContextLoader names a registered loader applied to event contexts after
	// hydration. Empty means none.
	ContextLoader string
}

// RenderingStyle selects which context renderer applies for a medium.
type RenderingStyle struct {
	ID          int64
	Name        string
	DisplayName string
}

// Medium is a notification channel that consumes events.
type Medium struct {
	ID               int64
	Name             string
	DisplayName      string
	Description      string
	RenderingStyleID *int64
	// AdditionalContext is merged into every event context at render time.
	// Its keys override the event's own.
	AdditionalContext map[string]any
}

// ContextHint marks a context key as a reference to objects of Kind.
// Preload lists related data the fetcher should hydrate along the way.
type ContextHint struct {
	Kind    string   `json:"kind"`
	Preload []string `json:"preload,omitempty"`
}

// ContextHints maps a context key to its hint.
type ContextHints map[string]ContextHint

// ContextRenderer binds a source or a source group, for one rendering style,
// to a pair of templates and the hints needed to hydrate their context.
// Exactly one of SourceID and SourceGroupID is set.
type ContextRenderer struct {
	ID               int64
	Name             string
	TextTemplatePath string
	HTMLTemplatePath string
	TextTemplate     string
	HTMLTemplate     string
	RenderingStyleID int64
	SourceID         *int64
	SourceGroupID    *int64
	ContextHints     ContextHints
}
