package seeder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixture is a YAML description of a catalog, an entity hierarchy,
// subscriptions and events. Objects reference each other by name; entities,
// which have no unique name, by their fixture key.
type Fixture struct {
	EntityKinds     []KindFixture           `yaml:"entity_kinds"`
	Entities        []EntityFixture         `yaml:"entities"`
	SourceGroups    []SourceGroupFixture    `yaml:"source_groups"`
	Sources         []SourceFixture         `yaml:"sources"`
	RenderingStyles []StyleFixture          `yaml:"rendering_styles"`
	Mediums         []MediumFixture         `yaml:"mediums"`
	Renderers       []RendererFixture       `yaml:"renderers"`
	Subscriptions   []SubscriptionFixture   `yaml:"subscriptions"`
	Unsubscriptions []UnsubscriptionFixture `yaml:"unsubscriptions"`
	Events          []EventFixture          `yaml:"events"`
}

type KindFixture struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
}

// EntityFixture places an entity under the entities named in Super, which
// must appear earlier in the fixture.
type EntityFixture struct {
	Key         string         `yaml:"key"`
	Kind        string         `yaml:"kind"`
	DisplayName string         `yaml:"display_name"`
	Meta        map[string]any `yaml:"meta"`
	Inactive    bool           `yaml:"inactive"`
	Super       []string       `yaml:"super"`
}

type SourceGroupFixture struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
}

type SourceFixture struct {
	Name          string `yaml:"name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	Group         string `yaml:"group"`
	ContextLoader string `yaml:"context_loader"`
}

type StyleFixture struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
}

type MediumFixture struct {
	Name              string         `yaml:"name"`
	DisplayName       string         `yaml:"display_name"`
	Description       string         `yaml:"description"`
	RenderingStyle    string         `yaml:"rendering_style"`
	AdditionalContext map[string]any `yaml:"additional_context"`
}

// RendererFixture targets either Source or SourceGroup.
type RendererFixture struct {
	Name             string                 `yaml:"name"`
	RenderingStyle   string                 `yaml:"rendering_style"`
	Source           string                 `yaml:"source"`
	SourceGroup      string                 `yaml:"source_group"`
	TextTemplatePath string                 `yaml:"text_template_path"`
	HTMLTemplatePath string                 `yaml:"html_template_path"`
	TextTemplate     string                 `yaml:"text_template"`
	HTMLTemplate     string                 `yaml:"html_template"`
	ContextHints     map[string]HintFixture `yaml:"context_hints"`
}

type HintFixture struct {
	Kind    string   `yaml:"kind"`
	Preload []string `yaml:"preload"`
}

// SubscriptionFixture subscribes Entity itself, or with SubEntityKind its
// descendants of that kind. OnlyFollowing defaults to true.
type SubscriptionFixture struct {
	Medium        string `yaml:"medium"`
	Source        string `yaml:"source"`
	Entity        string `yaml:"entity"`
	SubEntityKind string `yaml:"sub_entity_kind"`
	OnlyFollowing *bool  `yaml:"only_following"`
}

type UnsubscriptionFixture struct {
	Entity string `yaml:"entity"`
	Medium string `yaml:"medium"`
	Source string `yaml:"source"`
}

// EventFixture describes one event. Actors are entity keys. Context values
// that are entity keys prefixed with "@" are replaced by the entity ID.
type EventFixture struct {
	Source    string         `yaml:"source"`
	UUID      string         `yaml:"uuid"`
	Context   map[string]any `yaml:"context"`
	Actors    []string       `yaml:"actors"`
	CreatedAt *time.Time     `yaml:"created_at"`
	ExpiresAt *time.Time     `yaml:"expires_at"`
}

// ParseFixture decodes a fixture. Unknown keys are rejected.
func ParseFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture reads and decodes the fixture file at path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(bytes.NewReader(data))
}
