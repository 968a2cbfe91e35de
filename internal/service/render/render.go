// Package render executes the text and HTML templates of context renderers.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"strings"
	"sync"
	texttemplate "text/template"
)

// ErrNoTemplateDir is returned when a template path is used but the engine
// was built without a template directory.
var ErrNoTemplateDir = errors.New("render: no template directory configured")

// Templates selects the templates of one renderer. A path takes priority
// over the inline template of the same channel; a channel with neither
// renders to "".
type Templates struct {
	TextPath string
	HTMLPath string
	Text     string
	HTML     string
}

// Output holds both rendered channels, whitespace-trimmed.
type Output struct {
	Text string
	HTML string
}

type template interface {
	Execute(w io.Writer, data any) error
}

// Engine renders templates read from an fs.FS or given inline. Parsed
// templates are cached for the lifetime of the engine. Safe for concurrent use.
type Engine struct {
	fsys fs.FS

	mu   sync.RWMutex
	text map[string]template
	html map[string]template
}

// NewEngine creates an Engine resolving template paths in fsys. fsys may be
// nil when only inline templates are used.
func NewEngine(fsys fs.FS) *Engine {
	return &Engine{
		fsys: fsys,
		text: make(map[string]template),
		html: make(map[string]template),
	}
}

// Render executes both channels of t against data.
func (e *Engine) Render(ctx context.Context, t Templates, data map[string]any) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	text, err := e.execute(e.text, parseText, t.TextPath, t.Text, data)
	if err != nil {
		return Output{}, err
	}
	html, err := e.execute(e.html, parseHTML, t.HTMLPath, t.HTML, data)
	if err != nil {
		return Output{}, err
	}
	return Output{Text: text, HTML: html}, nil
}

func parseText(name, src string) (template, error) {
	return texttemplate.New(name).Parse(src)
}

func parseHTML(name, src string) (template, error) {
	return htmltemplate.New(name).Parse(src)
}

func (e *Engine) execute(
	cache map[string]template,
	parse func(name, src string) (template, error),
	path, inline string,
	data map[string]any,
) (string, error) {
	var key string
	switch {
	case path != "":
		key = "path:" + path
	case strings.TrimSpace(inline) != "":
		key = "inline:" + inline
	default:
		return "", nil
	}

	e.mu.RLock()
	tmpl, ok := cache[key]
	e.mu.RUnlock()

	if !ok {
		src := inline
		if path != "" {
			if e.fsys == nil {
				return "", fmt.Errorf("template %s: %w", path, ErrNoTemplateDir)
			}
			b, err := fs.ReadFile(e.fsys, path)
			if err != nil {
				return "", fmt.Errorf("read template %s: %w", path, err)
			}
			src = string(b)
		}

		var err error
		tmpl, err = parse(key, src)
		if err != nil {
			return "", fmt.Errorf("parse template %s: %w", key, err)
		}
		e.mu.Lock()
		cache[key] = tmpl
		e.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", key, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
