//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/entity-events/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/entity-events/internal/app"
	"github.com/heartmarshall/entity-events/internal/app/seeder"
	"github.com/heartmarshall/entity-events/internal/config"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	St     *app.Storage
	Svc    *app.Services
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	st := app.NewPostgresStorage(pool)

	cfg := &config.Config{
		Rendering:   config.RenderingConfig{DefaultStyle: "default"},
		ContextLoad: config.ContextLoadConfig{BatchCapacity: 100, Wait: time.Millisecond},
	}
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	registry, err := app.NewRegistry(st)
	require.NoError(t, err)
	svc := app.NewServices(cfg, logger, st, registry)

	srv := httptest.NewServer(app.NewHandler(logger, st, svc))
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		St:     st,
		Svc:    svc,
	}
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func (ts *testServer) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	return ts.do(t, http.MethodGet, path, nil)
}

func (ts *testServer) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	return ts.do(t, http.MethodPost, path, body)
}

// eventList extracts the "events" array of a response.
func eventList(t *testing.T, result map[string]any) []map[string]any {
	t.Helper()
	raw, ok := result["events"].([]any)
	require.True(t, ok, "expected events array in %v", result)

	out := make([]map[string]any, len(raw))
	for i, v := range raw {
		out[i], ok = v.(map[string]any)
		require.True(t, ok)
	}
	return out
}

func uuids(events []map[string]any) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i], _ = e["uuid"].(string)
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixtures.
// ---------------------------------------------------------------------------

// orgFixture is a small organization: org > team > {ann, bo}. The feed
// medium delivers comments to every person of org except bo, who
// unsubscribed. Every catalog name carries %[1]s so tests can share one
// database.
const orgFixture = `
entity_kinds:
  - name: team-%[1]s
  - name: person-%[1]s
entities:
  - {key: org, kind: team-%[1]s, display_name: Org}
  - {key: team, kind: team-%[1]s, display_name: Team, super: [org]}
  - {key: ann, kind: person-%[1]s, display_name: Ann, super: [team]}
  - {key: bo, kind: person-%[1]s, display_name: Bo, super: [team]}
source_groups:
  - name: comms-%[1]s
sources:
  - {name: comments-%[1]s, group: comms-%[1]s}
rendering_styles:
  - name: web-%[1]s
mediums:
  - name: feed-%[1]s
    rendering_style: web-%[1]s
    additional_context: {site: example.org}
renderers:
  - name: comment-%[1]s
    rendering_style: web-%[1]s
    source: comments-%[1]s
    text_template: "{{.author.display_name}}: {{.body}}"
    html_template: "<b>{{.author.display_name}}</b> {{.body}} @ {{.site}}"
    context_hints:
      author: {kind: entity}
subscriptions:
  - medium: feed-%[1]s
    source: comments-%[1]s
    entity: org
    sub_entity_kind: person-%[1]s
    only_following: false
unsubscriptions:
  - {medium: feed-%[1]s, source: comments-%[1]s, entity: bo}
events:
  - source: comments-%[1]s
    uuid: c1-%[1]s
    actors: [ann]
    created_at: 2014-01-16T10:00:00Z
    context: {author: "@ann", body: hello}
  - source: comments-%[1]s
    uuid: c2-%[1]s
    actors: [bo]
    created_at: 2014-01-16T11:00:00Z
    context: {author: "@bo", body: hi}
`

type org struct {
	suffix   string
	medium   string
	sourceID int64
	ann, bo  int64
	pipeline *seeder.Pipeline
}

func (o org) uuid(n int) string {
	return fmt.Sprintf("c%d-%s", n, o.suffix)
}

// seedOrg loads orgFixture through the catalog and event services.
func seedOrg(t *testing.T, ts *testServer) org {
	t.Helper()

	suffix := strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	f, err := seeder.ParseFixture(strings.NewReader(fmt.Sprintf(orgFixture, suffix)))
	require.NoError(t, err)

	ctx := context.Background()
	p := seeder.NewPipeline(slog.New(slog.DiscardHandler), ts.Svc.Catalog, ts.Svc.Events)
	require.NoError(t, p.Run(ctx, f))

	src, err := ts.St.Catalog.GetSourceByName(ctx, "comments-"+suffix)
	require.NoError(t, err)

	o := org{suffix: suffix, medium: "feed-" + suffix, sourceID: src.ID, pipeline: p}
	var ok bool
	o.ann, ok = p.EntityID("ann")
	require.True(t, ok)
	o.bo, ok = p.EntityID("bo")
	require.True(t, ok)
	return o
}
