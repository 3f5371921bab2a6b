package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opensynth/internal/api"
	"opensynth/internal/config"
	"opensynth/internal/logging"
	"opensynth/internal/render"
	"opensynth/internal/testsupport"
	"opensynth/internal/viewer"
)

type stubDrawer struct{}

func (stubDrawer) Draw(_ context.Context, notation string, target render.Target, _ render.Theme) error {
	if notation == "X" {
		return &render.RenderError{Notation: notation, Message: "unparsable"}
	}
	_, err := fmt.Fprintf(target.Out, "<svg>%s</svg>", notation)
	return err
}

func seedData(t *testing.T, cfg *config.Config) {
	t.Helper()
	root := cfg.Paths.DataDir
	testsupport.WriteRecord(t, root, "data/s.json", "Strychnine", 3)
	testsupport.WriteRecord(t, root, "data/e.json", "Empty", 0)
	testsupport.WriteIndex(t, root, cfg.Paths.IndexFile,
		testsupport.Entry{ID: "strych", MoleculeName: "Strychnine", Author: "Woodward", Path: "data/s.json", StepCount: testsupport.Count(3)},
		testsupport.Entry{ID: "empty", MoleculeName: "Empty", Author: "Nobody", Path: "data/e.json", StepCount: testsupport.Count(0)},
		testsupport.Entry{ID: "ghost", MoleculeName: "Ghost", Author: "Nobody", Path: "data/ghost.json"},
	)
}

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*httptest.Server, *Daemon) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	seedData(t, cfg)
	d, err := New(context.Background(), cfg, logging.NewNop(),
		WithRenderer(api.NewRendererWith(stubDrawer{}, cfg, logging.NewNop())))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	srv := httptest.NewServer(d.server.server.Handler)
	t.Cleanup(srv.Close)
	return srv, d
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestListSyntheses(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp api.SynthesisListResponse
	if code := do(t, srv, http.MethodGet, "/api/syntheses", "", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Total != 3 || len(resp.Items) != 3 {
		t.Fatalf("unexpected listing: %+v", resp)
	}

	resp = api.SynthesisListResponse{}
	do(t, srv, http.MethodGet, "/api/syntheses?q=wood&min_steps=1", "", &resp)
	if len(resp.Items) != 1 || resp.Items[0].ID != "strych" {
		t.Fatalf("unexpected filtered listing: %+v", resp.Items)
	}

	if code := do(t, srv, http.MethodGet, "/api/syntheses?min_steps=abc", "", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad min_steps, got %d", code)
	}
}

func TestRefreshSynthesesReloadsCachedIndex(t *testing.T) {
	srv, d := newTestServer(t, testsupport.WithIndexTTL(3600))

	var resp api.SynthesisListResponse
	do(t, srv, http.MethodGet, "/api/syntheses", "", &resp)
	if resp.Total != 3 {
		t.Fatalf("expected 3 entries, got %+v", resp)
	}

	testsupport.WriteIndex(t, d.cfg.Paths.DataDir, d.cfg.Paths.IndexFile,
		testsupport.Entry{ID: "strych", MoleculeName: "Strychnine", Path: "data/s.json"},
	)
	resp = api.SynthesisListResponse{}
	do(t, srv, http.MethodGet, "/api/syntheses", "", &resp)
	if resp.Total != 3 {
		t.Fatalf("cached index should still list 3 entries, got %d", resp.Total)
	}

	resp = api.SynthesisListResponse{}
	if code := do(t, srv, http.MethodPost, "/api/syntheses/refresh", "", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Total != 1 || resp.Items[0].ID != "strych" {
		t.Fatalf("unexpected listing after refresh: %+v", resp)
	}
}

func TestGetSynthesis(t *testing.T) {
	srv, _ := newTestServer(t)

	var detail api.SynthesisDetail
	if code := do(t, srv, http.MethodGet, "/api/syntheses/strych", "", &detail); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(detail.Sequence) != 3 || detail.Meta.MoleculeName != "Strychnine" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	for _, id := range []string{"unknown", "ghost"} {
		if code := do(t, srv, http.MethodGet, "/api/syntheses/"+id, "", nil); code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", id, code)
		}
	}
}

func TestViewLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	var created api.ViewResponse
	if code := do(t, srv, http.MethodPost, "/api/views", `{"id":"strych"}`, &created); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	view := created.View
	if view.State != viewer.StateReady || view.Total != 3 || view.CanPrev {
		t.Fatalf("unexpected view: %+v", view)
	}
	base := "/api/views/" + view.ViewID

	var resp api.ViewResponse
	do(t, srv, http.MethodPost, base+"/reveal/product", "", &resp)
	if len(resp.View.Revealed) != 1 {
		t.Fatalf("expected one reveal, got %+v", resp.View.Revealed)
	}
	if code := do(t, srv, http.MethodPost, base+"/reveal/bogus", "", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", code)
	}

	resp = api.ViewResponse{}
	do(t, srv, http.MethodPost, base+"/next", "", &resp)
	if resp.View.Position != 1 || len(resp.View.Revealed) != 0 {
		t.Fatalf("unexpected after next: %+v", resp.View)
	}

	resp = api.ViewResponse{}
	do(t, srv, http.MethodPost, base+"/open", `{"id":"empty"}`, &resp)
	if resp.View.State != viewer.StateEmpty {
		t.Fatalf("expected empty state, got %q", resp.View.State)
	}
	if code := do(t, srv, http.MethodPost, base+"/next", "", nil); code != http.StatusConflict {
		t.Fatalf("expected 409 on empty view, got %d", code)
	}

	resp = api.ViewResponse{}
	do(t, srv, http.MethodPost, base+"/open", `{"id":"ghost"}`, &resp)
	if resp.View.State != viewer.StateNotFound {
		t.Fatalf("expected not_found state, got %q", resp.View.State)
	}

	if code := do(t, srv, http.MethodDelete, base, "", nil); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if code := do(t, srv, http.MethodGet, base, "", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
}

func TestQuizSettingsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var settings api.QuizSettings
	do(t, srv, http.MethodGet, "/api/quiz/settings", "", &settings)
	if len(settings.Hidden) != 5 {
		t.Fatalf("expected every category hidden by default, got %v", settings.Hidden)
	}

	settings = api.QuizSettings{}
	do(t, srv, http.MethodPost, "/api/quiz/settings/notes/toggle", "", &settings)
	if settings.Settings["notes"] {
		t.Fatalf("notes should be visible after toggle: %+v", settings)
	}

	settings = api.QuizSettings{}
	do(t, srv, http.MethodPost, "/api/quiz/settings/reset", "", &settings)
	if !settings.Settings["notes"] {
		t.Fatalf("reset should hide notes again: %+v", settings)
	}
}

func TestRenderEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp api.RenderResponse
	if code := do(t, srv, http.MethodGet, "/api/render?notation=CCO.X", "", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(resp.Panels) != 2 {
		t.Fatalf("expected two panels, got %+v", resp.Panels)
	}
	if resp.Panels[0].Diagram != "<svg>CCO</svg>" || resp.Panels[1].Error == "" {
		t.Fatalf("unexpected panels: %+v", resp.Panels)
	}
	if code := do(t, srv, http.MethodGet, "/api/render", "", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without notation, got %d", code)
	}
}

func TestAuthAndCorrelation(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithAPIToken("secret"))

	if code := do(t, srv, http.MethodGet, "/api/syntheses", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/syntheses", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set(CorrelationHeader, "abc-123")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get(CorrelationHeader); got != "abc-123" {
		t.Fatalf("correlation id not echoed: %q", got)
	}
}
