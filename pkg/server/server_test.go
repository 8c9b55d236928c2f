package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arbor-ui/arbor/pkg/middleware"
	"github.com/arbor-ui/arbor/pkg/rendertree"
)

// counterPage renders a small fixed page.
func counterPage(ctx context.Context, b *rendertree.Builder) error {
	b.OpenElement(0, "div")
	if err := b.AddAttribute(1, "class", "counter"); err != nil {
		return err
	}
	b.AddText(2, "count: 0")
	return b.CloseElement()
}

// recordingObserver captures pass stats for assertions.
type recordingObserver struct {
	roots []string
	stats []middleware.PassStats
}

func (r *recordingObserver) BeginPass(ctx context.Context, root string) (context.Context, middleware.EndPass) {
	r.roots = append(r.roots, root)
	return ctx, func(stats middleware.PassStats) {
		r.stats = append(r.stats, stats)
	}
}

func newTestServer(obs middleware.PassObserver) *Server {
	s := New(&Config{Observer: obs})
	s.Register("home", counterPage)
	return s
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestFramesDump(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/frames/home")
	if err != nil {
		t.Fatalf("GET /frames/home: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	dump := string(body)

	if !strings.Contains(dump, `Element(0, "div", len=3)`) {
		t.Errorf("dump missing element line:\n%s", dump)
	}
	if !strings.Contains(dump, `Attr(1, "class"="counter")`) {
		t.Errorf("dump missing attribute line:\n%s", dump)
	}
	if !strings.Contains(dump, `Text(2, "count: 0")`) {
		t.Errorf("dump missing text line:\n%s", dump)
	}
}

func TestFramesUnknownRoot(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/frames/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRunPassObserved(t *testing.T) {
	obs := &recordingObserver{}
	s := newTestServer(obs)
	fn, _ := s.lookup("home")

	frames, err := s.runPass(context.Background(), "home", fn, rendertree.NewBuilder())
	if err != nil {
		t.Fatalf("runPass: %v", err)
	}
	if len(frames) != 3 {
		t.Errorf("len(frames) = %d, want 3", len(frames))
	}
	if len(obs.roots) != 1 || obs.roots[0] != "home" {
		t.Errorf("observed roots = %v, want [home]", obs.roots)
	}
	if len(obs.stats) != 1 || obs.stats[0].Frames != 3 || obs.stats[0].Err != nil {
		t.Errorf("observed stats = %+v", obs.stats)
	}
}

func TestRunPassRejectsPendingOpens(t *testing.T) {
	obs := &recordingObserver{}
	s := New(&Config{Observer: obs})
	s.Register("broken", func(ctx context.Context, b *rendertree.Builder) error {
		b.OpenElement(0, "div")
		return nil // left open
	})
	fn, _ := s.lookup("broken")

	_, err := s.runPass(context.Background(), "broken", fn, rendertree.NewBuilder())
	if err == nil {
		t.Fatal("expected error for unclosed container")
	}
	if !strings.Contains(err.Error(), "left open") {
		t.Errorf("err = %v, want mention of open containers", err)
	}
	if len(obs.stats) != 1 || obs.stats[0].Err == nil {
		t.Errorf("observer missed the failure: %+v", obs.stats)
	}
}

func TestRunPassPropagatesBuildError(t *testing.T) {
	s := New(nil)
	s.Register("bad", func(ctx context.Context, b *rendertree.Builder) error {
		return b.CloseElement()
	})
	fn, _ := s.lookup("bad")

	_, err := s.runPass(context.Background(), "bad", fn, rendertree.NewBuilder())
	var be *rendertree.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
	if be.Code != rendertree.ErrUnbalancedStructure {
		t.Errorf("Code = %v, want UnbalancedStructure", be.Code)
	}
}

func TestRegisterReplaces(t *testing.T) {
	s := New(nil)
	s.Register("home", counterPage)
	s.Register("home", func(ctx context.Context, b *rendertree.Builder) error {
		b.AddText(0, "replaced")
		return nil
	})
	fn, _ := s.lookup("home")

	frames, err := s.runPass(context.Background(), "home", fn, rendertree.NewBuilder())
	if err != nil {
		t.Fatalf("runPass: %v", err)
	}
	if len(frames) != 1 || frames[0].Text != "replaced" {
		t.Errorf("frames = %v, want single replaced text", frames)
	}
}

func TestMetricsRoute(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
