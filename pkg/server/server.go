package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arbor-ui/arbor/pkg/middleware"
	"github.com/arbor-ui/arbor/pkg/rendertree"
)

// RenderFunc produces one render pass by driving the supplied builder.
// The builder arrives empty; the function must leave every container it
// opens closed. Implementations must not retain the builder or the
// frames beyond the call.
type RenderFunc func(ctx context.Context, b *rendertree.Builder) error

// Server serves registered render roots over HTTP and WebSocket.
type Server struct {
	config *Config
	logger *slog.Logger

	mu    sync.RWMutex
	roots map[string]RenderFunc

	httpServer *http.Server
}

// New creates a server. A nil config uses defaults.
func New(config *Config) *Server {
	cfg := config.withDefaults()
	return &Server{
		config: cfg,
		logger: cfg.Logger,
		roots:  make(map[string]RenderFunc),
	}
}

// Register adds a named render root. Registering the same name again
// replaces the previous function.
func (s *Server) Register(root string, fn RenderFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[root] = fn
}

// lookup returns the render function for root.
func (s *Server) lookup(root string) (RenderFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.roots[root]
	return fn, ok
}

// rootNames returns the registered root names, sorted.
func (s *Server) rootNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.roots))
	for name := range s.roots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/frames/{root}", s.handleFrames)
	r.Get("/live/{root}", s.handleLive)
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.config.Addr, "roots", s.rootNames())
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// runPass executes one observed render pass for root into b. The
// returned frames are a borrowed view into b, valid until its next use.
func (s *Server) runPass(ctx context.Context, root string, fn RenderFunc, b *rendertree.Builder) ([]rendertree.Frame, error) {
	ctx, end := s.config.Observer.BeginPass(ctx, root)

	b.Clear()
	err := fn(ctx, b)
	if err == nil && b.PendingOpens() > 0 {
		err = fmt.Errorf("render %q: %d containers left open", root, b.PendingOpens())
	}

	frames := b.GetFrames()
	end(middleware.PassStats{Frames: len(frames), Err: err})
	if err != nil {
		s.logger.Error("render pass failed", "root", root, "error", err)
		return nil, err
	}
	return frames, nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// handleFrames runs one pass and writes a plain-text dump of the frame
// sequence, indented by nesting depth. Useful for inspecting what a
// root produces without a client attached.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	root := chi.URLParam(r, "root")
	fn, ok := s.lookup(root)
	if !ok {
		http.Error(w, "unknown root: "+root, http.StatusNotFound)
		return
	}

	frames, err := s.runPass(r.Context(), root, fn, rendertree.NewBuilder())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	var sb strings.Builder
	rendertree.Walk(frames, func(index, depth int, f rendertree.Frame) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(f.String())
		sb.WriteByte('\n')
		for _, ai := range rendertree.AttributeIndices(frames, index) {
			sb.WriteString(strings.Repeat("  ", depth+1))
			sb.WriteString(frames[ai].String())
			sb.WriteByte('\n')
		}
		return true
	})
	fmt.Fprint(w, sb.String())
}
