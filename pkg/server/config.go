package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arbor-ui/arbor/pkg/middleware"
)

// Config configures the server.
type Config struct {
	// Addr is the listen address (default ":8420").
	Addr string

	// ReadBufferSize is the WebSocket read buffer size in bytes.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size in bytes.
	WriteBufferSize int

	// CheckOrigin validates the Origin header on WebSocket upgrades.
	// The default accepts same-host origins only.
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds each WebSocket write.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Observer is notified around every render pass. Defaults to
	// middleware.Nop().
	Observer middleware.PassObserver
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8420",
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     sameHostOrigin,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Logger:          slog.Default(),
		Observer:        middleware.Nop(),
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	d := DefaultConfig()
	out := *c
	if out.Addr == "" {
		out.Addr = d.Addr
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.Logger == nil {
		out.Logger = d.Logger
	}
	if out.Observer == nil {
		out.Observer = d.Observer
	}
	return &out
}

// sameHostOrigin accepts requests with no Origin header or an Origin
// matching the request host.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
