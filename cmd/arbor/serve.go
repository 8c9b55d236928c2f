package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbor-ui/arbor/internal/config"
	"github.com/arbor-ui/arbor/pkg/middleware"
	"github.com/arbor-ui/arbor/pkg/rendertree"
	"github.com/arbor-ui/arbor/pkg/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo render server",
		Long: `Serve the built-in demo roots over HTTP and WebSocket.

Configuration is read from arbor.json when present; the --addr flag
overrides the configured listen address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			}))
			slog.SetDefault(logger)

			var observers []middleware.PassObserver
			if cfg.Metrics.Enabled {
				observers = append(observers, middleware.Prometheus(
					middleware.WithNamespace(cfg.Metrics.Namespace),
				))
			}
			if cfg.Tracing.Enabled {
				var opts []middleware.OTelOption
				if cfg.Tracing.TracerName != "" {
					opts = append(opts, middleware.WithTracerName(cfg.Tracing.TracerName))
				}
				observers = append(observers, middleware.OTel(opts...))
			}

			srv := server.New(&server.Config{
				Addr:     cfg.Addr,
				Logger:   logger,
				Observer: middleware.Multi(observers...),
			})
			srv.Register("home", homePage)
			srv.Register("clock", clockPage)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides arbor.json)")

	return cmd
}

// homePage is a demo root showing nested elements, attributes, a child
// component, and a region.
func homePage(ctx context.Context, b *rendertree.Builder) error {
	b.OpenElement(0, "div")
	if err := b.AddAttribute(1, "class", "page"); err != nil {
		return err
	}
	b.OpenElement(2, "h1")
	b.AddText(3, "Arbor demo")
	if err := b.CloseElement(); err != nil {
		return err
	}
	b.OpenComponent(4, "demo.Nav")
	if err := b.AddDynamicAttribute(5, "Links", []string{"home", "clock"}); err != nil {
		return err
	}
	if err := b.CloseComponent(); err != nil {
		return err
	}
	b.OpenRegion(6)
	b.AddText(7, "refresh to re-render")
	if err := b.CloseRegion(); err != nil {
		return err
	}
	return b.CloseElement()
}

// clockPage re-renders to the current time on every pass.
func clockPage(ctx context.Context, b *rendertree.Builder) error {
	b.OpenElement(0, "time")
	if err := b.AddAttribute(1, "class", "clock"); err != nil {
		return err
	}
	b.AddText(2, time.Now().Format(time.RFC3339))
	return b.CloseElement()
}
