// Package middleware provides render-pass observability for Arbor.
//
// A PassObserver is notified around every render pass the server runs.
// Two implementations ship here: Prometheus metrics and OpenTelemetry
// tracing. Both are configured with functional options and can be
// combined with Multi.
package middleware

import (
	"context"
	"errors"

	"github.com/arbor-ui/arbor/pkg/rendertree"
)

// PassStats describes a finished render pass.
type PassStats struct {
	// Frames is the number of frames the pass produced.
	Frames int

	// Err is the pass failure, nil on success. Builder contract
	// violations arrive as *rendertree.BuildError.
	Err error
}

// EndPass finalizes observation of one render pass. It must be called
// exactly once.
type EndPass func(stats PassStats)

// PassObserver observes render passes. BeginPass is called before the
// pass runs with the name of the root being rendered; the returned
// context is threaded into the pass so observers can propagate trace
// state.
type PassObserver interface {
	BeginPass(ctx context.Context, root string) (context.Context, EndPass)
}

// Nop returns an observer that does nothing.
func Nop() PassObserver {
	return nopObserver{}
}

type nopObserver struct{}

func (nopObserver) BeginPass(ctx context.Context, root string) (context.Context, EndPass) {
	return ctx, func(PassStats) {}
}

// Multi combines observers; BeginPass and EndPass run in argument
// order.
func Multi(observers ...PassObserver) PassObserver {
	return multiObserver(observers)
}

type multiObserver []PassObserver

func (m multiObserver) BeginPass(ctx context.Context, root string) (context.Context, EndPass) {
	ends := make([]EndPass, len(m))
	for i, o := range m {
		ctx, ends[i] = o.BeginPass(ctx, root)
	}
	return ctx, func(stats PassStats) {
		for _, end := range ends {
			end(stats)
		}
	}
}

// errorCodeLabel returns the metric/trace label for a pass error:
// the BuildError code name for contract violations, "other" for
// anything else, empty for success.
func errorCodeLabel(err error) string {
	if err == nil {
		return ""
	}
	var be *rendertree.BuildError
	if errors.As(err, &be) {
		return be.Code.String()
	}
	return "other"
}
