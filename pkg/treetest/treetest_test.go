package treetest

import (
	"testing"

	"github.com/arbor-ui/arbor/pkg/rendertree"
)

func TestRunAndAssert(t *testing.T) {
	frames := Run(t, func(b *rendertree.Builder) error {
		b.OpenElement(0, "div")
		if err := b.AddAttribute(1, "class", "card"); err != nil {
			return err
		}
		b.AddText(2, "hello")
		return b.CloseElement()
	})

	ExpectLen(t, frames, 3)
	ExpectKinds(t, frames, rendertree.KindElement, rendertree.KindAttribute, rendertree.KindText)
	ExpectSubtreeLen(t, frames, 0, 3)
	ExpectElement(t, frames, 0, "div")
	ExpectAttr(t, frames, 1, "class", "card")
	ExpectText(t, frames, 2, "hello")
}

func TestRunFailsOnBuildError(t *testing.T) {
	rec := &recorder{}
	Run(rec, func(b *rendertree.Builder) error {
		return b.CloseElement()
	})
	if !rec.fatal {
		t.Error("Run should fail the test when the build errors")
	}
}

func TestRunFailsOnPendingOpens(t *testing.T) {
	rec := &recorder{}
	Run(rec, func(b *rendertree.Builder) error {
		b.OpenElement(0, "div")
		return nil
	})
	if !rec.fatal {
		t.Error("Run should fail the test when containers stay open")
	}
}

func TestExpectReportsMismatch(t *testing.T) {
	frames := Run(t, func(b *rendertree.Builder) error {
		b.AddText(0, "x")
		return nil
	})

	rec := &recorder{}
	ExpectLen(rec, frames, 2)
	ExpectText(rec, frames, 0, "y")
	ExpectElement(rec, frames, 5, "div")
	if rec.errors != 3 {
		t.Errorf("recorded %d errors, want 3", rec.errors)
	}
}

// recorder is a minimal testing.TB that counts failures instead of
// stopping the test.
type recorder struct {
	testing.TB
	fatal  bool
	errors int
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.fatal = true
}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors++
}
