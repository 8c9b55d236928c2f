package treetest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/arbor-ui/arbor/pkg/rendertree"
)

// BuildFunc drives a builder for one render pass under test.
type BuildFunc func(b *rendertree.Builder) error

// Run executes fn against a fresh builder and returns the produced
// frames. It fails the test if fn errors or leaves containers open.
func Run(t testing.TB, fn BuildFunc) []rendertree.Frame {
	t.Helper()
	b := rendertree.NewBuilder()
	if err := fn(b); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if n := b.PendingOpens(); n != 0 {
		t.Fatalf("build left %d containers open", n)
	}
	return b.GetFrames()
}

// ExpectLen asserts the total frame count.
func ExpectLen(t testing.TB, frames []rendertree.Frame, want int) {
	t.Helper()
	if len(frames) != want {
		t.Errorf("frame count = %d, want %d\n%s", len(frames), want, dump(frames))
	}
}

// ExpectKinds asserts the kind of every frame, in buffer order.
func ExpectKinds(t testing.TB, frames []rendertree.Frame, want ...rendertree.FrameKind) {
	t.Helper()
	if len(frames) != len(want) {
		t.Errorf("frame count = %d, want %d\n%s", len(frames), len(want), dump(frames))
		return
	}
	for i, k := range want {
		if frames[i].Kind != k {
			t.Errorf("frame %d kind = %v, want %v\n%s", i, frames[i].Kind, k, dump(frames))
		}
	}
}

// ExpectSubtreeLen asserts the subtree length of the frame at index.
func ExpectSubtreeLen(t testing.TB, frames []rendertree.Frame, index, want int) {
	t.Helper()
	if index >= len(frames) {
		t.Errorf("index %d out of range (%d frames)", index, len(frames))
		return
	}
	if got := frames[index].SubtreeLength; got != want {
		t.Errorf("frame %d subtree length = %d, want %d\n%s", index, got, want, dump(frames))
	}
}

// ExpectText asserts that the frame at index is a text frame with the
// given content.
func ExpectText(t testing.TB, frames []rendertree.Frame, index int, want string) {
	t.Helper()
	if index >= len(frames) {
		t.Errorf("index %d out of range (%d frames)", index, len(frames))
		return
	}
	f := frames[index]
	if f.Kind != rendertree.KindText || f.Text != want {
		t.Errorf("frame %d = %v, want Text(%q)\n%s", index, f, want, dump(frames))
	}
}

// ExpectAttr asserts that the frame at index is a string attribute
// name=value.
func ExpectAttr(t testing.TB, frames []rendertree.Frame, index int, name, value string) {
	t.Helper()
	if index >= len(frames) {
		t.Errorf("index %d out of range (%d frames)", index, len(frames))
		return
	}
	f := frames[index]
	if f.Kind != rendertree.KindAttribute || f.Name != name ||
		f.Attr.Kind != rendertree.AttrString || f.Attr.Str != value {
		t.Errorf("frame %d = %v, want Attr(%q=%q)\n%s", index, f, name, value, dump(frames))
	}
}

// ExpectElement asserts that the frame at index is an element with the
// given tag.
func ExpectElement(t testing.TB, frames []rendertree.Frame, index int, tag string) {
	t.Helper()
	if index >= len(frames) {
		t.Errorf("index %d out of range (%d frames)", index, len(frames))
		return
	}
	f := frames[index]
	if f.Kind != rendertree.KindElement || f.Name != tag {
		t.Errorf("frame %d = %v, want Element(%q)\n%s", index, f, tag, dump(frames))
	}
}

// dump renders the sequence one frame per line for failure messages.
func dump(frames []rendertree.Frame) string {
	var sb strings.Builder
	sb.WriteString("frames:\n")
	for i, f := range frames {
		fmt.Fprintf(&sb, "  %d: %s\n", i, f)
	}
	return sb.String()
}
