// Package treetest provides testing helpers for code that drives a
// rendertree.Builder.
//
// The package reduces boilerplate when testing generated render
// functions: Run executes a build function against a fresh builder and
// fails the test on any contract violation or unclosed container, and
// the Expect helpers assert on the produced frame sequence.
//
// # Quick Start
//
//	func TestCard(t *testing.T) {
//	    frames := treetest.Run(t, func(b *rendertree.Builder) error {
//	        b.OpenElement(0, "div")
//	        if err := b.AddAttribute(1, "class", "card"); err != nil {
//	            return err
//	        }
//	        b.AddText(2, "hello")
//	        return b.CloseElement()
//	    })
//	    treetest.ExpectLen(t, frames, 3)
//	    treetest.ExpectSubtreeLen(t, frames, 0, 3)
//	    treetest.ExpectAttr(t, frames, 1, "class", "card")
//	}
package treetest
