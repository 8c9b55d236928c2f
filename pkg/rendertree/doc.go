// Package rendertree provides the linearized render-tree representation
// used by Arbor.
//
// A render pass records a depth-first traversal of a component's output
// into a single flat buffer of Frames: elements, child components, text
// runs, attributes, and diff-scoping regions. The flat form is the
// contract between generated component code and the renderer: there are
// no tree pointers, and no intermediate tree is allocated. A consumer
// reconstructs parent/child/sibling relationships purely from buffer
// order plus each container's subtree length.
//
// # Core Types
//
// Frame is the tagged union for one recorded node. Builder is the
// single-writer accumulator that generated code drives with Open*/Add*/
// Close* calls in traversal order:
//
//	b := rendertree.NewBuilder()
//	b.OpenElement(0, "ul")
//	b.OpenElement(1, "li")
//	b.AddAttribute(2, "class", "item")
//	b.AddText(3, "A")
//	b.CloseElement()
//	b.CloseElement()
//	frames := b.GetFrames()
//
// # Subtree Lengths
//
// When a container closes, the Builder back-patches the container's
// SubtreeLength to the count of frames from the container through its
// last descendant, inclusive. The renderer skips or recurses using only
// that length; Walk and ChildIndices in this package implement the same
// arithmetic for in-process consumers.
//
// # Contract Violations
//
// Unbalanced or mistyped closes and misplaced attributes are caller
// defects, not runtime conditions. They surface immediately as a
// *BuildError carrying an ErrorCode; a failed operation never partially
// mutates the buffer.
package rendertree
