package rendertree

// Traversal helpers for consumers of a finished frame sequence. They
// reconstruct structure from buffer order plus subtree lengths alone,
// mirroring what the renderer does when it walks the buffer.

// span returns the number of frames the frame at index i covers. An
// unclosed container reports zero; treat it as covering itself so walks
// over partial buffers still terminate.
func span(frames []Frame, i int) int {
	if n := frames[i].SubtreeLength; n > 1 {
		return n
	}
	return 1
}

// SubtreeEnd returns the exclusive end index of the subtree rooted at i.
func SubtreeEnd(frames []Frame, i int) int {
	return i + span(frames, i)
}

// AttributeIndices returns the indices of the attribute frames that
// decorate the frame at index i, which are always the contiguous run
// immediately following it.
func AttributeIndices(frames []Frame, i int) []int {
	var attrs []int
	for j := i + 1; j < SubtreeEnd(frames, i) && frames[j].Kind == KindAttribute; j++ {
		attrs = append(attrs, j)
	}
	return attrs
}

// ChildIndices returns the indices of the direct children of the
// container frame at index i. Attribute frames decorate the container
// and are not children; a child's own attributes fall inside the
// child's span and are skipped with it.
func ChildIndices(frames []Frame, i int) []int {
	end := SubtreeEnd(frames, i)
	j := i + 1
	for j < end && frames[j].Kind == KindAttribute {
		j++
	}
	var children []int
	for j < end {
		children = append(children, j)
		j += span(frames, j)
	}
	return children
}

// RootIndices returns the indices of the top-level frames of the
// sequence.
func RootIndices(frames []Frame) []int {
	var roots []int
	for i := 0; i < len(frames); i += span(frames, i) {
		roots = append(roots, i)
	}
	return roots
}

// WalkFunc is called once per non-attribute frame in depth-first order.
// depth is the container nesting depth, zero for roots. Returning false
// skips the frame's descendants.
type WalkFunc func(index, depth int, f Frame) bool

// Walk visits every non-attribute frame depth-first. Attribute frames
// are reachable from their owner via AttributeIndices.
func Walk(frames []Frame, fn WalkFunc) {
	for _, i := range RootIndices(frames) {
		walkFrom(frames, i, 0, fn)
	}
}

func walkFrom(frames []Frame, i, depth int, fn WalkFunc) {
	if frames[i].Kind == KindAttribute {
		return
	}
	if !fn(i, depth, frames[i]) {
		return
	}
	for _, c := range ChildIndices(frames, i) {
		walkFrom(frames, c, depth+1, fn)
	}
}
