package rendertree

// frameArena is index-addressable growable storage for frames. Its only
// mutation primitives are append and replace-at-index, which is exactly
// what the builder's back-patch step needs. Reset keeps the allocated
// capacity so a builder can be reused across render passes without
// reallocating.
type frameArena struct {
	frames []Frame
}

// Append stores f at the end and returns its index.
func (a *frameArena) Append(f Frame) int {
	a.frames = append(a.frames, f)
	return len(a.frames) - 1
}

// Get returns the frame at index i. The index must be in range.
func (a *frameArena) Get(i int) Frame {
	return a.frames[i]
}

// Set replaces the frame at index i. The index must be in range.
func (a *frameArena) Set(i int, f Frame) {
	a.frames[i] = f
}

// Len returns the number of stored frames.
func (a *frameArena) Len() int {
	return len(a.frames)
}

// Reset empties the arena, retaining capacity.
func (a *frameArena) Reset() {
	a.frames = a.frames[:0]
}

// View returns the stored frames as a borrowed slice. The view is valid
// until the next Append, Set, or Reset.
func (a *frameArena) View() []Frame {
	return a.frames
}
