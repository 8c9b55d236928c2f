package rendertree

import "fmt"

// DefaultFrameCapacity is the initial frame capacity of a new builder.
const DefaultFrameCapacity = 64

// openFrame records one currently-open container on the builder's stack.
// Storing the kind alongside the index lets a close call detect that it
// was paired with an open of a different variant.
type openFrame struct {
	index int
	kind  FrameKind
}

// Builder accumulates a linearized render tree from a single depth-first
// traversal. Generated component code drives it with Open*/Add*/Close*
// calls in traversal order; GetFrames exposes the finished sequence to
// the renderer.
//
// A Builder is single-writer and non-reentrant: one render pass must run
// to completion before another uses the instance, and concurrent passes
// need separate instances. Callers thread the builder explicitly into
// every render invocation; there is no ambient current-builder slot.
type Builder struct {
	entries     frameArena
	openStack   []openFrame
	lastNonAttr FrameKind // KindNone when the buffer is empty or cleared
}

// NewBuilder creates a builder with the default initial capacity.
func NewBuilder() *Builder {
	return NewBuilderWithCap(DefaultFrameCapacity)
}

// NewBuilderWithCap creates a builder pre-sized for the given number of
// frames.
func NewBuilderWithCap(n int) *Builder {
	return &Builder{
		entries: frameArena{frames: make([]Frame, 0, n)},
	}
}

// OpenElement appends an element frame and marks it open. Its
// SubtreeLength is back-patched by the matching CloseElement.
func (b *Builder) OpenElement(sequence int, tag string) {
	b.open(ElementFrame(sequence, tag))
}

// CloseElement closes the most recently opened container, which must be
// an element.
func (b *Builder) CloseElement() error {
	return b.close("CloseElement", KindElement)
}

// OpenComponent appends a child-component frame and marks it open.
// componentType is recorded as-is; resolving it to a concrete component
// is the renderer's concern.
func (b *Builder) OpenComponent(sequence int, componentType string) {
	b.open(ComponentFrame(sequence, componentType))
}

// CloseComponent closes the most recently opened container, which must
// be a component.
func (b *Builder) CloseComponent() error {
	return b.close("CloseComponent", KindComponent)
}

// OpenRegion appends a region frame and marks it open. Regions scope
// diff granularity for the reconciler and have no rendered identity.
func (b *Builder) OpenRegion(sequence int) {
	b.open(RegionFrame(sequence))
}

// CloseRegion closes the most recently opened container, which must be
// a region.
func (b *Builder) CloseRegion() error {
	return b.close("CloseRegion", KindRegion)
}

// AddText appends a text frame. The zero value renders as an empty text
// run, so absent content needs no special casing.
func (b *Builder) AddText(sequence int, content string) {
	b.append(TextFrame(sequence, content))
}

// AddAttribute appends a string-valued attribute for the nearest
// preceding element or component.
func (b *Builder) AddAttribute(sequence int, name, value string) error {
	if err := b.checkAttrPosition("AddAttribute"); err != nil {
		return err
	}
	b.append(StringAttrFrame(sequence, name, value))
	return nil
}

// AddHandlerAttribute appends an event-handler attribute for the nearest
// preceding element or component.
func (b *Builder) AddHandlerAttribute(sequence int, name string, handler any) error {
	if err := b.checkAttrPosition("AddHandlerAttribute"); err != nil {
		return err
	}
	b.append(HandlerAttrFrame(sequence, name, handler))
	return nil
}

// AddDynamicAttribute appends an attribute whose value shape is inferred
// from the owning frame: on an element the value is coerced to its
// textual form; on a component it is attached as an opaque typed
// property. Any other owner is an illegal attribute position.
func (b *Builder) AddDynamicAttribute(sequence int, name string, value any) error {
	switch b.lastNonAttr {
	case KindElement:
		b.append(StringAttrFrame(sequence, name, coerceString(value)))
		return nil
	case KindComponent:
		b.append(OpaqueAttrFrame(sequence, name, value))
		return nil
	default:
		return &BuildError{
			Code: ErrIllegalAttributePosition,
			Op:   "AddDynamicAttribute",
			Want: []FrameKind{KindElement, KindComponent},
			Got:  b.lastNonAttr,
		}
	}
}

// AddAttributeFrame re-stamps an independently constructed attribute
// frame with the given sequence number and appends it. The frame must
// already be an attribute.
func (b *Builder) AddAttributeFrame(sequence int, frame Frame) error {
	if frame.Kind != KindAttribute {
		return &BuildError{
			Code: ErrWrongFrameKind,
			Op:   "AddAttributeFrame",
			Want: []FrameKind{KindAttribute},
			Got:  frame.Kind,
		}
	}
	if err := b.checkAttrPosition("AddAttributeFrame"); err != nil {
		return err
	}
	b.append(frame.WithSequence(sequence))
	return nil
}

// Clear empties the builder for reuse, retaining allocated capacity.
// After Clear the builder behaves identically to a fresh instance.
func (b *Builder) Clear() {
	b.entries.Reset()
	b.openStack = b.openStack[:0]
	b.lastNonAttr = KindNone
}

// GetFrames returns the accumulated frames in buffer order. The slice is
// a borrowed view into the builder's storage: it is valid until the next
// mutating call or Clear, and callers must not modify or retain it
// across either.
func (b *Builder) GetFrames() []Frame {
	return b.entries.View()
}

// Len returns the number of frames appended so far.
func (b *Builder) Len() int {
	return b.entries.Len()
}

// PendingOpens returns the number of containers opened but not yet
// closed. A completed render pass must end at zero.
func (b *Builder) PendingOpens() int {
	return len(b.openStack)
}

// open pushes the current buffer position and appends the container
// frame. Opens cannot fail; imbalance is detected at close.
func (b *Builder) open(f Frame) {
	b.openStack = append(b.openStack, openFrame{index: b.entries.Len(), kind: f.Kind})
	b.append(f)
}

// close validates the top of the open stack before mutating anything, so
// a failed close leaves the builder untouched.
func (b *Builder) close(op string, kind FrameKind) error {
	if len(b.openStack) == 0 {
		return &BuildError{Code: ErrUnbalancedStructure, Op: op}
	}
	top := b.openStack[len(b.openStack)-1]
	if top.kind != kind {
		return &BuildError{
			Code: ErrMismatchedCloseType,
			Op:   op,
			Want: []FrameKind{kind},
			Got:  top.kind,
		}
	}
	b.openStack = b.openStack[:len(b.openStack)-1]
	opened := b.entries.Get(top.index)
	b.entries.Set(top.index, opened.WithSubtreeLength(b.entries.Len()-top.index))
	return nil
}

// checkAttrPosition enforces the attribute placement rule: the nearest
// preceding non-attribute frame must be an element or component.
func (b *Builder) checkAttrPosition(op string) error {
	if b.lastNonAttr == KindElement || b.lastNonAttr == KindComponent {
		return nil
	}
	return &BuildError{
		Code: ErrIllegalAttributePosition,
		Op:   op,
		Want: []FrameKind{KindElement, KindComponent},
		Got:  b.lastNonAttr,
	}
}

// append is the single funnel for all public appends. Attribute frames
// never update the tracker, so a run of attributes still validates
// against the frame that owns it.
func (b *Builder) append(f Frame) {
	b.entries.Append(f)
	if f.Kind != KindAttribute {
		b.lastNonAttr = f.Kind
	}
}

// coerceString converts a dynamic attribute value to its textual form.
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
