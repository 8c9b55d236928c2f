package rendertree

import "fmt"

// FrameKind is the frame type discriminator.
type FrameKind uint8

const (
	KindNone      FrameKind = iota // Empty-buffer marker; never stored in a frame
	KindElement                    // <div>, <button>, etc.
	KindComponent                  // Child component reference
	KindText                       // Plain text run
	KindAttribute                  // Attribute on the preceding element/component
	KindRegion                     // Diff-scoping boundary, no rendered identity
)

// String returns the string representation of the FrameKind.
func (k FrameKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindElement:
		return "Element"
	case KindComponent:
		return "Component"
	case KindText:
		return "Text"
	case KindAttribute:
		return "Attribute"
	case KindRegion:
		return "Region"
	default:
		return "Unknown"
	}
}

// AttrValueKind discriminates the closed set of attribute value shapes.
type AttrValueKind uint8

const (
	AttrString  AttrValueKind = iota // Plain string value
	AttrHandler                      // Event handler reference
	AttrOpaque                       // Typed component property, recorded as-is
)

// String returns the string representation of the AttrValueKind.
func (k AttrValueKind) String() string {
	switch k {
	case AttrString:
		return "String"
	case AttrHandler:
		return "Handler"
	case AttrOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// AttrValue is the value carried by an attribute frame. The set of legal
// shapes is fixed: consumers dispatch on Kind rather than inspecting the
// payload dynamically.
type AttrValue struct {
	Kind    AttrValueKind
	Str     string // AttrString
	Handler any    // AttrHandler; resolved by the event dispatcher
	Opaque  any    // AttrOpaque; resolved by the component runtime
}

// StringValue wraps a plain string as an attribute value.
func StringValue(s string) AttrValue {
	return AttrValue{Kind: AttrString, Str: s}
}

// HandlerValue wraps an event handler reference as an attribute value.
func HandlerValue(h any) AttrValue {
	return AttrValue{Kind: AttrHandler, Handler: h}
}

// OpaqueValue wraps an arbitrary typed value as an attribute value.
// Used for component properties that are not string-coercible.
func OpaqueValue(v any) AttrValue {
	return AttrValue{Kind: AttrOpaque, Opaque: v}
}

// Frame is one recorded node, attribute, text run, or region marker in a
// linearized render tree. Frames are immutable once appended; the single
// exception is the Builder's back-patch of SubtreeLength when the
// opening container closes.
type Frame struct {
	// Sequence is the caller-assigned source position, consumed by the
	// diff engine to distinguish reordering from mutation. The builder
	// records it without validation.
	Sequence int

	// Kind is the variant tag.
	Kind FrameKind

	// Name is the element tag for KindElement or the attribute name for
	// KindAttribute.
	Name string

	// Text is the content for KindText.
	Text string

	// ComponentType identifies the child component type for
	// KindComponent. The renderer resolves it to a concrete component;
	// the builder only records it.
	ComponentType string

	// Attr is the value for KindAttribute.
	Attr AttrValue

	// SubtreeLength is the count of frames from this one through its
	// last descendant, inclusive. It is 1 for leaf frames, and patched
	// on close for Element, Component, and Region frames.
	SubtreeLength int
}

// ElementFrame creates an element frame. SubtreeLength is zero until the
// element's close back-patches it.
func ElementFrame(sequence int, tag string) Frame {
	return Frame{Sequence: sequence, Kind: KindElement, Name: tag}
}

// ComponentFrame creates a child-component frame. SubtreeLength is zero
// until the component's close back-patches it.
func ComponentFrame(sequence int, componentType string) Frame {
	return Frame{Sequence: sequence, Kind: KindComponent, ComponentType: componentType}
}

// TextFrame creates a text frame.
func TextFrame(sequence int, content string) Frame {
	return Frame{Sequence: sequence, Kind: KindText, Text: content, SubtreeLength: 1}
}

// AttrFrame creates an attribute frame with the given value.
func AttrFrame(sequence int, name string, value AttrValue) Frame {
	return Frame{Sequence: sequence, Kind: KindAttribute, Name: name, Attr: value, SubtreeLength: 1}
}

// StringAttrFrame creates a string-valued attribute frame.
func StringAttrFrame(sequence int, name, value string) Frame {
	return AttrFrame(sequence, name, StringValue(value))
}

// HandlerAttrFrame creates a handler-valued attribute frame.
func HandlerAttrFrame(sequence int, name string, handler any) Frame {
	return AttrFrame(sequence, name, HandlerValue(handler))
}

// OpaqueAttrFrame creates an attribute frame carrying an opaque typed
// value.
func OpaqueAttrFrame(sequence int, name string, value any) Frame {
	return AttrFrame(sequence, name, OpaqueValue(value))
}

// RegionFrame creates a region frame. SubtreeLength is zero until the
// region's close back-patches it.
func RegionFrame(sequence int) Frame {
	return Frame{Sequence: sequence, Kind: KindRegion}
}

// WithSubtreeLength returns a copy of the frame with SubtreeLength set.
func (f Frame) WithSubtreeLength(n int) Frame {
	f.SubtreeLength = n
	return f
}

// WithSequence returns a copy of the frame with Sequence set.
func (f Frame) WithSequence(sequence int) Frame {
	f.Sequence = sequence
	return f
}

// String returns a compact description of the frame for logs and test
// failures.
func (f Frame) String() string {
	switch f.Kind {
	case KindElement:
		return fmt.Sprintf("Element(%d, %q, len=%d)", f.Sequence, f.Name, f.SubtreeLength)
	case KindComponent:
		return fmt.Sprintf("Component(%d, %q, len=%d)", f.Sequence, f.ComponentType, f.SubtreeLength)
	case KindText:
		return fmt.Sprintf("Text(%d, %q)", f.Sequence, f.Text)
	case KindAttribute:
		switch f.Attr.Kind {
		case AttrString:
			return fmt.Sprintf("Attr(%d, %q=%q)", f.Sequence, f.Name, f.Attr.Str)
		case AttrHandler:
			return fmt.Sprintf("Attr(%d, %q=handler)", f.Sequence, f.Name)
		default:
			return fmt.Sprintf("Attr(%d, %q=opaque)", f.Sequence, f.Name)
		}
	case KindRegion:
		return fmt.Sprintf("Region(%d, len=%d)", f.Sequence, f.SubtreeLength)
	default:
		return fmt.Sprintf("Frame(%d, kind=%d)", f.Sequence, f.Kind)
	}
}
