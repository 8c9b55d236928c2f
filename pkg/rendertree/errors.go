package rendertree

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the builder contract violation.
type ErrorCode uint8

const (
	ErrUnbalancedStructure      ErrorCode = iota + 1 // Close with no matching open
	ErrMismatchedCloseType                           // Close kind differs from the open kind
	ErrIllegalAttributePosition                      // Attribute not preceded by element/component
	ErrWrongFrameKind                                // Frame of the wrong variant for the operation
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrUnbalancedStructure:
		return "UnbalancedStructure"
	case ErrMismatchedCloseType:
		return "MismatchedCloseType"
	case ErrIllegalAttributePosition:
		return "IllegalAttributePosition"
	case ErrWrongFrameKind:
		return "WrongFrameKind"
	default:
		return "Unknown"
	}
}

// BuildError reports a violation of the builder's calling contract.
// These indicate a defect in generated component code or its caller, not
// a recoverable runtime condition: the current render pass is dead and
// the builder should be cleared or discarded.
type BuildError struct {
	// Code classifies the violation.
	Code ErrorCode

	// Op is the builder operation that failed, e.g. "CloseElement".
	Op string

	// Want lists the frame kinds that would have been legal: the
	// expected open kind for MismatchedCloseType, the legal predecessor
	// kinds for IllegalAttributePosition, or the required frame kind
	// for WrongFrameKind.
	Want []FrameKind

	// Got is the kind actually found. KindNone means the buffer or the
	// open stack was empty.
	Got FrameKind
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	switch e.Code {
	case ErrUnbalancedStructure:
		return fmt.Sprintf("rendertree: %s: no open frame to close", e.Op)
	case ErrMismatchedCloseType:
		return fmt.Sprintf("rendertree: %s: open frame is %s, want %s",
			e.Op, e.Got, kindList(e.Want))
	case ErrIllegalAttributePosition:
		return fmt.Sprintf("rendertree: %s: attribute must follow %s, found %s",
			e.Op, kindList(e.Want), e.Got)
	case ErrWrongFrameKind:
		return fmt.Sprintf("rendertree: %s: frame is %s, want %s",
			e.Op, e.Got, kindList(e.Want))
	default:
		return fmt.Sprintf("rendertree: %s: contract violation", e.Op)
	}
}

// Is reports whether target is a *BuildError with the same code, so
// callers can match with errors.Is against a code-only template.
func (e *BuildError) Is(target error) bool {
	t, ok := target.(*BuildError)
	return ok && t.Code == e.Code
}

func kindList(kinds []FrameKind) string {
	if len(kinds) == 0 {
		return "nothing"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}
