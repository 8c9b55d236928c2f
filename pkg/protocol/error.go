package protocol

// ErrorCode identifies a wire-level error reported to the peer.
type ErrorCode uint16

const (
	ErrUnknown       ErrorCode = 0x0000 // Unknown error
	ErrInvalidPacket ErrorCode = 0x0001 // Malformed packet
	ErrRenderFailed  ErrorCode = 0x0002 // Render pass failed on the server
	ErrServerError   ErrorCode = 0x0100 // Internal server error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrUnknown:
		return "Unknown"
	case ErrInvalidPacket:
		return "InvalidPacket"
	case ErrRenderFailed:
		return "RenderFailed"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is the payload of a PacketError.
type ErrorMessage struct {
	Code    ErrorCode // Error code
	Message string    // Human-readable message
	Fatal   bool      // If true, the connection should be closed
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	out := make([]byte, e.Len())
	copy(out, e.Bytes())
	return out
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	hi, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	lo, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	msg, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	return &ErrorMessage{
		Code:    ErrorCode(uint16(hi)<<8 | uint16(lo)),
		Message: msg,
		Fatal:   fatal,
	}, nil
}
