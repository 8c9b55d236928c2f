package protocol

import (
	"errors"
	"io"
)

// Packet constants.
const (
	// PacketHeaderSize is the size of the packet header in bytes.
	PacketHeaderSize = 4

	// MaxPayloadSize is the maximum payload size (2^16 - 1 bytes).
	MaxPayloadSize = 65535
)

// PacketType identifies the kind of packet on the stream.
type PacketType uint8

const (
	PacketHello      PacketType = 0x00 // Connection setup
	PacketRenderTree PacketType = 0x01 // Server → Client frame sequence
	PacketControl    PacketType = 0x02 // Control messages (refresh, ping)
	PacketError      PacketType = 0x03 // Error message
)

// String returns the string representation of the packet type.
func (pt PacketType) String() string {
	switch pt {
	case PacketHello:
		return "Hello"
	case PacketRenderTree:
		return "RenderTree"
	case PacketControl:
		return "Control"
	case PacketError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PacketFlags are optional flags for packet processing.
type PacketFlags uint8

const (
	FlagCompressed PacketFlags = 0x01 // Payload is compressed
	FlagFinal      PacketFlags = 0x02 // Last packet in a batch
)

// Has reports whether the flags contain flag.
func (pf PacketFlags) Has(flag PacketFlags) bool {
	return pf&flag != 0
}

// Packet errors.
var ErrPacketTooLarge = errors.New("protocol: packet payload too large")

// Packet is one transport unit: a 4-byte header (type, flags, length)
// followed by the payload.
type Packet struct {
	Type    PacketType
	Flags   PacketFlags
	Payload []byte
}

// NewPacket creates a packet with the given type and payload.
func NewPacket(pt PacketType, payload []byte) *Packet {
	return &Packet{Type: pt, Payload: payload}
}

// Encode encodes the packet, header included.
func (p *Packet) Encode() []byte {
	length := len(p.Payload)
	buf := make([]byte, PacketHeaderSize+length)
	buf[0] = byte(p.Type)
	buf[1] = byte(p.Flags)
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[PacketHeaderSize:], p.Payload)
	return buf
}

// DecodePacket decodes a packet from data, which must contain the full
// header and payload.
func DecodePacket(data []byte) (*Packet, error) {
	if len(data) < PacketHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	length := int(data[2])<<8 | int(data[3])
	if len(data) < PacketHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, length)
	copy(payload, data[PacketHeaderSize:PacketHeaderSize+length])
	return &Packet{
		Type:    PacketType(data[0]),
		Flags:   PacketFlags(data[1]),
		Payload: payload,
	}, nil
}

// ReadPacket reads one complete packet from r.
func ReadPacket(r io.Reader) (*Packet, error) {
	header := make([]byte, PacketHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	length := int(header[2])<<8 | int(header[3])
	if length > MaxPayloadSize {
		return nil, ErrPacketTooLarge
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Packet{
		Type:    PacketType(header[0]),
		Flags:   PacketFlags(header[1]),
		Payload: payload,
	}, nil
}

// WritePacket writes one complete packet to w.
func WritePacket(w io.Writer, p *Packet) error {
	if len(p.Payload) > MaxPayloadSize {
		return ErrPacketTooLarge
	}
	_, err := w.Write(p.Encode())
	return err
}
