package protocol

import "fmt"

// ControlType identifies a control message inside a PacketControl.
type ControlType uint8

const (
	ControlPing    ControlType = 0x01 // Liveness probe, carries a timestamp
	ControlPong    ControlType = 0x02 // Ping response, echoes the timestamp
	ControlRefresh ControlType = 0x03 // Client requests a fresh render pass
	ControlClose   ControlType = 0x04 // Orderly shutdown, carries a reason
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlRefresh:
		return "Refresh"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// ControlMessage is the payload of a PacketControl.
type ControlMessage struct {
	Type      ControlType
	Timestamp uint64 // Ping/Pong
	Reason    string // Close
}

// EncodeControl encodes a control message to bytes.
func EncodeControl(cm *ControlMessage) []byte {
	e := NewEncoder()
	e.WriteByte(byte(cm.Type))
	switch cm.Type {
	case ControlPing, ControlPong:
		e.WriteUvarint(cm.Timestamp)
	case ControlClose:
		e.WriteString(cm.Reason)
	}
	out := make([]byte, e.Len())
	copy(out, e.Bytes())
	return out
}

// DecodeControl decodes a control message from bytes.
func DecodeControl(data []byte) (*ControlMessage, error) {
	d := NewDecoder(data)
	b, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	cm := &ControlMessage{Type: ControlType(b)}
	switch cm.Type {
	case ControlPing, ControlPong:
		if cm.Timestamp, err = d.ReadUvarint(); err != nil {
			return nil, err
		}
	case ControlRefresh:
		// No payload.
	case ControlClose:
		if cm.Reason, err = d.ReadString(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("protocol: unknown control type %d", b)
	}
	return cm, nil
}
