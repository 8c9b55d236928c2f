package protocol

import (
	"errors"
	"fmt"

	"github.com/arbor-ui/arbor/pkg/rendertree"
)

// Frame codec errors.
var (
	ErrUnknownFrameKind = errors.New("protocol: unknown frame kind")
	ErrUnknownAttrKind  = errors.New("protocol: unknown attribute value kind")
)

// EncodeFrames encodes a finished frame sequence into e.
//
// Per-frame layout: kind byte, sequence svarint, subtree-length uvarint,
// then a kind-specific payload. Handler and opaque attribute values do
// not travel: the client only needs the value kind to render a marker,
// and the real values stay on the server. Subtree lengths travel so the
// client walks the buffer with the same arithmetic as the server.
func EncodeFrames(e *Encoder, frames []rendertree.Frame) error {
	e.WriteUvarint(uint64(len(frames)))
	for _, f := range frames {
		e.WriteByte(byte(f.Kind))
		e.WriteSvarint(int64(f.Sequence))
		e.WriteUvarint(uint64(f.SubtreeLength))

		switch f.Kind {
		case rendertree.KindElement:
			e.WriteString(f.Name)
		case rendertree.KindComponent:
			e.WriteString(f.ComponentType)
		case rendertree.KindText:
			e.WriteString(f.Text)
		case rendertree.KindAttribute:
			e.WriteString(f.Name)
			e.WriteByte(byte(f.Attr.Kind))
			switch f.Attr.Kind {
			case rendertree.AttrString:
				e.WriteString(f.Attr.Str)
			case rendertree.AttrHandler, rendertree.AttrOpaque:
				// Marker only.
			default:
				return fmt.Errorf("%w: %d", ErrUnknownAttrKind, f.Attr.Kind)
			}
		case rendertree.KindRegion:
			// Kind, sequence, and length say it all.
		default:
			return fmt.Errorf("%w: %d", ErrUnknownFrameKind, f.Kind)
		}
	}
	return nil
}

// DecodeFrames decodes a frame sequence produced by EncodeFrames.
// Handler and opaque attribute values come back as kind markers with
// nil payloads.
func DecodeFrames(d *Decoder) ([]rendertree.Frame, error) {
	count, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	frames := make([]rendertree.Frame, 0, count)
	for i := 0; i < count; i++ {
		kind, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		seq, err := d.ReadSvarint()
		if err != nil {
			return nil, err
		}
		length, err := d.ReadUvarint()
		if err != nil {
			return nil, err
		}

		f := rendertree.Frame{
			Kind:          rendertree.FrameKind(kind),
			Sequence:      int(seq),
			SubtreeLength: int(length),
		}

		switch f.Kind {
		case rendertree.KindElement:
			if f.Name, err = d.ReadString(); err != nil {
				return nil, err
			}
		case rendertree.KindComponent:
			if f.ComponentType, err = d.ReadString(); err != nil {
				return nil, err
			}
		case rendertree.KindText:
			if f.Text, err = d.ReadString(); err != nil {
				return nil, err
			}
		case rendertree.KindAttribute:
			if f.Name, err = d.ReadString(); err != nil {
				return nil, err
			}
			ak, err := d.ReadByte()
			if err != nil {
				return nil, err
			}
			switch rendertree.AttrValueKind(ak) {
			case rendertree.AttrString:
				s, err := d.ReadString()
				if err != nil {
					return nil, err
				}
				f.Attr = rendertree.StringValue(s)
			case rendertree.AttrHandler:
				f.Attr = rendertree.AttrValue{Kind: rendertree.AttrHandler}
			case rendertree.AttrOpaque:
				f.Attr = rendertree.AttrValue{Kind: rendertree.AttrOpaque}
			default:
				return nil, fmt.Errorf("%w: %d", ErrUnknownAttrKind, ak)
			}
		case rendertree.KindRegion:
			// No payload.
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownFrameKind, kind)
		}

		frames = append(frames, f)
	}
	return frames, nil
}

// EncodeRenderTreePacket encodes frames into a ready-to-send
// PacketRenderTree. A sequence whose encoding exceeds MaxPayloadSize
// is rejected with ErrPacketTooLarge: the 2-byte length header cannot
// represent it, and an unchecked Encode would wrap the length and
// truncate the stream on the client.
// TODO: chunk oversized sequences across packets using FlagFinal.
func EncodeRenderTreePacket(frames []rendertree.Frame) (*Packet, error) {
	e := NewEncoderWithCap(16 * len(frames))
	if err := EncodeFrames(e, frames); err != nil {
		return nil, err
	}
	if e.Len() > MaxPayloadSize {
		return nil, ErrPacketTooLarge
	}
	payload := make([]byte, e.Len())
	copy(payload, e.Bytes())
	return NewPacket(PacketRenderTree, payload), nil
}
