package protocol

import (
	"errors"
	"io"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1, 1 << 63, ^uint64(0)}
	e := NewEncoder()
	for _, v := range values {
		e.WriteUvarint(v)
	}
	d := NewDecoder(e.Bytes())
	for _, want := range values {
		got, err := d.ReadUvarint()
		if err != nil {
			t.Fatalf("ReadUvarint: %v", err)
		}
		if got != want {
			t.Errorf("ReadUvarint = %d, want %d", got, want)
		}
	}
	if !d.EOF() {
		t.Errorf("Remaining() = %d, want 0", d.Remaining())
	}
}

func TestSvarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 63, -64, 1 << 40, -(1 << 40)}
	e := NewEncoder()
	for _, v := range values {
		e.WriteSvarint(v)
	}
	d := NewDecoder(e.Bytes())
	for _, want := range values {
		got, err := d.ReadSvarint()
		if err != nil {
			t.Fatalf("ReadSvarint: %v", err)
		}
		if got != want {
			t.Errorf("ReadSvarint = %d, want %d", got, want)
		}
	}
}

func TestSmallNegativesStaySmall(t *testing.T) {
	e := NewEncoder()
	e.WriteSvarint(-1)
	if e.Len() != 1 {
		t.Errorf("encoded -1 in %d bytes, want 1", e.Len())
	}
}

func TestStringRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteString("héllo")
	e.WriteString("")
	d := NewDecoder(e.Bytes())
	if s, err := d.ReadString(); err != nil || s != "héllo" {
		t.Errorf("ReadString = %q, %v", s, err)
	}
	if s, err := d.ReadString(); err != nil || s != "" {
		t.Errorf("ReadString = %q, %v, want empty", s, err)
	}
}

func TestBoolStrictness(t *testing.T) {
	d := NewDecoder([]byte{0x00, 0x01, 0x02})
	if v, err := d.ReadBool(); err != nil || v {
		t.Errorf("ReadBool = %v, %v, want false", v, err)
	}
	if v, err := d.ReadBool(); err != nil || !v {
		t.Errorf("ReadBool = %v, %v, want true", v, err)
	}
	if _, err := d.ReadBool(); !errors.Is(err, ErrInvalidBool) {
		t.Errorf("err = %v, want ErrInvalidBool", err)
	}
}

func TestVarintOverflow(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0xFF
	}
	if _, err := NewDecoder(buf).ReadUvarint(); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("err = %v, want ErrVarintOverflow", err)
	}
}

func TestIncompleteVarint(t *testing.T) {
	if _, err := NewDecoder([]byte{0x80}).ReadUvarint(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestOversizedStringRejected(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(MaxAllocation + 1)
	if _, err := NewDecoder(e.Bytes()).ReadString(); !errors.Is(err, ErrAllocationTooLarge) {
		t.Errorf("err = %v, want ErrAllocationTooLarge", err)
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.WriteString("data")
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", e.Len())
	}
	e.WriteByte(0x7F)
	if len(e.Bytes()) != 1 || e.Bytes()[0] != 0x7F {
		t.Errorf("Bytes() = %v, want [7f]", e.Bytes())
	}
}
