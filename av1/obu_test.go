package av1

import (
	"testing"

	"github.com/ausocean/av1scan/bits"
	"github.com/ausocean/av1scan/errs"
)

type dumbLogger struct{}

func (dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dumbLogger) SetLevel(l int8)                         {}
func (dumbLogger) Debug(msg string, args ...interface{})   {}
func (dumbLogger) Info(msg string, args ...interface{})    {}
func (dumbLogger) Warning(msg string, args ...interface{}) {}
func (dumbLogger) Error(msg string, args ...interface{})   {}
func (dumbLogger) Fatal(msg string, args ...interface{})   {}

// TestObuHeaderFields checks obu_header()'s field layout: byte 0x0a
// (forbidden=0, obu_type=1 SequenceHeader, extension_flag=0, has_size=1,
// reserved=0) followed by a leb128 size of 0.
func TestObuHeaderFields(t *testing.T) {
	br := bits.NewBitReader([]byte{0x0a})
	r := newReader(br)

	forbidden := r.f(1)
	typeVal := r.f(4)
	ext := r.flag()
	hasSize := r.flag()
	r.f(1) // reserved
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
	if forbidden != 0 {
		t.Errorf("forbidden_bit = %d, want 0", forbidden)
	}
	obuType, err := newObuType(typeVal)
	if err != nil {
		t.Fatalf("newObuType(%d) error: %v", typeVal, err)
	}
	if obuType != ObuTypeSequenceHeader {
		t.Errorf("obu_type = %v, want SequenceHeader", obuType)
	}
	if ext {
		t.Errorf("extension_flag = true, want false")
	}
	if !hasSize {
		t.Errorf("has_size = false, want true")
	}

	sizeBr := bits.NewBitReader([]byte{0x00})
	size, err := sizeBr.Leb128()
	if err != nil {
		t.Fatalf("Leb128() error: %v", err)
	}
	if size != 0 {
		t.Errorf("size = %d, want 0", size)
	}
}

// TestParseOBURejectsForbiddenBit checks that a set obu_forbidden_bit
// aborts the parse as Malformed.
func TestParseOBURejectsForbiddenBit(t *testing.T) {
	// forbidden=1, type=2 (temporal delimiter), ext=0, has_size=1, reserved=0.
	br := bits.NewBitReader([]byte{0x92, 0x00})
	d := NewDecoder()
	if err := d.parseOBU(br, dumbLogger{}); err == nil {
		t.Errorf("parseOBU() with forbidden_bit set: expected error, got nil")
	}
}

// TestParseOBUTemporalDelimiter checks that a zero-size temporal delimiter
// OBU parses successfully and resets seen_frame_header.
func TestParseOBUTemporalDelimiter(t *testing.T) {
	// forbidden=0, type=2, ext=0, has_size=1, reserved=0 -> 0b00010010 = 0x12.
	br := bits.NewBitReader([]byte{0x12, 0x00})
	d := NewDecoder()
	d.seenFrameHeader = true
	if err := d.parseOBU(br, dumbLogger{}); err != nil {
		t.Fatalf("parseOBU() error: %v", err)
	}
	if d.seenFrameHeader {
		t.Errorf("seenFrameHeader = true, want false after temporal delimiter")
	}
	if br.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", br.Remaining())
	}
}

// TestParseOBURejectsReservedType checks that an obu_type outside the
// accepted value set (e.g. 9, genuinely reserved) is rejected as
// InvalidEnum.
func TestParseOBURejectsReservedType(t *testing.T) {
	// forbidden=0, type=9, ext=0, has_size=1, reserved=0 -> 0b01001010 = 0x4a.
	br := bits.NewBitReader([]byte{0x4a, 0x00})
	d := NewDecoder()
	if err := d.parseOBU(br, dumbLogger{}); err == nil {
		t.Errorf("parseOBU() with obu_type=9: expected error, got nil")
	}
}

// TestParseOBURejectsUnimplementedType checks that a defined but
// unimplemented obu_type (3, OBU_FRAME_HEADER) is rejected as
// UnsupportedObuType rather than InvalidEnum.
func TestParseOBURejectsUnimplementedType(t *testing.T) {
	// forbidden=0, type=3, ext=0, has_size=1, reserved=0 -> 0b00011010 = 0x1a.
	br := bits.NewBitReader([]byte{0x1a, 0x00})
	d := NewDecoder()
	err := d.parseOBU(br, dumbLogger{})
	if err == nil {
		t.Fatalf("parseOBU() with obu_type=3: expected error, got nil")
	}
	pe, ok := err.(*errs.Error)
	if !ok {
		t.Fatalf("error type = %T, want *errs.Error", err)
	}
	if pe.Kind != errs.UnsupportedObuType {
		t.Errorf("error kind = %v, want %v", pe.Kind, errs.UnsupportedObuType)
	}
}
