package ivf

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dumbLogger) SetLevel(l int8)                         {}
func (dumbLogger) Debug(msg string, args ...interface{})   {}
func (dumbLogger) Info(msg string, args ...interface{})    {}
func (dumbLogger) Warning(msg string, args ...interface{}) {}
func (dumbLogger) Error(msg string, args ...interface{})   {}
func (dumbLogger) Fatal(msg string, args ...interface{})   {}

// buildHeader constructs a minimal, valid IVF header with zero frames, for
// testing the fixed-header portion of Parse in isolation.
func buildHeader(fourcc string, width, height uint16) []byte {
	b := make([]byte, 32)
	copy(b[0:4], signature)
	binary.BigEndian.PutUint16(b[4:6], 0) // version
	binary.LittleEndian.PutUint16(b[6:8], 32)
	copy(b[8:12], fourcc)
	binary.LittleEndian.PutUint16(b[12:14], width)
	binary.LittleEndian.PutUint16(b[14:16], height)
	binary.LittleEndian.PutUint32(b[16:20], 30) // denominator
	binary.LittleEndian.PutUint32(b[20:24], 1)  // numerator
	binary.LittleEndian.PutUint32(b[24:28], 0)  // num_frames
	// b[28:32] reserved, left zero.
	return b
}

func TestParseHeader(t *testing.T) {
	data := buildHeader("AV01", 640, 480)
	got, err := Parse(data, dumbLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Ivf{
		HeaderLength: 32,
		FourCC:       "AV01",
		Width:        640,
		Height:       480,
		Denominator:  30,
		Numerator:    1,
		NumFrames:    0,
		Frames:       []Frame{},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("Parse() mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestParseWithFrames(t *testing.T) {
	hdr := buildHeader("AV01", 2, 2)
	binary.LittleEndian.PutUint32(hdr[24:28], 2) // num_frames

	frame := func(ts uint64, data []byte) []byte {
		b := make([]byte, 12+len(data))
		binary.LittleEndian.PutUint32(b[0:4], uint32(len(data)))
		binary.LittleEndian.PutUint64(b[4:12], ts)
		copy(b[12:], data)
		return b
	}

	data := append(hdr, frame(0, []byte{0x0a, 0x0b})...)
	data = append(data, frame(1, []byte{0x0c})...)

	got, err := Parse(data, dumbLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(got.Frames))
	}
	if got.Frames[0].Timestamp != 0 || !cmp.Equal(got.Frames[0].Data, []byte{0x0a, 0x0b}) {
		t.Errorf("frame 0 mismatch: %+v", got.Frames[0])
	}
	if got.Frames[1].Timestamp != 1 || !cmp.Equal(got.Frames[1].Data, []byte{0x0c}) {
		t.Errorf("frame 1 mismatch: %+v", got.Frames[1])
	}
}

func TestParseBadSignature(t *testing.T) {
	data := buildHeader("AV01", 1, 1)
	data[0] = 'X'
	if _, err := Parse(data, dumbLogger{}); err == nil {
		t.Errorf("expected error for bad signature, got nil")
	}
}
