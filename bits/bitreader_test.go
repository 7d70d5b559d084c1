package bits

import "testing"

func TestF(t *testing.T) {
	// 1000 1111, 1110 0011
	r := NewBitReader([]byte{0x8f, 0xe3})
	cases := []struct {
		n    int
		want uint64
	}{
		{4, 0x8},
		{2, 0x3},
		{4, 0xf},
		{6, 0x23},
	}
	for _, c := range cases {
		got, err := r.F(c.n)
		if err != nil {
			t.Fatalf("F(%d): unexpected error: %v", c.n, err)
		}
		if got != c.want {
			t.Errorf("F(%d) = 0x%x, want 0x%x", c.n, got, c.want)
		}
	}
}

func TestSu(t *testing.T) {
	cases := []struct {
		bits byte
		want int64
	}{
		{0b1111_0000, -1}, // su(4): 1111 -> -1
		{0b1000_0000, -8}, // su(4): 1000 -> -8
		{0b0111_0000, 7},  // su(4): 0111 -> 7
	}
	for _, c := range cases {
		r := NewBitReader([]byte{c.bits})
		got, err := r.Su(4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != c.want {
			t.Errorf("Su(4) over %08b = %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestLeb128(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want uint64
	}{
		{"single byte", []byte{0x00}, 0},
		{"single byte 127", []byte{0x7f}, 127},
		{"two bytes", []byte{0x80, 0x01}, 128},
		{"two bytes 300", []byte{0xac, 0x02}, 300},
	}
	for _, c := range cases {
		r := NewBitReader(c.buf)
		got, err := r.Leb128()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s: Leb128() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestLe(t *testing.T) {
	r := NewBitReader([]byte{0x01, 0x02, 0x03, 0x04})
	got, err := r.Le(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = uint64(0x04030201)
	if got != want {
		t.Errorf("Le(4) = 0x%x, want 0x%x", got, want)
	}
}

func TestByteAlign(t *testing.T) {
	r := NewBitReader([]byte{0xff, 0xff})
	if _, err := r.F(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.ByteAlign()
	if !r.ByteAligned() {
		t.Errorf("expected byte aligned after ByteAlign()")
	}
	if r.PositionBits() != 8 {
		t.Errorf("PositionBits() = %d, want 8", r.PositionBits())
	}
	if r.PositionBytes() != 1 {
		t.Errorf("PositionBytes() = %d, want 1", r.PositionBytes())
	}
}

func TestEndOfStream(t *testing.T) {
	r := NewBitReader([]byte{0xff})
	if _, err := r.F(9); err != ErrEndOfStream {
		t.Errorf("F(9) over 1 byte: err = %v, want ErrEndOfStream", err)
	}
}

func TestSkip(t *testing.T) {
	r := NewBitReader([]byte{0xff, 0xff})
	if err := r.Skip(12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PositionBits() != 12 {
		t.Errorf("PositionBits() = %d, want 12", r.PositionBits())
	}
	if err := r.Skip(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
	if err := r.Skip(1); err != ErrEndOfStream {
		t.Errorf("Skip past end: err = %v, want ErrEndOfStream", err)
	}
}
