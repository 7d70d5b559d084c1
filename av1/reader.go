package av1

import "github.com/ausocean/av1scan/bits"

// reader wraps a bits.BitReader with a sticky error: once a read fails,
// every subsequent read is a no-op returning the zero value, so a long
// chain of syntax-element reads can be written without checking an error
// after every call. Callers check r.err once, at the point a value it
// depends on is about to be used.
type reader struct {
	br  *bits.BitReader
	err error
}

func newReader(br *bits.BitReader) *reader {
	return &reader{br: br}
}

// f reads n bits per the AV1 f(n) descriptor.
func (r *reader) f(n int) uint64 {
	if r.err != nil {
		return 0
	}
	var v uint64
	v, r.err = r.br.F(n)
	return v
}

// flag reads a single bit as a bool.
func (r *reader) flag() bool {
	return r.f(1) != 0
}

// su reads an n-bit signed-magnitude value per the AV1 su(n) descriptor.
func (r *reader) su(n int) int64 {
	if r.err != nil {
		return 0
	}
	var v int64
	v, r.err = r.br.Su(n)
	return v
}

// leb128 reads a LEB128-encoded value.
func (r *reader) leb128() uint64 {
	if r.err != nil {
		return 0
	}
	var v uint64
	v, r.err = r.br.Leb128()
	return v
}

// skip discards n bits.
func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	r.err = r.br.Skip(n)
}
