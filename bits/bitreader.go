/*
DESCRIPTION
  bitreader.go provides a bit reader implementation that reads from an
  in-memory, immutable byte buffer. Unlike a stream-backed reader, the
  buffer is fully materialized before parsing begins, matching how both
  ISOBMFF boxes and AV1 OBUs arrive: fully read into memory first.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a bit reader over an immutable in-memory byte
// buffer, with the primitives the AV1 bitstream syntax requires: f(n), su(n),
// le(n) and leb128().
package bits

import "github.com/pkg/errors"

// ErrEndOfStream is returned when a read runs past the end of the buffer.
var ErrEndOfStream = errors.New("bits: end of stream")

// BitReader reads bits and bytes from a fixed, immutable byte buffer.
// The zero value is not usable; construct with NewBitReader.
type BitReader struct {
	buf    []byte
	bitPos int // absolute bit offset from the start of buf
}

// NewBitReader returns a BitReader over buf. buf is not copied and must not
// be modified while the reader is in use.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf}
}

// F reads n bits (n <= 64) MSB-first and returns them as the
// least-significant bits of a uint64, per the AV1 f(n) descriptor.
func (r *BitReader) F(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, errors.Errorf("bits: invalid read width %d", n)
	}
	if r.bitPos+n > len(r.buf)*8 {
		return 0, ErrEndOfStream
	}
	var v uint64
	for i := 0; i < n; i++ {
		byteIdx := r.bitPos / 8
		bitIdx := 7 - (r.bitPos % 8)
		bit := (r.buf[byteIdx] >> uint(bitIdx)) & 1
		v = (v << 1) | uint64(bit)
		r.bitPos++
	}
	return v, nil
}

// Su reads an n-bit signed-magnitude value per the AV1 su(n) descriptor:
// f(n), with the top bit of the n-bit value itself acting as the sign; if
// set, 2^n is subtracted from the unsigned value.
func (r *BitReader) Su(n int) (int64, error) {
	v, err := r.F(n)
	if err != nil {
		return 0, err
	}
	if v>>uint(n-1)&1 == 1 {
		return int64(v) - (int64(1) << uint(n)), nil
	}
	return int64(v), nil
}

// Le reads n bytes (n <= 8) little-endian, per the AV1 le(n) descriptor.
// The reader must be byte-aligned.
func (r *BitReader) Le(n int) (uint64, error) {
	if !r.ByteAligned() {
		return 0, errors.New("bits: le(n) requires byte alignment")
	}
	var v uint64
	for i := 0; i < n; i++ {
		b, err := r.F(8)
		if err != nil {
			return 0, err
		}
		v |= b << uint(8*i)
	}
	return v, nil
}

// Leb128 reads a little-endian base-128 variable-length unsigned integer,
// per the AV1 leb128() descriptor: up to 8 groups of 7 value bits, MSB of
// each byte indicating continuation.
func (r *BitReader) Leb128() (uint64, error) {
	var v uint64
	for i := 0; i < 8; i++ {
		b, err := r.F(8)
		if err != nil {
			return 0, err
		}
		v |= (b & 0x7f) << uint(i*7)
		if b&0x80 == 0 {
			break
		}
	}
	return v, nil
}

// ByteAlign discards bits until the reader is positioned at a byte boundary.
func (r *BitReader) ByteAlign() {
	if rem := r.bitPos % 8; rem != 0 {
		r.bitPos += 8 - rem
	}
}

// ByteAligned returns true if the reader is currently positioned at a byte
// boundary.
func (r *BitReader) ByteAligned() bool {
	return r.bitPos%8 == 0
}

// PositionBits returns the current absolute bit position.
func (r *BitReader) PositionBits() int {
	return r.bitPos
}

// PositionBytes returns the current bit position rounded down to the byte,
// i.e. the number of whole bytes consumed.
func (r *BitReader) PositionBytes() int {
	return r.bitPos / 8
}

// Remaining returns the number of unread bits left in the buffer.
func (r *BitReader) Remaining() int {
	return len(r.buf)*8 - r.bitPos
}

// Skip advances the reader by n bits without returning their value, for
// consuming a payload (e.g. tile data) this parser does not interpret.
func (r *BitReader) Skip(n int) error {
	if n < 0 {
		return errors.Errorf("bits: invalid skip width %d", n)
	}
	if r.bitPos+n > len(r.buf)*8 {
		return ErrEndOfStream
	}
	r.bitPos += n
	return nil
}
