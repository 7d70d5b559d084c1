/*
DESCRIPTION
  cursor.go provides the positional byte cursor shared by every box parser
  in this package, along with the fixed-point and box-header helpers used
  throughout the ISOBMFF box tree.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mp4

import (
	"encoding/binary"

	"github.com/ausocean/av1scan/errs"
)

// cursor is a positional reader over the immutable file buffer, used by
// every box parser to read fields and track the current offset.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) readN(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, errs.New(errs.Io, "mp4", c.pos, nil, "short read: need %d bytes, have %d", n, len(c.buf)-c.pos)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) skip(n int) error {
	_, err := c.readN(n)
	return err
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) i16() (int16, error) {
	v, err := c.u16()
	return int16(v), err
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) i32() (int32, error) {
	v, err := c.u32()
	return int32(v), err
}

func (c *cursor) fourCC() (string, error) {
	b, err := c.readN(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// versionFlags reads the common 1-byte version + 3-byte flags prefix of a
// full box.
func (c *cursor) versionFlags() (uint8, [3]byte, error) {
	version, err := c.u8()
	if err != nil {
		return 0, [3]byte{}, err
	}
	b, err := c.readN(3)
	if err != nil {
		return 0, [3]byte{}, err
	}
	var flags [3]byte
	copy(flags[:], b)
	return version, flags, nil
}

// cString reads bytes up to and including a terminating NUL and returns
// them as a string without the terminator.
func (c *cursor) cString() (string, error) {
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != 0 {
		c.pos++
	}
	if c.pos >= len(c.buf) {
		return "", errs.New(errs.Malformed, "mp4", start, nil, "unterminated string")
	}
	s := string(c.buf[start:c.pos])
	c.pos++ // consume the NUL.
	return s, nil
}

// boxHeader is the 8-byte size+type prefix common to every box.
type boxHeader struct {
	start int
	size  uint32
	typ   string
}

// readBoxHeader reads a box's size and four-character type at the cursor's
// current position.
func (c *cursor) readBoxHeader() (boxHeader, error) {
	start := c.pos
	size, err := c.u32()
	if err != nil {
		return boxHeader{}, err
	}
	typ, err := c.fourCC()
	if err != nil {
		return boxHeader{}, err
	}
	return boxHeader{start: start, size: size, typ: typ}, nil
}

// fixed16dot16 converts a 16.16 fixed-point value (as used by rate/width/height
// fields) to a float64.
func fixed16dot16(v uint32) float64 {
	return float64(v) / 65536.0
}

// fixed8dot8 converts an 8.8 fixed-point value (as used by the volume
// field) to a float64.
func fixed8dot8(v uint16) float64 {
	return float64(v) / 256.0
}
