/*
DESCRIPTION
  ivf.go parses the IVF container format: a "DKIF" signature followed by a
  fixed header and a sequence of length-prefixed, timestamped frames.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ivf parses the IVF container format used to wrap raw VP8/VP9/AV1
// frame data.
package ivf

import (
	"encoding/binary"

	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

const (
	signature   = "DKIF"
	headerBytes = 32
)

// Frame is one timestamped, length-prefixed payload from the IVF frame
// list.
type Frame struct {
	Timestamp uint64
	Data      []byte
}

// Ivf is a fully parsed IVF file.
type Ivf struct {
	HeaderLength uint16
	FourCC       string
	Width        uint16
	Height       uint16
	Denominator  uint32
	Numerator    uint32
	NumFrames    uint32
	Frames       []Frame
}

// cursor is a small positional reader over an immutable byte buffer,
// mirroring the role of Rust's Cursor<Vec<u8>> in the original decoder.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) readN(n int) ([]byte, error) {
	if c.pos+n > len(c.buf) {
		return nil, errs.New(errs.Io, "ivf", c.pos, nil, "short read: need %d bytes, have %d", n, len(c.buf)-c.pos)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u16be() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) u16le() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32le() (uint32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64le() (uint64, error) {
	b, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Parse reads an IVF file from data and returns its header and frame list.
// log receives a Debug line on success and an Error line before a failed
// read of the signature, a frame length or frame data, or a bad signature,
// version or fourcc, is returned; the other short reads (the version and
// remaining header fields, frame timestamps) are returned without a log
// line.
func Parse(data []byte, log logging.Logger) (*Ivf, error) {
	c := &cursor{buf: data}

	sig, err := c.readN(4)
	if err != nil {
		log.Error("ivf: failed reading signature", "error", err)
		return nil, err
	}
	if string(sig) != signature {
		err := errs.New(errs.Malformed, "ivf", 0, nil, "bad signature %q, want %q", sig, signature)
		log.Error("ivf: bad signature", "error", err)
		return nil, err
	}

	version, err := c.u16be()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		err := errs.New(errs.UnsupportedFormat, "ivf", c.pos-2, nil, "unsupported IVF version %d", version)
		log.Error("ivf: unsupported version", "error", err)
		return nil, err
	}

	f := &Ivf{}
	if f.HeaderLength, err = c.u16le(); err != nil {
		return nil, err
	}
	fourcc, err := c.readN(4)
	if err != nil {
		return nil, err
	}
	f.FourCC = string(fourcc)
	if f.FourCC != "AV01" {
		err := errs.New(errs.UnsupportedFourCC, "ivf", c.pos-4, nil, "unsupported fourcc %q, want %q", f.FourCC, "AV01")
		log.Error("ivf: unsupported fourcc", "error", err)
		return nil, err
	}
	if f.Width, err = c.u16le(); err != nil {
		return nil, err
	}
	if f.Height, err = c.u16le(); err != nil {
		return nil, err
	}
	if f.Denominator, err = c.u32le(); err != nil {
		return nil, err
	}
	if f.Numerator, err = c.u32le(); err != nil {
		return nil, err
	}
	if f.NumFrames, err = c.u32le(); err != nil {
		return nil, err
	}
	// 4 reserved bytes follow num_frames and are deliberately skipped.
	if _, err := c.readN(4); err != nil {
		return nil, err
	}

	f.Frames = make([]Frame, 0, f.NumFrames)
	for i := uint32(0); i < f.NumFrames; i++ {
		frameLen, err := c.u32le()
		if err != nil {
			log.Error("ivf: failed reading frame length", "frame", i, "error", err)
			return nil, err
		}
		ts, err := c.u64le()
		if err != nil {
			return nil, err
		}
		fd, err := c.readN(int(frameLen))
		if err != nil {
			log.Error("ivf: failed reading frame data", "frame", i, "error", err)
			return nil, err
		}
		f.Frames = append(f.Frames, Frame{Timestamp: ts, Data: fd})
	}

	log.Debug("ivf: parsed file", "fourcc", f.FourCC, "width", f.Width, "height", f.Height, "numFrames", f.NumFrames)
	return f, nil
}
