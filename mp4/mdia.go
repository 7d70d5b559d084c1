package mp4

import (
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

// Mdhd carries the media-specific timing for a track, ISO/IEC 14496-12
// §8.4.2. The packed language field is unpacked into a three-letter ISO
// 639-2/T code.
type Mdhd struct {
	Version          uint8
	Flags            [3]byte
	CreationTime     uint32
	ModificationTime uint32
	Timescale        uint32
	Duration         uint32
	Language         string
}

func parseMdhd(c *cursor) (Mdhd, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Mdhd{}, err
	}
	creationTime, err := c.u32()
	if err != nil {
		return Mdhd{}, err
	}
	modTime, err := c.u32()
	if err != nil {
		return Mdhd{}, err
	}
	timescale, err := c.u32()
	if err != nil {
		return Mdhd{}, err
	}
	duration, err := c.u32()
	if err != nil {
		return Mdhd{}, err
	}
	packedLang, err := c.u16()
	if err != nil {
		return Mdhd{}, err
	}
	lang := make([]byte, 3)
	for i := 2; i >= 0; i-- {
		lang[i] = byte((packedLang>>(uint(2-i)*5))&0x1f) | 0x60
	}
	predefined, err := c.u16()
	if err != nil {
		return Mdhd{}, err
	}
	if predefined != 0 {
		return Mdhd{}, errs.New(errs.Malformed, "mdhd", c.pos, nil, "pre_defined must be 0, got %d", predefined)
	}
	return Mdhd{
		Version:          version,
		Flags:            flags,
		CreationTime:     creationTime,
		ModificationTime: modTime,
		Timescale:        timescale,
		Duration:         duration,
		Language:         string(lang),
	}, nil
}

// Hdlr declares the media handler type, ISO/IEC 14496-12 §8.4.3.
type Hdlr struct {
	Version     uint8
	Flags       [3]byte
	HandlerType string
	Name        string
}

func parseHdlr(c *cursor) (Hdlr, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Hdlr{}, err
	}
	predefined, err := c.u32()
	if err != nil {
		return Hdlr{}, err
	}
	if predefined != 0 {
		return Hdlr{}, errs.New(errs.Malformed, "hdlr", c.pos, nil, "pre_defined must be 0, got %d", predefined)
	}
	handlerType, err := c.fourCC()
	if err != nil {
		return Hdlr{}, err
	}
	reserved, err := c.readN(12)
	if err != nil {
		return Hdlr{}, err
	}
	for _, b := range reserved {
		if b != 0 {
			return Hdlr{}, errs.New(errs.Malformed, "hdlr", c.pos, nil, "reserved bytes must be 0")
		}
	}
	name, err := c.cString()
	if err != nil {
		return Hdlr{}, err
	}
	return Hdlr{Version: version, Flags: flags, HandlerType: handlerType, Name: name}, nil
}

// Mdia is the container for all media-specific information, ISO/IEC
// 14496-12 §8.4.1.
type Mdia struct {
	Mdhd Mdhd
	Hdlr Hdlr
	Minf Minf
}

func parseMdia(c *cursor, hdr boxHeader, log logging.Logger) (Mdia, error) {
	var (
		mdhd    *Mdhd
		hdlr    *Hdlr
		minf    *Minf
		gotMdhd bool
		gotHdlr bool
	)
	end := hdr.start + int(hdr.size)
	for c.pos < end {
		child, err := c.readBoxHeader()
		if err != nil {
			return Mdia{}, err
		}
		switch child.typ {
		case "mdhd":
			m, err := parseMdhd(c)
			if err != nil {
				return Mdia{}, err
			}
			mdhd, gotMdhd = &m, true
		case "hdlr":
			h, err := parseHdlr(c)
			if err != nil {
				return Mdia{}, err
			}
			hdlr, gotHdlr = &h, true
		case "minf":
			m, err := parseMinf(c, child, log)
			if err != nil {
				return Mdia{}, err
			}
			minf = &m
		default:
			return Mdia{}, errs.New(errs.UnsupportedFourCC, "mdia", child.start, nil, "box type %q not implemented", child.typ)
		}
		if c.pos != child.start+int(child.size) {
			return Mdia{}, errs.New(errs.Malformed, "mdia", c.pos, nil, "child box %q did not consume its declared size", child.typ)
		}
	}
	if !gotMdhd {
		return Mdia{}, errs.New(errs.Malformed, "mdia", hdr.start, nil, "no mdhd found")
	}
	if !gotHdlr {
		return Mdia{}, errs.New(errs.Malformed, "mdia", hdr.start, nil, "no hdlr found")
	}
	if minf == nil {
		return Mdia{}, errs.New(errs.Malformed, "mdia", hdr.start, nil, "no minf found")
	}
	return Mdia{Mdhd: *mdhd, Hdlr: *hdlr, Minf: *minf}, nil
}
