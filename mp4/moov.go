package mp4

import (
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

// Mvhd carries the movie-wide timing and presentation parameters from the
// Movie Header Box, ISO/IEC 14496-12 §8.2.2. Only the fields this parser's
// callers need are retained; the remainder of the box (reserved fields,
// the unity transform matrix, predefined fields, next_track_ID) is skipped.
type Mvhd struct {
	Version   uint8
	Timescale uint32
	Duration  uint32
	Rate      float64
	Volume    float64
}

func parseMvhd(c *cursor, hdr boxHeader) (Mvhd, error) {
	version, err := c.u8()
	if err != nil {
		return Mvhd{}, err
	}
	// flags(3) + creation_time(4) + modification_time(4).
	if err := c.skip(11); err != nil {
		return Mvhd{}, err
	}
	timescale, err := c.u32()
	if err != nil {
		return Mvhd{}, err
	}
	duration, err := c.u32()
	if err != nil {
		return Mvhd{}, err
	}
	rate, err := c.u32()
	if err != nil {
		return Mvhd{}, err
	}
	volume, err := c.u16()
	if err != nil {
		return Mvhd{}, err
	}

	end := hdr.start + int(hdr.size)
	if end < c.pos {
		return Mvhd{}, errs.New(errs.Malformed, "mvhd", c.pos, nil, "box size %d too small", hdr.size)
	}
	if err := c.skip(end - c.pos); err != nil {
		return Mvhd{}, err
	}

	return Mvhd{
		Version:   version,
		Timescale: timescale,
		Duration:  duration,
		Rate:      fixed16dot16(rate),
		Volume:    fixed8dot8(volume),
	}, nil
}

// Moov is the top-level container for movie metadata, ISO/IEC 14496-12
// §8.2.1. At least one Trak is required.
type Moov struct {
	Mvhd  Mvhd
	Traks []Trak
	Udta  *Udta
}

func parseMoov(c *cursor, hdr boxHeader, log logging.Logger) (Moov, error) {
	var (
		mvhd    *Mvhd
		traks   []Trak
		udta    *Udta
		gotMvhd bool
	)
	end := hdr.start + int(hdr.size)
	for c.pos < end {
		child, err := c.readBoxHeader()
		if err != nil {
			return Moov{}, err
		}
		switch child.typ {
		case "mvhd":
			m, err := parseMvhd(c, child)
			if err != nil {
				return Moov{}, err
			}
			mvhd, gotMvhd = &m, true
		case "trak":
			t, err := parseTrak(c, child, log)
			if err != nil {
				return Moov{}, err
			}
			traks = append(traks, t)
		case "udta":
			u, err := parseUdta(c, child)
			if err != nil {
				return Moov{}, err
			}
			udta = &u
		default:
			return Moov{}, errs.New(errs.UnsupportedFourCC, "moov", child.start, nil, "box type %q not implemented", child.typ)
		}
		if c.pos != child.start+int(child.size) {
			return Moov{}, errs.New(errs.Malformed, "moov", c.pos, nil, "child box %q did not consume its declared size", child.typ)
		}
	}
	if !gotMvhd {
		return Moov{}, errs.New(errs.Malformed, "moov", hdr.start, nil, "no mvhd found")
	}
	if len(traks) == 0 {
		return Moov{}, errs.New(errs.Malformed, "moov", hdr.start, nil, "at least one trak required in moov")
	}
	log.Debug("mp4: parsed moov", "traks", len(traks))
	return Moov{Mvhd: *mvhd, Traks: traks, Udta: udta}, nil
}
