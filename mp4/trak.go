package mp4

import (
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

// Tkhd carries per-track characteristics from the Track Header Box,
// ISO/IEC 14496-12 §8.3.2.
type Tkhd struct {
	Version          uint8
	Flags            [3]byte
	CreationTime     uint32
	ModificationTime uint32
	ID               uint32
	Duration         uint32
	Layer            uint16
	AlternateGroup   uint16
	Volume           float64
	Matrix           [9]uint32
	Width            float64
	Height           float64
}

func parseTkhd(c *cursor) (Tkhd, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Tkhd{}, err
	}
	creationTime, err := c.u32()
	if err != nil {
		return Tkhd{}, err
	}
	modTime, err := c.u32()
	if err != nil {
		return Tkhd{}, err
	}
	id, err := c.u32()
	if err != nil {
		return Tkhd{}, err
	}
	if err := c.skip(4); err != nil { // reserved
		return Tkhd{}, err
	}
	duration, err := c.u32()
	if err != nil {
		return Tkhd{}, err
	}
	layer, err := c.u16()
	if err != nil {
		return Tkhd{}, err
	}
	altGroup, err := c.u16()
	if err != nil {
		return Tkhd{}, err
	}
	volume, err := c.u16()
	if err != nil {
		return Tkhd{}, err
	}
	if err := c.skip(10); err != nil { // reserved
		return Tkhd{}, err
	}
	var matrix [9]uint32
	for i := range matrix {
		v, err := c.u32()
		if err != nil {
			return Tkhd{}, err
		}
		matrix[i] = v
	}
	width, err := c.u32()
	if err != nil {
		return Tkhd{}, err
	}
	height, err := c.u32()
	if err != nil {
		return Tkhd{}, err
	}

	return Tkhd{
		Version:          version,
		Flags:            flags,
		CreationTime:     creationTime,
		ModificationTime: modTime,
		ID:               id,
		Duration:         duration,
		Layer:            layer,
		AlternateGroup:   altGroup,
		Volume:           fixed8dot8(volume),
		Matrix:           matrix,
		Width:            fixed16dot16(width),
		Height:           fixed16dot16(height),
	}, nil
}

// ElstEntry is one edit-list entry, ISO/IEC 14496-12 §8.6.6.
type ElstEntry struct {
	SegmentDuration uint32
	MediaTime       int32
	MediaRate       int16
}

// Elst is the Edit List Box.
type Elst struct {
	Version uint8
	Flags   [3]byte
	Entries []ElstEntry
}

func parseElst(c *cursor) (Elst, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Elst{}, err
	}
	count, err := c.u32()
	if err != nil {
		return Elst{}, err
	}
	entries := make([]ElstEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		segDur, err := c.u32()
		if err != nil {
			return Elst{}, err
		}
		mediaTime, err := c.i32()
		if err != nil {
			return Elst{}, err
		}
		mediaRateInt, err := c.i16()
		if err != nil {
			return Elst{}, err
		}
		mediaRateFrac, err := c.i16()
		if err != nil {
			return Elst{}, err
		}
		if mediaRateFrac != 0 {
			return Elst{}, errs.New(errs.Malformed, "elst", c.pos, nil, "invalid media_rate_fraction %d", mediaRateFrac)
		}
		entries = append(entries, ElstEntry{SegmentDuration: segDur, MediaTime: mediaTime, MediaRate: mediaRateInt})
	}
	return Elst{Version: version, Flags: flags, Entries: entries}, nil
}

// Edts is the Edit Box: a single required Elst child.
type Edts struct {
	Elst Elst
}

func parseEdts(c *cursor, hdr boxHeader) (Edts, error) {
	child, err := c.readBoxHeader()
	if err != nil {
		return Edts{}, err
	}
	if child.typ != "elst" {
		return Edts{}, errs.New(errs.UnsupportedFourCC, "edts", child.start, nil, "box type %q not implemented", child.typ)
	}
	elst, err := parseElst(c)
	if err != nil {
		return Edts{}, err
	}
	return Edts{Elst: elst}, nil
}

// Tref is the Track Reference Box, listing IDs of tracks this track
// references, keyed by reference_type ("hint", "cdsc", etc.).
type Tref struct {
	Version       uint8
	Flags         [3]byte
	ReferenceType string
	TrackIDs      []uint32
}

func parseTref(c *cursor, hdr boxHeader) (Tref, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Tref{}, err
	}
	refType, err := c.fourCC()
	if err != nil {
		return Tref{}, err
	}
	end := hdr.start + int(hdr.size)
	n := (end - c.pos) / 4
	ids := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		id, err := c.u32()
		if err != nil {
			return Tref{}, err
		}
		ids = append(ids, id)
	}
	return Tref{Version: version, Flags: flags, ReferenceType: refType, TrackIDs: ids}, nil
}

// Trak is one track's metadata tree, ISO/IEC 14496-12 §8.3.1.
type Trak struct {
	Tkhd Tkhd
	Edts *Edts
	Tref *Tref
	Mdia Mdia
}

func parseTrak(c *cursor, hdr boxHeader, log logging.Logger) (Trak, error) {
	var (
		tkhd    *Tkhd
		edts    *Edts
		tref    *Tref
		mdia    *Mdia
		gotTkhd bool
	)
	end := hdr.start + int(hdr.size)
	for c.pos < end {
		child, err := c.readBoxHeader()
		if err != nil {
			return Trak{}, err
		}
		switch child.typ {
		case "tkhd":
			t, err := parseTkhd(c)
			if err != nil {
				return Trak{}, err
			}
			tkhd, gotTkhd = &t, true
		case "edts":
			e, err := parseEdts(c, child)
			if err != nil {
				return Trak{}, err
			}
			edts = &e
		case "tref":
			tr, err := parseTref(c, child)
			if err != nil {
				return Trak{}, err
			}
			tref = &tr
		case "mdia":
			m, err := parseMdia(c, child, log)
			if err != nil {
				return Trak{}, err
			}
			mdia = &m
		default:
			return Trak{}, errs.New(errs.UnsupportedFourCC, "trak", child.start, nil, "box type %q not implemented", child.typ)
		}
		if c.pos != child.start+int(child.size) {
			return Trak{}, errs.New(errs.Malformed, "trak", c.pos, nil, "child box %q did not consume its declared size", child.typ)
		}
	}
	if !gotTkhd {
		return Trak{}, errs.New(errs.Malformed, "trak", hdr.start, nil, "no tkhd found")
	}
	if mdia == nil {
		return Trak{}, errs.New(errs.Malformed, "trak", hdr.start, nil, "no mdia found")
	}
	return Trak{Tkhd: *tkhd, Edts: edts, Tref: tref, Mdia: *mdia}, nil
}
