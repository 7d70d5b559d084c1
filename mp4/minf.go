package mp4

import (
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

// InformationHeader is the media-type-specific header found inside a
// Minf box: a Vmhd for video tracks or a Gmhd for other base-media tracks,
// ISO/IEC 14496-12 §8.4.5.
type InformationHeader interface {
	informationHeader()
}

// Vmhd is the Video Media Header Box, ISO/IEC 14496-12 §12.1.2.
type Vmhd struct {
	Version      uint8
	Flags        [3]byte
	GraphicsMode uint16
	Red          uint16
	Green        uint16
	Blue         uint16
}

func (Vmhd) informationHeader() {}

func parseVmhd(c *cursor) (Vmhd, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Vmhd{}, err
	}
	if flags != [3]byte{0, 0, 1} {
		return Vmhd{}, errs.New(errs.Malformed, "vmhd", c.pos, nil, "flags must be [0,0,1], got %v", flags)
	}
	graphicsMode, err := c.u16()
	if err != nil {
		return Vmhd{}, err
	}
	if graphicsMode != 0 {
		return Vmhd{}, errs.New(errs.UnsupportedFormat, "vmhd", c.pos, nil, "graphics_mode must be 0, got %d", graphicsMode)
	}
	red, err := c.u16()
	if err != nil {
		return Vmhd{}, err
	}
	green, err := c.u16()
	if err != nil {
		return Vmhd{}, err
	}
	blue, err := c.u16()
	if err != nil {
		return Vmhd{}, err
	}
	return Vmhd{Version: version, Flags: flags, GraphicsMode: graphicsMode, Red: red, Green: green, Blue: blue}, nil
}

// Gmhd is the (QuickTime-derived) Base Media Information Header Box, kept
// opaque beyond its version/flags prefix since this parser has no
// non-video track to interpret its payload for.
type Gmhd struct {
	Version uint8
	Flags   [3]byte
	Data    []byte
}

func (Gmhd) informationHeader() {}

func parseGmhd(c *cursor, hdr boxHeader) (Gmhd, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Gmhd{}, err
	}
	end := hdr.start + int(hdr.size)
	if end < c.pos {
		return Gmhd{}, errs.New(errs.Malformed, "gmhd", c.pos, nil, "box size %d too small", hdr.size)
	}
	data, err := c.readN(end - c.pos)
	if err != nil {
		return Gmhd{}, err
	}
	return Gmhd{Version: version, Flags: flags, Data: data}, nil
}

// DataEntry is one entry of a Dref box: a Url or Urn location reference,
// ISO/IEC 14496-12 §8.7.2.
type DataEntry interface {
	dataEntry()
}

// UrlEntry is a 'url ' data entry.
type UrlEntry struct {
	Version  uint8
	Flags    [3]byte
	Location string
}

func (UrlEntry) dataEntry() {}

// UrnEntry is a 'urn ' data entry.
type UrnEntry struct {
	Version  uint8
	Flags    [3]byte
	Name     string
	Location string
}

func (UrnEntry) dataEntry() {}

// Dref is the Data Reference Box, ISO/IEC 14496-12 §8.7.2.
type Dref struct {
	Version uint8
	Flags   [3]byte
	Entries []DataEntry
}

func parseDref(c *cursor, hdr boxHeader) (Dref, error) {
	start := c.pos
	version, flags, err := c.versionFlags()
	if err != nil {
		return Dref{}, err
	}
	count, err := c.u32()
	if err != nil {
		return Dref{}, err
	}
	entries := make([]DataEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		entryVersion, entryFlags, err := c.versionFlags()
		if err != nil {
			return Dref{}, err
		}
		entryType, err := c.fourCC()
		if err != nil {
			return Dref{}, err
		}
		switch entryType {
		case "url ":
			loc, err := c.cString()
			if err != nil {
				return Dref{}, err
			}
			entries = append(entries, UrlEntry{Version: entryVersion, Flags: entryFlags, Location: loc})
		case "urn ":
			name, err := c.cString()
			if err != nil {
				return Dref{}, err
			}
			loc, err := c.cString()
			if err != nil {
				return Dref{}, err
			}
			entries = append(entries, UrnEntry{Version: entryVersion, Flags: entryFlags, Name: name, Location: loc})
		default:
			return Dref{}, errs.New(errs.UnsupportedFourCC, "dref", c.pos, nil, "unknown entry_type %q", entryType)
		}
	}

	// The trailing bytes of a 'dref' box as produced by some encoders do
	// not reconcile with entry_count entries parsed exactly to the
	// declared box size; resetting the cursor to the declared box end (start
	// is the body offset, so start+size-8 is hdr.start+size) whatever the
	// entries consumed is required for the sibling 'stbl' box to be found
	// afterwards.
	c.pos = start + int(hdr.size) - 8

	return Dref{Version: version, Flags: flags, Entries: entries}, nil
}

// Dinf is the Data Information Box: a single required Dref child,
// ISO/IEC 14496-12 §8.7.1.
type Dinf struct {
	Dref Dref
}

func parseDinf(c *cursor, hdr boxHeader) (Dinf, error) {
	child, err := c.readBoxHeader()
	if err != nil {
		return Dinf{}, err
	}
	if child.typ != "dref" {
		return Dinf{}, errs.New(errs.UnsupportedFourCC, "dinf", child.start, nil, "box type %q not implemented", child.typ)
	}
	dref, err := parseDref(c, child)
	if err != nil {
		return Dinf{}, err
	}
	return Dinf{Dref: dref}, nil
}

// Minf is the Media Information Box, ISO/IEC 14496-12 §8.4.4.
type Minf struct {
	Header InformationHeader
	Dinf   Dinf
	Stbl   Stbl
}

func parseMinf(c *cursor, hdr boxHeader, log logging.Logger) (Minf, error) {
	var (
		header InformationHeader
		dinf   *Dinf
		stbl   *Stbl
	)
	end := hdr.start + int(hdr.size)
	for c.pos < end {
		child, err := c.readBoxHeader()
		if err != nil {
			return Minf{}, err
		}
		switch child.typ {
		case "vmhd":
			v, err := parseVmhd(c)
			if err != nil {
				return Minf{}, err
			}
			header = v
		case "gmhd":
			g, err := parseGmhd(c, child)
			if err != nil {
				return Minf{}, err
			}
			header = g
		case "dinf":
			d, err := parseDinf(c, child)
			if err != nil {
				return Minf{}, err
			}
			dinf = &d
		case "stbl":
			s, err := parseStbl(c, child, log)
			if err != nil {
				return Minf{}, err
			}
			stbl = &s
		default:
			return Minf{}, errs.New(errs.UnsupportedFourCC, "minf", child.start, nil, "box type %q not implemented", child.typ)
		}
		if c.pos != child.start+int(child.size) {
			return Minf{}, errs.New(errs.Malformed, "minf", c.pos, nil, "child box %q did not consume its declared size", child.typ)
		}
	}
	if header == nil {
		return Minf{}, errs.New(errs.Malformed, "minf", hdr.start, nil, "no vmhd or gmhd found")
	}
	if dinf == nil {
		return Minf{}, errs.New(errs.Malformed, "minf", hdr.start, nil, "no dinf found")
	}
	if stbl == nil {
		return Minf{}, errs.New(errs.Malformed, "minf", hdr.start, nil, "no stbl found")
	}
	return Minf{Header: header, Dinf: *dinf, Stbl: *stbl}, nil
}
