package mp4

import "github.com/ausocean/av1scan/errs"

// Meta is the Meta Box, ISO/IEC 14496-12 §8.11.1. The leading 4 bytes
// after the box header (a version/flags field reused from the full-box
// convention, present even though Apple's original Meta box predates it)
// are skipped before the child box loop.
type Meta struct {
	Hdlr Hdlr
}

func parseMeta(c *cursor, hdr boxHeader) (Meta, error) {
	if err := c.skip(4); err != nil {
		return Meta{}, err
	}
	var (
		hdlr    *Hdlr
		gotHdlr bool
	)
	end := hdr.start + int(hdr.size)
	for c.pos < end {
		child, err := c.readBoxHeader()
		if err != nil {
			return Meta{}, err
		}
		switch child.typ {
		case "hdlr":
			h, err := parseHdlr(c)
			if err != nil {
				return Meta{}, err
			}
			hdlr, gotHdlr = &h, true
		default:
			return Meta{}, errs.New(errs.UnsupportedFourCC, "meta", child.start, nil, "box type %q not implemented", child.typ)
		}
		if c.pos != child.start+int(child.size) {
			return Meta{}, errs.New(errs.Malformed, "meta", c.pos, nil, "child box %q did not consume its declared size", child.typ)
		}
	}
	if !gotHdlr {
		return Meta{}, errs.New(errs.Malformed, "meta", hdr.start, nil, "no hdlr found")
	}
	return Meta{Hdlr: *hdlr}, nil
}

// Udta is the User Data Box, ISO/IEC 14496-12 §8.10.1. Chpl (chapter
// list) data is retained opaquely; this parser does not interpret it.
type Udta struct {
	Meta Meta
	Chpl []byte
}

func parseUdta(c *cursor, hdr boxHeader) (Udta, error) {
	var (
		meta    *Meta
		chpl    []byte
		gotMeta bool
	)
	end := hdr.start + int(hdr.size)
	for c.pos < end {
		child, err := c.readBoxHeader()
		if err != nil {
			return Udta{}, err
		}
		switch child.typ {
		case "meta":
			m, err := parseMeta(c, child)
			if err != nil {
				return Udta{}, err
			}
			meta, gotMeta = &m, true
		case "chpl":
			data, err := c.readN(int(child.size) - 8)
			if err != nil {
				return Udta{}, err
			}
			chpl = data
		default:
			return Udta{}, errs.New(errs.UnsupportedFourCC, "udta", child.start, nil, "box type %q not implemented", child.typ)
		}
		if c.pos != child.start+int(child.size) {
			return Udta{}, errs.New(errs.Malformed, "udta", c.pos, nil, "child box %q did not consume its declared size", child.typ)
		}
	}
	if !gotMeta {
		return Udta{}, errs.New(errs.Malformed, "udta", hdr.start, nil, "no meta found")
	}
	return Udta{Meta: *meta, Chpl: chpl}, nil
}
