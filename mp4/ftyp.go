package mp4

import "github.com/ausocean/av1scan/errs"

// Ftyp identifies the brand and compatible brands of the file, per
// ISO/IEC 14496-12 §4.3.
type Ftyp struct {
	MajorBrand       string
	MinorVersion     uint32
	CompatibleBrands []string
}

// parseFtyp parses an 'ftyp' box body. hdr.size is the box's declared total
// size (including the 8-byte header already consumed by the caller).
func parseFtyp(c *cursor, hdr boxHeader) (Ftyp, error) {
	major, err := c.fourCC()
	if err != nil {
		return Ftyp{}, err
	}
	minor, err := c.u32()
	if err != nil {
		return Ftyp{}, err
	}

	if hdr.size < 16 || (hdr.size-16)%4 != 0 {
		return Ftyp{}, errs.New(errs.Malformed, "ftyp", c.pos, nil, "invalid ftyp size %d", hdr.size)
	}
	n := (hdr.size - 16) / 4
	brands := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		b, err := c.fourCC()
		if err != nil {
			return Ftyp{}, err
		}
		brands = append(brands, b)
	}

	return Ftyp{MajorBrand: major, MinorVersion: minor, CompatibleBrands: brands}, nil
}
