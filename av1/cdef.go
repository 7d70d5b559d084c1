package av1

import "github.com/ausocean/av1scan/errs"

// CdefParams is cdef_params(), §5.9.19.
type CdefParams struct {
	CdefBits            uint64
	CdefYPriStrength    []uint64
	CdefYSecStrength    []uint64
	CdefUvPriStrength   []uint64
	CdefUvSecStrength   []uint64
}

// cdefParams is cdef_params(), §5.9.19. Preserves a known quirk: the
// disabled/default path is taken when coded_lossless, allow_intrabc, OR
// enable_cdef — the third disjunct reads as inverted relative to the AV1
// specification (which only disables CDEF when enable_cdef is false), but
// is kept as-is pending confirmation against a reference decoder. The
// actual per-strength CDEF signalling this disjunct would otherwise gate is
// not implemented.
func (d *Decoder) cdefParams(allowIntrabc bool) (CdefParams, error) {
	if d.codedLossless || allowIntrabc || d.SequenceHeader.EnableCdef {
		d.cdefDamping = 3
		return CdefParams{
			CdefBits:          0,
			CdefYPriStrength:  []uint64{0},
			CdefYSecStrength:  []uint64{0},
			CdefUvPriStrength: []uint64{0},
			CdefUvSecStrength: []uint64{0},
		}, nil
	}

	return CdefParams{}, errs.Unsupported("cdef_params", 0, "cdef_enabled")
}
