package av1

import "github.com/ausocean/av1scan/errs"

// LoopFilterParams is loop_filter_params(), §5.9.11.
type LoopFilterParams struct {
	LoopFilterLevel        [4]uint64
	LoopFilterSharpness    uint64
	LoopFilterDeltaEnabled bool
}

// loopFilterParams is loop_filter_params(), §5.9.11. Lossless/intrabc
// frames skip the filter entirely in the AV1 specification by forcing all
// levels to 0 without reading any bits; that path is not implemented here.
// Per-reference/per-mode loop filter deltas are likewise not implemented.
func (d *Decoder) loopFilterParams(r *reader, allowIntrabc bool) (LoopFilterParams, error) {
	if d.codedLossless || allowIntrabc {
		return LoopFilterParams{}, errs.Unsupported("loop_filter_params", r.br.PositionBits(), "coded_lossless_or_allow_intrabc")
	}

	var level [4]uint64
	level[0] = r.f(6)
	level[1] = r.f(6)

	if d.numPlanes == NumPlanesThree {
		if level[0] != 0 || level[1] != 0 {
			level[2] = r.f(6)
			level[3] = r.f(6)
		}
	}

	sharpness := r.f(3)
	deltaEnabled := r.flag()
	if deltaEnabled {
		return LoopFilterParams{}, errs.Unsupported("loop_filter_params", r.br.PositionBits(), "loop_filter_delta_enabled")
	}

	if r.err != nil {
		return LoopFilterParams{}, r.err
	}

	return LoopFilterParams{
		LoopFilterLevel:        level,
		LoopFilterSharpness:    sharpness,
		LoopFilterDeltaEnabled: deltaEnabled,
	}, nil
}
