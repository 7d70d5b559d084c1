package av1

import "github.com/ausocean/av1scan/errs"

// skipModeParams is skip_mode_params(), §5.9.22. skip_mode_allowed can only
// become true for inter frames with reference selection and order-hint
// enabled; that path (computing the forward/backward reference pair) is
// not implemented.
func (d *Decoder) skipModeParams(r *reader, referenceSelect bool) (allowed, present bool, err error) {
	if d.frameIsIntra || !referenceSelect || !d.SequenceHeader.EnableOrderHint {
		return false, false, nil
	}
	return false, false, errs.Unsupported("skip_mode_params", r.br.PositionBits(), "skip_mode_allowed")
}
