package av1

import "github.com/ausocean/av1scan/errs"

// lrParams is lr_params(), §5.9.20: loop restoration is disabled whenever
// the frame is already all-lossless, uses intra block copy, or the
// sequence never enables restoration. Per-plane restoration-type
// signalling for the enabled case is not implemented.
func (d *Decoder) lrParams(allowIntrabc bool) error {
	if d.allLossless || allowIntrabc || !d.SequenceHeader.EnableRestoration {
		d.frameRestorationType = []uint64{restoreNone, restoreNone, restoreNone}
		d.usesLR = false
		return nil
	}
	return errs.Unsupported("lr_params", 0, "enable_restoration")
}
