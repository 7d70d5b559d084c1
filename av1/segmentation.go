package av1

import "github.com/ausocean/av1scan/errs"

// segmentationParams is segmentation_params(), §5.9.14. The
// segmentation_enabled path (per-segment feature signalling) is not
// implemented.
func (d *Decoder) segmentationParams(r *reader) (bool, error) {
	segmentationEnabled := r.flag()
	if segmentationEnabled {
		return false, errs.Unsupported("segmentation_params", r.br.PositionBits(), "segmentation_enabled")
	}

	for i := 0; i < maxSegments; i++ {
		for j := 0; j < segLvlMax; j++ {
			d.featureEnabled[i][j] = false
			d.featureData[i][j] = 0
		}
	}

	d.segIDPreSkip = false
	d.lastActiveSegID = 0
	for i := 0; i < maxSegments; i++ {
		for j := 0; j < segLvlMax; j++ {
			if d.featureEnabled[i][j] {
				d.lastActiveSegID = uint64(i)
				if j >= segLvlRefFrame {
					d.segIDPreSkip = true
				}
			}
		}
	}

	return segmentationEnabled, r.err
}

// getQindex is get_qindex(), §7.12.2: the effective quantizer index for a
// segment, given the current frame's delta-q state.
func (d *Decoder) getQindex(ignoreDeltaQ bool, segmentID int, segmentationEnabled, deltaQPresent bool, baseQIdx uint64) uint64 {
	switch {
	case segmentationEnabled && d.featureEnabled[segmentID][segLvlAltQ]:
		// Per-segment alternate quantizer signalling is not implemented;
		// segmentation_enabled itself is already Unsupported above, so
		// this branch is unreachable in practice.
		return baseQIdx
	case !ignoreDeltaQ && deltaQPresent:
		return d.currentQIndex
	default:
		return baseQIdx
	}
}
