package av1

import "github.com/ausocean/av1scan/errs"

// filmGrainParams is film_grain_params(), §5.9.30. Grain parameters reset
// to disabled whenever the sequence never signals them present, or the
// current frame is neither shown nor showable; actual grain-parameter
// signalling for the remaining case is not implemented.
func (d *Decoder) filmGrainParams(showFrame, showableFrame bool) error {
	if !d.SequenceHeader.FilmGrainParamsPresent || (!showFrame && !showableFrame) {
		return nil
	}
	return errs.Unsupported("film_grain_params", 0, "film_grain_params_present")
}
