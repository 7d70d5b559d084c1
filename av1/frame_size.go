package av1

import "github.com/ausocean/av1scan/errs"

const (
	superresDenomBits = 3
	superresDenomMin  = 9
	superresNum       = 8
)

// frameSize is frame_size(), §5.9.5: establishes frame_width/frame_height
// (overridden per-frame only when frame_size_override_flag is set, a path
// this parser does not implement), then superres and the mi-unit grid.
func (d *Decoder) frameSize(r *reader, frameSizeOverride bool) error {
	if frameSizeOverride {
		return errs.Unsupported("frame_size", r.br.PositionBits(), "frame_size_override")
	}
	d.frameWidth = d.SequenceHeader.MaxFrameWidth
	d.frameHeight = d.SequenceHeader.MaxFrameHeight

	d.superresParams(r)
	d.computeImageSize()
	return nil
}

// superresParams is superres_params(), §5.9.7.
func (d *Decoder) superresParams(r *reader) {
	useSuperres := d.SequenceHeader.EnableSuperres && r.flag()

	if useSuperres {
		d.superresDenom = r.f(superresDenomBits) + superresDenomMin
	} else {
		d.superresDenom = superresNum
	}

	d.upscaledWidth = d.frameWidth
	d.frameWidth = (d.upscaledWidth*superresNum + d.superresDenom/2) / d.superresDenom
}

// computeImageSize is compute_image_size(), §5.9.6.
func (d *Decoder) computeImageSize() {
	d.miCols = 2 * ((d.frameWidth + 7) >> 3)
	d.miRows = 2 * ((d.frameHeight + 7) >> 3)
}

// renderSize is render_size(), §5.9.8.
func (d *Decoder) renderSize(r *reader) {
	if r.flag() {
		d.renderWidth = r.f(16) + 1
		d.renderHeight = r.f(16) + 1
	} else {
		d.renderWidth = d.upscaledWidth
		d.renderHeight = d.frameHeight
	}
}
