package av1

// QuantizationParams is quantization_params(), §5.9.12.
type QuantizationParams struct {
	BaseQIdx     uint64
	QmY          uint64
	QmU          uint64
	QmV          uint64
	UsingQmatrix bool
}

// readDeltaQ is read_delta_q(), §5.9.13: a present flag followed by an
// su(7) delta, or 0 when absent.
func readDeltaQ(r *reader) int64 {
	if r.flag() {
		return r.su(7)
	}
	return 0
}

// quantizationParams is quantization_params(), §5.9.12. When diff_uv_delta
// is signalled, the v-plane deltas are read and then immediately
// overwritten with the u-plane deltas: preserved verbatim, since it is
// unclear whether this is a transcription error in the reference this was
// ported from or intentional behavior of the encoder it was tested against.
func (d *Decoder) quantizationParams(r *reader) QuantizationParams {
	baseQIdx := r.f(8)
	d.deltaqYdc = readDeltaQ(r)

	if d.numPlanes == NumPlanesThree {
		diffUvDelta := d.SequenceHeader.ColorConfig.SeparateUvDeltaQ && r.flag()

		d.deltaqUdc = readDeltaQ(r)
		d.deltaqUac = readDeltaQ(r)

		if diffUvDelta {
			d.deltaqVdc = readDeltaQ(r)
			d.deltaqVac = readDeltaQ(r)
			d.deltaqVdc = d.deltaqUdc
			d.deltaqVac = d.deltaqUac
		}
	} else {
		d.deltaqUdc = 0
		d.deltaqUac = 0
		d.deltaqVdc = 0
		d.deltaqVac = 0
	}

	usingQmatrix := r.flag()
	if !usingQmatrix {
		return QuantizationParams{BaseQIdx: baseQIdx, UsingQmatrix: false}
	}

	qmY := r.f(4)
	qmU := r.f(4)
	qmV := qmU
	if d.SequenceHeader.ColorConfig.SeparateUvDeltaQ {
		qmV = r.f(4)
	}

	return QuantizationParams{
		BaseQIdx:     baseQIdx,
		QmY:          qmY,
		QmU:          qmU,
		QmV:          qmV,
		UsingQmatrix: usingQmatrix,
	}
}
