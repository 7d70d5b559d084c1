package av1

import "github.com/ausocean/av1scan/errs"

// ColorPrimaries is the subset of CICP colour primaries color_config()
// recognizes explicitly; any other value is InvalidEnum.
type ColorPrimaries int

const (
	ColorPrimariesBt709       ColorPrimaries = 1
	ColorPrimariesUnspecified ColorPrimaries = 2
)

func newColorPrimaries(val uint64) (ColorPrimaries, error) {
	switch val {
	case 1:
		return ColorPrimariesBt709, nil
	case 2:
		return ColorPrimariesUnspecified, nil
	default:
		return 0, errs.New(errs.InvalidEnum, "color_config", 0, nil, "invalid color_primaries %d", val)
	}
}

// TransferCharacteristics is the subset of CICP transfer characteristics
// color_config() recognizes explicitly.
type TransferCharacteristics int

const (
	TransferCharacteristicsUnspecified TransferCharacteristics = 2
	TransferCharacteristicsSrgb        TransferCharacteristics = 13
)

func newTransferCharacteristics(val uint64) (TransferCharacteristics, error) {
	switch val {
	case 2:
		return TransferCharacteristicsUnspecified, nil
	case 13:
		return TransferCharacteristicsSrgb, nil
	default:
		return 0, errs.New(errs.InvalidEnum, "color_config", 0, nil, "invalid transfer_characteristics %d", val)
	}
}

// MatrixCoefficients is the subset of CICP matrix coefficients
// color_config() recognizes explicitly.
type MatrixCoefficients int

const (
	MatrixCoefficientsIdentity    MatrixCoefficients = 0
	MatrixCoefficientsUnspecified MatrixCoefficients = 2
)

func newMatrixCoefficients(val uint64) (MatrixCoefficients, error) {
	switch val {
	case 0:
		return MatrixCoefficientsIdentity, nil
	case 2:
		return MatrixCoefficientsUnspecified, nil
	default:
		return 0, errs.New(errs.InvalidEnum, "color_config", 0, nil, "invalid matrix_coefficients %d", val)
	}
}

// ChromaSamplePosition locates chroma samples relative to luma, read only
// when both subsampling_x and subsampling_y are set.
type ChromaSamplePosition int

const (
	ChromaSamplePositionUnknown ChromaSamplePosition = iota
	ChromaSamplePositionVertical
	ChromaSamplePositionColocated
	ChromaSamplePositionReserved
)

// ColorConfig is the color_config() syntax, §5.5.2 of the AV1 specification.
type ColorConfig struct {
	SeparateUvDeltaQ     bool
	ColorRange           bool
	SubsamplingX         bool
	SubsamplingY         bool
	ChromaSamplePosition ChromaSamplePosition
}

func (d *Decoder) colorConfig(r *reader, seqProfile SeqProfile) (ColorConfig, error) {
	highBitdepth := r.flag()

	switch {
	case seqProfile == SeqProfileTwo && highBitdepth:
		if r.flag() {
			d.bitDepth = BitDepthTwelve
		} else {
			d.bitDepth = BitDepthTen
		}
	case seqProfile <= SeqProfileTwo && highBitdepth:
		d.bitDepth = BitDepthTen
	default:
		d.bitDepth = BitDepthEight
	}

	monochrome := seqProfile != SeqProfileOne && r.flag()

	if monochrome {
		d.numPlanes = NumPlanesOne
	} else {
		d.numPlanes = NumPlanesThree
	}

	var (
		colorPrimaries          = ColorPrimariesUnspecified
		transferCharacteristics = TransferCharacteristicsUnspecified
		matrixCoefficients      = MatrixCoefficientsUnspecified
	)
	if r.flag() { // color_description_present_flag
		var err error
		colorPrimaries, err = newColorPrimaries(r.f(8))
		if err != nil {
			return ColorConfig{}, err
		}
		transferCharacteristics, err = newTransferCharacteristics(r.f(8))
		if err != nil {
			return ColorConfig{}, err
		}
		matrixCoefficients, err = newMatrixCoefficients(r.f(8))
		if err != nil {
			return ColorConfig{}, err
		}
	}

	if monochrome {
		colorRange := r.flag()
		if r.err != nil {
			return ColorConfig{}, r.err
		}
		return ColorConfig{
			SeparateUvDeltaQ: false,
			ColorRange:       colorRange,
			SubsamplingX:     true,
			SubsamplingY:     true,
		}, nil
	}

	var colorRange, subsamplingX, subsamplingY bool
	chromaSamplePosition := ChromaSamplePositionUnknown

	if colorPrimaries == ColorPrimariesBt709 &&
		transferCharacteristics == TransferCharacteristicsSrgb &&
		matrixCoefficients == MatrixCoefficientsIdentity {
		colorRange = true
		subsamplingX = false
		subsamplingY = false
	} else {
		colorRange = r.flag()
		switch {
		case seqProfile == SeqProfileZero:
			subsamplingX, subsamplingY = true, true
		case seqProfile == SeqProfileOne:
			subsamplingX, subsamplingY = false, false
		case d.bitDepth == BitDepthTwelve:
			subsamplingX = r.flag()
			if subsamplingX {
				subsamplingY = r.flag()
			} else {
				subsamplingY = false
			}
		default:
			subsamplingX, subsamplingY = true, false
		}

		if subsamplingX && subsamplingY {
			chromaSamplePosition = ChromaSamplePosition(r.f(2))
		}
	}

	separateUvDeltaQ := r.flag()
	if r.err != nil {
		return ColorConfig{}, r.err
	}

	return ColorConfig{
		SeparateUvDeltaQ:     separateUvDeltaQ,
		ColorRange:           colorRange,
		SubsamplingX:         subsamplingX,
		SubsamplingY:         subsamplingY,
		ChromaSamplePosition: chromaSamplePosition,
	}, nil
}
