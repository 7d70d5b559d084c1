package av1

import "github.com/ausocean/av1scan/errs"

// SeqProfile is the AV1 coding profile (seq_profile).
type SeqProfile int

const (
	SeqProfileZero SeqProfile = 0
	SeqProfileOne  SeqProfile = 1
	SeqProfileTwo  SeqProfile = 2
)

func newSeqProfile(val uint64) (SeqProfile, error) {
	switch val {
	case 0, 1, 2:
		return SeqProfile(val), nil
	default:
		return 0, errs.New(errs.InvalidEnum, "sequence_header", 0, nil, "invalid seq_profile %d", val)
	}
}

// SequenceHeader is the sequence_header_obu() syntax, §5.5 of the AV1
// specification: per-stream parameters that hold across every frame until
// the next sequence header.
type SequenceHeader struct {
	SeqProfile                          SeqProfile
	StillPicture                        bool
	TimingInfoPresent                   bool
	DecoderModelInfoPresent             bool
	InitialDisplayDelayPresent          bool
	OperatingPointsCnt                  uint64
	OperatingPointIdc                   []uint64
	SeqLevelIdx                         []uint64
	SeqTier                             []uint64
	DecoderModelPresentForThisOp        []bool
	InitialDisplayDelayPresentForThisOp []bool
	InitialDisplayDelay                 []uint64
	MaxFrameWidth                       uint64
	MaxFrameHeight                      uint64
	FrameIDNumbersPresent               bool
	Use128x128Superblock                bool
	EnableFilterIntra                   bool
	EnableIntraEdgeFilter               bool
	EnableInterintraCompound            bool
	EnableMaskedCompound                bool
	EnableWarpedMotion                  bool
	EnableDualFilter                    bool
	EnableOrderHint                     bool
	EnableJntComp                       bool
	EnableRefFrameMvs                   bool
	SeqForceIntegerMv                   uint64
	SeqForceScreenContentTools          uint64
	EnableSuperres                      bool
	EnableCdef                          bool
	EnableRestoration                   bool
	ColorConfig                         ColorConfig
	FilmGrainParamsPresent              bool
	ReducedStillPictureHeader           bool
}

func (d *Decoder) sequenceHeader(r *reader) (SequenceHeader, error) {
	seqProfile, err := newSeqProfile(r.f(3))
	if err != nil {
		return SequenceHeader{}, err
	}
	stillPicture := r.flag()
	reducedStillPictureHeader := r.flag()

	var (
		timingInfoPresent                   bool
		decoderModelInfoPresent             bool
		initialDisplayDelayPresent          bool
		operatingPointsCnt                  uint64
		operatingPointIdc                   []uint64
		seqLevelIdx                         []uint64
		seqTier                             []uint64
		decoderModelPresentForThisOp        []bool
		initialDisplayDelayPresentForThisOp []bool
		initialDisplayDelay                 []uint64
	)

	if reducedStillPictureHeader {
		operatingPointsCnt = 1
		operatingPointIdc = []uint64{0}
		seqLevelIdx = []uint64{0}
		seqTier = []uint64{0}
		decoderModelPresentForThisOp = []bool{false}
		initialDisplayDelayPresentForThisOp = []bool{false}
	} else {
		timingInfoPresent = r.flag()
		if timingInfoPresent {
			return SequenceHeader{}, errs.Unsupported("sequence_header", r.br.PositionBits(), "timing_info_present")
		}

		initialDisplayDelayPresent = r.flag()
		operatingPointsCnt = r.f(5) + 1

		operatingPointIdc = make([]uint64, operatingPointsCnt)
		seqLevelIdx = make([]uint64, operatingPointsCnt)
		seqTier = make([]uint64, operatingPointsCnt)
		decoderModelPresentForThisOp = make([]bool, operatingPointsCnt)
		initialDisplayDelayPresentForThisOp = make([]bool, operatingPointsCnt)
		initialDisplayDelay = make([]uint64, operatingPointsCnt)

		for i := uint64(0); i < operatingPointsCnt; i++ {
			operatingPointIdc[i] = r.f(12)
			seqLevelIdx[i] = r.f(5)

			if seqLevelIdx[i] > 7 {
				seqTier[i] = r.f(1)
			}

			if decoderModelInfoPresent {
				return SequenceHeader{}, errs.Unsupported("sequence_header", r.br.PositionBits(), "decoder_model_info_present")
			}

			if initialDisplayDelayPresent {
				initialDisplayDelayPresentForThisOp[i] = r.flag()
				if initialDisplayDelayPresentForThisOp[i] {
					initialDisplayDelay[i] = r.f(4) + 1
				}
			}
		}
	}

	frameWidthBits := r.f(4) + 1
	frameHeightBits := r.f(4) + 1
	maxFrameWidth := r.f(int(frameWidthBits)) + 1
	maxFrameHeight := r.f(int(frameHeightBits)) + 1

	var frameIDNumbersPresent bool
	if !reducedStillPictureHeader {
		frameIDNumbersPresent = r.flag()
	}
	if frameIDNumbersPresent {
		return SequenceHeader{}, errs.Unsupported("sequence_header", r.br.PositionBits(), "frame_id_numbers_present")
	}

	use128x128Superblock := r.flag()
	enableFilterIntra := r.flag()
	enableIntraEdgeFilter := r.flag()

	var (
		enableInterintraCompound   bool
		enableMaskedCompound       bool
		enableWarpedMotion         bool
		enableDualFilter           bool
		enableOrderHint            bool
		enableJntComp              bool
		enableRefFrameMvs          bool
		seqForceScreenContentTools uint64
		seqForceIntegerMv          uint64
	)

	if reducedStillPictureHeader {
		seqForceScreenContentTools = selectScreenContentTools
		seqForceIntegerMv = selectIntegerMv
		d.orderHintBits = 0
	} else {
		enableInterintraCompound = r.flag()
		enableMaskedCompound = r.flag()
		enableWarpedMotion = r.flag()
		enableDualFilter = r.flag()
		enableOrderHint = r.flag()

		if enableOrderHint {
			enableJntComp = r.flag()
			enableRefFrameMvs = r.flag()
		}

		if r.flag() { // seq_choose_screen_content_tools
			seqForceScreenContentTools = selectScreenContentTools
		} else {
			seqForceScreenContentTools = r.f(1)
		}

		if seqForceScreenContentTools > 0 {
			if r.flag() {
				seqForceIntegerMv = selectIntegerMv
			} else {
				seqForceIntegerMv = r.f(1)
			}
		} else {
			seqForceIntegerMv = 2
		}

		if enableOrderHint {
			d.orderHintBits = int(r.f(3)) + 1
		} else {
			d.orderHintBits = 0
		}
	}

	enableSuperres := r.flag()
	enableCdef := r.flag()
	enableRestoration := r.flag()
	colorConfig, err := d.colorConfig(r, seqProfile)
	if err != nil {
		return SequenceHeader{}, err
	}
	filmGrainParamsPresent := r.flag()

	if r.err != nil {
		return SequenceHeader{}, r.err
	}

	return SequenceHeader{
		SeqProfile:                          seqProfile,
		StillPicture:                        stillPicture,
		TimingInfoPresent:                   timingInfoPresent,
		DecoderModelInfoPresent:             decoderModelInfoPresent,
		InitialDisplayDelayPresent:          initialDisplayDelayPresent,
		OperatingPointsCnt:                  operatingPointsCnt,
		OperatingPointIdc:                   operatingPointIdc,
		SeqLevelIdx:                         seqLevelIdx,
		SeqTier:                             seqTier,
		DecoderModelPresentForThisOp:        decoderModelPresentForThisOp,
		InitialDisplayDelayPresentForThisOp: initialDisplayDelayPresentForThisOp,
		InitialDisplayDelay:                 initialDisplayDelay,
		MaxFrameWidth:                       maxFrameWidth,
		MaxFrameHeight:                      maxFrameHeight,
		FrameIDNumbersPresent:               frameIDNumbersPresent,
		Use128x128Superblock:                use128x128Superblock,
		EnableFilterIntra:                   enableFilterIntra,
		EnableIntraEdgeFilter:               enableIntraEdgeFilter,
		EnableInterintraCompound:            enableInterintraCompound,
		EnableMaskedCompound:                enableMaskedCompound,
		EnableWarpedMotion:                  enableWarpedMotion,
		EnableDualFilter:                    enableDualFilter,
		EnableOrderHint:                     enableOrderHint,
		EnableJntComp:                       enableJntComp,
		EnableRefFrameMvs:                   enableRefFrameMvs,
		SeqForceIntegerMv:                   seqForceIntegerMv,
		SeqForceScreenContentTools:          seqForceScreenContentTools,
		EnableSuperres:                      enableSuperres,
		EnableCdef:                          enableCdef,
		EnableRestoration:                   enableRestoration,
		ColorConfig:                         colorConfig,
		FilmGrainParamsPresent:              filmGrainParamsPresent,
		ReducedStillPictureHeader:           reducedStillPictureHeader,
	}, nil
}
