package av1

import "github.com/ausocean/av1scan/errs"

// FrameType is frame_type, §6.8.2.
type FrameType int

const (
	FrameTypeKey FrameType = iota
	FrameTypeInter
	FrameTypeIntraOnly
	FrameTypeSwitch
)

func newFrameType(val uint64) (FrameType, error) {
	switch val {
	case 0, 1, 2, 3:
		return FrameType(val), nil
	default:
		return 0, errs.New(errs.InvalidEnum, "frame_header", 0, nil, "invalid frame_type %d", val)
	}
}

// UncompressedHeader is uncompressed_header(), §5.9.2: the per-frame
// syntax preceding tile group data.
type UncompressedHeader struct {
	FrameType                 FrameType
	ShowExistingFrame         bool
	ShowFrame                 bool
	ShowableFrame             bool
	RefreshFrameFlags         uint64
	ForceIntegerMv            uint64
	CurrentFrameID            uint64
	AllowHighPrecisionMv      bool
	DisabledFrameEndUpdateCdf bool

	FrameWidth, FrameHeight   uint64
	UpscaledWidth             uint64
	RenderWidth, RenderHeight uint64

	TileCols, TileRows uint64

	QuantizationParams  QuantizationParams
	SegmentationEnabled bool

	DeltaQRes      uint64
	DeltaLfPresent bool
	DeltaLfRes     uint64
	DeltaLfMulti   bool

	CodedLossless bool
	AllLossless   bool
	LosslessArray [maxSegments]bool

	LoopFilterParams     LoopFilterParams
	CdefParams           CdefParams
	FrameRestorationType []uint64
	UsesLR               bool

	TxMode          TxMode
	ReferenceSelect bool
	SkipModeAllowed bool
	SkipModePresent bool
	ReducedTxSet    bool
}

// frame is frame_obu(), §5.10: parses the frame header, then leaves the
// remaining OBU bytes (the tile group) for the caller to consume opaquely.
func (d *Decoder) frame(r *reader) error {
	return d.frameHeader(r)
}

// frameHeader is frame_header_obu(), §5.9.1. A second frame header seen
// within one temporal unit before a temporal delimiter resets
// seen_frame_header is Unsupported: show_existing_frame repetition is not
// implemented by this parser.
func (d *Decoder) frameHeader(r *reader) error {
	if d.seenFrameHeader {
		return errs.Unsupported("frame_header", r.br.PositionBits(), "seen_frame_header")
	}
	d.seenFrameHeader = true

	uh, err := d.uncompressedHeader(r)
	if err != nil {
		return err
	}

	if uh.ShowExistingFrame {
		return errs.Unsupported("frame_header", r.br.PositionBits(), "show_existing_frame")
	}

	d.tileNum = 0
	d.seenFrameHeader = true
	d.LastFrame = uh
	return nil
}

const allRefFramesMask = (uint64(1) << numRefFrames) - 1

// uncompressedHeader is uncompressed_header(), §5.9.2. Only the key-frame,
// intra, error-resilient, primary_ref_frame==PRIMARY_REF_NONE path is
// implemented; inter-frame prediction, frame-id numbering and
// decoder-model timing are all Unsupported.
func (d *Decoder) uncompressedHeader(r *reader) (UncompressedHeader, error) {
	if d.SequenceHeader.FrameIDNumbersPresent {
		return UncompressedHeader{}, errs.Unsupported("uncompressed_header", r.br.PositionBits(), "frame_id_numbers_present")
	}

	var (
		showExistingFrame   bool
		frameType           FrameType
		showFrame           bool
		showableFrame       bool
		errorResilientMode  bool
	)

	if d.SequenceHeader.ReducedStillPictureHeader {
		errorResilientMode = false
		showExistingFrame = false
		frameType = FrameTypeKey
		d.frameIsIntra = true
		showFrame = true
		showableFrame = false
	} else {
		showExistingFrame = r.flag()
		if showExistingFrame {
			return UncompressedHeader{}, errs.Unsupported("uncompressed_header", r.br.PositionBits(), "show_existing_frame")
		}

		ft, err := newFrameType(r.f(2))
		if err != nil {
			return UncompressedHeader{}, err
		}
		frameType = ft
		d.frameIsIntra = frameType == FrameTypeIntraOnly || frameType == FrameTypeKey

		showFrame = r.flag()
		if showFrame && d.SequenceHeader.DecoderModelInfoPresent {
			return UncompressedHeader{}, errs.Unsupported("uncompressed_header", r.br.PositionBits(), "decoder_model_info_present")
		}

		if showFrame {
			showableFrame = frameType != FrameTypeKey
		} else {
			showableFrame = r.flag()
		}

		if frameType == FrameTypeSwitch || (frameType == FrameTypeKey && showFrame) {
			errorResilientMode = true
		} else {
			errorResilientMode = r.flag()
		}
	}

	if frameType == FrameTypeKey && showFrame {
		for i := 0; i < numRefFrames; i++ {
			d.refValid[i] = false
			d.refOrderHint[i] = 0
		}
		for i := 0; i < refsPerFrame; i++ {
			d.orderHints[lastFrame+i] = 0
		}
	}

	disableCdfUpdate := r.flag()

	var allowScreenContentTools uint64
	if d.SequenceHeader.SeqForceScreenContentTools == selectScreenContentTools {
		allowScreenContentTools = r.f(1)
	} else {
		allowScreenContentTools = d.SequenceHeader.SeqForceScreenContentTools
	}

	var forceIntegerMv uint64
	switch {
	case allowScreenContentTools != 0:
		if d.SequenceHeader.SeqForceIntegerMv == selectIntegerMv {
			forceIntegerMv = r.f(1)
		} else {
			forceIntegerMv = d.SequenceHeader.SeqForceIntegerMv
		}
	case d.frameIsIntra:
		forceIntegerMv = 1
	default:
		forceIntegerMv = 0
	}

	var currentFrameID uint64 // frame_id_numbers_present is Unsupported above, so always 0 here.

	var frameSizeOverride bool
	switch {
	case frameType == FrameTypeSwitch:
		frameSizeOverride = true
	case d.SequenceHeader.ReducedStillPictureHeader:
		frameSizeOverride = false
	default:
		frameSizeOverride = r.flag()
	}

	d.orderHint = r.f(d.orderHintBits)

	var primaryRefFrame uint64
	if d.frameIsIntra || errorResilientMode {
		primaryRefFrame = primaryRefNone
	} else {
		primaryRefFrame = r.f(3)
	}

	allowHighPrecisionMv := false
	useRefFrameMvs := false
	allowIntrabc := false

	var refreshFrameFlags uint64
	if frameType == FrameTypeSwitch || (frameType == FrameTypeKey && showFrame) {
		refreshFrameFlags = allRefFramesMask
	} else {
		refreshFrameFlags = r.f(8)
	}

	if !d.frameIsIntra || refreshFrameFlags != allRefFramesMask {
		return UncompressedHeader{}, errs.Unsupported("uncompressed_header", r.br.PositionBits(), "inter_frame")
	}

	if err := d.frameSize(r, frameSizeOverride); err != nil {
		return UncompressedHeader{}, err
	}
	d.renderSize(r)

	if allowScreenContentTools != 0 && d.upscaledWidth == d.frameWidth {
		allowIntrabc = r.flag()
	}

	var disabledFrameEndUpdateCdf bool
	if d.SequenceHeader.ReducedStillPictureHeader || disableCdfUpdate {
		disabledFrameEndUpdateCdf = true
	} else {
		disabledFrameEndUpdateCdf = r.flag()
	}

	if primaryRefFrame != primaryRefNone {
		return UncompressedHeader{}, errs.Unsupported("uncompressed_header", r.br.PositionBits(), "primary_ref_frame")
	}
	// primary_ref_frame == PRIMARY_REF_NONE: init_non_coeff_cdfs() and
	// setup_past_independence() have no observable effect on the syntax
	// elements this parser reports, so are not modelled.

	if useRefFrameMvs {
		return UncompressedHeader{}, errs.Unsupported("uncompressed_header", r.br.PositionBits(), "use_ref_frame_mvs")
	}

	if err := d.tileInfo(r); err != nil {
		return UncompressedHeader{}, err
	}
	quantizationParams := d.quantizationParams(r)
	segmentationEnabled, err := d.segmentationParams(r)
	if err != nil {
		return UncompressedHeader{}, err
	}

	var deltaQPresent bool
	if quantizationParams.BaseQIdx > 0 {
		deltaQPresent = r.flag()
	}
	var deltaQRes uint64
	if deltaQPresent {
		deltaQRes = r.f(2)
	}

	var deltaLfPresent bool
	var deltaLfRes uint64
	var deltaLfMulti bool
	if deltaQPresent {
		if !allowIntrabc {
			deltaLfPresent = r.flag()
		}
		if deltaLfPresent {
			deltaLfRes = r.f(2)
			deltaLfMulti = r.flag()
		}
	}
	// primary_ref_frame == PRIMARY_REF_NONE: init_coeff_cdfs() likewise has
	// no effect on reported syntax elements.

	d.codedLossless = true
	for seg := 0; seg < maxSegments; seg++ {
		qindex := d.getQindex(true, seg, segmentationEnabled, deltaQPresent, quantizationParams.BaseQIdx)
		d.losslessArray[seg] = qindex == 0 &&
			d.deltaqYdc == 0 && d.deltaqUac == 0 && d.deltaqUdc == 0 && d.deltaqVac == 0 && d.deltaqVdc == 0
		if !d.losslessArray[seg] {
			d.codedLossless = false
		}
		if quantizationParams.UsingQmatrix {
			return UncompressedHeader{}, errs.Unsupported("uncompressed_header", r.br.PositionBits(), "using_qmatrix")
		}
	}
	d.allLossless = d.codedLossless && d.frameWidth == d.upscaledWidth

	loopFilterParams, err := d.loopFilterParams(r, allowIntrabc)
	if err != nil {
		return UncompressedHeader{}, err
	}
	cdefParams, err := d.cdefParams(allowIntrabc)
	if err != nil {
		return UncompressedHeader{}, err
	}
	if err := d.lrParams(allowIntrabc); err != nil {
		return UncompressedHeader{}, err
	}
	d.readTxMode(r)

	var referenceSelect bool
	if !d.frameIsIntra {
		referenceSelect = r.flag()
	}

	skipModeAllowed, skipModePresent, err := d.skipModeParams(r, referenceSelect)
	if err != nil {
		return UncompressedHeader{}, err
	}

	if !d.frameIsIntra && !errorResilientMode && d.SequenceHeader.EnableWarpedMotion {
		r.flag() // allow_warped_motion, not retained.
	}

	reducedTxSet := r.flag()
	d.globalMotionParams()
	if err := d.filmGrainParams(showFrame, showableFrame); err != nil {
		return UncompressedHeader{}, err
	}

	if r.err != nil {
		return UncompressedHeader{}, r.err
	}

	_ = currentFrameID
	_ = allowHighPrecisionMv

	return UncompressedHeader{
		FrameType:                 frameType,
		ShowExistingFrame:         showExistingFrame,
		ShowFrame:                 showFrame,
		ShowableFrame:             showableFrame,
		RefreshFrameFlags:         refreshFrameFlags,
		ForceIntegerMv:            forceIntegerMv,
		CurrentFrameID:            currentFrameID,
		AllowHighPrecisionMv:      allowHighPrecisionMv,
		DisabledFrameEndUpdateCdf: disabledFrameEndUpdateCdf,

		FrameWidth:    d.frameWidth,
		FrameHeight:   d.frameHeight,
		UpscaledWidth: d.upscaledWidth,
		RenderWidth:   d.renderWidth,
		RenderHeight:  d.renderHeight,

		TileCols: d.tileCols,
		TileRows: d.tileRows,

		QuantizationParams:  quantizationParams,
		SegmentationEnabled: segmentationEnabled,

		DeltaQRes:      deltaQRes,
		DeltaLfPresent: deltaLfPresent,
		DeltaLfRes:     deltaLfRes,
		DeltaLfMulti:   deltaLfMulti,

		CodedLossless: d.codedLossless,
		AllLossless:   d.allLossless,
		LosslessArray: d.losslessArray,

		LoopFilterParams:     loopFilterParams,
		CdefParams:           cdefParams,
		FrameRestorationType: d.frameRestorationType,
		UsesLR:               d.usesLR,

		TxMode:          d.txMode,
		ReferenceSelect: referenceSelect,
		SkipModeAllowed: skipModeAllowed,
		SkipModePresent: skipModePresent,
		ReducedTxSet:    reducedTxSet,
	}, nil
}
