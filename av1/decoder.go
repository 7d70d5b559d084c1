/*
DESCRIPTION
  decoder.go defines the Decoder type: the mutable state an AV1 elementary
  stream's OBUs are parsed against, persisted across the frames of one
  stream (sequence header, reference-slot bookkeeping, per-frame geometry
  and quantization state).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package av1 parses AV1 Open Bitstream Units (OBUs) down to the
// uncompressed frame header: sequence headers, frame/tile geometry,
// quantization, segmentation, loop filter, CDEF, loop restoration,
// transform mode, skip-mode and global motion setup. Tile-data entropy
// decoding, reconstruction and film-grain synthesis are not performed.
package av1

import (
	"github.com/ausocean/av1scan/bits"
	"github.com/ausocean/utils/logging"
)

// BitDepth is the luma/chroma sample bit depth established by color_config.
type BitDepth int

const (
	BitDepthEight BitDepth = 8
	BitDepthTen   BitDepth = 10
	BitDepthTwelve BitDepth = 12
)

// NumPlanes is the number of colour planes implied by the monochrome flag.
type NumPlanes int

const (
	NumPlanesOne   NumPlanes = 1
	NumPlanesThree NumPlanes = 3
)

// TxMode is the per-frame transform size selection mode.
type TxMode int

const (
	TxModeInvalid TxMode = iota - 1
	TxModeOnly4x4
	TxModeLargest
	TxModeSelect
)

// WarpModel is a reference frame's global motion model.
type WarpModel int

const (
	WarpModelInvalid WarpModel = iota - 1
	WarpModelIdentity
	WarpModelTranslation
	WarpModelRotzoom
	WarpModelAffine
)

const (
	numRefFrames    = 8
	refsPerFrame    = 7
	primaryRefNone  = 7
	lastFrame       = 1
	altrefFrame     = 7
	maxSegments     = 8
	segLvlMax       = 8
	segLvlRefFrame  = 5
	segLvlAltQ      = 0
	restoreNone     = 0
	warpedmodelPrecBits = 16

	// selectScreenContentTools and selectIntegerMv are the sentinel value
	// (2) meaning "decide per frame" for seq_force_screen_content_tools and
	// seq_force_integer_mv.
	selectScreenContentTools = 2
	selectIntegerMv          = 2
)

// Decoder holds the state of one AV1 elementary stream, carried across the
// OBUs of every frame in that stream. The zero value is ready to use and is
// what NewDecoder returns.
type Decoder struct {
	SequenceHeader SequenceHeader
	LastFrame      UncompressedHeader
	seenFrameHeader bool

	refValid      [numRefFrames]bool
	refOrderHint  [numRefFrames]uint64
	orderHints    [refsPerFrame + lastFrame]uint64

	bitDepth      BitDepth
	numPlanes     NumPlanes
	orderHintBits int

	frameIsIntra bool
	orderHint    uint64

	frameWidth, frameHeight     uint64
	upscaledWidth               uint64
	renderWidth, renderHeight   uint64
	superresDenom               uint64
	miCols, miRows               uint64
	miColStarts, miRowStarts    []uint64

	tileColsLog2, tileRowsLog2 int
	tileCols, tileRows         uint64
	tileSizeBytes              uint64
	tileNum                    int

	deltaqYdc, deltaqYac int64
	deltaqUdc, deltaqUac int64
	deltaqVdc, deltaqVac int64

	featureEnabled [maxSegments][segLvlMax]bool
	featureData    [maxSegments][segLvlMax]int64
	segIDPreSkip   bool
	lastActiveSegID uint64

	codedLossless  bool
	allLossless    bool
	losslessArray  [maxSegments]bool

	currentQIndex uint64

	frameRestorationType []uint64
	usesLR               bool

	txMode TxMode

	gmType   [numRefFrames]WarpModel
	gmParams [numRefFrames][6]uint64

	cdefDamping uint64
}

// NewDecoder returns a Decoder ready to parse the OBUs of a new stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// ParseFrame constructs a BitReader over one coded frame's byte string (an
// IVF block or an MP4 sample) and parses its OBUs in sequence, mutating the
// Decoder's persistent stream state.
func (d *Decoder) ParseFrame(data []byte, log logging.Logger) error {
	r := bits.NewBitReader(data)
	for r.Remaining() > 0 {
		if err := d.parseOBU(r, log); err != nil {
			return err
		}
	}
	return nil
}
