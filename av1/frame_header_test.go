package av1

import (
	"testing"

	"github.com/ausocean/av1scan/bits"
)

// TestUncompressedHeaderReducedStillPicture drives uncompressedHeader()
// through a complete reduced-still-picture, intra, error-resilient,
// primary_ref_frame==NONE pass: the one path this parser fully implements.
// It also exercises the preserved cdef_params quirk along the way (the
// inverted enable_cdef check: EnableCdef=true here takes the "disabled"
// branch) and checks that base_q_idx is retained in QuantizationParams.
func TestUncompressedHeaderReducedStillPicture(t *testing.T) {
	data := []byte{0x22, 0x00, 0x00, 0x00, 0x80}

	d := NewDecoder()
	d.SequenceHeader = SequenceHeader{
		FrameIDNumbersPresent:      false,
		ReducedStillPictureHeader:  true,
		SeqForceScreenContentTools: 0,
		MaxFrameWidth:              8,
		MaxFrameHeight:             8,
		EnableSuperres:             false,
		EnableCdef:                 true,
		EnableRestoration:          false,
		EnableWarpedMotion:         false,
		EnableOrderHint:            false,
		FilmGrainParamsPresent:     false,
	}
	d.orderHintBits = 0
	d.numPlanes = NumPlanesOne

	r := newReader(bits.NewBitReader(data))
	uh, err := d.uncompressedHeader(r)
	if err != nil {
		t.Fatalf("uncompressedHeader() error: %v", err)
	}

	if uh.FrameType != FrameTypeKey {
		t.Errorf("FrameType = %v, want FrameTypeKey", uh.FrameType)
	}
	if !uh.ShowFrame {
		t.Errorf("ShowFrame = false, want true")
	}
	if uh.ShowableFrame {
		t.Errorf("ShowableFrame = true, want false")
	}
	if uh.RefreshFrameFlags != allRefFramesMask {
		t.Errorf("RefreshFrameFlags = %#x, want %#x", uh.RefreshFrameFlags, allRefFramesMask)
	}
	if uh.FrameWidth != 8 || uh.FrameHeight != 8 {
		t.Errorf("FrameWidth/FrameHeight = %d/%d, want 8/8", uh.FrameWidth, uh.FrameHeight)
	}
	if uh.UpscaledWidth != 8 {
		t.Errorf("UpscaledWidth = %d, want 8", uh.UpscaledWidth)
	}
	if uh.TileCols != 1 || uh.TileRows != 1 {
		t.Errorf("TileCols/TileRows = %d/%d, want 1/1", uh.TileCols, uh.TileRows)
	}
	if uh.QuantizationParams.BaseQIdx != 16 {
		t.Errorf("QuantizationParams.BaseQIdx = %d, want 16", uh.QuantizationParams.BaseQIdx)
	}
	if uh.SegmentationEnabled {
		t.Errorf("SegmentationEnabled = true, want false")
	}
	if uh.CodedLossless {
		t.Errorf("CodedLossless = true, want false")
	}
	if uh.AllLossless {
		t.Errorf("AllLossless = true, want false")
	}
	if uh.TxMode != TxModeLargest {
		t.Errorf("TxMode = %v, want TxModeLargest", uh.TxMode)
	}
	if !uh.ReducedTxSet {
		t.Errorf("ReducedTxSet = false, want true")
	}
	if uh.SkipModeAllowed || uh.SkipModePresent {
		t.Errorf("SkipModeAllowed/SkipModePresent = %v/%v, want false/false", uh.SkipModeAllowed, uh.SkipModePresent)
	}
}

// TestUncompressedHeaderRejectsInterFrame checks the inter-frame gate: a
// frame_type of Inter is not intra, so it fails the frameIsIntra/refresh
// check and is Unsupported.
func TestUncompressedHeaderRejectsInterFrame(t *testing.T) {
	// frame_type(2)=1 (Inter) packed at the top of a non-reduced header:
	// show_existing_frame(1)=0, frame_type(2)=01 (Inter) -> 001xxxxx = 0x20.
	data := []byte{0x20, 0x00, 0x00, 0x00}

	d := NewDecoder()
	d.SequenceHeader = SequenceHeader{
		ReducedStillPictureHeader: false,
		DecoderModelInfoPresent:   false,
	}
	d.orderHintBits = 0

	r := newReader(bits.NewBitReader(data))
	_, err := d.uncompressedHeader(r)
	if err == nil {
		t.Errorf("uncompressedHeader() with frame_type=Inter: expected error, got nil")
	}
}
