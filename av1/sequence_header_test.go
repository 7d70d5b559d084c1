package av1

import (
	"testing"

	"github.com/ausocean/av1scan/bits"
)

// TestSequenceHeaderMinimal covers the minimal sequence header scenario:
// reduced_still_picture_header=1, seq_profile=0, frame size 320x240 coded
// with 9-bit width/height fields (frame_width_bits_minus_1 ==
// frame_height_bits_minus_1 == 8). The reduced-still-picture path hardcodes
// operating_points_cnt=1 and the screen-content/integer-mv/order-hint
// sentinels without consuming any bitstream bits for them.
func TestSequenceHeaderMinimal(t *testing.T) {
	// Bit layout (see av1/sequence_header.go, av1/color_config.go):
	//   seq_profile(3)=0, still_picture(1)=1, reduced_still_picture_header(1)=1,
	//   frame_width_bits_minus_1(4)=8, frame_height_bits_minus_1(4)=8,
	//   max_frame_width_minus_1(9)=319, max_frame_height_minus_1(9)=239,
	//   use_128x128_superblock(1)=0, enable_filter_intra(1)=0,
	//   enable_intra_edge_filter(1)=0, enable_superres(1)=0, enable_cdef(1)=0,
	//   enable_restoration(1)=0, high_bitdepth(1)=0, mono_chrome(1)=0,
	//   color_description_present_flag(1)=0, color_range(1)=0,
	//   chroma_sample_position(2)=0, separate_uv_delta_q(1)=0,
	//   film_grain_params_present(1)=0.
	data := []byte{0x1c, 0x44, 0xfd, 0xde, 0x00, 0x00}

	d := NewDecoder()
	r := newReader(bits.NewBitReader(data))
	sh, err := d.sequenceHeader(r)
	if err != nil {
		t.Fatalf("sequenceHeader() error: %v", err)
	}

	if sh.OperatingPointsCnt != 1 {
		t.Errorf("OperatingPointsCnt = %d, want 1", sh.OperatingPointsCnt)
	}
	if sh.SeqForceScreenContentTools != selectScreenContentTools {
		t.Errorf("SeqForceScreenContentTools = %d, want %d", sh.SeqForceScreenContentTools, selectScreenContentTools)
	}
	if sh.SeqForceIntegerMv != selectIntegerMv {
		t.Errorf("SeqForceIntegerMv = %d, want %d", sh.SeqForceIntegerMv, selectIntegerMv)
	}
	if d.orderHintBits != 0 {
		t.Errorf("orderHintBits = %d, want 0", d.orderHintBits)
	}
	if sh.MaxFrameWidth != 320 {
		t.Errorf("MaxFrameWidth = %d, want 320", sh.MaxFrameWidth)
	}
	if sh.MaxFrameHeight != 240 {
		t.Errorf("MaxFrameHeight = %d, want 240", sh.MaxFrameHeight)
	}
	if !sh.ReducedStillPictureHeader {
		t.Errorf("ReducedStillPictureHeader = false, want true")
	}
}
