package av1

import (
	"testing"

	"github.com/ausocean/av1scan/bits"
	"github.com/google/go-cmp/cmp"
)

// TestTileInfoUniformSpacing covers the uniform tile-spacing scenario:
// mi_cols=128, mi_rows=128, use_128x128_superblock=true, and every
// "increase tile_cols/rows_log2" bit clear, after a set
// uniform_tile_spacing_flag.
func TestTileInfoUniformSpacing(t *testing.T) {
	// uniform_tile_spacing_flag=1, increment_tile_cols_log2=0,
	// increment_tile_rows_log2=0 -> "100" padded to 0x80.
	data := []byte{0x80}

	d := NewDecoder()
	d.SequenceHeader.Use128x128Superblock = true
	d.miCols = 128
	d.miRows = 128

	r := newReader(bits.NewBitReader(data))
	if err := d.tileInfo(r); err != nil {
		t.Fatalf("tileInfo() error: %v", err)
	}

	if d.tileCols != 1 {
		t.Errorf("tileCols = %d, want 1", d.tileCols)
	}
	if d.tileRows != 1 {
		t.Errorf("tileRows = %d, want 1", d.tileRows)
	}
	if !cmp.Equal(d.miColStarts, []uint64{0, 128}) {
		t.Errorf("miColStarts = %v, want [0 128]", d.miColStarts)
	}
	if !cmp.Equal(d.miRowStarts, []uint64{0, 128}) {
		t.Errorf("miRowStarts = %v, want [0 128]", d.miRowStarts)
	}
}
