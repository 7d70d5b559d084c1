package av1

import "github.com/ausocean/av1scan/errs"

const (
	maxTileWidth = 4096
	maxTileArea  = 4096 * 2304
	maxTileCols  = 64
	maxTileRows  = 64
)

// tileLog2 returns the smallest k such that blkSize<<k >= target.
func tileLog2(blkSize, target uint64) uint64 {
	var k uint64
	for (blkSize << k) < target {
		k++
	}
	return k
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// tileInfo is tile_info(), §5.9.15: establishes the tile grid from the mi
// dimensions computed by frameSize. Only uniform tile spacing is
// implemented; a stream signalling explicit per-tile widths is Unsupported.
func (d *Decoder) tileInfo(r *reader) error {
	var sbCols, sbRows uint64
	var sbShift int
	if d.SequenceHeader.Use128x128Superblock {
		sbCols = (d.miCols + 31) >> 5
		sbRows = (d.miRows + 31) >> 5
		sbShift = 5
	} else {
		sbCols = (d.miCols + 15) >> 4
		sbRows = (d.miRows + 15) >> 4
		sbShift = 4
	}

	sbSize := uint64(sbShift + 2)
	maxTileWidthSb := uint64(maxTileWidth) >> sbSize
	maxTileAreaSb := uint64(maxTileArea) >> (2 * sbSize)
	minLog2TileCols := tileLog2(maxTileWidthSb, sbCols)
	maxLog2TileCols := tileLog2(1, minUint64(sbCols, maxTileCols))
	maxLog2TileRows := tileLog2(1, minUint64(sbRows, maxTileRows))
	minLog2Tiles := minLog2TileCols
	if v := tileLog2(maxTileAreaSb, sbRows*sbCols); v > minLog2Tiles {
		minLog2Tiles = v
	}

	uniformTileSpacing := r.flag()
	if !uniformTileSpacing {
		return errs.Unsupported("tile_info", r.br.PositionBits(), "non_uniform_tiling")
	}

	d.tileColsLog2 = int(minLog2TileCols)
	for uint64(d.tileColsLog2) < maxLog2TileCols {
		if !r.flag() {
			break
		}
		d.tileColsLog2++
	}

	tileWidthSb := (sbCols + (1 << uint(d.tileColsLog2)) - 1) >> uint(d.tileColsLog2)
	d.miColStarts = make([]uint64, sbCols+1)
	i := 0
	for startSb := uint64(0); startSb < sbCols; startSb += tileWidthSb {
		d.miColStarts[i] = startSb << uint(sbShift)
		i++
	}
	d.miColStarts[i] = d.miCols
	d.miColStarts = d.miColStarts[:i+1]
	d.tileCols = uint64(i)

	d.tileRowsLog2 = maxInt(0, int(minLog2Tiles)-d.tileColsLog2)
	for uint64(d.tileRowsLog2) < maxLog2TileRows {
		if !r.flag() {
			break
		}
		d.tileRowsLog2++
	}

	tileHeightSb := (sbRows + (1 << uint(d.tileRowsLog2)) - 1) >> uint(d.tileRowsLog2)
	d.miRowStarts = make([]uint64, sbRows+1)
	i = 0
	for startSb := uint64(0); startSb < sbRows; startSb += tileHeightSb {
		d.miRowStarts[i] = startSb << uint(sbShift)
		i++
	}
	d.miRowStarts[i] = d.miRows
	d.miRowStarts = d.miRowStarts[:i+1]
	d.tileRows = uint64(i)

	if d.tileColsLog2 > 0 || d.tileRowsLog2 > 0 {
		r.f(d.tileRowsLog2 + d.tileColsLog2) // context_update_tile_id, unused
		d.tileSizeBytes = r.f(2) + 1
	}

	return r.err
}
