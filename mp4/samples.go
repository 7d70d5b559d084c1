/*
DESCRIPTION
  samples.go walks a track's sample tables (stsc/stsz/stco) to recover the
  ordered list of sample byte ranges within mdat, the step spec.md's data
  flow needs between the MP4 parser and the AV1 decoder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mp4

import "github.com/ausocean/av1scan/errs"

// Av1Samples returns the ordered per-sample AV1 byte strings of the first
// track whose sample description carries an Av01SampleEntry, reconstructed
// from that track's Stsc/Stsz/Stco tables against Mdat.
func (m *Mp4) Av1Samples() ([][]byte, error) {
	for _, trak := range m.Moov.Traks {
		stbl := trak.Mdia.Minf.Stbl
		if !hasAv01(stbl.Stsd) {
			continue
		}
		return samplesForTrack(m, stbl)
	}
	return nil, errs.New(errs.Malformed, "mp4", 0, nil, "no av01 track found")
}

func hasAv01(stsd Stsd) bool {
	for _, e := range stsd.SampleEntries {
		if _, ok := e.Entry.(Av01SampleEntry); ok {
			return true
		}
	}
	return false
}

// samplesForTrack walks Stsc's chunk runs in order, assigning each chunk's
// declared sample count from Stsz's entry list (or its fixed SampleSize)
// consecutive byte ranges starting at that chunk's Stco offset.
func samplesForTrack(m *Mp4, stbl Stbl) ([][]byte, error) {
	sizes := stbl.Stsz.Entries
	fixedSize := stbl.Stsz.SampleSize
	offsets := stbl.Stco.ChunkOffsets
	runs := stbl.Stsc.Entries

	samples := make([][]byte, 0, stbl.Stsz.SampleCount)
	sampleIdx := 0

	for runIdx, run := range runs {
		// The last run extends to the final chunk; every other run ends
		// just before the next run's FirstChunk.
		lastChunk := uint32(len(offsets))
		if runIdx+1 < len(runs) {
			lastChunk = runs[runIdx+1].FirstChunk - 1
		}
		for chunk := run.FirstChunk; chunk <= lastChunk; chunk++ {
			if int(chunk) < 1 || int(chunk) > len(offsets) {
				return nil, errs.New(errs.Malformed, "mp4", 0, nil, "chunk %d out of range", chunk)
			}
			pos := int(offsets[chunk-1]) - m.mdatOffset
			for i := uint32(0); i < run.SamplesPerChunk; i++ {
				size := fixedSize
				if size == 0 {
					if sampleIdx >= len(sizes) {
						return nil, errs.New(errs.Malformed, "mp4", 0, nil, "stsz entry missing for sample %d", sampleIdx)
					}
					size = sizes[sampleIdx]
				}
				if pos < 0 || pos+int(size) > len(m.Mdat) {
					return nil, errs.New(errs.Malformed, "mp4", pos, nil, "sample %d out of mdat bounds", sampleIdx)
				}
				samples = append(samples, m.Mdat[pos:pos+int(size)])
				pos += int(size)
				sampleIdx++
			}
		}
	}
	return samples, nil
}
