package mp4

import (
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

// SttsEntry is one run-length entry of a Decoding Time to Sample Box,
// ISO/IEC 14496-12 §8.6.1.2.
type SttsEntry struct {
	SampleCount uint32
	SampleDelta uint32
}

// Stts is the Decoding Time to Sample Box.
type Stts struct {
	Version uint8
	Flags   [3]byte
	Entries []SttsEntry
}

func parseStts(c *cursor) (Stts, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Stts{}, err
	}
	count, err := c.u32()
	if err != nil {
		return Stts{}, err
	}
	entries := make([]SttsEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		sc, err := c.u32()
		if err != nil {
			return Stts{}, err
		}
		sd, err := c.u32()
		if err != nil {
			return Stts{}, err
		}
		entries = append(entries, SttsEntry{SampleCount: sc, SampleDelta: sd})
	}
	return Stts{Version: version, Flags: flags, Entries: entries}, nil
}

// Stss is the Sync Sample Box, listing sample numbers of the track's
// random-access points, ISO/IEC 14496-12 §8.6.2.
type Stss struct {
	Version       uint8
	Flags         [3]byte
	SampleNumbers []uint32
}

func parseStss(c *cursor) (Stss, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Stss{}, err
	}
	count, err := c.u32()
	if err != nil {
		return Stss{}, err
	}
	nums := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		n, err := c.u32()
		if err != nil {
			return Stss{}, err
		}
		nums = append(nums, n)
	}
	return Stss{Version: version, Flags: flags, SampleNumbers: nums}, nil
}

// StscEntry is one run of chunks sharing a sample count, ISO/IEC
// 14496-12 §8.7.4.
type StscEntry struct {
	FirstChunk            uint32
	SamplesPerChunk       uint32
	SampleDescriptionIndex uint32
}

// Stsc is the Sample To Chunk Box.
type Stsc struct {
	Version uint8
	Flags   [3]byte
	Entries []StscEntry
}

func parseStsc(c *cursor) (Stsc, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Stsc{}, err
	}
	count, err := c.u32()
	if err != nil {
		return Stsc{}, err
	}
	entries := make([]StscEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		fc, err := c.u32()
		if err != nil {
			return Stsc{}, err
		}
		spc, err := c.u32()
		if err != nil {
			return Stsc{}, err
		}
		sdi, err := c.u32()
		if err != nil {
			return Stsc{}, err
		}
		entries = append(entries, StscEntry{FirstChunk: fc, SamplesPerChunk: spc, SampleDescriptionIndex: sdi})
	}
	return Stsc{Version: version, Flags: flags, Entries: entries}, nil
}

// Stsz is the Sample Size Box, ISO/IEC 14496-12 §8.7.3.2. When SampleSize
// is non-zero every sample shares that size and Entries is empty.
type Stsz struct {
	Version     uint8
	Flags       [3]byte
	SampleSize  uint32
	SampleCount uint32
	Entries     []uint32
}

func parseStsz(c *cursor) (Stsz, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Stsz{}, err
	}
	sampleSize, err := c.u32()
	if err != nil {
		return Stsz{}, err
	}
	sampleCount, err := c.u32()
	if err != nil {
		return Stsz{}, err
	}
	var entries []uint32
	if sampleSize == 0 {
		entries = make([]uint32, 0, sampleCount)
		for i := uint32(0); i < sampleCount; i++ {
			sz, err := c.u32()
			if err != nil {
				return Stsz{}, err
			}
			entries = append(entries, sz)
		}
	}
	return Stsz{Version: version, Flags: flags, SampleSize: sampleSize, SampleCount: sampleCount, Entries: entries}, nil
}

// Stco is the Chunk Offset Box, ISO/IEC 14496-12 §8.7.5.
type Stco struct {
	Version      uint8
	Flags        [3]byte
	ChunkOffsets []uint32
}

func parseStco(c *cursor) (Stco, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Stco{}, err
	}
	count, err := c.u32()
	if err != nil {
		return Stco{}, err
	}
	offsets := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		o, err := c.u32()
		if err != nil {
			return Stco{}, err
		}
		offsets = append(offsets, o)
	}
	return Stco{Version: version, Flags: flags, ChunkOffsets: offsets}, nil
}

// Fiel signals interlaced field ordering for a video sample entry.
type Fiel struct {
	FieldCount    uint8
	FieldOrdering uint8
}

// Pasp is the Pixel Aspect Ratio Box.
type Pasp struct {
	HSpacing uint32
	VSpacing uint32
}

// Btrt is the Bit Rate Box.
type Btrt struct {
	BufferSizeDB uint32
	MaxBitrate   uint32
	AvgBitrate   uint32
}

// Av1C is the AV1 Codec Configuration Box payload,
// https://aomediacodec.github.io/av1-isobmff/#av1codecconfigurationbox-syntax.
type Av1C struct {
	Version                          uint8
	SeqProfile                       uint8
	SeqLevelIdx0                     uint8
	SeqTier0                         bool
	HighBitdepth                     bool
	TwelveBit                        bool
	Monochrome                       bool
	ChromaSubsamplingX               bool
	ChromaSubsamplingY               bool
	ChromaSamplePosition             uint8
	InitialPresentationDelayPresent  bool
	InitialPresentationDelayMinusOne uint8
	ConfigOBUs                       []byte
}

func parseAv1C(c *cursor, size int) (Av1C, error) {
	markerVersion, err := c.u8()
	if err != nil {
		return Av1C{}, err
	}
	marker := markerVersion >> 7
	if marker != 1 {
		return Av1C{}, errs.New(errs.Malformed, "av1C", c.pos, nil, "marker bit must be 1, got %d", marker)
	}
	version := markerVersion & 0x7f
	if version != 1 {
		return Av1C{}, errs.New(errs.UnsupportedFormat, "av1C", c.pos, nil, "av1C version %d not supported", version)
	}
	profileLevel, err := c.u8()
	if err != nil {
		return Av1C{}, err
	}
	seqProfile := profileLevel >> 5
	seqLevelIdx0 := profileLevel & 0x1f
	params, err := c.u8()
	if err != nil {
		return Av1C{}, err
	}
	delay, err := c.u8()
	if err != nil {
		return Av1C{}, err
	}
	delayPresent := delay>>7 == 1
	var delayMinusOne uint8
	if delayPresent {
		delayMinusOne = delay & 0x0f
	}
	// 4 bytes (marker/version, profile/level, params, delay) already
	// consumed out of the declared box payload.
	remaining := size - 4
	if remaining < 0 {
		return Av1C{}, errs.New(errs.Malformed, "av1C", c.pos, nil, "av1C size %d too small", size)
	}
	obus, err := c.readN(remaining)
	if err != nil {
		return Av1C{}, err
	}

	return Av1C{
		Version:                          version,
		SeqProfile:                       seqProfile,
		SeqLevelIdx0:                     seqLevelIdx0,
		SeqTier0:                         params&0x80 != 0,
		HighBitdepth:                     params&0x40 != 0,
		TwelveBit:                        params&0x20 != 0,
		Monochrome:                       params&0x10 != 0,
		ChromaSubsamplingX:               params&0x08 != 0,
		ChromaSubsamplingY:               params&0x04 != 0,
		ChromaSamplePosition:             params & 0x03,
		InitialPresentationDelayPresent:  delayPresent,
		InitialPresentationDelayMinusOne: delayMinusOne,
		ConfigOBUs:                       obus,
	}, nil
}

// Av01SampleEntry is the AV1 Sample Entry Box, the SampleEntry variant that
// carries the AV1 configuration (§ SampleEntry design note).
type Av01SampleEntry struct {
	Width             uint16
	Height            uint16
	HorizResolution   uint32
	VertResolution    uint32
	FrameCount        uint16
	CompressorName    string
	Depth             uint16
	Av1C              Av1C
	Fiel              Fiel
	Pasp              Pasp
	Btrt              Btrt
}

func (Av01SampleEntry) sampleEntry() {}

func parseAv01(c *cursor) (Av01SampleEntry, error) {
	// pre_defined(2) + reserved(2) + pre_defined(12) = 16 bytes of visual
	// sample entry padding this parser has no use for.
	if err := c.skip(16); err != nil {
		return Av01SampleEntry{}, err
	}
	width, err := c.u16()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	height, err := c.u16()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	horiz, err := c.u32()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	vert, err := c.u32()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	if err := c.skip(4); err != nil { // reserved
		return Av01SampleEntry{}, err
	}
	frameCount, err := c.u16()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	compressorName, err := c.fourCC()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	if err := c.skip(28); err != nil { // remainder of the 32-byte compressorname field plus padding.
		return Av01SampleEntry{}, err
	}
	depth, err := c.u16()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	if err := c.skip(2); err != nil { // pre_defined
		return Av01SampleEntry{}, err
	}

	cfgHdr, err := c.readBoxHeader()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	if cfgHdr.typ != "av1C" {
		return Av01SampleEntry{}, errs.New(errs.UnsupportedFourCC, "av01", cfgHdr.start, nil, "config box %q not supported", cfgHdr.typ)
	}
	av1c, err := parseAv1C(c, int(cfgHdr.size)-8)
	if err != nil {
		return Av01SampleEntry{}, err
	}

	fielHdr, err := c.readBoxHeader()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	if fielHdr.typ != "fiel" {
		return Av01SampleEntry{}, errs.New(errs.UnsupportedFourCC, "av01", fielHdr.start, nil, "only 'fiel' supported, got %q", fielHdr.typ)
	}
	fieldCount, err := c.u8()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	fieldOrdering, err := c.u8()
	if err != nil {
		return Av01SampleEntry{}, err
	}

	paspHdr, err := c.readBoxHeader()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	if paspHdr.typ != "pasp" {
		return Av01SampleEntry{}, errs.New(errs.UnsupportedFourCC, "av01", paspHdr.start, nil, "only 'pasp' supported, got %q", paspHdr.typ)
	}
	hSpacing, err := c.u32()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	vSpacing, err := c.u32()
	if err != nil {
		return Av01SampleEntry{}, err
	}

	btrtHdr, err := c.readBoxHeader()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	if btrtHdr.typ != "btrt" {
		return Av01SampleEntry{}, errs.New(errs.UnsupportedFourCC, "av01", btrtHdr.start, nil, "only 'btrt' supported, got %q", btrtHdr.typ)
	}
	bufferSizeDB, err := c.u32()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	maxBitrate, err := c.u32()
	if err != nil {
		return Av01SampleEntry{}, err
	}
	avgBitrate, err := c.u32()
	if err != nil {
		return Av01SampleEntry{}, err
	}

	return Av01SampleEntry{
		Width:           width,
		Height:          height,
		HorizResolution: horiz,
		VertResolution:  vert,
		FrameCount:      frameCount,
		CompressorName:  compressorName,
		Depth:           depth,
		Av1C:            av1c,
		Fiel:            Fiel{FieldCount: fieldCount, FieldOrdering: fieldOrdering},
		Pasp:            Pasp{HSpacing: hSpacing, VSpacing: vSpacing},
		Btrt:            Btrt{BufferSizeDB: bufferSizeDB, MaxBitrate: maxBitrate, AvgBitrate: avgBitrate},
	}, nil
}

// SampleEntry is one entry of a Stsd box. Av01SampleEntry carries the full
// AV1 configuration; TextSampleEntry marks a "text" format entry whose body
// is opaque to this parser. Other formats are UnsupportedFormat.
type SampleEntry interface {
	sampleEntry()
}

// TextSampleEntry is a "text" format Stsd entry. Its body carries no AV1
// configuration and is kept only as an opaque byte run.
type TextSampleEntry struct {
	Opaque []byte
}

func (TextSampleEntry) sampleEntry() {}

// StsdEntry pairs a sample entry's four-character format and
// data_reference_index with its decoded body.
type StsdEntry struct {
	Format               string
	DataReferenceIndex   uint16
	Entry                SampleEntry
}

// Stsd is the Sample Description Box, ISO/IEC 14496-12 §8.5.2.
type Stsd struct {
	Version       uint8
	Flags         [3]byte
	HandlerType   uint32
	SampleEntries []StsdEntry
}

func parseStsd(c *cursor, hdr boxHeader) (Stsd, error) {
	version, flags, err := c.versionFlags()
	if err != nil {
		return Stsd{}, err
	}
	count, err := c.u32()
	if err != nil {
		return Stsd{}, err
	}
	handlerType, err := c.u32()
	if err != nil {
		return Stsd{}, err
	}
	end := hdr.start + int(hdr.size)
	entries := make([]StsdEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		format, err := c.fourCC()
		if err != nil {
			return Stsd{}, err
		}
		if err := c.skip(6); err != nil { // reserved
			return Stsd{}, err
		}
		dataRefIdx, err := c.u16()
		if err != nil {
			return Stsd{}, err
		}
		var entry SampleEntry
		switch format {
		case "av01":
			entry, err = parseAv01(c)
			if err != nil {
				return Stsd{}, err
			}
		case "text":
			opaque, err := c.readN(end - c.pos)
			if err != nil {
				return Stsd{}, err
			}
			entry = TextSampleEntry{Opaque: opaque}
		default:
			return Stsd{}, errs.New(errs.UnsupportedFormat, "stsd", c.pos, nil, "sample format %q not supported", format)
		}
		entries = append(entries, StsdEntry{Format: format, DataReferenceIndex: dataRefIdx, Entry: entry})
	}
	return Stsd{Version: version, Flags: flags, HandlerType: handlerType, SampleEntries: entries}, nil
}

// Stbl is the Sample Table Box, ISO/IEC 14496-12 §8.5.1.
type Stbl struct {
	Stsd Stsd
	Stts Stts
	Stss *Stss
	Stsc Stsc
	Stsz Stsz
	Stco Stco
}

func parseStbl(c *cursor, hdr boxHeader, log logging.Logger) (Stbl, error) {
	var (
		stsd    *Stsd
		stts    *Stts
		stss    *Stss
		stsc    *Stsc
		stsz    *Stsz
		stco    *Stco
	)
	end := hdr.start + int(hdr.size)
	for c.pos < end {
		child, err := c.readBoxHeader()
		if err != nil {
			return Stbl{}, err
		}
		switch child.typ {
		case "stsd":
			v, err := parseStsd(c, child)
			if err != nil {
				return Stbl{}, err
			}
			stsd = &v
		case "stts":
			v, err := parseStts(c)
			if err != nil {
				return Stbl{}, err
			}
			stts = &v
		case "stss":
			v, err := parseStss(c)
			if err != nil {
				return Stbl{}, err
			}
			stss = &v
		case "stsc":
			v, err := parseStsc(c)
			if err != nil {
				return Stbl{}, err
			}
			stsc = &v
		case "stsz":
			v, err := parseStsz(c)
			if err != nil {
				return Stbl{}, err
			}
			stsz = &v
		case "stco":
			v, err := parseStco(c)
			if err != nil {
				return Stbl{}, err
			}
			stco = &v
		default:
			return Stbl{}, errs.New(errs.UnsupportedFourCC, "stbl", child.start, nil, "box type %q not implemented", child.typ)
		}
		if c.pos != child.start+int(child.size) {
			return Stbl{}, errs.New(errs.Malformed, "stbl", c.pos, nil, "child box %q did not consume its declared size", child.typ)
		}
	}
	if stsd == nil {
		return Stbl{}, errs.New(errs.Malformed, "stbl", hdr.start, nil, "no stsd found")
	}
	if stts == nil {
		return Stbl{}, errs.New(errs.Malformed, "stbl", hdr.start, nil, "no stts found")
	}
	if stsc == nil {
		return Stbl{}, errs.New(errs.Malformed, "stbl", hdr.start, nil, "no stsc found")
	}
	if stsz == nil {
		return Stbl{}, errs.New(errs.Malformed, "stbl", hdr.start, nil, "no stsz found")
	}
	if stco == nil {
		return Stbl{}, errs.New(errs.Malformed, "stbl", hdr.start, nil, "no stco found")
	}
	log.Debug("mp4: parsed stbl", "samples", stsz.SampleCount)
	return Stbl{Stsd: *stsd, Stts: *stts, Stss: stss, Stsc: *stsc, Stsz: *stsz, Stco: *stco}, nil
}
