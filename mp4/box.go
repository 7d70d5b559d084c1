/*
DESCRIPTION
  box.go provides the top-level entry point for parsing an ISOBMFF (MP4)
  file into its box tree: ftyp, moov and the raw mdat payload.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mp4 parses the subset of ISO/IEC 14496-12 (ISOBMFF) boxes needed
// to locate and describe AV1 samples carried in an MP4 file: ftyp, moov
// (and its full descendant tree down to the sample tables) and mdat.
package mp4

import (
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

// Mp4 is a fully parsed MP4 file.
type Mp4 struct {
	Ftyp Ftyp
	Moov Moov
	Mdat []byte

	// mdatOffset is the file offset of Mdat[0], needed to translate the
	// absolute chunk offsets in Stco into indices into Mdat.
	mdatOffset int
}

// Parse reads an ISOBMFF file from data and returns its box tree. Parsing
// is strict: any box type this parser does not implement, or any child
// box that does not consume exactly its declared size, aborts the parse.
func Parse(data []byte, log logging.Logger) (*Mp4, error) {
	c := &cursor{buf: data}
	var (
		ftyp       *Ftyp
		moov       *Moov
		mdat       []byte
		mdatOffset int
		gotFtyp    bool
	)
	for c.pos < len(data) {
		hdr, err := c.readBoxHeader()
		if err != nil {
			log.Error("mp4: failed reading box header", "error", err)
			return nil, err
		}
		switch hdr.typ {
		case "ftyp":
			f, err := parseFtyp(c, hdr)
			if err != nil {
				log.Error("mp4: failed parsing ftyp", "error", err)
				return nil, err
			}
			ftyp, gotFtyp = &f, true
		case "moov":
			m, err := parseMoov(c, hdr, log)
			if err != nil {
				log.Error("mp4: failed parsing moov", "error", err)
				return nil, err
			}
			moov = &m
		case "mdat":
			data, err := c.readN(int(hdr.size) - 8)
			if err != nil {
				log.Error("mp4: failed reading mdat", "error", err)
				return nil, err
			}
			mdat = data
			mdatOffset = hdr.start + 8
		default:
			err := errs.New(errs.UnsupportedFourCC, "mp4", hdr.start, nil, "box type %q not implemented", hdr.typ)
			log.Error("mp4: unsupported box", "error", err)
			return nil, err
		}
		if c.pos != hdr.start+int(hdr.size) {
			err := errs.New(errs.Malformed, "mp4", c.pos, nil, "box %q did not consume its declared size", hdr.typ)
			log.Error("mp4: cursor mismatch", "error", err)
			return nil, err
		}
	}
	if !gotFtyp {
		return nil, errs.New(errs.Malformed, "mp4", 0, nil, "no ftyp found")
	}
	if moov == nil {
		return nil, errs.New(errs.Malformed, "mp4", 0, nil, "no moov found")
	}

	log.Info("mp4: parsed file", "majorBrand", ftyp.MajorBrand, "tracks", len(moov.Traks))
	return &Mp4{Ftyp: *ftyp, Moov: *moov, Mdat: mdat, mdatOffset: mdatOffset}, nil
}
