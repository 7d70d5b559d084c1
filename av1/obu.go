/*
DESCRIPTION
  obu.go provides the Open Bitstream Unit header and top-level dispatch:
  reading the 1-byte obu_header, the leb128 obu_size, routing to the
  per-type parser, and consuming the fixed trailing-bits pattern that
  follows non-tile-data OBU payloads.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package av1

import (
	"github.com/ausocean/av1scan/bits"
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/utils/logging"
)

// ObuType identifies an Open Bitstream Unit's payload syntax, §6.2.2.
type ObuType int

const (
	ObuTypeReserved             ObuType = 0
	ObuTypeSequenceHeader       ObuType = 1
	ObuTypeTemporalDelimiter    ObuType = 2
	ObuTypeFrameHeader          ObuType = 3
	ObuTypeTileGroup            ObuType = 4
	ObuTypeMetadata             ObuType = 5
	ObuTypeFrame                ObuType = 6
	ObuTypeRedundantFrameHeader ObuType = 7
	ObuTypeTileList             ObuType = 8
	ObuTypePadding              ObuType = 15
)

// newObuType validates val against the full obu_type value space, §6.2.2.
// Values 9-14 are genuinely reserved and outside the accepted set
// (InvalidEnum); 3, 5, 7 and 15 name real, defined OBU types this parser
// does not implement (UnsupportedObuType).
func newObuType(val uint64) (ObuType, error) {
	switch val {
	case 0, 1, 2, 4, 6, 8:
		return ObuType(val), nil
	case 3, 5, 7, 15:
		return ObuType(val), errs.New(errs.UnsupportedObuType, "obu", 0, nil, "obu_type %d not implemented", val)
	default:
		return 0, errs.New(errs.InvalidEnum, "obu", 0, nil, "unknown obu_type %d", val)
	}
}

// ObuHeader is the obu_header() syntax, §5.3.2.
type ObuHeader struct {
	Type    ObuType
	HasSize bool
}

// parseOBU reads one OBU from br: header, size, type-dispatched payload,
// and (where applicable) the trailing alignment bits.
func (d *Decoder) parseOBU(br *bits.BitReader, log logging.Logger) error {
	r := newReader(br)
	headerStart := br.PositionBits()

	forbiddenBit := r.f(1)
	typeVal := r.f(4)
	extensionFlag := r.flag()
	hasSize := r.flag()
	r.f(1) // obu_reserved_1bit

	if r.err != nil {
		return r.err
	}
	if forbiddenBit != 0 {
		return errs.New(errs.Malformed, "obu", headerStart, nil, "obu_forbidden_bit must be 0")
	}

	obuType, err := newObuType(typeVal)
	if err != nil {
		return err
	}

	if extensionFlag {
		return errs.Unsupported("obu", headerStart, "extension_header")
	}
	if !hasSize {
		return errs.New(errs.Malformed, "obu", headerStart, nil, "missing obu_size")
	}

	size := r.leb128()
	if r.err != nil {
		return r.err
	}

	startPosition := br.PositionBits()

	switch obuType {
	case ObuTypeSequenceHeader:
		sh, err := d.sequenceHeader(r)
		if err != nil {
			return err
		}
		d.SequenceHeader = sh
		log.Debug("av1: parsed sequence_header", "seqProfile", sh.SeqProfile, "maxFrameWidth", sh.MaxFrameWidth, "maxFrameHeight", sh.MaxFrameHeight)
	case ObuTypeTemporalDelimiter:
		d.seenFrameHeader = false
	case ObuTypeFrame:
		if err := d.frame(r); err != nil {
			return err
		}
		consumed := int64(br.PositionBits() - startPosition)
		remaining := int64(size)*8 - consumed
		if remaining < 0 {
			return errs.New(errs.Malformed, "obu", br.PositionBits(), nil, "frame header exceeded declared obu_size")
		}
		if remaining > 0 {
			r.skip(int(remaining))
			if r.err != nil {
				return r.err
			}
		}
	case ObuTypeTileGroup, ObuTypeTileList:
		// Tile data is not parsed by this implementation; consume it
		// opaquely so the cursor lands on the next OBU.
		r.skip(int(size) * 8)
		if r.err != nil {
			return r.err
		}
	default:
		return errs.Unsupported("obu", headerStart, "obu_type not implemented")
	}

	payloadBits := br.PositionBits() - startPosition

	if size > 0 && obuType != ObuTypeTileGroup && obuType != ObuTypeTileList && obuType != ObuTypeFrame {
		nbBits := int64(size)*8 - int64(payloadBits)
		first := r.f(1)
		if r.err != nil {
			return r.err
		}
		if first != 1 {
			return errs.New(errs.Malformed, "obu", br.PositionBits(), nil, "trailing bits: expected leading 1")
		}
		nbBits--
		for nbBits > 0 {
			b := r.f(1)
			if r.err != nil {
				return r.err
			}
			if b != 0 {
				return errs.New(errs.Malformed, "obu", br.PositionBits(), nil, "trailing bits: expected 0")
			}
			nbBits--
		}
	}

	return nil
}
