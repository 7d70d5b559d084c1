/*
DESCRIPTION
  errs.go defines the typed error kinds shared by the mp4, ivf and av1
  parsers, each carrying the byte or bit offset at which the error was
  raised and wrapped with github.com/pkg/errors to preserve the call chain.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package errs defines the typed error kinds raised by the mp4, ivf and av1
// parsers.
package errs

import "github.com/pkg/errors"

// Kind identifies the category of a parse error.
type Kind int

const (
	// Io indicates a failure reading the underlying byte buffer.
	Io Kind = iota
	// Malformed indicates a structurally invalid box, frame or OBU.
	Malformed
	// UnsupportedExtension indicates a file extension the CLI does not
	// know how to dispatch.
	UnsupportedExtension
	// UnsupportedFormat indicates a recognised but unsupported container
	// or bitstream feature.
	UnsupportedFormat
	// UnsupportedFourCC indicates a box or sample-entry four-character
	// code this parser does not implement.
	UnsupportedFourCC
	// UnsupportedObuType indicates an OBU type this parser does not
	// implement.
	UnsupportedObuType
	// InvalidEnum indicates a field value outside its defined enum range.
	InvalidEnum
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case Malformed:
		return "malformed"
	case UnsupportedExtension:
		return "unsupported extension"
	case UnsupportedFormat:
		return "unsupported format"
	case UnsupportedFourCC:
		return "unsupported fourcc"
	case UnsupportedObuType:
		return "unsupported obu type"
	case InvalidEnum:
		return "invalid enum"
	default:
		return "unknown"
	}
}

// Error is a parse error tagged with a Kind and the offset (in bytes for
// container parsers, in bits for the AV1 parser) at which it occurred.
type Error struct {
	Kind   Kind
	Offset int
	Chain  string // enclosing box/OBU chain, e.g. "moov/trak/mdia".
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap lets errors.Is / errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err as an Error of the given kind, chain and offset, using
// errors.Wrapf for a formatted message so the chain appears in the error
// text as well as in the struct.
func New(kind Kind, chain string, offset int, err error, format string, args ...interface{}) error {
	var msg error
	if err == nil {
		msg = errors.Errorf(format, args...)
	} else {
		msg = errors.Wrapf(err, format, args...)
	}
	return &Error{
		Kind:   kind,
		Offset: offset,
		Chain:  chain,
		Err:    errors.Wrapf(msg, "%s: at %s offset %d", kind, chain, offset),
	}
}

// Unsupported is a convenience constructor for UnsupportedFormat errors
// raised on a feature this parser deliberately does not implement.
func Unsupported(chain string, offset int, reason string) error {
	return &Error{
		Kind:   UnsupportedFormat,
		Offset: offset,
		Chain:  chain,
		Err:    errors.Errorf("unsupported format: %s: at %s offset %d: %s", chain, chain, offset, reason),
	}
}
