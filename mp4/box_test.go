package mp4

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dumbLogger) SetLevel(l int8)                         {}
func (dumbLogger) Debug(msg string, args ...interface{})   {}
func (dumbLogger) Info(msg string, args ...interface{})    {}
func (dumbLogger) Warning(msg string, args ...interface{}) {}
func (dumbLogger) Error(msg string, args ...interface{})   {}
func (dumbLogger) Fatal(msg string, args ...interface{})   {}

// TestParseFtyp covers the ftyp scenario from the test-scenario catalog:
// major_brand "isom", minor_version 512, compatible brands [isom, av01].
func TestParseFtyp(t *testing.T) {
	ftypBytes := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
		'i', 's', 'o', 'm', 'a', 'v', '0', '1',
	}

	c := &cursor{buf: ftypBytes}
	hdr, err := c.readBoxHeader()
	if err != nil {
		t.Fatalf("readBoxHeader() error: %v", err)
	}
	got, err := parseFtyp(c, hdr)
	if err != nil {
		t.Fatalf("parseFtyp() error: %v", err)
	}
	want := Ftyp{
		MajorBrand:       "isom",
		MinorVersion:     512,
		CompatibleBrands: []string{"isom", "av01"},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("parseFtyp() mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
	if c.pos != len(ftypBytes) {
		t.Errorf("cursor position = %d, want %d (end of box)", c.pos, len(ftypBytes))
	}
}

// TestParseRejectsUnknownBox checks the strict-parsing invariant: a
// top-level box type this parser does not implement aborts the parse.
func TestParseRejectsUnknownBox(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x08, 'f', 'r', 'e', 'e'}
	if _, err := Parse(data, dumbLogger{}); err == nil {
		t.Errorf("Parse() with unknown box type: expected error, got nil")
	}
}

// TestParseRejectsTruncatedBox checks that a box declaring more bytes than
// the file holds aborts the parse on the resulting short read.
func TestParseRejectsTruncatedBox(t *testing.T) {
	// An ftyp box declaring size 24 but with only one trailing compatible
	// brand's worth of bytes present (size implies two).
	data := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
		'i', 's', 'o', 'm',
	}
	if _, err := Parse(data, dumbLogger{}); err == nil {
		t.Errorf("Parse() with truncated ftyp: expected error, got nil")
	}
}

// TestParseRequiresFtypAndMoov checks that an ftyp-only file (no moov) is
// rejected.
func TestParseRequiresFtypAndMoov(t *testing.T) {
	ftypOnly := []byte{
		0x00, 0x00, 0x00, 0x10, 'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', 0x00, 0x00, 0x00, 0x00,
	}
	if _, err := Parse(ftypOnly, dumbLogger{}); err == nil {
		t.Errorf("Parse() with no moov: expected error, got nil")
	}
}
