package mp4

import "testing"

// TestParseDrefRewind checks the preserved open-question behaviour: dref
// forcibly resyncs the cursor to the box's declared end regardless of how
// many bytes entry parsing actually consumed, tolerating a known malformed
// trailer rather than rejecting it as a cursor mismatch.
func TestParseDrefRewind(t *testing.T) {
	// size=24: 8-byte header + 4-byte version/flags + 4-byte entry_count(0)
	// + 8 trailing bytes that no entry parsing consumes.
	data := []byte{
		0x00, 0x00, 0x00, 0x18, 'd', 'r', 'e', 'f',
		0x00, 0x00, 0x00, 0x00, // version + flags
		0x00, 0x00, 0x00, 0x00, // entry_count = 0
		0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef, // unaccounted trailer
	}
	c := &cursor{buf: data}
	hdr, err := c.readBoxHeader()
	if err != nil {
		t.Fatalf("readBoxHeader() error: %v", err)
	}
	dref, err := parseDref(c, hdr)
	if err != nil {
		t.Fatalf("parseDref() error: %v", err)
	}
	if len(dref.Entries) != 0 {
		t.Errorf("Entries = %v, want empty", dref.Entries)
	}
	if c.pos != len(data) {
		t.Errorf("cursor position = %d, want %d (box end, rewound past trailer)", c.pos, len(data))
	}
}

// TestParseDrefURLEntry checks a single 'url ' entry with an empty
// location (the common self-contained-media case, flags bit 0 set).
func TestParseDrefURLEntry(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x1d, 'd', 'r', 'e', 'f',
		0x00, 0x00, 0x00, 0x00, // version + flags
		0x00, 0x00, 0x00, 0x01, // entry_count = 1
		0x00, 0x00, 0x00, 0x01, // entry version + flags
		'u', 'r', 'l', ' ',
		0x00,                   // empty cString location
		0xde, 0xad, 0xbe, 0xef, // unaccounted trailer (8 bytes incl. overlap)
	}
	c := &cursor{buf: data}
	hdr, err := c.readBoxHeader()
	if err != nil {
		t.Fatalf("readBoxHeader() error: %v", err)
	}
	dref, err := parseDref(c, hdr)
	if err != nil {
		t.Fatalf("parseDref() error: %v", err)
	}
	if len(dref.Entries) != 1 {
		t.Fatalf("Entries = %v, want 1 entry", dref.Entries)
	}
	url, ok := dref.Entries[0].(UrlEntry)
	if !ok {
		t.Fatalf("Entries[0] = %T, want UrlEntry", dref.Entries[0])
	}
	if url.Location != "" {
		t.Errorf("Location = %q, want empty", url.Location)
	}
}
