package disk

import "testing"

func TestWriteBitThenReadBitRoundTrips(t *testing.T) {
	d := New()
	d.FormatTrack(0, 16)
	d.WriteBit(0, 3, true)
	d.WriteBit(0, 10, true)

	if !d.ReadBit(0, 3) {
		t.Fatalf("bit 3 should read back set")
	}
	if d.ReadBit(0, 4) {
		t.Fatalf("bit 4 should read back clear")
	}
	if !d.ReadBit(0, 10) {
		t.Fatalf("bit 10 should read back set")
	}
}

func TestReadWriteWrapModuloBitLength(t *testing.T) {
	d := New()
	d.FormatTrack(0, 8)
	d.WriteBit(0, 0, true)
	if !d.ReadBit(0, 8) {
		t.Fatalf("reading position 8 on an 8-bit track should wrap to position 0")
	}
}

func TestUnformattedTrackReadsFalse(t *testing.T) {
	d := New()
	if d.ReadBit(5, 0) {
		t.Fatalf("an unformatted halftrack should read as all-zero")
	}
}

func TestWriteToUnformattedTrackIsANoOp(t *testing.T) {
	d := New()
	d.WriteBit(5, 0, true) // must not panic on a zero-length track
	if d.ReadBit(5, 0) {
		t.Fatalf("writing to an unformatted track should have no effect")
	}
}

func TestSectorsPerTrackZoneBoundaries(t *testing.T) {
	cases := []struct {
		track, want int
	}{
		{1, 21}, {17, 21}, {18, 19}, {24, 19}, {25, 18}, {30, 18}, {31, 17}, {35, 17}, {40, 17},
	}
	for _, c := range cases {
		if got := SectorsPerTrack(c.track); got != c.want {
			t.Errorf("SectorsPerTrack(%d) = %d, want %d", c.track, got, c.want)
		}
	}
}
