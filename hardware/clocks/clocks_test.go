package clocks

import "testing"

func TestBadLineRangeCoversStandardVisibleArea(t *testing.T) {
	if FirstVisibleBadLine != 0x30 || LastVisibleBadLine != 0xf7 {
		t.Fatalf("bad line range = [%#02x,%#02x], want [0x30,0xf7]", FirstVisibleBadLine, LastVisibleBadLine)
	}
}

func TestNTSCHasMoreCyclesPerLineThanPAL(t *testing.T) {
	if NTSCCyclesPerLine <= PALCyclesPerLine {
		t.Fatalf("NTSC (%d) should have more cycles per line than PAL (%d)", NTSCCyclesPerLine, PALCyclesPerLine)
	}
}

func TestPALHasMoreScanlinesThanNTSC(t *testing.T) {
	if PALScanlines <= NTSCScanlines {
		t.Fatalf("PAL (%d) should have more scanlines per frame than NTSC (%d)", PALScanlines, NTSCScanlines)
	}
}
