package loader

import (
	"encoding/binary"
	"testing"

	"github.com/go64/go64/hardware/expansion"
)

func TestParsePRGSplitsLoadAddressFromBody(t *testing.T) {
	data := []byte{0x01, 0x08, 0xaa, 0xbb}
	p, err := ParsePRG(data)
	if err != nil {
		t.Fatalf("ParsePRG: %v", err)
	}
	if p.LoadAddress != 0x0801 {
		t.Fatalf("LoadAddress = %#04x, want 0x0801", p.LoadAddress)
	}
	if len(p.Data) != 2 || p.Data[0] != 0xaa {
		t.Fatalf("Data = %v, want [0xaa 0xbb]", p.Data)
	}
}

func TestParsePRGRejectsTooShort(t *testing.T) {
	if _, err := ParsePRG([]byte{0x01}); err == nil {
		t.Fatalf("expected an error for a PRG with no body")
	}
}

func TestParseP00UnwrapsHeaderAndDelegatesToPRG(t *testing.T) {
	data := make([]byte, 26+4)
	copy(data, "C64File\x00")
	copy(data[26:], []byte{0x00, 0xc0, 0x11, 0x22})
	p, err := ParseP00(data)
	if err != nil {
		t.Fatalf("ParseP00: %v", err)
	}
	if p.LoadAddress != 0xc000 {
		t.Fatalf("LoadAddress = %#04x, want 0xc000", p.LoadAddress)
	}
}

func TestParseP00RejectsBadMagic(t *testing.T) {
	data := make([]byte, 30)
	copy(data, "NOTMAGIC")
	if _, err := ParseP00(data); err == nil {
		t.Fatalf("expected an error for a bad P00 magic")
	}
}

func t64WithOneEntry(name string, loadAddr uint16, body []byte) []byte {
	header := make([]byte, 64)
	binary.LittleEndian.PutUint16(header[34:36], 1) // maxEntries
	binary.LittleEndian.PutUint16(header[36:38], 1) // usedEntries

	entry := make([]byte, 32)
	entry[0] = 1 // entry type, non-zero
	binary.LittleEndian.PutUint16(entry[2:4], loadAddr)
	binary.LittleEndian.PutUint16(entry[4:6], loadAddr+uint16(len(body)))
	binary.LittleEndian.PutUint32(entry[8:12], uint32(64+32))
	copy(entry[16:32], name)

	return append(append(header, entry...), body...)
}

func TestParseT64DecodesOneEntry(t *testing.T) {
	data := t64WithOneEntry("HELLO", 0x0801, []byte{1, 2, 3, 4})
	entries, err := ParseT64(data)
	if err != nil {
		t.Fatalf("ParseT64: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].LoadAddress != 0x0801 {
		t.Fatalf("LoadAddress = %#04x, want 0x0801", entries[0].LoadAddress)
	}
	if len(entries[0].Data) != 4 {
		t.Fatalf("Data length = %d, want 4", len(entries[0].Data))
	}
}

func TestParseT64RejectsInconsistentEntryCount(t *testing.T) {
	header := make([]byte, 64)
	binary.LittleEndian.PutUint16(header[34:36], 1)
	binary.LittleEndian.PutUint16(header[36:38], 5) // more used than max
	if _, err := ParseT64(header); err == nil {
		t.Fatalf("expected an error for an inconsistent entry count")
	}
}

func TestParseD64RejectsWrongSize(t *testing.T) {
	if _, err := ParseD64(make([]byte, 100)); err == nil {
		t.Fatalf("expected an error for an undersized D64 image")
	}
}

func TestParseD64RoundTripsFirstSectorBytes(t *testing.T) {
	data := make([]byte, 174848)
	data[0] = 0xaa
	data[1] = 0x55
	dk, err := ParseD64(data)
	if err != nil {
		t.Fatalf("ParseD64: %v", err)
	}
	var b byte
	for bit := 0; bit < 8; bit++ {
		if dk.ReadBit(0, bit) {
			b |= 1 << uint(7-bit)
		}
	}
	if b != 0xaa {
		t.Fatalf("first byte of track 1 decoded as %#02x, want 0xaa", b)
	}
}

func TestParseG64RejectsBadMagic(t *testing.T) {
	if _, err := ParseG64([]byte("not a g64 file at all")); err == nil {
		t.Fatalf("expected an error for a bad G64 magic")
	}
}

func TestParseG64DecodesOneTrack(t *testing.T) {
	header := make([]byte, 12)
	copy(header, "GCR-1541")
	header[9] = 1 // one halftrack

	offsetTable := make([]byte, 4*84)
	binary.LittleEndian.PutUint32(offsetTable[0:4], uint32(12+len(offsetTable)))

	trackLen := uint16(2)
	trackHeader := make([]byte, 2)
	binary.LittleEndian.PutUint16(trackHeader, trackLen)
	trackBytes := []byte{0xf0, 0x0f}

	data := append(header, offsetTable...)
	data = append(data, trackHeader...)
	data = append(data, trackBytes...)

	dk, err := ParseG64(data)
	if err != nil {
		t.Fatalf("ParseG64: %v", err)
	}
	if dk.Tracks[0].BitLength != int(trackLen)*8 {
		t.Fatalf("BitLength = %d, want %d", dk.Tracks[0].BitLength, trackLen*8)
	}
	if !dk.ReadBit(0, 0) || dk.ReadBit(0, 4) {
		t.Fatalf("track 0 bits did not decode 0xf0 correctly")
	}
}

func crtWithOneChip(hwType uint16, exrom, game bool, bank []byte) []byte {
	header := make([]byte, 0x40)
	copy(header, "C64 CARTRIDGE   ")
	binary.BigEndian.PutUint32(header[16:20], 0x40)
	binary.BigEndian.PutUint16(header[22:24], hwType)
	if exrom {
		header[24] = 0
	} else {
		header[24] = 1
	}
	if game {
		header[25] = 0
	} else {
		header[25] = 1
	}

	chip := make([]byte, 16+len(bank))
	copy(chip[0:4], "CHIP")
	binary.BigEndian.PutUint32(chip[4:8], uint32(len(chip)))
	binary.BigEndian.PutUint16(chip[14:16], uint16(len(bank)))
	copy(chip[16:], bank)

	return append(header, chip...)
}

func TestParseCRTDecodesHeaderAndOneChip(t *testing.T) {
	bank := make([]byte, 0x2000)
	bank[0] = 0x42
	data := crtWithOneChip(0, true, true, bank)
	crt, err := ParseCRT(data)
	if err != nil {
		t.Fatalf("ParseCRT: %v", err)
	}
	if crt.Kind != expansion.Normal {
		t.Fatalf("Kind = %v, want expansion.Normal", crt.Kind)
	}
	if len(crt.Banks) != 1 || crt.Banks[0][0] != 0x42 {
		t.Fatalf("Banks not decoded correctly: %v", crt.Banks)
	}
}

func TestParseCRTRejectsUnknownHardwareType(t *testing.T) {
	data := crtWithOneChip(9999, true, true, make([]byte, 0x2000))
	if _, err := ParseCRT(data); err == nil {
		t.Fatalf("expected an error for an unsupported hardware type")
	}
}

func TestBuildConstructsTheDeclaredMapperKind(t *testing.T) {
	crt := &CRT{Kind: expansion.MagicDesk, Banks: [][]byte{make([]byte, 0x2000)}}
	m, err := Build(crt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Kind() != expansion.MagicDesk {
		t.Fatalf("Kind() = %v, want expansion.MagicDesk", m.Kind())
	}
}

func TestBuildRejectsUnhandledKind(t *testing.T) {
	crt := &CRT{Kind: expansion.StarDos}
	if _, err := Build(crt); err == nil {
		t.Fatalf("expected an error for a kind with no builder")
	}
}
