package memory

import (
	"testing"

	"github.com/go64/go64/hardware/memory/memorymap"
)

type stubIO struct {
	lastAddr  uint16
	lastValue uint8
	lastWrite bool
	readValue uint8
}

func (s *stubIO) Access(address uint16, value uint8, write bool) uint8 {
	s.lastAddr, s.lastValue, s.lastWrite = address, value, write
	if write {
		return value
	}
	return s.readValue
}

type stubExpander struct {
	game, exrom bool
	lo, hi      uint8
	loOK, hiOK  bool
}

func (e *stubExpander) ReadLo(address uint16) (uint8, bool) { return e.lo, e.loOK }
func (e *stubExpander) ReadHi(address uint16) (uint8, bool) { return e.hi, e.hiOK }
func (e *stubExpander) Config() memorymap.Config {
	return memorymap.Config{GAME: e.game, EXROM: e.exrom}
}

func TestDefaultConfigReadsROMWindows(t *testing.T) {
	m := New()
	m.KernalROM[0] = 0xaa
	m.BasicROM[0] = 0xbb
	if got := m.Read(0xe000); got != 0xaa {
		t.Errorf("Read($e000) = %#02x, want KERNAL ROM byte 0xaa", got)
	}
	if got := m.Read(0xa000); got != 0xbb {
		t.Errorf("Read($a000) = %#02x, want BASIC ROM byte 0xbb", got)
	}
}

func TestWritesPassThroughToRAMUnderROM(t *testing.T) {
	m := New()
	m.Write(0xe000, 0x42)
	if m.RAM[0xe000] != 0x42 {
		t.Fatalf("RAM[$e000] = %#02x, want 0x42 (write-through under ROM)", m.RAM[0xe000])
	}
	// the ROM view should still answer reads, unaffected by the RAM write.
	if got := m.Read(0xe000); got == 0x42 {
		t.Fatalf("Read($e000) after write should still show KERNAL ROM, not the RAM write")
	}
}

func TestColorRAMMasksToLowNibbleAndReadsBackWithHighNibbleSet(t *testing.T) {
	m := New()
	m.Write(0xd800, 0xff)
	if m.ColorRAM[0] != 0x0f {
		t.Fatalf("ColorRAM[0] = %#02x, want low nibble only (0x0f)", m.ColorRAM[0])
	}
	if got := m.Read(0xd800); got != 0xff {
		t.Fatalf("Read($d800) = %#02x, want 0xff (high nibble always reads as set)", got)
	}
}

func TestIODeviceHandlesCharIOWindowWhenCharenSet(t *testing.T) {
	m := New()
	io := &stubIO{readValue: 0x99}
	m.AttachIO(io)

	m.Write(0xd000, 0x11)
	if !io.lastWrite || io.lastAddr != 0xd000 || io.lastValue != 0x11 {
		t.Fatalf("IO device did not see the write: %+v", io)
	}

	got := m.Read(0xd000)
	if got != 0x99 {
		t.Fatalf("Read($d000) = %#02x, want the IO device's value 0x99", got)
	}
}

func TestCharROMVisibleWhenCharenClear(t *testing.T) {
	m := New()
	m.CharROM[0] = 0x55
	m.SetBankSelect(true, true, false) // CHAREN clear
	if got := m.Read(0xd000); got != 0x55 {
		t.Fatalf("Read($d000) with CHAREN clear = %#02x, want CharROM byte 0x55", got)
	}
}

func TestPeekNeverTouchesIODevice(t *testing.T) {
	m := New()
	io := &stubIO{readValue: 0x99}
	m.AttachIO(io)
	m.RAM[0xd000] = 0x77

	got := m.Peek(0xd000)
	if got != 0x77 {
		t.Fatalf("Peek($d000) = %#02x, want raw RAM byte 0x77 without touching the IO device", got)
	}
	if io.lastAddr != 0 {
		t.Fatalf("Peek should never forward to the IO device: %+v", io)
	}
}

func TestExpanderSuppliesCartridgeROMWindows(t *testing.T) {
	m := New()
	exp := &stubExpander{game: false, exrom: true, lo: 0xcc, loOK: true}
	m.AttachExpander(exp)
	if got := m.Read(0x8000); got != 0xcc {
		t.Fatalf("Read($8000) with an 8K cartridge = %#02x, want 0xcc from the expander", got)
	}
}

func TestUltimaxModeOpenBusFloats(t *testing.T) {
	m := New()
	exp := &stubExpander{game: false, exrom: false}
	m.AttachExpander(exp)
	if got := m.Read(0x1000); got != 0xff {
		t.Fatalf("Read($1000) in ultimax mode = %#02x, want open-bus 0xff", got)
	}
}
