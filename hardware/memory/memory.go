// Package memory implements the C64's 64K address space: 64K of RAM, 4K of
// colour RAM, the BASIC/KERNAL/character ROMs, and the bank-switched views
// over them driven by hardware/memory/memorymap and any inserted cartridge.
package memory

import (
	"github.com/go64/go64/hardware/memory/bus"
	"github.com/go64/go64/hardware/memory/memorymap"
)

// Expander is implemented by whatever occupies the expansion port, so
// Memory can decode cartridge ROM windows without depending on the
// cartridge package directly (avoiding an import cycle, since cartridges
// need to see memory's bank-switch state to drive their own logic).
type Expander interface {
	ReadLo(address uint16) (value uint8, ok bool)
	ReadHi(address uint16) (value uint8, ok bool)
	Config() memorymap.Config
}

// IODevice answers accesses to the $D000-$DFFF window once CHAREN/I-O is
// selected: the VIC-II, the two CIAs, the SID and any I/O-mapped cartridge
// expansion RAM, decoded by address range.
type IODevice interface {
	Access(address uint16, value uint8, write bool) uint8
}

// Memory is the C64's full address space plus its bank-switching state.
type Memory struct {
	RAM      [65536]uint8
	ColorRAM [1024]uint8 // only the low nibble of each byte is meaningful

	BasicROM  [8192]uint8
	KernalROM [8192]uint8
	CharROM   [4096]uint8

	loram  bool
	hiram  bool
	charen bool

	expander Expander
	io       IODevice
}

// New creates a Memory with the power-on bank-select pattern (LORAM/HIRAM/
// CHAREN all set, selecting BASIC+KERNAL+I/O).
func New() *Memory {
	m := &Memory{loram: true, hiram: true, charen: true}
	return m
}

// AttachExpander wires the expansion port (cartridge) into memory's bank
// decoding. Passing nil detaches it, restoring GAME/EXROM to their
// no-cartridge (both high) state.
func (m *Memory) AttachExpander(e Expander) { m.expander = e }

// AttachIO wires the chip I/O decoder for the $D000-$DFFF window.
func (m *Memory) AttachIO(io IODevice) { m.io = io }

// ColorNibble returns color RAM's low nibble at index (0-999), the form
// the VIC reads it in: color RAM is a separate 4-bit-wide chip always
// wired to the VIC regardless of CPU bank switching or the VIC's own
// 16K bank select.
func (m *Memory) ColorNibble(index uint16) uint8 {
	return m.ColorRAM[index&0x3ff] & 0x0f
}

// SetBankSelect updates the three CPU-controlled bank-select lines, as
// written via the 6510's on-chip data direction/port registers at $0000/$0001.
func (m *Memory) SetBankSelect(loram, hiram, charen bool) {
	m.loram, m.hiram, m.charen = loram, hiram, charen
}

func (m *Memory) config() memorymap.Config {
	c := memorymap.Config{LORAM: m.loram, HIRAM: m.hiram, CHAREN: m.charen, GAME: true, EXROM: true}
	if m.expander != nil {
		ec := m.expander.Config()
		c.GAME, c.EXROM = ec.GAME, ec.EXROM
	}
	return c
}

// Read implements bus.CPUBus. Reads from I/O registers may have side
// effects (clearing interrupt flags, advancing a FIFO); use Peek for
// inspection that must not disturb state.
func (m *Memory) Read(address uint16) uint8 {
	return m.access(address, 0, false)
}

// Write implements bus.CPUBus.
func (m *Memory) Write(address uint16, value uint8) {
	m.access(address, value, true)
}

// Peek implements bus.DebuggerBus: reads RAM/ROM exactly as Read would, but
// never forwards to an I/O device, so a debugger or disassembler cannot
// perturb chip state just by looking at it.
func (m *Memory) Peek(address uint16) uint8 {
	sources := memorymap.Resolve(m.config())
	region := memorymap.RegionFor(address)
	switch sources[region] {
	case memorymap.IO:
		return m.RAM[address]
	default:
		return m.access(address, 0, false)
	}
}

func (m *Memory) access(address uint16, value uint8, write bool) uint8 {
	if address >= 0xd800 && address < 0xdc00 {
		// colour RAM always reads back with the unused high nibble set,
		// regardless of the current bank configuration
		idx := address - 0xd800
		if write {
			m.ColorRAM[idx] = value & 0x0f
			return value
		}
		return m.ColorRAM[idx] | 0xf0
	}

	sources := memorymap.Resolve(m.config())
	region := memorymap.RegionFor(address)
	source := sources[region]

	// writes go to RAM underneath ROM and open-bus views, since the
	// physical RAM chip is still wired to every address regardless of what
	// the bank switch makes visible to reads; writes to a cartridge window
	// are dropped, and I/O writes go to the chip
	if write && source != memorymap.IO && source != memorymap.CartROMLo && source != memorymap.CartROMHi {
		m.RAM[address] = value
		return value
	}

	switch source {
	case memorymap.RAM:
		if write {
			m.RAM[address] = value
			return value
		}
		return m.RAM[address]

	case memorymap.BasicROM:
		return m.BasicROM[address-0xa000]

	case memorymap.KernalROM:
		return m.KernalROM[address-0xe000]

	case memorymap.CharROM:
		return m.CharROM[address-0xd000]

	case memorymap.IO:
		if m.io != nil {
			return m.io.Access(address, value, write)
		}
		if write {
			m.RAM[address] = value
		}
		return m.RAM[address]

	case memorymap.CartROMLo:
		if m.expander != nil {
			if write {
				return value
			}
			if v, ok := m.expander.ReadLo(address); ok {
				return v
			}
		}
		return m.RAM[address]

	case memorymap.CartROMHi:
		if m.expander != nil {
			if write {
				return value
			}
			if v, ok := m.expander.ReadHi(address); ok {
				return v
			}
		}
		return m.RAM[address]

	default: // None: open bus in ultimax mode
		return 0xff
	}
}

var _ bus.DebuggerBus = (*Memory)(nil)
