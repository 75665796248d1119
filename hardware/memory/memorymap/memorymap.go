// Package memorymap implements the 6510 port-controlled bank switching
// table: which of RAM, the two BASIC/KERNAL ROMs, the character ROM, I/O
// and cartridge ROM is visible in each of the seven address windows, as a
// function of the five bank-select lines (LORAM, HIRAM, CHAREN, GAME,
// EXROM). The table is reproduced from the well-known C64 memory map
// reference table rather than derived at runtime, since several of its
// entries are not obvious from the latch logic alone (the CHAREN-in-I/O-space
// special case, and ultimax mode's blanking of most of the address space, in
// particular).
package memorymap

// Region names one of the seven fixed address windows the table
// distinguishes. These match the boundaries the C64's PLA decodes on, not
// an arbitrary split.
type Region int

// The seven decoded windows.
const (
	Zero      Region = iota // $0000-$0FFF
	LoRAM                   // $1000-$7FFF
	CartLo                  // $8000-$9FFF
	BasicWin                // $A000-$BFFF
	MidRAM                  // $C000-$CFFF
	CharIO                  // $D000-$DFFF
	KernalWin               // $E000-$FFFF
)

// Source identifies which backing store answers a read/write in a region.
type Source int

// Backing stores a region can be mapped to.
const (
	RAM Source = iota
	BasicROM
	KernalROM
	CharROM
	IO
	CartROMLo
	CartROMHi
	None // open bus in ultimax mode: reads float; memory.Memory still stores writes in RAM
)

// Config is the five latch bits (bits 0-4 of $0001, plus the cartridge
// lines) that select a bank configuration.
type Config struct {
	LORAM  bool
	HIRAM  bool
	CHAREN bool
	GAME   bool
	EXROM  bool
}

// index packs Config into the 0-31 row index used by the table, matching
// the original's bit order (EXROM is the high bit, LORAM the low bit).
// EXROM, GAME and CHAREN enter the index inverted.
func (c Config) index() int {
	i := 0
	if !c.EXROM {
		i |= 0x10
	}
	if !c.GAME {
		i |= 0x08
	}
	if !c.CHAREN {
		i |= 0x04
	}
	if c.HIRAM {
		i |= 0x02
	}
	if c.LORAM {
		i |= 0x01
	}
	return i
}

// row describes the source for each of the seven windows in a single
// configuration, in Region order.
type row [7]Source

// table is the full 32-row bank configuration map, indexed by
// (EXROM<<4)|(GAME<<3)|(CHAREN<<2)|(HIRAM<<1)|LORAM with EXROM, GAME and
// CHAREN stored inverted (for EXROM/GAME, 1 = line not asserted, i.e. no
// cartridge there; rows 0x04-0x07 of each group are the CHAREN-clear rows).
var table = [32]row{
	// EXROM=1 GAME=1: no cartridge
	0x00: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x01: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x02: {RAM, RAM, RAM, RAM, RAM, IO, KernalROM},
	0x03: {RAM, RAM, RAM, BasicROM, RAM, IO, KernalROM},
	0x04: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x05: {RAM, RAM, RAM, RAM, RAM, CharROM, RAM},
	0x06: {RAM, RAM, RAM, RAM, RAM, CharROM, KernalROM},
	0x07: {RAM, RAM, RAM, BasicROM, RAM, CharROM, KernalROM},

	// EXROM=1 GAME=0: 16K-style cartridge, CartHi appears at $E000 window
	0x08: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x09: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x0a: {RAM, RAM, RAM, RAM, RAM, IO, KernalROM},
	0x0b: {RAM, RAM, CartROMLo, CartROMHi, RAM, IO, KernalROM},
	0x0c: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x0d: {RAM, RAM, RAM, RAM, RAM, CharROM, RAM},
	0x0e: {RAM, RAM, RAM, RAM, RAM, CharROM, KernalROM},
	0x0f: {RAM, RAM, CartROMLo, CartROMHi, RAM, CharROM, KernalROM},

	// EXROM=0 GAME=1: 8K cartridge, CartLo only
	0x10: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x11: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x12: {RAM, RAM, RAM, RAM, RAM, IO, KernalROM},
	0x13: {RAM, RAM, CartROMLo, BasicROM, RAM, IO, KernalROM},
	0x14: {RAM, RAM, RAM, RAM, RAM, RAM, RAM},
	0x15: {RAM, RAM, RAM, RAM, RAM, CharROM, RAM},
	0x16: {RAM, RAM, RAM, RAM, RAM, CharROM, KernalROM},
	0x17: {RAM, RAM, CartROMLo, BasicROM, RAM, CharROM, KernalROM},

	// EXROM=0 GAME=0: ultimax mode. Only CartLo, I/O and CartHi (at the
	// $E000 window) are visible; everything else floats.
	0x18: {None, None, CartROMLo, None, None, IO, CartROMHi},
	0x19: {None, None, CartROMLo, None, None, IO, CartROMHi},
	0x1a: {None, None, CartROMLo, None, None, IO, CartROMHi},
	0x1b: {None, None, CartROMLo, None, None, IO, CartROMHi},
	0x1c: {None, None, CartROMLo, None, None, IO, CartROMHi},
	0x1d: {None, None, CartROMLo, None, None, IO, CartROMHi},
	0x1e: {None, None, CartROMLo, None, None, IO, CartROMHi},
	0x1f: {None, None, CartROMLo, None, None, IO, CartROMHi},
}

// Resolve returns the Source backing each of the seven windows for the
// given configuration.
func Resolve(c Config) [7]Source {
	return [7]Source(table[c.index()])
}

// RegionFor classifies an address into one of the seven windows.
func RegionFor(address uint16) Region {
	switch {
	case address < 0x1000:
		return Zero
	case address < 0x8000:
		return LoRAM
	case address < 0xa000:
		return CartLo
	case address < 0xc000:
		return BasicWin
	case address < 0xd000:
		return MidRAM
	case address < 0xe000:
		return CharIO
	default:
		return KernalWin
	}
}
