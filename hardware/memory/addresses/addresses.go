// Package addresses names the fixed memory locations the emulation core
// needs to know about directly: CPU vectors and the handful of zero-page
// and I/O locations referenced by more than one package.
package addresses

// CPU vectors.
const (
	VectorNMI   uint16 = 0xfffa
	VectorReset uint16 = 0xfffc
	VectorIRQ   uint16 = 0xfffe
)

// The 6510's built-in data-direction register and I/O port, which drive
// memorymap's LORAM/HIRAM/CHAREN lines and the datasette motor/sense/write
// lines.
const (
	ProcessorPortDDR  uint16 = 0x0000
	ProcessorPortData uint16 = 0x0001
)

// VIC-II, CIA1, CIA2 and SID base addresses within the $D000-$DFFF I/O
// window (each chip's registers repeat/mirror through the rest of its
// nominal 256-or-1024-byte slot).
const (
	VICBase  uint16 = 0xd000
	SIDBase  uint16 = 0xd400
	ColorRAM uint16 = 0xd800
	CIA1Base uint16 = 0xdc00
	CIA2Base uint16 = 0xdd00
)

// Cartridge expansion ROM windows.
const (
	CartLoBase uint16 = 0x8000
	CartHiBase uint16 = 0xa000
	UltimaxHi  uint16 = 0xe000
)
