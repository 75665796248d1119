// Package expansion defines the cartridge port contract shared by every
// cartridge family in hardware/cartridge: the hook table a mapper
// implements, and the bank-visibility state memory.Memory queries to decode
// the $8000-$9FFF and $A000-$BFFF/$E000-$FFFF windows.
package expansion

import "github.com/go64/go64/hardware/memory/memorymap"

// Kind discriminates cartridge mapper families. Each is a tagged variant
// sharing the Cartridge base but overriding the hook table it needs.
type Kind int

// Kind values for every cartridge mapper family this engine supports.
const (
	Normal Kind = iota
	ActionReplay3
	ActionReplay4
	FinalCartridgeIII
	SimonsBasic
	Ocean
	Funplay
	SuperGames
	EpyxFastload
	Westermann
	Rex
	Zaxxon
	MagicDesk
	Comal80
	GeoRAM
	KCSPower
	AtomicPower
	StarDos
)

// RAMInfo describes a cartridge's onboard RAM, if any (GeoRAM, Action
// Replay's battery-backed RAM, and similar).
type RAMInfo struct {
	Size       int
	Persistent bool
}

// Mapper is implemented by every cartridge family. Most hooks have a no-op
// default via BaseCartridge; a family overrides only the ones its hardware
// actually needs, mirroring the base-struct-plus-embedding pattern used
// throughout this codebase's chip implementations.
type Mapper interface {
	Kind() Kind
	Initialise()
	ReadLo(address uint16) (value uint8, ok bool)
	ReadHi(address uint16) (value uint8, ok bool)
	Poke(address uint16, value uint8) (handled bool)
	NumBanks() int
	GetBank() int
	SetBank(bank int)
	Config() memorymap.Config
	// Listen is called every PHI2 cycle for cartridges with onboard logic
	// that evolves independently of bus accesses (StarDos's RC timer, Action
	// Replay's freeze button debounce).
	Listen()
	RAMInfo() RAMInfo
	SaveState() []byte
	RestoreState(data []byte) error
}
