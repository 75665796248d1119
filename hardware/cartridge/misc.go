package cartridge

import "github.com/go64/go64/hardware/expansion"

// SimonsBasic is the Simons' BASIC cartridge: 16K presented as two 8K
// banks. Any write to $DE00, whatever its value, switches to 8K mode; no
// access switches back to 16K, since reads of $DE00 are not forwarded to
// cartridges and this type has no read hook for them.
type SimonsBasic struct {
	Base
}

func NewSimonsBasic(banks [][]byte) *SimonsBasic {
	c := &SimonsBasic{Base: NewBase(expansion.SimonsBasic, banks, false, false)}
	c.loBank, c.hiBank = 0, 1
	return c
}

func (c *SimonsBasic) Poke(address uint16, value uint8) bool {
	if address != 0xde00 {
		return false
	}
	// any write switches to 8K mode (GAME high), hiding the second bank
	c.game = true
	c.hiBank = -1
	return true
}

// EpyxFastload is the Epyx Fastload cartridge: an 8K ROM that is visible
// only briefly after being accessed, driven by a retriggerable one-shot
// timer (the 512-cycle capacitor discharge the real hardware implements in
// analog silicon). Listen() ticks that timer down every cycle.
type EpyxFastload struct {
	Base
	timer int
}

const epyxTimeoutCycles = 512

func NewEpyxFastload(banks [][]byte) *EpyxFastload {
	c := &EpyxFastload{Base: NewBase(expansion.EpyxFastload, banks, true, false)}
	c.loBank, c.hiBank = 0, -1
	return c
}

func (c *EpyxFastload) ReadLo(address uint16) (uint8, bool) {
	c.timer = epyxTimeoutCycles
	return c.Base.ReadLo(address)
}

func (c *EpyxFastload) Listen() {
	if c.timer > 0 {
		c.timer--
		if c.timer == 0 {
			c.exrom = true
		} else {
			c.exrom = false
		}
	}
}

// GeoRAM is a banked RAM expansion (no ROM at all): static RAM organised
// as 16K blocks of 64 256-byte pages, windowed into $DE00-$DEFF one page at
// a time. $DFFE selects the page within the block and $DFFF the block.
type GeoRAM struct {
	Base
	page int
}

func NewGeoRAM(sizeKB int) *GeoRAM {
	c := &GeoRAM{Base: NewBase(expansion.GeoRAM, nil, true, true)}
	c.ram = make([]byte, sizeKB*1024)
	c.ramInfo = expansion.RAMInfo{Size: len(c.ram), Persistent: true}
	return c
}

func (c *GeoRAM) pageBase() int {
	return ((c.page>>8)*0x4000 + (c.page&0x3f)*0x100) % len(c.ram)
}

func (c *GeoRAM) ReadLo(address uint16) (uint8, bool) {
	if address < 0xde00 || address > 0xdeff {
		return 0, false
	}
	idx := c.pageBase() + int(address-0xde00)
	if idx >= len(c.ram) {
		return 0, true
	}
	return c.ram[idx], true
}

func (c *GeoRAM) Poke(address uint16, value uint8) bool {
	switch address {
	case 0xdffe:
		c.page = (c.page & 0xff00) | int(value)
		return true
	case 0xdfff:
		c.page = (c.page & 0x00ff) | int(value)<<8
		return true
	}
	if address >= 0xde00 && address <= 0xdeff {
		idx := c.pageBase() + int(address-0xde00)
		if idx < len(c.ram) {
			c.ram[idx] = value
		}
		return true
	}
	return false
}

// KCSPower is the KCS Power Cartridge: an 8K/16K freezer similar in spirit
// to Action Replay, distinguished by decoding its control register at
// $DF00 instead of $DE00 and lacking bank switching (always bank 0).
type KCSPower struct {
	Base
	disabled bool
}

func NewKCSPower(banks [][]byte) *KCSPower {
	c := &KCSPower{Base: NewBase(expansion.KCSPower, banks, false, false)}
	c.loBank, c.hiBank = 0, 0
	return c
}

func (c *KCSPower) Freeze(pullNMI func()) {
	c.disabled = false
	c.game, c.exrom = false, false
	if pullNMI != nil {
		pullNMI()
	}
}

func (c *KCSPower) Poke(address uint16, value uint8) bool {
	if address != 0xdf00 {
		return false
	}
	c.disabled = true
	c.game, c.exrom = true, true
	return true
}

func (c *KCSPower) ReadLo(address uint16) (uint8, bool) {
	if c.disabled {
		return 0, false
	}
	return c.Base.ReadLo(address)
}

// AtomicPower is functionally Action Replay IV hardware rebadged; it is
// kept as a distinct type (rather than an alias) so snapshot/CRT-type
// identification round-trips the cartridge's declared type faithfully.
type AtomicPower struct {
	ActionReplay4
}

func NewAtomicPower(banks [][]byte) *AtomicPower {
	c := &AtomicPower{ActionReplay4: *NewActionReplay4(banks)}
	c.kind = expansion.AtomicPower
	return c
}
