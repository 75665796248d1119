package cartridge

import "github.com/go64/go64/hardware/expansion"

// ActionReplay3 is the Action Replay Mk III freezer cartridge: four 8K
// banks, a control register at $DE00 selecting bank/GAME/EXROM and an
// output-disable bit, plus a NMI-triggering freeze button.
type ActionReplay3 struct {
	Base
	disabled bool
}

func NewActionReplay3(banks [][]byte) *ActionReplay3 {
	c := &ActionReplay3{Base: NewBase(expansion.ActionReplay3, banks, false, false)}
	c.loBank, c.hiBank = 0, -1
	return c
}

// Freeze simulates pressing the cartridge's freeze button: it pulls NMI and
// forces the cartridge ROM back into view regardless of software state.
func (c *ActionReplay3) Freeze(pullNMI func()) {
	c.disabled = false
	c.game, c.exrom = false, false
	if pullNMI != nil {
		pullNMI()
	}
}

func (c *ActionReplay3) Poke(address uint16, value uint8) bool {
	if address != 0xde00 {
		return false
	}
	if value&0x40 != 0 {
		c.disabled = true
		c.game, c.exrom = true, true
		return true
	}
	bank := int(value & 0x03)
	c.SetBank(bank)
	c.exrom = value&0x01 != 0
	c.game = value&0x02 == 0
	return true
}

func (c *ActionReplay3) ReadLo(address uint16) (uint8, bool) {
	if c.disabled {
		return 0, false
	}
	return c.Base.ReadLo(address)
}

// ActionReplay4 is the later Action Replay Mk IV/V/VI hardware: eight banks,
// a wider control register with an explicit RAM-overlay bit for its
// battery-backed 8K, otherwise following the same freeze/disable pattern as
// the Mk III.
type ActionReplay4 struct {
	Base
	disabled bool
	ramMode  bool
}

func NewActionReplay4(banks [][]byte) *ActionReplay4 {
	c := &ActionReplay4{Base: NewBase(expansion.ActionReplay4, banks, false, false)}
	c.loBank, c.hiBank = 0, -1
	c.ram = make([]byte, 0x2000)
	c.ramInfo = expansion.RAMInfo{Size: 0x2000, Persistent: true}
	return c
}

func (c *ActionReplay4) Freeze(pullNMI func()) {
	c.disabled = false
	c.game, c.exrom = false, false
	if pullNMI != nil {
		pullNMI()
	}
}

func (c *ActionReplay4) Poke(address uint16, value uint8) bool {
	if address != 0xde00 {
		return false
	}
	if value&0x40 != 0 {
		c.disabled = true
		c.game, c.exrom = true, true
		return true
	}
	c.SetBank(int(value & 0x07))
	c.exrom = value&0x01 != 0
	c.game = value&0x02 == 0
	c.ramMode = value&0x20 != 0
	return true
}

func (c *ActionReplay4) ReadLo(address uint16) (uint8, bool) {
	if c.disabled {
		return 0, false
	}
	if c.ramMode {
		return c.ram[address-0x8000], true
	}
	return c.Base.ReadLo(address)
}

// FinalCartridgeIII is the Final Cartridge III: four 16K banks with a
// freeze button and a control register at $DFFF. Bits 0-1 select the bank,
// bit 6 hides both ROM windows and bit 5 set asserts GAME (low); EXROM
// stays asserted. The register has no write protection.
type FinalCartridgeIII struct {
	Base
	hidden bool
}

func NewFinalCartridgeIII(banks [][]byte) *FinalCartridgeIII {
	c := &FinalCartridgeIII{Base: NewBase(expansion.FinalCartridgeIII, banks, false, false)}
	c.loBank, c.hiBank = 0, 0
	return c
}

func (c *FinalCartridgeIII) Freeze(pullNMI func()) {
	c.hidden = false
	if pullNMI != nil {
		pullNMI()
	}
}

func (c *FinalCartridgeIII) Poke(address uint16, value uint8) bool {
	if address != 0xdfff {
		return false
	}
	bank := int(value & 0x03)
	c.SetBank(bank)
	c.hiBank = bank
	c.hidden = value&0x40 != 0
	c.game = value&0x20 == 0
	c.exrom = false
	return true
}

func (c *FinalCartridgeIII) ReadLo(address uint16) (uint8, bool) {
	if c.hidden {
		return 0, false
	}
	return c.Base.ReadLo(address)
}

func (c *FinalCartridgeIII) ReadHi(address uint16) (uint8, bool) {
	if c.hidden {
		return 0, false
	}
	return c.Base.ReadHi(address)
}
