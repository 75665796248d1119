package cartridge

import "github.com/go64/go64/hardware/expansion"

// Ocean is the Ocean Software bankswitching scheme: up to 64 8K banks
// selected by writing the bank number to $DE00, with EXROM held low
// throughout. GAME is held low (16K configuration) only for images of more
// than 64 banks or more than 128K of ROM; otherwise it stays high (8K).
type Ocean struct {
	Base
}

func NewOcean(banks [][]byte) *Ocean {
	game := len(banks) <= 64 && romSize(banks) <= 0x20000
	c := &Ocean{Base: NewBase(expansion.Ocean, banks, game, false)}
	c.loBank, c.hiBank = 0, 0
	return c
}

func (c *Ocean) Poke(address uint16, value uint8) bool {
	if address != 0xde00 {
		return false
	}
	bank := int(value & 0x3f)
	c.SetBank(bank)
	if len(c.banks) <= 64 {
		// the 16K variant (e.g. Robocop 3, Pang) mirrors each 8K bank into
		// both the lo and hi window simultaneously
		c.hiBank = bank
	}
	return true
}

func romSize(banks [][]byte) int {
	n := 0
	for _, b := range banks {
		n += len(b)
	}
	return n
}

// MagicDesk is a simple single-register bankswitcher (Magic Desk, Domark,
// HES Australia): writes to $DE00 select an 8K bank in the $8000 window
// only; bit 7 of the value disables the cartridge entirely.
type MagicDesk struct {
	Base
}

func NewMagicDesk(banks [][]byte) *MagicDesk {
	c := &MagicDesk{Base: NewBase(expansion.MagicDesk, banks, true, false)}
	c.loBank, c.hiBank = 0, -1
	return c
}

func (c *MagicDesk) Poke(address uint16, value uint8) bool {
	if address != 0xde00 {
		return false
	}
	if value&0x80 != 0 {
		c.game = true
		c.exrom = true
		c.loBank = -1
		return true
	}
	c.game = true
	c.exrom = false
	c.SetBank(int(value & 0x3f))
	c.hiBank = -1
	return true
}

// Funplay is the Funplay/Power Play bankswitcher: writes to $DE00 select
// one of 32 8K banks: bits 3-0 of the value give the low four bits of the
// bank number and bit 4 adds 16.
type Funplay struct {
	Base
}

func NewFunplay(banks [][]byte) *Funplay {
	c := &Funplay{Base: NewBase(expansion.Funplay, banks, true, false)}
	c.loBank, c.hiBank = 0, -1
	return c
}

func (c *Funplay) Poke(address uint16, value uint8) bool {
	if address != 0xde00 {
		return false
	}
	bank := int(value & 0x0f)
	if value&0x10 != 0 {
		bank += 16
	}
	c.SetBank(bank)
	c.hiBank = -1
	return true
}

// SuperGames is a four-bank 8K/16K switcher selected via $DF00, with a
// lockout bit that, once set, releases GAME/EXROM and makes the cartridge
// ignore every further write; nothing in this type clears the lockout.
type SuperGames struct {
	Base
	locked bool
}

func NewSuperGames(banks [][]byte) *SuperGames {
	c := &SuperGames{Base: Base{}}
	c.Base = NewBase(expansion.SuperGames, banks, false, false)
	c.loBank, c.hiBank = 0, 0
	return c
}

func (c *SuperGames) Poke(address uint16, value uint8) bool {
	if address != 0xdf00 || c.locked {
		return false
	}
	bank := int(value & 0x03)
	c.SetBank(bank)
	c.hiBank = bank
	if value&0x04 != 0 {
		c.locked = true
		c.game, c.exrom = true, true
	}
	return true
}

// Westermann is an 8K cartridge whose ROM is mapped at $8000 with EXROM
// low. It has no read-triggered switching: reads of $DE00-$DFFF are not
// forwarded to cartridges, and this type adds no read hooks, so the ROM
// stays visible for as long as the cartridge is attached.
type Westermann struct {
	Base
}

func NewWestermann(banks [][]byte) *Westermann {
	c := &Westermann{Base: NewBase(expansion.Westermann, banks, true, false)}
	c.loBank, c.hiBank = 0, -1
	return c
}

// Rex behaves exactly like Westermann here: an 8K ROM at $8000 with EXROM
// low and no read-triggered switching.
type Rex struct {
	Base
}

func NewRex(banks [][]byte) *Rex {
	c := &Rex{Base: NewBase(expansion.Rex, banks, true, false)}
	c.loBank, c.hiBank = 0, -1
	return c
}

// Zaxxon pairs two 4K ROMs in the $8000 window: the low 4K is always
// visible, a read anywhere in $9000-$9FFF banks in the corresponding half
// of the second chip.
type Zaxxon struct {
	Base
	upperHalf bool
}

func NewZaxxon(banks [][]byte) *Zaxxon {
	c := &Zaxxon{Base: NewBase(expansion.Zaxxon, banks, true, false)}
	c.loBank, c.hiBank = 0, -1
	return c
}

func (c *Zaxxon) ReadLo(address uint16) (uint8, bool) {
	if address < 0x9000 {
		return c.Base.ReadLo(address)
	}
	if len(c.banks) < 2 {
		return 0, false
	}
	off := int(address - 0x9000)
	bank := c.banks[1]
	if c.upperHalf {
		off += 0x1000
	}
	if off >= len(bank) {
		return 0, false
	}
	c.upperHalf = !c.upperHalf
	return bank[off], true
}

// Comal80 is a four-bank 16K cartridge with bank select plus a write-once
// lockout bit in $DE00, used by the Comal-80 development environment.
type Comal80 struct {
	Base
	locked bool
}

func NewComal80(banks [][]byte) *Comal80 {
	c := &Comal80{Base: NewBase(expansion.Comal80, banks, false, false)}
	c.loBank, c.hiBank = 0, 0
	return c
}

func (c *Comal80) Poke(address uint16, value uint8) bool {
	if address != 0xde00 || c.locked {
		return false
	}
	bank := int(value & 0x03)
	c.SetBank(bank)
	c.hiBank = bank
	if value&0x40 != 0 {
		c.locked = true
	}
	return true
}
