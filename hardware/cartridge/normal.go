package cartridge

import "github.com/go64/go64/hardware/expansion"

// Normal is a plain 8K or 16K ROM cartridge with no bank switching: the
// most common CRT type, used whenever a game fits in one or two banks.
type Normal struct {
	Base
}

// NewNormal builds a Normal cartridge from its CHIP banks. A single 8K bank
// asserts EXROM low only (GAME high); two banks (16K) assert both low.
func NewNormal(banks [][]byte) *Normal {
	game := len(banks) < 2
	c := &Normal{Base: NewBase(expansion.Normal, banks, game, false)}
	c.loBank, c.hiBank = 0, 1
	if len(banks) < 2 {
		c.hiBank = -1
	}
	return c
}
