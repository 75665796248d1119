// Package cartridge implements the C64 expansion port cartridge families.
// Each family embeds Base and overrides only the hooks its hardware needs,
// the way an Atari cartridge mapper zoo shares one base struct across
// 2K/4K/8K/16K/32K variants.
package cartridge

import (
	"encoding/gob"
	"bytes"

	"github.com/go64/go64/hardware/expansion"
	"github.com/go64/go64/hardware/memory/memorymap"
	"github.com/go64/go64/internal/c64errs"
)

// Base is the common cartridge state: one or more 8K ROM banks, which bank
// is currently selected for the low and high windows, and the EXROM/GAME
// lines it presents. Every family embeds Base.
type Base struct {
	kind expansion.Kind

	banks    [][]byte // each 8192 bytes, CHIP-packet aligned
	loBank   int
	hiBank   int
	bankSel  int // family-specific "current bank" register, when distinct from lo/hi

	game  bool
	exrom bool

	ram     []byte
	ramInfo expansion.RAMInfo
}

// NewBase constructs a Base from a set of 8K CHIP-packet banks and the
// initial EXROM/GAME line state.
func NewBase(kind expansion.Kind, banks [][]byte, game, exrom bool) Base {
	return Base{kind: kind, banks: banks, game: game, exrom: exrom}
}

func (b *Base) Kind() expansion.Kind { return b.kind }
func (b *Base) Initialise()          {}

func (b *Base) ReadLo(address uint16) (uint8, bool) {
	if b.loBank < 0 || b.loBank >= len(b.banks) {
		return 0, false
	}
	off := int(address - 0x8000)
	bank := b.banks[b.loBank]
	if off >= len(bank) {
		return 0, false
	}
	return bank[off], true
}

func (b *Base) ReadHi(address uint16) (uint8, bool) {
	if b.hiBank < 0 || b.hiBank >= len(b.banks) {
		return 0, false
	}
	bank := b.banks[b.hiBank]
	var off int
	if address >= 0xe000 {
		off = int(address-0xe000) + 0x2000
	} else {
		off = int(address - 0xa000)
	}
	if off < 0 || off >= len(bank) {
		return 0, false
	}
	return bank[off], true
}

func (b *Base) Poke(address uint16, value uint8) bool { return false }

func (b *Base) NumBanks() int   { return len(b.banks) }
func (b *Base) GetBank() int    { return b.bankSel }
func (b *Base) SetBank(n int) {
	if n < 0 || n >= len(b.banks) {
		return
	}
	b.bankSel = n
	b.loBank = n
	b.hiBank = n
}

func (b *Base) Config() memorymap.Config {
	return memorymap.Config{GAME: b.game, EXROM: b.exrom}
}

func (b *Base) Listen() {}

func (b *Base) RAMInfo() expansion.RAMInfo { return b.ramInfo }

// state is the gob-encoded snapshot payload shared by every family that
// doesn't need extra fields of its own.
type state struct {
	LoBank, HiBank, BankSel int
	Game, Exrom             bool
	RAM                     []byte
}

func (b *Base) SaveState() []byte {
	var buf bytes.Buffer
	gob.NewEncoder(&buf).Encode(state{b.loBank, b.hiBank, b.bankSel, b.game, b.exrom, b.ram})
	return buf.Bytes()
}

func (b *Base) RestoreState(data []byte) error {
	var s state
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return c64errs.New(c64errs.SnapshotCorrupt, "cartridge state: %v", err)
	}
	b.loBank, b.hiBank, b.bankSel, b.game, b.exrom, b.ram = s.LoBank, s.HiBank, s.BankSel, s.Game, s.Exrom, s.RAM
	return nil
}

var _ expansion.Mapper = (*Normal)(nil)
