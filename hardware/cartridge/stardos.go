package cartridge

import "github.com/go64/go64/hardware/expansion"

// StarDos is the StarDos cartridge, unusual among C64 cartridges in having
// no software-visible bank register at all: EXROM is driven by an RC
// network charged by writes to I/O1 ($DE00-$DEFF) and discharged by writes
// to I/O2 ($DF00-$DFFF), so the cartridge's ROM visibility depends on an
// analog voltage rather than a latch. Listen() integrates that voltage
// every cycle exactly as the original hardware's capacitor does.
type StarDos struct {
	Base

	// voltageUV is the capacitor's charge in microvolts, bounded between 0
	// and starDosFullChargeUV.
	voltageUV int64
}

const (
	starDosFullChargeUV    int64 = 5_000_000
	starDosRestingUV       int64 = 2_000_000
	starDosEnableThreshUV  int64 = 2_700_000
	starDosReleaseThreshUV int64 = 1_400_000
	starDosStepUV          int64 = 78_125
	starDosDriftPerCycleUV int64 = 2
)

// NewStarDos builds the StarDos cartridge from its two 8K CHIP banks. After
// a cold reset the capacitor is empty and EXROM is high (released); it
// takes a run of I/O1 writes to charge it back up through the enable
// threshold.
func NewStarDos(banks [][]byte) *StarDos {
	c := &StarDos{Base: NewBase(expansion.StarDos, banks, true, true)}
	c.loBank, c.hiBank = 0, -1
	return c
}

// Poke routes I/O1 writes to the charging side of the capacitor and I/O2
// writes to the discharging side; any other address is untouched by the
// cartridge.
func (c *StarDos) Poke(address uint16, value uint8) bool {
	switch {
	case address >= 0xde00 && address < 0xdf00:
		c.charge()
		return true
	case address >= 0xdf00 && address < 0xe000:
		c.discharge()
		return true
	}
	return false
}

// Listen integrates the capacitor's passive drift by one PHI2 cycle: left
// untouched, it climbs back toward its 2.0V resting point at 2uV/cycle, but
// never decays down from above it on its own.
func (c *StarDos) Listen() {
	if c.voltageUV < starDosRestingUV {
		c.voltageUV += min(starDosRestingUV-c.voltageUV, starDosDriftPerCycleUV)
	}
}

func (c *StarDos) charge() {
	c.voltageUV += min(starDosFullChargeUV-c.voltageUV, starDosStepUV)
	if c.voltageUV > starDosEnableThreshUV {
		c.exrom = false // pulled low: ROML enabled
	}
}

func (c *StarDos) discharge() {
	c.voltageUV -= min(c.voltageUV, starDosStepUV)
	if c.voltageUV < starDosReleaseThreshUV {
		c.exrom = true // released
	}
}
