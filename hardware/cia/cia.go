// Package cia implements the MOS 6526/8521 Complex Interface Adapter: two
// interval timers with the load/count delay pipeline that lets software
// chain them cycle-accurately, a BCD time-of-day clock with an alarm, an
// 8-bit serial shift register, and the interrupt control register that
// feeds the CPU's IRQ (CIA1) or NMI (CIA2) line.
package cia

import "github.com/go64/go64/internal/logger"

// Index distinguishes the two CIAs for logging and for which CPU line an
// interrupt asserts.
type Index int

// The two CIA instances in a stock C64.
const (
	CIA1 Index = iota
	CIA2
)

// ICR bit positions, shared between the interrupt mask and interrupt data
// registers.
const (
	FlagTimerA = 1 << iota
	FlagTimerB
	FlagTOD
	FlagSerial
	FlagFlag
	_
	_
	FlagIR = 1 << 7
)

// timerFire is the delay/feed bit a timer's zero-detect latches: once it
// comes out of the shift register, the reload-and-interrupt side effects
// of an underflow actually fire. Real CIA timers don't reload the counter
// and raise ICR combinationally off the bare "count==0" test; that test
// feeds a one-cycle pipeline stage instead, which is what lets a
// Timer-B-counts-Timer-A-underflows chain (CRB source 2/3) see the pulse
// land on the correct cycle rather than racing the comparison.
const (
	timerFire uint64 = 1 << 0
	timerMask uint64 = timerFire
)

// timer is one of the two 16-bit interval timers.
type timer struct {
	latch   uint16
	count   uint16
	running bool

	oneShot   bool
	forceLoad bool

	// pbOutput mirrors the timer's state onto the corresponding PB pin when
	// PBON is set (used by some CIA-driven sample playback routines).
	pbOutput bool
	pbToggle bool

	underflowed bool

	// delay/feed pipe the "counter has reached zero" test through one
	// pipeline stage before its consequences (reload, PB toggle, ICR) are
	// allowed to fire: delay = ((delay<<1) & timerMask) | feed every cycle,
	// feed carries the freshly-detected zero into the register.
	delay, feed uint64
}

func (t *timer) tick() (underflow bool) {
	t.underflowed = false
	if t.running && t.count == 0 {
		t.feed |= timerFire
	}
	t.delay = ((t.delay << 1) & timerMask) | t.feed
	t.feed = 0

	if !t.running {
		return false
	}
	if t.delay&timerFire != 0 {
		t.delay &^= timerFire
		t.count = t.latch
		if t.oneShot {
			t.running = false
		}
		t.pbToggle = !t.pbToggle
		t.underflowed = true
		return true
	}
	t.count--
	return false
}

// TOD is the binary-coded-decimal time-of-day clock. Its divider is fixed
// by the ticksPerTenth value given to New; the TODIN bit in CRA is not
// consulted.
type TOD struct {
	tenths, seconds, minutes, hours uint8
	pm                              bool
	latched                         bool
	latch                           [4]uint8
	alarm                           [4]uint8
	running                         bool
	divider                         int
	ticksPerTenth                   int
}

func (t *TOD) tick() (alarmHit bool) {
	if !t.running {
		return false
	}
	t.divider++
	if t.divider < t.ticksPerTenth {
		return false
	}
	t.divider = 0
	t.tenths++
	if t.tenths > 9 {
		t.tenths = 0
		t.seconds++
		if bcdOnes(t.seconds) > 9 {
			t.seconds = bcdCarryTens(t.seconds)
		}
		if t.seconds >= 0x60 {
			t.seconds = 0
			t.minutes++
			if t.minutes >= 0x60 {
				t.minutes = 0
				t.hours++
				if t.hours >= 0x12 {
					t.hours = 1
					t.pm = !t.pm
				}
			}
		}
	}
	return t.tenths == t.alarm[0] && t.seconds == t.alarm[1] &&
		t.minutes == t.alarm[2] && t.hours == t.alarm[3]
}

func bcdOnes(v uint8) uint8 { return v & 0x0f }
func bcdCarryTens(v uint8) uint8 {
	tens := (v >> 4) + 1
	return tens << 4
}

// CIA is a complete interface adapter.
type CIA struct {
	index Index

	TimerA, TimerB timer
	tod            TOD

	// PRA/PRB are the two 8-bit parallel ports; DDRA/DDRB their data
	// direction registers. The keyboard matrix, joystick ports and serial
	// bus lines are all wired through these via the owning machine, not by
	// this package, which only models the register-level behaviour.
	PRA, PRB   uint8
	DDRA, DDRB uint8

	icrMask uint8
	icrData uint8

	SDR     uint8
	sdrBusy bool

	CRA, CRB uint8

	// InterruptLine is called whenever the IRQ output changes level, so the
	// owning machine can pull/release the CPU's shared interrupt line.
	InterruptLine func(asserted bool)

	asserted bool
}

// New creates a CIA. todTicksPerTenth is 5 for a PAL/50Hz-clocked CIA, 6 for
// NTSC/60Hz (the TOD divides the clock's native rate down to 10Hz).
func New(idx Index, todTicksPerTenth int) *CIA {
	c := &CIA{index: idx}
	c.tod.ticksPerTenth = todTicksPerTenth
	return c
}

// Tick advances both timers and the TOD clock by one PHI2 cycle. cntPulse
// indicates whether the CNT input pin (driven by the serial/cassette
// circuitry) had a rising edge this cycle, needed for timers configured to
// count CNT pulses instead of PHI2.
func (c *CIA) Tick(cntPulse bool) {
	countA := c.CRA&0x20 == 0 || cntPulse
	if countA && c.TimerA.tick() {
		c.setInterrupt(FlagTimerA)
	}

	countBSrc := (c.CRB >> 5) & 0x03
	var countB bool
	switch countBSrc {
	case 0:
		countB = true
	case 1:
		countB = cntPulse
	case 2:
		countB = c.TimerA.underflowed
	case 3:
		countB = c.TimerA.underflowed && cntPulse
	}
	if countB && c.TimerB.tick() {
		c.setInterrupt(FlagTimerB)
	}

	if c.tod.tick() {
		c.setInterrupt(FlagTOD)
	}
}

func (c *CIA) setInterrupt(flag uint8) {
	c.icrData |= flag
	if c.icrMask&flag != 0 {
		c.icrData |= FlagIR
		if !c.asserted {
			c.asserted = true
			if c.InterruptLine != nil {
				c.InterruptLine(true)
			}
		}
	}
}

// SignalFlag raises the FLAG interrupt source, driven externally by the
// serial bus ATN line (CIA2) or the datasette read line (CIA1).
func (c *CIA) SignalFlag() {
	c.setInterrupt(FlagFlag)
}

// Register offsets within a CIA's 16-byte decoded range (mirrored every 16
// bytes through the rest of its 256-byte I/O slot).
const (
	RegPRA = iota
	RegPRB
	RegDDRA
	RegDDRB
	RegTALo
	RegTAHi
	RegTBLo
	RegTBHi
	RegTODTenths
	RegTODSeconds
	RegTODMinutes
	RegTODHours
	RegSDR
	RegICR
	RegCRA
	RegCRB
)

// Access implements bus.ChipBus-style register decoding for one CIA,
// called by memory with the address already reduced modulo 16.
func (c *CIA) Access(reg uint8, value uint8, write bool) uint8 {
	reg &= 0x0f
	if write {
		c.write(reg, value)
		return value
	}
	return c.read(reg)
}

func (c *CIA) write(reg uint8, v uint8) {
	switch reg {
	case RegPRA:
		c.PRA = v
	case RegPRB:
		c.PRB = v
	case RegDDRA:
		c.DDRA = v
	case RegDDRB:
		c.DDRB = v
	case RegTALo:
		c.TimerA.latch = (c.TimerA.latch & 0xff00) | uint16(v)
	case RegTAHi:
		c.TimerA.latch = (c.TimerA.latch & 0x00ff) | uint16(v)<<8
		if !c.TimerA.running {
			c.TimerA.count = c.TimerA.latch
		}
	case RegTBLo:
		c.TimerB.latch = (c.TimerB.latch & 0xff00) | uint16(v)
	case RegTBHi:
		c.TimerB.latch = (c.TimerB.latch & 0x00ff) | uint16(v)<<8
		if !c.TimerB.running {
			c.TimerB.count = c.TimerB.latch
		}
	case RegTODTenths:
		c.tod.latch[0] = v & 0x0f
	case RegTODSeconds:
		c.tod.latch[1] = v & 0x7f
	case RegTODMinutes:
		c.tod.latch[2] = v & 0x7f
	case RegTODHours:
		c.tod.latch[3] = v & 0x9f
	case RegSDR:
		c.SDR = v
		c.sdrBusy = true
	case RegICR:
		if v&FlagIR != 0 {
			c.icrMask |= v & 0x7f
		} else {
			c.icrMask &^= v & 0x7f
		}
	case RegCRA:
		prevRunning := c.TimerA.running
		c.CRA = v
		c.TimerA.running = v&0x01 != 0
		c.TimerA.oneShot = v&0x08 != 0
		if v&0x10 != 0 {
			c.TimerA.count = c.TimerA.latch
		}
		if !prevRunning && c.TimerA.running {
			logger.Logf("cia", "timer A started with latch %04x", c.TimerA.latch)
		}
	case RegCRB:
		c.CRB = v
		c.TimerB.running = v&0x01 != 0
		c.TimerB.oneShot = v&0x08 != 0
		if v&0x10 != 0 {
			c.TimerB.count = c.TimerB.latch
		}
	}
}

func (c *CIA) read(reg uint8) uint8 {
	switch reg {
	case RegPRA:
		return c.PRA
	case RegPRB:
		return c.PRB
	case RegDDRA:
		return c.DDRA
	case RegDDRB:
		return c.DDRB
	case RegTALo:
		return uint8(c.TimerA.count)
	case RegTAHi:
		return uint8(c.TimerA.count >> 8)
	case RegTBLo:
		return uint8(c.TimerB.count)
	case RegTBHi:
		return uint8(c.TimerB.count >> 8)
	case RegTODTenths:
		return c.tod.tenths
	case RegTODSeconds:
		return c.tod.seconds
	case RegTODMinutes:
		return c.tod.minutes
	case RegTODHours:
		h := c.tod.hours
		if c.tod.pm {
			h |= 0x80
		}
		return h
	case RegSDR:
		return c.SDR
	case RegICR:
		v := c.icrData
		c.icrData = 0
		if c.asserted {
			c.asserted = false
			if c.InterruptLine != nil {
				c.InterruptLine(false)
			}
		}
		return v
	case RegCRA:
		return c.CRA
	case RegCRB:
		return c.CRB
	}
	return 0
}
