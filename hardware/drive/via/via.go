// Package via implements the MOS 6522 Versatile Interface Adapter used
// twice inside the VC1541: VIA1 talks to the serial IEC bus, VIA2 drives the
// stepper motor, write-protect sensor and the GCR bit shifter. Both
// instances share identical register-level behaviour, which is what this
// package models; the drive wires each instance's port lines to different
// hardware.
package via

// Interrupt flag bits (IFR/IER), in Rockwell datasheet order.
const (
	FlagCA2 = 1 << iota
	FlagCA1
	FlagShiftRegister
	FlagCB2
	FlagCB1
	FlagTimer2
	FlagTimer1
	FlagIRQ = 1 << 7
)

// timerFire is the delay/feed bit each timer's zero-detect latches: the
// reload-and-interrupt consequences of an underflow fire one pipeline
// stage after the bare "counter==0" test, the same one-cycle pipeline the
// 6522's real timer logic and the disk copy-protection schemes that poll
// it both depend on.
const (
	timerFire uint64 = 1 << 0
	timerMask uint64 = timerFire
)

// VIA is one 6522 instance.
type VIA struct {
	ORA, ORB   uint8
	DDRA, DDRB uint8
	IER, IFR   uint8
	ACR, PCR   uint8
	SR         uint8

	t1Latch, t1Counter uint16
	t1Running          bool
	t1PB7              bool
	t1Delay, t1Feed    uint64

	t2Latch, t2Counter uint16
	t2Running          bool
	t2Delay, t2Feed    uint64

	// InterruptLine is invoked on IRQ output edges, mirroring cia.CIA's and
	// vic.VIC's callback shape.
	InterruptLine func(asserted bool)
	asserted      bool

	// ReadPA/ReadPB let the owning drive supply the input-pin contribution
	// to a port read (the part not driven by this VIA's own output
	// latch/DDR), e.g. the write-protect sensor on VIA2's PB4.
	ReadPA func() uint8
	ReadPB func() uint8
	// WritePA/WritePB notify the drive of an output port change, e.g. VIA2
	// PB stepping the head motor.
	WritePA func(value uint8)
	WritePB func(value uint8)
}

// New creates a VIA with all registers at their power-on zero state.
func New() *VIA {
	return &VIA{}
}

// Tick advances both timers by one cycle.
func (v *VIA) Tick() {
	if v.t1Running && v.t1Counter == 0 {
		v.t1Feed |= timerFire
	}
	v.t1Delay = ((v.t1Delay << 1) & timerMask) | v.t1Feed
	v.t1Feed = 0
	if v.t1Running {
		if v.t1Delay&timerFire != 0 {
			v.t1Delay &^= timerFire
			v.setFlag(FlagTimer1)
			if v.ACR&0x40 != 0 {
				v.t1Counter = v.t1Latch
			} else {
				v.t1Running = false
			}
			v.t1PB7 = !v.t1PB7
		} else {
			v.t1Counter--
		}
	}

	if v.t2Running && v.ACR&0x20 == 0 {
		if v.t2Counter == 0 {
			v.t2Feed |= timerFire
		}
		v.t2Delay = ((v.t2Delay << 1) & timerMask) | v.t2Feed
		v.t2Feed = 0
		if v.t2Delay&timerFire != 0 {
			v.t2Delay &^= timerFire
			v.setFlag(FlagTimer2)
			v.t2Running = false
		} else {
			v.t2Counter--
		}
	}
}

// CountPB6 advances timer 2 in pulse-counting mode (ACR bit 5 set), called
// by the drive once per PB6 falling edge instead of every cycle. Pulse
// counting bypasses the delay/feed pipeline: each call is already a
// discrete external edge, not a PHI2 sample of a level condition.
func (v *VIA) CountPB6() {
	if !v.t2Running || v.ACR&0x20 == 0 {
		return
	}
	if v.t2Counter == 0 {
		v.setFlag(FlagTimer2)
		v.t2Running = false
		return
	}
	v.t2Counter--
}

func (v *VIA) setFlag(flag uint8) {
	v.IFR |= flag
	if v.IER&flag != 0 {
		v.IFR |= FlagIRQ
		if !v.asserted {
			v.asserted = true
			if v.InterruptLine != nil {
				v.InterruptLine(true)
			}
		}
	}
}

// Register offsets within the 16-register file.
const (
	RegORB = iota
	RegORA
	RegDDRB
	RegDDRA
	RegT1CLo
	RegT1CHi
	RegT1LLo
	RegT1LHi
	RegT2CLo
	RegT2CHi
	RegSR
	RegACR
	RegPCR
	RegIFR
	RegIER
	RegORANoHandshake
)

// Access decodes a register read/write, reg already reduced modulo 16.
func (v *VIA) Access(reg uint8, value uint8, write bool) uint8 {
	reg &= 0x0f
	if write {
		v.write(reg, value)
		return value
	}
	return v.read(reg)
}

func (v *VIA) write(reg uint8, val uint8) {
	switch reg {
	case RegORB:
		v.ORB = val
		if v.WritePB != nil {
			v.WritePB(v.portB())
		}
	case RegORA, RegORANoHandshake:
		v.ORA = val
		if v.WritePA != nil {
			v.WritePA(v.portA())
		}
	case RegDDRB:
		v.DDRB = val
	case RegDDRA:
		v.DDRA = val
	case RegT1CLo, RegT1LLo:
		v.t1Latch = (v.t1Latch & 0xff00) | uint16(val)
	case RegT1CHi:
		v.t1Latch = (v.t1Latch & 0x00ff) | uint16(val)<<8
		v.t1Counter = v.t1Latch
		v.t1Running = true
		v.IFR &^= FlagTimer1
	case RegT1LHi:
		v.t1Latch = (v.t1Latch & 0x00ff) | uint16(val)<<8
	case RegT2CLo:
		v.t2Latch = (v.t2Latch & 0xff00) | uint16(val)
	case RegT2CHi:
		v.t2Latch = (v.t2Latch & 0x00ff) | uint16(val)<<8
		v.t2Counter = v.t2Latch
		v.t2Running = true
		v.IFR &^= FlagTimer2
	case RegSR:
		v.SR = val
	case RegACR:
		v.ACR = val
	case RegPCR:
		v.PCR = val
	case RegIFR:
		v.IFR &^= val & 0x7f
		if v.IFR&0x7f == 0 && v.asserted {
			v.asserted = false
			if v.InterruptLine != nil {
				v.InterruptLine(false)
			}
		}
	case RegIER:
		if val&FlagIRQ != 0 {
			v.IER |= val & 0x7f
		} else {
			v.IER &^= val & 0x7f
		}
	}
}

func (v *VIA) portA() uint8 {
	out := v.ORA & v.DDRA
	var in uint8
	if v.ReadPA != nil {
		in = v.ReadPA() &^ v.DDRA
	}
	return out | in
}

func (v *VIA) portB() uint8 {
	out := v.ORB & v.DDRB
	var in uint8
	if v.ReadPB != nil {
		in = v.ReadPB() &^ v.DDRB
	}
	return out | in
}

func (v *VIA) read(reg uint8) uint8 {
	switch reg {
	case RegORB:
		return v.portB()
	case RegORA, RegORANoHandshake:
		return v.portA()
	case RegDDRB:
		return v.DDRB
	case RegDDRA:
		return v.DDRA
	case RegT1CLo:
		v.IFR &^= FlagTimer1
		return uint8(v.t1Counter)
	case RegT1CHi:
		return uint8(v.t1Counter >> 8)
	case RegT1LLo:
		return uint8(v.t1Latch)
	case RegT1LHi:
		return uint8(v.t1Latch >> 8)
	case RegT2CLo:
		v.IFR &^= FlagTimer2
		return uint8(v.t2Counter)
	case RegT2CHi:
		return uint8(v.t2Counter >> 8)
	case RegSR:
		return v.SR
	case RegACR:
		return v.ACR
	case RegPCR:
		return v.PCR
	case RegIFR:
		return v.IFR
	case RegIER:
		return v.IER | FlagIRQ
	}
	return 0
}
