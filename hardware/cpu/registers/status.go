package registers

import "strings"

// Status is the 6510 processor status register (N V - B D I Z C).
type Status struct {
	Sign             bool
	Overflow         bool
	Break            bool
	DecimalMode      bool
	InterruptDisable bool
	Zero             bool
	Carry            bool
}

// NewStatus creates a Status register with the power-on pattern (bit 5 and
// the interrupt-disable flag set, matching the 6510's documented reset
// state).
func NewStatus() Status {
	s := Status{}
	s.Load(0x24)
	return s
}

func (s Status) Label() string { return "P" }

func (s Status) String() string {
	b := strings.Builder{}
	flag := func(set bool, c rune) {
		if set {
			b.WriteRune(c)
		} else {
			b.WriteRune(c + ('a' - 'A'))
		}
	}
	flag(s.Sign, 'N')
	flag(s.Overflow, 'V')
	b.WriteRune('-')
	flag(s.Break, 'B')
	flag(s.DecimalMode, 'D')
	flag(s.InterruptDisable, 'I')
	flag(s.Zero, 'Z')
	flag(s.Carry, 'C')
	return b.String()
}

// Value packs the flags into the byte format used on the stack (PHP/BRK) and
// read back by PLP/RTI, with the unused bit 5 always set.
func (s Status) Value() uint8 {
	var v uint8
	if s.Sign {
		v |= 0x80
	}
	if s.Overflow {
		v |= 0x40
	}
	if s.Break {
		v |= 0x10
	}
	if s.DecimalMode {
		v |= 0x08
	}
	if s.InterruptDisable {
		v |= 0x04
	}
	if s.Zero {
		v |= 0x02
	}
	if s.Carry {
		v |= 0x01
	}
	v |= 0x20
	return v
}

// Load unpacks a status byte, as read from the stack during PLP/RTI.
func (s *Status) Load(v uint8) {
	s.Sign = v&0x80 == 0x80
	s.Overflow = v&0x40 == 0x40
	s.Break = v&0x10 == 0x10
	s.DecimalMode = v&0x08 == 0x08
	s.InterruptDisable = v&0x04 == 0x04
	s.Zero = v&0x02 == 0x02
	s.Carry = v&0x01 == 0x01
}

// Reset restores the power-on pattern.
func (s *Status) Reset() {
	s.Load(0x24)
}
