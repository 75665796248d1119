package registers

import "fmt"

// ProgramCounter is the 16-bit PC register.
type ProgramCounter struct {
	value uint16
}

// NewProgramCounter creates a ProgramCounter with an initial value.
func NewProgramCounter(val uint16) ProgramCounter {
	return ProgramCounter{value: val}
}

func (pc ProgramCounter) Label() string { return "PC" }

func (pc ProgramCounter) String() string {
	return fmt.Sprintf("%04x", pc.value)
}

// Value and Address are equivalent for a 16-bit register; Address exists so
// PC satisfies the same shape as the 8-bit registers where callers need a
// uint16.
func (pc ProgramCounter) Value() uint16   { return pc.value }
func (pc ProgramCounter) Address() uint16 { return pc.value }

// Load sets the PC directly.
func (pc *ProgramCounter) Load(val uint16) {
	pc.value = val
}

// Add advances the PC by val, wrapping at 64K (a real PC cycling is
// considered an emulator bug but we don't want to panic over it).
func (pc *ProgramCounter) Add(val uint16) {
	pc.value += val
}
