// Package instructions holds the static 6510 instruction table: one
// Definition per opcode byte, describing its mnemonic, addressing mode,
// memory-access effect and documented cycle count. The CPU package decodes
// an opcode into a Definition and drives execution from it; this package
// contains no execution logic itself.
package instructions

// AddressingMode identifies how an instruction's operand is located.
type AddressingMode int

// The 6510's addressing modes.
const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // (zp,X)
	IndirectY // (zp),Y
	Relative
)

// Effect classifies how an instruction touches the bus, which in turn
// determines whether an indexed addressing mode takes its extra
// page-crossing cycle unconditionally (Write/RMW) or only when a page is
// actually crossed (Read).
type Effect int

// Bus-access effects.
const (
	Read Effect = iota
	Write
	RMW
	Flow       // branches, jumps
	Subroutine // JSR/RTS/JSR/BRK/RTI
)

// Operator names every operation the CPU switches on, legal and illegal.
type Operator int

// The full set of 6510 operators: official mnemonics followed by the
// commonly-emulated undocumented opcodes.
const (
	Adc Operator = iota
	And
	Asl
	Bcc
	Bcs
	Beq
	Bit
	Bmi
	Bne
	Bpl
	Brk
	Bvc
	Bvs
	Clc
	Cld
	Cli
	Clv
	Cmp
	Cpx
	Cpy
	Dec
	Dex
	Dey
	Eor
	Inc
	Inx
	Iny
	Jmp
	Jsr
	Lda
	Ldx
	Ldy
	Lsr
	Nop
	Ora
	Pha
	Php
	Pla
	Plp
	Rol
	Ror
	Rti
	Rts
	Sbc
	Sec
	Sed
	Sei
	Sta
	Stx
	Sty
	Tax
	Tay
	Tsx
	Txa
	Txs
	Tya

	// undocumented
	Kil
	Slo
	Rla
	Sre
	Rra
	Sax
	Lax
	Dcp
	Isc
	Anc
	Asr // aka ALR
	Arr
	Xaa
	Axs // aka SBX
	Ahx // aka SHA
	Shy
	Shx
	Tas
	Las
)

// Definition fully describes one opcode.
type Definition struct {
	OpCode          uint8
	Mnemonic        string
	Operator        Operator
	AddressingMode  AddressingMode
	Effect          Effect
	DocumentedBytes int
	DocumentedCycles int

	// PageSensitive indicates that a +1 cycle penalty applies only when
	// indexed addressing crosses a page boundary. When false and the
	// addressing mode is indexed, the extra cycle always applies (Write/RMW
	// instructions, and branches which have their own rule).
	PageSensitive bool

	// Illegal marks an undocumented opcode.
	Illegal bool
}

func bytesFor(mode AddressingMode) int {
	switch mode {
	case Implied, Accumulator:
		return 1
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY, Relative:
		return 2
	default:
		return 3
	}
}

type def struct {
	mnem    string
	op      Operator
	mode    AddressingMode
	effect  Effect
	cycles  int
	pageSen bool
	illegal bool
}

// table is indexed by opcode byte.
var table [256]def

func set(opcode uint8, mnem string, op Operator, mode AddressingMode, effect Effect, cycles int, pageSen bool, illegal bool) {
	table[opcode] = def{mnem, op, mode, effect, cycles, pageSen, illegal}
}

func init() {
	// Documented instructions.
	set(0x00, "BRK", Brk, Implied, Subroutine, 7, false, false)
	set(0x01, "ORA", Ora, IndirectX, Read, 6, false, false)
	set(0x05, "ORA", Ora, ZeroPage, Read, 3, false, false)
	set(0x06, "ASL", Asl, ZeroPage, RMW, 5, false, false)
	set(0x08, "PHP", Php, Implied, Write, 3, false, false)
	set(0x09, "ORA", Ora, Immediate, Read, 2, false, false)
	set(0x0a, "ASL", Asl, Accumulator, Read, 2, false, false)
	set(0x0d, "ORA", Ora, Absolute, Read, 4, false, false)
	set(0x0e, "ASL", Asl, Absolute, RMW, 6, false, false)

	set(0x10, "BPL", Bpl, Relative, Flow, 2, true, false)
	set(0x11, "ORA", Ora, IndirectY, Read, 5, true, false)
	set(0x15, "ORA", Ora, ZeroPageX, Read, 4, false, false)
	set(0x16, "ASL", Asl, ZeroPageX, RMW, 6, false, false)
	set(0x18, "CLC", Clc, Implied, Read, 2, false, false)
	set(0x19, "ORA", Ora, AbsoluteY, Read, 4, true, false)
	set(0x1d, "ORA", Ora, AbsoluteX, Read, 4, true, false)
	set(0x1e, "ASL", Asl, AbsoluteX, RMW, 7, false, false)

	set(0x20, "JSR", Jsr, Absolute, Subroutine, 6, false, false)
	set(0x21, "AND", And, IndirectX, Read, 6, false, false)
	set(0x24, "BIT", Bit, ZeroPage, Read, 3, false, false)
	set(0x25, "AND", And, ZeroPage, Read, 3, false, false)
	set(0x26, "ROL", Rol, ZeroPage, RMW, 5, false, false)
	set(0x28, "PLP", Plp, Implied, Read, 4, false, false)
	set(0x29, "AND", And, Immediate, Read, 2, false, false)
	set(0x2a, "ROL", Rol, Accumulator, Read, 2, false, false)
	set(0x2c, "BIT", Bit, Absolute, Read, 4, false, false)
	set(0x2d, "AND", And, Absolute, Read, 4, false, false)
	set(0x2e, "ROL", Rol, Absolute, RMW, 6, false, false)

	set(0x30, "BMI", Bmi, Relative, Flow, 2, true, false)
	set(0x31, "AND", And, IndirectY, Read, 5, true, false)
	set(0x35, "AND", And, ZeroPageX, Read, 4, false, false)
	set(0x36, "ROL", Rol, ZeroPageX, RMW, 6, false, false)
	set(0x38, "SEC", Sec, Implied, Read, 2, false, false)
	set(0x39, "AND", And, AbsoluteY, Read, 4, true, false)
	set(0x3d, "AND", And, AbsoluteX, Read, 4, true, false)
	set(0x3e, "ROL", Rol, AbsoluteX, RMW, 7, false, false)

	set(0x40, "RTI", Rti, Implied, Subroutine, 6, false, false)
	set(0x41, "EOR", Eor, IndirectX, Read, 6, false, false)
	set(0x45, "EOR", Eor, ZeroPage, Read, 3, false, false)
	set(0x46, "LSR", Lsr, ZeroPage, RMW, 5, false, false)
	set(0x48, "PHA", Pha, Implied, Write, 3, false, false)
	set(0x49, "EOR", Eor, Immediate, Read, 2, false, false)
	set(0x4a, "LSR", Lsr, Accumulator, Read, 2, false, false)
	set(0x4c, "JMP", Jmp, Absolute, Flow, 3, false, false)
	set(0x4d, "EOR", Eor, Absolute, Read, 4, false, false)
	set(0x4e, "LSR", Lsr, Absolute, RMW, 6, false, false)

	set(0x50, "BVC", Bvc, Relative, Flow, 2, true, false)
	set(0x51, "EOR", Eor, IndirectY, Read, 5, true, false)
	set(0x55, "EOR", Eor, ZeroPageX, Read, 4, false, false)
	set(0x56, "LSR", Lsr, ZeroPageX, RMW, 6, false, false)
	set(0x58, "CLI", Cli, Implied, Read, 2, false, false)
	set(0x59, "EOR", Eor, AbsoluteY, Read, 4, true, false)
	set(0x5d, "EOR", Eor, AbsoluteX, Read, 4, true, false)
	set(0x5e, "LSR", Lsr, AbsoluteX, RMW, 7, false, false)

	set(0x60, "RTS", Rts, Implied, Subroutine, 6, false, false)
	set(0x61, "ADC", Adc, IndirectX, Read, 6, false, false)
	set(0x65, "ADC", Adc, ZeroPage, Read, 3, false, false)
	set(0x66, "ROR", Ror, ZeroPage, RMW, 5, false, false)
	set(0x68, "PLA", Pla, Implied, Read, 4, false, false)
	set(0x69, "ADC", Adc, Immediate, Read, 2, false, false)
	set(0x6a, "ROR", Ror, Accumulator, Read, 2, false, false)
	set(0x6c, "JMP", Jmp, Indirect, Flow, 5, false, false)
	set(0x6d, "ADC", Adc, Absolute, Read, 4, false, false)
	set(0x6e, "ROR", Ror, Absolute, RMW, 6, false, false)

	set(0x70, "BVS", Bvs, Relative, Flow, 2, true, false)
	set(0x71, "ADC", Adc, IndirectY, Read, 5, true, false)
	set(0x75, "ADC", Adc, ZeroPageX, Read, 4, false, false)
	set(0x76, "ROR", Ror, ZeroPageX, RMW, 6, false, false)
	set(0x78, "SEI", Sei, Implied, Read, 2, false, false)
	set(0x79, "ADC", Adc, AbsoluteY, Read, 4, true, false)
	set(0x7d, "ADC", Adc, AbsoluteX, Read, 4, true, false)
	set(0x7e, "ROR", Ror, AbsoluteX, RMW, 7, false, false)

	set(0x81, "STA", Sta, IndirectX, Write, 6, false, false)
	set(0x84, "STY", Sty, ZeroPage, Write, 3, false, false)
	set(0x85, "STA", Sta, ZeroPage, Write, 3, false, false)
	set(0x86, "STX", Stx, ZeroPage, Write, 3, false, false)
	set(0x88, "DEY", Dey, Implied, Read, 2, false, false)
	set(0x8a, "TXA", Txa, Implied, Read, 2, false, false)
	set(0x8c, "STY", Sty, Absolute, Write, 4, false, false)
	set(0x8d, "STA", Sta, Absolute, Write, 4, false, false)
	set(0x8e, "STX", Stx, Absolute, Write, 4, false, false)

	set(0x90, "BCC", Bcc, Relative, Flow, 2, true, false)
	set(0x91, "STA", Sta, IndirectY, Write, 6, false, false)
	set(0x94, "STY", Sty, ZeroPageX, Write, 4, false, false)
	set(0x95, "STA", Sta, ZeroPageX, Write, 4, false, false)
	set(0x96, "STX", Stx, ZeroPageY, Write, 4, false, false)
	set(0x98, "TYA", Tya, Implied, Read, 2, false, false)
	set(0x99, "STA", Sta, AbsoluteY, Write, 5, false, false)
	set(0x9a, "TXS", Txs, Implied, Read, 2, false, false)
	set(0x9d, "STA", Sta, AbsoluteX, Write, 5, false, false)

	set(0xa0, "LDY", Ldy, Immediate, Read, 2, false, false)
	set(0xa1, "LDA", Lda, IndirectX, Read, 6, false, false)
	set(0xa2, "LDX", Ldx, Immediate, Read, 2, false, false)
	set(0xa4, "LDY", Ldy, ZeroPage, Read, 3, false, false)
	set(0xa5, "LDA", Lda, ZeroPage, Read, 3, false, false)
	set(0xa6, "LDX", Ldx, ZeroPage, Read, 3, false, false)
	set(0xa8, "TAY", Tay, Implied, Read, 2, false, false)
	set(0xa9, "LDA", Lda, Immediate, Read, 2, false, false)
	set(0xaa, "TAX", Tax, Implied, Read, 2, false, false)
	set(0xac, "LDY", Ldy, Absolute, Read, 4, false, false)
	set(0xad, "LDA", Lda, Absolute, Read, 4, false, false)
	set(0xae, "LDX", Ldx, Absolute, Read, 4, false, false)

	set(0xb0, "BCS", Bcs, Relative, Flow, 2, true, false)
	set(0xb1, "LDA", Lda, IndirectY, Read, 5, true, false)
	set(0xb4, "LDY", Ldy, ZeroPageX, Read, 4, false, false)
	set(0xb5, "LDA", Lda, ZeroPageX, Read, 4, false, false)
	set(0xb6, "LDX", Ldx, ZeroPageY, Read, 4, false, false)
	set(0xb8, "CLV", Clv, Implied, Read, 2, false, false)
	set(0xb9, "LDA", Lda, AbsoluteY, Read, 4, true, false)
	set(0xba, "TSX", Tsx, Implied, Read, 2, false, false)
	set(0xbc, "LDY", Ldy, AbsoluteX, Read, 4, true, false)
	set(0xbd, "LDA", Lda, AbsoluteX, Read, 4, true, false)
	set(0xbe, "LDX", Ldx, AbsoluteY, Read, 4, true, false)

	set(0xc0, "CPY", Cpy, Immediate, Read, 2, false, false)
	set(0xc1, "CMP", Cmp, IndirectX, Read, 6, false, false)
	set(0xc4, "CPY", Cpy, ZeroPage, Read, 3, false, false)
	set(0xc5, "CMP", Cmp, ZeroPage, Read, 3, false, false)
	set(0xc6, "DEC", Dec, ZeroPage, RMW, 5, false, false)
	set(0xc8, "INY", Iny, Implied, Read, 2, false, false)
	set(0xc9, "CMP", Cmp, Immediate, Read, 2, false, false)
	set(0xca, "DEX", Dex, Implied, Read, 2, false, false)
	set(0xcc, "CPY", Cpy, Absolute, Read, 4, false, false)
	set(0xcd, "CMP", Cmp, Absolute, Read, 4, false, false)
	set(0xce, "DEC", Dec, Absolute, RMW, 6, false, false)

	set(0xd0, "BNE", Bne, Relative, Flow, 2, true, false)
	set(0xd1, "CMP", Cmp, IndirectY, Read, 5, true, false)
	set(0xd5, "CMP", Cmp, ZeroPageX, Read, 4, false, false)
	set(0xd6, "DEC", Dec, ZeroPageX, RMW, 6, false, false)
	set(0xd8, "CLD", Cld, Implied, Read, 2, false, false)
	set(0xd9, "CMP", Cmp, AbsoluteY, Read, 4, true, false)
	set(0xdd, "CMP", Cmp, AbsoluteX, Read, 4, true, false)
	set(0xde, "DEC", Dec, AbsoluteX, RMW, 7, false, false)

	set(0xe0, "CPX", Cpx, Immediate, Read, 2, false, false)
	set(0xe1, "SBC", Sbc, IndirectX, Read, 6, false, false)
	set(0xe4, "CPX", Cpx, ZeroPage, Read, 3, false, false)
	set(0xe5, "SBC", Sbc, ZeroPage, Read, 3, false, false)
	set(0xe6, "INC", Inc, ZeroPage, RMW, 5, false, false)
	set(0xe8, "INX", Inx, Implied, Read, 2, false, false)
	set(0xe9, "SBC", Sbc, Immediate, Read, 2, false, false)
	set(0xea, "NOP", Nop, Implied, Read, 2, false, false)
	set(0xec, "CPX", Cpx, Absolute, Read, 4, false, false)
	set(0xed, "SBC", Sbc, Absolute, Read, 4, false, false)
	set(0xee, "INC", Inc, Absolute, RMW, 6, false, false)

	set(0xf0, "BEQ", Beq, Relative, Flow, 2, true, false)
	set(0xf1, "SBC", Sbc, IndirectY, Read, 5, true, false)
	set(0xf5, "SBC", Sbc, ZeroPageX, Read, 4, false, false)
	set(0xf6, "INC", Inc, ZeroPageX, RMW, 6, false, false)
	set(0xf8, "SED", Sed, Implied, Read, 2, false, false)
	set(0xf9, "SBC", Sbc, AbsoluteY, Read, 4, true, false)
	set(0xfd, "SBC", Sbc, AbsoluteX, Read, 4, true, false)
	set(0xfe, "INC", Inc, AbsoluteX, RMW, 7, false, false)

	// KIL / JAM - hard lock opcodes
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xb2, 0xd2, 0xf2} {
		set(op, "KIL", Kil, Implied, Read, 1, false, true)
	}

	// Undocumented opcodes commonly emulated.
	set(0x03, "SLO", Slo, IndirectX, RMW, 8, false, true)
	set(0x07, "SLO", Slo, ZeroPage, RMW, 5, false, true)
	set(0x0b, "ANC", Anc, Immediate, Read, 2, false, true)
	set(0x0f, "SLO", Slo, Absolute, RMW, 6, false, true)
	set(0x13, "SLO", Slo, IndirectY, RMW, 8, false, true)
	set(0x17, "SLO", Slo, ZeroPageX, RMW, 6, false, true)
	set(0x1a, "NOP", Nop, Implied, Read, 2, false, true)
	set(0x1b, "SLO", Slo, AbsoluteY, RMW, 7, false, true)
	set(0x1c, "NOP", Nop, AbsoluteX, Read, 4, true, true)
	set(0x1f, "SLO", Slo, AbsoluteX, RMW, 7, false, true)

	set(0x23, "RLA", Rla, IndirectX, RMW, 8, false, true)
	set(0x27, "RLA", Rla, ZeroPage, RMW, 5, false, true)
	set(0x2b, "ANC", Anc, Immediate, Read, 2, false, true)
	set(0x2f, "RLA", Rla, Absolute, RMW, 6, false, true)
	set(0x33, "RLA", Rla, IndirectY, RMW, 8, false, true)
	set(0x37, "RLA", Rla, ZeroPageX, RMW, 6, false, true)
	set(0x3a, "NOP", Nop, Implied, Read, 2, false, true)
	set(0x3b, "RLA", Rla, AbsoluteY, RMW, 7, false, true)
	set(0x3c, "NOP", Nop, AbsoluteX, Read, 4, true, true)
	set(0x3f, "RLA", Rla, AbsoluteX, RMW, 7, false, true)

	set(0x43, "SRE", Sre, IndirectX, RMW, 8, false, true)
	set(0x47, "SRE", Sre, ZeroPage, RMW, 5, false, true)
	set(0x4b, "ASR", Asr, Immediate, Read, 2, false, true)
	set(0x4f, "SRE", Sre, Absolute, RMW, 6, false, true)
	set(0x53, "SRE", Sre, IndirectY, RMW, 8, false, true)
	set(0x57, "SRE", Sre, ZeroPageX, RMW, 6, false, true)
	set(0x5a, "NOP", Nop, Implied, Read, 2, false, true)
	set(0x5b, "SRE", Sre, AbsoluteY, RMW, 7, false, true)
	set(0x5c, "NOP", Nop, AbsoluteX, Read, 4, true, true)
	set(0x5f, "SRE", Sre, AbsoluteX, RMW, 7, false, true)

	set(0x63, "RRA", Rra, IndirectX, RMW, 8, false, true)
	set(0x67, "RRA", Rra, ZeroPage, RMW, 5, false, true)
	set(0x6b, "ARR", Arr, Immediate, Read, 2, false, true)
	set(0x6f, "RRA", Rra, Absolute, RMW, 6, false, true)
	set(0x73, "RRA", Rra, IndirectY, RMW, 8, false, true)
	set(0x77, "RRA", Rra, ZeroPageX, RMW, 6, false, true)
	set(0x7a, "NOP", Nop, Implied, Read, 2, false, true)
	set(0x7b, "RRA", Rra, AbsoluteY, RMW, 7, false, true)
	set(0x7c, "NOP", Nop, AbsoluteX, Read, 4, true, true)
	set(0x7f, "RRA", Rra, AbsoluteX, RMW, 7, false, true)

	set(0x80, "NOP", Nop, Immediate, Read, 2, false, true)
	set(0x82, "NOP", Nop, Immediate, Read, 2, false, true)
	set(0x83, "SAX", Sax, IndirectX, Write, 6, false, true)
	set(0x87, "SAX", Sax, ZeroPage, Write, 3, false, true)
	set(0x89, "NOP", Nop, Immediate, Read, 2, false, true)
	set(0x8b, "XAA", Xaa, Immediate, Read, 2, false, true)
	set(0x8f, "SAX", Sax, Absolute, Write, 4, false, true)
	set(0x93, "AHX", Ahx, IndirectY, Write, 6, false, true)
	set(0x97, "SAX", Sax, ZeroPageY, Write, 4, false, true)
	set(0x9b, "TAS", Tas, AbsoluteY, Write, 5, false, true)
	set(0x9c, "SHY", Shy, AbsoluteX, Write, 5, false, true)
	set(0x9e, "SHX", Shx, AbsoluteY, Write, 5, false, true)
	set(0x9f, "AHX", Ahx, AbsoluteY, Write, 5, false, true)

	set(0xa3, "LAX", Lax, IndirectX, Read, 6, false, true)
	set(0xa7, "LAX", Lax, ZeroPage, Read, 3, false, true)
	set(0xab, "LAX", Lax, Immediate, Read, 2, false, true)
	set(0xaf, "LAX", Lax, Absolute, Read, 4, false, true)
	set(0xb3, "LAX", Lax, IndirectY, Read, 5, true, true)
	set(0xb7, "LAX", Lax, ZeroPageY, Read, 4, false, true)
	set(0xbb, "LAS", Las, AbsoluteY, Read, 4, true, true)
	set(0xbf, "LAX", Lax, AbsoluteY, Read, 4, true, true)

	set(0xc2, "NOP", Nop, Immediate, Read, 2, false, true)
	set(0xc3, "DCP", Dcp, IndirectX, RMW, 8, false, true)
	set(0xc7, "DCP", Dcp, ZeroPage, RMW, 5, false, true)
	set(0xcb, "AXS", Axs, Immediate, Read, 2, false, true)
	set(0xcf, "DCP", Dcp, Absolute, RMW, 6, false, true)
	set(0xd3, "DCP", Dcp, IndirectY, RMW, 8, false, true)
	set(0xd4, "NOP", Nop, ZeroPageX, Read, 4, false, true)
	set(0xd7, "DCP", Dcp, ZeroPageX, RMW, 6, false, true)
	set(0xda, "NOP", Nop, Implied, Read, 2, false, true)
	set(0xdb, "DCP", Dcp, AbsoluteY, RMW, 7, false, true)
	set(0xdc, "NOP", Nop, AbsoluteX, Read, 4, true, true)
	set(0xdf, "DCP", Dcp, AbsoluteX, RMW, 7, false, true)

	set(0xe2, "NOP", Nop, Immediate, Read, 2, false, true)
	set(0xe3, "ISC", Isc, IndirectX, RMW, 8, false, true)
	set(0xe7, "ISC", Isc, ZeroPage, RMW, 5, false, true)
	set(0xeb, "SBC", Sbc, Immediate, Read, 2, false, true)
	set(0xef, "ISC", Isc, Absolute, RMW, 6, false, true)
	set(0xf3, "ISC", Isc, IndirectY, RMW, 8, false, true)
	set(0xf4, "NOP", Nop, ZeroPageX, Read, 4, false, true)
	set(0xf7, "ISC", Isc, ZeroPageX, RMW, 6, false, true)
	set(0xfa, "NOP", Nop, Implied, Read, 2, false, true)
	set(0xfb, "ISC", Isc, AbsoluteY, RMW, 7, false, true)
	set(0xfc, "NOP", Nop, AbsoluteX, Read, 4, true, true)
	set(0xff, "ISC", Isc, AbsoluteX, RMW, 7, false, true)

	// any opcode not explicitly set above behaves as a documented two-cycle
	// NOP; the NMOS 6510 has no truly unassigned opcodes.
	for i := range table {
		if table[i].mnem == "" {
			set(uint8(i), "NOP", Nop, Implied, Read, 2, false, true)
		}
	}
}

// Definitions returns a freshly built [256]*Definition, indexed by opcode.
func Definitions() [256]*Definition {
	var out [256]*Definition
	for i, d := range table {
		out[i] = &Definition{
			OpCode:           uint8(i),
			Mnemonic:         d.mnem,
			Operator:         d.op,
			AddressingMode:   d.mode,
			Effect:           d.effect,
			DocumentedBytes:  bytesFor(d.mode),
			DocumentedCycles: d.cycles,
			PageSensitive:    d.pageSen,
			Illegal:          d.illegal,
		}
	}
	return out
}
