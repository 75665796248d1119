package cpu

import "github.com/go64/go64/hardware/cpu/instructions"

// execute performs the operation named by def against the resolved operand.
// Memory effects (the write-back half of RMW instructions) happen here, one
// bus access at a time, via cycleCallback just like every other access.
func (c *CPU) execute(def *instructions.Definition, op operand, pageCrossed bool, cycleCallback func() error) error {
	fetch := func() (uint8, error) {
		if op.isImmediate {
			return op.value, nil
		}
		if op.isAccumulator {
			return c.A.Value(), nil
		}
		return c.read(op.address, cycleCallback)
	}

	store := func(v uint8) error {
		if op.isAccumulator {
			c.A.Load(v)
			return nil
		}
		return c.write(op.address, v, cycleCallback)
	}

	// RMW instructions perform: read, dummy-write-same-value, write-new-value.
	rmw := func(f func(uint8) uint8) error {
		v, err := fetch()
		if err != nil {
			return err
		}
		if !op.isAccumulator {
			if err := c.write(op.address, v, cycleCallback); err != nil {
				return err
			}
		}
		nv := f(v)
		return store(nv)
	}

	switch def.Operator {

	case instructions.Adc:
		v, err := fetch()
		if err != nil {
			return err
		}
		if c.SR.DecimalMode {
			carry, zero, overflow, sign := c.A.AddDecimal(v, c.SR.Carry)
			c.SR.Carry, c.SR.Zero, c.SR.Overflow, c.SR.Sign = carry, zero, overflow, sign
		} else {
			carry, overflow := c.A.Add(v, c.SR.Carry)
			c.SR.Carry, c.SR.Overflow = carry, overflow
			c.SR.Zero, c.SR.Sign = c.A.IsZero(), c.A.IsNegative()
		}
		return nil

	case instructions.Sbc:
		v, err := fetch()
		if err != nil {
			return err
		}
		if c.SR.DecimalMode {
			carry, zero, overflow, sign := c.A.SubtractDecimal(v, c.SR.Carry)
			c.SR.Carry, c.SR.Zero, c.SR.Overflow, c.SR.Sign = carry, zero, overflow, sign
		} else {
			carry, overflow := c.A.Subtract(v, c.SR.Carry)
			c.SR.Carry, c.SR.Overflow = carry, overflow
			c.SR.Zero, c.SR.Sign = c.A.IsZero(), c.A.IsNegative()
		}
		return nil

	case instructions.And:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.AND(v)
		c.setNZ(c.A.Value())
		return nil

	case instructions.Ora:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.ORA(v)
		c.setNZ(c.A.Value())
		return nil

	case instructions.Eor:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.EOR(v)
		c.setNZ(c.A.Value())
		return nil

	case instructions.Asl:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.ASL()
			c.setNZ(reg.Value())
			return reg.Value()
		})

	case instructions.Lsr:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.LSR()
			c.setNZ(reg.Value())
			return reg.Value()
		})

	case instructions.Rol:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.ROL(c.SR.Carry)
			c.setNZ(reg.Value())
			return reg.Value()
		})

	case instructions.Ror:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.ROR(c.SR.Carry)
			c.setNZ(reg.Value())
			return reg.Value()
		})

	case instructions.Inc:
		return rmw(func(v uint8) uint8 {
			v++
			c.setNZ(v)
			return v
		})

	case instructions.Dec:
		return rmw(func(v uint8) uint8 {
			v--
			c.setNZ(v)
			return v
		})

	case instructions.Inx:
		c.X.Load(c.X.Value() + 1)
		c.setNZ(c.X.Value())
		return nil
	case instructions.Iny:
		c.Y.Load(c.Y.Value() + 1)
		c.setNZ(c.Y.Value())
		return nil
	case instructions.Dex:
		c.X.Load(c.X.Value() - 1)
		c.setNZ(c.X.Value())
		return nil
	case instructions.Dey:
		c.Y.Load(c.Y.Value() - 1)
		c.setNZ(c.Y.Value())
		return nil

	case instructions.Lda:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.Load(v)
		c.setNZ(v)
		return nil
	case instructions.Ldx:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.X.Load(v)
		c.setNZ(v)
		return nil
	case instructions.Ldy:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.Y.Load(v)
		c.setNZ(v)
		return nil

	case instructions.Sta:
		return store(c.A.Value())
	case instructions.Stx:
		return store(c.X.Value())
	case instructions.Sty:
		return store(c.Y.Value())

	case instructions.Tax:
		c.X.Load(c.A.Value())
		c.setNZ(c.X.Value())
		return nil
	case instructions.Tay:
		c.Y.Load(c.A.Value())
		c.setNZ(c.Y.Value())
		return nil
	case instructions.Txa:
		c.A.Load(c.X.Value())
		c.setNZ(c.A.Value())
		return nil
	case instructions.Tya:
		c.A.Load(c.Y.Value())
		c.setNZ(c.A.Value())
		return nil
	case instructions.Tsx:
		c.X.Load(c.SP.Value())
		c.setNZ(c.X.Value())
		return nil
	case instructions.Txs:
		c.SP.Load(c.X.Value())
		return nil

	case instructions.Cmp:
		return c.compare(c.A.Value(), fetch)
	case instructions.Cpx:
		return c.compare(c.X.Value(), fetch)
	case instructions.Cpy:
		return c.compare(c.Y.Value(), fetch)

	case instructions.Bit:
		v, err := fetch()
		if err != nil {
			return err
		}
		reg := c.A
		reg.Load(v)
		c.SR.Sign = reg.IsNegative()
		c.SR.Overflow = reg.IsBitV()
		c.SR.Zero = (v & c.A.Value()) == 0
		return nil

	case instructions.Clc:
		c.SR.Carry = false
		return nil
	case instructions.Sec:
		c.SR.Carry = true
		return nil
	case instructions.Cli:
		c.SR.InterruptDisable = false
		return nil
	case instructions.Sei:
		c.SR.InterruptDisable = true
		return nil
	case instructions.Cld:
		c.SR.DecimalMode = false
		return nil
	case instructions.Sed:
		c.SR.DecimalMode = true
		return nil
	case instructions.Clv:
		c.SR.Overflow = false
		return nil

	case instructions.Nop:
		if def.Illegal && !op.isImmediate && !op.isAccumulator && op.address != 0 {
			_, err := fetch()
			return err
		}
		return nil

	case instructions.Pha:
		return c.push(c.A.Value(), cycleCallback)
	case instructions.Php:
		sr := c.SR
		sr.Break = true
		return c.push(sr.Value(), cycleCallback)
	case instructions.Pla:
		v, err := c.pull(cycleCallback)
		if err != nil {
			return err
		}
		c.A.Load(v)
		c.setNZ(v)
		return nil
	case instructions.Plp:
		v, err := c.pull(cycleCallback)
		if err != nil {
			return err
		}
		c.SR.Load(v)
		return nil

	case instructions.Jmp:
		c.PC.Load(op.address)
		return nil

	case instructions.Jsr:
		// JSR pushes PC-1 of the instruction after itself
		ret := c.PC.Value() - 1
		if err := c.push(uint8(ret>>8), cycleCallback); err != nil {
			return err
		}
		if err := c.push(uint8(ret), cycleCallback); err != nil {
			return err
		}
		c.PC.Load(op.address)
		return nil

	case instructions.Rts:
		lo, err := c.pull(cycleCallback)
		if err != nil {
			return err
		}
		hi, err := c.pull(cycleCallback)
		if err != nil {
			return err
		}
		c.PC.Load(uint16(hi)<<8 | uint16(lo))
		c.PC.Add(1)
		// one extra dead cycle incrementing PC
		_, err = c.read(c.PC.Value(), cycleCallback)
		return err

	case instructions.Brk:
		c.PC.Add(1)
		return c.serviceInterrupt(0xfffe, true, cycleCallback)

	case instructions.Rti:
		v, err := c.pull(cycleCallback)
		if err != nil {
			return err
		}
		c.SR.Load(v)
		lo, err := c.pull(cycleCallback)
		if err != nil {
			return err
		}
		hi, err := c.pull(cycleCallback)
		if err != nil {
			return err
		}
		c.PC.Load(uint16(hi)<<8 | uint16(lo))
		return nil

	case instructions.Bcc:
		return c.branch(!c.SR.Carry, op.value, cycleCallback)
	case instructions.Bcs:
		return c.branch(c.SR.Carry, op.value, cycleCallback)
	case instructions.Beq:
		return c.branch(c.SR.Zero, op.value, cycleCallback)
	case instructions.Bne:
		return c.branch(!c.SR.Zero, op.value, cycleCallback)
	case instructions.Bmi:
		return c.branch(c.SR.Sign, op.value, cycleCallback)
	case instructions.Bpl:
		return c.branch(!c.SR.Sign, op.value, cycleCallback)
	case instructions.Bvc:
		return c.branch(!c.SR.Overflow, op.value, cycleCallback)
	case instructions.Bvs:
		return c.branch(c.SR.Overflow, op.value, cycleCallback)

	// undocumented combination opcodes
	case instructions.Slo:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.ASL()
			v = reg.Value()
			c.A.ORA(v)
			c.setNZ(c.A.Value())
			return v
		})
	case instructions.Rla:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.ROL(c.SR.Carry)
			v = reg.Value()
			c.A.AND(v)
			c.setNZ(c.A.Value())
			return v
		})
	case instructions.Sre:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.LSR()
			v = reg.Value()
			c.A.EOR(v)
			c.setNZ(c.A.Value())
			return v
		})
	case instructions.Rra:
		return rmw(func(v uint8) uint8 {
			reg := c.A
			reg.Load(v)
			c.SR.Carry = reg.ROR(c.SR.Carry)
			v = reg.Value()
			carry, overflow := c.A.Add(v, c.SR.Carry)
			c.SR.Carry, c.SR.Overflow = carry, overflow
			c.setNZ(c.A.Value())
			return v
		})
	case instructions.Sax:
		return store(c.A.Value() & c.X.Value())
	case instructions.Lax:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.Load(v)
		c.X.Load(v)
		c.setNZ(v)
		return nil
	case instructions.Dcp:
		return rmw(func(v uint8) uint8 {
			v--
			c.compareValue(c.A.Value(), v)
			return v
		})
	case instructions.Isc:
		return rmw(func(v uint8) uint8 {
			v++
			carry, overflow := c.A.Subtract(v, c.SR.Carry)
			c.SR.Carry, c.SR.Overflow = carry, overflow
			c.setNZ(c.A.Value())
			return v
		})
	case instructions.Anc:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.AND(v)
		c.setNZ(c.A.Value())
		c.SR.Carry = c.A.IsNegative()
		return nil
	case instructions.Asr:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.AND(v)
		c.SR.Carry = c.A.LSR()
		c.setNZ(c.A.Value())
		return nil
	case instructions.Arr:
		v, err := fetch()
		if err != nil {
			return err
		}
		c.A.AND(v)
		c.SR.Carry = c.A.ROR(c.SR.Carry)
		c.setNZ(c.A.Value())
		c.SR.Overflow = (c.A.Value()>>5)&1 != (c.A.Value()>>6)&1
		c.SR.Carry = (c.A.Value()>>6)&1 == 1
		return nil
	case instructions.Axs:
		v, err := fetch()
		if err != nil {
			return err
		}
		r := (c.A.Value() & c.X.Value())
		carry := r >= v
		r -= v
		c.X.Load(r)
		c.setNZ(r)
		c.SR.Carry = carry
		return nil
	case instructions.Xaa, instructions.Ahx, instructions.Shy, instructions.Shx, instructions.Tas, instructions.Las:
		// highly unstable opcodes (depend on analog bus capacitance on real
		// silicon); implemented only to the extent of not crashing the
		// decode loop, matching the common "unsupported" emulation stance.
		_, err := fetch()
		return err
	}
	return nil
}

func (c *CPU) setNZ(v uint8) {
	c.SR.Zero = v == 0
	c.SR.Sign = v&0x80 == 0x80
}

func (c *CPU) compare(reg uint8, fetch func() (uint8, error)) error {
	v, err := fetch()
	if err != nil {
		return err
	}
	c.compareValue(reg, v)
	return nil
}

func (c *CPU) compareValue(reg, v uint8) {
	r := reg - v
	c.SR.Carry = reg >= v
	c.SR.Zero = reg == v
	c.SR.Sign = r&0x80 == 0x80
}
