package registers

// AddDecimal and SubtractDecimal implement BCD arithmetic for ADC/SBC when
// the decimal flag is set, following the algorithm in Appendix A of
// http://www.6502.org/tutorials/decimal_mode.html (the NMOS 6502/6510
// behaviour, including its slightly-odd N/V/Z flag rules).
func (d *Data) AddDecimal(val uint8, carry bool) (rcarry, rzero, roverflow, rsign bool) {
	// zero flag behaves as though this were a binary add
	br := *d
	_, _ = br.Add(val, carry)
	rzero = br.IsZero()

	al := (d.value & 0x0f) + (val & 0x0f)
	if carry {
		al++
	}
	if al >= 0x0a {
		al = ((al + 0x06) & 0x0f) + 0x10
	}

	a1 := (uint16(d.value) & 0xf0) + (uint16(val) & 0xf0) + uint16(al)
	if a1 >= 0xa0 {
		a1 += 0x60
	}
	rcarry = a1 >= 0x100

	a2 := int16(d.value&0xf0) + int16(val&0xf0) + int16(al)
	rsign = a2&0x80 == 0x80
	roverflow = ((d.value ^ uint8(a2)) & (val ^ uint8(a2)) & 0x80) != 0

	d.value = uint8(a1)
	return rcarry, rzero, roverflow, rsign
}

// SubtractDecimal implements BCD subtraction per Appendix A Seq.3.
func (d *Data) SubtractDecimal(val uint8, carry bool) (rcarry, rzero, roverflow, rsign bool) {
	br := *d
	rcarry, roverflow = br.Subtract(val, carry)
	rzero = br.IsZero()
	rsign = br.IsNegative()

	al := (int16(d.value) & 0x0f) - (int16(val) & 0x0f) - 1
	if carry {
		al++
	}
	if al < 0x00 {
		al = ((al - 0x06) & 0x0f) - 0x10
	}

	a := (int16(d.value) & 0xf0) - (int16(val) & 0xf0) + al
	if a < 0x00 {
		a -= 0x60
	}

	d.value = uint8(a)
	return rcarry, rzero, roverflow, rsign
}
