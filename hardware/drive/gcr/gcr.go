// Package gcr implements the group-code recording 4-bit-to-5-bit encoding
// the 1541 uses to store nibbles on disk: every run of four data bits maps
// to a five-bit code chosen so that no valid code has more than two
// consecutive zero bits, which is what lets the drive's data separator
// recover a bit clock from the raw flux transitions.
package gcr

// encodeTable maps a 4-bit nibble to its 5-bit GCR code.
var encodeTable = [16]uint8{
	0x0a, 0x0b, 0x12, 0x13,
	0x0e, 0x0f, 0x16, 0x17,
	0x09, 0x19, 0x1a, 0x1b,
	0x0d, 0x1d, 0x1e, 0x15,
}

// decodeTable maps a 5-bit GCR code back to its 4-bit nibble; invalid codes
// map to 0xff.
var decodeTable = buildDecodeTable()

func buildDecodeTable() [32]uint8 {
	var t [32]uint8
	for i := range t {
		t[i] = 0xff
	}
	for nibble, code := range encodeTable {
		t[code] = uint8(nibble)
	}
	return t
}

// EncodeNibble converts a 4-bit value (only the low nibble is used) to its
// 5-bit GCR code.
func EncodeNibble(v uint8) uint8 {
	return encodeTable[v&0x0f]
}

// DecodeNibble converts a 5-bit GCR code (only the low 5 bits are used)
// back to a 4-bit value. ok is false for one of the sixteen codes with no
// valid decoding (used by the 1541 as sync/sentinel patterns).
func DecodeNibble(code uint8) (value uint8, ok bool) {
	v := decodeTable[code&0x1f]
	return v, v != 0xff
}

// EncodeBlock converts 4 raw data bytes into 5 GCR-encoded bytes, the unit
// the 1541's DOS operates on when writing a sector (each group of 4 bytes
// packs eight nibbles into five 5-bit-aligned bytes).
func EncodeBlock(in [4]byte) [5]byte {
	nibbles := [8]uint8{
		in[0] >> 4, in[0] & 0x0f,
		in[1] >> 4, in[1] & 0x0f,
		in[2] >> 4, in[2] & 0x0f,
		in[3] >> 4, in[3] & 0x0f,
	}
	var codes [8]uint8
	for i, n := range nibbles {
		codes[i] = EncodeNibble(n)
	}

	var out [5]byte
	bitpos := 0
	for _, c := range codes {
		for b := 4; b >= 0; b-- {
			bit := (c >> uint(b)) & 1
			byteIdx := bitpos / 8
			bitIdx := 7 - (bitpos % 8)
			out[byteIdx] |= bit << uint(bitIdx)
			bitpos++
		}
	}
	return out
}

// DecodeBlock reverses EncodeBlock. ok is false if any of the eight 5-bit
// groups is not a valid GCR code.
func DecodeBlock(in [5]byte) (out [4]byte, ok bool) {
	var codes [8]uint8
	bitpos := 0
	for i := range codes {
		var c uint8
		for b := 0; b < 5; b++ {
			byteIdx := bitpos / 8
			bitIdx := 7 - (bitpos % 8)
			bit := (in[byteIdx] >> uint(bitIdx)) & 1
			c = (c << 1) | bit
			bitpos++
		}
		codes[i] = c
	}

	var nibbles [8]uint8
	for i, c := range codes {
		v, valid := DecodeNibble(c)
		if !valid {
			return out, false
		}
		nibbles[i] = v
	}

	out[0] = nibbles[0]<<4 | nibbles[1]
	out[1] = nibbles[2]<<4 | nibbles[3]
	out[2] = nibbles[4]<<4 | nibbles[5]
	out[3] = nibbles[6]<<4 | nibbles[7]
	return out, true
}
