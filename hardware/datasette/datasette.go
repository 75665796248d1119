// Package datasette implements the C64's cassette interface: playback of a
// TAP-format pulse stream onto CIA1's FLAG pin (edge-triggered, firing an
// interrupt on every transition), plus the motor and sense lines the KERNAL
// polls to detect whether a tape is present and running.
package datasette

import "github.com/go64/go64/internal/c64errs"

// Tape is a decoded TAP file: a sequence of pulse lengths in clock cycles
// (expanded from the format's native 8-cycle units), plus the version byte
// that determines how a zero-length byte is interpreted.
type Tape struct {
	Version uint8
	Pulses  []uint32 // each value already expanded to cycle units
}

// ParseTAP decodes a TAP v0 or v1 file. v0 streams encode long pauses as a
// literal zero byte meaning "wait (0x00FFFFFF as a tick count)"; v1 adds an
// explicit 3-byte extended length following a zero byte, used for pauses
// that don't fit in one byte.
func ParseTAP(data []byte) (*Tape, error) {
	if len(data) < 20 || string(data[0:12]) != "C64-TAPE-RAW" {
		return nil, c64errs.New(c64errs.MediaMalformed, "not a TAP file")
	}
	version := data[12]
	size := uint32(data[16]) | uint32(data[17])<<8 | uint32(data[18])<<16 | uint32(data[19])<<24
	body := data[20:]
	if uint32(len(body)) < size {
		return nil, c64errs.New(c64errs.MediaSizeMismatch, "TAP body shorter than declared size")
	}

	t := &Tape{Version: version}
	i := 0
	for i < len(body) {
		b := body[i]
		i++
		if b != 0 {
			t.Pulses = append(t.Pulses, uint32(b)*8)
			continue
		}
		if version == 0 {
			t.Pulses = append(t.Pulses, 0x00ffffff*8)
			continue
		}
		if i+3 > len(body) {
			return nil, c64errs.New(c64errs.MediaMalformed, "truncated extended TAP pulse")
		}
		ext := uint32(body[i]) | uint32(body[i+1])<<8 | uint32(body[i+2])<<16
		i += 3
		t.Pulses = append(t.Pulses, ext)
	}
	return t, nil
}

// Datasette is the playback/record state machine wired to CIA1's FLAG pin
// and the 6510 I/O port's motor/sense lines.
type Datasette struct {
	tape *Tape

	// head indexes the current pulse. Signed so a future rewind-past-start
	// (e.g. during an interactive counter reset) cannot underflow silently;
	// the field is kept int64 throughout rather than switching width
	// depending on tape length.
	head int64

	cyclesIntoPulse uint32
	motorOn         bool
	playing         bool

	// FlagLine is called on every pulse edge, matching cia.CIA.SignalFlag.
	FlagLine func()
}

// New creates an empty datasette (no tape inserted).
func New() *Datasette {
	return &Datasette{}
}

// InsertTape mounts a decoded tape, rewound to the start.
func (d *Datasette) InsertTape(t *Tape) {
	d.tape = t
	d.head = 0
	d.cyclesIntoPulse = 0
}

// EjectTape removes the tape.
func (d *Datasette) EjectTape() {
	d.tape = nil
	d.playing = false
}

// SetMotor reflects the 6510 I/O port's motor control line.
func (d *Datasette) SetMotor(on bool) {
	d.motorOn = on
	d.playing = on && d.tape != nil
}

// Present reports whether a tape is currently inserted.
func (d *Datasette) Present() bool { return d.tape != nil }

// Rewind resets playback to the start of the tape.
func (d *Datasette) Rewind() {
	d.head = 0
	d.cyclesIntoPulse = 0
}

// Tick advances playback by one PHI2 cycle, firing FlagLine on a pulse
// boundary.
func (d *Datasette) Tick() {
	if !d.playing || d.tape == nil {
		return
	}
	if d.head >= int64(len(d.tape.Pulses)) {
		d.playing = false
		return
	}
	d.cyclesIntoPulse++
	if d.cyclesIntoPulse >= d.tape.Pulses[d.head] {
		d.cyclesIntoPulse = 0
		d.head++
		if d.FlagLine != nil {
			d.FlagLine()
		}
	}
}
