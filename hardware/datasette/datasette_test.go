package datasette

import "testing"

func tapHeader(version byte, body []byte) []byte {
	h := []byte("C64-TAPE-RAW")
	h = append(h, version, 0, 0, 0)
	size := len(body)
	h = append(h, byte(size), byte(size>>8), byte(size>>16), byte(size>>24))
	return append(h, body...)
}

func TestParseTAPRejectsBadMagic(t *testing.T) {
	if _, err := ParseTAP([]byte("not a tap file at all")); err == nil {
		t.Fatalf("expected an error for non-TAP data")
	}
}

func TestParseTAPV0OrdinaryPulses(t *testing.T) {
	data := tapHeader(0, []byte{0x30, 0x40, 0x10})
	tape, err := ParseTAP(data)
	if err != nil {
		t.Fatalf("ParseTAP: %v", err)
	}
	want := []uint32{0x30 * 8, 0x40 * 8, 0x10 * 8}
	if len(tape.Pulses) != len(want) {
		t.Fatalf("Pulses = %v, want %v", tape.Pulses, want)
	}
	for i := range want {
		if tape.Pulses[i] != want[i] {
			t.Errorf("Pulses[%d] = %d, want %d", i, tape.Pulses[i], want[i])
		}
	}
}

func TestParseTAPV0ZeroByteIsLongPause(t *testing.T) {
	data := tapHeader(0, []byte{0x00})
	tape, err := ParseTAP(data)
	if err != nil {
		t.Fatalf("ParseTAP: %v", err)
	}
	if len(tape.Pulses) != 1 || tape.Pulses[0] != 0x00ffffff*8 {
		t.Fatalf("Pulses = %v, want [%d]", tape.Pulses, 0x00ffffff*8)
	}
}

func TestParseTAPV1ExtendedLength(t *testing.T) {
	// zero byte followed by a 3-byte little-endian extended length of
	// 0x654321.
	data := tapHeader(1, []byte{0x00, 0x21, 0x43, 0x65})
	tape, err := ParseTAP(data)
	if err != nil {
		t.Fatalf("ParseTAP: %v", err)
	}
	if len(tape.Pulses) != 1 || tape.Pulses[0] != 0x654321 {
		t.Fatalf("Pulses = %v, want [0x654321]", tape.Pulses)
	}
}

func TestParseTAPV1TruncatedExtendedPulse(t *testing.T) {
	data := tapHeader(1, []byte{0x00, 0x21})
	if _, err := ParseTAP(data); err == nil {
		t.Fatalf("expected an error for a truncated extended pulse")
	}
}

func TestTickFiresFlagLineOnPulseBoundary(t *testing.T) {
	tape := &Tape{Pulses: []uint32{3, 2}}
	d := New()
	d.InsertTape(tape)
	d.SetMotor(true)

	fires := 0
	d.FlagLine = func() { fires++ }

	for i := 0; i < 3; i++ {
		d.Tick()
	}
	if fires != 1 {
		t.Fatalf("fires after first pulse = %d, want 1", fires)
	}
	for i := 0; i < 2; i++ {
		d.Tick()
	}
	if fires != 2 {
		t.Fatalf("fires after second pulse = %d, want 2", fires)
	}
	// Tape exhausted: further ticks should not panic or fire again.
	d.Tick()
	if fires != 2 {
		t.Fatalf("fires after tape end = %d, want 2", fires)
	}
}

func TestSetMotorOffStopsPlayback(t *testing.T) {
	d := New()
	d.InsertTape(&Tape{Pulses: []uint32{1}})
	d.SetMotor(false)
	fires := 0
	d.FlagLine = func() { fires++ }
	d.Tick()
	if fires != 0 {
		t.Fatalf("Tick with motor off should not advance playback")
	}
}

func TestPresentAndEject(t *testing.T) {
	d := New()
	if d.Present() {
		t.Fatalf("Present() on a fresh datasette should be false")
	}
	d.InsertTape(&Tape{Pulses: []uint32{1}})
	if !d.Present() {
		t.Fatalf("Present() after InsertTape should be true")
	}
	d.EjectTape()
	if d.Present() {
		t.Fatalf("Present() after EjectTape should be false")
	}
}
