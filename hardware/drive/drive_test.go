package drive

import (
	"testing"

	"github.com/go64/go64/hardware/drive/disk"
)

func TestFormatDiskLaysOutThirtyFiveTracks(t *testing.T) {
	dk := FormatDisk()
	if dk.Tracks[0].BitLength == 0 {
		t.Fatalf("track 1 (halftrack 0) should be formatted")
	}
	if dk.Tracks[68].BitLength == 0 {
		t.Fatalf("track 35 (halftrack 68) should be formatted")
	}
	if dk.Tracks[69].BitLength != 0 {
		t.Fatalf("halftrack 69 is beyond track 35 and should remain unformatted")
	}
}

func TestInsertAndEjectDisk(t *testing.T) {
	d := New(8, make([]byte, 16384))
	dk := FormatDisk()
	d.InsertDisk(dk)
	if !d.present || d.Disk != dk {
		t.Fatalf("InsertDisk should mount the medium")
	}
	d.EjectDisk()
	if d.present || d.Disk != nil {
		t.Fatalf("EjectDisk should remove the medium")
	}
}

func TestStepperAdvancesHalftrackOnPhaseIncrement(t *testing.T) {
	d := New(8, make([]byte, 16384))
	d.InsertDisk(FormatDisk())
	d.applyStepper(1) // phase 0 -> 1, delta 1
	if d.halftrack != 1 {
		t.Fatalf("halftrack = %d, want 1 after a single forward step", d.halftrack)
	}
	d.applyStepper(0) // phase 1 -> 0, delta 3 (retreat)
	if d.halftrack != 0 {
		t.Fatalf("halftrack = %d, want 0 after stepping back", d.halftrack)
	}
}

func TestStepperWithNoDiskInsertedDoesNotPanic(t *testing.T) {
	d := New(8, make([]byte, 16384))
	d.applyStepper(1)
	if d.halftrack != 0 {
		t.Fatalf("halftrack = %d, want 0 with no medium mounted", d.halftrack)
	}
}

func TestTickShiftsDiskBitsIntoVIA2ShiftRegister(t *testing.T) {
	d := New(8, make([]byte, 16384))
	dk := disk.New()
	dk.FormatTrack(0, 8)
	dk.WriteBit(0, 0, true)
	dk.WriteBit(0, 1, false)
	dk.WriteBit(0, 2, true)
	d.InsertDisk(dk)
	d.VIA2.WritePB(0x04) // motor on

	for i := 0; i < 3; i++ {
		d.Tick()
	}
	if d.VIA2.SR&0x07 != 0x05 {
		t.Fatalf("VIA2.SR low 3 bits = %03b, want 101", d.VIA2.SR&0x07)
	}
}

func TestReadGCRByteExposesVIA2ShiftRegister(t *testing.T) {
	d := New(8, make([]byte, 16384))
	d.VIA2.SR = 0xab
	if got := d.ReadGCRByte(); got != 0xab {
		t.Fatalf("ReadGCRByte() = %#02x, want 0xab", got)
	}
}
