// Package drive implements the VC1541 floppy drive as a second, independent
// 6502 system: its own 2K of RAM, 16K of DOS ROM, and two VIAs, connected to
// the host machine only by the serial IEC bus. The drive runs its own CPU
// using the same hardware/cpu core the main machine uses, reusing its
// cycle-accurate instruction execution rather than reimplementing a second,
// simpler 6502.
package drive

import (
	"github.com/go64/go64/hardware/cpu"
	"github.com/go64/go64/hardware/drive/disk"
	"github.com/go64/go64/hardware/drive/via"
)

// memory is the VC1541's own tiny address space: 2K RAM mirrored through
// $0000-$07FF, the two VIAs at $1800/$1C00, and 16K of DOS ROM at $C000.
type memory struct {
	ram [2048]byte
	rom [16384]byte

	via1, via2 *via.VIA
}

func (m *memory) Read(address uint16) uint8 {
	switch {
	case address < 0x0800:
		return m.ram[address]
	case address >= 0x1800 && address < 0x1810:
		return m.via1.Access(uint8(address), 0, false)
	case address >= 0x1c00 && address < 0x1c10:
		return m.via2.Access(uint8(address), 0, false)
	case address >= 0xc000:
		return m.rom[address-0xc000]
	default:
		return 0
	}
}

func (m *memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x0800:
		m.ram[address] = value
	case address >= 0x1800 && address < 0x1810:
		m.via1.Access(uint8(address), value, true)
	case address >= 0x1c00 && address < 0x1c10:
		m.via2.Access(uint8(address), value, true)
	}
}

func (m *memory) Peek(address uint16) uint8 { return m.Read(address) }

// Drive is one VC1541 unit (device 8-11 on the IEC bus).
type Drive struct {
	DeviceNumber int

	mem  *memory
	CPU  *cpu.CPU
	VIA1 *via.VIA
	VIA2 *via.VIA

	Disk    *disk.Disk
	present bool

	halftrack int
	bitPos    int

	// ATN/CLK/DATA mirror the three IEC bus lines this drive drives or
	// senses; the owning machine's serial bus wiring reads these and the
	// equivalent lines from every other device/the computer to resolve the
	// bus's open-collector wired-AND logic.
	ATN, CLK, DATA bool

	motorOn   bool
	ledOn     bool
	stepPhase int
}

// New creates an empty (no disk inserted) drive at deviceNumber (8-11).
func New(deviceNumber int, dosROM []byte) *Drive {
	m := &memory{via1: via.New(), via2: via.New()}
	copy(m.rom[:], dosROM)

	d := &Drive{
		DeviceNumber: deviceNumber,
		mem:          m,
		VIA1:         m.via1,
		VIA2:         m.via2,
	}
	d.CPU = cpu.New(m)

	d.VIA2.ReadPB = func() uint8 {
		var pb uint8
		if d.Disk != nil && d.Disk.WriteProtect {
			pb |= 0x10
		}
		return pb
	}
	d.VIA2.WritePB = func(value uint8) {
		d.applyStepper(value)
		d.motorOn = value&0x04 != 0
		d.ledOn = value&0x08 != 0
	}

	return d
}

// InsertDisk mounts a medium, replacing any previously inserted one.
func (d *Drive) InsertDisk(dk *disk.Disk) {
	d.Disk = dk
	d.present = true
}

// EjectDisk removes the medium.
func (d *Drive) EjectDisk() {
	d.Disk = nil
	d.present = false
}

// applyStepper interprets VIA2 PB bits 0-1 as the two-phase stepper motor
// control, advancing or retreating the head by one halftrack per valid
// phase transition, exactly as the 1541's DOS bit-bangs real head seeks.
func (d *Drive) applyStepper(pb uint8) {
	phase := int(pb & 0x03)
	delta := (phase - d.stepPhase) & 0x03
	if d.Disk != nil {
		switch delta {
		case 1:
			if d.halftrack < len(d.Disk.Tracks)-1 {
				d.halftrack++
			}
		case 3:
			if d.halftrack > 0 {
				d.halftrack--
			}
		}
	}
	d.stepPhase = phase
}

// Tick advances both VIAs and, if a disk is present and the motor running,
// shifts one bit under the head into/out of VIA2's shift register.
func (d *Drive) Tick() {
	d.VIA1.Tick()
	d.VIA2.Tick()

	if !d.motorOn || d.Disk == nil {
		return
	}
	bit := d.Disk.ReadBit(d.halftrack, d.bitPos)
	d.bitPos++
	d.VIA2.SR = (d.VIA2.SR << 1)
	if bit {
		d.VIA2.SR |= 1
	}
}

// ReadGCRByte exposes the last 8 bits shifted under the head, as VIA2's
// serial register would be read by the DOS's NMI handler after a byte
// boundary.
func (d *Drive) ReadGCRByte() uint8 {
	return d.VIA2.SR
}

// FormatDisk lays out a blank 35-track 1541 disk with unformatted (but
// correctly sized) halftracks, ready for the DOS's own format routine to
// write sync marks and sectors onto.
func FormatDisk() *disk.Disk {
	dk := disk.New()
	for track := 1; track <= 35; track++ {
		ht := (track - 1) * 2
		bitsPerSector := 360 // approximate GCR-encoded sector length in bytes, nominal
		length := disk.SectorsPerTrack(track) * bitsPerSector * 8
		dk.FormatTrack(ht, length)
	}
	return dk
}
