// Package hardware wires every chip package into one runnable C64: this is
// the machine.go a front end (the CLI in cmd/go64, or any future GUI)
// programs against. It owns the scheduler's cycle order, translates user
// commands (power, reset, media changes, snapshots) into the right sequence
// of chip-level calls, and exposes the message queue and inspection surface
// used to drive and observe a running machine.
package hardware

import (
	"os"
	"sync"

	"github.com/go64/go64/hardware/cia"
	"github.com/go64/go64/hardware/clocks"
	"github.com/go64/go64/hardware/cpu"
	"github.com/go64/go64/hardware/cpu/instructions"
	"github.com/go64/go64/hardware/datasette"
	"github.com/go64/go64/hardware/drive"
	"github.com/go64/go64/hardware/drive/disk"
	"github.com/go64/go64/hardware/expansion"
	"github.com/go64/go64/hardware/loader"
	"github.com/go64/go64/hardware/memory"
	"github.com/go64/go64/hardware/memory/memorymap"
	"github.com/go64/go64/hardware/scheduler"
	"github.com/go64/go64/hardware/sid"
	"github.com/go64/go64/hardware/snapshot"
	"github.com/go64/go64/hardware/vic"
	"github.com/go64/go64/internal/c64errs"
	"github.com/go64/go64/internal/config"
	"github.com/go64/go64/internal/logger"
)

// ioBus routes the $D000-$DFFF window to the VIC, the colour RAM (handled
// directly by memory.Memory), the two CIAs and the SID, by address range.
type ioBus struct {
	vic        *vic.VIC
	sid        *sid.SID
	cia1, cia2 *cia.CIA
	expander   *expanderAdapter
}

func (b *ioBus) Access(address uint16, value uint8, write bool) uint8 {
	switch {
	case address < 0xd400:
		return b.vic.Access(address, value, write)
	case address < 0xd800:
		return b.sid.Access(uint8(address&0x1f), value, write)
	case address < 0xdc00:
		return 0 // colour RAM is handled directly by memory.Memory
	case address < 0xdd00:
		return b.cia1.Access(uint8(address), value, write)
	case address < 0xde00:
		return b.cia2.Access(uint8(address), value, write)
	default:
		// I/O1 ($DE00-$DEFF) and I/O2 ($DF00-$DFFF): cartridge-specific,
		// e.g. StarDos's capacitor charge/discharge pokes. Reads return
		// open bus (0xff) and are not forwarded to the cartridge.
		if write && b.expander != nil {
			b.expander.Poke(address, value)
		}
		return 0xff
	}
}

// expanderAdapter satisfies memory.Expander over whatever cartridge mapper
// is currently attached, including "nothing attached".
type expanderAdapter struct {
	m expansion.Mapper
}

func (e *expanderAdapter) ReadLo(a uint16) (uint8, bool) {
	if e.m == nil {
		return 0, false
	}
	return e.m.ReadLo(a)
}
func (e *expanderAdapter) ReadHi(a uint16) (uint8, bool) {
	if e.m == nil {
		return 0, false
	}
	return e.m.ReadHi(a)
}
func (e *expanderAdapter) Config() memorymap.Config {
	if e.m == nil {
		return memorymap.Config{GAME: true, EXROM: true}
	}
	return e.m.Config()
}
func (e *expanderAdapter) Poke(address uint16, value uint8) bool {
	if e.m == nil {
		return false
	}
	return e.m.Poke(address, value)
}

// Machine is a complete, runnable C64.
type Machine struct {
	mu sync.Mutex

	cfg config.Values

	CPU    *cpu.CPU
	Memory *memory.Memory
	VIC    *vic.VIC
	CIA1   *cia.CIA
	CIA2   *cia.CIA
	SID    *sid.SID

	Datasette *datasette.Datasette
	Drive     *drive.Drive

	cartridge expansion.Mapper
	expander  *expanderAdapter

	sched *scheduler.Scheduler

	poweredOn bool

	subscribers []chan scheduler.Message
}

// New constructs a Machine from loaded configuration. ROMs are not read
// until PowerOn, so that constructing a Machine to inspect before running
// it never touches the filesystem.
func New(cfg config.Values) *Machine {
	m := &Machine{cfg: cfg}
	m.Memory = memory.New()
	m.expander = &expanderAdapter{}
	m.Memory.AttachExpander(m.expander)

	m.CPU = cpu.New(m.Memory)

	model := vic.PAL
	clockMHz := clocks.PAL
	if cfg.Model == config.NTSC {
		model = vic.NTSC
		clockMHz = clocks.NTSC
	}

	m.VIC = vic.New(model, vicBusAdapter{m.Memory}, func(cycles int) {
		m.sched.Suspend(scheduler.FlagBreakpoint)
		m.sched.Resume(scheduler.FlagBreakpoint)
	})
	m.VIC.InterruptLine = func(asserted bool) {
		if asserted {
			m.CPU.PullDownIRQ(irqSourceVIC)
		} else {
			m.CPU.ReleaseIRQ(irqSourceVIC)
		}
	}

	todRate := 5
	if cfg.Model == config.NTSC {
		todRate = 6
	}
	m.CIA1 = cia.New(cia.CIA1, todRate)
	m.CIA1.InterruptLine = func(asserted bool) {
		if asserted {
			m.CPU.PullDownIRQ(irqSourceCIA1)
		} else {
			m.CPU.ReleaseIRQ(irqSourceCIA1)
		}
	}
	m.CIA2 = cia.New(cia.CIA2, todRate)
	m.CIA2.InterruptLine = func(asserted bool) {
		if asserted {
			m.CPU.PullDownNMI(nmiSourceCIA2)
		} else {
			m.CPU.ReleaseNMI(nmiSourceCIA2)
		}
	}

	m.SID = sid.New(sid.MOS6581, clockMHz*1_000_000, 4096)

	m.Memory.AttachIO(&ioBus{vic: m.VIC, sid: m.SID, cia1: m.CIA1, cia2: m.CIA2, expander: m.expander})

	m.Datasette = datasette.New()
	m.Datasette.FlagLine = func() { m.CIA1.SignalFlag() }

	m.sched = scheduler.New(64)
	m.sched.Register(m.VIC.Tick)
	m.sched.Register(func() { m.CPU.ExecuteInstruction(m.sched.Tick) })
	m.sched.Register(func() { m.CIA1.Tick(false) })
	m.sched.Register(func() { m.CIA2.Tick(false) })
	m.sched.Register(m.SID.Tick)
	m.sched.Register(m.Datasette.Tick)
	return m
}

type vicBusAdapter struct{ mem *memory.Memory }

func (a vicBusAdapter) VICRead(address uint16) uint8 { return a.mem.Read(address) }
func (a vicBusAdapter) VICColor(index uint16) uint8  { return a.mem.ColorNibble(index) }

// Interrupt source bitmasks shared across IRQ-capable chips.
const (
	irqSourceVIC  = 1 << 0
	irqSourceCIA1 = 1 << 1
	nmiSourceCIA2 = 1 << 0
)

// PowerOn loads the three fixed ROMs named in configuration, and the drive
// ROM if a drive is to be emulated, then resets the CPU from the reset
// vector. Missing ROM files are reported as a curated RomMissing error.
func (m *Machine) PowerOn() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := loadROM(m.cfg.BasicROM, m.Memory.BasicROM[:]); err != nil {
		return err
	}
	if err := loadROM(m.cfg.KernalROM, m.Memory.KernalROM[:]); err != nil {
		return err
	}
	if err := loadROM(m.cfg.CharROM, m.Memory.CharROM[:]); err != nil {
		return err
	}

	if m.cfg.DriveROM != "" {
		romData, err := os.ReadFile(m.cfg.DriveROM)
		if err != nil {
			return c64errs.New(c64errs.RomMissing, "drive ROM %q: %v", m.cfg.DriveROM, err)
		}
		m.Drive = drive.New(8, romData)
		m.sched.Register(m.Drive.Tick)
	}

	m.CPU.Reset()
	m.poweredOn = true
	logger.Logf("machine", "powered on (%s)", m.cfg.Model)
	return nil
}

func loadROM(path string, dst []byte) error {
	if path == "" {
		return c64errs.New(c64errs.RomMissing, "no ROM path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c64errs.New(c64errs.RomMissing, "%s: %v", path, err)
	}
	if len(data) != len(dst) {
		return c64errs.New(c64errs.MediaSizeMismatch, "%s: expected %d bytes, got %d", path, len(dst), len(data))
	}
	copy(dst, data)
	return nil
}

// PowerOff suspends the run loop (as Pause does) and marks the Machine as
// powered off, so Run does nothing until the next PowerOn. Loaded ROMs, the
// attached cartridge and mounted media are left in place.
func (m *Machine) PowerOff() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sched.Suspend(scheduler.FlagUserPause)
	m.poweredOn = false
	logger.Logf("machine", "powered off")
}

// Run executes up to n cycles, returning early if a breakpoint, CPU jam or
// pause request stops the loop first.
func (m *Machine) Run(n int) int {
	if !m.poweredOn {
		return 0
	}
	return m.sched.RunCycles(n)
}

// Pause suspends the run loop until a matching call to Resume; pauses
// nest, so each Pause needs its own Resume.
func (m *Machine) Pause() {
	m.sched.Suspend(scheduler.FlagUserPause)
}

// Resume releases a Pause.
func (m *Machine) Resume() {
	m.sched.Resume(scheduler.FlagUserPause)
}

// Reset pulses the CPU's reset line, as the front panel RESTORE+RUN/STOP or
// a power-cycle would.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CPU.Reset()
	logger.Logf("machine", "reset")
}

// StepInto runs exactly one instruction, following into any
// subroutine/interrupt it enters.
func (m *Machine) StepInto() (cpu.Status, error) {
	return m.CPU.ExecuteInstruction(m.sched.Tick)
}

// StepOver runs instructions until control returns to the current stack
// depth, following the same JSR-count heuristic used by most 6502
// debuggers: arm a breakpoint just past a JSR and fall back to StepInto for
// anything else.
func (m *Machine) StepOver() (cpu.Status, error) {
	pc := m.CPU.PC.Value()
	opcode := m.Memory.Peek(pc)
	if opcode != 0x20 { // JSR
		return m.StepInto()
	}
	returnAddr := pc + 3
	m.CPU.SetBreakpoint(returnAddr, cpu.Soft)
	for {
		status, err := m.CPU.ExecuteInstruction(m.sched.Tick)
		if err != nil || status != cpu.OK {
			m.CPU.SetBreakpoint(returnAddr, cpu.NoBreakpoint)
			return status, err
		}
		if m.CPU.PC.Value() == returnAddr {
			m.CPU.SetBreakpoint(returnAddr, cpu.NoBreakpoint)
			return cpu.OK, nil
		}
	}
}

// FinishInstruction completes whatever bus transaction is mid-flight, for
// parity with a debugger that paused mid-instruction; since this core
// always completes ExecuteInstruction synchronously, it is equivalent to
// StepInto when nothing is in flight.
func (m *Machine) FinishInstruction() (cpu.Status, error) {
	return m.StepInto()
}

// Warp enables or disables warp (uncapped) speed.
func (m *Machine) Warp(on bool) {
	m.sched.SetWarp(on)
}

// Debug toggles whether hit breakpoints suspend the run loop (true) or are
// merely reported via the message queue (false).
func (m *Machine) Debug(enabled bool) {
	if enabled {
		m.sched.Resume(scheduler.FlagBreakpoint)
	} else {
		m.sched.Suspend(scheduler.FlagBreakpoint)
	}
}

// InsertDisk mounts dk into the emulated drive.
func (m *Machine) InsertDisk(dk *disk.Disk) error {
	if m.Drive == nil {
		return c64errs.New(c64errs.UnsupportedModel, "no drive attached")
	}
	m.Drive.InsertDisk(dk)
	return nil
}

// EjectDisk removes any mounted disk.
func (m *Machine) EjectDisk() {
	if m.Drive != nil {
		m.Drive.EjectDisk()
	}
}

// InsertTape mounts t onto the datasette.
func (m *Machine) InsertTape(t *datasette.Tape) {
	m.Datasette.InsertTape(t)
}

// EjectTape removes any mounted tape.
func (m *Machine) EjectTape() {
	m.Datasette.EjectTape()
}

// AttachCartridge plugs mapper into the expansion port, replacing anything
// already attached.
func (m *Machine) AttachCartridge(mapper expansion.Mapper) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartridge = mapper
	m.expander.m = mapper
	if mapper != nil {
		mapper.Initialise()
		m.sched.Register(mapper.Listen)
	}
}

// DetachCartridge removes whatever cartridge is attached.
func (m *Machine) DetachCartridge() {
	m.AttachCartridge(nil)
}

// FlashFile loads a bare PRG/P00 program directly into RAM at its declared
// load address and pokes BASIC's end-of-program pointers, the same
// shortcut KERNAL's LOAD would produce for a non-relocating program.
func (m *Machine) FlashFile(prg *loader.PRG) {
	addr := prg.LoadAddress
	for _, b := range prg.Data {
		m.Memory.Write(addr, b)
		addr++
	}
	end := prg.LoadAddress + uint16(len(prg.Data))
	m.Memory.Write(0x2d, uint8(end))
	m.Memory.Write(0x2e, uint8(end>>8))
	logger.Logf("machine", "flashed %d bytes at $%04x", len(prg.Data), prg.LoadAddress)
}

// RequestAutoSnapshot takes a snapshot and posts a MessageAutoSnapshot to
// the queue (or a MessageDriveError with the error text if saving fails).
// The snapshot data is neither returned nor attached to the message.
func (m *Machine) RequestAutoSnapshot() {
	_, err := m.SaveSnapshot()
	if err != nil {
		m.sched.Post(scheduler.Message{Kind: scheduler.MessageDriveError, Text: err.Error()})
		return
	}
	m.sched.Post(scheduler.Message{Kind: scheduler.MessageAutoSnapshot})
}

// RequestUserSnapshot returns the result of SaveSnapshot directly; unlike
// RequestAutoSnapshot it posts no message.
func (m *Machine) RequestUserSnapshot() ([]byte, error) {
	return m.SaveSnapshot()
}

// SaveSnapshot serialises the model name, the CPU registers and cycle
// count, RAM and colour RAM. Chip, cartridge and media state are not saved.
func (m *Machine) SaveSnapshot() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &snapshot.Snapshot{
		Model: m.cfg.Model.String(),
		CPU: snapshot.CPUState{
			A: m.CPU.A.Value(), X: m.CPU.X.Value(), Y: m.CPU.Y.Value(),
			SP: m.CPU.SP.Value(), SR: m.CPU.SR.Value(), PC: m.CPU.PC.Value(),
			TotalCycles: m.CPU.TotalCycles,
		},
		Memory: snapshot.MemoryState{
			RAM:      append([]byte(nil), m.Memory.RAM[:]...),
			ColorRAM: append([]byte(nil), m.Memory.ColorRAM[:]...),
		},
	}
	return snapshot.Encode(s)
}

// LoadSnapshot restores a previously saved state.
func (m *Machine) LoadSnapshot(data []byte) error {
	s, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.CPU.A.Load(s.CPU.A)
	m.CPU.X.Load(s.CPU.X)
	m.CPU.Y.Load(s.CPU.Y)
	m.CPU.SP.Load(s.CPU.SP)
	m.CPU.SR.Load(s.CPU.SR)
	m.CPU.PC.Load(s.CPU.PC)
	copy(m.Memory.RAM[:], s.Memory.RAM)
	copy(m.Memory.ColorRAM[:], s.Memory.ColorRAM)
	return nil
}

// Info summarises machine state for GetInfo.
type Info struct {
	Model       string
	PoweredOn   bool
	CyclesRun   uint64
	RasterLine  int
	DriveOnline bool
}

// GetInfo returns a point-in-time summary of machine state.
func (m *Machine) GetInfo() Info {
	return Info{
		Model:       m.cfg.Model.String(),
		PoweredOn:   m.poweredOn,
		CyclesRun:   m.sched.CyclesRun(),
		RasterLine:  m.VIC.RasterLine,
		DriveOnline: m.Drive != nil,
	}
}

// Inspect returns a human-readable disassembly/register dump starting at
// address, count instructions long, for debugger front ends.
func (m *Machine) Inspect(address uint16, count int) []string {
	defs := instructions.Definitions()
	out := make([]string, 0, count)
	a := address
	for i := 0; i < count; i++ {
		out = append(out, m.CPU.Disassemble(a))
		width := defs[m.Memory.Peek(a)].DocumentedBytes
		if width < 1 {
			width = 1
		}
		a += uint16(width)
	}
	return out
}

// Subscribe returns a channel that receives the messages PumpMessages fans
// out. The channel stays registered for the Machine's lifetime; there is no
// way to unsubscribe.
func (m *Machine) Subscribe() <-chan scheduler.Message {
	ch := make(chan scheduler.Message, 64)
	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()
	return ch
}

// PumpMessages drains the scheduler's queue and fans each message out to
// every subscriber, dropping messages for a subscriber whose channel is
// full rather than blocking the caller.
func (m *Machine) PumpMessages() {
	for _, msg := range m.sched.Drain() {
		m.mu.Lock()
		subs := append([]chan scheduler.Message(nil), m.subscribers...)
		m.mu.Unlock()
		for _, ch := range subs {
			select {
			case ch <- msg:
			default:
			}
		}
	}
}
