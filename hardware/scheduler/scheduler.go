// Package scheduler drives the cooperative per-cycle advance of every chip
// in the machine: CPU, VIC-II, both CIAs, SID, the datasette and (when
// attached) the VC1541 drive's own CPU and VIAs, all ticked once per clock
// in the order the hardware's own bus arbitration requires (VIC before CPU,
// since the VIC can steal the bus from the CPU mid-instruction but never
// the reverse).
package scheduler

import (
	"sync"
	"sync/atomic"

	"github.com/go64/go64/internal/ring"
)

// RunFlag is a bitmask of conditions that should suspend the run loop.
type RunFlag uint32

// Run-loop suspend reasons, combined with bitwise OR so multiple sources
// (a user pause and a hit breakpoint, say) can hold the machine stopped
// independently and each release it without disturbing the other.
const (
	FlagUserPause RunFlag = 1 << iota
	FlagBreakpoint
	FlagJammed
	FlagSingleStep
)

// Tickable is one chip's per-cycle advance hook.
type Tickable func()

// Scheduler runs the shared clock. It does not know what a CPU or a VIC
// is; the machine package wires each chip's Tick method in here in the
// hardware-mandated order.
type Scheduler struct {
	order []Tickable

	suspendFlags atomic.Uint32

	// suspendDepth lets nested Suspend/Resume calls (e.g. a debugger command
	// run while already paused for a breakpoint) compose correctly: the run
	// loop only actually resumes once every acquired suspend has been
	// released.
	mu            sync.Mutex
	suspendDepth  map[RunFlag]int

	messages *ring.Ring[Message]

	cyclesRun uint64
	warp      bool
}

// New creates a Scheduler with a bounded message queue of the given
// capacity (64 slots is the expected default).
func New(queueCapacity int) *Scheduler {
	return &Scheduler{
		suspendDepth: make(map[RunFlag]int),
		messages:     ring.New[Message](queueCapacity),
	}
}

// Register appends a chip's per-cycle tick to the run order. Call in
// hardware bus-priority order: VIC-II first (it can steal cycles from the
// CPU), then the CPU, then the CIAs/SID/datasette/drive, whose state
// changes only become visible to the CPU on its next access.
func (s *Scheduler) Register(t Tickable) {
	s.order = append(s.order, t)
}

// Suspend raises flag, halting RunCycles until a matching Resume. Multiple
// Suspend calls for the same flag nest; the flag is only cleared once every
// acquired suspend is released.
func (s *Scheduler) Suspend(flag RunFlag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspendDepth[flag]++
	s.suspendFlags.Store(s.suspendFlags.Load() | uint32(flag))
}

// Resume releases one acquisition of flag.
func (s *Scheduler) Resume(flag RunFlag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspendDepth[flag] > 0 {
		s.suspendDepth[flag]--
	}
	if s.suspendDepth[flag] == 0 {
		s.suspendFlags.Store(s.suspendFlags.Load() &^ uint32(flag))
	}
}

// Suspended reports whether any flag currently holds the run loop stopped.
func (s *Scheduler) Suspended() bool {
	return s.suspendFlags.Load() != 0
}

// SetWarp enables or disables warp mode; the scheduler itself doesn't pace
// cycles against wall-clock time (the host front end does, by calling
// RunCycles at whatever rate it wants), so warp here is exposed only as
// state for Tickables that care (the SID silencing itself, typically).
func (s *Scheduler) SetWarp(on bool) {
	s.warp = on
	s.Post(Message{Kind: MessageWarpChanged})
}

// Warp reports the current warp setting.
func (s *Scheduler) Warp() bool { return s.warp }

// Tick runs every registered Tickable once, advancing the shared clock by
// one cycle.
func (s *Scheduler) Tick() {
	for _, t := range s.order {
		t()
	}
	s.cyclesRun++
}

// RunCycles runs up to n cycles, stopping early (and reporting how many it
// actually ran) if a suspend flag is raised mid-run.
func (s *Scheduler) RunCycles(n int) int {
	ran := 0
	for ran < n {
		if s.Suspended() {
			break
		}
		s.Tick()
		ran++
	}
	return ran
}

// CyclesRun returns the total number of cycles ticked since creation.
func (s *Scheduler) CyclesRun() uint64 { return s.cyclesRun }

// Post appends a message to the queue, dropping the oldest message if full
// rather than blocking the run loop.
func (s *Scheduler) Post(m Message) {
	s.messages.Push(m)
}

// Drain removes and returns every currently queued message.
func (s *Scheduler) Drain() []Message {
	return s.messages.Drain()
}
