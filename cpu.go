package schedprof

import "fmt"

// CPUState categorizes what a CPU is doing at the instant it was last
// examined.
type CPUState int

const (
	// CPUIdle means the CPU has no bound coroutine (set by retire). A
	// bound CPU whose due time has elapsed keeps its previous state until
	// it is retired; use IsIdleAt to ask whether it is free.
	CPUIdle CPUState = iota
	// CPURunning means the CPU is executing any instruction other than Io
	// (CpuBurn, Lock, Unlock, Spawn, or Terminate) for its bound coroutine.
	CPURunning
	// CPUSyscall means the CPU is executing a blocking Io instruction for
	// its bound coroutine.
	CPUSyscall
)

func (s CPUState) String() string {
	switch s {
	case CPUIdle:
		return "idle"
	case CPURunning:
		return "running"
	case CPUSyscall:
		return "syscall"
	default:
		return fmt.Sprintf("CPUState(%d)", int(s))
	}
}

// CPU models one execution unit: a current coroutine (if any), the
// absolute due time at which its current instruction completes, and a
// "last coroutine" slot used for cache-hit accounting.
type CPU struct {
	id    int
	state CPUState
	due   int64
	coro  *Coroutine
	last  *Coroutine
}

// NewCPU creates an idle CPU with no history, used by both Scheduler (to
// build its CPU vector) and unit tests that exercise CPU in isolation.
func NewCPU() *CPU {
	return &CPU{id: cpuIDs.id(), state: CPUIdle}
}

// ID returns the CPU's sequential identifier.
func (c *CPU) ID() int { return c.id }

// State returns the CPU's current state.
func (c *CPU) State() CPUState { return c.state }

// Due returns the absolute simulated time at which the current instruction
// completes. It is only meaningful while the CPU is bound to a coroutine.
func (c *CPU) Due() int64 { return c.due }

// Coroutine returns the coroutine currently bound to this CPU, or nil.
func (c *CPU) Coroutine() *Coroutine { return c.coro }

func (c *CPU) String() string { return fmt.Sprintf("<CPU %d>", c.id) }

// IsIdleAt reports whether the CPU will run no coroutine at the given
// point in simulated time: either nothing is bound, or the bound
// coroutine's instruction is already due.
func (c *CPU) IsIdleAt(now int64) bool {
	return c.coro == nil || c.due <= now
}

// IsRunningAt is the negation of IsIdleAt.
func (c *CPU) IsRunningAt(now int64) bool {
	return !c.IsIdleAt(now)
}

// retire unbinds the current coroutine, resets state and due to idle, and
// remembers the outgoing coroutine in the last-slot for the next wakeup's
// cache-hit comparison.
func (c *CPU) retire() {
	c.last = c.coro
	if c.coro != nil {
		c.coro.cpu = nil
	}
	c.coro = nil
	c.due = 0
	c.state = CPUIdle
}

// wakeup binds coro to the CPU with the given state and due time. It
// assumes the caller has already verified the CPU is idle; that contract
// is spec.md's ErrMappedBurningCpu check, enforced once by the driver
// rather than on every wakeup call. It reports whether coro is the same
// coroutine that most recently ran on this CPU (a cache hit).
func (c *CPU) wakeup(coro *Coroutine, state CPUState, due int64) bool {
	hit := c.last == coro
	c.state = state
	c.due = due
	c.coro = coro
	coro.cpu = c
	return hit
}
