package schedprof

import (
	"context"
	"fmt"

	"github.com/tcard/coro"
)

// Body produces a coroutine's instructions on demand by calling yield once
// per instruction, in order. It must be finite: the last call to yield is
// followed by Body returning. Body runs on its own goroutine (see
// Coroutine.start) and must not retain the yield function past its return.
type Body func(yield func(Instruction))

// Coroutine wraps a user-supplied Body as a single-consumer, lazy sequence
// of Instruction values, with a one-element look-ahead buffer and a
// suspended flag, matching the scheduler driver's peek/pop/suspend/resume
// contract.
//
// The lazy sequence is produced by coro.NewIterator, which runs Body on its
// own goroutine and hands control back and forth between it and advance
// over an internal channel, so the generator never runs ahead of the
// driver pulling from it. bindContext ties that goroutine's lifetime to
// the simulation's context: if the driver stops pulling (RunProgram
// returns early on ctx cancellation) while the goroutine is blocked on a
// yield, coro kills it instead of leaking it forever.
type Coroutine struct {
	id   int
	body Body

	buffer    *Instruction
	suspended bool
	cpu       *CPU

	ctx     context.Context
	started bool
	done    bool
	resume  coro.Resume
	yielded *Instruction
}

// NewCoroutine wraps body as a Coroutine. A nil body is equivalent to a
// body that yields nothing: the coroutine's only instruction is its
// synthesized Terminate.
func NewCoroutine(body Body) *Coroutine {
	return &Coroutine{id: coroutineIDs.id(), body: body}
}

// ID returns the coroutine's sequential identifier.
func (c *Coroutine) ID() int { return c.id }

func (c *Coroutine) String() string { return fmt.Sprintf("<Coroutine %d>", c.id) }

// IsSuspended reports whether the coroutine is blocked on a contended Lock
// and so must not be popped or mapped to a CPU.
func (c *Coroutine) IsSuspended() bool { return c.suspended }

// IsReady reports whether the coroutine is neither suspended nor
// currently bound to a CPU, i.e. eligible for a Policy to map.
func (c *Coroutine) IsReady() bool { return !c.suspended && c.cpu == nil }

// CPU returns the CPU currently running this coroutine, or nil.
func (c *Coroutine) CPU() *CPU { return c.cpu }

// Peek returns the next instruction without consuming it. Calling Peek
// twice in a row, or Peek followed by Pop, returns the same value.
func (c *Coroutine) Peek() Instruction {
	if c.buffer == nil {
		instr := c.advance()
		c.buffer = &instr
	}
	return *c.buffer
}

// Pop returns and consumes the next instruction. It fails with
// ErrSuspendedCoroutine if the coroutine is currently suspended.
func (c *Coroutine) Pop() (Instruction, error) {
	if c.suspended {
		return Instruction{}, fmt.Errorf("%w: %s", ErrSuspendedCoroutine, c)
	}
	if c.buffer != nil {
		instr := *c.buffer
		c.buffer = nil
		return instr, nil
	}
	return c.advance(), nil
}

// Suspend stashes instr back into the one-slot look-ahead buffer and marks
// the coroutine suspended, so that a later Resume causes the very same
// instruction to be re-popped and re-interpreted. It fails if the buffer
// already holds an instruction.
func (c *Coroutine) Suspend(instr Instruction) error {
	if c.buffer != nil {
		return fmt.Errorf("%w: %s", ErrCoroutineLookaheadFull, c)
	}
	c.buffer = &instr
	c.suspended = true
	return nil
}

// Resume clears the suspended flag.
func (c *Coroutine) Resume() { c.suspended = false }

// bindContext ties the coroutine's generator goroutine (started lazily on
// first advance) to ctx, so that a cancellation reaching RunProgram before
// this coroutine terminates kills its goroutine instead of leaking it. The
// scheduler calls this once per coroutine, before it is ever popped —
// on the root coroutine, and on every freshly spawned child. Calling it
// after the goroutine has already started has no effect.
func (c *Coroutine) bindContext(ctx context.Context) {
	if !c.started {
		c.ctx = ctx
	}
}

// advance pulls the next instruction out of the lazy body, starting the
// generator goroutine on first use.
func (c *Coroutine) advance() Instruction {
	if !c.started {
		c.start()
	}
	if c.done {
		return Terminate(c)
	}
	if !c.resume() {
		c.done = true
		return Terminate(c)
	}
	return *c.yielded
}

// start wraps body as a coro.Resume, chained with one synthesized
// Terminate(self) once the body returns (or never ran at all), mirroring
// the "generator chained with one more element" shape of the original
// coroutine body. KillOnContextDone(ctx) is the reason Coroutine reaches
// for coro rather than a bare goroutine+channel pair: it gives the
// generator a well-defined death when nothing will ever resume it again.
func (c *Coroutine) start() {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	yielded := new(Instruction)
	var returned struct{}
	c.yielded = yielded
	c.resume = coro.NewIterator(yielded, &returned, func(yield func(interface{})) interface{} {
		if c.body != nil {
			c.body(func(instr Instruction) { yield(instr) })
		}
		return struct{}{}
	}, coro.KillOnContextDone(ctx))
	c.started = true
}
