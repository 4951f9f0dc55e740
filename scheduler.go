package schedprof

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Stats is the result of a completed (or cancelled) simulation run.
type Stats struct {
	// Elapsed is the simulated wall-clock time at which the program
	// finished, in nanoseconds.
	Elapsed int64
	// TotalCPUTime is ncpu * Elapsed.
	TotalCPUTime int64
	// BurningCPUTime is TotalCPUTime minus the accumulated idle time
	// across all CPUs.
	BurningCPUTime int64
	// ContextSwitches counts every instruction dispatched to a CPU.
	ContextSwitches int64
	// CacheHits counts dispatches where the CPU's last-slot already held
	// the coroutine being woken up.
	CacheHits int64
}

// Monitor observes each instruction as the driver dispatches it. It must
// not mutate the simulation; a nil Monitor is equivalent to a no-op, and
// it exists purely for tests and diagnostics that want the full
// (time, cpu, coroutine, instruction) trace.
type Monitor func(now int64, cpu *CPU, coro *Coroutine, instr Instruction)

// Scheduler drives the simulated clock and delegates CPU-to-coroutine
// mapping decisions to a Policy, accumulating the statistics RunProgram
// returns.
type Scheduler struct {
	policy  Policy
	logger  *slog.Logger
	monitor Monitor
}

// NewScheduler creates a Scheduler that maps idle CPUs to ready coroutines
// using policy.
func NewScheduler(policy Policy, opts ...Option) *Scheduler {
	s := &Scheduler{policy: policy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDumbScheduler creates a Scheduler using the reference Dumb policy.
func NewDumbScheduler(opts ...Option) *Scheduler {
	return NewScheduler(Dumb, opts...)
}

type pendingUnlock struct {
	fireAt int64
	mutex  *Mutex
}

// RunProgram simulates root to completion on ncpu CPUs, returning the
// accumulated statistics. monitor, if non-nil, overrides any Monitor
// configured via WithMonitor and is invoked once per dispatched
// instruction; it has no effect on the simulation's outcome.
//
// ctx is polled once per tick purely so that a runaway or deadlocked
// user-supplied program can be cancelled from the outside; the simulation
// remains synchronous and single-threaded otherwise. On cancellation,
// RunProgram returns ctx.Err() alongside the statistics accumulated up to
// that point. ctx is also bound to every Coroutine touched by the run (see
// Coroutine.bindContext), so a coroutine whose generator goroutine is
// blocked mid-yield when RunProgram gives up on it is killed by coro
// rather than leaked.
func (s *Scheduler) RunProgram(ctx context.Context, root *Coroutine, ncpu int, monitor Monitor) (Stats, error) {
	if ncpu < 1 {
		return Stats{}, fmt.Errorf("schedprof: ncpu must be at least 1, got %d", ncpu)
	}
	if root == nil {
		return Stats{}, fmt.Errorf("schedprof: root coroutine must not be nil")
	}
	root.bindContext(ctx)
	if monitor == nil {
		monitor = s.monitor
	}
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}

	var now int64
	coros := []*Coroutine{root}
	cpus := make([]*CPU, ncpu)
	for i := range cpus {
		cpus[i] = NewCPU()
	}
	var pending []pendingUnlock
	var idleAccumulator, contextSwitches, cacheHits int64

	statsAt := func() Stats {
		total := int64(ncpu) * now
		return Stats{
			Elapsed:         now,
			TotalCPUTime:    total,
			BurningCPUTime:  total - idleAccumulator,
			ContextSwitches: contextSwitches,
			CacheHits:       cacheHits,
		}
	}

	for {
		select {
		case <-ctx.Done():
			logger.Warn("schedprof: simulation cancelled", "now", now, "err", ctx.Err())
			return statsAt(), ctx.Err()
		default:
		}

		// 1. Retire CPUs whose current instruction has completed.
		for _, cpu := range cpus {
			if cpu.coro != nil && cpu.due <= now {
				cpu.retire()
			}
		}

		// 2. Process mutex releases scheduled to fire at now or earlier,
		// waking the head of the wait-queue (if any) or clearing ownership.
		remaining := pending[:0]
		for _, p := range pending {
			if p.fireAt > now {
				remaining = append(remaining, p)
				continue
			}
			if p.mutex.owner != nil {
				// Another coroutine acquired the mutex in the Unlock's own
				// tick; it keeps it, and its own Unlock wakes the waiters.
				continue
			}
			if next := p.mutex.dequeue(); next != nil {
				p.mutex.owner = next
				next.Resume()
			} else {
				p.mutex.owner = nil
			}
		}
		pending = remaining

		// 3. Ask the policy to map idle CPUs to ready coroutines, then
		// sort for deterministic dispatch order and validate the contract.
		mappings := s.policy.Map(now, cpus, coros)
		sort.Slice(mappings, func(i, j int) bool { return mappings[i].CPU.id < mappings[j].CPU.id })

		seenCPU := make(map[*CPU]bool, len(mappings))
		seenCoro := make(map[*Coroutine]bool, len(mappings))
		for _, m := range mappings {
			if !m.CPU.IsIdleAt(now) {
				return statsAt(), fmt.Errorf("%w: %s", ErrMappedBurningCpu, m.CPU)
			}
			if seenCPU[m.CPU] || seenCoro[m.Coroutine] {
				return statsAt(), fmt.Errorf("%w: %s mapped to %s more than once", ErrPolicyContractViolation, m.CPU, m.Coroutine)
			}
			seenCPU[m.CPU] = true
			seenCoro[m.Coroutine] = true
		}

		// 4. Dispatch: pop one instruction per mapped CPU and apply its
		// side-effects.
		for _, m := range mappings {
			cpu, coro := m.CPU, m.Coroutine
			instr, err := coro.Pop()
			if err != nil {
				return statsAt(), err
			}
			if monitor != nil {
				monitor(now, cpu, coro, instr)
			}
			logger.Debug("schedprof: dispatch", "now", now, "cpu", cpu.ID(), "coro", coro.ID(), "op", instr.Op.String())

			switch instr.Op {
			case OpLock:
				mu := instr.Mutex
				if mu.owner != nil && mu.owner != coro {
					mu.enqueue(coro)
					if err := coro.Suspend(instr); err != nil {
						return statsAt(), err
					}
				} else {
					mu.owner = coro
				}
			case OpUnlock:
				mu := instr.Mutex
				if mu.owner != coro {
					return statsAt(), fmt.Errorf("%w: %s on %s", ErrUnlockNotOwned, coro, mu)
				}
				mu.owner = nil
				pending = append(pending, pendingUnlock{fireAt: now + 1, mutex: mu})
			case OpSpawn:
				instr.Child.bindContext(ctx)
				coros = append(coros, instr.Child)
			case OpTerminate:
				coros = removeCoroutine(coros, instr.Target)
			}

			contextSwitches++
			if cpu.wakeup(coro, cpuStateFor(instr.Op), now+instr.Duration) {
				cacheHits++
			}
		}

		// 5. Termination check.
		allIdle := true
		for _, cpu := range cpus {
			if !cpu.IsIdleAt(now) {
				allIdle = false
				break
			}
		}
		if allIdle && len(coros) == 0 {
			return statsAt(), nil
		}

		// 6. Advance simulated time to the next CPU due-boundary.
		next := int64(-1)
		idleCount := 0
		for _, cpu := range cpus {
			if cpu.due > now && (next == -1 || cpu.due < next) {
				next = cpu.due
			}
			if cpu.IsIdleAt(now) {
				idleCount++
			}
		}
		if next == -1 {
			// Every CPU's due time already elapsed (e.g. a chain of
			// zero-duration instructions); nothing to jump to yet, so
			// hold time steady and let the next iteration's retire step
			// unblock whatever is pending.
			next = now
		}
		idleAccumulator += int64(idleCount) * (next - now)
		now = next
	}
}

// cpuStateFor reports the CPUState a dispatched instruction should bind
// its CPU to: blocking I/O is modelled as a syscall, every other
// instruction (including lock attempts, which are never themselves
// blocking — contention suspends the coroutine instead) runs the CPU.
func cpuStateFor(op Op) CPUState {
	if op == OpIo {
		return CPUSyscall
	}
	return CPURunning
}

func removeCoroutine(coros []*Coroutine, target *Coroutine) []*Coroutine {
	for i, c := range coros {
		if c == target {
			return append(coros[:i], coros[i+1:]...)
		}
	}
	return coros
}
