package schedprof

import "fmt"

// Op identifies which variant of Instruction a value holds.
type Op int

const (
	// OpCpuBurn is pure CPU work for Duration nanoseconds.
	OpCpuBurn Op = iota
	// OpIo is blocking I/O for Duration nanoseconds; the CPU stays bound
	// to the coroutine, in the CPUSyscall state, until it elapses, and is
	// not handed to other coroutines meanwhile.
	OpIo
	// OpLock attempts to acquire Mutex; constant 1ns cost.
	OpLock
	// OpUnlock releases Mutex; constant 1ns cost, with the actual release
	// deferred by 1ns.
	OpUnlock
	// OpSpawn adds Child to the live coroutine set; 1ns cost.
	OpSpawn
	// OpTerminate removes Target from the live coroutine set; 1ns cost.
	// Synthesized as the final instruction of every coroutine's stream.
	OpTerminate
)

func (op Op) String() string {
	switch op {
	case OpCpuBurn:
		return "cpu"
	case OpIo:
		return "io"
	case OpLock:
		return "lock"
	case OpUnlock:
		return "unlock"
	case OpSpawn:
		return "spawn"
	case OpTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Instruction is a tagged value describing one atomic action a coroutine
// may request of the scheduler. The zero value is not a valid Instruction;
// use the constructor functions below.
type Instruction struct {
	Op       Op
	Duration int64      // nanoseconds; meaningful for OpCpuBurn and OpIo
	Mutex    *Mutex     // meaningful for OpLock and OpUnlock
	Child    *Coroutine // meaningful for OpSpawn
	Target   *Coroutine // meaningful for OpTerminate
}

// CpuBurn requests n nanoseconds of uninterrupted CPU work. n must be
// non-negative.
func CpuBurn(n int64) Instruction {
	return Instruction{Op: OpCpuBurn, Duration: n}
}

// Io requests n nanoseconds of blocking I/O. n must be non-negative.
func Io(n int64) Instruction {
	return Instruction{Op: OpIo, Duration: n}
}

// Lock requests acquisition of m, at a constant cost of 1ns.
func Lock(m *Mutex) Instruction {
	return Instruction{Op: OpLock, Duration: 1, Mutex: m}
}

// Unlock releases m, at a constant cost of 1ns; the release itself is
// deferred by 1ns (see Scheduler's pending-unlock processing).
func Unlock(m *Mutex) Instruction {
	return Instruction{Op: OpUnlock, Duration: 1, Mutex: m}
}

// Spawn adds child to the live coroutine set, at a cost of 1ns.
func Spawn(child *Coroutine) Instruction {
	return Instruction{Op: OpSpawn, Duration: 1, Child: child}
}

// Terminate removes self from the live coroutine set, at a cost of 1ns.
// Callers should not normally construct this directly: Coroutine
// synthesizes it automatically as the last instruction of every stream.
func Terminate(self *Coroutine) Instruction {
	return Instruction{Op: OpTerminate, Duration: 1, Target: self}
}

func (i Instruction) String() string {
	switch i.Op {
	case OpLock, OpUnlock:
		return fmt.Sprintf("%s(%s)", i.Op, i.Mutex)
	case OpSpawn:
		return fmt.Sprintf("%s(%s)", i.Op, i.Child)
	case OpTerminate:
		return fmt.Sprintf("%s(%s)", i.Op, i.Target)
	default:
		return fmt.Sprintf("%s(%d)", i.Op, i.Duration)
	}
}
