package schedprof

import "errors"

// Sentinel errors returned by the simulator. Callers should compare against
// these with errors.Is; the driver wraps each with the offending CPU,
// coroutine, or mutex identity via fmt.Errorf's %w verb.
var (
	// ErrSuspendedCoroutine is returned by (*Coroutine).Pop when called on a
	// coroutine that is currently suspended (blocked on a contended Lock).
	ErrSuspendedCoroutine = errors.New("schedprof: pop on suspended coroutine")

	// ErrCoroutineLookaheadFull is returned by (*Coroutine).Suspend when the
	// one-slot look-ahead buffer already holds an instruction.
	ErrCoroutineLookaheadFull = errors.New("schedprof: coroutine look-ahead buffer is full")

	// ErrMappedBurningCpu is returned when a Policy's Map result includes a
	// CPU that is not idle at the current simulated time.
	ErrMappedBurningCpu = errors.New("schedprof: policy mapped a burning cpu")

	// ErrUnlockNotOwned is returned when an Unlock instruction is issued by
	// a coroutine other than the mutex's current owner.
	ErrUnlockNotOwned = errors.New("schedprof: unlock issued by non-owner")

	// ErrPolicyContractViolation is returned when a Policy's Map result
	// names the same CPU or the same coroutine more than once.
	ErrPolicyContractViolation = errors.New("schedprof: policy contract violation")

	// ErrUnimplementedPolicy is returned by PolicyRegistry.Lookup for any
	// name that has no registered constructor, including the original
	// tool's retired "random" and "fifo" choices.
	ErrUnimplementedPolicy = errors.New("schedprof: unimplemented policy")
)
