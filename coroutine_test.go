package schedprof

import (
	"errors"
	"testing"
)

func newTestCoroutine(t *testing.T, body Body) *Coroutine {
	t.Helper()
	return NewCoroutine(body)
}

func TestCoroutinePeekIsIdempotent(t *testing.T) {
	ResetCoroutineInstanceCounter()
	c := newTestCoroutine(t, func(yield func(Instruction)) {
		yield(CpuBurn(5))
	})

	first := c.Peek()
	second := c.Peek()
	if first != second {
		t.Fatalf("Peek changed between calls: %v != %v", first, second)
	}
	if first.Op != OpCpuBurn || first.Duration != 5 {
		t.Fatalf("unexpected peeked instruction: %v", first)
	}

	popped, err := c.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if popped != first {
		t.Fatalf("Pop returned %v, want the peeked value %v", popped, first)
	}
}

func TestCoroutineEmptyBodyTerminatesImmediately(t *testing.T) {
	ResetCoroutineInstanceCounter()
	c := newTestCoroutine(t, nil)

	instr, err := c.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if instr.Op != OpTerminate {
		t.Fatalf("expected immediate Terminate, got %v", instr)
	}
	if instr.Target != c {
		t.Fatalf("expected Terminate to target self, got %v", instr.Target)
	}
}

func TestCoroutineBodyEndsWithSynthesizedTerminate(t *testing.T) {
	ResetCoroutineInstanceCounter()
	c := newTestCoroutine(t, func(yield func(Instruction)) {
		yield(CpuBurn(1))
		yield(CpuBurn(2))
	})

	var ops []Op
	for {
		instr, err := c.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		ops = append(ops, instr.Op)
		if instr.Op == OpTerminate {
			break
		}
	}

	want := []Op{OpCpuBurn, OpCpuBurn, OpTerminate}
	if len(ops) != len(want) {
		t.Fatalf("got %v instructions, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("op %d: got %s, want %s", i, ops[i], want[i])
		}
	}
}

func TestCoroutineSuspendThenResumeReplaysSameInstruction(t *testing.T) {
	ResetCoroutineInstanceCounter()
	ResetMutexInstanceCounter()
	m := NewMutex()
	c := newTestCoroutine(t, func(yield func(Instruction)) {
		yield(Lock(m))
	})

	instr, err := c.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if err := c.Suspend(instr); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if !c.IsSuspended() {
		t.Fatal("expected coroutine to report suspended")
	}
	if _, err := c.Pop(); !errors.Is(err, ErrSuspendedCoroutine) {
		t.Fatalf("Pop on suspended coroutine: got %v, want ErrSuspendedCoroutine", err)
	}

	c.Resume()
	if c.IsSuspended() {
		t.Fatal("expected coroutine to report not suspended after Resume")
	}
	replayed, err := c.Pop()
	if err != nil {
		t.Fatalf("Pop after Resume: %v", err)
	}
	if replayed != instr {
		t.Fatalf("replayed instruction %v, want the suspended one %v", replayed, instr)
	}
}

func TestCoroutineSuspendFailsWhenLookaheadFull(t *testing.T) {
	ResetCoroutineInstanceCounter()
	c := newTestCoroutine(t, func(yield func(Instruction)) {
		yield(CpuBurn(1))
	})
	c.Peek()
	if err := c.Suspend(CpuBurn(1)); !errors.Is(err, ErrCoroutineLookaheadFull) {
		t.Fatalf("Suspend with full buffer: got %v, want ErrCoroutineLookaheadFull", err)
	}
}

func TestCoroutineIsReadyTracksCPUBinding(t *testing.T) {
	ResetCoroutineInstanceCounter()
	ResetCPUInstanceCounter()
	c := newTestCoroutine(t, func(yield func(Instruction)) { yield(CpuBurn(1)) })
	if !c.IsReady() {
		t.Fatal("freshly constructed coroutine should be ready")
	}

	cpu := NewCPU()
	cpu.wakeup(c, CPURunning, 10)
	if c.IsReady() {
		t.Fatal("coroutine bound to a CPU should not be ready")
	}
	if c.CPU() != cpu {
		t.Fatalf("CPU() = %v, want %v", c.CPU(), cpu)
	}

	cpu.retire()
	if !c.IsReady() {
		t.Fatal("coroutine should be ready again after its CPU retires")
	}
}
