package schedprof

import "testing"

func TestCPUIdleUntilWokenUp(t *testing.T) {
	ResetCPUInstanceCounter()
	ResetCoroutineInstanceCounter()
	cpu := NewCPU()
	if !cpu.IsIdleAt(0) {
		t.Fatal("freshly constructed CPU should be idle")
	}

	coro := NewCoroutine(nil)
	hit := cpu.wakeup(coro, CPURunning, 5)
	if hit {
		t.Fatal("first wakeup should never be a cache hit")
	}
	if cpu.IsIdleAt(4) {
		t.Fatal("CPU should be running before its due time")
	}
	if !cpu.IsIdleAt(5) {
		t.Fatal("CPU should be idle once its due time has elapsed")
	}
	if cpu.State() != CPURunning {
		t.Fatalf("State() = %v, want CPURunning", cpu.State())
	}
}

func TestCPURetireRecordsCacheHitOnNextWakeup(t *testing.T) {
	ResetCPUInstanceCounter()
	ResetCoroutineInstanceCounter()
	cpu := NewCPU()
	a := NewCoroutine(nil)
	b := NewCoroutine(nil)

	cpu.wakeup(a, CPURunning, 3)
	cpu.retire()
	if cpu.Coroutine() != nil {
		t.Fatal("retire should unbind the coroutine")
	}
	if a.CPU() != nil {
		t.Fatal("retire should clear the coroutine's own CPU pointer")
	}

	if hit := cpu.wakeup(b, CPURunning, 4); hit {
		t.Fatal("waking up a different coroutine than the one that last ran should not be a cache hit")
	}
	cpu.retire()

	if hit := cpu.wakeup(b, CPURunning, 5); !hit {
		t.Fatal("waking up the same coroutine that just ran should be a cache hit")
	}
}

func TestCPUIsRunningAtIsNegationOfIsIdleAt(t *testing.T) {
	ResetCPUInstanceCounter()
	ResetCoroutineInstanceCounter()
	cpu := NewCPU()
	coro := NewCoroutine(nil)
	cpu.wakeup(coro, CPUSyscall, 2)
	if cpu.IsRunningAt(1) == cpu.IsIdleAt(1) {
		t.Fatal("IsRunningAt must be the negation of IsIdleAt")
	}
}
