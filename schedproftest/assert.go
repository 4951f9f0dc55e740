// Package schedproftest collects assertion helpers for tests that exercise
// the schedprof simulator, mirroring dispatchtest's shape for the parent
// project.
package schedproftest

import (
	"testing"

	"github.com/isn-/schedprof"
)

// Event is one recorded (now, cpu, coro, instruction) dispatch, captured by
// a schedprof.Monitor built with NewRecorder.
type Event struct {
	Now         int64
	CPU, Coro   string
	Instruction string
}

// NewRecorder returns a Monitor that appends every dispatch to a slice, and
// a function that returns the recorded events so far.
func NewRecorder() (monitor schedprof.Monitor, events func() []Event) {
	var recorded []Event
	monitor = func(now int64, cpu *schedprof.CPU, coro *schedprof.Coroutine, instr schedprof.Instruction) {
		recorded = append(recorded, Event{
			Now:         now,
			CPU:         cpu.String(),
			Coro:        coro.String(),
			Instruction: instr.String(),
		})
	}
	events = func() []Event { return recorded }
	return monitor, events
}

// AssertEvents fails the test if got and want differ in length or content,
// reporting every mismatching index rather than stopping at the first.
func AssertEvents(t *testing.T, got, want []Event) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("unexpected number of events: got %d, want %d\n got: %+v\nwant: %+v", len(got), len(want), got, want)
	}
	for i, event := range got {
		if event != want[i] {
			t.Errorf("unexpected event %d: got %+v, want %+v", i, event, want[i])
		}
	}
}

// AssertStats fails the test if got and want differ in any field, reporting
// every mismatching field rather than stopping at the first.
func AssertStats(t *testing.T, got, want schedprof.Stats) {
	t.Helper()

	if got.Elapsed != want.Elapsed {
		t.Errorf("Elapsed: got %d, want %d", got.Elapsed, want.Elapsed)
	}
	if got.TotalCPUTime != want.TotalCPUTime {
		t.Errorf("TotalCPUTime: got %d, want %d", got.TotalCPUTime, want.TotalCPUTime)
	}
	if got.BurningCPUTime != want.BurningCPUTime {
		t.Errorf("BurningCPUTime: got %d, want %d", got.BurningCPUTime, want.BurningCPUTime)
	}
	if got.ContextSwitches != want.ContextSwitches {
		t.Errorf("ContextSwitches: got %d, want %d", got.ContextSwitches, want.ContextSwitches)
	}
	if got.CacheHits != want.CacheHits {
		t.Errorf("CacheHits: got %d, want %d", got.CacheHits, want.CacheHits)
	}
}
