package schedprof

import "testing"

func TestDumbMapPairsInAscendingSpawnOrderTruncated(t *testing.T) {
	resetAllCounters()
	cpus := []*CPU{NewCPU(), NewCPU(), NewCPU()}
	coros := []*Coroutine{NewCoroutine(nil), NewCoroutine(nil)}

	mappings := Dumb.Map(0, cpus, coros)
	if len(mappings) != 2 {
		t.Fatalf("len(mappings) = %d, want 2 (truncated to the shorter list)", len(mappings))
	}
	if mappings[0].CPU != cpus[0] || mappings[0].Coroutine != coros[0] {
		t.Fatalf("mappings[0] = %+v, want {cpus[0] coros[0]}", mappings[0])
	}
	if mappings[1].CPU != cpus[1] || mappings[1].Coroutine != coros[1] {
		t.Fatalf("mappings[1] = %+v, want {cpus[1] coros[1]}", mappings[1])
	}
}

func TestDumbMapSkipsBusyCPUsAndBoundCoroutines(t *testing.T) {
	resetAllCounters()
	busy, idle := NewCPU(), NewCPU()
	busy.wakeup(NewCoroutine(nil), CPURunning, 100)

	bound := NewCoroutine(nil)
	bound.cpu = busy
	ready := NewCoroutine(nil)

	mappings := Dumb.Map(0, []*CPU{busy, idle}, []*Coroutine{bound, ready})
	if len(mappings) != 1 {
		t.Fatalf("len(mappings) = %d, want 1", len(mappings))
	}
	if mappings[0].CPU != idle || mappings[0].Coroutine != ready {
		t.Fatalf("mappings[0] = %+v, want {idle ready}", mappings[0])
	}
}
