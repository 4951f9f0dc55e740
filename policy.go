package schedprof

// Mapping pairs one idle CPU with one ready coroutine for the next tick's
// dispatch step.
type Mapping struct {
	CPU       *CPU
	Coroutine *Coroutine
}

// Policy maps idle CPUs to ready coroutines. Implementations inspect cpus,
// coros, and now, and return a set of pairings; they must not mutate any
// of the values they are given. Every returned CPU must be idle at now and
// every returned coroutine must be ready (Coroutine.IsReady); no CPU or
// coroutine may appear more than once. The Scheduler driver validates the
// contract and fails the run with ErrMappedBurningCpu or
// ErrPolicyContractViolation otherwise.
type Policy interface {
	Map(now int64, cpus []*CPU, coros []*Coroutine) []Mapping
}

// PolicyFunc adapts a plain function to a Policy.
type PolicyFunc func(now int64, cpus []*CPU, coros []*Coroutine) []Mapping

// Map calls f.
func (f PolicyFunc) Map(now int64, cpus []*CPU, coros []*Coroutine) []Mapping {
	return f(now, cpus, coros)
}

// Dumb is the reference policy: it pairs idle CPUs, in ascending
// identifier order, with ready coroutines, in spawn order, truncated to
// the shorter of the two lists. It is deterministic and stateless.
var Dumb Policy = PolicyFunc(dumbMap)

func dumbMap(now int64, cpus []*CPU, coros []*Coroutine) []Mapping {
	var idleCPUs []*CPU
	for _, cpu := range cpus {
		if cpu.IsIdleAt(now) {
			idleCPUs = append(idleCPUs, cpu)
		}
	}
	var readyCoros []*Coroutine
	for _, coro := range coros {
		if coro.IsReady() {
			readyCoros = append(readyCoros, coro)
		}
	}
	n := len(idleCPUs)
	if len(readyCoros) < n {
		n = len(readyCoros)
	}
	mappings := make([]Mapping, n)
	for i := 0; i < n; i++ {
		mappings[i] = Mapping{CPU: idleCPUs[i], Coroutine: readyCoros[i]}
	}
	return mappings
}
