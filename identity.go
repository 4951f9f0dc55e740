package schedprof

import "sync"

// idCounter assigns unique sequential identifiers to instances of a single
// kind (Coroutine, CPU, or Mutex). It is deliberately simpler than a
// sync/atomic counter because tests need to reset it to zero between runs,
// which atomics can do too, but a mutex-guarded plain int keeps the Reset
// and next operations symmetric and trivially readable.
type idCounter struct {
	mu   sync.Mutex
	next int
}

func (c *idCounter) id() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}

func (c *idCounter) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = 0
}

var (
	coroutineIDs idCounter
	cpuIDs       idCounter
	mutexIDs     idCounter
)

// ResetCoroutineInstanceCounter resets the identifier assigned to the next
// constructed Coroutine back to zero. Intended for tests that need
// reproducible identifiers; production code should not normally call it.
func ResetCoroutineInstanceCounter() { coroutineIDs.reset() }

// ResetCPUInstanceCounter resets the identifier assigned to the next
// constructed CPU back to zero.
func ResetCPUInstanceCounter() { cpuIDs.reset() }

// ResetMutexInstanceCounter resets the identifier assigned to the next
// constructed Mutex back to zero.
func ResetMutexInstanceCounter() { mutexIDs.reset() }
