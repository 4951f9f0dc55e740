package schedprof

import (
	"fmt"
	"sync"
)

// PolicyConstructor builds a fresh Policy instance. Constructors are
// invoked once per PolicyRegistry.Lookup so that a stateful policy never
// leaks scheduling decisions between unrelated simulation runs.
type PolicyConstructor func() Policy

// PolicyRegistry is a named collection of policy constructors, addressed
// by the CLI's --scheduler flag and by any programmatic caller that wants
// to select a policy by name instead of by value.
type PolicyRegistry struct {
	mu    sync.Mutex
	ctors map[string]PolicyConstructor
}

// NewPolicyRegistry creates a PolicyRegistry with the "dumb" policy
// registered. The original tool's CLI also recognized "random" and "fifo"
// names without implementing them; they are not registered here, so
// requesting them, like any other unregistered name, fails with
// ErrUnimplementedPolicy rather than a generic "unknown flag value".
func NewPolicyRegistry() *PolicyRegistry {
	r := &PolicyRegistry{ctors: map[string]PolicyConstructor{
		"dumb": func() Policy { return Dumb },
	}}
	return r
}

// Register adds or replaces the constructor for name.
func (r *PolicyRegistry) Register(name string, ctor PolicyConstructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctors == nil {
		r.ctors = map[string]PolicyConstructor{}
	}
	r.ctors[name] = ctor
}

// Lookup constructs the policy registered under name. It returns
// ErrUnimplementedPolicy, wrapped with name, if nothing is registered
// under it.
func (r *PolicyRegistry) Lookup(name string) (Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnimplementedPolicy, name)
	}
	return ctor(), nil
}

// Names returns the registered policy names, for CLI help text.
func (r *PolicyRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	return names
}
