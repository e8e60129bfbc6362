package gild

import (
	"sort"
	"sync"
)

// Registry maps action names to compiled actions. It is a plain value passed
// into Compile rather than a process-wide singleton, so independent compile
// passes cannot leak state into each other.
type Registry struct {
	mu      sync.Mutex
	actions map[string]*Action
}

func NewRegistry() *Registry {
	return &Registry{
		actions: map[string]*Action{},
	}
}

// Register stores an action under a name, replacing any prior registration.
func (r *Registry) Register(name string, action *Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = action
}

func (r *Registry) Lookup(name string) (*Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[name]
	return a, ok
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every registration so the registry can be reused across
// compile passes.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = map[string]*Action{}
}
