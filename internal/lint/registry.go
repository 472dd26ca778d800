package lint

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the known rules by name.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// DefaultRegistry is filled by rule packages from their init functions.
var DefaultRegistry = NewRegistry()

// Register adds a rule. Registering two rules with the same name is an error.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := rule.Name()
	if name == "" {
		return fmt.Errorf("rule has no name")
	}
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("rule %q already registered", name)
	}
	r.rules[name] = rule
	return nil
}

// MustRegister is Register for init functions.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// All returns every registered rule sorted by name.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		all = append(all, rule)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}
