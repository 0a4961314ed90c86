// Package modules is a build-time catalog of deployable implementation
// modules.
//
// Implementations typically register themselves in init():
//
//	modules.MustRegister(modules.Implementation{ ... })
//
// The binary must import the implementation package for registration to
// occur. The daemon and CLI deploy implementation code by catalog name and
// hand the resulting address to the registry.
package modules

import (
	"fmt"
	"sort"
	"sync"

	"xdao.co/proxyreg/ledger"
)

// Implementation describes one deployable code module.
type Implementation struct {
	Name        string
	Description string

	// New returns a fresh module value. Modules are stateless, but a fresh
	// value per deployment keeps implementations free to carry
	// configuration later without aliasing.
	New func() ledger.Module
}

var (
	mu      sync.RWMutex
	catalog = map[string]Implementation{}
)

// Register registers an implementation.
func Register(impl Implementation) error {
	if impl.Name == "" {
		return fmt.Errorf("modules: implementation name is required")
	}
	if impl.New == nil {
		return fmt.Errorf("modules: implementation %q missing New", impl.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := catalog[impl.Name]; exists {
		return fmt.Errorf("modules: implementation %q already registered", impl.Name)
	}
	catalog[impl.Name] = impl
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(impl Implementation) {
	if err := Register(impl); err != nil {
		panic(err)
	}
}

// List returns all registered implementations, sorted by name.
func List() []Implementation {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Implementation, 0, len(catalog))
	for _, impl := range catalog {
		out = append(out, impl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns registered implementation names, sorted.
func Names() []string {
	impls := List()
	n := make([]string, 0, len(impls))
	for _, impl := range impls {
		n = append(n, impl.Name)
	}
	return n
}

// Open returns a fresh module for the named implementation.
func Open(name string) (ledger.Module, error) {
	mu.RLock()
	impl, ok := catalog[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown implementation %q", name)
	}
	return impl.New(), nil
}
