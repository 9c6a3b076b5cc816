package backend

import (
	"fmt"
	"slices"
	"sync"
)

// Backend names.
const (
	// BackendDevice is reserved for bindings to real hardware. When
	// registered it wins over the simulator.
	BackendDevice = "device"
	// BackendSoftware is the pure Go simulator.
	BackendSoftware = "software"
)

// BackendFactory creates a new, uninitialized backend.
type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
	// preferred lists the names Default tries first, in order.
	preferred = []string{BackendDevice, BackendSoftware}
)

// Register makes a backend available under name, replacing any earlier
// registration. It is usually called from an init function:
//
//	func init() {
//	    backend.Register(backend.BackendSoftware, func() backend.Backend { return New() })
//	}
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend. Mostly useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames()
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a new instance of the named backend, or nil if it is not
// registered.
func Get(name string) Backend {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// Default returns a new instance of the preferred registered backend.
// Unknown names are tried in sorted order after the preferred ones. It
// returns nil when nothing is registered.
func Default() Backend {
	registryMu.RLock()
	order := append(slices.Clone(preferred), sortedNames()...)
	factories := make([]BackendFactory, 0, len(order))
	for _, name := range order {
		if f, ok := backends[name]; ok {
			factories = append(factories, f)
		}
	}
	registryMu.RUnlock()

	for _, f := range factories {
		if b := f(); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault is like Default but panics when no backend is registered.
func MustDefault() Backend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// InitDefault returns the default backend after calling its Init.
func InitDefault() (Backend, error) {
	b := Default()
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("backend: init %q: %w", b.Name(), err)
	}
	return b, nil
}

// sortedNames must be called with registryMu held.
func sortedNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
