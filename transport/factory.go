package transport

import (
	"sort"
	"sync"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
)

// Constructor builds a Transport from an opaque config value. Each variant
// registers its own constructor with Factory at init time, the way
// gopper's core.driver_registry keys handlers by name under a lock.
type Constructor func(config any) (Transport, error)

// Factory is the name-keyed transport registry (supplemental feature, see
// SPEC_FULL.md §12.2; grounded on the reference TransportFactory).
type factory struct {
	mu    sync.Mutex
	byName map[string]Constructor
}

var Factory = &factory{byName: make(map[string]Constructor)}

// Register adds a named constructor. Re-registering the same name replaces
// the previous constructor.
func (f *factory) Register(name string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byName[name] = ctor
}

// Create builds a Transport using the constructor registered under name.
func (f *factory) Create(name string, config any) (Transport, error) {
	f.mu.Lock()
	ctor, ok := f.byName[name]
	f.mu.Unlock()
	if !ok {
		return nil, phoenixerr.NewTransportError("transport.Factory.Create", phoenixerr.TransportAdapterMissing, name, nil)
	}
	return ctor(config)
}

// Available lists every registered transport name, sorted.
func (f *factory) Available() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
