package experiment

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/orbitsim/internal/ephemeris"
)

// Registry maps system names to initial-condition sources. Names that are
// not registered are tried as YAML files.
type Registry struct {
	systems map[string]func() *ephemeris.System
}

func NewRegistry() *Registry {
	r := &Registry{
		systems: make(map[string]func() *ephemeris.System),
	}

	r.Register("solar", ephemeris.SolarSystem)

	return r
}

func (r *Registry) Register(name string, fn func() *ephemeris.System) {
	r.systems[name] = fn
}

// GetSystem resolves name and optionally narrows it to the given bodies.
func (r *Registry) GetSystem(name string, bodies []string) (*ephemeris.System, error) {
	var sys *ephemeris.System
	if fn, ok := r.systems[name]; ok {
		sys = fn()
	} else if _, err := os.Stat(name); err == nil {
		sys, err = ephemeris.Load(name)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, fmt.Errorf("unknown system: %s", name)
	}

	if len(bodies) == 0 {
		return sys, nil
	}
	return sys.Subset(bodies...)
}

func (r *Registry) ListSystems() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
