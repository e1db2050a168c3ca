// Package ephemeris supplies initial conditions: body names, masses and
// the starting state in the flat position-then-velocity layout.
package ephemeris

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

type Body struct {
	Name     string     `yaml:"name"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
}

// System is a named set of bodies at a common epoch. Body order defines the
// body indices used by the state vector.
type System struct {
	Name   string `yaml:"name"`
	Epoch  string `yaml:"epoch,omitempty"`
	Bodies []Body `yaml:"bodies"`
}

func (s *System) Masses() dynamo.Masses {
	m := make(dynamo.Masses, len(s.Bodies))
	for i, b := range s.Bodies {
		m[i] = b.Mass
	}
	return m
}

func (s *System) Names() []string {
	names := make([]string, len(s.Bodies))
	for i, b := range s.Bodies {
		names[i] = b.Name
	}
	return names
}

// State assembles the 6N initial state.
func (s *System) State() dynamo.State {
	n := len(s.Bodies)
	x := make(dynamo.State, 6*n)
	for i, b := range s.Bodies {
		copy(x[i*3:i*3+3], b.Position[:])
		copy(x[3*n+i*3:3*n+i*3+3], b.Velocity[:])
	}
	return x
}

func (s *System) Validate() error {
	if err := s.Masses().Validate(); err != nil {
		return fmt.Errorf("system %q: %w", s.Name, err)
	}
	seen := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		key := strings.ToLower(b.Name)
		if key == "" {
			return fmt.Errorf("system %q: body %d has no name", s.Name, i)
		}
		if seen[key] {
			return fmt.Errorf("system %q: duplicate body %q", s.Name, b.Name)
		}
		seen[key] = true
	}
	return nil
}

// Index returns the position of the named body, matched case-insensitively.
func (s *System) Index(name string) (int, bool) {
	for i, b := range s.Bodies {
		if strings.EqualFold(b.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Subset returns a new system containing only the named bodies, in the
// order given.
func (s *System) Subset(names ...string) (*System, error) {
	out := &System{Name: s.Name, Epoch: s.Epoch, Bodies: make([]Body, 0, len(names))}
	for _, name := range names {
		i, ok := s.Index(name)
		if !ok {
			return nil, fmt.Errorf("system %q has no body %q", s.Name, name)
		}
		out.Bodies = append(out.Bodies, s.Bodies[i])
	}
	return out, nil
}

// FromState rebuilds a system from masses, names and a flat state.
func FromState(name string, names []string, masses dynamo.Masses, x dynamo.State) (*System, error) {
	if len(names) != len(masses) {
		return nil, fmt.Errorf("%d names for %d masses", len(names), len(masses))
	}
	if err := masses.CheckShape(x); err != nil {
		return nil, err
	}
	s := &System{Name: name, Bodies: make([]Body, len(masses))}
	for i := range masses {
		s.Bodies[i] = Body{
			Name:     names[i],
			Mass:     masses[i],
			Position: x.Position(i),
			Velocity: x.Velocity(i),
		}
	}
	return s, nil
}

func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s System
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func Save(path string, s *System) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
