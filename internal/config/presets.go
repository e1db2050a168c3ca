package config

import "sort"

var innerBodies = []string{"Sun", "Mercury", "Venus", "Earth", "Moon", "Mars"}

var outerBodies = []string{"Sun", "Jupiter", "Saturn", "Uranus", "Neptune"}

var Presets = map[string]*Config{
	"solar": {
		System: "solar", Integrator: "rk4", Days: 365, Step: 1, Workers: 1, Metrics: true,
	},
	"century": {
		System: "solar", Integrator: "rk4", Days: 60191, Step: 1, Workers: 1, Metrics: true,
	},
	"inner": {
		System: "solar", Bodies: innerBodies, Integrator: "rk4", Days: 687, Step: 0.25, Workers: 1, Metrics: true,
	},
	"outer": {
		System: "solar", Bodies: outerBodies, Integrator: "rk4", Days: 60190, Step: 10, Workers: 1, Metrics: true,
	},
	"earth-moon": {
		System: "solar", Bodies: []string{"Sun", "Earth", "Moon"}, Integrator: "rk4", Days: 60, Step: 0.05, Workers: 1, Metrics: true,
	},
	"sun-jupiter": {
		System: "solar", Bodies: []string{"Sun", "Jupiter"}, Integrator: "rk4", Days: 4333, Step: 2, Workers: 1, Metrics: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = append([]string(nil), p.Bodies...)
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
