package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	DefaultSystem     = "solar"
	DefaultIntegrator = "rk4"
	DefaultDays       = 365.0
	DefaultStep       = 1.0
	DefaultWorkers    = 1
	DefaultDataDir    = ".orbitsim"

	// EnvPrefix prefixes every environment override, e.g. ORBITSIM_STEP.
	EnvPrefix = "ORBITSIM_"
)

// Config describes one run. G and the unit system are not configurable.
type Config struct {
	System     string   `yaml:"system" env:"SYSTEM"`
	Bodies     []string `yaml:"bodies,omitempty" env:"BODIES" envSeparator:","`
	Start      float64  `yaml:"start" env:"START"`
	Days       float64  `yaml:"days" env:"DAYS"`
	Step       float64  `yaml:"step" env:"STEP"`
	Integrator string   `yaml:"integrator" env:"INTEGRATOR"`
	Workers    int      `yaml:"workers" env:"WORKERS"`
	Metrics    bool     `yaml:"metrics" env:"METRICS"`
	DataDir    string   `yaml:"data_dir" env:"DATA_DIR"`
}

func DefaultConfig() *Config {
	return &Config{
		System:     DefaultSystem,
		Integrator: DefaultIntegrator,
		Days:       DefaultDays,
		Step:       DefaultStep,
		Workers:    DefaultWorkers,
		Metrics:    true,
		DataDir:    DefaultDataDir,
	}
}

// Load reads a YAML file over the defaults and then applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.System == "" {
		return fmt.Errorf("system is required")
	}
	if !(c.Days > 0) || math.IsInf(c.Days, 0) {
		return fmt.Errorf("days must be positive, got %g", c.Days)
	}
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("step must be positive, got %g", c.Step)
	}
	if c.Step > c.Days {
		return fmt.Errorf("step %g exceeds duration %g", c.Step, c.Days)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Samples is the number of grid points: one per step plus the initial
// instant. A trailing partial step is dropped.
func (c *Config) Samples() int {
	return int(math.Floor(c.Days/c.Step+1e-9)) + 1
}

// Grid builds the uniform time grid for the run.
func (c *Config) Grid() dynamo.TimeGrid {
	return dynamo.Uniform(c.Start, c.Step, c.Samples())
}
