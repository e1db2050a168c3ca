// Package automation runs batches of simulations described in YAML.
package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
)

// Scenario is a named list of independent runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parallel    int            `yaml:"parallel"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides the
// fields it sets.
type ScenarioStep struct {
	Name       string   `yaml:"name"`
	Preset     string   `yaml:"preset"`
	System     string   `yaml:"system"`
	Bodies     []string `yaml:"bodies"`
	Days       float64  `yaml:"days"`
	Step       float64  `yaml:"step"`
	Integrator string   `yaml:"integrator"`
	Workers    int      `yaml:"workers"`
}

// Outcome pairs a step with its run and, when saved, the stored run id.
type Outcome struct {
	Step   ScenarioStep
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step into a validated run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.System != "" {
		cfg.System = s.System
	}
	if len(s.Bodies) > 0 {
		cfg.Bodies = s.Bodies
	}
	if s.Days != 0 {
		cfg.Days = s.Days
	}
	if s.Step != 0 {
		cfg.Step = s.Step
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Workers != 0 {
		cfg.Workers = s.Workers
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step concurrently, up to scenario.Parallel at a
// time. When st is non-nil each result is saved once all steps succeeded.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, logger *log.Logger) ([]Outcome, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	exps := make([]*experiment.Experiment, len(scenario.Steps))
	jobs := make([]sim.Job, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, registry, logger)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		exps[i] = exp
		jobs[i] = sim.Job{
			Driver:  exp.Driver(),
			Masses:  exp.System().Masses(),
			Initial: exp.System().State(),
			Grid:    exp.Grid(),
		}
	}

	results, err := sim.NewEnsemble(scenario.Parallel).Run(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	outcomes := make([]Outcome, len(results))
	for i, res := range results {
		outcomes[i] = Outcome{Step: scenario.Steps[i], Result: res}
		if st == nil {
			continue
		}

		exp := exps[i]
		cfg := exp.Config()
		id, err := st.Save(ctx, storage.RunMetadata{
			System:     exp.System().Name,
			Integrator: exp.Driver().Stepper().Name(),
			Start:      cfg.Start,
			Days:       cfg.Days,
			Step:       cfg.Step,
			Bodies:     exp.System().Names(),
			Masses:     exp.System().Masses(),
		}, res)
		if err != nil {
			return outcomes, fmt.Errorf("step %d save: %w", i+1, err)
		}
		outcomes[i].RunID = id
		logger.Printf("scenario %s step %d saved as %s", scenario.Name, i+1, id)
	}

	return outcomes, nil
}
