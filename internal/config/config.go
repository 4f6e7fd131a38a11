// Package config loads run configuration from YAML and turns it into an
// engine configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eneri4/exploration-drones/internal/agents"
	"github.com/eneri4/exploration-drones/internal/design"
	"github.com/eneri4/exploration-drones/internal/engine"
	"github.com/eneri4/exploration-drones/internal/schedule"
	"github.com/eneri4/exploration-drones/internal/world"
)

// Config is the top-level dronesim.yml document.
type Config struct {
	Grid          GridConfig          `yaml:"grid"`
	Drones        DronesConfig        `yaml:"drones"`
	Movement      MovementConfig      `yaml:"movement"`
	Communication CommunicationConfig `yaml:"communication"`
	Rounds        int                 `yaml:"rounds"` // Round budget T; 0 ends the run at start
	Seed          int64               `yaml:"seed"`
}

// GridConfig sets the arena size.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DronesConfig sets the swarm size and where it launches.
type DronesConfig struct {
	Count      int        `yaml:"count"`
	Layout     string     `yaml:"layout"`              // fixed, random, corners or noise
	Positions  []Position `yaml:"positions,omitempty"` // Required for the fixed layout
	MinSpacing int        `yaml:"min_spacing,omitempty"`
}

// Position is a start cell.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// MovementConfig selects and tunes the movement policy.
type MovementConfig struct {
	Policy       string `yaml:"policy"`                 // random, ring or hold
	Trials       int    `yaml:"trials,omitempty"`       // RandomSearch attempts per move
	Neighborhood string `yaml:"neighborhood,omitempty"` // 8 (moore) or 4 (von-neumann)
	RingRadius   int    `yaml:"ring_radius,omitempty"`
	Shuffle      bool   `yaml:"shuffle,omitempty"`
}

// CommunicationConfig selects the exchange schedule.
type CommunicationConfig struct {
	Mode   string         `yaml:"mode"` // full, bibd or bibd-fast
	Design *design.Triple `yaml:"design,omitempty"`
}

// Default mirrors the reference scenario: three drones on a 10x10 grid.
func Default() *Config {
	return &Config{
		Grid: GridConfig{Width: 10, Height: 10},
		Drones: DronesConfig{
			Count:     3,
			Layout:    string(world.LayoutFixed),
			Positions: []Position{{0, 0}, {5, 2}, {2, 9}},
		},
		Movement: MovementConfig{
			Policy:       agents.PolicyRandom,
			Trials:       agents.DefaultTrials,
			Neighborhood: world.Moore.String(),
			RingRadius:   agents.DefaultRingRadius,
		},
		Communication: CommunicationConfig{
			Mode: schedule.ModeFull.String(),
		},
		Rounds: 200,
		Seed:   42,
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration. Unknown communication modes are not an
// error here; they fall back to full mesh when the engine config is built.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Drones.Count <= 0 {
		return fmt.Errorf("drones.count must be > 0, got %d", c.Drones.Count)
	}
	if c.Drones.Count > c.Grid.Width*c.Grid.Height {
		return fmt.Errorf("%d drones do not fit on a %dx%d grid", c.Drones.Count, c.Grid.Width, c.Grid.Height)
	}
	if c.Rounds < 0 {
		return fmt.Errorf("rounds must be >= 0, got %d", c.Rounds)
	}
	if c.Movement.Trials < 0 {
		return fmt.Errorf("movement.trials must be >= 0, got %d", c.Movement.Trials)
	}

	switch world.Layout(c.Drones.Layout) {
	case world.LayoutFixed:
		if len(c.Drones.Positions) != c.Drones.Count {
			return fmt.Errorf("fixed layout needs %d positions, got %d", c.Drones.Count, len(c.Drones.Positions))
		}
	case world.LayoutRandom, world.LayoutCorners, world.LayoutNoise, "":
	default:
		return fmt.Errorf("unknown drones.layout %q", c.Drones.Layout)
	}

	if _, err := agents.PolicyByName(c.Movement.Policy); err != nil {
		return err
	}
	if c.Movement.Neighborhood != "" {
		if _, err := world.ParseNeighborhood(c.Movement.Neighborhood); err != nil {
			return err
		}
	}

	mode, _ := schedule.ParseMode(c.Communication.Mode)
	if mode != schedule.ModeFull {
		t, err := c.Triple()
		if err != nil {
			return err
		}
		if t.V != c.Drones.Count {
			return fmt.Errorf("%w: design %s needs %d drones, have %d", design.ErrConfiguration, t, t.V, c.Drones.Count)
		}
	}

	return nil
}

// Triple returns the configured design parameters. Without an explicit design
// the first known design over exactly drones.count points is chosen.
func (c *Config) Triple() (design.Triple, error) {
	if d := c.Communication.Design; d != nil {
		return *d, nil
	}
	for _, t := range design.Triples() {
		if t.V == c.Drones.Count {
			return t, nil
		}
	}
	return design.Triple{}, fmt.Errorf("%w: no known block design over %d drones", design.ErrConfiguration, c.Drones.Count)
}

// Positions resolves the start cells for the configured layout.
func (c *Config) Positions() ([]world.Point, error) {
	fixed := make([]world.Point, len(c.Drones.Positions))
	for i, p := range c.Drones.Positions {
		fixed[i] = world.Pt(p.X, p.Y)
	}
	return world.Deploy(world.DeployConfig{
		Layout:     world.Layout(c.Drones.Layout),
		Positions:  fixed,
		Seed:       c.Seed,
		MinSpacing: c.Drones.MinSpacing,
	}, c.Drones.Count, c.Grid.Width, c.Grid.Height)
}

// Policy builds the configured movement policy.
func (c *Config) Policy() (agents.MovementPolicy, error) {
	p, err := agents.PolicyByName(c.Movement.Policy)
	if err != nil {
		return nil, err
	}
	switch p := p.(type) {
	case *agents.RandomSearch:
		if c.Movement.Trials > 0 {
			p.Trials = c.Movement.Trials
		}
		if c.Movement.Neighborhood != "" {
			n, err := world.ParseNeighborhood(c.Movement.Neighborhood)
			if err != nil {
				return nil, err
			}
			p.Neighborhood = n
		}
	case *agents.RingSearch:
		if c.Movement.RingRadius > 0 {
			p.MaxRadius = c.Movement.RingRadius
		}
		p.Shuffle = c.Movement.Shuffle
	}
	return p, nil
}

// Mode parses the communication mode. An unrecognised value yields full mesh
// together with the parse error so callers can warn.
func (c *Config) Mode() (schedule.Mode, error) {
	return schedule.ParseMode(c.Communication.Mode)
}

// ToEngine builds the engine configuration.
func (c *Config) ToEngine() (engine.Config, error) {
	positions, err := c.Positions()
	if err != nil {
		return engine.Config{}, err
	}
	policy, err := c.Policy()
	if err != nil {
		return engine.Config{}, err
	}

	mode, err := c.Mode()
	if err != nil {
		slog.Warn("unknown communication mode, using full mesh", "mode", c.Communication.Mode, "error", err)
	}

	var d design.Design
	if mode != schedule.ModeFull {
		t, err := c.Triple()
		if err != nil {
			return engine.Config{}, err
		}
		if d, err = design.Known(t); err != nil {
			return engine.Config{}, err
		}
	}

	return engine.Config{
		Width:     c.Grid.Width,
		Height:    c.Grid.Height,
		Positions: positions,
		Mode:      mode,
		Design:    d,
		Policy:    policy,
		Rounds:    c.Rounds,
		Seed:      c.Seed,
	}, nil
}
