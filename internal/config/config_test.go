package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eneri4/exploration-drones/internal/agents"
	"github.com/eneri4/exploration-drones/internal/design"
	"github.com/eneri4/exploration-drones/internal/schedule"
	"github.com/eneri4/exploration-drones/internal/world"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dronesim.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	ec, err := cfg.ToEngine()
	require.NoError(t, err)
	assert.Equal(t, 10, ec.Width)
	assert.Equal(t, 10, ec.Height)
	assert.Equal(t, []world.Point{world.Pt(0, 0), world.Pt(5, 2), world.Pt(2, 9)}, ec.Positions)
	assert.Equal(t, schedule.ModeFull, ec.Mode)
	assert.Equal(t, int64(42), ec.Seed)

	rs, ok := ec.Policy.(*agents.RandomSearch)
	require.True(t, ok)
	assert.Equal(t, agents.DefaultTrials, rs.Trials)
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
grid:
  width: 20
  height: 20
drones:
  count: 7
  layout: random
movement:
  policy: ring
  ring_radius: 3
  shuffle: true
communication:
  mode: bibd-fast
  design: {v: 7, k: 3, lambda: 1}
rounds: 50
seed: 9
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Drones.Count)
	assert.Equal(t, 50, cfg.Rounds)

	ec, err := cfg.ToEngine()
	require.NoError(t, err)
	assert.Equal(t, schedule.ModeBIBDFast, ec.Mode)
	assert.Equal(t, 7, ec.Design.Size())
	assert.Len(t, ec.Positions, 7)

	ring, ok := ec.Policy.(*agents.RingSearch)
	require.True(t, ok)
	assert.Equal(t, 3, ring.MaxRadius)
	assert.True(t, ring.Shuffle)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "rounds: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Rounds)
	assert.Equal(t, 10, cfg.Grid.Width)
	assert.Equal(t, 3, cfg.Drones.Count)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/dronesim.yml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "grid:\n  - not\n    a map\n"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_InvalidConfiguration(t *testing.T) {
	cfg, err := Load(writeConfig(t, "grid: {width: 0, height: 4}\n"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"no drones", func(c *Config) { c.Drones.Count = 0 }, "drones.count"},
		{"too many drones", func(c *Config) { c.Drones.Count = 101; c.Drones.Layout = "random" }, "do not fit"},
		{"negative rounds", func(c *Config) { c.Rounds = -1 }, "rounds"},
		{"fixed without positions", func(c *Config) { c.Drones.Positions = nil }, "fixed layout"},
		{"unknown layout", func(c *Config) { c.Drones.Layout = "spiral" }, "drones.layout"},
		{"unknown policy", func(c *Config) { c.Movement.Policy = "teleport" }, "movement policy"},
		{"bad neighborhood", func(c *Config) { c.Movement.Neighborhood = "6" }, "neighborhood"},
		{"no design over v", func(c *Config) { c.Communication.Mode = "bibd" }, "no known block design"},
		{"design over wrong v", func(c *Config) {
			c.Communication.Mode = "bibd"
			c.Communication.Design = &design.Triple{V: 7, K: 3, Lambda: 1}
		}, "needs 7 drones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestUnknownModeFallsBackToFull(t *testing.T) {
	cfg := Default()
	cfg.Communication.Mode = "gossip"
	require.NoError(t, cfg.Validate())

	mode, err := cfg.Mode()
	assert.ErrorIs(t, err, schedule.ErrUnknownMode)
	assert.Equal(t, schedule.ModeFull, mode)

	ec, err := cfg.ToEngine()
	require.NoError(t, err)
	assert.Equal(t, schedule.ModeFull, ec.Mode)
}

func TestTriple_PicksKnownDesignForCount(t *testing.T) {
	cfg := Default()
	cfg.Grid = GridConfig{Width: 30, Height: 30}
	cfg.Drones = DronesConfig{Count: 13, Layout: "noise"}
	cfg.Communication.Mode = "bibd"
	require.NoError(t, cfg.Validate())

	tr, err := cfg.Triple()
	require.NoError(t, err)
	assert.Equal(t, design.Triple{V: 13, K: 3, Lambda: 1}, tr)

	ec, err := cfg.ToEngine()
	require.NoError(t, err)
	assert.Equal(t, 26, ec.Design.Size())
}
