package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eneri4/exploration-drones/internal/persistence"
	"github.com/eneri4/exploration-drones/internal/printer"
)

// execute runs the real root command with args and captures everything it prints.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var buf bytes.Buffer
	prevOut, prevErr := printer.Out, printer.Err
	printer.Out, printer.Err = &buf, &buf
	t.Cleanup(func() { printer.Out, printer.Err = prevOut, prevErr })

	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	rootCmd.SetArgs(args)
	err := Execute()
	return buf.String(), err
}

func TestRoot_ShowsHelp(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "dronesim")
}

func TestRoot_RejectsUnknownFlags(t *testing.T) {
	_, err := execute(t, "--speed", "9")
	assert.Error(t, err)
}

func TestDesign_Shows731(t *testing.T) {
	out, err := execute(t, "design", "--v", "7", "--k", "3", "--lambda", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Design (7,3,1): r=3 b=7")
	assert.Contains(t, out, "{0, 1, 3}")
	assert.Contains(t, out, "every pair meets in exactly 1 block(s)")
}

func TestDesign_Unknown(t *testing.T) {
	out, err := execute(t, "design", "--v", "9", "--k", "3", "--lambda", "1")
	assert.Error(t, err)
	assert.Contains(t, out, "design not available")
}

func TestEnergy_SameK(t *testing.T) {
	out, err := execute(t, "energy", "--set", "same-k")
	require.NoError(t, err)
	assert.Contains(t, out, "(7,3,1)")
	assert.Contains(t, out, "(33,3,1)")
	assert.Contains(t, out, "157.5")
	assert.Contains(t, out, "275.1")
}

func TestFormatEnergy_Rounds(t *testing.T) {
	assert.Equal(t, "275.1", formatEnergy((1.4+1.0+5*0.83)*42))
	assert.Equal(t, "157.5", formatEnergy(157.5))
	assert.Equal(t, "1,234.57", formatEnergy(1234.567))
	assert.Equal(t, "42", formatEnergy(42))
}

func TestEnergy_UnknownSet(t *testing.T) {
	out, err := execute(t, "energy", "--set", "triangles")
	assert.Error(t, err)
	assert.Contains(t, out, "Valid sets: same-k, sample")
}

func TestRunThenList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "run", "--rounds", "5", "--mode", "gossip", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "unknown communication mode")
	assert.Contains(t, out, "Run finished: round-budget")
	assert.Contains(t, out, "mode:          full")
	assert.Contains(t, out, "run saved as")

	db, err := persistence.Open(dbPath)
	require.NoError(t, err)
	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Len(t, runs, 1)
	assert.Equal(t, 5, runs[0].Rounds)

	out, err = execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].ID)
	assert.Contains(t, out, "round-budget")

	out, err = execute(t, "runs", "--db", dbPath, "--id", runs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "transmits")
}
