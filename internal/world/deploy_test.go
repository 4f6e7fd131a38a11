package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDistinctInBounds(t *testing.T, pts []Point, w, h int) {
	t.Helper()
	seen := make(map[Point]bool)
	for _, p := range pts {
		assert.True(t, p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h, "out of bounds %s", p)
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
	}
}

func TestDeploy_Fixed(t *testing.T) {
	pts, err := Deploy(DeployConfig{
		Layout:    LayoutFixed,
		Positions: []Point{Pt(0, 0), Pt(5, 2), Pt(2, 9)},
	}, 3, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, []Point{Pt(0, 0), Pt(5, 2), Pt(2, 9)}, pts)

	_, err = Deploy(DeployConfig{Layout: LayoutFixed, Positions: []Point{Pt(10, 0)}}, 1, 10, 10)
	assert.Error(t, err)
	_, err = Deploy(DeployConfig{Layout: LayoutFixed, Positions: []Point{Pt(1, 1), Pt(1, 1)}}, 2, 10, 10)
	assert.Error(t, err)
	_, err = Deploy(DeployConfig{Layout: LayoutFixed, Positions: []Point{Pt(1, 1)}}, 2, 10, 10)
	assert.Error(t, err)
}

func TestDeploy_RandomIsSeeded(t *testing.T) {
	a, err := Deploy(DeployConfig{Layout: LayoutRandom, Seed: 5}, 7, 10, 10)
	require.NoError(t, err)
	b, err := Deploy(DeployConfig{Layout: LayoutRandom, Seed: 5}, 7, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assertDistinctInBounds(t, a, 10, 10)
}

func TestDeploy_Noise(t *testing.T) {
	pts, err := Deploy(DeployConfig{Layout: LayoutNoise, Seed: 42, MinSpacing: 3}, 7, 12, 12)
	require.NoError(t, err)
	assert.Len(t, pts, 7)
	assertDistinctInBounds(t, pts, 12, 12)

	// A full grid forces the spacing down to zero.
	pts, err = Deploy(DeployConfig{Layout: LayoutNoise, Seed: 1, MinSpacing: 4}, 9, 3, 3)
	require.NoError(t, err)
	assert.Len(t, pts, 9)
	assertDistinctInBounds(t, pts, 3, 3)
}

func TestDeploy_Errors(t *testing.T) {
	_, err := Deploy(DeployConfig{Layout: LayoutRandom}, 5, 2, 2)
	assert.Error(t, err)
	_, err = Deploy(DeployConfig{Layout: "spiral"}, 1, 2, 2)
	assert.Error(t, err)
}

func TestDeploy_Corners(t *testing.T) {
	pts, err := Deploy(DeployConfig{Layout: LayoutCorners, Seed: 3}, 6, 10, 8)
	require.NoError(t, err)
	require.Len(t, pts, 6)
	assert.Equal(t, []Point{Pt(0, 0), Pt(9, 7), Pt(9, 0), Pt(0, 7)}, pts[:4])
	assertDistinctInBounds(t, pts, 10, 8)

	// A single column collapses corners onto each other.
	pts, err = Deploy(DeployConfig{Layout: LayoutCorners}, 3, 1, 3)
	require.NoError(t, err)
	assertDistinctInBounds(t, pts, 1, 3)
}
