package placement

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomplanner/internal/engine/scene"
)

var wallSize = Size{Length: 2, Height: 2, Thickness: 0.2}

func TestSnap_RoundsToGridAndIsIdempotent(t *testing.T) {
	points := []mgl64.Vec3{
		{2.1, 0, -0.3},
		{0.99, 5, 1.01},
		{-3.2, 0, 7.7},
		{1, 0, -1},
	}
	for _, g := range []float64{1, 2, 0.5} {
		for _, p := range points {
			x, z := Snap(p, g)
			assert.InDelta(t, 0, math.Remainder(x, g), 1e-9)
			assert.InDelta(t, 0, math.Remainder(z, g), 1e-9)

			x2, z2 := Snap(mgl64.Vec3{x, 0, z}, g)
			assert.Equal(t, x, x2)
			assert.Equal(t, z, z2)
		}
	}

	x, z := Snap(mgl64.Vec3{2.1, 0, -0.3}, 2)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, 0.0, math.Abs(z))
}

func TestComputePlacement(t *testing.T) {
	h := ComputePlacement(2, 0, Horizontal, 2, 2)
	assert.Equal(t, mgl64.Vec3{3, 1, 0}, h.Position)
	assert.Equal(t, 0.0, h.RotationY)

	v := ComputePlacement(2, 0, Vertical, 2, 2)
	assert.Equal(t, mgl64.Vec3{2, 1, 1}, v.Position)
	assert.Equal(t, math.Pi/2, v.RotationY)
}

func TestEndpoints(t *testing.T) {
	start, end := Endpoints(2, 4, Vertical, 2)
	assert.Equal(t, mgl64.Vec3{2, 0, 4}, start)
	assert.Equal(t, mgl64.Vec3{2, 0, 6}, end)
}

func TestSegment_RecoversGridEdge(t *testing.T) {
	for _, dir := range []Direction{Horizontal, Vertical} {
		wall := NewWall(ComputePlacement(-2, 4, dir, 2, 2), wallSize)

		gotDir, start, end := Segment(wall)
		wantStart, wantEnd := Endpoints(-2, 4, dir, 2)

		assert.Equal(t, dir, gotDir)
		assert.Equal(t, wantStart, start)
		assert.Equal(t, wantEnd, end)
	}
}

func TestWallSet_RefusesOccupiedCell(t *testing.T) {
	set := NewWallSet(DefaultEpsilon)

	first := NewWall(ComputePlacement(2, 0, Horizontal, 2, 2), wallSize)
	require.NoError(t, set.Add(first))

	second := NewWall(ComputePlacement(2, 0, Horizontal, 2, 2), wallSize)
	assert.ErrorIs(t, set.Add(second), ErrOccupiedCell)
	assert.Equal(t, 1, set.Len())

	// a vertical wall at the same corner is centred elsewhere
	other := NewWall(ComputePlacement(2, 0, Vertical, 2, 2), wallSize)
	require.NoError(t, set.Add(other))

	assert.Equal(t, []*scene.Node{first, other}, set.Walls())
}

func TestWallSet_NoTwoCommittedWallsCoincide(t *testing.T) {
	set := NewWallSet(DefaultEpsilon)
	for i := 0; i < 50; i++ {
		x := float64(i%5) * 2
		z := float64(i%3) * 2
		dir := Horizontal
		if i%2 == 1 {
			dir = Vertical
		}
		_ = set.Add(NewWall(ComputePlacement(x, z, dir, 2, 2), wallSize))
	}

	walls := set.Walls()
	for i := range walls {
		for j := i + 1; j < len(walls); j++ {
			a, b := walls[i].Transform.Position, walls[j].Transform.Position
			coincide := math.Abs(a.X()-b.X()) < DefaultEpsilon && math.Abs(a.Z()-b.Z()) < DefaultEpsilon
			assert.False(t, coincide, "walls %d and %d share a cell", i, j)
		}
	}
}

func TestWallSet_RemoveAndReset(t *testing.T) {
	set := NewWallSet(0)
	wall := NewWall(ComputePlacement(0, 0, Horizontal, 2, 2), wallSize)
	require.NoError(t, set.Add(wall))

	assert.True(t, set.Contains(wall))
	assert.True(t, set.Remove(wall))
	assert.False(t, set.Remove(wall))
	assert.False(t, set.Occupied(wall.Transform.Position))

	require.NoError(t, set.Add(wall))
	set.Reset()
	assert.Zero(t, set.Len())
}

func TestConstructors_Tags(t *testing.T) {
	wall := NewWall(ComputePlacement(0, 0, Horizontal, 2, 2), wallSize)
	assert.True(t, wall.Tags.Has(scene.Wall))
	assert.NoError(t, wall.Tags.Valid())

	preview := NewPreviewWall(wallSize)
	assert.False(t, preview.Visible)
	assert.Zero(t, preview.Tags.Caps)
	assert.True(t, preview.Mesh.Material.Transparent)

	door := NewDoor(mgl64.Vec3{0.5, 0, 0.1})
	assert.True(t, door.Tags.Has(scene.Door|scene.Interactable))
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0.1}, door.Transform.Position)
}
