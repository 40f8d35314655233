package placement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Grid snapping
// ============================================================

// Direction is the axis a wall runs along.
type Direction string

const (
	Horizontal Direction = "horizontal" // along +X
	Vertical   Direction = "vertical"   // along +Z
)

func (d Direction) Valid() bool {
	return d == Horizontal || d == Vertical
}

// Toggle returns the other direction.
func (d Direction) Toggle() Direction {
	if d == Vertical {
		return Horizontal
	}
	return Vertical
}

// Axis is the unit vector the wall's length runs along.
func (d Direction) Axis() mgl64.Vec3 {
	if d == Vertical {
		return mgl64.Vec3{0, 0, 1}
	}
	return mgl64.Vec3{1, 0, 0}
}

// Yaw is the rotation about Y that turns a box's X extent onto Axis.
func (d Direction) Yaw() float64 {
	if d == Vertical {
		return math.Pi / 2
	}
	return 0
}

// Snap rounds the planar coordinates of point to the nearest multiple of size.
func Snap(point mgl64.Vec3, size float64) (x, z float64) {
	return snap(point.X(), size), snap(point.Z(), size)
}

func snap(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	return math.Round(v/size) * size
}

// Placement is where a wall spanning one grid edge goes.
type Placement struct {
	Position  mgl64.Vec3
	RotationY float64
	Direction Direction
}

// ComputePlacement centres a wall of the given length on the grid edge that
// starts at the snapped corner (x, z) and runs in dir.
func ComputePlacement(x, z float64, dir Direction, length, wallHeight float64) Placement {
	p := Placement{Direction: dir, RotationY: dir.Yaw()}
	if dir == Vertical {
		p.Position = mgl64.Vec3{x, wallHeight / 2, z + length/2}
	} else {
		p.Position = mgl64.Vec3{x + length/2, wallHeight / 2, z}
	}
	return p
}

// Endpoints returns the floor endpoints of the grid edge from (x, z) in dir.
func Endpoints(x, z float64, dir Direction, length float64) (start, end mgl64.Vec3) {
	start = mgl64.Vec3{x, 0, z}
	end = start.Add(dir.Axis().Mul(length))
	return start, end
}
