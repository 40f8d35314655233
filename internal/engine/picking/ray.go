package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Ray
// ============================================================

const parallelEpsilon = 1e-9

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// RayFromNDC unprojects the near and far clip points through the camera.
func RayFromNDC(cam Camera, ndc mgl64.Vec2) Ray {
	inv := cam.ViewProjection().Inv()

	near := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 1, 1})
	if near.W() != 0 {
		near = near.Mul(1 / near.W())
	}
	if far.W() != 0 {
		far = far.Mul(1 / far.W())
	}

	origin := near.Vec3()
	dir := far.Vec3().Sub(origin)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: origin, Direction: dir}
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlaneY intersects the horizontal plane y = height.
func (r Ray) IntersectPlaneY(height float64) (mgl64.Vec3, bool) {
	if math.Abs(r.Direction.Y()) < parallelEpsilon {
		return mgl64.Vec3{}, false
	}
	t := (height - r.Origin.Y()) / r.Direction.Y()
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}

// intersectBox is the slab test for origin + t*dir against [min, max].
// dir need not be normalized; t is returned in units of dir.
func intersectBox(origin, dir, min, max mgl64.Vec3) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		if math.Abs(d) < parallelEpsilon {
			if o < min[axis] || o > max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (min[axis] - o) / d
		t2 := (max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
