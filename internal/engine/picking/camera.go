package picking

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Viewport & Cameras
// ============================================================

// Viewport is the on-screen rectangle of the canvas, in pixels.
type Viewport struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NDC maps pixel coordinates to normalized device coordinates (-1..1, y up).
func (v Viewport) NDC(x, y float64) mgl64.Vec2 {
	if v.Width <= 0 || v.Height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		((x-v.Left)/v.Width)*2 - 1,
		-((y-v.Top)/v.Height)*2 + 1,
	}
}

// Camera is the projection collaborator used for ray casting.
type Camera interface {
	ViewProjection() mgl64.Mat4
}

// PerspectiveCamera mirrors the editor's default orbit camera.
type PerspectiveCamera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FovY     float64 // degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewPerspectiveCamera returns a camera at (8,8,8) looking at the origin.
func NewPerspectiveCamera(aspect float64) *PerspectiveCamera {
	return &PerspectiveCamera{
		Position: mgl64.Vec3{8, 8, 8},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     75,
		Aspect:   aspect,
		Near:     0.1,
		Far:      1000,
	}
}

func (c *PerspectiveCamera) ViewProjection() mgl64.Mat4 {
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	return proj.Mul4(mgl64.LookAtV(c.Position, c.Target, c.Up))
}

// OrthographicCamera is used for top-down plan views.
type OrthographicCamera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	Left     float64
	Right    float64
	Bottom   float64
	Top      float64
	Near     float64
	Far      float64
}

// NewTopDownCamera looks straight down at the floor, showing halfExtent
// world units on every side of the origin. Screen up maps to -Z.
func NewTopDownCamera(halfExtent, height float64) *OrthographicCamera {
	return &OrthographicCamera{
		Position: mgl64.Vec3{0, height, 0},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mgl64.Vec3{0, 0, -1},
		Left:     -halfExtent,
		Right:    halfExtent,
		Bottom:   -halfExtent,
		Top:      halfExtent,
		Near:     0.1,
		Far:      height * 2,
	}
}

func (c *OrthographicCamera) ViewProjection() mgl64.Mat4 {
	proj := mgl64.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
	return proj.Mul4(mgl64.LookAtV(c.Position, c.Target, c.Up))
}
