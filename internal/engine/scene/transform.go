package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Transform
// ============================================================

// RotationOrder is the Euler axis order, written the way the scene
// documents store it ("XYZ", "YXZ", ...).
type RotationOrder string

const (
	OrderXYZ RotationOrder = "XYZ"
	OrderXZY RotationOrder = "XZY"
	OrderYXZ RotationOrder = "YXZ"
	OrderYZX RotationOrder = "YZX"
	OrderZXY RotationOrder = "ZXY"
	OrderZYX RotationOrder = "ZYX"
)

// Valid reports whether o is one of the six Tait-Bryan orders.
func (o RotationOrder) Valid() bool {
	switch o {
	case OrderXYZ, OrderXZY, OrderYXZ, OrderYZX, OrderZXY, OrderZYX:
		return true
	}
	return false
}

func (o RotationOrder) mgl() mgl64.RotationOrder {
	switch o {
	case OrderXZY:
		return mgl64.XZY
	case OrderYXZ:
		return mgl64.YXZ
	case OrderYZX:
		return mgl64.YZX
	case OrderZXY:
		return mgl64.ZXY
	case OrderZYX:
		return mgl64.ZYX
	default:
		return mgl64.XYZ
	}
}

// Euler holds per-axis angles in radians plus the order they compose in.
// The angles are always stored per axis; Order only changes composition.
type Euler struct {
	X     float64
	Y     float64
	Z     float64
	Order RotationOrder
}

// Quat composes the angles in Order (first axis outermost).
func (e Euler) Quat() mgl64.Quat {
	order := e.Order
	if !order.Valid() {
		order = OrderXYZ
	}
	angle := func(axis byte) float64 {
		switch axis {
		case 'X':
			return e.X
		case 'Y':
			return e.Y
		default:
			return e.Z
		}
	}
	return mgl64.AnglesToQuat(angle(order[0]), angle(order[1]), angle(order[2]), order.mgl())
}

// Transform is a node's local TRS.
type Transform struct {
	Position mgl64.Vec3
	Rotation Euler
	Scale    mgl64.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Rotation: Euler{Order: OrderXYZ},
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Matrix returns T * R * S.
func (t Transform) Matrix() mgl64.Mat4 {
	tr := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	sc := mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return tr.Mul4(t.Rotation.Quat().Mat4()).Mul4(sc)
}
