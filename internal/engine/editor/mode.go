package editor

import (
	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/engine/picking"
	"roomplanner/internal/engine/placement"
)

// Mode is the single live interaction mode.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Rotating
	WallPlacement
	Removing
	Booking
	ViewOnly
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Rotating:
		return "rotating"
	case WallPlacement:
		return "wall-placement"
	case Removing:
		return "removing"
	case Booking:
		return "booking"
	case ViewOnly:
		return "view-only"
	}
	return "unknown"
}

// Button follows the DOM numbering.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonAuxiliary Button = 1
	ButtonSecondary Button = 2
)

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// PointerEvent is a pointer sample in canvas pixels.
type PointerEvent struct {
	X      float64
	Y      float64
	Button Button
	Mods   Modifiers
}

func (ev PointerEvent) pointer() picking.Pointer {
	return picking.Pointer{X: ev.X, Y: ev.Y}
}

// rotateGesture is a secondary-button press or Shift held.
func (ev PointerEvent) rotateGesture() bool {
	return ev.Button == ButtonSecondary || ev.Mods&ModShift != 0
}

// Status is a read-only snapshot for the UI shell.
type Status struct {
	Mode           Mode
	ViewOnly       bool
	Direction      placement.Direction
	PreviewVisible bool
	PreviewAt      mgl64.Vec3
	Walls          int
	Furniture      int
	Selected       string
}
