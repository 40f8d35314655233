package editor

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

// ============================================================
// Pointer input
// ============================================================

func (e *Editor) PointerMove(ev PointerEvent) {
	switch e.mode {
	case WallPlacement:
		e.updatePreview(ev)
	case Dragging:
		e.drag(ev)
	case Rotating:
		e.rotate(ev)
	}
}

func (e *Editor) PointerDown(ev PointerEvent) {
	e.doorPreview.Visible = false
	switch e.mode {
	case ViewOnly:
		e.book(ev)
	case WallPlacement:
		e.commitWall(ev)
	case Removing:
		e.remove(ev)
	case Idle:
		e.selectForManipulation(ev)
	}
}

// PointerUp ends a drag or rotate.
func (e *Editor) PointerUp(PointerEvent) {
	e.endManipulation()
}

// ------------------------------------------------------------
// Wall placement
// ------------------------------------------------------------

func (e *Editor) floorHit(ev PointerEvent) (mgl64.Vec3, bool) {
	hits := e.picker.Intersect(e.picker.Ray(ev.pointer()), []*scene.Node{e.floor})
	if len(hits) == 0 {
		return mgl64.Vec3{}, false
	}
	return hits[0].Point, true
}

func (e *Editor) updatePreview(ev PointerEvent) {
	point, ok := e.floorHit(ev)
	if !ok {
		return
	}
	x, z := placement.Snap(point, e.cfg.GridSize)
	e.cell = [2]float64{x, z}
	e.hasCell = true
	e.refreshPreview()
}

func (e *Editor) commitWall(ev PointerEvent) {
	if ev.Button != ButtonPrimary || !e.preview.Visible {
		return
	}
	if _, ok := e.floorHit(ev); !ok {
		return
	}

	wall := placement.NewWall(e.placementAt(e.cell[0], e.cell[1]), e.cfg.wallSize())
	if err := e.walls.Add(wall); err != nil {
		if errors.Is(err, placement.ErrOccupiedCell) {
			e.log.Debug().Floats64("cell", e.cell[:]).Msg("cell occupied")
		}
		return
	}
	e.root.Add(wall)
	e.preview.Visible = false
	e.log.Info().Str("id", wall.ID).Str("direction", string(e.direction)).Msg("wall committed")
}

// ------------------------------------------------------------
// Removal
// ------------------------------------------------------------

var removable = scene.AnyOf(
	scene.HasCapability(scene.Wall),
	scene.HasCapability(scene.Movable),
	scene.IsFurniture(),
)

func (e *Editor) remove(ev PointerEvent) {
	hit, ok := e.picker.Pick(ev.pointer(), []*scene.Node{e.root}, removable)
	if !ok {
		return
	}
	node := hit.Node
	e.walls.Remove(node)
	n := e.res.Dispose(node)
	e.log.Info().Str("id", node.ID).Int("disposed", n).Msg("object removed")
}

// ------------------------------------------------------------
// Drag & rotate
// ------------------------------------------------------------

func (e *Editor) selectForManipulation(ev PointerEvent) {
	hit, ok := e.picker.PickNearest(ev.pointer(), []*scene.Node{e.root}, scene.HasCapability(scene.Movable))
	if !ok {
		return
	}
	node := hit.Node

	if ev.rotateGesture() && node.Tags.Has(scene.Rotatable) {
		e.selected = node
		e.lastPointer = ev
		e.orbit.SetEnabled(false)
		e.setMode(Rotating)
		return
	}

	ground, ok := e.picker.Ray(ev.pointer()).IntersectPlaneY(0)
	if !ok {
		ground = hit.Point
	}
	node.Transform.Position[1] = e.cfg.DragHeight
	e.dragOffset = node.Transform.Position.Sub(ground)
	e.selected = node
	e.orbit.SetEnabled(false)
	e.setMode(Dragging)
}

func (e *Editor) drag(ev PointerEvent) {
	if e.selected == nil {
		return
	}
	ground, ok := e.picker.Ray(ev.pointer()).IntersectPlaneY(0)
	if !ok {
		return
	}
	pos := ground.Add(e.dragOffset)
	pos[1] = e.cfg.DragHeight
	e.selected.Transform.Position = pos
}

func (e *Editor) rotate(ev PointerEvent) {
	if e.selected == nil {
		return
	}
	dx := ev.X - e.lastPointer.X
	e.selected.Transform.Rotation.Y += dx * e.cfg.RotateSensitivity
	e.lastPointer = ev
}

// ------------------------------------------------------------
// Booking
// ------------------------------------------------------------

func (e *Editor) book(ev PointerEvent) {
	hit, ok := e.picker.PickNearest(ev.pointer(), []*scene.Node{e.root}, scene.IsBookable())
	if !ok {
		return
	}
	node := hit.Node
	if node.Tags.Has(scene.Booked) {
		return
	}

	e.setMode(Booking)
	node.Tags.Set(scene.Booked)
	node.Tags.BookedAt = e.now()
	scene.Recolor(node, e.cfg.BookedColor)
	e.log.Info().Str("id", node.ID).Str("kind", string(node.Tags.Kind)).Msg("booked")
	e.shell.Notify(Notice{Level: NoticeSuccess, Message: fmt.Sprintf("%s Booked!", node.Tags.Kind.Label())})
	e.setMode(ViewOnly)
}
