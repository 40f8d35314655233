package editor

import (
	"context"

	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

// ============================================================
// UI commands
// ============================================================

// EnableWallMode enters WallPlacement, cancelling remove mode and any
// drag or rotate in progress.
func (e *Editor) EnableWallMode() error {
	if e.viewOnly {
		return ErrViewOnly
	}
	e.endManipulation()
	e.setMode(WallPlacement)
	e.refreshPreview()
	return nil
}

// DisableWallMode returns to Idle when wall placement is active.
func (e *Editor) DisableWallMode() {
	if e.mode != WallPlacement {
		return
	}
	e.preview.Visible = false
	e.setMode(Idle)
}

// ToggleWallMode flips wall placement and reports whether it is now on.
func (e *Editor) ToggleWallMode() (bool, error) {
	if e.mode == WallPlacement {
		e.DisableWallMode()
		return false, nil
	}
	if err := e.EnableWallMode(); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleRemoveMode flips remove mode and reports whether it is now on.
// Entering it cancels wall placement.
func (e *Editor) ToggleRemoveMode() (bool, error) {
	if e.viewOnly {
		return false, ErrViewOnly
	}
	if e.mode == Removing {
		e.setMode(Idle)
		return false, nil
	}
	e.endManipulation()
	e.preview.Visible = false
	e.setMode(Removing)
	return true, nil
}

// SwitchWallDirection flips between horizontal and vertical walls and
// re-evaluates the preview at the last snapped cell.
func (e *Editor) SwitchWallDirection() placement.Direction {
	e.direction = e.direction.Toggle()
	if e.mode == WallPlacement {
		e.refreshPreview()
	}
	return e.direction
}

// EnterViewOnly switches to the read-only presentation mode for good.
func (e *Editor) EnterViewOnly() {
	e.endManipulation()
	e.preview.Visible = false
	e.viewOnly = true
	e.setMode(ViewOnly)
}

// AddFurniture builds a furniture item and drops it at the spawn point.
// A failed load adds nothing.
func (e *Editor) AddFurniture(ctx context.Context, kind scene.Kind) (*scene.Node, error) {
	if e.viewOnly {
		return nil, ErrViewOnly
	}
	node, err := e.library.Load(ctx, kind)
	if err != nil {
		e.log.Warn().Err(err).Str("kind", string(kind)).Msg("furniture not added")
		return nil, err
	}
	node.Transform.Position = e.cfg.SpawnPoint
	e.root.Add(node)
	e.log.Info().Str("kind", string(kind)).Str("id", node.ID).Msg("furniture added")
	return node, nil
}

// UpdateDoorPreview puts the preview door on the wall under the pointer,
// turned to match it. It is hidden when no wall is hit, and again by the
// next pointer down, mode change or placed door.
func (e *Editor) UpdateDoorPreview(ev PointerEvent) bool {
	e.doorPreview.Visible = false
	if e.viewOnly {
		return false
	}
	hit, ok := e.picker.Pick(ev.pointer(), e.walls.Walls(), scene.HasCapability(scene.Wall))
	if !ok {
		return false
	}
	e.doorPreview.Transform.Position = hit.Point
	e.doorPreview.Transform.Rotation = hit.Node.Transform.Rotation
	e.doorPreview.Visible = true
	return true
}

// PlaceDoor attaches a door to the wall under the pointer, in the wall's
// local frame.
func (e *Editor) PlaceDoor(ev PointerEvent) (*scene.Node, bool) {
	e.doorPreview.Visible = false
	if e.viewOnly {
		return nil, false
	}
	hit, ok := e.picker.Pick(ev.pointer(), e.walls.Walls(), scene.HasCapability(scene.Wall))
	if !ok {
		return nil, false
	}
	wall := hit.Node
	local := wall.WorldToLocal(hit.Point)

	door := placement.NewDoor(local)
	wall.Add(door)
	door.Transform.Position = local

	e.log.Info().Str("wall", wall.ID).Str("door", door.ID).Msg("door placed")
	return door, true
}

// Reset clears every tagged node, keeping the floor and the preview.
func (e *Editor) Reset() {
	e.endManipulation()
	n := e.res.Clear(e.root)
	e.walls.Reset()
	e.preview.Visible = false
	e.doorPreview.Visible = false
	e.hasCell = false
	e.log.Info().Int("disposed", n).Msg("scene reset")
}

// refreshPreview shows the preview at the last snapped cell when that cell
// is free.
func (e *Editor) refreshPreview() {
	if !e.hasCell {
		e.preview.Visible = false
		return
	}
	p := e.placementAt(e.cell[0], e.cell[1])
	if e.walls.Occupied(p.Position) {
		e.preview.Visible = false
		return
	}
	placement.Apply(e.preview, p)
	e.preview.Visible = true
}

func (e *Editor) placementAt(x, z float64) placement.Placement {
	return placement.ComputePlacement(x, z, e.direction, e.cfg.GridSize, e.cfg.WallHeight)
}
