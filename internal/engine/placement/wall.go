package placement

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/engine/scene"
)

// ============================================================
// Walls & doors
// ============================================================

// DefaultEpsilon is the planar distance under which two walls share a cell.
const DefaultEpsilon = 0.1

var ErrOccupiedCell = errors.New("grid cell already has a wall")

const (
	wallColor    uint32 = 0x8b8b8b
	previewColor uint32 = 0x00ff00
	doorColor    uint32 = 0x8b4513
)

// Door box size.
var DoorSize = mgl64.Vec3{0.8, 2, 0.1}

// Size is a wall box: Length along the wall, Height, Thickness across it.
type Size struct {
	Length    float64
	Height    float64
	Thickness float64
}

// NewWall builds a committed wall at p.
func NewWall(p Placement, size Size) *scene.Node {
	mesh := scene.NewMesh(
		scene.NewBoxGeometry(size.Length, size.Height, size.Thickness),
		scene.NewMaterial(wallColor),
	)
	wall := scene.NewMeshNode("wall", mesh)
	wall.Transform.Position = p.Position
	wall.Transform.Rotation.Y = p.RotationY
	wall.Tags.Set(scene.Wall)
	return wall
}

// NewPreviewWall builds the translucent placement preview. It is hidden and
// carries no capabilities so it is never picked or serialized.
func NewPreviewWall(size Size) *scene.Node {
	mat := scene.NewMaterial(previewColor)
	mat.Transparent = true
	mat.Opacity = 0.5

	mesh := scene.NewMesh(scene.NewBoxGeometry(size.Length, size.Height, size.Thickness), mat)
	mesh.CastShadow = false
	mesh.ReceiveShadow = false

	preview := scene.NewMeshNode("wall-preview", mesh)
	preview.Visible = false
	return preview
}

// NewPreviewDoor builds the translucent door that follows the pointer over
// walls. Like the wall preview it starts hidden and carries no tags.
func NewPreviewDoor() *scene.Node {
	mat := scene.NewMaterial(doorColor)
	mat.Transparent = true
	mat.Opacity = 0.5

	mesh := scene.NewMesh(scene.NewBoxGeometry(DoorSize.X(), DoorSize.Y(), DoorSize.Z()), mat)
	mesh.CastShadow = false
	mesh.ReceiveShadow = false

	preview := scene.NewMeshNode("door-preview", mesh)
	preview.Visible = false
	return preview
}

// Apply moves an existing node (usually the preview) onto p.
func Apply(n *scene.Node, p Placement) {
	n.Transform.Position = p.Position
	n.Transform.Rotation.Y = p.RotationY
}

// NewDoor builds a door for attaching to a wall. local is in the wall's frame.
func NewDoor(local mgl64.Vec3) *scene.Node {
	door := scene.NewMeshNode("door", scene.NewMesh(
		scene.NewBoxGeometry(DoorSize.X(), DoorSize.Y(), DoorSize.Z()),
		scene.NewMaterial(doorColor),
	))
	door.Transform.Position = local
	door.Tags.Set(scene.Door | scene.Interactable)
	return door
}

// Segment recovers direction and floor endpoints from a wall node's
// transform and geometry. Start is the endpoint with the smaller X, then Z.
func Segment(wall *scene.Node) (dir Direction, start, end mgl64.Vec3) {
	length := 0.0
	if wall.Mesh != nil && wall.Mesh.Geometry != nil {
		length = wall.Mesh.Geometry.Size.X() * wall.Transform.Scale.X()
	}

	yaw := wall.Transform.Rotation.Y
	axis := mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}
	dir = Horizontal
	if math.Abs(axis.Z()) > math.Abs(axis.X()) {
		dir = Vertical
	}

	center := wall.Transform.Position
	center[1] = 0
	half := axis.Mul(length / 2)
	start, end = roundVec(center.Sub(half)), roundVec(center.Add(half))
	if end.X() < start.X() || (end.X() == start.X() && end.Z() < start.Z()) {
		start, end = end, start
	}
	return dir, start, end
}

// roundVec drops float noise from trigonometry so grid endpoints stay exact.
func roundVec(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		v[i] = math.Round(v[i]*1e9) / 1e9
	}
	return v
}
