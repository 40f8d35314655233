package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ============================================================
// Renderable resources
// ============================================================

// Geometry is an axis-aligned box centred on the node origin. It stands in
// for the renderer's vertex buffers: the size doubles as pick bounds.
type Geometry struct {
	ID       string
	Size     mgl64.Vec3
	released bool
}

func NewBoxGeometry(width, height, depth float64) *Geometry {
	return &Geometry{
		ID:   uuid.NewString(),
		Size: mgl64.Vec3{width, height, depth},
	}
}

// Bounds returns the local-space AABB corners.
func (g *Geometry) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	half := g.Size.Mul(0.5)
	return half.Mul(-1), half
}

func (g *Geometry) Released() bool { return g.released }

// Release marks the geometry as freed. It returns false when already released.
func (g *Geometry) Release() bool {
	if g.released {
		return false
	}
	g.released = true
	return true
}

// Material carries the surface colour as 0xRRGGBB.
type Material struct {
	ID          string
	Color       uint32
	Opacity     float64
	Transparent bool
	released    bool
}

func NewMaterial(color uint32) *Material {
	return &Material{
		ID:      uuid.NewString(),
		Color:   color,
		Opacity: 1,
	}
}

func (m *Material) Released() bool { return m.released }

func (m *Material) Release() bool {
	if m.released {
		return false
	}
	m.released = true
	return true
}

// Mesh pairs a geometry with its material. Both belong to exactly one node.
type Mesh struct {
	Geometry      *Geometry
	Material      *Material
	CastShadow    bool
	ReceiveShadow bool
}

func NewMesh(geometry *Geometry, material *Material) *Mesh {
	return &Mesh{
		Geometry:      geometry,
		Material:      material,
		CastShadow:    true,
		ReceiveShadow: true,
	}
}

// Recolor sets the material colour of every mesh in the subtree of root.
func Recolor(root *Node, color uint32) {
	root.Traverse(func(n *Node) {
		if n.Mesh != nil && n.Mesh.Material != nil {
			n.Mesh.Material.Color = color
		}
	})
}
