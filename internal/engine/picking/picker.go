package picking

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/engine/scene"
)

// ============================================================
// Picker
// ============================================================

// Pointer is a pointer position in canvas pixels.
type Pointer struct {
	X float64
	Y float64
}

// Hit is a ray/mesh intersection.
type Hit struct {
	Mesh     *scene.Node
	Point    mgl64.Vec3
	Distance float64
}

// Result is a hit resolved to the ancestor that matched the predicate.
type Result struct {
	Node *scene.Node
	Hit
}

// Picker turns pointer positions into rays and scene hits.
type Picker struct {
	Camera   Camera
	Viewport Viewport
}

func New(camera Camera, viewport Viewport) *Picker {
	return &Picker{Camera: camera, Viewport: viewport}
}

func (p *Picker) Ray(ptr Pointer) Ray {
	return RayFromNDC(p.Camera, p.Viewport.NDC(ptr.X, ptr.Y))
}

// Intersect returns every visible mesh under the ray inside roots, nearest
// first. Equal distances keep traversal order.
func (p *Picker) Intersect(ray Ray, roots []*scene.Node) []Hit {
	var hits []Hit
	for _, root := range roots {
		if root == nil {
			continue
		}
		root.Walk(func(n *scene.Node) bool {
			if !n.Visible {
				return false
			}
			if n.Mesh == nil || n.Mesh.Geometry == nil {
				return true
			}
			if hit, ok := intersectMesh(ray, n); ok {
				hits = append(hits, hit)
			}
			return true
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// Pick returns the nearest hit whose ancestor chain satisfies pred.
func (p *Picker) Pick(ptr Pointer, roots []*scene.Node, pred scene.Predicate) (Result, bool) {
	return p.PickRay(p.Ray(ptr), roots, pred)
}

// PickRay is Pick for an already computed ray.
func (p *Picker) PickRay(ray Ray, roots []*scene.Node, pred scene.Predicate) (Result, bool) {
	for _, hit := range p.Intersect(ray, roots) {
		if node := scene.NearestAncestor(hit.Mesh, pred); node != nil {
			return Result{Node: node, Hit: hit}, true
		}
	}
	return Result{}, false
}

func intersectMesh(ray Ray, n *scene.Node) (Hit, bool) {
	inv := n.WorldMatrix().Inv()
	origin := inv.Mul4x1(ray.Origin.Vec4(1)).Vec3()
	dir := inv.Mul4x1(ray.Direction.Vec4(0)).Vec3()

	min, max := n.Mesh.Geometry.Bounds()
	t, ok := intersectBox(origin, dir, min, max)
	if !ok {
		return Hit{}, false
	}
	return Hit{Mesh: n, Point: ray.At(t), Distance: t}, true
}

// PickNearest resolves only the nearest hit: an occluding non-matching mesh
// means no result.
func (p *Picker) PickNearest(ptr Pointer, roots []*scene.Node, pred scene.Predicate) (Result, bool) {
	hits := p.Intersect(p.Ray(ptr), roots)
	if len(hits) == 0 {
		return Result{}, false
	}
	if node := scene.NearestAncestor(hits[0].Mesh, pred); node != nil {
		return Result{Node: node, Hit: hits[0]}, true
	}
	return Result{}, false
}
