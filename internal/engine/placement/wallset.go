package placement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/engine/scene"
)

// Occupied reports whether any wall sits within eps of pos on both X and Z.
// Height and orientation are ignored.
func Occupied(pos mgl64.Vec3, walls []*scene.Node, eps float64) bool {
	for _, w := range walls {
		p := w.Transform.Position
		if math.Abs(p.X()-pos.X()) < eps && math.Abs(p.Z()-pos.Z()) < eps {
			return true
		}
	}
	return false
}

// WallSet is the ordered list of committed walls.
type WallSet struct {
	eps   float64
	walls []*scene.Node
}

func NewWallSet(eps float64) *WallSet {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	return &WallSet{eps: eps}
}

func (s *WallSet) Occupied(pos mgl64.Vec3) bool {
	return Occupied(pos, s.walls, s.eps)
}

// Add commits wall unless its cell is already taken.
func (s *WallSet) Add(wall *scene.Node) error {
	if s.Occupied(wall.Transform.Position) {
		return ErrOccupiedCell
	}
	s.walls = append(s.walls, wall)
	return nil
}

func (s *WallSet) Remove(wall *scene.Node) bool {
	for i, w := range s.walls {
		if w == wall {
			s.walls = append(s.walls[:i], s.walls[i+1:]...)
			return true
		}
	}
	return false
}

func (s *WallSet) Contains(wall *scene.Node) bool {
	for _, w := range s.walls {
		if w == wall {
			return true
		}
	}
	return false
}

func (s *WallSet) Reset() { s.walls = nil }

func (s *WallSet) Len() int { return len(s.walls) }

// Walls returns the committed walls in creation order.
func (s *WallSet) Walls() []*scene.Node {
	out := make([]*scene.Node, len(s.walls))
	copy(out, s.walls)
	return out
}
