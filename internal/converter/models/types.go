package models

// ============================================================
// SVG Elements
// ============================================================

type ElementKind string

const (
	KindWall   ElementKind = "wall"
	KindDoor   ElementKind = "door"
	KindWindow ElementKind = "window"
	KindRoom   ElementKind = "room"
)

// Element is a classified shape from the plan.
type Element struct {
	ID       string
	Kind     ElementKind
	Geometry any // RectGeometry or PathGeometry
}

type RectGeometry struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type PathGeometry struct {
	D string
}

// ============================================================
// Geometry primitives
// ============================================================

// Point is a plan coordinate. After conversion Y holds world Z.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a wall centre line in plan pixels.
type Segment struct {
	SourceID string
	A        Point
	B        Point
}

// Edge is one grid-length wall in world units.
type Edge struct {
	SourceID  string
	Direction string // "horizontal" or "vertical"
	Start     Point
	End       Point
}

// Opening is a door or window centre in world units.
type Opening struct {
	ID     string
	Kind   ElementKind
	Center Point
}

// ============================================================
// Conversion settings & report
// ============================================================

// DefaultMaxEdges bounds the wall edges one plan may produce.
const DefaultMaxEdges = 10000

type Options struct {
	UnitsPerPixel float64 // world metres per plan pixel
	GridSize      float64
	WallHeight    float64
	WallThickness float64
	// MaxEdges caps grid edges per plan, counted before deduplication.
	// Zero means DefaultMaxEdges.
	MaxEdges int
}

func DefaultOptions() Options {
	return Options{
		UnitsPerPixel: 0.01,
		GridSize:      2,
		WallHeight:    2,
		WallThickness: 0.2,
		MaxEdges:      DefaultMaxEdges,
	}
}

// Report summarizes what a conversion produced.
type Report struct {
	Walls        int `json:"walls"`
	Doors        int `json:"doors"`
	Windows      int `json:"windows"`
	Rooms        int `json:"rooms"`
	SkippedDoors int `json:"skippedDoors"`
}
