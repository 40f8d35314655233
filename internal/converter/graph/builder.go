package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"roomplanner/internal/converter/models"
	"roomplanner/internal/converter/parser"
)

const tolerance = 1e-6

// ErrPlanTooLarge is returned by Build when the walls would split into more
// grid edges than Options.MaxEdges allows.
var ErrPlanTooLarge = errors.New("plan too large")

// ============================================================
// Wall Graph Builder
// ============================================================

// GraphBuilder turns plan wall shapes into grid-length wall edges in world
// units: shapes collapse to centre lines, the plan is centred on the origin
// and scaled, endpoints snap to the grid, and every run splits into one
// edge per grid cell.
type GraphBuilder struct {
	opts     models.Options
	segments []models.Segment
	origin   models.Point
}

func NewGraphBuilder(opts models.Options) *GraphBuilder {
	return &GraphBuilder{opts: opts}
}

// AddWall records the centre line of a rect or path wall element.
func (g *GraphBuilder) AddWall(elem models.Element) error {
	switch geom := elem.Geometry.(type) {
	case models.RectGeometry:
		return g.addRectWall(elem.ID, geom)
	case models.PathGeometry:
		return g.addPathWall(elem.ID, geom)
	default:
		return fmt.Errorf("wall %q: unsupported geometry %T", elem.ID, elem.Geometry)
	}
}

func (g *GraphBuilder) addRectWall(id string, r models.RectGeometry) error {
	if !finite(r.X, r.Y, r.Width, r.Height) {
		return fmt.Errorf("wall %q: non-finite rect", id)
	}
	a, b := centreLine(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	g.segments = append(g.segments, models.Segment{SourceID: id, A: a, B: b})
	return nil
}

func (g *GraphBuilder) addPathWall(id string, p models.PathGeometry) error {
	points, err := parser.ParsePath(p.D)
	if err != nil {
		return fmt.Errorf("wall %q: %w", id, err)
	}
	if len(points) < 2 {
		return fmt.Errorf("wall %q: path has fewer than two points", id)
	}

	minX, minY, maxX, maxY := bounds(points)
	if !finite(minX, minY, maxX, maxY) {
		return fmt.Errorf("wall %q: non-finite path", id)
	}
	a, b := centreLine(minX, minY, maxX, maxY)
	g.segments = append(g.segments, models.Segment{SourceID: id, A: a, B: b})
	return nil
}

// centreLine runs along the long side of a bounding box.
func centreLine(minX, minY, maxX, maxY float64) (models.Point, models.Point) {
	width := maxX - minX
	height := maxY - minY
	if width >= height {
		midY := minY + height/2
		return models.Point{X: minX, Y: midY}, models.Point{X: maxX, Y: midY}
	}
	midX := minX + width/2
	return models.Point{X: midX, Y: minY}, models.Point{X: midX, Y: maxY}
}

func bounds(points []models.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return
}

// Segments returns the recorded centre lines in plan pixels.
func (g *GraphBuilder) Segments() []models.Segment {
	return g.segments
}

// ToWorld maps a plan pixel to world (x, z) using the origin of the last
// Build.
func (g *GraphBuilder) ToWorld(p models.Point) models.Point {
	return models.Point{
		X: (p.X - g.origin.X) * g.opts.UnitsPerPixel,
		Y: (p.Y - g.origin.Y) * g.opts.UnitsPerPixel,
	}
}

// ============================================================
// Edges
// ============================================================

// Build produces deduplicated grid edges ordered by direction, then Z,
// then X. Plans that would exceed MaxEdges fail with ErrPlanTooLarge before
// any edge is allocated.
func (g *GraphBuilder) Build() ([]models.Edge, error) {
	if len(g.segments) == 0 {
		return nil, nil
	}

	var all []models.Point
	for _, s := range g.segments {
		all = append(all, s.A, s.B)
	}
	minX, minY, maxX, maxY := bounds(all)
	g.origin = models.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}

	runs := make([]run, 0, len(g.segments))
	total := 0.0
	for _, s := range g.segments {
		r := g.runOf(s)
		total += r.cells(g.opts.GridSize)
		runs = append(runs, r)
	}
	if limit := g.maxEdges(); !(total <= float64(limit)) {
		return nil, fmt.Errorf("%w: %.0f wall edges, limit %d", ErrPlanTooLarge, total, limit)
	}

	seen := make(map[edgeKey]bool)
	var edges []models.Edge
	for _, r := range runs {
		// indexed so far-off coordinates cannot stall on float spacing
		n := int(r.cells(g.opts.GridSize))
		for i := 0; i < n; i++ {
			v := r.from + float64(i)*g.opts.GridSize
			if r.dir == "horizontal" {
				g.appendEdge(&edges, seen, r.id, r.dir, v, r.fixed)
			} else {
				g.appendEdge(&edges, seen, r.id, r.dir, r.fixed, v)
			}
		}
	}

	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Direction != b.Direction {
			return a.Direction < b.Direction
		}
		if !almostEqual(a.Start.Y, b.Start.Y) {
			return a.Start.Y < b.Start.Y
		}
		return a.Start.X < b.Start.X
	})
	return edges, nil
}

// run is one snapped wall centre line along a single axis.
type run struct {
	id       string
	dir      string
	fixed    float64 // z for horizontal runs, x for vertical ones
	from, to float64
}

func (r run) cells(grid float64) float64 {
	return math.Round((r.to - r.from) / grid)
}

func (g *GraphBuilder) runOf(s models.Segment) run {
	a := g.snap(g.ToWorld(s.A))
	b := g.snap(g.ToWorld(s.B))

	if math.Abs(a.Y-b.Y) <= math.Abs(a.X-b.X) {
		// a slanted wall lands on its dominant axis
		from, to := ordered(a.X, b.X)
		return run{id: s.SourceID, dir: "horizontal", fixed: g.snapValue((a.Y + b.Y) / 2), from: from, to: to}
	}
	from, to := ordered(a.Y, b.Y)
	return run{id: s.SourceID, dir: "vertical", fixed: g.snapValue((a.X + b.X) / 2), from: from, to: to}
}

func (g *GraphBuilder) maxEdges() int {
	if g.opts.MaxEdges > 0 {
		return g.opts.MaxEdges
	}
	return models.DefaultMaxEdges
}

type edgeKey struct {
	dir  string
	x, z int64
}

func (g *GraphBuilder) appendEdge(edges *[]models.Edge, seen map[edgeKey]bool, id, dir string, x, z float64) {
	key := edgeKey{dir: dir, x: int64(math.Round(x / tolerance)), z: int64(math.Round(z / tolerance))}
	if seen[key] {
		return
	}
	seen[key] = true

	start := models.Point{X: x, Y: z}
	end := start
	if dir == "horizontal" {
		end.X += g.opts.GridSize
	} else {
		end.Y += g.opts.GridSize
	}
	*edges = append(*edges, models.Edge{SourceID: id, Direction: dir, Start: start, End: end})
}

func (g *GraphBuilder) snap(p models.Point) models.Point {
	return models.Point{X: g.snapValue(p.X), Y: g.snapValue(p.Y)}
}

func (g *GraphBuilder) snapValue(v float64) float64 {
	s := math.Round(v/g.opts.GridSize) * g.opts.GridSize
	if s == 0 {
		return 0 // no negative zero
	}
	return s
}

func ordered(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// ============================================================
// Doors
// ============================================================

// NearestEdge returns the index of the edge closest to p and the distance
// to it, or -1 when there are no edges.
func NearestEdge(edges []models.Edge, p models.Point) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, e := range edges {
		if d := pointToSegmentDistance(p, e.Start, e.End); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func pointToSegmentDistance(p, a, b models.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
