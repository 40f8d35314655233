package mapper

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"roomplanner/internal/converter/graph"
	"roomplanner/internal/converter/models"
	"roomplanner/internal/converter/parser"
	"roomplanner/internal/engine/document"
	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

// ErrNoWalls is returned for plans without a usable wall.
var ErrNoWalls = errors.New("plan has no walls")

// ============================================================
// Converter
// ============================================================

// Converter turns an SVG floor plan into a scene document of grid walls
// with door attachments.
type Converter struct {
	opts models.Options
	log  zerolog.Logger
}

// Result is a converted plan.
type Result struct {
	Document *document.SceneDocument
	Report   models.Report
}

func New(opts models.Options, log zerolog.Logger) *Converter {
	return &Converter{opts: opts, log: log}
}

// Convert SVG → SceneDocument
func (c *Converter) Convert(r io.Reader) (*Result, error) {
	elements, err := parser.ParseSVG(r)
	if err != nil {
		return nil, fmt.Errorf("parse SVG: %w", err)
	}

	var report models.Report
	var walls, doors []models.Element
	for _, elem := range elements {
		switch elem.Kind {
		case models.KindWall:
			walls = append(walls, elem)
		case models.KindDoor:
			doors = append(doors, elem)
		case models.KindWindow:
			report.Windows++
		case models.KindRoom:
			report.Rooms++
		}
	}

	builder := graph.NewGraphBuilder(c.opts)
	for _, wall := range walls {
		if err := builder.AddWall(wall); err != nil {
			return nil, fmt.Errorf("build walls graph: %w", err)
		}
	}

	edges, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, ErrNoWalls
	}

	size := placement.Size{
		Length:    c.opts.GridSize,
		Height:    c.opts.WallHeight,
		Thickness: c.opts.WallThickness,
	}

	root := scene.NewNode("plan")
	wallNodes := make([]*scene.Node, len(edges))
	for i, e := range edges {
		dir := placement.Direction(e.Direction)
		p := placement.ComputePlacement(e.Start.X, e.Start.Y, dir, c.opts.GridSize, c.opts.WallHeight)
		wallNodes[i] = placement.NewWall(p, size)
		root.Add(wallNodes[i])
	}
	report.Walls = len(edges)

	for _, door := range doors {
		center, err := elementCenter(door)
		if err != nil {
			c.log.Warn().Err(err).Str("door", door.ID).Msg("skipping door")
			report.SkippedDoors++
			continue
		}

		world := builder.ToWorld(center)
		idx, dist := graph.NearestEdge(edges, world)
		if idx < 0 || dist > c.opts.GridSize/2 {
			c.log.Debug().Str("door", door.ID).Float64("distance", dist).Msg("door is not on a wall")
			report.SkippedDoors++
			continue
		}

		wall := wallNodes[idx]
		wall.Add(placement.NewDoor(c.doorLocal(wall, world)))
		report.Doors++
	}

	c.log.Info().
		Int("walls", report.Walls).
		Int("doors", report.Doors).
		Int("skipped_doors", report.SkippedDoors).
		Msg("plan converted")

	return &Result{Document: document.Serialize(root), Report: report}, nil
}

// doorLocal places a door on the wall's centre plane with its bottom on the
// floor, sliding along the wall no further than the wall's ends allow.
func (c *Converter) doorLocal(wall *scene.Node, world models.Point) mgl64.Vec3 {
	local := wall.WorldToLocal(mgl64.Vec3{world.X, 0, world.Y})
	limit := math.Max(0, c.opts.GridSize/2-placement.DoorSize.X()/2)
	x := math.Max(-limit, math.Min(limit, local.X()))
	y := placement.DoorSize.Y()/2 - c.opts.WallHeight/2
	return mgl64.Vec3{x, y, 0}
}

// elementCenter returns the centre of a rect or the mean of a path's points.
func elementCenter(elem models.Element) (models.Point, error) {
	switch geom := elem.Geometry.(type) {
	case models.RectGeometry:
		return models.Point{X: geom.X + geom.Width/2, Y: geom.Y + geom.Height/2}, nil

	case models.PathGeometry:
		points, err := parser.ParsePath(geom.D)
		if err != nil {
			return models.Point{}, err
		}
		if len(points) == 0 {
			return models.Point{}, fmt.Errorf("empty path")
		}
		var sumX, sumY float64
		for _, p := range points {
			sumX += p.X
			sumY += p.Y
		}
		n := float64(len(points))
		return models.Point{X: sumX / n, Y: sumY / n}, nil
	}
	return models.Point{}, fmt.Errorf("unsupported geometry %T", elem.Geometry)
}
