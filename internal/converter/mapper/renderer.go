package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/converter/models"
	"roomplanner/internal/engine/document"
	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

const (
	renderMargin  = 20.0
	furnitureSize = 0.6
)

// ============================================================
// Renderer
// ============================================================

// Renderer draws a scene document as a top-down SVG plan. World X maps to
// SVG x and world Z to SVG y, both scaled by 1/UnitsPerPixel.
type Renderer struct {
	opts models.Options
}

func NewRenderer(opts models.Options) *Renderer {
	return &Renderer{opts: opts}
}

type rect struct {
	id, class string
	center    models.Point // world x, z
	width     float64      // world units along the rotated x axis
	depth     float64
	angle     float64 // degrees, SVG rotation
	label     string
}

// Render validates doc and returns the SVG markup.
func (r *Renderer) Render(doc *document.SceneDocument) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	if err := document.Validate(doc); err != nil {
		return "", err
	}

	var rects []rect
	for i := range doc.Objects {
		rec := &doc.Objects[i]
		switch rec.Type {
		case document.TypeWall:
			rects = append(rects, r.wallRects(rec)...)
		case document.TypeFurniture:
			rects = append(rects, furnitureRect(rec))
		}
	}

	scale := 1 / r.opts.UnitsPerPixel
	minX, minY, maxX, maxY := extent(rects)
	width := (maxX-minX)*scale + 2*renderMargin
	height := (maxY-minY)*scale + 2*renderMargin
	toSVG := func(p models.Point) models.Point {
		return models.Point{
			X: (p.X-minX)*scale + renderMargin,
			Y: (p.Y-minY)*scale + renderMargin,
		}
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, rc := range rects {
		c := toSVG(rc.center)
		w, h := rc.width*scale, rc.depth*scale
		builder.WriteString(fmt.Sprintf(`  <rect id="%s" class="%s" x="%s" y="%s" width="%s" height="%s"`,
			rc.id, rc.class,
			formatFloat(c.X-w/2), formatFloat(c.Y-h/2), formatFloat(w), formatFloat(h)))
		if rc.angle != 0 {
			builder.WriteString(fmt.Sprintf(` transform="rotate(%s %s %s)"`,
				formatFloat(rc.angle), formatFloat(c.X), formatFloat(c.Y)))
		}
		if rc.label != "" {
			builder.WriteString(fmt.Sprintf(` data-kind="%s"`, rc.label))
		}
		builder.WriteString("/>\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element shapes
// ============================================================

func (r *Renderer) wallRects(rec *document.ObjectRecord) []rect {
	start := models.Point{X: rec.Start[0], Y: rec.Start[2]}
	end := models.Point{X: rec.End[0], Y: rec.End[2]}
	length := math.Hypot(end.X-start.X, end.Y-start.Y)

	w, d := length, r.opts.WallThickness
	if rec.Direction == placement.Vertical {
		w, d = d, w
	}

	out := []rect{{
		id:     rec.ID,
		class:  "wall",
		center: models.Point{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2},
		width:  w,
		depth:  d,
	}}

	wallMatrix := scene.Transform{
		Position: mgl64.Vec3(rec.Position),
		Rotation: rec.Rotation.Euler(),
		Scale:    mgl64.Vec3(rec.Scale),
	}.Matrix()

	for _, a := range rec.Attachments {
		if a.Kind != document.AttachmentDoor {
			continue
		}
		world := mgl64.TransformCoordinate(mgl64.Vec3(a.Position), wallMatrix)
		dw, dd := placement.DoorSize.X(), r.opts.WallThickness*1.5
		if rec.Direction == placement.Vertical {
			dw, dd = dd, dw
		}
		out = append(out, rect{
			id:     a.ID,
			class:  "door",
			center: models.Point{X: world.X(), Y: world.Z()},
			width:  dw,
			depth:  dd,
		})
	}
	return out
}

func furnitureRect(rec *document.ObjectRecord) rect {
	class := "furniture"
	if rec.Tags.Booked {
		class = "furniture booked"
	}
	return rect{
		id:     rec.ID,
		class:  class,
		center: models.Point{X: rec.Position[0], Y: rec.Position[2]},
		width:  furnitureSize * rec.Scale[0],
		depth:  furnitureSize * rec.Scale[2],
		// SVG angles run clockwise with y down, yaw runs counter-clockwise
		angle: -mgl64.RadToDeg(rec.Rotation.Y),
		label: string(rec.Tags.Kind),
	}
}

func extent(rects []rect) (minX, minY, maxX, maxY float64) {
	if len(rects) == 0 {
		return -1, -1, 1, 1
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, rc := range rects {
		half := math.Max(rc.width, rc.depth) / 2
		minX = math.Min(minX, rc.center.X-half)
		minY = math.Min(minY, rc.center.Y-half)
		maxX = math.Max(maxX, rc.center.X+half)
		maxY = math.Max(maxY, rc.center.Y+half)
	}
	return
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', 2, 64)
}
