package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"roomplanner/internal/converter/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Rects   []Rect   `xml:"rect"`
	Paths   []Path   `xml:"path"`
	Groups  []Group  `xml:"g"`
}

// Group is a <g> layer; plans exported from editors nest shapes in them.
type Group struct {
	ID     string  `xml:"id,attr"`
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Groups []Group `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Parser
// ============================================================

// ParseSVG reads every rect and path whose id marks it as a plan element.
// A shape without its own recognised id inherits the kind of its group.
func ParseSVG(r io.Reader) ([]models.Element, error) {
	var svg SVG
	if err := xml.NewDecoder(r).Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var elements []models.Element
	collect(&elements, "", svg.Rects, svg.Paths, svg.Groups)
	return elements, nil
}

func collect(out *[]models.Element, inherited models.ElementKind, rects []Rect, paths []Path, groups []Group) {
	for _, rect := range rects {
		kind := classify(rect.ID, inherited)
		if kind == "" || rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		*out = append(*out, models.Element{
			ID:   rect.ID,
			Kind: kind,
			Geometry: models.RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	for _, path := range paths {
		kind := classify(path.ID, inherited)
		if kind == "" {
			continue
		}
		*out = append(*out, models.Element{
			ID:       path.ID,
			Kind:     kind,
			Geometry: models.PathGeometry{D: path.D},
		})
	}

	for _, g := range groups {
		collect(out, classify(g.ID, inherited), g.Rects, g.Paths, g.Groups)
	}
}

func classify(id string, inherited models.ElementKind) models.ElementKind {
	lower := strings.ToLower(id)
	switch {
	case strings.HasPrefix(lower, "wall"):
		return models.KindWall
	case strings.HasPrefix(lower, "door"):
		return models.KindDoor
	case strings.HasPrefix(lower, "window"):
		return models.KindWindow
	case strings.HasPrefix(lower, "room"), strings.HasSuffix(lower, "_room"):
		return models.KindRoom
	}
	return inherited
}
