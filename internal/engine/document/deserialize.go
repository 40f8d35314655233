package document

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

// Factory builds furniture nodes by kind.
type Factory interface {
	Load(ctx context.Context, kind scene.Kind) (*scene.Node, error)
}

// Options control reconstruction.
type Options struct {
	WallHeight    float64
	WallThickness float64

	// ViewOnly paints unbooked bookable furniture with AvailableColor.
	ViewOnly       bool
	BookedColor    uint32
	AvailableColor uint32

	Logger *zerolog.Logger
}

// DefaultOptions matches the editor's default wall box and booking colours.
func DefaultOptions() Options {
	return Options{
		WallHeight:     2,
		WallThickness:  0.2,
		BookedColor:    0xff0000,
		AvailableColor: 0x00ff00,
	}
}

// Result holds the reconstructed nodes, detached, in record order.
type Result struct {
	Nodes     []*scene.Node
	Walls     []*scene.Node
	Furniture []*scene.Node
	Doors     []*scene.Node
	// Skipped counts furniture records whose factory failed.
	Skipped int
}

// Build validates doc and creates its nodes without attaching them anywhere.
// Nothing is built when validation fails or ctx ends.
func Build(ctx context.Context, doc *SceneDocument, factory Factory, opts Options) (*Result, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	res := &Result{}
	for i := range doc.Objects {
		rec := &doc.Objects[i]
		switch rec.Type {
		case TypeWall:
			wall := buildWall(rec, opts)
			res.Walls = append(res.Walls, wall)
			res.Nodes = append(res.Nodes, wall)
			for _, child := range wall.Children() {
				res.Doors = append(res.Doors, child)
			}

		case TypeFurniture:
			node, err := factory.Load(ctx, rec.Tags.Kind)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("build scene: %w", ctxErr)
			}
			if err != nil || node == nil {
				log.Warn().Err(err).Int("object", i).Str("kind", string(rec.Tags.Kind)).Msg("furniture skipped")
				res.Skipped++
				continue
			}
			applyRecord(node, rec.ID, rec.Position, rec.Rotation, rec.Scale, rec.Tags)
			paintFurniture(node, opts)
			res.Furniture = append(res.Furniture, node)
			res.Nodes = append(res.Nodes, node)
		}
	}
	return res, nil
}

// Deserialize builds doc and adds the result under target.
// target is untouched when an error is returned.
func Deserialize(ctx context.Context, doc *SceneDocument, target *scene.Node, factory Factory, opts Options) (*Result, error) {
	res, err := Build(ctx, doc, factory, opts)
	if err != nil {
		return nil, err
	}
	target.Add(res.Nodes...)
	return res, nil
}

func buildWall(rec *ObjectRecord, opts Options) *scene.Node {
	// endpoints are in world units, so the scale is already in them
	start, end := vec(*rec.Start), vec(*rec.End)
	length := end.Sub(start).Len() / math.Abs(rec.Scale[0])

	p := placement.ComputePlacement(start.X(), start.Z(), rec.Direction, length, opts.WallHeight)
	wall := placement.NewWall(p, placement.Size{
		Length:    length,
		Height:    opts.WallHeight,
		Thickness: opts.WallThickness,
	})
	applyRecord(wall, rec.ID, rec.Position, rec.Rotation, rec.Scale, rec.Tags)
	wall.Tags.Set(scene.Wall)

	for _, a := range rec.Attachments {
		door := placement.NewDoor(vec(a.Position))
		// parent first: the stored transform is in the wall's frame
		wall.Add(door)
		applyRecord(door, a.ID, a.Position, a.Rotation, a.Scale, a.Tags)
		door.Tags.Set(scene.Door)
	}
	return wall
}

func applyRecord(n *scene.Node, id string, pos [3]float64, rot Rotation, scale [3]float64, tags TagSet) {
	if id != "" {
		n.ID = id
	}
	n.Transform.Position = vec(pos)
	n.Transform.Rotation = rot.Euler()
	n.Transform.Scale = vec(scale)
	n.Tags = tags.Tags()
}

func paintFurniture(n *scene.Node, opts Options) {
	switch {
	case n.Tags.Has(scene.Booked):
		scene.Recolor(n, opts.BookedColor)
	case opts.ViewOnly && n.Tags.Kind.Bookable():
		scene.Recolor(n, opts.AvailableColor)
	}
}
