package document

import (
	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

// Serialize records every movable or wall node under root in graph order.
// Walls carry their grid edge and door attachments in local space.
func Serialize(root *scene.Node) *SceneDocument {
	doc := &SceneDocument{Version: Version, Objects: []ObjectRecord{}}
	root.Traverse(func(n *scene.Node) {
		switch {
		case n.Tags.Has(scene.Wall):
			doc.Objects = append(doc.Objects, wallRecord(n))
		case n.Tags.Has(scene.Movable):
			doc.Objects = append(doc.Objects, baseRecord(n, TypeFurniture))
		}
	})
	return doc
}

func baseRecord(n *scene.Node, typ ObjectType) ObjectRecord {
	return ObjectRecord{
		ID:       n.ID,
		Type:     typ,
		Position: arr(n.Transform.Position),
		Rotation: rotationFrom(n.Transform.Rotation),
		Scale:    arr(n.Transform.Scale),
		Tags:     tagSetFrom(n.Tags),
	}
}

func wallRecord(n *scene.Node) ObjectRecord {
	rec := baseRecord(n, TypeWall)

	dir, start, end := placement.Segment(n)
	s, e := arr(start), arr(end)
	rec.Direction = dir
	rec.Start = &s
	rec.End = &e

	for _, child := range n.Children() {
		if !child.Tags.Has(scene.Door) {
			continue
		}
		rec.Attachments = append(rec.Attachments, Attachment{
			ID:       child.ID,
			Kind:     AttachmentDoor,
			Parent:   n.ID,
			Position: arr(child.Transform.Position),
			Rotation: rotationFrom(child.Transform.Rotation),
			Scale:    arr(child.Transform.Scale),
			Tags:     tagSetFrom(child.Tags),
		})
	}
	return rec
}
