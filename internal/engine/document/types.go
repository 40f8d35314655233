package document

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

// ============================================================
// Scene document
// ============================================================

const (
	// Version is written by Serialize.
	Version = 2
	// MinVersion is the oldest layout Deserialize accepts.
	MinVersion = 2
)

type ObjectType string

const (
	TypeWall      ObjectType = "wall"
	TypeFurniture ObjectType = "furniture"
)

// AttachmentDoor is the only attachment kind so far.
const AttachmentDoor = "door"

// SceneDocument is the persisted form of every editable node in a scene.
// Field names double as CBOR keys.
type SceneDocument struct {
	Version int            `json:"version"`
	Objects []ObjectRecord `json:"objects"`
}

type Rotation struct {
	X     float64             `json:"x"`
	Y     float64             `json:"y"`
	Z     float64             `json:"z"`
	Order scene.RotationOrder `json:"order,omitempty"`
}

// TagSet is the persisted capability set.
type TagSet struct {
	Movable      bool       `json:"isMovable,omitempty"`
	Rotatable    bool       `json:"isRotatable,omitempty"`
	Wall         bool       `json:"isWall,omitempty"`
	Interactable bool       `json:"isInteractable,omitempty"`
	Booked       bool       `json:"isBooked,omitempty"`
	Door         bool       `json:"isDoor,omitempty"`
	Kind         scene.Kind `json:"kind,omitempty"`
	// BookingTime is unix milliseconds.
	BookingTime int64 `json:"bookingTime,omitempty"`
}

// ObjectRecord is one wall or furniture item.
type ObjectRecord struct {
	ID       string     `json:"id,omitempty"`
	Type     ObjectType `json:"type"`
	Position [3]float64 `json:"position"`
	Rotation Rotation   `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
	Tags     TagSet     `json:"tags"`

	// walls only
	Direction   placement.Direction `json:"direction,omitempty"`
	Start       *[3]float64         `json:"start,omitempty"`
	End         *[3]float64         `json:"end,omitempty"`
	Attachments []Attachment        `json:"attachments,omitempty"`
}

// Attachment is a child of a wall stored in the wall's local frame.
type Attachment struct {
	ID       string     `json:"id,omitempty"`
	Kind     string     `json:"kind"`
	Parent   string     `json:"parent,omitempty"`
	Position [3]float64 `json:"position"`
	Rotation Rotation   `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
	Tags     TagSet     `json:"tags"`
}

// ============================================================
// Conversions
// ============================================================

func tagSetFrom(t scene.Tags) TagSet {
	ts := TagSet{
		Movable:      t.Has(scene.Movable),
		Rotatable:    t.Has(scene.Rotatable),
		Wall:         t.Has(scene.Wall),
		Interactable: t.Has(scene.Interactable),
		Booked:       t.Has(scene.Booked),
		Door:         t.Has(scene.Door),
		Kind:         t.Kind,
	}
	if !t.BookedAt.IsZero() {
		ts.BookingTime = t.BookedAt.UnixMilli()
	}
	return ts
}

// Tags converts back to the in-memory capability set.
func (ts TagSet) Tags() scene.Tags {
	var t scene.Tags
	flags := []struct {
		on  bool
		cap scene.Capability
	}{
		{ts.Movable, scene.Movable},
		{ts.Rotatable, scene.Rotatable},
		{ts.Wall, scene.Wall},
		{ts.Interactable, scene.Interactable},
		{ts.Booked, scene.Booked},
		{ts.Door, scene.Door},
	}
	for _, f := range flags {
		if f.on {
			t.Set(f.cap)
		}
	}
	t.Kind = ts.Kind
	if ts.BookingTime != 0 {
		t.BookedAt = time.UnixMilli(ts.BookingTime).UTC()
	}
	return t
}

func rotationFrom(e scene.Euler) Rotation {
	return Rotation{X: e.X, Y: e.Y, Z: e.Z, Order: e.Order}
}

func (r Rotation) Euler() scene.Euler {
	order := r.Order
	if order == "" {
		order = scene.OrderXYZ
	}
	return scene.Euler{X: r.X, Y: r.Y, Z: r.Z, Order: order}
}

func vec(v [3]float64) mgl64.Vec3 { return mgl64.Vec3(v) }

func arr(v mgl64.Vec3) [3]float64 { return [3]float64(v) }
