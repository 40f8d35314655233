package scene

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ============================================================
// Capabilities
// ============================================================

// Capability is a single interaction marker. Tags combine them as a bit set.
type Capability uint16

const (
	Movable Capability = 1 << iota
	Rotatable
	Wall
	Interactable
	Booked
	Door
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{Movable, "movable"},
	{Rotatable, "rotatable"},
	{Wall, "wall"},
	{Interactable, "interactable"},
	{Booked, "booked"},
	{Door, "door"},
}

func (c Capability) String() string {
	var parts []string
	for _, entry := range capabilityNames {
		if c&entry.cap != 0 {
			parts = append(parts, entry.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Kind is the furniture discriminant. KindNone marks structural nodes.
type Kind string

const (
	KindNone       Kind = ""
	KindChair      Kind = "chair"
	KindTable      Kind = "table"
	KindSofa       Kind = "sofa"
	KindRoundTable Kind = "roundTable"
)

// Kinds lists every furniture kind in catalog order.
var Kinds = []Kind{KindChair, KindTable, KindSofa, KindRoundTable}

func (k Kind) Valid() bool {
	switch k {
	case KindNone, KindChair, KindTable, KindSofa, KindRoundTable:
		return true
	}
	return false
}

// Bookable reports whether a ViewOnly booking may target this kind.
func (k Kind) Bookable() bool {
	switch k {
	case KindChair, KindTable:
		return true
	case KindNone, KindSofa, KindRoundTable:
		return false
	}
	return false
}

// Label is the user-facing name used in notices.
func (k Kind) Label() string {
	switch k {
	case KindChair:
		return "Chair"
	case KindTable:
		return "Table"
	case KindSofa:
		return "Sofa"
	case KindRoundTable:
		return "Round table"
	case KindNone:
		return "Object"
	}
	return string(k)
}

// ============================================================
// Tags
// ============================================================

var ErrInvalidTags = errors.New("invalid tags")

// Tags is the capability set and furniture kind of a node.
type Tags struct {
	Caps     Capability
	Kind     Kind
	BookedAt time.Time
}

func (t Tags) Has(c Capability) bool { return t.Caps&c == c }

func (t *Tags) Set(c Capability) { t.Caps |= c }

func (t *Tags) Clear(c Capability) { t.Caps &^= c }

// IsFurniture reports whether a furniture kind is set.
func (t Tags) IsFurniture() bool { return t.Kind != KindNone }

// Valid checks the structural invariants: walls are placed, never dragged.
func (t Tags) Valid() error {
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTags, t.Kind)
	}
	if t.Caps&Wall != 0 && t.Caps&(Movable|Rotatable) != 0 {
		return fmt.Errorf("%w: wall cannot be %s", ErrInvalidTags, (t.Caps & (Movable | Rotatable)).String())
	}
	if t.Caps&Wall != 0 && t.Kind != KindNone {
		return fmt.Errorf("%w: wall cannot be furniture %q", ErrInvalidTags, t.Kind)
	}
	return nil
}
