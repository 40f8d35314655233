package document

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrOutdatedFormat  = errors.New("scene document format is outdated")
	ErrInvalidDocument = errors.New("invalid scene document")
)

// Validate checks the whole document without touching any scene.
// Version problems wrap ErrOutdatedFormat, everything else ErrInvalidDocument.
func Validate(doc *SceneDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	if doc.Version < MinVersion {
		return fmt.Errorf("%w: version %d, need %d or newer", ErrOutdatedFormat, doc.Version, MinVersion)
	}
	for i := range doc.Objects {
		if err := validateRecord(&doc.Objects[i]); err != nil {
			return fmt.Errorf("%w: object %d: %v", ErrInvalidDocument, i, err)
		}
	}
	return nil
}

func validateRecord(r *ObjectRecord) error {
	if err := validateTransform(r.Position, r.Rotation, r.Scale); err != nil {
		return err
	}
	if err := r.Tags.Tags().Valid(); err != nil {
		return err
	}

	switch r.Type {
	case TypeWall:
		return validateWall(r)
	case TypeFurniture:
		if r.Tags.Kind == "" {
			return errors.New("furniture without kind")
		}
		if r.Direction != "" || r.Start != nil || r.End != nil || len(r.Attachments) > 0 {
			return errors.New("wall fields on furniture")
		}
		return nil
	default:
		return fmt.Errorf("unknown type %q", r.Type)
	}
}

func validateWall(r *ObjectRecord) error {
	if r.Tags.Movable || r.Tags.Rotatable || r.Tags.Kind != "" {
		return errors.New("wall carries furniture tags")
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("bad direction %q", r.Direction)
	}
	if r.Start == nil || r.End == nil {
		return errors.New("wall without endpoints")
	}
	if !finite(r.Start[:]...) || !finite(r.End[:]...) {
		return errors.New("non-finite endpoint")
	}
	if vec(*r.End).Sub(vec(*r.Start)).Len() == 0 {
		return errors.New("zero-length wall")
	}

	for j, a := range r.Attachments {
		if a.Kind != AttachmentDoor {
			return fmt.Errorf("attachment %d: unknown kind %q", j, a.Kind)
		}
		if a.Parent != "" && r.ID != "" && a.Parent != r.ID {
			return fmt.Errorf("attachment %d: parent %q is not %q", j, a.Parent, r.ID)
		}
		if err := validateTransform(a.Position, a.Rotation, a.Scale); err != nil {
			return fmt.Errorf("attachment %d: %w", j, err)
		}
		if err := a.Tags.Tags().Valid(); err != nil {
			return fmt.Errorf("attachment %d: %w", j, err)
		}
	}
	return nil
}

func validateTransform(pos [3]float64, rot Rotation, scale [3]float64) error {
	if !finite(pos[:]...) || !finite(scale[:]...) || !finite(rot.X, rot.Y, rot.Z) {
		return errors.New("non-finite transform")
	}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return errors.New("zero scale")
	}
	if rot.Order != "" && !rot.Order.Valid() {
		return fmt.Errorf("bad rotation order %q", rot.Order)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
