package document

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// ============================================================
// Codecs
// ============================================================

// versionProbe reads only the version so that old layouts are reported as
// outdated even when the rest no longer parses. Old writers were loose about
// the version's type, so any number or numeric string is accepted here.
type versionProbe struct {
	Version any `json:"version"`
}

// outdated reports whether the probed version is older than MinVersion. A
// version of a type no writer ever produced is invalid.
func (p versionProbe) outdated() (bool, error) {
	var v float64
	switch raw := p.Version.(type) {
	case nil:
		return true, nil
	case float64:
		v = raw
	case uint64:
		v = float64(raw)
	case int64:
		v = float64(raw)
	case string:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return false, fmt.Errorf("%w: version %q", ErrInvalidDocument, raw)
		}
		v = f
	default:
		return false, fmt.Errorf("%w: version of type %T", ErrInvalidDocument, raw)
	}
	return v < MinVersion, nil
}

func (p versionProbe) gate() error {
	old, err := p.outdated()
	if err != nil {
		return err
	}
	if old {
		return fmt.Errorf("%w: version %v, need %d or newer", ErrOutdatedFormat, p.Version, MinVersion)
	}
	return nil
}

// Encode writes the JSON form stored in .3dscene files.
func Encode(doc *SceneDocument) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}

// Decode parses and validates a JSON scene document.
func Decode(data []byte) (*SceneDocument, error) {
	var probe versionProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := probe.gate(); err != nil {
		return nil, err
	}

	var doc SceneDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeCBOR writes the compact binary export.
func EncodeCBOR(doc *SceneDocument) ([]byte, error) {
	data, err := cbor.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode scene cbor: %w", err)
	}
	return data, nil
}

// DecodeCBOR parses and validates a CBOR scene document.
func DecodeCBOR(data []byte) (*SceneDocument, error) {
	var probe versionProbe
	if err := cbor.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := probe.gate(); err != nil {
		return nil, err
	}

	var doc SceneDocument
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
