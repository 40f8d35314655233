package document

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomplanner/internal/engine/furniture"
	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

var bookedAt = time.UnixMilli(1700000000123).UTC()

func wallSize() placement.Size {
	return placement.Size{Length: 2, Height: 2, Thickness: 0.2}
}

// buildRoom returns a scene with three furniture items, two walls and a door
// on the first wall.
func buildRoom(t *testing.T) (*scene.Node, *scene.Node) {
	t.Helper()
	lib := furniture.Default()
	ctx := context.Background()
	root := scene.NewNode("scene")

	chair, err := lib.Load(ctx, scene.KindChair)
	require.NoError(t, err)
	chair.Transform.Position = mgl64.Vec3{1, 0.1, 1}
	chair.Transform.Rotation.Y = 1.25

	table, err := lib.Load(ctx, scene.KindTable)
	require.NoError(t, err)
	table.Transform.Position = mgl64.Vec3{-3, 0.5, 2}
	table.Tags.Set(scene.Booked)
	table.Tags.BookedAt = bookedAt

	sofa, err := lib.Load(ctx, scene.KindSofa)
	require.NoError(t, err)
	sofa.Transform.Rotation = scene.Euler{X: 0.1, Y: -2, Z: 0.2, Order: scene.OrderYXZ}
	sofa.Transform.Scale = mgl64.Vec3{1.5, 1, 1.5}

	wallA := placement.NewWall(placement.ComputePlacement(2, 0, placement.Horizontal, 2, 2), wallSize())
	wallB := placement.NewWall(placement.ComputePlacement(0, 2, placement.Vertical, 2, 2), wallSize())
	wallB.Transform.Scale = mgl64.Vec3{2, 1, 1}

	door := placement.NewDoor(mgl64.Vec3{0.5, 0, 0.1})
	door.Transform.Rotation.Y = 0.3
	wallA.Add(door)

	root.Add(chair, wallA, table, wallB, sofa)
	return root, door
}

func collect(root *scene.Node, pred scene.Predicate) map[string]*scene.Node {
	out := map[string]*scene.Node{}
	root.Traverse(func(n *scene.Node) {
		if n != root && pred(n) {
			out[n.ID] = n
		}
	})
	return out
}

func assertSameTransform(t *testing.T, want, got *scene.Node) {
	t.Helper()
	assert.True(t, want.Transform.Position.ApproxEqualThreshold(got.Transform.Position, 1e-9), "position")
	assert.True(t, want.Transform.Scale.ApproxEqualThreshold(got.Transform.Scale, 1e-9), "scale")
	assert.InDelta(t, want.Transform.Rotation.X, got.Transform.Rotation.X, 1e-9)
	assert.InDelta(t, want.Transform.Rotation.Y, got.Transform.Rotation.Y, 1e-9)
	assert.InDelta(t, want.Transform.Rotation.Z, got.Transform.Rotation.Z, 1e-9)
	assert.Equal(t, want.Transform.Rotation.Order, got.Transform.Rotation.Order)
	assert.Equal(t, want.Tags, got.Tags)
}

func TestRoundTrip_JSONAndCBOR(t *testing.T) {
	codecs := map[string]struct {
		enc func(*SceneDocument) ([]byte, error)
		dec func([]byte) (*SceneDocument, error)
	}{
		"json": {Encode, Decode},
		"cbor": {EncodeCBOR, DecodeCBOR},
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			original, door := buildRoom(t)

			data, err := codec.enc(Serialize(original))
			require.NoError(t, err)
			doc, err := codec.dec(data)
			require.NoError(t, err)

			loaded := scene.NewNode("scene")
			res, err := Deserialize(context.Background(), doc, loaded, furniture.Default(), DefaultOptions())
			require.NoError(t, err)
			assert.Len(t, res.Walls, 2)
			assert.Len(t, res.Furniture, 3)
			assert.Len(t, res.Doors, 1)
			assert.Zero(t, res.Skipped)

			for _, pred := range []scene.Predicate{
				scene.HasCapability(scene.Movable),
				scene.HasCapability(scene.Wall),
				scene.HasCapability(scene.Door),
			} {
				want := collect(original, pred)
				got := collect(loaded, pred)
				require.Len(t, got, len(want))
				for id, w := range want {
					g, ok := got[id]
					require.True(t, ok, "missing %s", id)
					assertSameTransform(t, w, g)
				}
			}

			loadedDoor := loaded.Find(door.ID)
			require.NotNil(t, loadedDoor)
			assert.Equal(t, door.Parent().ID, loadedDoor.Parent().ID)
			assert.True(t, door.WorldPosition().ApproxEqualThreshold(loadedDoor.WorldPosition(), 1e-9))

			// graph order is preserved
			again := Serialize(loaded)
			assert.Equal(t, Serialize(original), again)
		})
	}
}

func TestRoundTrip_ScaledWallKeepsItsLength(t *testing.T) {
	start, end := [3]float64{0, 0, 0}, [3]float64{2, 0, 0}
	doc := &SceneDocument{Version: Version, Objects: []ObjectRecord{{
		ID:        "w",
		Type:      TypeWall,
		Position:  [3]float64{1, 1, 0},
		Scale:     [3]float64{2, 1, 1},
		Tags:      TagSet{Wall: true},
		Direction: placement.Horizontal,
		Start:     &start,
		End:       &end,
	}}}

	for cycle := 0; cycle < 3; cycle++ {
		root := scene.NewNode("scene")
		res, err := Deserialize(context.Background(), doc, root, furniture.Default(), DefaultOptions())
		require.NoError(t, err)
		require.Len(t, res.Walls, 1)
		assert.InDelta(t, 1, res.Walls[0].Mesh.Geometry.Size.X(), 1e-9, "cycle %d", cycle)

		doc = Serialize(root)
		require.Len(t, doc.Objects, 1)
		assert.Equal(t, start, *doc.Objects[0].Start, "cycle %d", cycle)
		assert.Equal(t, end, *doc.Objects[0].End, "cycle %d", cycle)
	}
}

func TestDeserialize_WallGeometryFromEndpoints(t *testing.T) {
	start, end := [3]float64{0, 0, 0}, [3]float64{0, 0, 4}
	doc := &SceneDocument{Version: 2, Objects: []ObjectRecord{{
		Type:      TypeWall,
		Position:  [3]float64{0, 1, 2},
		Rotation:  Rotation{Y: math.Pi / 2, Order: scene.OrderXYZ},
		Scale:     [3]float64{1, 1, 1},
		Tags:      TagSet{Wall: true},
		Direction: placement.Vertical,
		Start:     &start,
		End:       &end,
	}}}

	res, err := Build(context.Background(), doc, furniture.Default(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Walls, 1)

	wall := res.Walls[0]
	assert.Equal(t, mgl64.Vec3{4, 2, 0.2}, wall.Mesh.Geometry.Size)
	assert.Equal(t, mgl64.Vec3{0, 1, 2}, wall.Transform.Position)
	assert.Nil(t, wall.Parent())
}

func TestDeserialize_VersionGateLeavesSceneUnchanged(t *testing.T) {
	target, _ := buildRoom(t)
	before := Serialize(target)

	doc := Serialize(target)
	doc.Version = 1

	_, err := Deserialize(context.Background(), doc, target, furniture.Default(), DefaultOptions())
	assert.ErrorIs(t, err, ErrOutdatedFormat)
	assert.Equal(t, before, Serialize(target))
}

func TestDecode_OldLayoutIsOutdated(t *testing.T) {
	old := []byte(`{"version":1,"objects":[{"type":"wall","rotation":"legacy","userData":{"isWall":true}}]}`)
	_, err := Decode(old)
	assert.ErrorIs(t, err, ErrOutdatedFormat)

	_, err = Decode([]byte(`{"objects":[]}`))
	assert.ErrorIs(t, err, ErrOutdatedFormat)

	for _, version := range []string{`1.5`, `"1"`, `0`, `null`} {
		_, err = Decode([]byte(`{"version":` + version + `,"objects":[]}`))
		assert.ErrorIs(t, err, ErrOutdatedFormat, version)
	}
	for _, version := range []string{`2.5`, `"2"`, `"two"`, `true`, `{}`} {
		_, err = Decode([]byte(`{"version":` + version + `,"objects":[]}`))
		assert.ErrorIs(t, err, ErrInvalidDocument, version)
	}

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestDecodeCBOR_LooseOldVersions(t *testing.T) {
	for _, version := range []any{1, 1.5, "1"} {
		data, err := cbor.Marshal(map[string]any{"version": version, "objects": []any{}})
		require.NoError(t, err)
		_, err = DecodeCBOR(data)
		assert.ErrorIs(t, err, ErrOutdatedFormat, "%v", version)
	}

	data, err := cbor.Marshal(map[string]any{"version": []int{2}})
	require.NoError(t, err)
	_, err = DecodeCBOR(data)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

type flakyFactory struct {
	lib  *furniture.Library
	fail scene.Kind
}

func (f flakyFactory) Load(ctx context.Context, kind scene.Kind) (*scene.Node, error) {
	if kind == f.fail {
		return nil, furniture.ErrAssetLoad
	}
	return f.lib.Load(ctx, kind)
}

func TestBuild_SkipsFailedFurniture(t *testing.T) {
	room, _ := buildRoom(t)
	doc := Serialize(room)

	res, err := Build(context.Background(), doc, flakyFactory{lib: furniture.Default(), fail: scene.KindSofa}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, res.Furniture, 2)
	assert.Len(t, res.Walls, 2)
}

func TestBuild_CanceledContextBuildsNothing(t *testing.T) {
	room, _ := buildRoom(t)
	doc := Serialize(room)
	target := scene.NewNode("scene")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Deserialize(ctx, doc, target, furniture.Default(), DefaultOptions())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, target.Children())
}

func TestBuild_ViewOnlyPaintsBookables(t *testing.T) {
	room, _ := buildRoom(t)
	opts := DefaultOptions()
	opts.ViewOnly = true

	res, err := Build(context.Background(), Serialize(room), furniture.Default(), opts)
	require.NoError(t, err)

	colors := map[scene.Kind]uint32{}
	for _, n := range res.Furniture {
		colors[n.Tags.Kind] = n.Children()[0].Mesh.Material.Color
	}
	assert.Equal(t, uint32(0x00ff00), colors[scene.KindChair])
	assert.Equal(t, uint32(0xff0000), colors[scene.KindTable])
	assert.NotEqual(t, uint32(0x00ff00), colors[scene.KindSofa])
}

func TestValidate_RejectsMalformedRecords(t *testing.T) {
	start, end := [3]float64{0, 0, 0}, [3]float64{2, 0, 0}
	one := [3]float64{1, 1, 1}
	wall := func() ObjectRecord {
		s, e := start, end
		return ObjectRecord{ID: "w", Type: TypeWall, Scale: one, Tags: TagSet{Wall: true},
			Direction: placement.Horizontal, Start: &s, End: &e}
	}

	cases := map[string]func() ObjectRecord{
		"unknown type": func() ObjectRecord { return ObjectRecord{Type: "lamp", Scale: one} },
		"furniture without kind": func() ObjectRecord {
			return ObjectRecord{Type: TypeFurniture, Scale: one, Tags: TagSet{Movable: true}}
		},
		"furniture with endpoints": func() ObjectRecord {
			s := start
			return ObjectRecord{Type: TypeFurniture, Scale: one, Tags: TagSet{Kind: scene.KindChair}, Start: &s}
		},
		"movable wall":       func() ObjectRecord { r := wall(); r.Tags.Movable = true; return r },
		"missing direction":  func() ObjectRecord { r := wall(); r.Direction = ""; return r },
		"missing endpoint":   func() ObjectRecord { r := wall(); r.End = nil; return r },
		"zero length":        func() ObjectRecord { r := wall(); e := start; r.End = &e; return r },
		"zero scale":         func() ObjectRecord { r := wall(); r.Scale = [3]float64{}; return r },
		"nan position":       func() ObjectRecord { r := wall(); r.Position[0] = math.NaN(); return r },
		"bad order":          func() ObjectRecord { r := wall(); r.Rotation.Order = "XXY"; return r },
		"window attachment":  func() ObjectRecord { r := wall(); r.Attachments = []Attachment{{Kind: "window", Scale: one}}; return r },
		"foreign attachment": func() ObjectRecord { r := wall(); r.Attachments = []Attachment{{Kind: AttachmentDoor, Parent: "x", Scale: one}}; return r },
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(&SceneDocument{Version: 2, Objects: []ObjectRecord{rec()}})
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}

	assert.NoError(t, Validate(&SceneDocument{Version: 2, Objects: []ObjectRecord{wall()}}))
	assert.ErrorIs(t, Validate(nil), ErrInvalidDocument)
}
