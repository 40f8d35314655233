package mapper

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomplanner/internal/converter/graph"
	"roomplanner/internal/converter/models"
	"roomplanner/internal/engine/document"
	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/scene"
)

const roomPlan = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="400">
  <rect id="wall-top" x="0" y="0" width="400" height="20"/>
  <rect id="wall-bottom" x="0" y="380" width="400" height="20"/>
  <rect id="wall-left" x="0" y="0" width="20" height="400"/>
  <rect id="wall-right" x="380" y="0" width="20" height="400"/>
  <rect id="door-entry" x="80" y="0" width="40" height="20"/>
  <rect id="door-lost" x="2000" y="2000" width="40" height="20"/>
  <rect id="window-1" x="380" y="100" width="20" height="40"/>
</svg>`

func TestConvertRoom(t *testing.T) {
	res, err := New(models.DefaultOptions(), zerolog.Nop()).Convert(strings.NewReader(roomPlan))
	require.NoError(t, err)

	assert.Equal(t, models.Report{Walls: 8, Doors: 1, Windows: 1, SkippedDoors: 1}, res.Report)
	require.NoError(t, document.Validate(res.Document))
	require.Len(t, res.Document.Objects, 8)

	var doorWall *document.ObjectRecord
	for i := range res.Document.Objects {
		rec := &res.Document.Objects[i]
		assert.Equal(t, document.TypeWall, rec.Type)
		if len(rec.Attachments) > 0 {
			doorWall = rec
		}
	}
	require.NotNil(t, doorWall)
	assert.Equal(t, placement.Horizontal, doorWall.Direction)
	assert.Equal(t, [3]float64{-2, 0, -2}, *doorWall.Start)
	assert.Equal(t, [3]float64{0, 0, -2}, *doorWall.End)

	door := doorWall.Attachments[0]
	assert.Equal(t, document.AttachmentDoor, door.Kind)
	assert.Equal(t, doorWall.ID, door.Parent)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, door.Position[:], 1e-9)
}

func TestConvertLoadsIntoEngine(t *testing.T) {
	res, err := New(models.DefaultOptions(), zerolog.Nop()).Convert(strings.NewReader(roomPlan))
	require.NoError(t, err)

	built, err := document.Build(t.Context(), res.Document, nil, document.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, built.Doors, 1)

	root := scene.NewNode("root")
	root.Add(built.Nodes...)
	pos := built.Doors[0].WorldPosition()
	assert.InDeltaSlice(t, []float64{-1, 1, -2}, pos[:], 1e-9)
}

func TestConvertClampsDoorToWall(t *testing.T) {
	plan := `<svg><rect id="wall" x="0" y="0" width="400" height="20"/>
<rect id="door" x="390" y="0" width="10" height="20"/></svg>`

	res, err := New(models.DefaultOptions(), zerolog.Nop()).Convert(strings.NewReader(plan))
	require.NoError(t, err)
	require.Len(t, res.Document.Objects, 2)

	rec := res.Document.Objects[1]
	assert.Equal(t, [3]float64{0, 0, 0}, *rec.Start)
	require.Len(t, rec.Attachments, 1)
	assert.InDelta(t, 0.6, rec.Attachments[0].Position[0], 1e-9)
}

func TestConvertWithoutWalls(t *testing.T) {
	_, err := New(models.DefaultOptions(), zerolog.Nop()).
		Convert(strings.NewReader(`<svg><rect id="door" x="0" y="0" width="10" height="10"/></svg>`))
	assert.ErrorIs(t, err, ErrNoWalls)

	_, err = New(models.DefaultOptions(), zerolog.Nop()).Convert(strings.NewReader("not xml"))
	assert.Error(t, err)
}

func TestConvertHugeWallIsRefused(t *testing.T) {
	res, err := New(models.DefaultOptions(), zerolog.Nop()).
		Convert(strings.NewReader(`<svg><rect id="Wall_1" x="0" y="0" width="1e9" height="10"/></svg>`))
	assert.ErrorIs(t, err, graph.ErrPlanTooLarge)
	assert.Nil(t, res)
}

func TestRender(t *testing.T) {
	root := scene.NewNode("root")
	wall := placement.NewWall(
		placement.ComputePlacement(0, 0, placement.Horizontal, 2, 2),
		placement.Size{Length: 2, Height: 2, Thickness: 0.2},
	)
	wall.Add(placement.NewDoor(mgl64.Vec3{0.5, 0, 0}))

	chair := scene.NewNode("chair")
	chair.Transform.Position = mgl64.Vec3{3, 0.1, 1}
	chair.Tags.Set(scene.Movable | scene.Booked)
	chair.Tags.Kind = scene.KindChair
	root.Add(wall, chair)

	svg, err := NewRenderer(models.DefaultOptions()).Render(document.Serialize(root))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<?xml`))
	assert.Contains(t, svg, `id="`+wall.ID+`" class="wall"`)
	assert.Contains(t, svg, `class="door"`)
	assert.Contains(t, svg, `class="furniture booked"`)
	assert.Contains(t, svg, `data-kind="chair"`)
	assert.True(t, strings.HasSuffix(svg, `</svg>`))
}

func TestRenderRejectsInvalid(t *testing.T) {
	r := NewRenderer(models.DefaultOptions())

	_, err := r.Render(nil)
	assert.Error(t, err)

	_, err = r.Render(&document.SceneDocument{Version: 1})
	assert.ErrorIs(t, err, document.ErrOutdatedFormat)
}
