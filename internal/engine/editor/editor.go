package editor

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"roomplanner/internal/engine/document"
	"roomplanner/internal/engine/furniture"
	"roomplanner/internal/engine/picking"
	"roomplanner/internal/engine/placement"
	"roomplanner/internal/engine/resources"
	"roomplanner/internal/engine/scene"
)

var (
	ErrLoadFailure = errors.New("scene load failed")
	ErrSaveFailure = errors.New("scene save failed")
	ErrViewOnly    = errors.New("editing is disabled in view-only mode")
)

const floorColor uint32 = 0xcccccc

// ============================================================
// Editor
// ============================================================

// Editor owns the scene graph and turns pointer input and UI commands into
// scene mutations. It is not safe for concurrent use: the host must
// serialize calls.
type Editor struct {
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
	shell    Shell
	orbit    OrbitControl
	store    Store
	library  document.Factory
	releaser resources.Releaser
	res      *resources.Manager
	picker   *picking.Picker

	root        *scene.Node
	floor       *scene.Node
	preview     *scene.Node
	doorPreview *scene.Node
	walls       *placement.WallSet

	mode      Mode
	viewOnly  bool
	direction placement.Direction
	cell      [2]float64
	hasCell   bool

	selected    *scene.Node
	dragOffset  mgl64.Vec3
	lastPointer PointerEvent
}

type Option func(*Editor)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithClock replaces time.Now for booking timestamps and default names.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

func WithShell(s Shell) Option {
	return func(e *Editor) { e.shell = s }
}

func WithOrbitControl(o OrbitControl) Option {
	return func(e *Editor) { e.orbit = o }
}

func WithStore(s Store) Option {
	return func(e *Editor) { e.store = s }
}

// WithLibrary sets the furniture factory. Defaults to the built-in catalog.
func WithLibrary(f document.Factory) Option {
	return func(e *Editor) { e.library = f }
}

func WithReleaser(r resources.Releaser) Option {
	return func(e *Editor) { e.releaser = r }
}

// New builds an editor with an empty room: floor and a hidden wall preview.
func New(cfg Config, camera picking.Camera, viewport picking.Viewport, opts ...Option) *Editor {
	e := &Editor{
		cfg:       cfg,
		log:       zerolog.Nop(),
		now:       time.Now,
		shell:     nopShell{},
		orbit:     nopOrbit{},
		picker:    picking.New(camera, viewport),
		walls:     placement.NewWallSet(cfg.OccupancyEpsilon),
		direction: placement.Horizontal,
		mode:      Idle,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.res = resources.NewManager(resources.WithReleaser(e.releaser), resources.WithLogger(e.log))
	if e.library == nil {
		e.library = furniture.Default(furniture.WithLogger(e.log))
	}

	e.root = scene.NewNode("scene")

	e.floor = scene.NewMeshNode("floor", scene.NewMesh(
		scene.NewBoxGeometry(cfg.FloorWidth, 0.02, cfg.FloorDepth),
		scene.NewMaterial(floorColor),
	))
	e.floor.Transform.Position = mgl64.Vec3{0, -0.01, 0}

	e.preview = placement.NewPreviewWall(cfg.wallSize())
	e.doorPreview = placement.NewPreviewDoor()

	e.root.Add(e.floor, e.preview, e.doorPreview)
	e.res.Retain(e.floor)
	e.res.Retain(e.preview)
	e.res.Retain(e.doorPreview)
	return e
}

func (e *Editor) Mode() Mode { return e.mode }

func (e *Editor) Root() *scene.Node { return e.root }

func (e *Editor) Floor() *scene.Node { return e.floor }

func (e *Editor) Preview() *scene.Node { return e.preview }

func (e *Editor) DoorPreview() *scene.Node { return e.doorPreview }

// Walls returns committed walls in creation order.
func (e *Editor) Walls() []*scene.Node { return e.walls.Walls() }

func (e *Editor) Resources() *resources.Manager { return e.res }

func (e *Editor) SetCamera(c picking.Camera) { e.picker.Camera = c }

func (e *Editor) SetViewport(v picking.Viewport) { e.picker.Viewport = v }

func (e *Editor) Status() Status {
	st := Status{
		Mode:           e.mode,
		ViewOnly:       e.viewOnly,
		Direction:      e.direction,
		PreviewVisible: e.preview.Visible,
		PreviewAt:      e.preview.Transform.Position,
		Walls:          e.walls.Len(),
	}
	for _, child := range e.root.Children() {
		if child.Tags.IsFurniture() {
			st.Furniture++
		}
	}
	if e.selected != nil {
		st.Selected = e.selected.ID
	}
	return st
}

// Document serializes the current scene.
func (e *Editor) Document() *document.SceneDocument {
	return document.Serialize(e.root)
}

func (e *Editor) setMode(m Mode) {
	if e.mode == m {
		return
	}
	e.log.Debug().Stringer("from", e.mode).Stringer("to", m).Msg("mode")
	e.doorPreview.Visible = false
	e.mode = m
	e.shell.ModeChanged(m)
}

// endManipulation drops any drag or rotate in progress.
func (e *Editor) endManipulation() {
	if e.mode != Dragging && e.mode != Rotating {
		return
	}
	e.selected = nil
	e.orbit.SetEnabled(true)
	e.setMode(Idle)
}
