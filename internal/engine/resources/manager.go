package resources

import (
	"github.com/rs/zerolog"

	"roomplanner/internal/engine/scene"
)

// ============================================================
// Resource Lifecycle Manager
// ============================================================

// Releaser frees renderer-side buffers for a geometry or material.
type Releaser interface {
	ReleaseGeometry(g *scene.Geometry)
	ReleaseMaterial(m *scene.Material)
}

// Stats counts what the manager has released so far.
type Stats struct {
	Nodes      int
	Geometries int
	Materials  int
}

// Manager releases the resources owned by removed nodes exactly once.
// Retained nodes (floor, placement preview) are never disposed.
type Manager struct {
	releaser Releaser
	retained map[*scene.Node]struct{}
	stats    Stats
	log      zerolog.Logger
}

type Option func(*Manager)

func WithReleaser(r Releaser) Option {
	return func(m *Manager) { m.releaser = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		retained: make(map[*scene.Node]struct{}),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Retain marks n as a fixture that Dispose and Clear must leave alone.
func (m *Manager) Retain(n *scene.Node) {
	m.retained[n] = struct{}{}
}

func (m *Manager) Retained(n *scene.Node) bool {
	_, ok := m.retained[n]
	return ok
}

// Dispose detaches n and releases every geometry and material in its
// subtree. Retained nodes inside the subtree are detached from it and
// skipped, as are subtrees disposed earlier. Returns the number of nodes
// newly disposed.
func (m *Manager) Dispose(n *scene.Node) int {
	if n == nil || m.Retained(n) {
		return 0
	}
	n.Detach()

	count := 0
	n.Walk(func(cur *scene.Node) bool {
		if cur.Disposed() {
			return false
		}
		if cur != n && m.Retained(cur) {
			cur.Detach()
			return false
		}
		m.release(cur)
		cur.MarkDisposed()
		count++
		return true
	})
	m.stats.Nodes += count

	m.log.Debug().Str("node", n.ID).Int("disposed", count).Msg("disposed subtree")
	return count
}

// Clear disposes every tagged child of root, keeping retained ones.
func (m *Manager) Clear(root *scene.Node) int {
	count := 0
	for _, child := range root.Children() {
		if m.Retained(child) {
			continue
		}
		if child.Tags.Caps == 0 && !child.Tags.IsFurniture() {
			continue
		}
		count += m.Dispose(child)
	}
	return count
}

func (m *Manager) Stats() Stats { return m.stats }

func (m *Manager) release(n *scene.Node) {
	if n.Mesh == nil {
		return
	}
	if g := n.Mesh.Geometry; g != nil && g.Release() {
		m.stats.Geometries++
		if m.releaser != nil {
			m.releaser.ReleaseGeometry(g)
		}
	}
	if mat := n.Mesh.Material; mat != nil && mat.Release() {
		m.stats.Materials++
		if m.releaser != nil {
			m.releaser.ReleaseMaterial(mat)
		}
	}
}
