package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomplanner/internal/engine/document"
	"roomplanner/internal/engine/editor"
	"roomplanner/internal/engine/picking"
)

type memStore struct {
	docs map[string]*document.SceneDocument
}

func (m *memStore) SaveScene(_ context.Context, name string, doc *document.SceneDocument) (string, error) {
	id := fmt.Sprintf("scene-%d", len(m.docs)+1)
	m.docs[id] = doc
	return id, nil
}

func (m *memStore) LoadScene(_ context.Context, id string) (*document.SceneDocument, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("no scene %s", id)
	}
	return doc, nil
}

func newRunner(store *memStore) (*runner, *bytes.Buffer) {
	viewport := picking.Viewport{Width: 800, Height: 800}
	ed := editor.New(editor.DefaultConfig(), picking.NewTopDownCamera(10, 20), viewport,
		editor.WithStore(store))
	out := &bytes.Buffer{}
	return &runner{
		ed:     ed,
		screen: screen{viewport: viewport, halfExtent: 10},
		out:    out,
		log:    zerolog.Nop(),
	}, out
}

func TestScreenMapping(t *testing.T) {
	s := screen{viewport: picking.Viewport{Width: 800, Height: 800}, halfExtent: 10}
	x, y := s.at(2, -3)
	assert.Equal(t, 480.0, x)
	assert.Equal(t, 280.0, y)
}

func TestRunBuildsAndSaves(t *testing.T) {
	store := &memStore{docs: map[string]*document.SceneDocument{}}
	r, out := newRunner(store)

	script := `
# two walls and a chair
wall on
click 2 0
direction
click 4 0
wall off
add chair
save Demo
status
`
	require.NoError(t, r.Run(context.Background(), strings.NewReader(script)))

	assert.Contains(t, out.String(), "direction vertical")
	assert.Contains(t, out.String(), "saved scene-1")
	assert.Contains(t, out.String(), "mode=idle view=false direction=vertical walls=2 furniture=1")

	doc := store.docs["scene-1"]
	require.NotNil(t, doc)
	assert.Len(t, doc.Objects, 3)
}

func TestRunLoadInViewOnly(t *testing.T) {
	store := &memStore{docs: map[string]*document.SceneDocument{}}
	author, _ := newRunner(store)
	require.NoError(t, author.Run(context.Background(), strings.NewReader("add table\nsave\n")))

	viewer, out := newRunner(store)
	require.NoError(t, viewer.Run(context.Background(), strings.NewReader("view\nload scene-1\nstatus\n")))
	assert.Contains(t, out.String(), "view=true")
	assert.Contains(t, out.String(), "furniture=1")

	err := viewer.Run(context.Background(), strings.NewReader("wall on\n"))
	assert.ErrorIs(t, err, editor.ErrViewOnly)
}

func TestRunDoorAimAndPlace(t *testing.T) {
	r, out := newRunner(&memStore{docs: map[string]*document.SceneDocument{}})

	script := `
wall on
direction
click 2 0
wall off
aim 2 1
aim -6 -6
door 2 1
`
	require.NoError(t, r.Run(context.Background(), strings.NewReader(script)))
	assert.Contains(t, out.String(), "door preview shown\ndoor preview hidden\n")
	assert.Contains(t, out.String(), "door ")
	assert.NotContains(t, out.String(), "no wall there")

	doc := r.ed.Document()
	require.Len(t, doc.Objects, 1)
	assert.Len(t, doc.Objects[0].Attachments, 1)
}

func TestRunErrors(t *testing.T) {
	r, _ := newRunner(&memStore{docs: map[string]*document.SceneDocument{}})

	for _, script := range []string{
		"jump",
		"move 1",
		"move x 1",
		"click 1 1 middle",
		"wall sideways",
		"add",
		"add lamp",
		"drag 1 1",
		"aim 1",
	} {
		err := r.Run(context.Background(), strings.NewReader(script))
		assert.Error(t, err, script)
		assert.Contains(t, err.Error(), "line 1", script)
	}
}

func TestRunDump(t *testing.T) {
	r, out := newRunner(&memStore{docs: map[string]*document.SceneDocument{}})
	require.NoError(t, r.Run(context.Background(), strings.NewReader("dump\n")))

	doc, err := document.Decode(out.Bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Objects)
}
