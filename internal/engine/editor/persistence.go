package editor

import (
	"context"
	"errors"
	"fmt"

	"roomplanner/internal/engine/document"
)

// Store is the persistence collaborator.
type Store interface {
	SaveScene(ctx context.Context, name string, doc *document.SceneDocument) (id string, err error)
	LoadScene(ctx context.Context, id string) (*document.SceneDocument, error)
}

// Save serializes the scene and hands it to the store. An empty name
// becomes "Scene <unix millis>".
func (e *Editor) Save(ctx context.Context, name string) (string, error) {
	if e.viewOnly {
		return "", ErrViewOnly
	}
	if e.store == nil {
		return "", fmt.Errorf("%w: no store configured", ErrSaveFailure)
	}
	if name == "" {
		name = fmt.Sprintf("Scene %d", e.now().UnixMilli())
	}

	e.shell.ShowLoading(true)
	defer e.shell.ShowLoading(false)

	doc := e.Document()
	id, err := e.store.SaveScene(ctx, name, doc)
	if err != nil {
		e.log.Error().Err(err).Str("name", name).Msg("save failed")
		e.shell.Notify(Notice{Level: NoticeError, Message: "Save failed: " + err.Error()})
		return "", fmt.Errorf("%w: %w", ErrSaveFailure, err)
	}

	e.log.Info().Str("id", id).Int("objects", len(doc.Objects)).Msg("scene saved")
	e.shell.Notify(Notice{Level: NoticeSuccess, Message: "Scene saved successfully!"})
	return id, nil
}

// Load fetches a scene from the store and replaces the current one.
// On any error the scene is left as it was.
func (e *Editor) Load(ctx context.Context, id string) error {
	if e.store == nil {
		return fmt.Errorf("%w: no store configured", ErrLoadFailure)
	}

	e.shell.ShowLoading(true)
	defer e.shell.ShowLoading(false)

	doc, err := e.store.LoadScene(ctx, id)
	if err != nil {
		return e.loadFailed(id, err)
	}
	return e.apply(ctx, id, doc)
}

// LoadDocument replaces the current scene with doc.
func (e *Editor) LoadDocument(ctx context.Context, doc *document.SceneDocument) error {
	e.shell.ShowLoading(true)
	defer e.shell.ShowLoading(false)
	return e.apply(ctx, "", doc)
}

// apply builds the whole document before touching the live graph, so a
// failure never leaves a half-cleared scene.
func (e *Editor) apply(ctx context.Context, id string, doc *document.SceneDocument) error {
	res, err := document.Build(ctx, doc, e.library, e.cfg.documentOptions(e.viewOnly))
	if err != nil {
		return e.loadFailed(id, err)
	}

	e.endManipulation()
	e.res.Clear(e.root)
	e.walls.Reset()
	e.preview.Visible = false
	e.hasCell = false

	e.root.Add(res.Nodes...)
	for _, wall := range res.Walls {
		if err := e.walls.Add(wall); err != nil {
			e.log.Warn().Str("id", wall.ID).Msg("duplicate wall dropped")
			e.res.Dispose(wall)
		}
	}

	e.log.Info().
		Str("id", id).
		Int("objects", len(doc.Objects)).
		Int("skipped", res.Skipped).
		Msg("scene loaded")
	e.shell.Notify(Notice{Level: NoticeInfo, Message: fmt.Sprintf("Scene loaded with %d objects", len(res.Nodes))})
	return nil
}

func (e *Editor) loadFailed(id string, err error) error {
	if errors.Is(err, document.ErrOutdatedFormat) {
		e.log.Warn().Err(err).Str("id", id).Msg("outdated scene")
		e.shell.Notify(Notice{Level: NoticeError, Message: "This scene was saved in an outdated format and cannot be loaded."})
		return err
	}
	e.log.Error().Err(err).Str("id", id).Msg("load failed")
	e.shell.Notify(Notice{Level: NoticeError, Message: "Load failed: " + err.Error()})
	return fmt.Errorf("%w: %w", ErrLoadFailure, err)
}
