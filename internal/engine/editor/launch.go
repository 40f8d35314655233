package editor

import (
	"context"
	"fmt"
	"net/url"
)

// Launch is what the page URL asks the engine to do at start-up.
type Launch struct {
	ViewOnly bool
	SceneID  string
}

// ParseLaunch reads ?mode=view and ?scene=<id> from the page URL.
func ParseLaunch(rawURL string) (Launch, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Launch{}, fmt.Errorf("parse launch url: %w", err)
	}
	q := u.Query()
	return Launch{
		ViewOnly: q.Get("mode") == "view",
		SceneID:  q.Get("scene"),
	}, nil
}

// Start applies launch options: view-only mode first, then the scene load.
func (e *Editor) Start(ctx context.Context, l Launch) error {
	if l.ViewOnly {
		e.EnterViewOnly()
	}
	if l.SceneID == "" {
		return nil
	}
	return e.Load(ctx, l.SceneID)
}
