package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"roomplanner/internal/engine/editor"
	"roomplanner/internal/engine/picking"
	"roomplanner/internal/engine/scene"
)

// ============================================================
// Script Runner
// ============================================================

// screen maps world floor coordinates to canvas pixels for a top-down
// camera covering ±halfExtent on both axes.
type screen struct {
	viewport   picking.Viewport
	halfExtent float64
}

func (s screen) at(x, z float64) (float64, float64) {
	sx := s.viewport.Width / (2 * s.halfExtent)
	sy := s.viewport.Height / (2 * s.halfExtent)
	return s.viewport.Left + s.viewport.Width/2 + x*sx, s.viewport.Top + s.viewport.Height/2 + z*sy
}

// runner replays one command per line against an editor. Coordinates in
// scripts are world X and Z on the floor.
type runner struct {
	ed     *editor.Editor
	screen screen
	out    io.Writer
	log    zerolog.Logger
}

func (r *runner) Run(ctx context.Context, script io.Reader) error {
	sc := bufio.NewScanner(script)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := r.exec(ctx, strings.Fields(text)); err != nil {
			return fmt.Errorf("line %d: %q: %w", line, text, err)
		}
	}
	return sc.Err()
}

func (r *runner) exec(ctx context.Context, args []string) error {
	r.log.Debug().Strs("args", args).Msg("exec")

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "wall":
		return r.wall(rest)
	case "remove":
		on, err := r.ed.ToggleRemoveMode()
		if err == nil {
			fmt.Fprintf(r.out, "remove mode %v\n", on)
		}
		return err
	case "direction":
		fmt.Fprintf(r.out, "direction %s\n", r.ed.SwitchWallDirection())
		return nil
	case "view":
		r.ed.EnterViewOnly()
		return nil
	case "reset":
		r.ed.Reset()
		return nil

	case "move", "down", "up", "click":
		ev, err := r.event(rest)
		if err != nil {
			return err
		}
		switch cmd {
		case "move":
			r.ed.PointerMove(ev)
		case "down":
			r.ed.PointerDown(ev)
		case "up":
			r.ed.PointerUp(ev)
		case "click":
			r.ed.PointerMove(ev)
			r.ed.PointerDown(ev)
			r.ed.PointerUp(ev)
		}
		return nil

	case "drag":
		if len(rest) < 4 {
			return fmt.Errorf("usage: drag X1 Z1 X2 Z2 [secondary|shift]")
		}
		from, err := r.event(append(rest[:2:2], rest[4:]...))
		if err != nil {
			return err
		}
		to, err := r.event(append(rest[2:4:4], rest[4:]...))
		if err != nil {
			return err
		}
		r.ed.PointerDown(from)
		r.ed.PointerMove(to)
		r.ed.PointerUp(to)
		return nil

	case "aim":
		ev, err := r.event(rest)
		if err != nil {
			return err
		}
		if r.ed.UpdateDoorPreview(ev) {
			fmt.Fprintln(r.out, "door preview shown")
		} else {
			fmt.Fprintln(r.out, "door preview hidden")
		}
		return nil

	case "door":
		ev, err := r.event(rest)
		if err != nil {
			return err
		}
		if door, ok := r.ed.PlaceDoor(ev); ok {
			fmt.Fprintf(r.out, "door %s\n", door.ID)
		} else {
			fmt.Fprintln(r.out, "door: no wall there")
		}
		return nil

	case "add":
		if len(rest) != 1 {
			return fmt.Errorf("usage: add KIND")
		}
		n, err := r.ed.AddFurniture(ctx, scene.Kind(rest[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "added %s %s\n", rest[0], n.ID)
		return nil

	case "save":
		id, err := r.ed.Save(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "saved %s\n", id)
		return nil

	case "load":
		if len(rest) != 1 {
			return fmt.Errorf("usage: load ID")
		}
		return r.ed.Load(ctx, rest[0])

	case "status":
		st := r.ed.Status()
		fmt.Fprintf(r.out, "mode=%s view=%v direction=%s walls=%d furniture=%d selected=%q\n",
			st.Mode, st.ViewOnly, st.Direction, st.Walls, st.Furniture, st.Selected)
		return nil

	case "dump":
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r.ed.Document())
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (r *runner) wall(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: wall on|off|toggle")
	}
	switch args[0] {
	case "on":
		return r.ed.EnableWallMode()
	case "off":
		r.ed.DisableWallMode()
		return nil
	case "toggle":
		on, err := r.ed.ToggleWallMode()
		if err == nil {
			fmt.Fprintf(r.out, "wall mode %v\n", on)
		}
		return err
	}
	return fmt.Errorf("wall: unknown argument %q", args[0])
}

// event parses "X Z [secondary] [shift]" into a pointer event.
func (r *runner) event(args []string) (editor.PointerEvent, error) {
	if len(args) < 2 {
		return editor.PointerEvent{}, fmt.Errorf("need X and Z")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return editor.PointerEvent{}, fmt.Errorf("x: %w", err)
	}
	z, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return editor.PointerEvent{}, fmt.Errorf("z: %w", err)
	}

	ev := editor.PointerEvent{}
	ev.X, ev.Y = r.screen.at(x, z)
	for _, flag := range args[2:] {
		switch flag {
		case "secondary":
			ev.Button = editor.ButtonSecondary
		case "shift":
			ev.Mods |= editor.ModShift
		default:
			return editor.PointerEvent{}, fmt.Errorf("unknown pointer flag %q", flag)
		}
	}
	return ev, nil
}

// ============================================================
// Shell
// ============================================================

// logShell reports shell callbacks as log lines.
type logShell struct {
	log zerolog.Logger
}

func (s logShell) ModeChanged(m editor.Mode) {
	s.log.Debug().Str("mode", m.String()).Msg("mode changed")
}

func (s logShell) ShowLoading(show bool) {
	s.log.Debug().Bool("loading", show).Msg("loading overlay")
}

func (s logShell) Notify(n editor.Notice) {
	ev := s.log.Info()
	if n.Level == editor.NoticeError {
		ev = s.log.Warn()
	}
	ev.Msg(n.Message)
}
