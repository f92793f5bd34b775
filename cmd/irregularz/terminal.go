package main

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/irregularz/pkg/control"
)

// keyTimeout releases a movement key that has not repeated for this long.
// Many terminals never report key releases.
const keyTimeout = 500 * time.Millisecond

// cellPixels scales cell coordinates so that dragging across the terminal
// turns about as fast as dragging across a window.
const cellPixels = 8

func (v *viewer) runTerminal(ctx context.Context, watch bool) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	v.fitTerminal(width, height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	if watch {
		g.Go(func() error { return v.watchModel(ctx) })
	}
	g.Go(func() error {
		defer cancel()
		return v.terminalLoop(ctx, term, width, height)
	})
	return g.Wait()
}

// fitTerminal sizes the framebuffer to the terminal unless the config fixes
// a size. Each cell shows two pixel rows.
func (v *viewer) fitTerminal(width, height int) {
	if v.cfg.Width > 0 && v.cfg.Height > 0 {
		v.drv.Resize(v.cfg.Width, v.cfg.Height)
		return
	}
	v.drv.Resize(width, height*2)
}

func (v *viewer) terminalLoop(ctx context.Context, term *uv.Terminal, width, height int) error {
	ticker := time.NewTicker(v.frameDuration())
	defer ticker.Stop()

	ctl := v.drv.Control()
	pressed := make(map[control.Movement]time.Time)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-term.Events():
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				v.fitTerminal(width, height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					return nil
				case ev.MatchString("z"):
					v.drv.SetShadows(!v.drv.Shadows())
				case ev.MatchString("x"):
					v.drv.SetOverlay(!v.drv.Overlay())
				case ev.MatchString("?", "shift+/"):
					v.showHUD = !v.showHUD
				}
				for _, b := range keyBindings {
					if ev.MatchString(b.keys...) {
						ctl.Press(b.move)
						pressed[b.move] = time.Now()
					}
				}

			case uv.KeyReleaseEvent:
				for _, b := range keyBindings {
					if ev.MatchString(b.keys...) {
						ctl.Release(b.move)
						delete(pressed, b.move)
					}
				}

			case uv.MouseClickEvent:
				ctl.MouseDown(ev.X*cellPixels, ev.Y*cellPixels)

			case uv.MouseReleaseEvent:
				ctl.MouseUp()

			case uv.MouseMotionEvent:
				ctl.MouseMove(ev.X*cellPixels, ev.Y*cellPixels)
			}

		case <-ticker.C:
			v.pollReload()

			now := time.Now()
			for move, at := range pressed {
				if now.Sub(at) > keyTimeout {
					ctl.Release(move)
					delete(pressed, move)
				}
			}

			dt := min(now.Sub(lastFrame).Seconds(), 0.1)
			lastFrame = now

			v.drv.Frame(dt)
			v.hud.tick()

			fb := v.drv.ColorBuffer()
			term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
				fb.Draw(scr, area)
				if v.showHUD {
					v.hud.Draw(scr, area, v.drv.Stats(), v.drv.Shadows())
				}
			}))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
