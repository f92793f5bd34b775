package main

import (
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/irregularz/pkg/frame"
)

// hud renders an overlay with frame rate, model info and shadow status.
type hud struct {
	name      string
	triangles int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(name string, triangles int) *hud {
	return &hud{
		name:      name,
		triangles: triangles,
		fpsTime:   time.Now(),
	}
}

// tick updates the FPS counter (call once per frame).
func (h *hud) tick() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// lines returns the top and bottom status lines.
func (h *hud) lines(st frame.Stats, shadows bool) (top, bottom string) {
	top = fmt.Sprintf(" %.0f FPS  %s  %d tris ", h.fps, h.name, h.triangles)

	check := "[ ]"
	if shadows {
		check = "[✓]"
	}
	bottom = fmt.Sprintf(" %s Shadows  %d px  %d samples  %s/frame ",
		check, st.Shadow.Shadowed, st.Shadow.Samples, st.Elapsed.Round(100*time.Microsecond))
	return top, bottom
}

// Draw paints the overlay on the first and last rows of area.
func (h *hud) Draw(scr uv.Screen, area uv.Rectangle, st frame.Stats, shadows bool) {
	const (
		reset   = "\x1b[0m"
		bold    = "\x1b[1m"
		bgBlack = "\x1b[40m"
		fgGreen = "\x1b[92m"
		fgWhite = "\x1b[97m"
	)
	if area.Dy() < 2 {
		return
	}

	top, bottom := h.lines(st, shadows)
	drawLine(scr, area.Min.X, area.Min.Y, area.Dx(), bgBlack+fgGreen+bold+top+reset)
	drawLine(scr, area.Min.X, area.Max.Y-1, area.Dx(), bgBlack+fgWhite+bottom+reset)
}

// drawLine prints styled text at (x, y) without touching the cells past its
// end.
func drawLine(scr uv.Screen, x, y, maxWidth int, text string) {
	s := uv.NewStyledString(text)
	s.Draw(scr, uv.Rect(x, y, min(s.UnicodeWidth(), maxWidth), 1))
}
