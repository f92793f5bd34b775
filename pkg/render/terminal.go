package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

var _ uv.Drawable = (*ColorBuffer)(nil)

// Draw paints the buffer onto the screen area using upper half blocks: each
// terminal row shows two pixel rows, the top one as foreground and the bottom
// one as background. The buffer should be twice as tall as area.
func (fb *ColorBuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		y := (row - area.Min.Y) * 2
		if y >= fb.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.At(x, y)),
					Bg: cellColor(fb.At(x, y+1)),
				},
			})
		}
	}
}

// cellColor maps a packed pixel to a terminal color. Transparent pixels,
// including those below the last row, leave the terminal default.
func cellColor(p uint32) color.Color {
	c := Unpack(p)
	if c.A == 0 {
		return nil
	}
	return c
}
