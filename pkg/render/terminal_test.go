package render

import (
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestDrawHalfBlocks(t *testing.T) {
	fb := NewColorBuffer(3, 4)
	fb.Fill(PackRGB(0x000000))
	fb.Set(1, 0, PackRGB(0xFF0000))
	fb.Set(1, 1, PackRGB(0x0000FF))
	fb.Set(2, 3, 0) // transparent

	scr := uv.NewScreenBuffer(3, 2)
	fb.Draw(scr, uv.Rect(0, 0, 3, 2))

	cell := scr.CellAt(1, 0)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell (1, 0) = %+v, want a half block", cell)
	}
	if cell.Style.Fg != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("fg = %v, want red", cell.Style.Fg)
	}
	if cell.Style.Bg != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("bg = %v, want blue", cell.Style.Bg)
	}
	if bg := scr.CellAt(2, 1).Style.Bg; bg != nil {
		t.Errorf("transparent pixel drawn as %v", bg)
	}
}

func TestDrawClipsToBuffer(t *testing.T) {
	fb := NewColorBuffer(2, 2)
	fb.Fill(PackRGB(0xFFFFFF))

	scr := uv.NewScreenBuffer(4, 3)
	fb.Draw(scr, uv.Rect(0, 0, 4, 3))

	if c := scr.CellAt(3, 0); c != nil && c.Content == "▀" {
		t.Error("drew past the buffer width")
	}
	if c := scr.CellAt(0, 2); c != nil && c.Content == "▀" {
		t.Error("drew past the buffer height")
	}
}
