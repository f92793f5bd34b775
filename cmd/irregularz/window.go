package main

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/sync/errgroup"
)

// windowKeys maps window keys to the terminal key names in keyBindings.
var windowKeys = map[string]ebiten.Key{
	"w":     ebiten.KeyW,
	"up":    ebiten.KeyArrowUp,
	"s":     ebiten.KeyS,
	"down":  ebiten.KeyArrowDown,
	"a":     ebiten.KeyA,
	"left":  ebiten.KeyArrowLeft,
	"d":     ebiten.KeyD,
	"right": ebiten.KeyArrowRight,
	"space": ebiten.KeySpace,
	"c":     ebiten.KeyC,
}

// game presents the viewer in a window.
type game struct {
	ctx      context.Context
	v        *viewer
	img      *ebiten.Image
	pix      []byte
	dragging bool
}

func (v *viewer) runWindow(ctx context.Context, watch bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if watch {
		g.Go(func() error { return v.watchModel(gctx) })
	}

	ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	ebiten.SetWindowTitle("irregularz - " + v.hud.name)
	ebiten.SetTPS(v.cfg.FPS)
	v.drv.Resize(v.cfg.Width, v.cfg.Height)

	// RunGame must stay on the main goroutine.
	err := ebiten.RunGame(&game{ctx: gctx, v: v})
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.v.drv.SetShadows(!g.v.drv.Shadows())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.v.drv.SetOverlay(!g.v.drv.Overlay())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		g.v.showHUD = !g.v.showHUD
	}

	ctl := g.v.drv.Control()
	for _, b := range keyBindings {
		down := false
		for _, name := range b.keys {
			down = down || ebiten.IsKeyPressed(windowKeys[name])
		}
		if down {
			ctl.Press(b.move)
		} else {
			ctl.Release(b.move)
		}
	}

	x, y := ebiten.CursorPosition()
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.dragging:
		g.dragging = true
		ctl.MouseDown(x, y)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		ctl.MouseMove(x, y)
	case g.dragging:
		g.dragging = false
		ctl.MouseUp()
	}

	g.v.pollReload()
	g.v.drv.Frame(1 / float64(ebiten.TPS()))
	g.v.hud.tick()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.v.drv.ColorBuffer()
	if g.img == nil || g.img.Bounds().Dx() != fb.Width || g.img.Bounds().Dy() != fb.Height {
		g.img = ebiten.NewImage(fb.Width, fb.Height)
		g.pix = make([]byte, fb.Size()*4)
	}
	fb.CopyTo(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)

	if g.v.showHUD {
		top, bottom := g.v.hud.lines(g.v.drv.Stats(), g.v.drv.Shadows())
		ebitenutil.DebugPrint(screen, top+"\n"+bottom)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.v.cfg.Width, g.v.cfg.Height
}
