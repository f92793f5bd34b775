// irregularz - software rasterizer with irregular-Z shadows
// Renders a scene on the CPU and shades it with per-pixel exact shadows, in
// the terminal or in a window.
//
// Controls:
//
//	Mouse drag  - Look around
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Space/C     - Rise/sink
//	Z           - Toggle shadows
//	X           - Toggle bounding box overlay
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/taigrr/irregularz/pkg/config"
	"github.com/taigrr/irregularz/pkg/frame"
	"github.com/taigrr/irregularz/pkg/logging"
	"github.com/taigrr/irregularz/pkg/models"
	"github.com/taigrr/irregularz/pkg/scene"
	"github.com/taigrr/irregularz/pkg/snapshot"
)

// modelSize is the largest dimension a loaded model is scaled to.
const modelSize = 20

var (
	configPath = flag.String("config", "", "Path to a TOML config file (default "+config.DefaultPath+")")
	width      = flag.Int("width", 0, "Framebuffer width (default: fit the terminal)")
	height     = flag.Int("height", 0, "Framebuffer height (default: fit the terminal)")
	targetFPS  = flag.Int("fps", 0, "Target FPS")
	workers    = flag.Int("workers", 0, "Shadow worker goroutines (default: GOMAXPROCS)")
	gridSize   = flag.Int("grid", 0, "Shadow grid resolution")
	bias       = flag.Float64("bias", 0, "Shadow depth bias")
	shadows    = flag.Bool("shadows", true, "Enable shadows")
	window     = flag.Bool("window", false, "Open a window instead of drawing in the terminal")
	watch      = flag.Bool("watch", false, "Reload the model when its file changes")
	outPath    = flag.String("snapshot", "", "Render offscreen and save to this .png/.webp/.bmp file")
	frames     = flag.Int("frames", 1, "Frames to advance before a snapshot")
	verbose    = flag.Bool("v", false, "Log to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "irregularz - software rasterizer with irregular-Z shadows\n\n")
		fmt.Fprintf(os.Stderr, "Usage: irregularz [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Without a model a demo scene is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Look around\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move\n")
		fmt.Fprintf(os.Stderr, "  Space/C     - Rise/sink\n")
		fmt.Fprintf(os.Stderr, "  Z           - Toggle shadows\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle bounding box overlay\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(modelPath string) (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}

	flags := config.Flags{
		Width:    *width,
		Height:   *height,
		FPS:      *targetFPS,
		Workers:  *workers,
		GridSize: *gridSize,
		Bias:     *bias,
		Window:   *window,
		Model:    modelPath,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "shadows" {
			flags.Shadows = shadows
		}
	})
	cfg.Resolve(flags)

	if *outPath != "" {
		if cfg.Width <= 0 {
			cfg.Width = 640
		}
		if cfg.Height <= 0 {
			cfg.Height = 480
		}
	}
	return cfg, cfg.Validate()
}

// buildScene loads the configured model onto a turntable, or the demo scene
// when there is none. leaf is nil for the demo scene.
func buildScene(cfg config.Config) (sc *scene.Scene, leaf *scene.Node, name string, err error) {
	if cfg.Model == "" {
		return frame.DemoScene(), nil, "demo", nil
	}
	m, err := models.Load(cfg.Model)
	if err != nil {
		return nil, nil, "", fmt.Errorf("load model: %w", err)
	}
	sc, leaf = frame.ModelScene(m, modelSize)
	return sc, leaf, filepath.Base(cfg.Model), nil
}

func run(modelPath string) error {
	cfg, err := loadConfig(modelPath)
	if err != nil {
		return err
	}

	sc, leaf, name, err := buildScene(cfg)
	if err != nil {
		return err
	}

	drv := frame.New(cfg, sc)
	defer drv.Close()

	if *outPath != "" {
		return saveSnapshot(drv, cfg, *outPath, *frames)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &viewer{
		cfg:    cfg,
		drv:    drv,
		leaf:   leaf,
		hud:    newHUD(name, countTriangles(sc)),
		reload: make(chan *models.Model, 1),
	}

	if cfg.Presenter == config.PresenterWindow {
		return app.runWindow(ctx, *watch)
	}
	return app.runTerminal(ctx, *watch)
}

func saveSnapshot(drv *frame.Driver, cfg config.Config, path string, n int) error {
	dt := 1 / float64(cfg.FPS)
	for range max(n, 1) {
		drv.Frame(dt)
	}
	if err := snapshot.Save(path, drv.ColorBuffer()); err != nil {
		return err
	}
	st := drv.Stats()
	logging.Logger().Info("snapshot saved", "path", path,
		"fragments", st.Render.Fragments, "shadowed", st.Shadow.Shadowed, "elapsed", st.Elapsed)
	return nil
}

func countTriangles(sc *scene.Scene) int {
	total := 0
	sc.Walk(func(n *scene.Node) bool {
		if m := n.Model(); m != nil {
			total += m.TriangleCount()
		}
		return true
	})
	return total
}
