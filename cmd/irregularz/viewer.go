package main

import (
	"time"

	"github.com/taigrr/irregularz/pkg/config"
	"github.com/taigrr/irregularz/pkg/control"
	"github.com/taigrr/irregularz/pkg/frame"
	"github.com/taigrr/irregularz/pkg/logging"
	"github.com/taigrr/irregularz/pkg/models"
	"github.com/taigrr/irregularz/pkg/scene"
)

// viewer is the state shared by the terminal and window front ends. It is
// owned by the goroutine running the frame loop; the model watcher hands
// it new models over reload.
type viewer struct {
	cfg  config.Config
	drv  *frame.Driver
	leaf *scene.Node
	hud  *hud

	reload  chan *models.Model
	showHUD bool
}

// keyBindings maps key names to the movement they hold.
var keyBindings = []struct {
	keys []string
	move control.Movement
}{
	{[]string{"w", "up"}, control.Forward},
	{[]string{"s", "down"}, control.Back},
	{[]string{"a", "left"}, control.Left},
	{[]string{"d", "right"}, control.Right},
	{[]string{"space"}, control.Up},
	{[]string{"c"}, control.Down},
}

// setModel swaps the displayed model, keeping it on the floor.
func (v *viewer) setModel(m *models.Model) {
	if v.leaf == nil {
		return
	}
	v.leaf.SetModel(m)
	frame.Place(v.leaf, m, modelSize)
	v.hud.triangles = m.TriangleCount()
	logging.Logger().Info("model reloaded", "name", m.Name, "triangles", m.TriangleCount())
}

// pollReload applies a pending model from the watcher, if any.
func (v *viewer) pollReload() {
	select {
	case m := <-v.reload:
		v.setModel(m)
	default:
	}
}

// frameDuration returns the target time between frames.
func (v *viewer) frameDuration() time.Duration {
	return time.Second / time.Duration(v.cfg.FPS)
}
