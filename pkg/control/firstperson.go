// Package control turns keyboard and mouse input into camera motion.
package control

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/render"
)

// Movement is a set of held movement keys.
type Movement uint8

const (
	Forward Movement = 1 << iota
	Back
	Left
	Right
	Up
	Down
)

const (
	// Sensitivity is the turn per pixel of mouse drag, in radians.
	Sensitivity = 0.01
	// MaxPitch keeps the view just short of straight up or down.
	MaxPitch = 1.56
)

// FirstPerson flies a camera: held keys translate it along the view
// direction and dragging the mouse turns it. Turning is eased toward the
// dragged orientation by a critically damped spring.
type FirstPerson struct {
	camera *render.Camera
	held   Movement

	dragging     bool
	lastX, lastY int

	// target orientation, set by dragging
	yaw, pitch float64

	// eased orientation, used for the view
	curYaw, curPitch float64
	yawVel, pitchVel float64
	spring           harmonica.Spring
}

// NewFirstPerson creates a controller for camera, keeping its current
// orientation. fps is the expected update rate, used to step the spring.
func NewFirstPerson(camera *render.Camera, fps int) *FirstPerson {
	if fps <= 0 {
		fps = 60
	}
	f := camera.Forward()
	yaw := math.Atan2(-f.X, -f.Z)
	pitch := math.Asin(max(-1, min(1, f.Y)))
	pitch = max(-MaxPitch, min(MaxPitch, pitch))

	// Frequency 6, damping 1: quick with no overshoot.
	return &FirstPerson{
		camera:   camera,
		yaw:      yaw,
		pitch:    pitch,
		curYaw:   yaw,
		curPitch: pitch,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Press marks keys as held.
func (c *FirstPerson) Press(m Movement) { c.held |= m }

// Release marks keys as released.
func (c *FirstPerson) Release(m Movement) { c.held &^= m }

// Held returns the keys currently held.
func (c *FirstPerson) Held() Movement { return c.held }

// MouseDown starts a drag at (x, y).
func (c *FirstPerson) MouseDown(x, y int) {
	c.dragging = true
	c.lastX, c.lastY = x, y
}

// MouseUp ends the drag.
func (c *FirstPerson) MouseUp() { c.dragging = false }

// MouseMove turns the view while dragging. Moving right turns right and
// moving down looks down.
func (c *FirstPerson) MouseMove(x, y int) {
	if c.dragging {
		c.yaw += Sensitivity * float64(c.lastX-x)
		c.pitch += Sensitivity * float64(c.lastY-y)
		c.pitch = max(-MaxPitch, min(MaxPitch, c.pitch))
	}
	c.lastX, c.lastY = x, y
}

// Orientation returns the eased yaw and pitch in radians.
func (c *FirstPerson) Orientation() (yaw, pitch float64) {
	return c.curYaw, c.curPitch
}

// Direction returns the eased unit view direction.
func (c *FirstPerson) Direction() math3d.Vec3 {
	return direction(c.curYaw, c.curPitch)
}

func direction(yaw, pitch float64) math3d.Vec3 {
	return math3d.RotateY(yaw).Mul(math3d.RotateX(pitch)).MulVec3Dir(math3d.V3(0, 0, -1)).Normalize()
}

// Update eases the orientation one step and moves the camera speed units
// per second along the held directions. Opposite keys held together cancel
// in favor of Forward, Left and Up.
func (c *FirstPerson) Update(seconds, speed float64) {
	c.curYaw, c.yawVel = c.spring.Update(c.curYaw, c.yawVel, c.yaw)
	c.curPitch, c.pitchVel = c.spring.Update(c.curPitch, c.pitchVel, c.pitch)

	dir := c.Direction()
	right := dir.Cross(math3d.Up()).Normalize()
	step := seconds * speed
	pos := c.camera.Position

	switch {
	case c.held&Forward != 0:
		pos = pos.Add(dir.Scale(step))
	case c.held&Back != 0:
		pos = pos.Sub(dir.Scale(step))
	}
	switch {
	case c.held&Left != 0:
		pos = pos.Sub(right.Scale(step))
	case c.held&Right != 0:
		pos = pos.Add(right.Scale(step))
	}
	switch {
	case c.held&Up != 0:
		pos.Y += step
	case c.held&Down != 0:
		pos.Y -= step
	}

	c.camera.MoveTo(pos.X, pos.Y, pos.Z)
	target := pos.Add(dir)
	c.camera.LookAt(target.X, target.Y, target.Z)
}
