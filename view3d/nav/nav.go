// Package nav holds the camera navigation controllers of the 3D view. All
// controllers mutate a core.Camera in place and keep no reference to it
// between calls.
package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
)

// LevelThreshold is the |forward . up| above which the camera is considered
// to look straight up or down and roll correction is skipped.
const LevelThreshold = 0.98

type Settings struct {
	RotationSpeed float64 // degrees per pixel
	InvertY       bool
	FlySpeed      float64 // m/s
	RollSpeed     float64 // degrees per second
	ZoomStep      float64 // fraction of the target distance per wheel notch
	FastFactor    float64

	// Orbit rotation and wheel zoom slow down for targets farther away
	// than this.
	DampeningDistance float64
}

func DefaultSettings() Settings {
	return Settings{
		RotationSpeed:     0.4,
		FlySpeed:          10,
		RollSpeed:         45,
		ZoomStep:          0.1,
		FastFactor:        5,
		DampeningDistance: 100,
	}
}

// Dampening scales orbit and zoom speed for far-away targets.
func (s Settings) Dampening(distance float64) float64 {
	if s.DampeningDistance <= 0 || distance <= s.DampeningDistance {
		return 1
	}
	return math.Max(s.DampeningDistance/distance, 0.05)
}

// Level removes camera roll so that the right vector stays horizontal. It
// does nothing while looking nearly straight up or down.
func Level(cam *core.Camera) bool {
	f := cam.Forward()
	if math.Abs(f.Dot(core.WorldUp)) >= LevelThreshold {
		return false
	}
	cam.Rotation = core.LookRotation(f)
	return true
}

// pitch rotates about the camera right axis around pivot. The rotation is
// refused when it would tip the camera over the vertical.
func pitch(cam *core.Camera, deg float64, pivot mgl64.Vec3) {
	if deg == 0 {
		return
	}
	prev := cam.Transform
	q := mgl64.QuatRotate(mgl64.DegToRad(deg), cam.Right())
	cam.RotateAround(q, pivot)
	if cam.Up().Dot(core.WorldUp) < geom.Epsilon {
		cam.Transform = prev
	}
}

func yaw(cam *core.Camera, deg float64, pivot mgl64.Vec3) {
	if deg == 0 {
		return
	}
	cam.RotateAround(mgl64.QuatRotate(mgl64.DegToRad(deg), core.WorldUp), pivot)
}

// FirstPerson turns the camera on the spot.
type FirstPerson struct {
	Settings Settings
}

// Rotate applies a mouse delta in pixels: dx yaws around world up, dy
// pitches around the camera right axis.
func (f FirstPerson) Rotate(cam *core.Camera, dx, dy float64) {
	sy := 1.0
	if f.Settings.InvertY {
		sy = -1
	}
	yaw(cam, -dx*f.Settings.RotationSpeed, cam.Translation)
	pitch(cam, -dy*sy*f.Settings.RotationSpeed, cam.Translation)
	Level(cam)
}

// Orbit rotates the camera around a fixed pivot.
type Orbit struct {
	Settings Settings
	Pivot    mgl64.Vec3

	distance float64
	active   bool
}

func (o *Orbit) Begin(cam *core.Camera, pivot mgl64.Vec3) {
	o.Pivot = pivot
	o.distance = pivot.Sub(cam.Translation).Len()
	o.active = true
}

func (o *Orbit) End()         { o.active = false }
func (o *Orbit) Active() bool { return o.active }

// Distance is the camera to pivot distance captured by Begin.
func (o *Orbit) Distance() float64 { return o.distance }

// Rotate moves the camera around the pivot. The distance to the pivot is
// preserved; dragging down lifts the camera.
func (o *Orbit) Rotate(cam *core.Camera, dx, dy float64) {
	if !o.active {
		return
	}
	speed := o.Settings.RotationSpeed * o.Settings.Dampening(o.distance)
	sy := 1.0
	if o.Settings.InvertY {
		sy = -1
	}
	yaw(cam, -dx*speed, o.Pivot)
	pitch(cam, -dy*sy*speed, o.Pivot)
	Level(cam)
}
