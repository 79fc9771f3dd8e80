package nav

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
)

// FlyKeys is the keyboard state relevant for flying.
type FlyKeys struct {
	Forward, Backward   bool // W S
	Left, Right         bool // A D
	Up, Down            bool // R F
	RollLeft, RollRight bool // Q E
	Slow                bool // Shift
	Control             bool
}

func (k FlyKeys) any() bool {
	return k.Forward || k.Backward || k.Left || k.Right || k.Up || k.Down || k.RollLeft || k.RollRight
}

// Fly moves the camera with the keyboard.
type Fly struct {
	Settings Settings
}

// Apply advances the camera by dt seconds. It reports whether the camera
// changed. Nothing happens while Control is held, those keys belong to
// menu shortcuts.
func (f Fly) Apply(cam *core.Camera, k FlyKeys, dt float64) bool {
	if k.Control || !k.any() || dt <= 0 {
		return false
	}
	speed := f.Settings.FlySpeed * dt
	roll := f.Settings.RollSpeed * dt
	if k.Slow {
		speed /= 10
		roll /= 10
	}

	var move mgl64.Vec3
	axis := func(pos, neg bool, dir mgl64.Vec3) {
		if pos {
			move = move.Add(dir)
		}
		if neg {
			move = move.Sub(dir)
		}
	}
	axis(k.Forward, k.Backward, cam.Forward())
	axis(k.Right, k.Left, cam.Right())
	axis(k.Up, k.Down, cam.Up())
	if move.LenSqr() > geom.Epsilon {
		cam.Translate(move.Normalize().Mul(speed))
	}

	switch {
	case k.RollLeft && !k.RollRight:
		cam.Rotate(mgl64.QuatRotate(mgl64.DegToRad(-roll), cam.Forward()))
	case k.RollRight && !k.RollLeft:
		cam.Rotate(mgl64.QuatRotate(mgl64.DegToRad(roll), cam.Forward()))
	}
	return true
}

// Zoom dollies the camera towards target by wheel notches (positive zooms
// in). The step is a fraction of the remaining distance, scaled by
// Settings.Dampening, so the camera never reaches or passes the target.
func Zoom(cam *core.Camera, target mgl64.Vec3, wheel float64, fast bool, s Settings) {
	if wheel == 0 {
		return
	}
	dir := target.Sub(cam.Translation)
	dist := dir.Len()
	if dist < geom.Epsilon {
		dir, dist = cam.Forward(), 1
	} else {
		dir = dir.Mul(1 / dist)
	}
	step := s.ZoomStep
	if fast {
		step *= s.FastFactor
	}
	frac := step * wheel * s.Dampening(dist)
	if frac > 0.9 {
		frac = 0.9
	}
	cam.Translate(dir.Mul(frac * dist))
}
