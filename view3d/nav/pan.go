package nav

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
)

// Pan drags the camera parallel to the view plane so that the point grabbed
// at Begin stays under the cursor.
type Pan struct {
	startEye mgl64.Vec3
	startFar mgl64.Vec3
	ratio    float64
	active   bool
}

// Begin starts a drag at pixel. grab is the world point under the cursor,
// usually the front pick candidate; its view depth sets the pan rate.
func (p *Pan) Begin(cam *core.Camera, pixel mgl64.Vec2, grab mgl64.Vec3) bool {
	_, far, ok := core.Unproject(cam.WorldToView(), cam.Viewport, pixel)
	if !ok {
		return false
	}
	p.startEye = cam.Translation
	p.startFar = far

	farDepth := far.Sub(cam.Translation).Dot(cam.Forward())
	depth := grab.Sub(cam.Translation).Dot(cam.Forward())
	p.ratio = 1
	if farDepth > 0 && depth > 0 {
		p.ratio = depth / farDepth
	}
	p.active = true
	return true
}

func (p *Pan) End()         { p.active = false }
func (p *Pan) Active() bool { return p.active }

// Update places the camera for the current cursor position.
func (p *Pan) Update(cam *core.Camera, pixel mgl64.Vec2) {
	if !p.active {
		return
	}
	// unproject with the camera at its start position; the rotation never
	// changes while panning
	cam.Translation = p.startEye
	_, far, ok := core.Unproject(cam.WorldToView(), cam.Viewport, pixel)
	if !ok {
		return
	}
	cam.Translation = p.startEye.Sub(far.Sub(p.startFar).Mul(p.ratio))
}

// Rebase restarts the drag reference at pixel without moving the camera.
// Call it after the cursor was warped.
func (p *Pan) Rebase(cam *core.Camera, pixel mgl64.Vec2) {
	if !p.active {
		return
	}
	_, far, ok := core.Unproject(cam.WorldToView(), cam.Viewport, pixel)
	if !ok {
		return
	}
	p.startEye = cam.Translation
	p.startFar = far
}

// WrapPixel returns where the cursor should be warped to when it comes
// within margin pixels of the viewport border during a drag.
func WrapPixel(vp core.Viewport, pixel mgl64.Vec2, margin float64) (mgl64.Vec2, bool) {
	span := func(v, size float64) (float64, bool) {
		if size <= 2*margin {
			return v, false
		}
		switch {
		case v < margin:
			return v + size - 2*margin, true
		case v > size-margin:
			return v - (size - 2*margin), true
		}
		return v, false
	}
	x, wx := span(pixel.X(), vp.Width)
	y, wy := span(pixel.Y(), vp.Height)
	return mgl64.Vec2{x, y}, wx || wy
}
