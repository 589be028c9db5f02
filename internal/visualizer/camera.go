package visualizer

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	nearPlane = 0.05
	farPlane  = 100.0

	minZoom = 0.3
	maxZoom = 4.0
)

// Camera is a look-at camera with a vertical field of view in degrees.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	FOV      float32
}

// ViewProjection returns projection * view for a viewport of the given
// width/height ratio.
func (c Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	fov := c.FOV
	if fov <= 0 || fov >= 180 {
		fov = 45
	}
	proj := mgl32.Perspective(mgl32.DegToRad(fov), aspect, nearPlane, farPlane)
	view := mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// Orbit moves a base camera around its target. Yaw and zoom follow their
// targets through critically damped springs so key presses glide.
type Orbit struct {
	base   Camera
	spring harmonica.Spring

	yaw, yawVel, yawTarget    float64
	zoom, zoomVel, zoomTarget float64
}

// NewOrbit creates an orbit around base animated at fps frames per second.
func NewOrbit(base Camera, fps int) *Orbit {
	return &Orbit{
		base:       base,
		spring:     harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 6.0, 1.0),
		zoom:       1,
		zoomTarget: 1,
	}
}

// Rotate turns the target yaw by delta radians.
func (o *Orbit) Rotate(delta float64) {
	o.yawTarget += delta
}

// Zoom scales the target distance by factor, within [minZoom, maxZoom].
func (o *Orbit) Zoom(factor float64) {
	o.zoomTarget = math.Min(math.Max(o.zoomTarget*factor, minZoom), maxZoom)
}

// Reset returns to the configured camera.
func (o *Orbit) Reset() {
	o.yawTarget = 0
	o.zoomTarget = 1
}

// Step advances the springs by one frame.
func (o *Orbit) Step() {
	o.yaw, o.yawVel = o.spring.Update(o.yaw, o.yawVel, o.yawTarget)
	o.zoom, o.zoomVel = o.spring.Update(o.zoom, o.zoomVel, o.zoomTarget)
}

// Settled reports whether both springs have reached their targets.
func (o *Orbit) Settled() bool {
	const eps = 1e-3
	return math.Abs(o.yaw-o.yawTarget) < eps && math.Abs(o.yawVel) < eps &&
		math.Abs(o.zoom-o.zoomTarget) < eps && math.Abs(o.zoomVel) < eps
}

// Camera returns the current animated camera.
func (o *Orbit) Camera() Camera {
	offset := o.base.Position.Sub(o.base.Target)
	rot := mgl32.HomogRotate3DY(float32(o.yaw))
	offset = rot.Mul4x1(offset.Vec4(0)).Vec3().Mul(float32(o.zoom))

	c := o.base
	c.Position = c.Target.Add(offset)
	return c
}
