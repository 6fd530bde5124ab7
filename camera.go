package cubefx

import (
	"math"
	"time"
)

// Viewer exposes the viewing-frustum parameters that stages need to size
// themselves to the visible area.
type Viewer interface {
	// FOV is the vertical field of view in degrees.
	FOV() float64
	// Aspect is the viewport width divided by its height.
	Aspect() float64
	// Distance is the camera's distance from the world origin.
	Distance() float64
	// Zoom is the magnification factor (1 = none).
	Zoom() float64
}

// nearPlane is the closest depth that still projects.
const nearPlane = 0.01

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	// FOVDegrees is the vertical field of view.
	FOVDegrees float64
	// Dist is the distance from the origin along +Z.
	Dist float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	zoom      float64
	zoomTween *Tween

	// changed is called after any change to viewport or zoom.
	changed func()
}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		FOVDegrees: 10,
		Dist:       25,
		Viewport:   viewport,
		zoom:       1,
	}
}

// FOV implements Viewer.
func (c *Camera) FOV() float64 { return c.FOVDegrees }

// Aspect implements Viewer.
func (c *Camera) Aspect() float64 { return c.Viewport.Aspect() }

// Distance implements Viewer.
func (c *Camera) Distance() float64 { return c.Dist }

// Zoom implements Viewer.
func (c *Camera) Zoom() float64 { return c.zoom }

// SetZoom sets the zoom factor and notifies viewport listeners.
// Non-positive values are ignored.
func (c *Camera) SetZoom(zoom float64) {
	if zoom <= 0 || zoom == c.zoom {
		return
	}
	c.zoom = zoom
	c.notify()
}

// SetViewport sets the screen rectangle and notifies viewport listeners.
func (c *Camera) SetViewport(r Rect) {
	if r == c.Viewport {
		return
	}
	c.Viewport = r
	c.notify()
}

// ZoomTo animates the zoom factor to zoom over duration on d. A running
// zoom animation is stopped first. Listeners are notified every frame.
func (c *Camera) ZoomTo(d *Driver, zoom float64, duration time.Duration, fn EaseFunc) *Tween {
	if c.zoomTween != nil {
		c.zoomTween.Stop()
	}
	from := c.zoom
	c.zoomTween = NewTween(d, TweenConfig{
		Duration: duration,
		Ease:     fn,
		OnUpdate: func(p TweenProgress) {
			c.SetZoom(lerp(from, zoom, p.Value))
		},
		OnComplete: func() {
			c.zoomTween = nil
		},
	})
	return c.zoomTween
}

func (c *Camera) notify() {
	if c.changed != nil {
		c.changed()
	}
}

// VisibleHeight returns the height of the world-space plane at the given
// depth offset from the origin (positive towards the camera) that fills the
// viewport.
func (c *Camera) VisibleHeight(offset float64) float64 {
	return VisibleHeight(c, offset)
}

// VisibleHeight computes the visible world-space height of a plane facing
// the viewer, offset from the origin towards it, taking zoom into account.
func VisibleHeight(v Viewer, offset float64) float64 {
	fov := v.FOV() * math.Pi / 180
	h := 2 * math.Tan(fov/2) * (v.Distance() - offset)
	return h / v.Zoom()
}

// pixelsPerUnit returns the screen scale at the given depth from the camera.
func (c *Camera) pixelsPerUnit(depth float64) float64 {
	fov := c.FOVDegrees * math.Pi / 180
	return c.Viewport.Height / 2 / (math.Tan(fov/2) * depth) * c.zoom
}

// Project converts a world-space point to screen coordinates. scale is the
// number of pixels per world unit at the point's depth. ok is false for
// points behind the near plane.
func (c *Camera) Project(p Vec3) (screen Vec2, scale float64, ok bool) {
	depth := c.Dist - p.Z
	if depth < nearPlane {
		return Vec2{}, 0, false
	}
	f := c.pixelsPerUnit(depth)
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	return Vec2{X: cx + p.X*f, Y: cy - p.Y*f}, f, true
}
