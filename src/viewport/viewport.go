package viewport

import "math"

// Limits bounds the zoom factor and sets the multiplicative step
// applied per wheel notch.
type Limits struct {
	MinZoom float64
	MaxZoom float64
	Step    float64
}

// Transform maps frozen-capture coordinates to view pixels. A capture
// point c is shown on screen at (c - Pan) * Zoom, so Pan is the capture
// point under the view origin and Zoom is view pixels per capture pixel.
type Transform struct {
	Zoom       float64
	PanX, PanY float64
}

// Identity is the transform used at the start of every session: 1:1
// pixels, no offset.
func Identity() Transform { return Transform{Zoom: 1} }

// ToScreen maps a capture point to view pixels.
func (t Transform) ToScreen(cx, cy float64) (float64, float64) {
	return (cx - t.PanX) * t.Zoom, (cy - t.PanY) * t.Zoom
}

// ToCapture maps a view pixel to the capture point shown there.
func (t Transform) ToCapture(sx, sy float64) (float64, float64) {
	return sx/t.Zoom + t.PanX, sy/t.Zoom + t.PanY
}

// Viewport owns the view transform for one overlay session and keeps
// it inside the configured limits. The extent is the capture size in
// pixels; the overlay window has the same size, so view pixels and
// capture pixels coincide at zoom 1.
type Viewport struct {
	limits Limits
	width  float64
	height float64
	t      Transform
}

func New(limits Limits) *Viewport {
	return &Viewport{limits: limits, t: Identity()}
}

// SetExtent records the capture dimensions for the session and resets
// the transform to identity.
func (v *Viewport) SetExtent(w, h int) {
	v.width = float64(w)
	v.height = float64(h)
	v.Reset()
}

func (v *Viewport) Reset() { v.t = Identity() }

func (v *Viewport) Transform() Transform { return v.t }
func (v *Viewport) Zoom() float64        { return v.t.Zoom }
func (v *Viewport) Pan() (float64, float64) {
	return v.t.PanX, v.t.PanY
}

// ZoomAt applies notches wheel steps anchored at the view point
// (sx, sy): the capture pixel under the cursor stays under the cursor.
// At a zoom bound the transform is left untouched.
func (v *Viewport) ZoomAt(sx, sy float64, notches float64) {
	if notches == 0 {
		return
	}
	z := v.t.Zoom
	nz := clamp(z*math.Pow(v.limits.Step, notches), v.limits.MinZoom, v.limits.MaxZoom)
	if nz == z {
		return
	}

	cx, cy := v.t.ToCapture(sx, sy)
	v.t.PanX = cx - (cx-v.t.PanX)*(z/nz)
	v.t.PanY = cy - (cy-v.t.PanY)*(z/nz)
	v.t.Zoom = nz
	v.clampPan()
}

// PanBy shifts the content by a view-space delta, as when dragging:
// positive dx moves the content right, revealing capture further left.
func (v *Viewport) PanBy(dx, dy float64) {
	v.t.PanX -= dx / v.t.Zoom
	v.t.PanY -= dy / v.t.Zoom
	v.clampPan()
}

// clampPan keeps the visible window inside the capture when zoomed in,
// and the capture inside the window when zoomed out. Applying it to an
// already-clamped transform changes nothing.
func (v *Viewport) clampPan() {
	v.t.PanX = clampAxis(v.t.PanX, v.width, v.t.Zoom)
	v.t.PanY = clampAxis(v.t.PanY, v.height, v.t.Zoom)
}

func clampAxis(pan, extent, zoom float64) float64 {
	slack := extent - extent/zoom
	return clamp(pan, math.Min(0, slack), math.Max(0, slack))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
