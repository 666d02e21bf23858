package overlay

import (
	"log"

	"screen-zoomer/src/capture"
	"screen-zoomer/src/highlight"
	"screen-zoomer/src/input"
	"screen-zoomer/src/viewport"
)

// State of the overlay surface.
type State int

const (
	// StateHidden: no window, no frozen frame, no GPU texture.
	StateHidden State = iota
	// StateIdle: overlay visible over a frozen frame.
	StateIdle
	// StatePanning: visible with the left button held; mouse moves pan.
	StatePanning
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateIdle:
		return "idle"
	case StatePanning:
		return "panning"
	default:
		return "invalid"
	}
}

// Capturer freezes the desktop into a Buffer.
type Capturer interface {
	Grab() (*capture.Buffer, error)
}

// Surface owns the OS window and GPU texture for the overlay. Show
// uploads the frame and raises the window; Hide releases the texture
// and conceals the window. Both are called from the tick goroutine.
type Surface interface {
	Show(b *capture.Buffer) error
	Hide()
}

// Controller drives the overlay state machine. All methods run on the
// tick goroutine; cross-thread requests arrive as events through the
// router.
type Controller struct {
	grab   Capturer
	sur    Surface
	vp     *viewport.Viewport
	spot   *highlight.Spotlight
	notify func(string)

	state        State
	buf          *capture.Buffer
	lastX, lastY float64
}

// New wires a controller. notify receives short user-facing messages
// (capture failures, busy copy) and may be nil.
func New(grab Capturer, sur Surface, vp *viewport.Viewport, spot *highlight.Spotlight, notify func(string)) *Controller {
	if notify == nil {
		notify = func(string) {}
	}
	return &Controller{grab: grab, sur: sur, vp: vp, spot: spot, notify: notify}
}

func (c *Controller) State() State { return c.state }

// Buffer returns the frozen frame, or nil while hidden.
func (c *Controller) Buffer() *capture.Buffer { return c.buf }

// Cursor returns the last cursor position seen in view pixels.
func (c *Controller) Cursor() (float64, float64) { return c.lastX, c.lastY }

// Handle applies one event to the state machine. Events that do not
// apply in the current state are ignored.
func (c *Controller) Handle(ev input.Event) error {
	switch ev.Kind {
	case input.KindShow:
		if c.state != StateHidden {
			return nil
		}
		return c.show()

	case input.KindHide:
		if c.state == StateHidden {
			return nil
		}
		c.hide()

	case input.KindMouseDown:
		if c.state != StateIdle {
			return nil
		}
		c.lastX, c.lastY = ev.X, ev.Y
		c.state = StatePanning

	case input.KindMouseUp:
		if c.state != StatePanning {
			return nil
		}
		c.state = StateIdle

	case input.KindMouseMove:
		if c.state == StateHidden {
			return nil
		}
		if c.state == StatePanning {
			c.vp.PanBy(ev.X-c.lastX, ev.Y-c.lastY)
		}
		c.lastX, c.lastY = ev.X, ev.Y
		c.spot.SetCenter(ev.X, ev.Y)

	case input.KindWheel:
		if c.state == StateHidden {
			return nil
		}
		c.lastX, c.lastY = ev.X, ev.Y
		if c.spot.Enabled() && ev.Modified {
			c.spot.Adjust(ev.Delta)
		} else {
			c.vp.ZoomAt(ev.X, ev.Y, ev.Delta)
		}

	case input.KindToggleSpotlight:
		// Legal in every state so the highlighter can be pre-armed
		// before the next show.
		on := c.spot.Toggle()
		log.Printf("overlay: spotlight %v", on)
	}
	return nil
}

// show freezes the screen and brings up the surface. On any failure
// the overlay stays hidden and the user gets a short notice.
func (c *Controller) show() error {
	buf, err := c.grab.Grab()
	if err != nil {
		log.Printf("overlay: capture failed: %v", err)
		c.notify(capture.Describe(err))
		return err
	}

	if err := c.sur.Show(buf); err != nil {
		log.Printf("overlay: surface rejected frame: %v", err)
		c.sur.Hide()
		c.notify("Could not display the frozen frame.")
		return err
	}

	// Window pixels match virtual pixels, so the view extent is the
	// virtual size even when the stored frame was downscaled.
	c.buf = buf
	c.vp.SetExtent(buf.Bounds.Dx(), buf.Bounds.Dy())
	c.spot.SetCenter(c.lastX, c.lastY)
	c.state = StateIdle
	log.Printf("overlay: shown, capture %dx%d scale %.2f", buf.Bounds.Dx(), buf.Bounds.Dy(), buf.Scale)
	return nil
}

// hide conceals the surface and drops the frozen frame. The spotlight
// keeps its radius and enabled flag for the next session.
func (c *Controller) hide() {
	c.sur.Hide()
	c.buf = nil
	c.vp.Reset()
	c.state = StateHidden
	log.Printf("overlay: hidden")
}

// Step advances time-based state while visible.
func (c *Controller) Step(dt float64) {
	if c.state == StateHidden {
		return
	}
	c.spot.Step(dt)
}
