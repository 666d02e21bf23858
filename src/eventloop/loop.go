// Package eventloop runs the overlay's single-threaded game loop. All
// state transitions, input dispatch, and drawing happen on the loop
// goroutine; other goroutines talk to it only through input.Router.
package eventloop

import (
	"image"
	"log"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"screen-zoomer/src/highlight"
	"screen-zoomer/src/hud"
	"screen-zoomer/src/input"
	"screen-zoomer/src/overlay"
	"screen-zoomer/src/render"
	"screen-zoomer/src/viewport"
	"screen-zoomer/src/worker"
)

// Options assembles the loop's collaborators. All fields except Copy
// and Conceal must be non-nil.
type Options struct {
	Router   *input.Router
	Control  *overlay.Controller
	Renderer *render.Renderer
	View     *viewport.Viewport
	Spot     *highlight.Spotlight
	HUD      *hud.HUD
	Pool     *worker.Pool

	// Copy writes a frozen frame to the clipboard. Left nil when the
	// clipboard is unavailable; copy requests then only show a toast.
	Copy func(image.Image) error

	// Conceal hides the window right after the loop starts, before the
	// first overlay show. Left nil in tests.
	Conceal func()

	// TPS is the fixed logic rate used for animation steps.
	TPS int
}

// Loop implements ebiten.Game. Update and Draw both run on the loop
// goroutine, so none of the fields need locking; the quit flag is the
// one value touched from outside.
type Loop struct {
	opt     Options
	dt      float64
	events  []input.Event
	started bool
	quit    atomic.Bool
}

func New(opt Options) *Loop {
	if opt.TPS <= 0 {
		opt.TPS = 60
	}
	return &Loop{opt: opt, dt: 1 / float64(opt.TPS)}
}

// RequestQuit makes the next Update return ebiten.Termination. Safe to
// call from any goroutine.
func (l *Loop) RequestQuit() {
	l.quit.Store(true)
}

func (l *Loop) Update() error {
	if l.quit.Load() {
		return ebiten.Termination
	}
	if !l.started {
		l.started = true
		if l.opt.Conceal != nil {
			l.opt.Conceal()
		}
	}

	l.events = l.opt.Router.Drain(l.events[:0])
	for _, ev := range l.events {
		l.dispatch(ev)
	}
	l.opt.Control.Step(l.dt)
	return nil
}

func (l *Loop) dispatch(ev input.Event) {
	switch ev.Kind {
	case input.KindToggleHUD:
		l.opt.HUD.Toggle()
	case input.KindCopy:
		l.copyFrame()
	default:
		// The controller logs and toasts its own failures; a failed
		// show simply leaves the overlay hidden.
		_ = l.opt.Control.Handle(ev)
	}
}

// copyFrame hands the frozen frame to the worker pool so PNG encoding
// never stalls a tick. At most one copy runs at a time.
func (l *Loop) copyFrame() {
	if l.opt.Copy == nil {
		l.opt.HUD.Notify("Clipboard unavailable")
		return
	}
	buf := l.opt.Control.Buffer()
	if buf == nil {
		l.opt.HUD.Notify("Nothing captured to copy")
		return
	}
	img := buf.Img
	submitted := l.opt.Pool.Submit(func() {
		if err := l.opt.Copy(img); err != nil {
			log.Printf("eventloop: clipboard copy failed: %v", err)
			return
		}
		log.Printf("eventloop: frozen frame copied to clipboard")
	})
	if !submitted {
		l.opt.HUD.Notify("Copy already in progress")
		return
	}
	l.opt.HUD.Notify("Copying frame to clipboard")
}

func (l *Loop) Draw(screen *ebiten.Image) {
	if l.opt.Control.State() == overlay.StateHidden {
		return
	}
	sx, sy := l.opt.Spot.Center()
	l.opt.Renderer.Draw(screen, l.opt.View.Transform(), render.Spot{
		Enabled: l.opt.Spot.Enabled(),
		X:       sx,
		Y:       sy,
		Radius:  l.opt.Spot.Radius(),
	})
	l.opt.HUD.Draw(screen, l.status(), time.Now())
}

func (l *Loop) status() hud.Status {
	st := hud.Status{
		State:      l.opt.Control.State().String(),
		Zoom:       l.opt.View.Zoom(),
		SpotOn:     l.opt.Spot.Enabled(),
		SpotRadius: l.opt.Spot.Radius(),
		SpotTarget: l.opt.Spot.TargetRadius(),
		FPS:        ebiten.ActualFPS(),
		TPS:        ebiten.ActualTPS(),
	}
	st.PanX, st.PanY = l.opt.View.Pan()
	st.CursorX, st.CursorY = l.opt.Control.Cursor()
	st.CursorCapX, st.CursorCapY = l.opt.View.Transform().ToCapture(st.CursorX, st.CursorY)
	if buf := l.opt.Control.Buffer(); buf != nil {
		st.CaptureW = buf.Bounds.Dx()
		st.CaptureH = buf.Bounds.Dy()
		st.CaptureScale = buf.Scale
		st.CaptureAge = time.Since(buf.At)
	}
	return st
}

// Layout keeps the render target at the window's pixel size so capture
// coordinates and screen coordinates stay one-to-one.
func (l *Loop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
