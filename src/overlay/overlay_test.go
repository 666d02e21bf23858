package overlay

import (
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"screen-zoomer/src/capture"
	"screen-zoomer/src/highlight"
	"screen-zoomer/src/input"
	"screen-zoomer/src/viewport"
)

type fakeCapturer struct {
	grabs int
	fail  error
}

func (f *fakeCapturer) Grab() (*capture.Buffer, error) {
	f.grabs++
	if f.fail != nil {
		return nil, f.fail
	}
	return &capture.Buffer{
		Img:    image.NewRGBA(image.Rect(0, 0, 192, 108)),
		Bounds: image.Rect(0, 0, 1920, 1080),
		Scale:  10,
	}, nil
}

type fakeSurface struct {
	shows   int
	hides   int
	lastBuf *capture.Buffer
	fail    error
}

func (f *fakeSurface) Show(b *capture.Buffer) error {
	f.shows++
	f.lastBuf = b
	return f.fail
}

func (f *fakeSurface) Hide() { f.hides++ }

type harness struct {
	cap    *fakeCapturer
	sur    *fakeSurface
	vp     *viewport.Viewport
	spot   *highlight.Spotlight
	ctrl   *Controller
	notice []string
}

func newHarness() *harness {
	h := &harness{
		cap: &fakeCapturer{},
		sur: &fakeSurface{},
		vp:  viewport.New(viewport.Limits{MinZoom: 0.25, MaxZoom: 32, Step: 1.2}),
		spot: highlight.New(highlight.Options{
			MinRadius: 8, MaxRadius: 512, DefaultRadius: 64,
			Step: 0.2, SmoothLength: 0.25, SmoothRate: 1.5,
		}),
	}
	h.ctrl = New(h.cap, h.sur, h.vp, h.spot, func(msg string) {
		h.notice = append(h.notice, msg)
	})
	return h
}

func (h *harness) handle(t *testing.T, evs ...input.Event) {
	t.Helper()
	for _, ev := range evs {
		_ = h.ctrl.Handle(ev)
	}
}

func show() input.Event  { return input.Event{Kind: input.KindShow} }
func hide() input.Event  { return input.Event{Kind: input.KindHide} }
func down(x, y float64) input.Event {
	return input.Event{Kind: input.KindMouseDown, X: x, Y: y}
}
func up() input.Event { return input.Event{Kind: input.KindMouseUp} }
func move(x, y float64) input.Event {
	return input.Event{Kind: input.KindMouseMove, X: x, Y: y}
}
func wheel(x, y, delta float64, modified bool) input.Event {
	return input.Event{Kind: input.KindWheel, X: x, Y: y, Delta: delta, Modified: modified}
}

func TestShowFreezesAndAppears(t *testing.T) {
	h := newHarness()
	h.handle(t, show())

	if h.ctrl.State() != StateIdle {
		t.Fatalf("expected idle after show, got %v", h.ctrl.State())
	}
	if h.cap.grabs != 1 || h.sur.shows != 1 {
		t.Errorf("expected one grab and one surface show, got %d/%d", h.cap.grabs, h.sur.shows)
	}
	if h.ctrl.Buffer() == nil || h.sur.lastBuf != h.ctrl.Buffer() {
		t.Errorf("surface must receive the frozen buffer")
	}
	if h.vp.Transform() != viewport.Identity() {
		t.Errorf("session must start at identity, got %+v", h.vp.Transform())
	}
}

func TestShowWhileVisibleIsIgnored(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), show())

	if h.cap.grabs != 1 {
		t.Errorf("second show must not re-capture, grabs=%d", h.cap.grabs)
	}
	if h.ctrl.State() != StateIdle {
		t.Errorf("state should remain idle, got %v", h.ctrl.State())
	}
}

func TestCaptureFailureKeepsOverlayHidden(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"device unavailable", capture.Classify(errors.New("BitBlt failed")), "unavailable"},
		{"permission denied", capture.Classify(errors.New("permission denied")), "permission"},
		{"unsupported format", capture.Classify(errors.New("unsupported pixel format")), "format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			h.cap.fail = tc.err

			if err := h.ctrl.Handle(show()); err == nil {
				t.Fatal("expected show to report the capture failure")
			}
			if h.ctrl.State() != StateHidden {
				t.Errorf("overlay must stay hidden, got %v", h.ctrl.State())
			}
			if h.sur.shows != 0 {
				t.Errorf("surface must not be shown on capture failure")
			}
			if len(h.notice) != 1 || !strings.Contains(h.notice[0], tc.want) {
				t.Errorf("expected notice mentioning %q, got %v", tc.want, h.notice)
			}
		})
	}
}

func TestSurfaceFailureRollsBack(t *testing.T) {
	h := newHarness()
	h.sur.fail = errors.New("texture allocation failed")

	if err := h.ctrl.Handle(show()); err == nil {
		t.Fatal("expected show to fail")
	}
	if h.ctrl.State() != StateHidden {
		t.Errorf("overlay must stay hidden, got %v", h.ctrl.State())
	}
	if h.sur.hides != 1 {
		t.Errorf("surface must be hidden again after a failed show, hides=%d", h.sur.hides)
	}
	if h.ctrl.Buffer() != nil {
		t.Errorf("no buffer may be retained after a failed show")
	}
}

func TestHideReleasesFrame(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), hide())

	if h.ctrl.State() != StateHidden {
		t.Fatalf("expected hidden, got %v", h.ctrl.State())
	}
	if h.sur.hides != 1 {
		t.Errorf("expected exactly one surface hide, got %d", h.sur.hides)
	}
	if h.ctrl.Buffer() != nil {
		t.Errorf("frozen frame must be dropped on hide")
	}
}

func TestHideWhileHiddenIsIgnored(t *testing.T) {
	h := newHarness()
	h.handle(t, hide())

	if h.sur.hides != 0 {
		t.Errorf("hide while hidden must not touch the surface")
	}
}

func TestHideCancelsPanning(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), down(100, 100), hide())

	if h.ctrl.State() != StateHidden {
		t.Errorf("hide must work mid-pan, got %v", h.ctrl.State())
	}
}

func TestPanDragAccumulates(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), wheel(960, 540, 4, false)) // zoom in for slack

	h.handle(t, down(960, 540), move(940, 530), move(900, 510), up())

	px, py := h.vp.Pan()
	if px == 0 && py == 0 {
		t.Errorf("dragging should have panned the view")
	}

	// After release, further moves must not pan.
	h.handle(t, move(700, 400))
	gx, gy := h.vp.Pan()
	if gx != px || gy != py {
		t.Errorf("pan moved after button release: (%g, %g) -> (%g, %g)", px, py, gx, gy)
	}
}

func TestMouseDownWhileHiddenIsIgnored(t *testing.T) {
	h := newHarness()
	h.handle(t, down(10, 10), move(50, 50), wheel(10, 10, 3, false))

	if h.ctrl.State() != StateHidden {
		t.Errorf("mouse input must not wake the overlay, got %v", h.ctrl.State())
	}
	if h.vp.Zoom() != 1 {
		t.Errorf("wheel while hidden must not zoom, got %g", h.vp.Zoom())
	}
}

func TestWheelZoomsAnchoredAtCursor(t *testing.T) {
	h := newHarness()
	h.handle(t, show())

	sx, sy := 700.0, 450.0
	cx, cy := h.vp.Transform().ToCapture(sx, sy)
	h.handle(t, wheel(sx, sy, 2, false))

	gx, gy := h.vp.Transform().ToScreen(cx, cy)
	if math.Abs(gx-sx) > 1e-9 || math.Abs(gy-sy) > 1e-9 {
		t.Errorf("zoom lost its anchor: want (%g, %g), got (%g, %g)", sx, sy, gx, gy)
	}
	if h.vp.Zoom() <= 1 {
		t.Errorf("expected zoom in, got %g", h.vp.Zoom())
	}
}

func TestModifiedWheelResizesSpotlight(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), input.Event{Kind: input.KindToggleSpotlight})

	before := h.vp.Zoom()
	h.handle(t, wheel(500, 500, 2, true))

	if h.vp.Zoom() != before {
		t.Errorf("modified wheel must not zoom while the spotlight is on")
	}
	if h.spot.TargetRadius() <= 64 {
		t.Errorf("expected radius target to grow, got %g", h.spot.TargetRadius())
	}
}

func TestModifiedWheelZoomsWhenSpotlightOff(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), wheel(500, 500, 2, true))

	if h.vp.Zoom() <= 1 {
		t.Errorf("modified wheel without spotlight should zoom, got %g", h.vp.Zoom())
	}
	if h.spot.TargetRadius() != 64 {
		t.Errorf("radius must not change while the spotlight is off, got %g", h.spot.TargetRadius())
	}
}

func TestSpotlightToggleWorksInAnyState(t *testing.T) {
	h := newHarness()
	h.handle(t, input.Event{Kind: input.KindToggleSpotlight})
	if !h.spot.Enabled() {
		t.Errorf("toggle while hidden must pre-arm the spotlight")
	}

	h.handle(t, show(), input.Event{Kind: input.KindToggleSpotlight})
	if h.spot.Enabled() {
		t.Errorf("second toggle must disable the spotlight again")
	}
}

func TestSpotlightSurvivesHide(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), input.Event{Kind: input.KindToggleSpotlight}, wheel(0, 0, 3, true), hide(), show())

	if !h.spot.Enabled() {
		t.Errorf("spotlight flag must persist across sessions")
	}
	if h.spot.TargetRadius() <= 64 {
		t.Errorf("radius must persist across sessions, got %g", h.spot.TargetRadius())
	}
}

func TestFreshSessionStartsAtIdentity(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), wheel(960, 540, 3, false), down(960, 540), move(900, 500), up(), hide(), show())

	if h.vp.Transform() != viewport.Identity() {
		t.Errorf("each show must start a fresh session, got %+v", h.vp.Transform())
	}
	if h.ctrl.State() != StateIdle {
		t.Errorf("expected idle, got %v", h.ctrl.State())
	}
}

func TestMouseMoveUpdatesSpotlightCenter(t *testing.T) {
	h := newHarness()
	h.handle(t, show(), move(123, 456))

	x, y := h.spot.Center()
	if x != 123 || y != 456 {
		t.Errorf("spotlight should track the cursor, got (%g, %g)", x, y)
	}
}

func TestStateStrings(t *testing.T) {
	if StateHidden.String() != "hidden" || StateIdle.String() != "idle" || StatePanning.String() != "panning" {
		t.Errorf("unexpected state names: %v %v %v", StateHidden, StateIdle, StatePanning)
	}
}
