package input

import "sync"

// Kind discriminates events delivered to the overlay each tick.
type Kind int

const (
	// KindShow asks the overlay to freeze the screen and appear.
	KindShow Kind = iota
	// KindHide dismisses the overlay and releases the frozen frame.
	KindHide
	// KindMouseDown is a left button press at a view position.
	KindMouseDown
	// KindMouseUp is the left button release.
	KindMouseUp
	// KindMouseMove reports the cursor at a new view position.
	KindMouseMove
	// KindWheel is scroll input; Delta is in notches, positive away
	// from the user. Modified is set while Control is held.
	KindWheel
	// KindToggleSpotlight flips the highlighter.
	KindToggleSpotlight
	// KindToggleHUD flips the debug readout.
	KindToggleHUD
	// KindCopy requests the frozen frame on the clipboard.
	KindCopy
)

func (k Kind) String() string {
	switch k {
	case KindShow:
		return "show"
	case KindHide:
		return "hide"
	case KindMouseDown:
		return "mouse-down"
	case KindMouseUp:
		return "mouse-up"
	case KindMouseMove:
		return "mouse-move"
	case KindWheel:
		return "wheel"
	case KindToggleSpotlight:
		return "toggle-spotlight"
	case KindToggleHUD:
		return "toggle-hud"
	case KindCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Event is one normalized user action. X and Y carry the cursor
// position for mouse and wheel events; Delta and Modified are set for
// wheel events only.
type Event struct {
	Kind     Kind
	X, Y     float64
	Delta    float64
	Modified bool
}

// Poller reads device state once per tick and appends the resulting
// events to dst. Implementations must only be called from the tick
// goroutine.
type Poller interface {
	Poll(dst []Event) []Event
}

// Router merges externally injected requests (hotkey, tray, run-once
// clients) with per-tick device input. Injection is safe from any
// goroutine; Drain must be called from the tick goroutine only.
// Injected events are delivered before device events, in submission
// order.
type Router struct {
	mu      sync.Mutex
	pending []Event
	poller  Poller
}

func NewRouter(p Poller) *Router {
	return &Router{poller: p}
}

// Inject queues an event for the next tick.
func (r *Router) Inject(ev Event) {
	r.mu.Lock()
	r.pending = append(r.pending, ev)
	r.mu.Unlock()
}

// Drain appends all pending injected events and this tick's device
// events to dst and returns it.
func (r *Router) Drain(dst []Event) []Event {
	r.mu.Lock()
	dst = append(dst, r.pending...)
	r.pending = r.pending[:0]
	r.mu.Unlock()

	if r.poller != nil {
		dst = r.poller.Poll(dst)
	}
	return dst
}
