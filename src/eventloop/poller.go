package eventloop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"screen-zoomer/src/input"
)

// Poller translates ebiten's per-tick keyboard and mouse state into
// overlay events. It must be polled exactly once per Update, which
// Router.Drain guarantees.
type Poller struct {
	lastX   int
	lastY   int
	tracked bool
}

func NewPoller() *Poller {
	return &Poller{}
}

func (p *Poller) Poll(dst []input.Event) []input.Event {
	cx, cy := ebiten.CursorPosition()
	fx, fy := float64(cx), float64(cy)
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		dst = append(dst, input.Event{Kind: input.KindHide})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if ctrl {
			dst = append(dst, input.Event{Kind: input.KindCopy})
		} else {
			dst = append(dst, input.Event{Kind: input.KindToggleSpotlight})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		dst = append(dst, input.Event{Kind: input.KindToggleHUD})
	}

	if !p.tracked || cx != p.lastX || cy != p.lastY {
		p.tracked = true
		p.lastX, p.lastY = cx, cy
		dst = append(dst, input.Event{Kind: input.KindMouseMove, X: fx, Y: fy})
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		dst = append(dst, input.Event{Kind: input.KindMouseDown, X: fx, Y: fy})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		dst = append(dst, input.Event{Kind: input.KindMouseUp, X: fx, Y: fy})
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		dst = append(dst, input.Event{
			Kind:     input.KindWheel,
			X:        fx,
			Y:        fy,
			Delta:    wheelY,
			Modified: ctrl,
		})
	}
	return dst
}
