package eventloop

import (
	"github.com/hajimehoshi/ebiten/v2"

	"screen-zoomer/src/capture"
	"screen-zoomer/src/render"
)

// Surface implements overlay.Surface on the ebiten window: it uploads
// the frozen frame as a texture, moves the window over the captured
// area, and restores or minimizes it. Must only be used from the loop
// goroutine.
type Surface struct {
	rend  *render.Renderer
	raise func()
}

// NewSurface wires the renderer to the window. raise forces the window
// to the foreground after a restore and may be nil on platforms where
// RestoreWindow already does that.
func NewSurface(rend *render.Renderer, raise func()) *Surface {
	return &Surface{rend: rend, raise: raise}
}

func (s *Surface) Show(b *capture.Buffer) error {
	if err := s.rend.SetFrame(b); err != nil {
		return err
	}
	ebiten.SetWindowPosition(b.Bounds.Min.X, b.Bounds.Min.Y)
	ebiten.SetWindowSize(b.Bounds.Dx(), b.Bounds.Dy())
	ebiten.RestoreWindow()
	if s.raise != nil {
		s.raise()
	}
	return nil
}

// Hide releases the frame texture before minimizing so GPU memory is
// returned while the overlay sits idle in the tray.
func (s *Surface) Hide() {
	s.rend.Release()
	ebiten.MinimizeWindow()
}
