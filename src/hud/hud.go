package hud

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const toastDuration = 2500 * time.Millisecond

// Status is the snapshot the HUD renders each frame.
type Status struct {
	State        string
	Zoom         float64
	PanX, PanY   float64
	CursorX      float64
	CursorY      float64
	CursorCapX   float64
	CursorCapY   float64
	SpotOn       bool
	SpotRadius   float64
	SpotTarget   float64
	CaptureW     int
	CaptureH     int
	CaptureScale float64
	CaptureAge   time.Duration
	FPS          float64
	TPS          float64
}

// HUD is the debug readout plus a one-line toast channel for short
// user-facing notices. The readout toggles with a key; toasts show
// regardless and expire on their own.
type HUD struct {
	visible    bool
	toast      string
	toastUntil time.Time
}

func New() *HUD { return &HUD{} }

// Toggle flips the readout and reports the new state.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

func (h *HUD) Visible() bool { return h.visible }

// Notify replaces the current toast.
func (h *HUD) Notify(msg string) {
	h.toast = msg
	h.toastUntil = time.Now().Add(toastDuration)
}

// ActiveToast returns the toast text if one is still live at now.
func (h *HUD) ActiveToast(now time.Time) (string, bool) {
	if h.toast == "" || now.After(h.toastUntil) {
		return "", false
	}
	return h.toast, true
}

// StatusLines formats the readout.
func StatusLines(s Status) []string {
	spot := "off"
	if s.SpotOn {
		spot = fmt.Sprintf("on r=%.0f->%.0f", s.SpotRadius, s.SpotTarget)
	}
	return []string{
		fmt.Sprintf("fps %5.1f  tps %5.1f", s.FPS, s.TPS),
		fmt.Sprintf("state %s  zoom %.2fx", s.State, s.Zoom),
		fmt.Sprintf("pan %.1f, %.1f", s.PanX, s.PanY),
		fmt.Sprintf("cursor %.0f, %.0f -> %.1f, %.1f", s.CursorX, s.CursorY, s.CursorCapX, s.CursorCapY),
		fmt.Sprintf("spot %s", spot),
		fmt.Sprintf("capture %dx%d @%.2f age %s", s.CaptureW, s.CaptureH, s.CaptureScale, s.CaptureAge.Truncate(time.Second)),
	}
}

// Draw renders the readout (when toggled on) and any live toast.
func (h *HUD) Draw(dst *ebiten.Image, s Status, now time.Time) {
	if h.visible {
		for i, line := range StatusLines(s) {
			ebitenutil.DebugPrintAt(dst, line, 8, 8+16*i)
		}
	}
	if msg, ok := h.ActiveToast(now); ok {
		ebitenutil.DebugPrintAt(dst, msg, 8, dst.Bounds().Dy()-24)
	}
}
