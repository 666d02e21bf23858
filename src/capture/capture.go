package capture

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"github.com/kbinani/screenshot"
	xdraw "golang.org/x/image/draw"
)

// Classified capture failures. Callers match with errors.Is and decide
// user-facing behavior; the wrapped message keeps the OS detail.
var (
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	ErrPermissionDenied  = errors.New("capture permission denied")
	ErrUnsupportedFormat = errors.New("unsupported capture format")
)

// Backend functions, replaceable in tests.
var (
	numActiveDisplays = screenshot.NumActiveDisplays
	displayBounds     = screenshot.GetDisplayBounds
	captureRect       = screenshot.CaptureRect
)

// Buffer is one frozen frame of the whole desktop.
type Buffer struct {
	Img *image.RGBA
	// Bounds is the captured area in virtual-screen coordinates. It is
	// the union of all active displays, so Min can be negative on
	// multi-monitor setups.
	Bounds image.Rectangle
	// Scale is virtual pixels per stored pixel: 1 unless the union was
	// too large for one texture and the frame was downscaled.
	Scale float64
	At    time.Time
}

// Grabber freezes the desktop. maxDim bounds the stored frame so it
// always fits in a single GPU texture.
type Grabber struct {
	maxDim int
}

func NewGrabber(maxDim int) *Grabber {
	return &Grabber{maxDim: maxDim}
}

// VirtualBounds returns the union of all active display bounds.
func VirtualBounds() (image.Rectangle, error) {
	n := numActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays: %w", ErrDeviceUnavailable)
	}
	union := displayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(displayBounds(i))
	}
	return union, nil
}

// Grab captures the union of all active displays into a Buffer.
func (g *Grabber) Grab() (*Buffer, error) {
	bounds, err := VirtualBounds()
	if err != nil {
		return nil, err
	}

	img, err := captureRect(bounds)
	if err != nil {
		return nil, Classify(err)
	}
	if img == nil || img.Bounds().Dx() != bounds.Dx() || img.Bounds().Dy() != bounds.Dy() {
		return nil, fmt.Errorf("capture returned wrong geometry: %w", ErrUnsupportedFormat)
	}

	buf := &Buffer{Img: img, Bounds: bounds, Scale: 1, At: time.Now()}
	if g.maxDim > 0 && (bounds.Dx() > g.maxDim || bounds.Dy() > g.maxDim) {
		log.Printf("capture: %dx%d exceeds texture limit %d, downscaling", bounds.Dx(), bounds.Dy(), g.maxDim)
		buf = shrink(buf, g.maxDim)
	}
	return buf, nil
}

// shrink downscales a buffer so neither side exceeds maxDim,
// preserving aspect ratio and recording the scale for the renderer.
func shrink(b *Buffer, maxDim int) *Buffer {
	w, h := b.Img.Bounds().Dx(), b.Img.Bounds().Dy()
	scale := float64(w) / float64(maxDim)
	if s := float64(h) / float64(maxDim); s > scale {
		scale = s
	}

	dw := int(float64(w)/scale + 0.5)
	dh := int(float64(h)/scale + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), b.Img, b.Img.Bounds(), xdraw.Src, nil)

	return &Buffer{
		Img:    dst,
		Bounds: b.Bounds,
		Scale:  float64(w) / float64(dw),
		At:     b.At,
	}
}

// Classify folds an OS capture error into the taxonomy above.
func Classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "denied") || strings.Contains(msg, "permission") || strings.Contains(msg, "not authorized"):
		return fmt.Errorf("screen capture: %v: %w", err, ErrPermissionDenied)
	case strings.Contains(msg, "format") || strings.Contains(msg, "unsupported") || strings.Contains(msg, "bits per pixel"):
		return fmt.Errorf("screen capture: %v: %w", err, ErrUnsupportedFormat)
	default:
		return fmt.Errorf("screen capture: %v: %w", err, ErrDeviceUnavailable)
	}
}

// Describe renders a classified error as a short user-facing message.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Screen capture permission denied. Grant screen recording access and try again."
	case errors.Is(err, ErrUnsupportedFormat):
		return "Display format not supported for capture."
	case errors.Is(err, ErrDeviceUnavailable):
		return "Screen capture unavailable. Is a display connected?"
	default:
		return "Screen capture failed."
	}
}
