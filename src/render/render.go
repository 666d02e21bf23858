package render

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"screen-zoomer/src/capture"
	"screen-zoomer/src/viewport"
)

//go:embed spotlight.kage
var spotlightSrc []byte

// ErrTextureTooLarge is returned when a frame cannot be uploaded as a
// single texture even after capture-side downscaling.
var ErrTextureTooLarge = errors.New("frame exceeds device texture limits")

// hardTextureCap rejects frames no GPU in the wild can take; the
// configured capture limit should keep frames well below this.
const hardTextureCap = 16384

// backgroundColor shows through when the frame does not cover the view
// while zoomed out.
var backgroundColor = color.RGBA{R: 64, G: 64, B: 71, A: 255}

// Spot is the spotlight as the renderer needs it: view-space center
// and radius, plus whether to draw it at all.
type Spot struct {
	Enabled bool
	X, Y    float64
	Radius  float64
}

// Renderer draws one frozen frame under the view transform and applies
// the spotlight pass. It owns the GPU texture for the frame.
type Renderer struct {
	tex      *ebiten.Image
	texScale float64
	shader   *ebiten.Shader
}

func New() (*Renderer, error) {
	shader, err := ebiten.NewShader(spotlightSrc)
	if err != nil {
		return nil, fmt.Errorf("compile spotlight shader: %w", err)
	}
	return &Renderer{shader: shader}, nil
}

// SetFrame uploads a frozen frame, replacing and releasing any prior
// texture.
func (r *Renderer) SetFrame(b *capture.Buffer) error {
	if err := checkFrame(b); err != nil {
		return err
	}
	r.Release()
	r.tex = ebiten.NewImageFromImage(b.Img)
	r.texScale = b.Scale
	return nil
}

// Release frees the frame texture immediately rather than waiting for
// the finalizer.
func (r *Renderer) Release() {
	if r.tex != nil {
		r.tex.Deallocate()
		r.tex = nil
	}
	r.texScale = 0
}

func (r *Renderer) HasFrame() bool { return r.tex != nil }

// Draw paints the frame under t, then the spotlight.
func (r *Renderer) Draw(dst *ebiten.Image, t viewport.Transform, spot Spot) {
	dst.Fill(backgroundColor)
	if r.tex == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM = frameGeoM(t, r.texScale)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(r.tex, op)

	if spot.Enabled && spot.Radius > 0 {
		r.drawSpotlight(dst, spot)
	}
}

func (r *Renderer) drawSpotlight(dst *ebiten.Image, spot Spot) {
	b := dst.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Uniforms = map[string]any{
		"Center": []float32{float32(spot.X), float32(spot.Y)},
		"Radius": float32(spot.Radius),
	}
	dst.DrawRectShader(b.Dx(), b.Dy(), r.shader, op)
}

// frameGeoM maps stored texture pixels to view pixels: a capture point
// c lands at (c - pan) * zoom, and texture pixels are texScale capture
// pixels wide.
func frameGeoM(t viewport.Transform, texScale float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(t.Zoom*texScale, t.Zoom*texScale)
	g.Translate(-t.PanX*t.Zoom, -t.PanY*t.Zoom)
	return g
}

func checkFrame(b *capture.Buffer) error {
	if b == nil || b.Img == nil {
		return errors.New("nil frame")
	}
	w, h := b.Img.Bounds().Dx(), b.Img.Bounds().Dy()
	if w < 1 || h < 1 {
		return errors.New("empty frame")
	}
	if w > hardTextureCap || h > hardTextureCap {
		return fmt.Errorf("%dx%d: %w", w, h, ErrTextureTooLarge)
	}
	return nil
}
