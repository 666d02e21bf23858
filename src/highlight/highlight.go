package highlight

import (
	"screen-zoomer/src/interp"
)

// Options configures the spotlight radius range and feel.
type Options struct {
	MinRadius     float64
	MaxRadius     float64
	DefaultRadius float64
	// Step is the fractional radius change per wheel notch while the
	// spotlight is being resized (0.2 means one notch grows it by 20%).
	Step float64
	// SmoothLength and SmoothRate drive the radius smoother; see interp.
	SmoothLength float64
	SmoothRate   float64
}

// Spotlight dims everything outside a circle that follows the cursor.
// The drawn radius trails the target through an exponential smoother so
// resizing reads as growth instead of jumps.
type Spotlight struct {
	opts    Options
	enabled bool
	x, y    float64
	radius  *interp.Smoother
}

func New(opts Options) *Spotlight {
	return &Spotlight{
		opts:   opts,
		radius: interp.NewSmoother(opts.DefaultRadius, opts.SmoothLength, opts.SmoothRate),
	}
}

// Toggle flips the spotlight on or off and reports the new state.
func (s *Spotlight) Toggle() bool {
	s.enabled = !s.enabled
	return s.enabled
}

func (s *Spotlight) Enabled() bool { return s.enabled }

// SetCenter moves the spotlight to a view position, typically the
// cursor reported by the last mouse move.
func (s *Spotlight) SetCenter(x, y float64) {
	s.x = x
	s.y = y
}

func (s *Spotlight) Center() (float64, float64) { return s.x, s.y }

// Adjust applies notches wheel steps to the target radius. The change
// is multiplicative and the target is clamped to the configured range;
// the drawn radius catches up over the following frames.
func (s *Spotlight) Adjust(notches float64) {
	factor := 1 + s.opts.Step*notches
	target := clamp(s.radius.Target()*factor, s.opts.MinRadius, s.opts.MaxRadius)
	s.radius.Set(target)
}

// Radius returns the radius currently drawn.
func (s *Spotlight) Radius() float64 { return s.radius.Value() }

// TargetRadius returns the radius the smoother is heading toward.
func (s *Spotlight) TargetRadius() float64 { return s.radius.Target() }

// Step advances the radius smoother by dt seconds.
func (s *Spotlight) Step(dt float64) {
	s.radius.Step(dt)
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
