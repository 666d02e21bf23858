package interp

import "math"

// Smoother moves a scalar toward a target with framerate-independent
// exponential decay. With rate r, all but 10^-r of the remaining
// distance is covered every length seconds, regardless of step size.
type Smoother struct {
	value  float64
	target float64
	length float64
	rate   float64
}

// NewSmoother creates a smoother starting at start. length is the decay
// window in seconds; rate controls how much of the distance is covered
// per window. length <= 0 disables smoothing (Step snaps to the target).
func NewSmoother(start, length, rate float64) *Smoother {
	return &Smoother{value: start, target: start, length: length, rate: rate}
}

// Set retargets the smoother without disturbing the current value.
func (s *Smoother) Set(target float64) { s.target = target }

// Snap jumps both the value and the target to v.
func (s *Smoother) Snap(v float64) {
	s.value = v
	s.target = v
}

func (s *Smoother) Value() float64  { return s.value }
func (s *Smoother) Target() float64 { return s.target }

// Step advances the smoother by dt seconds and returns the new value.
func (s *Smoother) Step(dt float64) float64 {
	if dt <= 0 {
		return s.value
	}
	if s.length <= 0 {
		s.value = s.target
		return s.value
	}
	// Remaining fraction after dt follows (10^-rate)^(dt/length), so
	// stepping twice by dt/2 lands exactly where one step by dt does.
	k := 1 - math.Pow(math.Pow(10, -s.rate), dt/s.length)
	s.value += (s.target - s.value) * k
	if math.Abs(s.target-s.value) < 1e-9 {
		s.value = s.target
	}
	return s.value
}
