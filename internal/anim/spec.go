// Package anim implements tick-based property animations: a Spec describes
// one timed back-and-forth motion and Advance moves it forward by one tick.
package anim

import (
	"math"
	"time"
)

// Forever is the MaxLoops sentinel for animations that never complete.
const Forever = math.MaxInt

// Speeds holds the per-tick delta applied to each animated property.
type Speeds struct {
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	Rotation float64 `toml:"rotation"`
}

// Transform is the model state an animation mutates. Rotation is the
// per-tick relative rotation handed to the renderer, not an absolute angle.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

// Spec is a single loopable animation.
//
// A half-cycle lasts Duration+1 ticks. At the end of each half-cycle the
// direction flips and Loop is incremented; once Loop reaches MaxLoops the
// spec deactivates.
type Spec struct {
	Active    bool
	Duration  int
	Loop      int
	MaxLoops  int
	Direction int
	Elapsed   int
	Speeds    Speeds
}

// Start (re)activates the spec from the beginning of a forward half-cycle.
func (s *Spec) Start() {
	s.Active = true
	s.Direction = 1
	s.Loop = 0
	s.Elapsed = 0
}

// Bounded reports whether the spec eventually completes on its own.
func (s *Spec) Bounded() bool {
	return s.MaxLoops != Forever
}

// finish is the completion policy shared by every owner.
func (s *Spec) finish() {
	s.Direction = 1
	s.Loop = 0
	s.Elapsed = 0
	s.Active = false
}

// Preset is the configuration form of a Spec.
type Preset struct {
	Duration time.Duration
	// Loops is the number of half-cycles; 0 or negative runs forever.
	Loops  int
	Speeds Speeds
}

// Spec builds an inactive spec for the given frame rate.
func (p Preset) Spec(fps int) Spec {
	loops := p.Loops
	if loops <= 0 {
		loops = Forever
	}
	return Spec{
		Duration:  Ticks(p.Duration, fps),
		MaxLoops:  loops,
		Direction: 1,
		Speeds:    p.Speeds,
	}
}

// Ticks converts a wall-clock duration to a whole number of frames.
func Ticks(d time.Duration, fps int) int {
	if d <= 0 || fps <= 0 {
		return 0
	}
	return int(d.Milliseconds() * int64(fps) / 1000)
}
