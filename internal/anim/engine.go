package anim

// Result describes what a single Advance call did.
type Result int

const (
	Unchanged Result = iota
	Advanced
	Reversed
	Completed
)

func (r Result) String() string {
	switch r {
	case Advanced:
		return "advanced"
	case Reversed:
		return "reversed"
	case Completed:
		return "completed"
	default:
		return "unchanged"
	}
}

// Advance moves s forward by one tick, applying its speeds to t.
//
// When the spec completes, the shared completion policy runs first
// (direction, loop and active are reset) and then done is called so the
// owner can apply its own side effects. done may be nil.
func Advance(s *Spec, t *Transform, done func(*Spec)) Result {
	if s == nil || !s.Active {
		return Unchanged
	}
	if s.Direction != -1 {
		s.Direction = 1
	}

	dir := float64(s.Direction)
	t.X += s.Speeds.X * dir
	t.Y += s.Speeds.Y * dir
	t.Rotation += s.Speeds.Rotation * dir

	// Degenerate specs complete on their first tick.
	if s.Duration <= 0 || s.MaxLoops <= 0 {
		s.finish()
		if done != nil {
			done(s)
		}
		return Completed
	}

	s.Elapsed++
	if s.Elapsed <= s.Duration {
		return Advanced
	}

	s.Elapsed = 0
	s.Direction = -s.Direction
	s.Loop++
	if s.Loop < s.MaxLoops {
		return Reversed
	}

	s.finish()
	if done != nil {
		done(s)
	}
	return Completed
}
