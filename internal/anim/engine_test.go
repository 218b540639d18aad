package anim

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestAdvanceScenario(t *testing.T) {
	s := Spec{Active: true, Duration: 10, MaxLoops: 2, Direction: 1, Speeds: Speeds{Y: 0.1}}
	var tr Transform
	completions := 0
	done := func(*Spec) { completions++ }

	for i := 0; i < 11; i++ {
		Advance(&s, &tr, done)
	}
	if s.Direction != -1 {
		t.Errorf("after 11 ticks direction = %d, want -1", s.Direction)
	}
	if s.Loop != 1 {
		t.Errorf("after 11 ticks loop = %d, want 1", s.Loop)
	}
	if !approx(tr.Y, 1.1) {
		t.Errorf("after 11 ticks y = %f, want 1.1", tr.Y)
	}

	for i := 0; i < 11; i++ {
		Advance(&s, &tr, done)
	}
	if s.Active {
		t.Error("spec still active after 22 ticks")
	}
	if completions != 1 {
		t.Errorf("completion hook called %d times, want 1", completions)
	}
	if !approx(tr.Y, 0) {
		t.Errorf("y = %f, want back at 0", tr.Y)
	}
	// Completion policy resets the counters for the next activation.
	if s.Loop != 0 || s.Direction != 1 {
		t.Errorf("after completion loop=%d direction=%d, want 0 and 1", s.Loop, s.Direction)
	}
}

func TestBoundedSpecCompletesAfterExactTicks(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		loops    int
	}{
		{"feed preset", 18, 2},
		{"reward preset", 108, 5},
		{"single tick half-cycle", 1, 3},
		{"one loop", 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Spec{Active: true, Duration: tt.duration, MaxLoops: tt.loops, Direction: 1, Speeds: Speeds{Y: 1}}
			var tr Transform
			want := tt.loops * (tt.duration + 1)
			for i := 1; i < want; i++ {
				if r := Advance(&s, &tr, nil); r == Completed {
					t.Fatalf("completed early at tick %d of %d", i, want)
				}
			}
			if r := Advance(&s, &tr, nil); r != Completed {
				t.Fatalf("tick %d returned %s, want completed", want, r)
			}
			for i := 0; i < 5; i++ {
				if r := Advance(&s, &tr, nil); r != Unchanged {
					t.Fatalf("inactive spec returned %s", r)
				}
			}
			if s.Active {
				t.Error("spec reactivated without Start")
			}
		})
	}
}

func TestDirectionAlternates(t *testing.T) {
	s := Spec{Active: true, Duration: 3, MaxLoops: Forever, Direction: 1, Speeds: Speeds{X: 1}}
	var tr Transform
	prev := s.Direction
	reversals := 0
	for i := 0; i < 100; i++ {
		if Advance(&s, &tr, nil) == Reversed {
			reversals++
			if s.Direction != -prev {
				t.Fatalf("tick %d: direction %d did not negate %d", i, s.Direction, prev)
			}
			prev = s.Direction
		}
		if s.Elapsed > s.Duration {
			t.Fatalf("tick %d: elapsed %d exceeds duration %d", i, s.Elapsed, s.Duration)
		}
	}
	if reversals != 25 {
		t.Errorf("reversals = %d, want 25", reversals)
	}
	if !s.Active {
		t.Error("unbounded spec completed")
	}
}

func TestInactiveSpecLeavesStateUntouched(t *testing.T) {
	s := Spec{Duration: 5, MaxLoops: 2, Direction: 1, Speeds: Speeds{X: 1, Y: 2, Rotation: 3}}
	tr := Transform{X: 4, Y: 5, Rotation: 6}
	for i := 0; i < 10; i++ {
		if r := Advance(&s, &tr, func(*Spec) { t.Fatal("hook called on inactive spec") }); r != Unchanged {
			t.Fatalf("got %s, want unchanged", r)
		}
	}
	if tr != (Transform{X: 4, Y: 5, Rotation: 6}) {
		t.Errorf("transform mutated: %+v", tr)
	}
	if Advance(nil, &tr, nil) != Unchanged {
		t.Error("nil spec should be a no-op")
	}
}

func TestMotionIsReversible(t *testing.T) {
	speeds := Speeds{X: 0.25, Y: -0.03, Rotation: 0.001}
	fwd := Spec{Active: true, Duration: 1000, MaxLoops: Forever, Direction: 1, Speeds: speeds}
	back := Spec{Active: true, Duration: 1000, MaxLoops: Forever, Direction: -1, Speeds: speeds}
	start := Transform{X: 1, Y: 2, Rotation: 0.5}
	tr := start

	const k = 137
	for i := 0; i < k; i++ {
		Advance(&fwd, &tr, nil)
	}
	for i := 0; i < k; i++ {
		Advance(&back, &tr, nil)
	}
	if !approx(tr.X, start.X) || !approx(tr.Y, start.Y) || !approx(tr.Rotation, start.Rotation) {
		t.Errorf("transform %+v did not return to %+v", tr, start)
	}
}

func TestMalformedSpecsCompleteImmediately(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"zero duration", Spec{Active: true, Duration: 0, MaxLoops: 2, Direction: 1, Speeds: Speeds{Y: 1}}},
		{"negative duration", Spec{Active: true, Duration: -4, MaxLoops: Forever, Direction: 1}},
		{"zero loops", Spec{Active: true, Duration: 10, MaxLoops: 0, Direction: 1}},
		{"zero direction", Spec{Active: true, Duration: 0, MaxLoops: 1, Direction: 0, Speeds: Speeds{X: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.spec
			var tr Transform
			called := false
			if r := Advance(&s, &tr, func(*Spec) { called = true }); r != Completed {
				t.Fatalf("got %s, want completed", r)
			}
			if !called {
				t.Error("completion hook not called")
			}
			if s.Active {
				t.Error("spec still active")
			}
		})
	}
}

func TestEmptySpeedsAreLegal(t *testing.T) {
	s := Spec{Active: true, Duration: 2, MaxLoops: 1, Direction: 1}
	var tr Transform
	for i := 0; i < 3; i++ {
		Advance(&s, &tr, nil)
	}
	if s.Active {
		t.Error("spec should have completed")
	}
	if tr != (Transform{}) {
		t.Errorf("transform moved without speeds: %+v", tr)
	}
}

func TestStartResetsCounters(t *testing.T) {
	s := Spec{Duration: 4, Loop: 3, MaxLoops: 5, Direction: -1, Elapsed: 2}
	s.Start()
	if !s.Active || s.Loop != 0 || s.Direction != 1 || s.Elapsed != 0 {
		t.Errorf("Start left %+v", s)
	}
}

func TestPresetSpec(t *testing.T) {
	tests := []struct {
		name     string
		preset   Preset
		fps      int
		duration int
		max      int
	}{
		{"float", Preset{Duration: time.Second, Loops: 0}, 60, 60, Forever},
		{"feed", Preset{Duration: 300 * time.Millisecond, Loops: 2}, 60, 18, 2},
		{"reward", Preset{Duration: 1800 * time.Millisecond, Loops: 5}, 60, 108, 5},
		{"negative loops", Preset{Duration: time.Second, Loops: -1}, 30, 30, Forever},
		{"no fps", Preset{Duration: time.Second, Loops: 1}, 0, 0, 1},
		{"exact frame count", Preset{Duration: 50 * time.Millisecond, Loops: 1}, 60, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.preset.Spec(tt.fps)
			if s.Duration != tt.duration {
				t.Errorf("duration = %d, want %d", s.Duration, tt.duration)
			}
			if s.MaxLoops != tt.max {
				t.Errorf("max loops = %d, want %d", s.MaxLoops, tt.max)
			}
			if s.Active {
				t.Error("preset specs start inactive")
			}
			if s.Bounded() != (tt.max != Forever) {
				t.Errorf("Bounded() = %v", s.Bounded())
			}
		})
	}
}
