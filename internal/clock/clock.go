// Package clock supplies wall time and the fixed-rate frame loop.
package clock

import (
	"context"
	"sync"
	"time"
)

// Provider tells the time.
type Provider interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Mock is a Provider that only moves when told to.
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Interval is the wall time between frames at fps. Non-positive rates fall
// back to 60 fps.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// Loop calls fn once per frame until ctx is done. Frames that overrun are
// dropped rather than queued.
func Loop(ctx context.Context, fps int, fn func()) error {
	ticker := time.NewTicker(Interval(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
		}
	}
}
