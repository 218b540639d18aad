package health

import "time"

type State string

const (
	StateStarting State = "starting"
	StateOK       State = "ok"
	StateStalled  State = "stalled"
)

// minStall is the shortest gap between frames reported as a stall.
const minStall = time.Second

type Report struct {
	Status   State     `json:"status"`
	Ticks    uint64    `json:"ticks"`
	LastTick time.Time `json:"lastTick,omitempty"`
	Lag      string    `json:"lag,omitempty"`
}

// Compute reports whether the frame loop is keeping up. The loop counts as
// stalled once it has missed 30 frames or a second, whichever is longer.
func Compute(ticks uint64, lastTick, now time.Time, fps int) Report {
	if ticks == 0 || lastTick.IsZero() {
		return Report{Status: StateStarting}
	}
	if fps <= 0 {
		fps = 60
	}

	limit := 30 * time.Second / time.Duration(fps)
	if limit < minStall {
		limit = minStall
	}

	lag := now.Sub(lastTick)
	if lag < 0 {
		lag = 0
	}

	status := StateOK
	if lag > limit {
		status = StateStalled
	}
	return Report{
		Status:   status,
		Ticks:    ticks,
		LastTick: lastTick,
		Lag:      lag.Round(time.Millisecond).String(),
	}
}
