package pet

import (
	"math/rand"
	"time"

	"github.com/sethgrid/tamagotchi/internal/anim"
)

// Mode controls how the feed animation interacts with the idle float.
type Mode string

const (
	// ModeExclusive pauses the float while the feed animation runs.
	ModeExclusive Mode = "exclusive"
	// ModeConcurrent runs float and feed on the same tick.
	ModeConcurrent Mode = "concurrent"
)

const (
	DefaultFPS       = 60
	DefaultBatchSize = 3
)

// Spread is the box reward icons are scattered in, relative to the origin.
type Spread struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Z          float64
}

// Options configures a Pet and the reward icons it spawns.
type Options struct {
	FPS       int
	Mode      Mode
	Float     anim.Preset
	Feed      anim.Preset
	Reward    anim.Preset
	BatchSize int
	Spread    Spread
	// Rand drives icon placement. A time-seeded source is used when nil.
	Rand *rand.Rand
}

// DefaultOptions returns the stock fox tuning.
func DefaultOptions() Options {
	return Options{
		FPS:  DefaultFPS,
		Mode: ModeExclusive,
		Float: anim.Preset{
			Duration: time.Second,
			Speeds:   anim.Speeds{Y: 0.005},
		},
		Feed: anim.Preset{
			Duration: 300 * time.Millisecond,
			Loops:    2,
			Speeds:   anim.Speeds{Y: 0.1, Rotation: 0.016},
		},
		Reward: anim.Preset{
			Duration: 1800 * time.Millisecond,
			Loops:    5,
			Speeds:   anim.Speeds{Y: 0.03, Rotation: 0.001},
		},
		BatchSize: DefaultBatchSize,
		Spread:    Spread{MinX: -3, MaxX: 3, MinY: -0.2, MaxY: 0.3, Z: 2},
	}
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Mode != ModeConcurrent {
		o.Mode = ModeExclusive
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

func between(r *rand.Rand, lo, hi float64) float64 {
	return r.Float64()*(hi-lo) + lo
}
