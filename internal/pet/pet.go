// Package pet contains the animated entities: the Pet itself and the reward
// icons it scatters when fed.
package pet

import (
	"context"

	"github.com/sethgrid/tamagotchi/internal/anim"
	"github.com/sethgrid/tamagotchi/internal/logger"
	"github.com/sethgrid/tamagotchi/internal/render"
)

// Phase is the externally visible state of a Pet.
type Phase int

const (
	Loading Phase = iota
	Idle
	Feeding
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Feeding:
		return "feeding"
	default:
		return "loading"
	}
}

// Pet floats in place and bounces when fed.
type Pet struct {
	body

	ctx    context.Context
	loader render.Loader
	opts   Options

	float anim.Spec
	feed  anim.Spec
	icons Group
}

// New creates a pet at (x, y) and starts loading its asset. The pet ignores
// ticks until the load completes.
func New(ctx context.Context, loader render.Loader, x, y float64, opts Options) *Pet {
	opts = opts.withDefaults()
	p := &Pet{
		body:   newBody(render.AssetPet, x, y, 0),
		ctx:    ctx,
		loader: loader,
		opts:   opts,
		float:  opts.Float.Spec(opts.FPS),
		feed:   opts.Feed.Spec(opts.FPS),
	}
	p.float.Start()
	p.load(ctx, loader)
	return p
}

// Tick advances the pet's own animation and then its reward icons.
func (p *Pet) Tick() {
	if p.ready() {
		moved := false
		if p.float.Active {
			anim.Advance(&p.float, &p.tr, nil)
			moved = true
		}
		if p.feed.Active {
			anim.Advance(&p.feed, &p.tr, p.fed)
			moved = true
		}
		if moved {
			p.project()
		}
	}
	p.icons.Tick()
}

// Feed starts the feed animation and scatters a fresh batch of reward icons,
// discarding any batch still on screen. A load that finished since the last
// tick is adopted first; Feed reports false only while the pet is still
// loading.
func (p *Pet) Feed() bool {
	if !p.ready() {
		logger.Log.Debug("feed ignored, pet not loaded")
		return false
	}
	if !p.feed.Active {
		p.feed.Start()
		if p.opts.Mode == ModeExclusive {
			p.float.Active = false
		}
	}
	p.icons.Replace(p.spawnBatch())
	return true
}

// fed is the feed animation's completion hook: snap back home and resume
// floating.
func (p *Pet) fed(*anim.Spec) {
	p.snapHome()
	p.float.Active = true
}

func (p *Pet) spawnBatch() []*RewardIcon {
	s := p.opts.Spread
	batch := make([]*RewardIcon, 0, p.opts.BatchSize)
	for i := 0; i < p.opts.BatchSize; i++ {
		x := between(p.opts.Rand, s.MinX, s.MaxX)
		y := between(p.opts.Rand, s.MinY, s.MaxY)
		batch = append(batch, newRewardIcon(p.ctx, p.loader, x, y, s.Z, p.opts.Reward.Spec(p.opts.FPS)))
	}
	return batch
}

// Retune swaps the animation presets. Running animations restart from the
// home position with the new tuning.
func (p *Pet) Retune(opts Options) {
	if opts.Rand == nil {
		opts.Rand = p.opts.Rand
	}
	opts = opts.withDefaults()

	floating, feeding := p.float.Active, p.feed.Active
	p.opts = opts
	p.float = opts.Float.Spec(opts.FPS)
	p.feed = opts.Feed.Spec(opts.FPS)
	if floating {
		p.float.Start()
	}
	if feeding {
		p.feed.Start()
	}
	p.snapHome()
}

// Close releases the pet's handle and all of its reward icons.
func (p *Pet) Close() {
	p.icons.Close()
	p.release()
	p.abandon()
}

func (p *Pet) Phase() Phase {
	switch {
	case p.handle == nil:
		return Loading
	case p.feed.Active:
		return Feeding
	default:
		return Idle
	}
}

func (p *Pet) Position() (x, y float64) {
	return p.tr.X, p.tr.Y
}

func (p *Pet) Rotation() float64 {
	return p.tr.Rotation
}

func (p *Pet) Mode() Mode {
	return p.opts.Mode
}

// Floating reports whether the idle float animation is running.
func (p *Pet) Floating() bool {
	return p.float.Active
}

// Icons returns the reward icons currently owned by the pet.
func (p *Pet) Icons() []*RewardIcon {
	return p.icons.Icons()
}
