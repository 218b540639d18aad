package pet

import (
	"context"

	"github.com/sethgrid/tamagotchi/internal/anim"
	"github.com/sethgrid/tamagotchi/internal/logger"
	"github.com/sethgrid/tamagotchi/internal/render"
	"github.com/sirupsen/logrus"
)

type loadResult struct {
	handle render.Handle
	err    error
}

// body is the part shared by every animated entity: the model transform,
// the renderer handle and the single-shot asset load that produces it.
type body struct {
	asset string
	homeX float64
	homeY float64
	z     float64

	tr     anim.Transform
	handle render.Handle

	loads    chan loadResult
	failed   bool
	released bool
}

func newBody(asset string, x, y, z float64) body {
	return body{
		asset: asset,
		homeX: x,
		homeY: y,
		z:     z,
		tr:    anim.Transform{X: x, Y: y},
	}
}

// load starts the asset load. The result is picked up by ready on the tick
// goroutine.
func (b *body) load(ctx context.Context, l render.Loader) {
	ch := make(chan loadResult, 1)
	b.loads = ch
	asset := b.asset
	go func() {
		h, err := l.Load(ctx, asset)
		ch <- loadResult{handle: h, err: err}
	}()
}

// ready adopts a finished load and reports whether the entity has a handle.
func (b *body) ready() bool {
	if b.handle != nil {
		return true
	}
	if b.loads == nil {
		return false
	}

	select {
	case res := <-b.loads:
		b.loads = nil
		if res.err != nil || res.handle == nil {
			b.failed = true
			logger.Log.WithFields(logrus.Fields{
				"asset": b.asset,
			}).WithError(res.err).Warn("asset load failed, entity stays in loading state")
			return false
		}
		if b.released {
			res.handle.Remove()
			return false
		}
		b.handle = res.handle
		b.handle.SetPosition(b.tr.X, b.tr.Y, b.z)
		return true
	default:
		return false
	}
}

// project writes the model transform to the handle.
func (b *body) project() {
	if b.handle == nil {
		return
	}
	b.handle.SetPosition(b.tr.X, b.tr.Y, b.z)
	b.handle.RotateBy(b.tr.Rotation)
}

// release gives the handle back to the renderer. A load still in flight is
// removed as soon as it lands.
func (b *body) release() {
	if b.released {
		return
	}
	b.released = true
	if b.handle != nil {
		b.handle.Remove()
		b.handle = nil
	}
}

// abandon hands a pending load to a goroutine that removes its handle on
// arrival. Loads that already landed are removed right away.
func (b *body) abandon() {
	if !b.pending() {
		return
	}
	ch := b.loads
	b.loads = nil
	select {
	case res := <-ch:
		discard(res)
	default:
		go func() { discard(<-ch) }()
	}
}

func discard(res loadResult) {
	if res.err == nil && res.handle != nil {
		res.handle.Remove()
	}
}

// pending reports whether a released body is still waiting on its load.
func (b *body) pending() bool {
	return b.released && b.loads != nil
}

func (b *body) snapHome() {
	b.tr = anim.Transform{X: b.homeX, Y: b.homeY}
}
