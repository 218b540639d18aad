package pet

import (
	"context"

	"github.com/sethgrid/tamagotchi/internal/anim"
	"github.com/sethgrid/tamagotchi/internal/render"
)

// RewardIcon is a short-lived heart that rises, drifts and disappears.
type RewardIcon struct {
	body
	rise    anim.Spec
	retired bool
}

func newRewardIcon(ctx context.Context, loader render.Loader, x, y, z float64, rise anim.Spec) *RewardIcon {
	r := &RewardIcon{
		body: newBody(render.AssetReward, x, y, z),
		rise: rise,
	}
	r.rise.Start()
	r.load(ctx, loader)
	return r
}

// Tick advances the rise animation. On completion the icon releases its
// handle and marks itself retired so its group drops it.
func (r *RewardIcon) Tick() {
	if r.retired || !r.ready() {
		return
	}
	anim.Advance(&r.rise, &r.tr, r.finished)
	if !r.retired {
		r.project()
	}
}

func (r *RewardIcon) finished(*anim.Spec) {
	r.retire()
}

func (r *RewardIcon) retire() {
	r.retired = true
	r.release()
}

// Retired reports whether the icon is done and detached from the renderer.
func (r *RewardIcon) Retired() bool {
	return r.retired
}

// Loaded reports whether the icon holds a renderer handle.
func (r *RewardIcon) Loaded() bool {
	return r.handle != nil
}

func (r *RewardIcon) Position() (x, y float64) {
	return r.tr.X, r.tr.Y
}

func (r *RewardIcon) Rotation() float64 {
	return r.tr.Rotation
}
