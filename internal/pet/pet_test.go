package pet

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/sethgrid/tamagotchi/internal/anim"
	"github.com/sethgrid/tamagotchi/internal/render"
	"github.com/sethgrid/tamagotchi/internal/render/rendertest"
)

const epsilon = 1e-9

func testOptions(mode Mode) Options {
	opts := DefaultOptions()
	opts.Mode = mode
	opts.Rand = rand.New(rand.NewSource(1))
	return opts
}

// waitLoad blocks until the entity's asset load has produced a result, without
// ticking it.
func waitLoad(t *testing.T, b *body) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for b.loads != nil && len(b.loads) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("load of %s never finished", b.asset)
		}
		time.Sleep(time.Millisecond)
	}
}

// loadedPet returns a pet that has adopted its handle. The adopting tick
// also advances the float animation once.
func loadedPet(t *testing.T, loader render.Loader, opts Options) *Pet {
	t.Helper()
	p := New(context.Background(), loader, 0, 0, opts)
	waitLoad(t, &p.body)
	p.Tick()
	if p.Phase() != Idle {
		t.Fatalf("phase after load = %s, want idle", p.Phase())
	}
	return p
}

func loadIcons(t *testing.T, p *Pet) {
	t.Helper()
	for _, ic := range p.Icons() {
		waitLoad(t, &ic.body)
	}
}

func TestPetIgnoresTicksWhileLoading(t *testing.T) {
	loader := rendertest.NewGatedLoader()
	defer loader.Release()

	p := New(context.Background(), loader, 1, 2, testOptions(ModeExclusive))
	for i := 0; i < 100; i++ {
		p.Tick()
	}
	if p.Phase() != Loading {
		t.Errorf("phase = %s, want loading", p.Phase())
	}
	if x, y := p.Position(); x != 1 || y != 2 {
		t.Errorf("position moved while loading: (%f, %f)", x, y)
	}
	if p.Feed() {
		t.Error("feed accepted while loading")
	}
	if len(p.Icons()) != 0 {
		t.Error("icons spawned while loading")
	}
}

func TestPetFloatsWhenIdle(t *testing.T) {
	loader := rendertest.NewLoader()
	p := loadedPet(t, loader, testOptions(ModeExclusive))

	for i := 0; i < 9; i++ {
		p.Tick()
	}
	_, y := p.Position()
	if math.Abs(y-0.05) > epsilon {
		t.Errorf("y after 10 float ticks = %f, want 0.05", y)
	}

	h := loader.Named(render.AssetPet)[0]
	if _, hy, _ := h.Position(); math.Abs(hy-y) > epsilon {
		t.Errorf("handle y = %f, model y = %f", hy, y)
	}
	if h.Rotates != 10 {
		t.Errorf("rotate calls = %d, want one per tick", h.Rotates)
	}
}

func TestPetFeedCycle(t *testing.T) {
	tests := []struct {
		name          string
		mode          Mode
		floatsDuring  bool
		wantFeedTicks int
	}{
		{"exclusive", ModeExclusive, false, 2 * (18 + 1)},
		{"concurrent", ModeConcurrent, true, 2 * (18 + 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := rendertest.NewLoader()
			p := loadedPet(t, loader, testOptions(tt.mode))

			if !p.Feed() {
				t.Fatal("feed rejected")
			}
			if p.Phase() != Feeding {
				t.Fatalf("phase = %s, want feeding", p.Phase())
			}
			if p.Floating() != tt.floatsDuring {
				t.Errorf("floating during feed = %v, want %v", p.Floating(), tt.floatsDuring)
			}

			for i := 1; i < tt.wantFeedTicks; i++ {
				p.Tick()
				if p.Phase() != Feeding {
					t.Fatalf("feed finished early at tick %d", i)
				}
			}
			p.Tick()

			if p.Phase() != Idle {
				t.Fatalf("phase = %s, want idle", p.Phase())
			}
			if x, y := p.Position(); x != 0 || y != 0 {
				t.Errorf("position after feed = (%f, %f), want snapped home", x, y)
			}
			if p.Rotation() != 0 {
				t.Errorf("rotation after feed = %f, want 0", p.Rotation())
			}
			if !p.Floating() {
				t.Error("float not resumed after feed")
			}
			h := loader.Named(render.AssetPet)[0]
			if hx, hy, _ := h.Position(); hx != 0 || hy != 0 {
				t.Errorf("handle not snapped home: (%f, %f)", hx, hy)
			}
		})
	}
}

func TestPetFeedWhileFeedingKeepsOneBatch(t *testing.T) {
	loader := rendertest.NewLoader()
	p := loadedPet(t, loader, testOptions(ModeExclusive))

	p.Feed()
	loadIcons(t, p)
	p.Tick()
	first := p.Icons()
	if len(first) != DefaultBatchSize {
		t.Fatalf("icons = %d, want %d", len(first), DefaultBatchSize)
	}

	p.Feed()
	loadIcons(t, p)
	p.Tick()

	if p.Phase() != Feeding {
		t.Errorf("phase = %s, want feeding", p.Phase())
	}
	second := p.Icons()
	if len(second) != DefaultBatchSize {
		t.Fatalf("icons after second feed = %d, want %d", len(second), DefaultBatchSize)
	}
	for _, old := range first {
		if !old.Retired() {
			t.Error("icon from first batch still live")
		}
		for _, cur := range second {
			if old == cur {
				t.Error("first batch icon kept in second batch")
			}
		}
	}
	if live := loader.Live(render.AssetReward); len(live) != DefaultBatchSize {
		t.Errorf("live heart handles = %d, want %d", len(live), DefaultBatchSize)
	}
}

func TestDiscardedIconsReleaseLateHandles(t *testing.T) {
	loader := rendertest.NewGatedLoader(render.AssetReward)
	p := loadedPet(t, loader, testOptions(ModeExclusive))

	p.Feed()
	p.Feed()
	if len(p.icons.draining) != DefaultBatchSize {
		t.Fatalf("draining = %d, want %d", len(p.icons.draining), DefaultBatchSize)
	}

	loader.Release()
	loadIcons(t, p)
	for _, ic := range p.icons.draining {
		waitLoad(t, &ic.body)
	}
	p.Tick()

	hearts := loader.Named(render.AssetReward)
	if len(hearts) != 2*DefaultBatchSize {
		t.Fatalf("heart loads = %d, want %d", len(hearts), 2*DefaultBatchSize)
	}
	if live := loader.Live(render.AssetReward); len(live) != DefaultBatchSize {
		t.Errorf("live heart handles = %d, want %d", len(live), DefaultBatchSize)
	}
	if len(p.icons.draining) != 0 {
		t.Errorf("draining = %d after loads landed", len(p.icons.draining))
	}
}

func TestRewardIconsRetireAfterAnimation(t *testing.T) {
	loader := rendertest.NewLoader()
	opts := testOptions(ModeExclusive)
	p := loadedPet(t, loader, opts)

	p.Feed()
	loadIcons(t, p)

	for _, ic := range p.Icons() {
		x, y := ic.Position()
		s := opts.Spread
		if x < s.MinX || x >= s.MaxX || y < s.MinY || y >= s.MaxY {
			t.Errorf("icon placed outside spread: (%f, %f)", x, y)
		}
	}

	total := 5 * (108 + 1)
	for i := 0; i < total; i++ {
		p.Tick()
	}
	if n := len(p.Icons()); n != 0 {
		t.Errorf("icons after %d ticks = %d, want 0", total, n)
	}
	hearts := loader.Named(render.AssetReward)
	if len(hearts) != DefaultBatchSize {
		t.Fatalf("heart handles = %d", len(hearts))
	}
	for _, h := range hearts {
		if h.Removals != 1 {
			t.Errorf("heart removed %d times, want 1", h.Removals)
		}
		if h.Z != opts.Spread.Z {
			t.Errorf("heart z = %f, want %f", h.Z, opts.Spread.Z)
		}
	}
}

func TestPetLoadFailureStaysLoading(t *testing.T) {
	loader := rendertest.NewLoader()
	loader.Fail(render.AssetPet, errors.New("missing mesh"))

	p := New(context.Background(), loader, 0, 0, testOptions(ModeExclusive))
	waitLoad(t, &p.body)
	for i := 0; i < 10; i++ {
		p.Tick()
	}
	if p.Phase() != Loading {
		t.Errorf("phase = %s, want loading", p.Phase())
	}
	if !p.failed {
		t.Error("failure not recorded")
	}
	if p.Feed() {
		t.Error("feed accepted after failed load")
	}
}

func TestPetCloseReleasesEverything(t *testing.T) {
	loader := rendertest.NewLoader()
	p := loadedPet(t, loader, testOptions(ModeExclusive))
	p.Feed()
	loadIcons(t, p)
	p.Tick()

	p.Close()
	for _, h := range loader.Handles() {
		if !h.Removed() {
			t.Errorf("%s handle not removed", h.Name)
		}
	}
	if p.Phase() != Loading {
		t.Errorf("phase after close = %s", p.Phase())
	}
}

func TestPetCloseRemovesLandedIcons(t *testing.T) {
	loader := rendertest.NewLoader()
	p := loadedPet(t, loader, testOptions(ModeExclusive))
	p.Feed()
	loadIcons(t, p)

	p.Close()
	for _, h := range loader.Named(render.AssetReward) {
		if !h.Removed() {
			t.Error("heart handle leaked after Close")
		}
	}
}

func TestPetCloseRemovesLateLoads(t *testing.T) {
	tests := []struct {
		name  string
		asset string
		want  int
		setup func(t *testing.T, loader *rendertest.Loader) *Pet
	}{
		{"pet", render.AssetPet, 1, func(t *testing.T, loader *rendertest.Loader) *Pet {
			return New(context.Background(), loader, 0, 0, testOptions(ModeExclusive))
		}},
		{"hearts", render.AssetReward, 2 * DefaultBatchSize, func(t *testing.T, loader *rendertest.Loader) *Pet {
			p := loadedPet(t, loader, testOptions(ModeExclusive))
			p.Feed()
			p.Feed()
			return p
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := rendertest.NewGatedLoader(tt.asset)
			p := tt.setup(t, loader)
			p.Close()
			loader.Release()

			deadline := time.Now().Add(2 * time.Second)
			for {
				handles := loader.Named(tt.asset)
				if len(handles) == tt.want && len(loader.Live(tt.asset)) == 0 {
					break
				}
				if time.Now().After(deadline) {
					t.Fatalf("%d of %d %s handles still live after Close, want %d loads", len(loader.Live(tt.asset)), len(handles), tt.asset, tt.want)
				}
				time.Sleep(time.Millisecond)
			}
		})
	}
}

func TestPetFeedAdoptsFinishedLoad(t *testing.T) {
	loader := rendertest.NewLoader()
	p := New(context.Background(), loader, 0, 0, testOptions(ModeExclusive))
	waitLoad(t, &p.body)

	if !p.Feed() {
		t.Fatalf("feed rejected after load finished; phase=%s", p.Phase())
	}
	if p.Phase() != Feeding {
		t.Errorf("phase = %s, want feeding", p.Phase())
	}
}

func TestPetRetune(t *testing.T) {
	loader := rendertest.NewLoader()
	p := loadedPet(t, loader, testOptions(ModeExclusive))

	opts := testOptions(ModeConcurrent)
	opts.Float = anim.Preset{Duration: time.Second, Speeds: anim.Speeds{Y: 0.5}}
	p.Retune(opts)

	if p.Mode() != ModeConcurrent {
		t.Errorf("mode = %s", p.Mode())
	}
	if x, y := p.Position(); x != 0 || y != 0 {
		t.Errorf("retune did not snap home: (%f, %f)", x, y)
	}
	p.Tick()
	if _, y := p.Position(); math.Abs(y-0.5) > epsilon {
		t.Errorf("y = %f, want 0.5 with new float speed", y)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Mode: "sideways"}.withDefaults()
	if o.FPS != DefaultFPS || o.Mode != ModeExclusive || o.BatchSize != DefaultBatchSize || o.Rand == nil {
		t.Errorf("defaults not applied: %+v", o)
	}
}
