// Package rendertest provides in-memory render.Loader and render.Handle
// implementations for tests.
package rendertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/sethgrid/tamagotchi/internal/render"
)

// Handle records every call made through it.
type Handle struct {
	mu       sync.Mutex
	Name     string
	X, Y, Z  float64
	Yaw      float64
	Rotates  int
	Moves    int
	Removals int
}

func (h *Handle) SetPosition(x, y, z float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.X, h.Y, h.Z = x, y, z
	h.Moves++
}

func (h *Handle) RotateBy(angle float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Yaw += angle
	h.Rotates++
}

func (h *Handle) Remove() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Removals++
}

// Removed reports whether Remove has been called at least once.
func (h *Handle) Removed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Removals > 0
}

// Position returns the last position set on the handle.
func (h *Handle) Position() (x, y, z float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.X, h.Y, h.Z
}

// Loader hands out Handles. Loads return immediately unless the asset is
// gated, in which case they wait for Release.
type Loader struct {
	mu      sync.Mutex
	handles []*Handle
	fail    map[string]error
	gate    chan struct{}
	gated   map[string]bool
}

// NewLoader returns a loader that completes loads immediately.
func NewLoader() *Loader {
	return &Loader{fail: make(map[string]error)}
}

// NewGatedLoader returns a loader whose loads of the named assets block until
// Release is called. With no names every load is gated.
func NewGatedLoader(names ...string) *Loader {
	l := NewLoader()
	l.gate = make(chan struct{})
	if len(names) > 0 {
		l.gated = make(map[string]bool, len(names))
		for _, n := range names {
			l.gated[n] = true
		}
	}
	return l
}

// Fail makes every subsequent load of name return err.
func (l *Loader) Fail(name string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[name] = err
}

// Release unblocks all pending and future loads of a gated loader.
func (l *Loader) Release() {
	if l.gate != nil {
		close(l.gate)
	}
}

func (l *Loader) Load(ctx context.Context, name string) (render.Handle, error) {
	if l.gate != nil && (l.gated == nil || l.gated[name]) {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err, ok := l.fail[name]; ok {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	h := &Handle{Name: name}
	l.handles = append(l.handles, h)
	return h, nil
}

// Handles returns every handle created so far, in load order.
func (l *Loader) Handles() []*Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Handle, len(l.handles))
	copy(out, l.handles)
	return out
}

// Named returns the handles created for the given asset.
func (l *Loader) Named(name string) []*Handle {
	var out []*Handle
	for _, h := range l.Handles() {
		if h.Name == name {
			out = append(out, h)
		}
	}
	return out
}

// Live returns the handles for name that have not been removed.
func (l *Loader) Live(name string) []*Handle {
	var out []*Handle
	for _, h := range l.Named(name) {
		if !h.Removed() {
			out = append(out, h)
		}
	}
	return out
}
