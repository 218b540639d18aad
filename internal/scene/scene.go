// Package scene keeps a table of renderable nodes for remote renderers. It
// implements render.Loader; the server broadcasts Snapshot to browsers which
// draw the actual meshes.
package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sethgrid/tamagotchi/internal/render"
)

// Node is one renderable as sent to clients.
type Node struct {
	ID    int     `json:"id"`
	Asset string  `json:"asset"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
}

// Scene is safe for concurrent use: loads add nodes from their own
// goroutines while the tick goroutine moves them.
type Scene struct {
	mu     sync.Mutex
	assets map[string]bool
	nodes  map[int]*Node
	nextID int
}

// New returns a scene that can load the given assets.
func New(assets []string) *Scene {
	s := &Scene{
		assets: make(map[string]bool, len(assets)),
		nodes:  make(map[int]*Node),
	}
	for _, a := range assets {
		s.assets[a] = true
	}
	return s
}

func (s *Scene) Load(ctx context.Context, name string) (render.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.assets[name] {
		return nil, fmt.Errorf("unknown asset %q", name)
	}
	s.nextID++
	s.nodes[s.nextID] = &Node{ID: s.nextID, Asset: name}
	return &handle{scene: s, id: s.nextID}, nil
}

// Snapshot returns a copy of the live nodes ordered by id.
func (s *Scene) Snapshot() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

type handle struct {
	scene *Scene
	id    int
}

func (h *handle) SetPosition(x, y, z float64) {
	h.scene.mu.Lock()
	defer h.scene.mu.Unlock()
	if n, ok := h.scene.nodes[h.id]; ok {
		n.X, n.Y, n.Z = x, y, z
	}
}

func (h *handle) RotateBy(angle float64) {
	h.scene.mu.Lock()
	defer h.scene.mu.Unlock()
	if n, ok := h.scene.nodes[h.id]; ok {
		n.Yaw += angle
	}
}

// Remove drops the node. Further calls through the handle are ignored.
func (h *handle) Remove() {
	h.scene.mu.Lock()
	defer h.scene.mu.Unlock()
	delete(h.scene.nodes, h.id)
}
