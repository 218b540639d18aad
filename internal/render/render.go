// Package render declares the renderer collaborator the pet entities draw
// through. Entities never construct geometry themselves; they hold a
// non-owning Handle obtained from a Loader.
package render

import "context"

// Handle is a visual object owned by the renderer.
type Handle interface {
	SetPosition(x, y, z float64)
	// RotateBy applies a rotation relative to the current orientation.
	RotateBy(angle float64)
	// Remove detaches the object from the scene. The handle must not be used
	// afterwards.
	Remove()
}

// Loader loads visual assets by name. Load may block; callers run it off the
// tick goroutine.
type Loader interface {
	Load(ctx context.Context, name string) (Handle, error)
}

// Asset names shared by the loaders and the entities.
const (
	AssetPet    = "fox"
	AssetReward = "heart"
)
