// Package art holds the ASCII sprites the terminal renderer draws.
package art

import (
	"strings"

	"github.com/sethgrid/tamagotchi/internal/conditions"
)

// Sprite is a block of text lines drawn with its top-left at the anchor.
type Sprite []string

// Size is the sprite's width in runes and height in lines.
func (s Sprite) Size() (w, h int) {
	for _, line := range s {
		if n := len([]rune(line)); n > w {
			w = n
		}
	}
	return w, len(s)
}

var sprites = map[string]Sprite{
	"fox": parse(`
 /\   /\
( o . o )
 \  w  /
  '---'`),
	"fox:peckish": parse(`
 /\   /\
( o . o )
 \  -  /
  '---'`),
	"fox:hungry": parse(`
 /\   /\
( ; . ; )
 \  o  /
  '---'`),
	"fox:starving": parse(`
 /\   /\
( x . x )
 \  ~  /
  '---'`),
	"fox:has-message": parse(`
 /\   /\
( ^ . ^ )
 \  O  /
  '---'`),
	"heart": {"<3"},
}

func parse(s string) Sprite {
	return strings.Split(strings.TrimPrefix(s, "\n"), "\n")
}

// ChooseKey picks the most specific sprite key for asset: the first of the
// ordered conditions that has a variant, else the plain asset.
func ChooseKey(asset string, ordered []conditions.Condition) string {
	for _, c := range ordered {
		key := asset + ":" + string(c)
		if _, ok := sprites[key]; ok {
			return key
		}
	}
	return asset
}

// Lookup returns the sprite for asset in the given mood.
func Lookup(asset string, ordered []conditions.Condition) (Sprite, bool) {
	s, ok := sprites[ChooseKey(asset, ordered)]
	return s, ok
}

// Known reports whether asset has a sprite.
func Known(asset string) bool {
	_, ok := sprites[asset]
	return ok
}
