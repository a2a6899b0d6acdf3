package texture

import (
	"hamlet/internal/geometry"
)

// Atlas maps structure categories to wall and roof textures and holds the
// ground texture. A missing category resolves to the House texture.
type Atlas struct {
	walls  map[geometry.Category]*Texture
	roofs  map[geometry.Category]*Texture
	ground *Texture
}

// NewAtlas returns an empty atlas.
func NewAtlas() *Atlas {
	return &Atlas{
		walls: make(map[geometry.Category]*Texture),
		roofs: make(map[geometry.Category]*Texture),
	}
}

func (a *Atlas) SetWall(c geometry.Category, t *Texture) {
	a.walls[c] = t
}

func (a *Atlas) SetRoof(c geometry.Category, t *Texture) {
	a.roofs[c] = t
}

func (a *Atlas) SetGround(t *Texture) {
	a.ground = t
}

// Wall returns the wall texture for c, falling back to House. It returns
// nil only when House is missing too.
func (a *Atlas) Wall(c geometry.Category) *Texture {
	if a == nil {
		return nil
	}
	if t, ok := a.walls[c]; ok && t != nil {
		return t
	}
	return a.walls[geometry.House]
}

// Roof returns the roof texture for c, falling back to House.
func (a *Atlas) Roof(c geometry.Category) *Texture {
	if a == nil {
		return nil
	}
	if t, ok := a.roofs[c]; ok && t != nil {
		return t
	}
	return a.roofs[geometry.House]
}

// Ground returns the ground texture, possibly nil.
func (a *Atlas) Ground() *Texture {
	if a == nil {
		return nil
	}
	return a.ground
}
