package collision

import (
	"hamlet/internal/geometry"
)

// Body is the footprint of a moving entity: a square of half-size Radius
// that must keep Margin away from the world edge.
type Body struct {
	Radius float64
	Margin float64
}

// CollisionSystem answers movement queries against the structures of a
// model and the square world they stand in. It is read-only after
// creation and safe for concurrent use.
type CollisionSystem struct {
	model *geometry.Model
	world geometry.BoundingBox
}

// NewCollisionSystem creates a collision system for a worldSize x
// worldSize world.
func NewCollisionSystem(model *geometry.Model, worldSize float64) *CollisionSystem {
	return &CollisionSystem{
		model: model,
		world: geometry.BoundingBox{MaxX: worldSize, MaxY: worldSize},
	}
}

// WorldBounds returns the world box.
func (cs *CollisionSystem) WorldBounds() geometry.BoundingBox {
	return cs.world
}

// InWorld reports whether (x, y) keeps margin away from every world edge.
func (cs *CollisionSystem) InWorld(x, y, margin float64) bool {
	return x >= cs.world.MinX+margin && x <= cs.world.MaxX-margin &&
		y >= cs.world.MinY+margin && y <= cs.world.MaxY-margin
}

// BlockingStructure returns the index of the first structure whose box,
// grown by radius, strictly contains (x, y), or -1.
func (cs *CollisionSystem) BlockingStructure(x, y, radius float64) int {
	if cs.model == nil {
		return -1
	}
	for i, s := range cs.model.Structures() {
		if s.Box.Expand(radius).StrictlyContains(x, y) {
			return i
		}
	}
	return -1
}

// Blocked reports whether a body of the given radius at (x, y) overlaps a
// structure.
func (cs *CollisionSystem) Blocked(x, y, radius float64) bool {
	return cs.BlockingStructure(x, y, radius) >= 0
}

// CanMoveTo checks whether body may stand at (x, y).
func (cs *CollisionSystem) CanMoveTo(x, y float64, body Body) bool {
	return cs.InWorld(x, y, body.Margin) && !cs.Blocked(x, y, body.Radius)
}

// Slide moves body from (x, y) by (dx, dy). When the full step is
// blocked the x and y components are tried on their own so the body
// slides along walls.
func (cs *CollisionSystem) Slide(x, y, dx, dy float64, body Body) (float64, float64) {
	if cs.CanMoveTo(x+dx, y+dy, body) {
		return x + dx, y + dy
	}
	if cs.CanMoveTo(x+dx, y, body) {
		x += dx
	}
	if cs.CanMoveTo(x, y+dy, body) {
		y += dy
	}
	return x, y
}

// Clamp pulls (x, y) inside the world, margin away from the edges.
func (cs *CollisionSystem) Clamp(x, y, margin float64) (float64, float64) {
	x = max(cs.world.MinX+margin, min(cs.world.MaxX-margin, x))
	y = max(cs.world.MinY+margin, min(cs.world.MaxY-margin, y))
	return x, y
}
