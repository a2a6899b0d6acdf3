package geometry

import "math"

// BoundingBox is an axis-aligned min/max box.
type BoundingBox struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Contains reports whether the point lies inside the half-open box, the
// same test used for point-in-structure queries.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.MinX && x < b.MaxX && y >= b.MinY && y < b.MaxY
}

// Expand grows the box by r on every side.
func (b BoundingBox) Expand(r float64) BoundingBox {
	return BoundingBox{MinX: b.MinX - r, MaxX: b.MaxX + r, MinY: b.MinY - r, MaxY: b.MaxY + r}
}

// StrictlyContains reports whether the point is in the open box.
func (b BoundingBox) StrictlyContains(x, y float64) bool {
	return x > b.MinX && x < b.MaxX && y > b.MinY && y < b.MaxY
}

// Corners returns the corners in footprint winding order: front-left,
// front-right, back-right, back-left.
func (b BoundingBox) Corners() [4][2]float64 {
	return [4][2]float64{
		{b.MinX, b.MinY},
		{b.MaxX, b.MinY},
		{b.MaxX, b.MaxY},
		{b.MinX, b.MaxY},
	}
}

const slabEpsilon = 1e-9

// RayMayHit is a slab test: it returns false only when the ray from
// (ox, oy) along (dx, dy) cannot touch the box at a parameter above
// MinHitDistance.
func (b BoundingBox) RayMayHit(ox, oy, dx, dy float64) bool {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	if !slab(ox, dx, b.MinX, b.MaxX, &tMin, &tMax) {
		return false
	}
	if !slab(oy, dy, b.MinY, b.MaxY, &tMin, &tMax) {
		return false
	}
	return tMax+slabEpsilon >= tMin && tMax+slabEpsilon > MinHitDistance
}

func slab(o, d, lo, hi float64, tMin, tMax *float64) bool {
	if d == 0 {
		return o >= lo-slabEpsilon && o <= hi+slabEpsilon
	}
	t1 := (lo - o) / d
	t2 := (hi - o) / d
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	*tMin = math.Max(*tMin, t1)
	*tMax = math.Min(*tMax, t2)
	return *tMax+slabEpsilon >= *tMin
}
