package geometry

import "math"

const (
	// ParallelEpsilon is the smallest |determinant| treated as a crossing.
	ParallelEpsilon = 1e-4
	// MinHitDistance drops hits at or behind the ray origin.
	MinHitDistance = 0.1
)

// Intersection is where a ray meets a segment.
type Intersection struct {
	X, Y float64
	// T is the ray parameter; for a unit direction it is the distance.
	T float64
	// U is the position along the segment, 0..1.
	U float64
}

// Intersect solves origin + t*dir = p1 + u*(p2-p1) for the given segment.
// Near-parallel rays, hits with t <= MinHitDistance and hits outside the
// segment's endpoints are misses.
func Intersect(ox, oy, dx, dy float64, s Segment) (Intersection, bool) {
	sdx := s.X2 - s.X1
	sdy := s.Y2 - s.Y1

	denom := dx*sdy - dy*sdx
	if math.Abs(denom) < ParallelEpsilon {
		return Intersection{}, false
	}

	ex := s.X1 - ox
	ey := s.Y1 - oy
	t := (ex*sdy - ey*sdx) / denom
	u := (ex*dy - ey*dx) / denom

	if !(t > MinHitDistance) || u < 0 || u > 1 {
		return Intersection{}, false
	}

	return Intersection{
		X: ox + dx*t,
		Y: oy + dy*t,
		T: t,
		U: u,
	}, true
}
