package geometry

import (
	"image/color"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Category is the closed set of structure kinds. Rendering constants hang
// off the category through Profile.
type Category uint8

const (
	House Category = iota
	Tower
	Barn
	Well
	Church
	Fence
	// Boundary tags world-boundary hits; it is never authored on a structure.
	Boundary
)

// RoofKind selects how the span above a wall is drawn.
type RoofKind uint8

const (
	RoofNone RoofKind = iota
	RoofFlat
	RoofPeaked
)

// Profile is the vertical extrusion and base colouring of a category.
type Profile struct {
	WallHeight float64
	RoofHeight float64
	Roof       RoofKind
	WallColor  color.RGBA
	RoofColor  color.RGBA
}

// HasRoof reports whether a roof span should be projected above the wall.
func (p Profile) HasRoof() bool {
	return p.Roof != RoofNone && p.RoofHeight > 0
}

// TotalHeight is the wall height plus any roof.
func (p Profile) TotalHeight() float64 {
	if !p.HasRoof() {
		return p.WallHeight
	}
	return p.WallHeight + p.RoofHeight
}

var profiles = [...]Profile{
	House: {
		WallHeight: 60, RoofHeight: 30, Roof: RoofPeaked,
		WallColor: color.RGBA{180, 140, 100, 255}, RoofColor: color.RGBA{139, 69, 19, 255},
	},
	Tower: {
		WallHeight: 120, RoofHeight: 40, Roof: RoofPeaked,
		WallColor: color.RGBA{120, 120, 130, 255}, RoofColor: color.RGBA{80, 80, 90, 255},
	},
	Barn: {
		WallHeight: 50, RoofHeight: 35, Roof: RoofPeaked,
		WallColor: color.RGBA{160, 82, 45, 255}, RoofColor: color.RGBA{100, 50, 30, 255},
	},
	Well: {
		WallHeight: 25, RoofHeight: 15, Roof: RoofFlat,
		WallColor: color.RGBA{100, 100, 110, 255}, RoofColor: color.RGBA{80, 60, 40, 255},
	},
	Church: {
		WallHeight: 90, RoofHeight: 50, Roof: RoofPeaked,
		WallColor: color.RGBA{200, 200, 210, 255}, RoofColor: color.RGBA{60, 60, 70, 255},
	},
	Fence: {
		WallHeight: 20, Roof: RoofNone,
		WallColor: color.RGBA{139, 90, 43, 255}, RoofColor: color.RGBA{0, 0, 0, 255},
	},
	Boundary: {
		WallHeight: 100, Roof: RoofNone,
		WallColor: color.RGBA{60, 60, 70, 255}, RoofColor: color.RGBA{0, 0, 0, 255},
	},
}

var categoryNames = [...]string{
	House:    "house",
	Tower:    "tower",
	Barn:     "barn",
	Well:     "well",
	Church:   "church",
	Fence:    "fence",
	Boundary: "boundary",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{House, Tower, Barn, Well, Church, Fence, Boundary}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return int(c) < len(profiles)
}

// Profile returns the rendering constants of c. Unknown values fall back
// to House.
func (c Category) Profile() Profile {
	if !c.Valid() {
		return profiles[House]
	}
	return profiles[c]
}

func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory maps a case-insensitive name such as "church" to its Category.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return House, errors.New("unknown structure category").
		WithType(ErrTypeUnknownCategory).
		WithTag("category", name)
}
