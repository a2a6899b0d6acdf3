package world

// MapData is the authored layout of a village as stored in YAML.
type MapData struct {
	// Size is the side of the square, walkable world.
	Size       float64         `yaml:"size"`
	Boundaries []BoundaryData  `yaml:"boundaries"`
	Structures []StructureData `yaml:"structures"`
	Forest     ForestLayout    `yaml:"forest"`
}

// BoundaryData is one world boundary segment.
type BoundaryData struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// StructureData is one building footprint. X, Y is its minimum corner.
type StructureData struct {
	Category string  `yaml:"category"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Depth    float64 `yaml:"depth"`
}

// ForestLayout places the trees outside the walls: a jittered grid over
// the rectangle plus two columns framing the gate.
type ForestLayout struct {
	MinX float64    `yaml:"min_x"`
	MaxX float64    `yaml:"max_x"`
	MinY float64    `yaml:"min_y"`
	MaxY float64    `yaml:"max_y"`
	Gate GateLayout `yaml:"gate"`
}

// GateLayout frames an opening in the boundary with extra trees.
type GateLayout struct {
	LeftX   float64 `yaml:"left_x"`
	RightX  float64 `yaml:"right_x"`
	Spread  float64 `yaml:"spread"`
	TopY    float64 `yaml:"top_y"`
	Rows    int     `yaml:"rows"`
	Spacing float64 `yaml:"spacing"`
}
