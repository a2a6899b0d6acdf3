package world

import (
	"math"
	"os"

	"hamlet/internal/geometry"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"gopkg.in/yaml.v3"
)

const ErrTypeMapLoad = "map-load"

// LoadMap reads a village layout from a YAML file.
func LoadMap(path string) (*MapData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("reading map file failed").
			WithType(ErrTypeMapLoad).
			WithTag("path", path).
			Wrap(err)
	}

	md, err := ParseMap(data)
	if err != nil {
		return nil, errors.New("loading map failed").
			WithType(ErrTypeMapLoad).
			WithTag("path", path).
			Wrap(err)
	}

	logs.WithTag("path", path).
		WithTag("structures", len(md.Structures)).
		WithTag("boundaries", len(md.Boundaries)).
		Debug("map loaded")
	return md, nil
}

// ParseMap decodes and validates a YAML village layout.
func ParseMap(data []byte) (*MapData, error) {
	var md MapData
	if err := yaml.Unmarshal(data, &md); err != nil {
		return nil, errors.New("parsing map failed").
			WithType(ErrTypeMapLoad).
			Wrap(err)
	}

	if !(md.Size > 0) || math.IsInf(md.Size, 0) {
		return nil, errors.New("map size must be positive").
			WithType(ErrTypeMapLoad).
			WithTag("size", md.Size)
	}
	return &md, nil
}

// Model compiles the structures and boundaries into render geometry.
func (md *MapData) Model() (*geometry.Model, error) {
	structures := make([]geometry.Structure, 0, len(md.Structures))
	for i, s := range md.Structures {
		category, err := geometry.ParseCategory(s.Category)
		if err != nil {
			return nil, errors.New("structure has an unknown category").
				WithType(ErrTypeMapLoad).
				WithTag("index", i).
				Wrap(err)
		}
		structures = append(structures, geometry.Structure{
			X:        s.X,
			Y:        s.Y,
			Width:    s.Width,
			Depth:    s.Depth,
			Category: category,
		})
	}

	boundaries := make([]geometry.Segment, 0, len(md.Boundaries))
	for _, b := range md.Boundaries {
		boundaries = append(boundaries, geometry.NewSegment(b.X1, b.Y1, b.X2, b.Y2, geometry.SideNone))
	}

	model, err := geometry.Compile(structures, boundaries)
	if err != nil {
		return nil, errors.New("compiling map failed").
			WithType(ErrTypeMapLoad).
			Wrap(err)
	}
	return model, nil
}
