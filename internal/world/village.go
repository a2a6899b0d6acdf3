package world

import (
	"math/rand"

	"hamlet/internal/collision"
	"hamlet/internal/geometry"
	"hamlet/internal/render"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Village is a loaded map with its compiled geometry, collision queries
// and billboard providers.
type Village struct {
	Map       *MapData
	Model     *geometry.Model
	Collision *collision.CollisionSystem
	Forest    *Forest
	Crowd     *Crowd
}

// LoadVillage loads the map at path and populates it. The seed drives the
// forest layout and the villagers.
func LoadVillage(path string, seed int64, villagers int) (*Village, error) {
	md, err := LoadMap(path)
	if err != nil {
		return nil, err
	}
	return NewVillage(md, seed, villagers)
}

// NewVillage compiles md and populates it.
func NewVillage(md *MapData, seed int64, villagers int) (*Village, error) {
	model, err := md.Model()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	cs := collision.NewCollisionSystem(model, md.Size)
	v := &Village{
		Map:       md,
		Model:     model,
		Collision: cs,
		Forest:    NewForest(PlantForest(md.Forest, rng), nil),
		Crowd:     SpawnCrowd(villagers, cs, rng),
	}

	logs.WithTag("structures", model.Len()).
		WithTag("trees", len(v.Forest.Trees())).
		WithTag("villagers", len(v.Crowd.Villagers())).
		Info("village populated")
	return v, nil
}

// Providers returns the billboard providers of the village.
func (v *Village) Providers() []render.BillboardProvider {
	return []render.BillboardProvider{v.Forest, v.Crowd}
}

// Update advances the simulation by one tick.
func (v *Village) Update() {
	v.Crowd.Update()
}
