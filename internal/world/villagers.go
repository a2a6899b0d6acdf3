package world

import (
	"math/rand"

	"hamlet/internal/collision"
	"hamlet/internal/render"
	"hamlet/internal/texture"
	"hamlet/internal/threading/core"
)

const (
	VillagerWidth  = 30
	VillagerHeight = 45

	villagerMargin = 30
	spawnAttempts  = 100
)

var (
	walkingBody = collision.Body{Radius: 15, Margin: villagerMargin}
	spawnBody   = collision.Body{Radius: 20, Margin: villagerMargin}
)

// Villager wanders the village, picking a new random heading every one to
// three seconds and bouncing off buildings and the world edge.
type Villager struct {
	X, Y   float64
	VX, VY float64
	Speed  float64

	timer    int
	interval int
	rng      *rand.Rand
}

func newVillager(x, y float64, rng *rand.Rand) *Villager {
	v := &Villager{X: x, Y: y, rng: rng}
	v.turn()
	v.Speed = 0.8 + rng.Float64()*0.4
	return v
}

func (v *Villager) turn() {
	v.VX = (v.rng.Float64() - 0.5) * 2
	v.VY = (v.rng.Float64() - 0.5) * 2
	v.timer = 0
	v.interval = 60 + int(v.rng.Float64()*120)
}

// update advances the villager by one tick.
func (v *Villager) update(cs *collision.CollisionSystem) {
	v.timer++
	if v.timer > v.interval {
		v.turn()
	}

	nx := v.X + v.VX*v.Speed
	ny := v.Y + v.VY*v.Speed

	world := cs.WorldBounds()
	if nx < world.MinX+villagerMargin || nx > world.MaxX-villagerMargin {
		v.VX = -v.VX
	}
	if ny < world.MinY+villagerMargin || ny > world.MaxY-villagerMargin {
		v.VY = -v.VY
	}

	if cs.Blocked(nx, ny, walkingBody.Radius) {
		v.VX = -v.VX
		v.VY = -v.VY
		return
	}
	v.X, v.Y = cs.Clamp(nx, ny, villagerMargin)
}

// Crowd owns the villagers and provides their billboards.
type Crowd struct {
	villagers []*Villager
	collision *collision.CollisionSystem
	texture   *texture.Texture
}

// SpawnCrowd places up to count villagers at random free spots. A
// villager that finds no free spot in a hundred tries is dropped.
func SpawnCrowd(count int, cs *collision.CollisionSystem, rng *rand.Rand) *Crowd {
	c := &Crowd{collision: cs}
	world := cs.WorldBounds()
	w := world.MaxX - world.MinX
	h := world.MaxY - world.MinY

	for i := 0; i < count; i++ {
		for attempt := 0; attempt < spawnAttempts; attempt++ {
			x := world.MinX + 100 + rng.Float64()*(w-200)
			y := world.MinY + 100 + rng.Float64()*(h-200)
			if cs.CanMoveTo(x, y, spawnBody) {
				c.villagers = append(c.villagers, newVillager(x, y, rand.New(rand.NewSource(rng.Int63()))))
				break
			}
		}
	}
	return c
}

func (c *Crowd) Villagers() []*Villager {
	return c.villagers
}

func (c *Crowd) SetTexture(t *texture.Texture) {
	c.texture = t
}

// Update moves every villager one tick. Villagers only read shared state,
// so they are updated in parallel.
func (c *Crowd) Update() {
	core.ParallelForEach(c.villagers, func(v *Villager) {
		v.update(c.collision)
	})
}

// AppendBillboards implements render.BillboardProvider.
func (c *Crowd) AppendBillboards(dst []render.Billboard) []render.Billboard {
	for _, v := range c.villagers {
		dst = append(dst, render.Billboard{
			X:       v.X,
			Y:       v.Y,
			Width:   VillagerWidth,
			Height:  VillagerHeight,
			Texture: c.texture,
		})
	}
	return dst
}
