// Package scene assembles a renderable village from configuration: the
// map, its textures, the sky and a renderer.
package scene

import (
	"fmt"
	"image/color"
	"math/rand"

	"hamlet/internal/config"
	"hamlet/internal/geometry"
	"hamlet/internal/raycast"
	"hamlet/internal/render"
	"hamlet/internal/texture"
	"hamlet/internal/world"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

var villagerTunic = color.RGBA{110, 70, 40, 255}

// Scene is everything a front end needs to draw the village.
type Scene struct {
	Config   *config.Config
	Village  *world.Village
	Atlas    *texture.Atlas
	Sky      render.Sky
	Caster   *raycast.Caster
	Renderer *render.Renderer
}

// New loads the configured map and textures and builds a renderer.
func New(cfg *config.Config, opts ...render.Option) (*Scene, error) {
	village, err := world.LoadVillage(cfg.World.MapFile, cfg.World.Seed, cfg.World.VillagerCount)
	if err != nil {
		return nil, err
	}

	library := texture.NewLibrary(cfg.Sprites.Directories...)
	atlas := loadAtlas(cfg.Render.TextureSeed, library)

	rng := rand.New(rand.NewSource(cfg.Render.TextureSeed))
	generated := texture.Trees(rng)
	trees := make([]*texture.Texture, len(generated))
	for i := range generated {
		trees[i] = library.Get(fmt.Sprintf("tree_%d", i), func() *texture.Texture {
			return generated[i]
		})
	}
	village.Forest.SetTextures(trees)
	village.Crowd.SetTexture(library.Get("villager", func() *texture.Texture {
		return texture.Villager(villagerTunic)
	}))

	sky := LoadSky(cfg)
	caster := raycast.NewCaster(village.Model)

	return &Scene{
		Config:   cfg,
		Village:  village,
		Atlas:    atlas,
		Sky:      sky,
		Caster:   caster,
		Renderer: render.NewRenderer(render.SettingsFromConfig(cfg), caster, atlas, sky, opts...),
	}, nil
}

// loadAtlas starts from the procedural atlas and replaces every texture
// the library has a file for: wall_<category>, roof_<category> and
// ground.
func loadAtlas(seed int64, library *texture.Library) *texture.Atlas {
	atlas := texture.VillageAtlas(seed)
	for _, c := range geometry.Categories() {
		if t, ok := library.Lookup("wall_" + c.String()); ok {
			atlas.SetWall(c, t)
		}
		if t, ok := library.Lookup("roof_" + c.String()); ok {
			atlas.SetRoof(c, t)
		}
	}
	if t, ok := library.Lookup("ground"); ok {
		atlas.SetGround(t)
	}
	return atlas
}

// LoadSky builds the configured sky. A panorama that fails to load leaves
// the gradient in place.
func LoadSky(cfg *config.Config) render.Sky {
	sky := render.Sky{
		Top:        cfg.GetSkyTop(),
		Bottom:     cfg.GetSkyBottom(),
		Background: cfg.GetSkyBackground(),
	}
	if cfg.Sky.Texture == "" {
		return sky
	}

	t, err := texture.LoadSky(cfg.Sky.Texture)
	if err != nil {
		logs.Warn(err)
		return sky
	}
	sky.Texture = t
	logs.WithTag("path", cfg.Sky.Texture).
		WithTag("width", t.Width).
		WithTag("height", t.Height).
		Debug("sky panorama loaded")
	return sky
}

// StartPose is the configured camera start.
func (s *Scene) StartPose() render.Pose {
	c := s.Config
	return render.Pose{
		X:        c.Camera.StartX,
		Y:        c.Camera.StartY,
		Z:        c.Camera.EyeHeight,
		Heading:  c.GetStartHeading(),
		FOV:      c.GetFOV(),
		RayCount: c.GetRayCount(),
	}
}

// RenderFrame draws the village from pose into f.
func (s *Scene) RenderFrame(f *render.Frame, pose render.Pose) (render.DepthBuffer, render.FrameStats) {
	return s.Renderer.RenderFrame(f, pose, s.Village.Providers()...)
}

// Update advances the village one tick.
func (s *Scene) Update() {
	s.Village.Update()
}

// Close releases the renderer's workers.
func (s *Scene) Close() {
	s.Renderer.Close()
}
