package render

import (
	"hamlet/internal/config"
	"hamlet/internal/geometry"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Settings are the projection and shading constants shared by the
// rasterizer and the compositor.
type Settings struct {
	ProjectionScale    float64
	PitchScale         float64
	BrightnessMin      float64
	WallFadeDistance   float64
	GroundFadeDistance float64
	SideShade          float64
	TextureRepeat      float64
	GroundTexelSize    float64
	RoofShadeBase      float64
	RoofShadeRange     float64
	// BoundaryTexture picks the atlas wall texture used for boundary hits.
	BoundaryTexture   geometry.Category
	SkyHeightFraction float64
	Sprites           SpriteSettings
	// Workers > 1 enables the parallel column pass.
	Workers int
}

// SpriteSettings tune billboard culling and shading.
type SpriteSettings struct {
	MaxDistance    float64
	MinDistance    float64
	FOVMargin      float64
	AlphaThreshold uint8
	BrightnessMin  float64
	FadeDistance   float64
	SampleTarget   int
}

// DefaultSettings mirrors config.Default.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default())
}

// SettingsFromConfig converts the render, sprites, sky and threading
// sections of c.
func SettingsFromConfig(c *config.Config) Settings {
	boundary, err := geometry.ParseCategory(c.Render.BoundaryTexture)
	if err != nil {
		if c.Render.BoundaryTexture != "" {
			logs.Warn(err)
		}
		boundary = geometry.Boundary
	}

	return Settings{
		ProjectionScale:    c.Render.ProjectionScale,
		PitchScale:         c.Render.PitchScale,
		BrightnessMin:      c.Render.BrightnessMin,
		WallFadeDistance:   c.Render.WallFadeDistance,
		GroundFadeDistance: c.Render.GroundFadeDistance,
		SideShade:          c.Render.SideShade,
		TextureRepeat:      c.Render.TextureRepeat,
		GroundTexelSize:    c.Render.GroundTexelSize,
		RoofShadeBase:      0.8,
		RoofShadeRange:     0.4,
		BoundaryTexture:    boundary,
		SkyHeightFraction:  c.Sky.HeightFraction,
		Sprites: SpriteSettings{
			MaxDistance:    c.Sprites.MaxDistance,
			MinDistance:    c.Sprites.MinDistance,
			FOVMargin:      c.Sprites.FOVMargin,
			AlphaThreshold: c.Sprites.AlphaThreshold,
			BrightnessMin:  c.Sprites.BrightnessMin,
			FadeDistance:   c.Sprites.FadeDistance,
			SampleTarget:   c.Sprites.SampleTarget,
		},
		Workers: c.GetWorkers(),
	}
}

// withFallbacks replaces unusable values so projection never divides by
// zero.
func (s Settings) withFallbacks() Settings {
	d := config.Default()
	if s.ProjectionScale <= 0 {
		s.ProjectionScale = d.Render.ProjectionScale
	}
	if s.WallFadeDistance <= 0 {
		s.WallFadeDistance = d.Render.WallFadeDistance
	}
	if s.GroundFadeDistance <= 0 {
		s.GroundFadeDistance = d.Render.GroundFadeDistance
	}
	if s.TextureRepeat <= 0 {
		s.TextureRepeat = d.Render.TextureRepeat
	}
	if s.GroundTexelSize <= 0 {
		s.GroundTexelSize = d.Render.GroundTexelSize
	}
	if s.SkyHeightFraction <= 0 {
		s.SkyHeightFraction = d.Sky.HeightFraction
	}
	if s.Sprites.FadeDistance <= 0 {
		s.Sprites.FadeDistance = d.Sprites.FadeDistance
	}
	if s.Sprites.SampleTarget <= 0 {
		s.Sprites.SampleTarget = d.Sprites.SampleTarget
	}
	return s
}
