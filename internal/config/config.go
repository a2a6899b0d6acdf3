package config

import (
	"image/color"
	"math"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"gopkg.in/yaml.v3"
)

const ErrTypeConfigLoad = "config-load"

// Config holds every tunable of the viewer and renderer.
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Camera    CameraConfig    `yaml:"camera"`
	Movement  MovementConfig  `yaml:"movement"`
	Render    RenderConfig    `yaml:"render"`
	Sprites   SpriteConfig    `yaml:"sprites"`
	Sky       SkyConfig       `yaml:"sky"`
	World     WorldConfig     `yaml:"world"`
	Threading ThreadingConfig `yaml:"threading"`
	Debug     DebugConfig     `yaml:"debug"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
}

type CameraConfig struct {
	StartX     float64 `yaml:"start_x"`
	StartY     float64 `yaml:"start_y"`
	EyeHeight  float64 `yaml:"eye_height"`
	HeadingDeg float64 `yaml:"heading_degrees"`
	FOVDeg     float64 `yaml:"fov_degrees"`
	RayCount   int     `yaml:"ray_count"`
}

type MovementConfig struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	TurnSpeed        float64 `yaml:"turn_speed"`
	PitchSpeed       float64 `yaml:"pitch_speed"`
	PitchLimit       float64 `yaml:"pitch_limit"`
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	PlayerRadius     float64 `yaml:"player_radius"`
	WorldMargin      float64 `yaml:"world_margin"`
	JumpVelocity     float64 `yaml:"jump_velocity"`
	Gravity          float64 `yaml:"gravity"`
}

type RenderConfig struct {
	ProjectionScale    float64 `yaml:"projection_scale"`
	PitchScale         float64 `yaml:"pitch_scale"`
	BrightnessMin      float64 `yaml:"brightness_min"`
	WallFadeDistance   float64 `yaml:"wall_fade_distance"`
	GroundFadeDistance float64 `yaml:"ground_fade_distance"`
	SideShade          float64 `yaml:"side_shade"`
	TextureRepeat      float64 `yaml:"texture_repeat"`
	GroundTexelSize    float64 `yaml:"ground_texel_size"`
	BoundaryTexture    string  `yaml:"boundary_texture"`
	TextureSeed        int64   `yaml:"texture_seed"`
}

type SpriteConfig struct {
	MaxDistance    float64  `yaml:"max_distance"`
	MinDistance    float64  `yaml:"min_distance"`
	FOVMargin      float64  `yaml:"fov_margin"`
	AlphaThreshold uint8    `yaml:"alpha_threshold"`
	BrightnessMin  float64  `yaml:"brightness_min"`
	FadeDistance   float64  `yaml:"fade_distance"`
	SampleTarget   int      `yaml:"sample_target"`
	Directories    []string `yaml:"directories"`
}

type SkyConfig struct {
	Texture        string  `yaml:"texture"`
	HeightFraction float64 `yaml:"height_fraction"`
	Top            [3]int  `yaml:"top"`
	Bottom         [3]int  `yaml:"bottom"`
	Background     [3]int  `yaml:"background"`
}

type WorldConfig struct {
	MapFile       string `yaml:"map_file"`
	VillagerCount int    `yaml:"villager_count"`
	Seed          int64  `yaml:"seed"`
}

type ThreadingConfig struct {
	// Workers > 1 enables the parallel column pass.
	Workers int `yaml:"workers"`
}

type DebugConfig struct {
	LogLevel        string `yaml:"log_level"`
	PerfLog         bool   `yaml:"perf_log"`
	PerfLogInterval int    `yaml:"perf_log_interval"`
	MetricsAddr     string `yaml:"metrics_addr"`
}

// Default returns the configuration used when no file overrides a key.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			WindowTitle:  "Hamlet",
			Resizable:    true,
			TPS:          60,
		},
		Camera: CameraConfig{
			StartX:     1000,
			StartY:     700,
			EyeHeight:  30,
			HeadingDeg: 90,
			FOVDeg:     60,
			RayCount:   400,
		},
		Movement: MovementConfig{
			MoveSpeed:        4,
			TurnSpeed:        0.04,
			PitchSpeed:       0.02,
			PitchLimit:       0.8,
			MouseSensitivity: 0.002,
			PlayerRadius:     8,
			WorldMargin:      10,
			JumpVelocity:     6,
			Gravity:          0.4,
		},
		Render: RenderConfig{
			ProjectionScale:    600,
			PitchScale:         300,
			BrightnessMin:      0.25,
			WallFadeDistance:   1200,
			GroundFadeDistance: 800,
			SideShade:          0.8,
			TextureRepeat:      4,
			GroundTexelSize:    4,
			BoundaryTexture:    "fence",
			TextureSeed:        1,
		},
		Sprites: SpriteConfig{
			MaxDistance:    1500,
			MinDistance:    10,
			FOVMargin:      0.3,
			AlphaThreshold: 128,
			BrightnessMin:  0.3,
			FadeDistance:   800,
			SampleTarget:   64,
			Directories:    []string{"assets/sprites"},
		},
		Sky: SkyConfig{
			HeightFraction: 0.95,
			Top:            [3]int{10, 10, 30},
			Bottom:         [3]int{30, 30, 60},
			Background:     [3]int{10, 10, 26},
		},
		World: WorldConfig{
			MapFile:       "assets/village.yaml",
			VillagerCount: 20,
			Seed:          1,
		},
		Threading: ThreadingConfig{
			Workers: 1,
		},
		Debug: DebugConfig{
			LogLevel:        "info",
			PerfLogInterval: 300,
		},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New("reading config failed").
			WithType(ErrTypeConfigLoad).
			WithTag("path", filename).
			Wrap(err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New("parsing config failed").
			WithType(ErrTypeConfigLoad).
			WithTag("path", filename).
			Wrap(err)
	}
	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

func (c *Config) GetScreenWidth() int {
	if c.Display.ScreenWidth <= 0 {
		return 1280
	}
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	if c.Display.ScreenHeight <= 0 {
		return 720
	}
	return c.Display.ScreenHeight
}

func (c *Config) GetTPS() int {
	if c.Display.TPS <= 0 {
		return 60
	}
	return c.Display.TPS
}

// GetFOV returns the horizontal field of view in radians.
func (c *Config) GetFOV() float64 {
	if c.Camera.FOVDeg <= 0 || c.Camera.FOVDeg >= 180 {
		return math.Pi / 3
	}
	return c.Camera.FOVDeg * math.Pi / 180
}

// GetStartHeading returns the initial heading in radians.
func (c *Config) GetStartHeading() float64 {
	return c.Camera.HeadingDeg * math.Pi / 180
}

func (c *Config) GetRayCount() int {
	if c.Camera.RayCount <= 0 {
		return 400
	}
	return c.Camera.RayCount
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

func (c *Config) GetTurnSpeed() float64 {
	return c.Movement.TurnSpeed
}

func (c *Config) GetPitchLimit() float64 {
	if c.Movement.PitchLimit <= 0 {
		return 0.8
	}
	return c.Movement.PitchLimit
}

func (c *Config) GetWorkers() int {
	return max(1, c.Threading.Workers)
}

// GetSkyTop, GetSkyBottom and GetSkyBackground convert the configured
// triplets to colours.
func (c *Config) GetSkyTop() color.RGBA {
	return rgb(c.Sky.Top)
}

func (c *Config) GetSkyBottom() color.RGBA {
	return rgb(c.Sky.Bottom)
}

func (c *Config) GetSkyBackground() color.RGBA {
	return rgb(c.Sky.Background)
}

func rgb(v [3]int) color.RGBA {
	clamp := func(x int) uint8 {
		return uint8(min(max(x, 0), 255))
	}
	return color.RGBA{clamp(v[0]), clamp(v[1]), clamp(v[2]), 255}
}
