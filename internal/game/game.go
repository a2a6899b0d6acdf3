package game

import (
	"context"
	"fmt"

	"hamlet/internal/config"
	"hamlet/internal/player"
	"hamlet/internal/render"
	"hamlet/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game is the interactive viewer. It implements ebiten.Game.
type Game struct {
	config *config.Config
	scene  *scene.Scene
	camera *player.FirstPersonCamera
	input  *InputHandler
	perf   *perfLogger

	frame     *render.Frame
	view      *ebiten.Image
	lastStats render.FrameStats
	showPerf  bool
	done      <-chan struct{}
}

// NewGame creates a viewer over s.
func NewGame(cfg *config.Config, s *scene.Scene) *Game {
	return &Game{
		config:   cfg,
		scene:    s,
		camera:   player.NewFirstPersonCamera(cfg),
		input:    NewInputHandler(),
		perf:     newPerfLogger(s.Renderer.Monitor(), cfg.Debug.PerfLogInterval, float64(cfg.GetTPS())),
		frame:    render.NewFrame(cfg.GetScreenWidth(), cfg.GetScreenHeight()),
		showPerf: cfg.Debug.PerfLog,
	}
}

// Camera returns the player camera.
func (g *Game) Camera() *player.FirstPersonCamera {
	return g.camera
}

// StopOn ends the game loop once ctx is done.
func (g *Game) StopOn(ctx context.Context) {
	g.done = ctx.Done()
}

// Update handles all logic for one tick.
func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	if g.input.PerfToggled() {
		g.showPerf = !g.showPerf
	}

	g.camera.Apply(g.input.ReadControls(), g.scene.Village.Collision)
	g.scene.Update()

	if g.showPerf {
		g.perf.tick(g.lastStats)
	}
	return nil
}

// Draw renders the village and the status line. With the performance
// overlay on, the bottom rows show the depth buffer.
func (g *Game) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	g.frame.Resize(bounds.Dx(), bounds.Dy())
	if g.view == nil || g.view.Bounds().Size() != g.frame.Image.Rect.Size() {
		if g.view != nil {
			g.view.Deallocate()
		}
		g.view = ebiten.NewImage(g.frame.Width(), g.frame.Height())
	}

	var depth render.DepthBuffer
	depth, g.lastStats = g.scene.RenderFrame(g.frame, g.camera.Pose())
	if g.showPerf {
		paintDepthStrip(g.frame.Image, depth, g.config.Render.WallFadeDistance)
	}
	g.view.WritePixels(g.frame.Image.Pix)
	screen.DrawImage(g.view, nil)

	status := fmt.Sprintf("Position: (%d, %d)\nFPS: %.0f", int(g.camera.X), int(g.camera.Y), ebiten.ActualFPS())
	if !g.input.Captured() {
		status += "\nClick to look around, Esc to release"
	}
	if g.showPerf {
		status += "\n" + g.lastStats.String()
	}
	ebitenutil.DebugPrint(screen, status)
}

// Layout follows the window when it is resizable.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.config.Display.Resizable && outsideWidth > 0 && outsideHeight > 0 {
		return outsideWidth, outsideHeight
	}
	return g.config.GetScreenWidth(), g.config.GetScreenHeight()
}
