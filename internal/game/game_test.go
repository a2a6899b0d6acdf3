package game

import (
	"context"
	"testing"

	"hamlet/internal/config"
	"hamlet/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, resizable bool) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.World.MapFile = "../../assets/village.yaml"
	cfg.World.VillagerCount = 2
	cfg.Sky.Texture = ""
	cfg.Sprites.Directories = nil
	cfg.Display.Resizable = resizable
	cfg.Display.ScreenWidth = 320
	cfg.Display.ScreenHeight = 200

	s, err := scene.New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return NewGame(cfg, s)
}

func TestGameLayout(t *testing.T) {
	g := newTestGame(t, true)
	w, h := g.Layout(640, 480)
	require.Equal(t, 640, w)
	require.Equal(t, 480, h)

	w, h = g.Layout(0, 0)
	require.Equal(t, 320, w)
	require.Equal(t, 200, h)

	g = newTestGame(t, false)
	w, h = g.Layout(640, 480)
	require.Equal(t, 320, w)
	require.Equal(t, 200, h)
}

func TestGameStartsAtConfiguredPose(t *testing.T) {
	g := newTestGame(t, true)
	require.Equal(t, g.scene.StartPose(), g.Camera().Pose())
}

func TestGameStopsOnContext(t *testing.T) {
	g := newTestGame(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	g.StopOn(ctx)
	cancel()
	require.ErrorIs(t, g.Update(), ebiten.Termination)
}
