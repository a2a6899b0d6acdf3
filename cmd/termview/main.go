// Command termview walks through the village in a terminal. Each character
// cell shows two pixels using the upper half block.
package main

import (
	"context"
	"os"
	"reflect"
	"syscall"
	"time"

	"hamlet/internal/config"
	"hamlet/internal/player"
	"hamlet/internal/render"
	"hamlet/internal/scene"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/time/rate"
)

var _ = reflect.TypeOf(options{})

type options struct {
	Config string `cli:"" env:"HAMLET_CONFIG"   help:"The YAML configuration file."`
	FPS    int    `cli:"" env:"HAMLET_TERM_FPS" help:"The maximum number of redraws per second."`
	Help   bool   `cli:"" env:"-"               help:"Show help."`
}

func main() {
	opts := options{Config: "config.yaml", FPS: 20}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Walks through the village in the terminal.").
		Options(&opts)
	cli.Load()

	cfg := config.MustLoadConfig(opts.Config)
	logs.SetLevel(logs.ParseLevel(cfg.Debug.LogLevel))

	s, err := scene.New(cfg)
	if err != nil {
		logs.Fatal(errors.New("loading scene failed").Wrap(err))
	}
	defer s.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		logs.Fatal(errors.New("creating terminal screen failed").Wrap(err))
	}
	if err := screen.Init(); err != nil {
		logs.Fatal(errors.New("initializing terminal screen failed").Wrap(err))
	}
	defer screen.Fini()

	v := newTermView(s, screen, cfg)
	v.run(ctx, cfg.GetTPS(), max(1, opts.FPS))
}

type termView struct {
	scene  *scene.Scene
	screen tcell.Screen
	camera *player.FirstPersonCamera
	frame  *render.Frame
	ctrl   player.Controls
}

func newTermView(s *scene.Scene, screen tcell.Screen, cfg *config.Config) *termView {
	w, h := screen.Size()
	camera := player.NewFirstPersonCamera(cfg)
	// One ray per terminal column.
	camera.RayCount = max(1, w)
	return &termView{
		scene:  s,
		screen: screen,
		camera: camera,
		frame:  render.NewFrame(max(1, w), max(1, h*2)),
	}
}

// run ticks the simulation at tps and redraws at most fps times a second.
func (v *termView) run(ctx context.Context, tps, fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()
	limiter := rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	v.draw()
	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-events:
			if !v.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			v.camera.Apply(v.ctrl, v.scene.Village.Collision)
			v.ctrl = player.Controls{}
			v.scene.Update()
			if limiter.Allow() {
				v.draw()
			}
		}
	}
}

// handleEvent turns a key press into one tick of movement. Terminals do
// not report key releases, so held keys arrive as repeated presses.
func (v *termView) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.ctrl.Forward = true
		case tcell.KeyDown:
			v.ctrl.Backward = true
		case tcell.KeyLeft:
			v.ctrl.TurnLeft = true
		case tcell.KeyRight:
			v.ctrl.TurnRight = true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'w':
				v.ctrl.Forward = true
			case 's':
				v.ctrl.Backward = true
			case 'a':
				v.ctrl.StrafeLeft = true
			case 'd':
				v.ctrl.StrafeRight = true
			case 'q':
				v.ctrl.LookUp = true
			case 'e':
				v.ctrl.LookDown = true
			case ' ':
				v.ctrl.Jump = true
			}
		}

	case *tcell.EventResize:
		w, h := v.screen.Size()
		v.frame.Resize(max(1, w), max(1, h*2))
		v.camera.RayCount = max(1, w)
		v.screen.Sync()
		v.draw()
	}
	return true
}

// draw renders a frame and packs each vertical pixel pair into one cell:
// the foreground paints the top pixel and the background the bottom one.
func (v *termView) draw() {
	v.scene.RenderFrame(v.frame, v.camera.Pose())

	img := v.frame.Image
	w, h := v.frame.Width(), v.frame.Height()
	for y := 0; y+1 < h; y += 2 {
		for x := 0; x < w; x++ {
			top := img.RGBAAt(x, y)
			bottom := img.RGBAAt(x, y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			v.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
	v.screen.Show()
}
