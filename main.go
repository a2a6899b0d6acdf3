package main

import (
	"context"
	"net/http"
	"os"
	"reflect"
	"syscall"

	"hamlet/internal/config"
	"hamlet/internal/game"
	"hamlet/internal/scene"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/hajimehoshi/ebiten/v2"
)

var _ = reflect.TypeOf(options{})

type options struct {
	Config      string `cli:"" env:"HAMLET_CONFIG"       help:"The YAML configuration file."`
	LogLevel    string `cli:"" env:"HAMLET_LOG_LEVEL"    help:"Log level (debug|info|warning|error). Overrides the configuration."`
	MetricsAddr string `cli:"" env:"HAMLET_METRICS_ADDR" help:"Serve Prometheus metrics on this address. Overrides the configuration."`
	Help        bool   `cli:"" env:"-"                   help:"Show help."`
}

func main() {
	opts := options{Config: "config.yaml"}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Walks through the village.").
		Options(&opts)
	cli.Load()

	cfg := config.MustLoadConfig(opts.Config)
	if opts.LogLevel != "" {
		cfg.Debug.LogLevel = opts.LogLevel
	}
	if opts.MetricsAddr != "" {
		cfg.Debug.MetricsAddr = opts.MetricsAddr
	}
	logs.SetLevel(logs.ParseLevel(cfg.Debug.LogLevel))

	s, err := scene.New(cfg)
	if err != nil {
		logs.Fatal(errors.New("loading scene failed").Wrap(err))
	}

	if addr := cfg.Debug.MetricsAddr; addr != "" {
		serveMetrics(ctx, addr, s.Renderer.Monitor().Handler())
	}

	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	ebiten.SetTPS(cfg.GetTPS())
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	logs.WithTag("map", cfg.World.MapFile).
		WithTag("villagers", cfg.World.VillagerCount).
		WithTag("workers", cfg.GetWorkers()).
		Info("starting viewer")

	g := game.NewGame(cfg, s)
	g.StopOn(ctx)
	err = ebiten.RunGame(g)
	s.Close()
	if err != nil {
		logs.Fatal(errors.New("running viewer failed").Wrap(err))
	}
}

func serveMetrics(ctx context.Context, addr string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	go func() {
		logs.WithTag("addr", addr).Info("serving metrics")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Warn(errors.New("metrics server failed").Wrap(err))
		}
	}()
}
