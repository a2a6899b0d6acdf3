// Command snapshot renders the village from a ring of headings around the
// camera start and writes each view as a PNG.
package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"syscall"
	"time"

	"hamlet/internal/config"
	"hamlet/internal/geometry"
	"hamlet/internal/render"
	"hamlet/internal/scene"
	"hamlet/internal/texture"
	"hamlet/internal/threading/monitoring"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"
)

const ErrTypeSnapshot = "snapshot"

var _ = reflect.TypeOf(options{})

type options struct {
	Config   string `cli:"" env:"HAMLET_CONFIG"            help:"The YAML configuration file."`
	Out      string `cli:"" env:"HAMLET_SNAPSHOT_OUT"      help:"The directory the PNG files are written to."`
	Views    int    `cli:"" env:"HAMLET_SNAPSHOT_VIEWS"    help:"The number of headings, evenly spaced around the start."`
	Width    int    `cli:"" env:"HAMLET_SNAPSHOT_WIDTH"    help:"Image width in pixels."`
	Height   int    `cli:"" env:"HAMLET_SNAPSHOT_HEIGHT"   help:"Image height in pixels."`
	Parallel int    `cli:"" env:"HAMLET_SNAPSHOT_PARALLEL" help:"The number of views rendered at once."`
	Textures string `cli:"" env:"HAMLET_SNAPSHOT_TEXTURES" help:"Also write the atlas textures to this directory, named like sprite overrides."`
	LogLevel string `cli:"" env:"HAMLET_LOG_LEVEL"         help:"Log level (debug|info|warning|error)."`
	Help     bool   `cli:"" env:"-"                        help:"Show help."`
}

func main() {
	opts := options{
		Config:   "config.yaml",
		Out:      "snapshots",
		Views:    8,
		Width:    640,
		Height:   360,
		Parallel: 4,
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Renders the village to PNG files.").
		Options(&opts)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(opts.LogLevel))

	cfg := config.MustLoadConfig(opts.Config)
	s, err := scene.New(cfg)
	if err != nil {
		logs.Fatal(errors.New("loading scene failed").Wrap(err))
	}
	defer s.Close()

	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		logs.Fatal(errors.New("creating output directory failed").
			WithType(ErrTypeSnapshot).
			WithTag("path", opts.Out).
			Wrap(err))
	}

	start := time.Now()
	results := renderViews(ctx, s, opts)
	if opts.Textures != "" {
		results = append(results, dumpAtlas(s.Atlas, opts.Textures)...)
	}

	var written uint64
	failed := 0
	for _, r := range results {
		if r.err != nil {
			logs.Warn(r.err)
			failed++
			continue
		}
		written += r.size
	}

	logs.WithTag("files", len(results)).
		WithTag("failed", failed).
		WithTag("written", humanize.Bytes(written)).
		WithTag("elapsed", durafmt.Parse(time.Since(start)).LimitFirstN(2).String()).
		Info("snapshots rendered")
}

type result struct {
	path string
	size uint64
	err  error
}

// renderViews renders opts.Views headings with at most opts.Parallel in
// flight. Every worker owns a renderer and a frame; the scene's geometry,
// textures and billboards are only read.
func renderViews(ctx context.Context, s *scene.Scene, opts options) []result {
	views := max(1, opts.Views)
	results := make([]result, views)
	monitor := monitoring.NewPerformanceMonitor()
	settings := render.SettingsFromConfig(s.Config)
	start := s.StartPose()

	swg := sizedwaitgroup.New(max(1, opts.Parallel))
	for i := 0; i < views; i++ {
		if ctx.Err() != nil {
			results[i] = result{err: errors.New("snapshot cancelled").WithType(ErrTypeSnapshot).Wrap(ctx.Err())}
			continue
		}

		swg.Add()
		go func(i int) {
			defer swg.Done()

			r := render.NewRenderer(settings, s.Caster, s.Atlas, s.Sky, render.WithMonitor(monitor))
			defer r.Close()

			pose := start
			pose.Heading = start.Heading + 2*math.Pi*float64(i)/float64(views)
			frame := render.NewFrame(opts.Width, opts.Height)
			_, stats := r.RenderFrame(frame, pose, s.Village.Providers()...)

			path := filepath.Join(opts.Out, fmt.Sprintf("view_%02d.png", i))
			size, err := writePNG(path, frame.Image)
			results[i] = result{path: path, size: size, err: err}

			logs.WithTag("path", path).
				WithTag("heading_deg", math.Round(pose.Heading*180/math.Pi)).
				WithTag("size", humanize.Bytes(size)).
				WithTag("stats", stats.String()).
				Debug("view rendered")
		}(i)
	}
	swg.Wait()

	m := monitor.GetCurrentMetrics()
	logs.WithTag("frames", humanize.Comma(int64(m.Frames))).
		WithTag("avg_frame", durafmt.Parse(m.AvgFrameTime).LimitFirstN(2).String()).
		Debug("render timings")
	return results
}

// dumpAtlas writes every atlas texture as a PNG using the names the sprite
// library looks up, so edited copies can be dropped into a sprite
// directory.
func dumpAtlas(atlas *texture.Atlas, dir string) []result {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return []result{{err: errors.New("creating texture directory failed").
			WithType(ErrTypeSnapshot).
			WithTag("path", dir).
			Wrap(err)}}
	}

	textures := map[string]*texture.Texture{"ground": atlas.Ground()}
	for _, c := range geometry.Categories() {
		textures["wall_"+c.String()] = atlas.Wall(c)
		textures["roof_"+c.String()] = atlas.Roof(c)
	}

	var results []result
	for name, t := range textures {
		if t == nil {
			continue
		}
		path := filepath.Join(dir, name+".png")
		size, err := writePNG(path, t.Image())
		results = append(results, result{path: path, size: size, err: err})
	}
	return results
}

func writePNG(path string, img image.Image) (uint64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, errors.New("creating snapshot failed").
			WithType(ErrTypeSnapshot).
			WithTag("path", path).
			Wrap(err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return 0, errors.New("encoding snapshot failed").
			WithType(ErrTypeSnapshot).
			WithTag("path", path).
			Wrap(err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return 0, errors.New("reading snapshot size failed").
			WithType(ErrTypeSnapshot).
			WithTag("path", path).
			Wrap(err)
	}

	if err := file.Close(); err != nil {
		return 0, errors.New("closing snapshot failed").
			WithType(ErrTypeSnapshot).
			WithTag("path", path).
			Wrap(err)
	}
	return uint64(info.Size()), nil
}
