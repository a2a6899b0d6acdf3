package render

import (
	"fmt"
	"time"

	"hamlet/internal/raycast"
	"hamlet/internal/texture"
	"hamlet/internal/threading/core"
	"hamlet/internal/threading/monitoring"
)

// FrameStats summarizes one RenderFrame call.
type FrameStats struct {
	Rays      int
	Sprites   SpriteStats
	Raycast   time.Duration
	Composite time.Duration
	Total     time.Duration
}

// Renderer runs the column pass then the billboard pass for each frame.
// A renderer has a single driver; independent renderers share nothing.
type Renderer struct {
	rasterizer *Rasterizer
	compositor *Compositor
	monitor    *monitoring.PerformanceMonitor
	pool       *core.WorkerPool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMonitor reports timings to m instead of a private monitor.
func WithMonitor(m *monitoring.PerformanceMonitor) Option {
	return func(r *Renderer) {
		r.monitor = m
	}
}

// NewRenderer builds a renderer. When settings.Workers > 1 the column pass
// runs on a worker pool that Close stops.
func NewRenderer(settings Settings, caster *raycast.Caster, atlas *texture.Atlas, sky Sky, opts ...Option) *Renderer {
	r := &Renderer{
		rasterizer: NewRasterizer(settings, caster, atlas, sky),
		compositor: NewCompositor(settings),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.monitor == nil {
		r.monitor = monitoring.NewPerformanceMonitor()
	}

	if settings.Workers > 1 {
		r.pool = core.NewWorkerPool(settings.Workers)
		r.pool.Start()
		r.rasterizer.useWorkerPool(r.pool)
	}
	return r
}

// Monitor returns the renderer's performance monitor.
func (r *Renderer) Monitor() *monitoring.PerformanceMonitor {
	return r.monitor
}

// RenderFrame renders pose into f and composites the providers'
// billboards. The returned depth buffer is valid until the next call with
// the same frame.
func (r *Renderer) RenderFrame(f *Frame, pose Pose, providers ...BillboardProvider) (DepthBuffer, FrameStats) {
	frame := r.monitor.StartFrame()

	raycast := r.monitor.StartRaycast()
	depth := r.rasterizer.Render(f, pose)
	raycastTime := raycast.Stop()

	sprites := r.monitor.StartSprites()
	spriteStats := r.compositor.Composite(f, pose, depth, providers...)
	spriteTime := sprites.Stop()

	stats := FrameStats{
		Rays:      depth.Len(),
		Sprites:   spriteStats,
		Raycast:   raycastTime,
		Composite: spriteTime,
		Total:     frame.Stop(),
	}
	r.monitor.RecordFrameStats(stats.Rays, spriteStats.Drawn, spriteStats.OccludedColumns)
	return depth, stats
}

// Close stops the worker pool, if any.
func (r *Renderer) Close() {
	if r.pool != nil {
		r.pool.Stop()
	}
}

func (s FrameStats) String() string {
	return fmt.Sprintf("rays=%d sprites=%d/%d raycast=%s composite=%s total=%s",
		s.Rays,
		s.Sprites.Drawn,
		s.Sprites.Visible,
		s.Raycast.Round(time.Microsecond),
		s.Composite.Round(time.Microsecond),
		s.Total.Round(time.Microsecond),
	)
}
