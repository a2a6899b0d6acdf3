package monitoring

import (
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// smoothing is the weight of the newest sample in the running averages.
const smoothing = 0.1

// PerformanceMonitor tracks per-frame rendering timings. Each monitor owns
// its own Prometheus registry, so several renderers can be measured side
// by side.
type PerformanceMonitor struct {
	frameCount  atomic.Uint64
	frameTime   atomic.Int64 // nanoseconds
	raycastTime atomic.Int64
	spriteTime  atomic.Int64

	mutex          sync.RWMutex
	avgFrameTime   float64
	avgRaycastTime float64
	avgSpriteTime  float64
	startTime      time.Time

	registry        *prometheus.Registry
	framesTotal     prometheus.Counter
	frameSeconds    prometheus.Histogram
	raycastSeconds  prometheus.Histogram
	spriteSeconds   prometheus.Histogram
	rays            prometheus.Gauge
	spritesDrawn    prometheus.Counter
	columnsOccluded prometheus.Counter
}

var frameBuckets = []float64{.001, .002, .004, .008, .016, .033, .066, .125, .25}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		startTime: time.Now(),
		registry:  prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hamlet_frames_total",
			Help: "The number of rendered frames.",
		}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hamlet_frame_seconds",
			Help:    "The time to render a whole frame.",
			Buckets: frameBuckets,
		}),
		raycastSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hamlet_raycast_seconds",
			Help:    "The time spent casting and rasterizing columns.",
			Buckets: frameBuckets,
		}),
		spriteSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hamlet_sprite_seconds",
			Help:    "The time spent compositing billboards.",
			Buckets: frameBuckets,
		}),
		rays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hamlet_rays",
			Help: "The ray count of the last frame.",
		}),
		spritesDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hamlet_sprites_drawn_total",
			Help: "The number of billboards that painted at least one pixel.",
		}),
		columnsOccluded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hamlet_sprite_columns_occluded_total",
			Help: "The number of billboard columns hidden behind walls.",
		}),
	}

	pm.registry.MustRegister(
		pm.framesTotal,
		pm.frameSeconds,
		pm.raycastSeconds,
		pm.spriteSeconds,
		pm.rays,
		pm.spritesDrawn,
		pm.columnsOccluded,
	)
	return pm
}

// Registry exposes the monitor's collectors.
func (pm *PerformanceMonitor) Registry() *prometheus.Registry {
	return pm.registry
}

// Handler serves the monitor's metrics in the Prometheus text format.
func (pm *PerformanceMonitor) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// Timer measures one phase of a frame.
type Timer struct {
	start  time.Time
	finish func(time.Duration)
}

// Stop records the elapsed time and returns it.
func (t Timer) Stop() time.Duration {
	d := time.Since(t.start)
	t.finish(d)
	return d
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() Timer {
	return Timer{start: time.Now(), finish: pm.recordFrame}
}

// StartRaycast begins timing of the column pass
func (pm *PerformanceMonitor) StartRaycast() Timer {
	return Timer{start: time.Now(), finish: pm.recordRaycast}
}

// StartSprites begins timing of the billboard pass
func (pm *PerformanceMonitor) StartSprites() Timer {
	return Timer{start: time.Now(), finish: pm.recordSprites}
}

func (pm *PerformanceMonitor) recordFrame(d time.Duration) {
	pm.frameTime.Store(d.Nanoseconds())
	pm.frameCount.Add(1)
	pm.framesTotal.Inc()
	pm.frameSeconds.Observe(d.Seconds())

	pm.mutex.Lock()
	pm.avgFrameTime = average(pm.avgFrameTime, d, pm.frameCount.Load())
	pm.mutex.Unlock()
}

func (pm *PerformanceMonitor) recordRaycast(d time.Duration) {
	pm.raycastTime.Store(d.Nanoseconds())
	pm.raycastSeconds.Observe(d.Seconds())

	pm.mutex.Lock()
	pm.avgRaycastTime = average(pm.avgRaycastTime, d, pm.frameCount.Load()+1)
	pm.mutex.Unlock()
}

func (pm *PerformanceMonitor) recordSprites(d time.Duration) {
	pm.spriteTime.Store(d.Nanoseconds())
	pm.spriteSeconds.Observe(d.Seconds())

	pm.mutex.Lock()
	pm.avgSpriteTime = average(pm.avgSpriteTime, d, pm.frameCount.Load()+1)
	pm.mutex.Unlock()
}

// average seeds with the first sample and then smooths exponentially.
func average(avg float64, d time.Duration, n uint64) float64 {
	if n <= 1 || avg == 0 {
		return float64(d.Nanoseconds())
	}
	return avg + smoothing*(float64(d.Nanoseconds())-avg)
}

// RecordFrameStats records the work counts of the last frame.
func (pm *PerformanceMonitor) RecordFrameStats(rays, spritesDrawn, columnsOccluded int) {
	pm.rays.Set(float64(rays))
	pm.spritesDrawn.Add(float64(max(0, spritesDrawn)))
	pm.columnsOccluded.Add(float64(max(0, columnsOccluded)))
}

// Metrics is a snapshot of the monitor.
type Metrics struct {
	Frames          uint64
	FramesPerSecond float64
	FrameTime       time.Duration
	AvgFrameTime    time.Duration
	AvgRaycastTime  time.Duration
	AvgSpriteTime   time.Duration
	Uptime          time.Duration
	MemoryAlloc     uint64
	Goroutines      int
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() Metrics {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return Metrics{
		Frames:          pm.frameCount.Load(),
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		AvgFrameTime:    time.Duration(pm.avgFrameTime),
		AvgRaycastTime:  time.Duration(pm.avgRaycastTime),
		AvgSpriteTime:   time.Duration(pm.avgSpriteTime),
		Uptime:          time.Since(pm.startTime),
		MemoryAlloc:     memStats.Alloc,
		Goroutines:      runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
}

// CheckPerformanceAlerts reports a frame rate below minFPS.
func (pm *PerformanceMonitor) CheckPerformanceAlerts(minFPS float64) []PerformanceAlert {
	var alerts []PerformanceAlert

	frameTime := pm.frameTime.Load()
	if frameTime > 0 {
		fps := float64(time.Second) / float64(frameTime)
		if fps < minFPS {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "frame rate is below target",
				Value:     fps,
				Threshold: minFPS,
			})
		}
	}
	return alerts
}

// Reset resets the timing counters. Prometheus collectors are cumulative
// and keep their values.
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.raycastTime.Store(0)
	pm.spriteTime.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgRaycastTime = 0
	pm.avgSpriteTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
