package game

import (
	"time"

	"hamlet/internal/render"
	"hamlet/internal/threading/monitoring"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// perfLogger logs a performance snapshot every interval ticks and warns
// when the frame rate drops below the target.
type perfLogger struct {
	monitor  *monitoring.PerformanceMonitor
	interval int
	minFPS   float64
	ticks    int
}

func newPerfLogger(monitor *monitoring.PerformanceMonitor, interval int, minFPS float64) *perfLogger {
	if interval <= 0 {
		interval = 300
	}
	return &perfLogger{monitor: monitor, interval: interval, minFPS: minFPS}
}

func (p *perfLogger) tick(stats render.FrameStats) {
	p.ticks++
	if p.ticks%p.interval != 0 {
		return
	}

	fields := perfFields(p.monitor.GetCurrentMetrics(), stats)
	entry := logs.WithTag(fields[0].key, fields[0].value)
	for _, f := range fields[1:] {
		entry = entry.WithTag(f.key, f.value)
	}
	entry.Info("performance snapshot")

	for _, alert := range p.monitor.CheckPerformanceAlerts(p.minFPS) {
		logs.Warn(errors.Newf("%s", alert.Message).
			WithType(alert.Type).
			WithTag("fps", alert.Value).
			WithTag("target_fps", alert.Threshold))
	}
}

type perfField struct {
	key   string
	value string
}

func perfFields(m monitoring.Metrics, stats render.FrameStats) []perfField {
	return []perfField{
		{"frames", humanize.Comma(int64(m.Frames))},
		{"fps", humanize.FtoaWithDigits(m.FramesPerSecond, 1)},
		{"avg_frame", formatDuration(m.AvgFrameTime)},
		{"avg_raycast", formatDuration(m.AvgRaycastTime)},
		{"avg_sprites", formatDuration(m.AvgSpriteTime)},
		{"rays", humanize.Comma(int64(stats.Rays))},
		{"sprites_drawn", humanize.Comma(int64(stats.Sprites.Drawn))},
		{"sprite_pixels", humanize.Comma(int64(stats.Sprites.Pixels))},
		{"memory", humanize.Bytes(m.MemoryAlloc)},
		{"goroutines", humanize.Comma(int64(m.Goroutines))},
		{"uptime", formatDuration(m.Uptime)},
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}
