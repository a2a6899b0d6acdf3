package render

import "hamlet/internal/mathutil"

// Pose is the camera snapshot a frame is rendered from. Heading and FOV
// are radians; Pitch is a unitless vertical look offset scaled by
// Settings.PitchScale.
type Pose struct {
	X, Y     float64
	Z        float64
	Heading  float64
	Pitch    float64
	FOV      float64
	RayCount int
}

func (p Pose) rays() int {
	return max(1, p.RayCount)
}

func (p Pose) horizon(height int, pitchScale float64) float64 {
	return float64(height)/2 + p.Pitch*pitchScale
}

// ColumnAngle returns the world angle of column c.
func (p Pose) ColumnAngle(c int) float64 {
	return p.Heading - p.FOV/2 + p.FOV*float64(c)/float64(p.rays())
}

// columnSpan returns the screen columns [x0, x1) painted by ray c. Spans
// tile the frame exactly; with more rays than pixels some are empty.
func columnSpan(c, width, rays int) (int, int) {
	return c * width / rays, (c + 1) * width / rays
}

// columnOf returns the ray whose span holds screen column x: the largest c
// with c*width/rays <= x.
func columnOf(x, width, rays int) int {
	return mathutil.IntClamp(((x+1)*rays-1)/width, 0, rays-1)
}
