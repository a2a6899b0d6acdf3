// Package player moves a first-person camera through the village.
package player

import (
	"math"

	"hamlet/internal/collision"
	"hamlet/internal/config"
	"hamlet/internal/mathutil"
	"hamlet/internal/render"
)

// Controls is the player intent for one tick.
type Controls struct {
	Forward, Backward bool
	StrafeLeft        bool
	StrafeRight       bool
	TurnLeft          bool
	TurnRight         bool
	LookUp, LookDown  bool
	Jump              bool
	// MouseDX and MouseDY are cursor deltas while the mouse is captured.
	MouseDX, MouseDY float64
}

// FirstPersonCamera is the player: a position on the ground plane, an eye
// height that jumps and falls, and the view angles.
type FirstPersonCamera struct {
	X, Y      float64
	Z         float64
	GroundZ   float64
	VelocityZ float64
	Angle     float64
	Pitch     float64
	FOV       float64
	RayCount  int

	movement config.MovementConfig
	body     collision.Body
}

// NewFirstPersonCamera places the camera at the configured start.
func NewFirstPersonCamera(cfg *config.Config) *FirstPersonCamera {
	return &FirstPersonCamera{
		X:        cfg.Camera.StartX,
		Y:        cfg.Camera.StartY,
		Z:        cfg.Camera.EyeHeight,
		GroundZ:  cfg.Camera.EyeHeight,
		Angle:    cfg.GetStartHeading(),
		FOV:      cfg.GetFOV(),
		RayCount: cfg.GetRayCount(),
		movement: cfg.Movement,
		body: collision.Body{
			Radius: cfg.Movement.PlayerRadius,
			Margin: cfg.Movement.WorldMargin,
		},
	}
}

// GetForwardX returns the X component of the forward direction vector
func (c *FirstPersonCamera) GetForwardX() float64 {
	return math.Cos(c.Angle)
}

// GetForwardY returns the Y component of the forward direction vector
func (c *FirstPersonCamera) GetForwardY() float64 {
	return math.Sin(c.Angle)
}

// GetRightX returns the X component of the right direction vector
func (c *FirstPersonCamera) GetRightX() float64 {
	return math.Cos(c.Angle + math.Pi/2)
}

// GetRightY returns the Y component of the right direction vector
func (c *FirstPersonCamera) GetRightY() float64 {
	return math.Sin(c.Angle + math.Pi/2)
}

// Rotate turns the camera by angle radians, keeping Angle in (-Pi, Pi].
func (c *FirstPersonCamera) Rotate(angle float64) {
	c.Angle = mathutil.NormalizeAngle(c.Angle + angle)
}

// Look tilts the view, clamped to the configured pitch limit.
func (c *FirstPersonCamera) Look(delta float64) {
	limit := c.pitchLimit()
	c.Pitch = mathutil.Clamp(c.Pitch+delta, -limit, limit)
}

func (c *FirstPersonCamera) pitchLimit() float64 {
	if c.movement.PitchLimit <= 0 {
		return 0.8
	}
	return c.movement.PitchLimit
}

// OnGround reports whether the camera is standing.
func (c *FirstPersonCamera) OnGround() bool {
	return c.Z <= c.GroundZ
}

// Jump starts a jump when standing.
func (c *FirstPersonCamera) Jump() {
	if c.OnGround() {
		c.VelocityZ = c.movement.JumpVelocity
	}
}

// stepVertical applies one tick of gravity.
func (c *FirstPersonCamera) stepVertical() {
	c.VelocityZ -= c.movement.Gravity
	c.Z += c.VelocityZ
	if c.Z <= c.GroundZ {
		c.Z = c.GroundZ
		c.VelocityZ = 0
	}
}

// Move slides the camera by (dx, dy) through the collision system.
func (c *FirstPersonCamera) Move(cs *collision.CollisionSystem, dx, dy float64) {
	c.X, c.Y = cs.Slide(c.X, c.Y, dx, dy, c.body)
}

// Apply advances the camera one tick. Every movement key is a separate
// slide so diagonal input moves like the sum of its parts.
func (c *FirstPersonCamera) Apply(ctrl Controls, cs *collision.CollisionSystem) {
	speed := c.movement.MoveSpeed
	fx, fy := c.GetForwardX()*speed, c.GetForwardY()*speed
	rx, ry := c.GetRightX()*speed, c.GetRightY()*speed

	if ctrl.Forward {
		c.Move(cs, fx, fy)
	}
	if ctrl.Backward {
		c.Move(cs, -fx, -fy)
	}
	if ctrl.StrafeLeft {
		c.Move(cs, -rx, -ry)
	}
	if ctrl.StrafeRight {
		c.Move(cs, rx, ry)
	}

	if ctrl.TurnLeft {
		c.Rotate(-c.movement.TurnSpeed)
	}
	if ctrl.TurnRight {
		c.Rotate(c.movement.TurnSpeed)
	}
	if ctrl.LookUp {
		c.Look(c.movement.PitchSpeed)
	}
	if ctrl.LookDown {
		c.Look(-c.movement.PitchSpeed)
	}
	if ctrl.MouseDX != 0 || ctrl.MouseDY != 0 {
		c.Rotate(ctrl.MouseDX * c.movement.MouseSensitivity)
		c.Look(-ctrl.MouseDY * c.movement.MouseSensitivity)
	}

	if ctrl.Jump {
		c.Jump()
	}
	c.stepVertical()
}

// Pose snapshots the camera for rendering.
func (c *FirstPersonCamera) Pose() render.Pose {
	return render.Pose{
		X:        c.X,
		Y:        c.Y,
		Z:        c.Z,
		Heading:  c.Angle,
		Pitch:    c.Pitch,
		FOV:      c.FOV,
		RayCount: c.RayCount,
	}
}
