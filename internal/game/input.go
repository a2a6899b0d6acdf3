package game

import (
	"hamlet/internal/game/keytracker"
	"hamlet/internal/player"

	"github.com/hajimehoshi/ebiten/v2"
)

// InputHandler reads the keyboard and mouse into Controls. A click
// captures the cursor for mouse look; Escape releases it.
type InputHandler struct {
	captured     bool
	lastX, lastY int

	clickTracker  keytracker.KeyStateTracker
	escapeTracker keytracker.KeyStateTracker
	perfTracker   keytracker.KeyStateTracker
}

// NewInputHandler creates a new input handler
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Captured reports whether mouse look is active.
func (ih *InputHandler) Captured() bool {
	return ih.captured
}

// PerfToggled reports an F3 press.
func (ih *InputHandler) PerfToggled() bool {
	return ih.perfTracker.IsKeyJustPressed(ebiten.KeyF3)
}

// ReadControls samples the input devices for the current tick.
func (ih *InputHandler) ReadControls() player.Controls {
	ctrl := player.Controls{
		Forward:     ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Backward:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		StrafeLeft:  ebiten.IsKeyPressed(ebiten.KeyA),
		StrafeRight: ebiten.IsKeyPressed(ebiten.KeyD),
		TurnLeft:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		TurnRight:   ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		LookUp:      ebiten.IsKeyPressed(ebiten.KeyQ),
		LookDown:    ebiten.IsKeyPressed(ebiten.KeyE),
		Jump:        ebiten.IsKeyPressed(ebiten.KeySpace),
	}

	ih.handleMouseInput(&ctrl)
	return ctrl
}

func (ih *InputHandler) handleMouseInput(ctrl *player.Controls) {
	if ih.escapeTracker.IsKeyJustPressed(ebiten.KeyEscape) && ih.captured {
		ih.captured = false
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	if ih.clickTracker.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !ih.captured {
		ih.captured = true
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		ih.lastX, ih.lastY = ebiten.CursorPosition()
		return
	}
	if !ih.captured {
		return
	}

	x, y := ebiten.CursorPosition()
	ctrl.MouseDX = float64(x - ih.lastX)
	ctrl.MouseDY = float64(y - ih.lastY)
	ih.lastX, ih.lastY = x, y
}
