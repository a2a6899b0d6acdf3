// Package keytracker turns level-triggered ebiten input into edges.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyStateTracker tracks the previous state of one input.
type KeyStateTracker struct {
	prevPressed bool
}

// Update records the current state and reports a rising edge.
func (k *KeyStateTracker) Update(pressed bool) bool {
	justPressed := pressed && !k.prevPressed
	k.prevPressed = pressed
	return justPressed
}

// IsKeyJustPressed returns true if the key was not pressed last frame but is pressed this frame.
func (k *KeyStateTracker) IsKeyJustPressed(key ebiten.Key) bool {
	return k.Update(ebiten.IsKeyPressed(key))
}

// IsMouseButtonJustPressed is IsKeyJustPressed for a mouse button.
func (k *KeyStateTracker) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	return k.Update(ebiten.IsMouseButtonPressed(button))
}
