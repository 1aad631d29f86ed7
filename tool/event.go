// Package tool turns pointer gestures into graph edits. Each tool claims a
// whole press, move, release cycle; the Dispatcher decides which one.
package tool

import (
	"strings"

	"nodegraph/geometry"
)

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Modifier is a bitmask of held keyboard modifiers.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt

	ModNone Modifier = 0
)

// Has reports whether every bit of m2 is held.
func (m Modifier) Has(m2 Modifier) bool {
	return m2 != 0 && m&m2 == m2
}

func (m Modifier) String() string {
	var parts []string
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// ParseModifier accepts "alt", "shift" or "ctrl".
func ParseModifier(s string) (Modifier, bool) {
	switch strings.ToLower(s) {
	case "alt":
		return ModAlt, true
	case "shift":
		return ModShift, true
	case "ctrl", "control":
		return ModCtrl, true
	}
	return ModNone, false
}

// Event is a pointer event in scene coordinates.
type Event struct {
	Button    Button
	Modifiers Modifier
	Pos       geometry.Point
}

// Left builds a left-button event.
func Left(pos geometry.Point, mods Modifier) Event {
	return Event{Button: ButtonLeft, Modifiers: mods, Pos: pos}
}
