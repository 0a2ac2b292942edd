package phase

import "github.com/tactilab/braille.go/pkg/lineproto"

// ButtonAction is the outcome of dispatching one slate button event:
// an optional local dot to light plus outbound event lines.
type ButtonAction struct {
	// LightCell/LightDot command a single dot to be shown locally.
	// LightCell is -1 when no local action is required.
	LightCell int
	LightDot  int
	// Events are the lines to emit on the host link.
	Events []string
}

// DispatchButton interprets a debounced slate button event according to
// the active phase. Pure function of its inputs.
//
// Embossing lights the pressed dot locally and reports it; Gamification
// relays presses as game input; every other active phase relays raw
// button events for the host to interpret. Off swallows everything:
// the apparatus is inactive.
func DispatchButton(p Phase, row, col, cell, dot int, pressed bool) ButtonAction {
	act := ButtonAction{LightCell: -1}
	if p == Off {
		return act
	}
	if !pressed {
		act.Events = append(act.Events, lineproto.FormatButtonRelease(row, col, cell, dot))
		return act
	}
	switch {
	case p == Embossing && dot > 0:
		act.LightCell, act.LightDot = cell, dot
		act.Events = append(act.Events, lineproto.FormatDotPressed(cell, dot))
	case p == Gamification && dot > 0:
		act.Events = append(act.Events, lineproto.FormatGameInput(cell, dot))
	default:
		// Presses outside the dot block, and all presses in the
		// remaining phases, are relayed verbatim.
		act.Events = append(act.Events, lineproto.FormatButtonPress(row, col, cell, dot))
	}
	return act
}
