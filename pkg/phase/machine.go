package phase

import (
	"time"

	"github.com/golang/glog"

	"github.com/tactilab/braille.go/pkg/braille"
	"github.com/tactilab/braille.go/pkg/display"
	"github.com/tactilab/braille.go/pkg/matrix"
)

// Machine owns the active phase and drives the display through phase
// transitions and slate input. It performs no I/O itself: all actuation
// goes through the timing engine, all outbound lines are returned to
// the caller.
type Machine struct {
	engine *display.Engine
	geo    matrix.Geometry

	phase      Phase
	cursorCell int
}

// NewMachine creates a Machine starting in the Off phase with the
// output fabric disabled.
func NewMachine(engine *display.Engine, geo matrix.Geometry) *Machine {
	return &Machine{engine: engine, geo: geo}
}

// Phase returns the active phase.
func (m *Machine) Phase() Phase { return m.phase }

// CursorCell returns the cell of the most recent local dot action.
func (m *Machine) CursorCell() int { return m.cursorCell }

// SetPhase switches the active phase. Selecting the current phase is a
// no-op that still reports success, so a host may re-send its phase
// after a reconnect without disturbing the display. Returns whether a
// transition actually happened.
func (m *Machine) SetPhase(p Phase, now time.Time) (bool, error) {
	if p == m.phase {
		return false, nil
	}
	glog.Infof("phase %v -> %v", m.phase, p)
	prev := m.phase
	m.phase = p
	m.cursorCell = 0

	if p == Off {
		// Blank synchronously before cutting the output gate so a
		// later enable does not replay stale glyphs.
		if err := m.engine.Reset(now); err != nil {
			return true, err
		}
		return true, m.engine.Fabric().Disable()
	}
	if prev == Off {
		if err := m.engine.Fabric().Enable(); err != nil {
			return true, err
		}
	}
	m.showText(entryText(p), false, now)
	return true, nil
}

// ShowText renders text onto the display through the settle path.
func (m *Machine) ShowText(text string, now time.Time) {
	m.showText(text, false, now)
}

// ShowMirrored renders text with every cell geometrically mirrored.
func (m *Machine) ShowMirrored(text string, now time.Time) {
	m.showText(text, true, now)
}

func (m *Machine) showText(text string, mirrored bool, now time.Time) {
	cells := m.engine.Cells()
	var patterns []byte
	if mirrored {
		patterns = braille.RenderMirrored(text, cells)
	} else {
		patterns = braille.Render(text, cells)
	}
	for c, p := range patterns {
		m.engine.SetCellPattern(c, p, now)
	}
}

// Clear blanks the display through the settle path.
func (m *Machine) Clear(now time.Time) {
	m.engine.Clear(now)
	m.cursorCell = 0
}

// HandleButton runs one debounced slate event through the active phase
// and returns the lines to emit on the host link.
func (m *Machine) HandleButton(ev matrix.Event, now time.Time) []string {
	cell, dot := m.geo.CellDot(ev.Row, ev.Col)
	act := DispatchButton(m.phase, ev.Row, ev.Col, cell, dot, ev.Pressed)
	if act.LightCell >= 0 {
		// Exactly the pressed dot, not accumulated into the prior
		// pattern: the host confirms or corrects each poke.
		m.engine.SetCellPattern(act.LightCell, 1<<uint(act.LightDot-1), now)
		m.cursorCell = act.LightCell
	}
	return act.Events
}

// Reset blanks the display and cursor state. The active phase is kept:
// RESET recovers the apparatus, it does not end the lesson.
func (m *Machine) Reset(now time.Time) error {
	m.cursorCell = 0
	return m.engine.Reset(now)
}
