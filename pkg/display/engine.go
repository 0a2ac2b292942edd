package display

import (
	"time"

	"github.com/golang/glog"

	"github.com/tactilab/braille.go/pkg/braille"
)

// DotState is the commanded position of one dot.
type DotState int

// Dot positions.
const (
	DotDown DotState = iota
	DotUp
)

func (s DotState) String() string {
	if s == DotUp {
		return "up"
	}
	return "down"
}

type dotActuator struct {
	target  DotState
	current DotState
	due     time.Time
	pending bool
}

// CellState tracks the commanded pattern of one display cell.
type CellState struct {
	Pattern   byte
	Active    bool
	UpdatedAt time.Time
}

// Engine decouples commanded dot state from physical actuation. Every
// transition is held for a settle delay before it is committed, so rapid
// successive commands cannot chatter the actuators; an immediate mode
// bypasses the delay for test and diagnostic use.
type Engine struct {
	fabric *Fabric
	settle time.Duration
	dots   []dotActuator
	cells  []CellState
}

// NewEngine creates an Engine for a display of the given cell count. The
// fabric must cover cells*6*2 outputs.
func NewEngine(fabric *Fabric, cells int, settle time.Duration) *Engine {
	return &Engine{
		fabric: fabric,
		settle: settle,
		dots:   make([]dotActuator, cells*braille.DotsPerCell),
		cells:  make([]CellState, cells),
	}
}

// Cells is the number of display cells.
func (e *Engine) Cells() int { return len(e.cells) }

// Fabric exposes the output fabric (enable/disable gating).
func (e *Engine) Fabric() *Fabric { return e.fabric }

// Cell returns the commanded state of one cell.
func (e *Engine) Cell(index int) CellState {
	if index < 0 || index >= len(e.cells) {
		return CellState{}
	}
	return e.cells[index]
}

// CurrentCellPattern derives the physically committed pattern of a cell
// from per-dot current states.
func (e *Engine) CurrentCellPattern(index int) byte {
	if index < 0 || index >= len(e.cells) {
		return 0
	}
	var p byte
	for d := 0; d < braille.DotsPerCell; d++ {
		if e.dots[index*braille.DotsPerCell+d].current == DotUp {
			p |= 1 << uint(d)
		}
	}
	return p
}

// DotCurrent returns the committed state of one dot.
func (e *Engine) DotCurrent(dot int) DotState {
	if dot < 0 || dot >= len(e.dots) {
		return DotDown
	}
	return e.dots[dot].current
}

// Pending reports whether any transition is scheduled but not committed.
func (e *Engine) Pending() bool {
	for i := range e.dots {
		if e.dots[i].pending {
			return true
		}
	}
	return false
}

// RequestDot updates a dot's target state. With immediate set the
// transition is committed synchronously; otherwise it matures after the
// settle delay on a later Tick. Out-of-range indices are no-ops.
func (e *Engine) RequestDot(dot int, state DotState, immediate bool, now time.Time) error {
	if dot < 0 || dot >= len(e.dots) {
		glog.V(2).Infof("dot index %d out of range, ignored", dot)
		return nil
	}
	a := &e.dots[dot]
	a.target = state
	if immediate {
		a.current = state
		a.pending = false
		a.due = time.Time{}
		e.rebuild()
		return e.fabric.Commit()
	}
	a.due = now.Add(e.settle)
	a.pending = true
	return nil
}

// SetCellPattern decomposes a 6-bit pattern into six scheduled dot
// requests so all dots of a glyph transition within one settle window.
// This is the only entry point used for text display.
func (e *Engine) SetCellPattern(cell int, pattern byte, now time.Time) {
	if cell < 0 || cell >= len(e.cells) {
		glog.V(2).Infof("cell index %d out of range, ignored", cell)
		return
	}
	pattern &= braille.PatternMask
	e.cells[cell] = CellState{Pattern: pattern, Active: pattern != 0, UpdatedAt: now}
	for d := 0; d < braille.DotsPerCell; d++ {
		state := DotDown
		if pattern&(1<<uint(d)) != 0 {
			state = DotUp
		}
		e.RequestDot(cell*braille.DotsPerCell+d, state, false, now)
	}
}

// Clear blanks every cell, scheduling all dots down through the normal
// settle path.
func (e *Engine) Clear(now time.Time) {
	for c := range e.cells {
		e.SetCellPattern(c, 0, now)
	}
}

// Reset synchronously forces every dot down with no pending timers and
// commits once. Used by the RESET command, which must complete within
// one loop iteration.
func (e *Engine) Reset(now time.Time) error {
	for i := range e.dots {
		e.dots[i] = dotActuator{}
	}
	for c := range e.cells {
		e.cells[c] = CellState{UpdatedAt: now}
	}
	e.rebuild()
	return e.fabric.Commit()
}

// Tick commits every matured transition. All dots maturing in the same
// tick are batched into one rebuild and one fabric commit, bounding the
// number of shift-out operations per iteration. Returns whether a commit
// happened.
func (e *Engine) Tick(now time.Time) (bool, error) {
	updated := false
	for i := range e.dots {
		a := &e.dots[i]
		if a.pending && !a.due.After(now) {
			a.current = a.target
			a.pending = false
			updated = true
		}
	}
	if !updated {
		return false, nil
	}
	e.rebuild()
	return true, e.fabric.Commit()
}

// rebuild rewrites the frame from committed dot states. Exactly one of
// the raise/lower bits is set per dot: raise when up, lower when down.
func (e *Engine) rebuild() {
	frame := e.fabric.Frame()
	for i := range e.dots {
		up := e.dots[i].current == DotUp
		frame.Set(UpBit(i), up)
		frame.Set(DownBit(i), !up)
	}
}
