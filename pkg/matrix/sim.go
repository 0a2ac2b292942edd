package matrix

import "errors"

// MemPort is an in-memory Port used by tests and by daemons running
// without hardware.
type MemPort struct {
	down     [][]bool
	selected int
}

// NewMemPort creates a MemPort for the geometry.
func NewMemPort(geo Geometry) *MemPort {
	p := &MemPort{down: make([][]bool, geo.Rows), selected: -1}
	for r := range p.down {
		p.down[r] = make([]bool, geo.Cols)
	}
	return p
}

// SetContact sets the raw contact state of one button.
func (p *MemPort) SetContact(row, col int, closed bool) {
	p.down[row][col] = closed
}

// SelectedRow returns the currently driven row, -1 when none. Lets
// tests verify every row is restored after a scan pass.
func (p *MemPort) SelectedRow() int { return p.selected }

// SelectRow implements Port.
func (p *MemPort) SelectRow(row int) error {
	if p.selected != -1 {
		return errors.New("row already selected")
	}
	p.selected = row
	return nil
}

// DeselectRow implements Port.
func (p *MemPort) DeselectRow(row int) error {
	if p.selected != row {
		return errors.New("row not selected")
	}
	p.selected = -1
	return nil
}

// ReadCols implements Port.
func (p *MemPort) ReadCols(dst []bool) error {
	if p.selected < 0 {
		return errors.New("no row selected")
	}
	copy(dst, p.down[p.selected])
	return nil
}
