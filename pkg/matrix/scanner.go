package matrix

import "time"

// Event is a debounced press or release of one button.
type Event struct {
	Row     int
	Col     int
	Pressed bool
}

// Port abstracts the row-drive/column-read hardware of the matrix.
type Port interface {
	// SelectRow drives one row line active. The implementation waits
	// out the row-settle time before returning.
	SelectRow(row int) error
	// DeselectRow restores the row line to inactive so adjacent rows
	// are not falsely sensed.
	DeselectRow(row int) error
	// ReadCols samples every column line while a row is selected.
	// dst[i] is true when the contact at column i is closed.
	ReadCols(dst []bool) error
}

type buttonCell struct {
	raw        bool
	pressed    bool
	lastChange time.Time
}

// Scanner debounces the button matrix. Each cell is debounced
// independently: a raw reading must hold for the debounce window before
// the cell's state changes and exactly one event is emitted.
type Scanner struct {
	port     Port
	geo      Geometry
	debounce time.Duration

	cells  [][]buttonCell
	colBuf []bool
}

// NewScanner creates a Scanner over a Port.
func NewScanner(port Port, geo Geometry, debounce time.Duration) *Scanner {
	s := &Scanner{
		port:     port,
		geo:      geo,
		debounce: debounce,
		cells:    make([][]buttonCell, geo.Rows),
		colBuf:   make([]bool, geo.Cols),
	}
	for r := range s.cells {
		s.cells[r] = make([]buttonCell, geo.Cols)
	}
	return s
}

// Geometry returns the grid geometry.
func (s *Scanner) Geometry() Geometry { return s.geo }

// Pressed returns the debounced state of one button.
func (s *Scanner) Pressed(row, col int) bool {
	if !s.geo.Valid(row, col) {
		return false
	}
	return s.cells[row][col].pressed
}

// Reset returns every cell to released with no pending debounce. No
// release events are emitted for buttons held at reset time.
func (s *Scanner) Reset() {
	for r := range s.cells {
		for c := range s.cells[r] {
			s.cells[r][c] = buttonCell{}
		}
	}
}

// Scan performs one full pass: each row is driven in turn, every column
// sampled, and the row restored before the next. It emits zero or more
// events, at most one per cell, never a press and a release for the
// same cell in one call.
func (s *Scanner) Scan(now time.Time) ([]Event, error) {
	var events []Event
	for r := 0; r < s.geo.Rows; r++ {
		if err := s.port.SelectRow(r); err != nil {
			return events, err
		}
		readErr := s.port.ReadCols(s.colBuf)
		if err := s.port.DeselectRow(r); err != nil && readErr == nil {
			readErr = err
		}
		if readErr != nil {
			return events, readErr
		}
		for c := 0; c < s.geo.Cols; c++ {
			cell := &s.cells[r][c]
			if raw := s.colBuf[c]; raw != cell.raw {
				cell.raw = raw
				cell.lastChange = now
			}
			if cell.pressed != cell.raw && now.Sub(cell.lastChange) >= s.debounce {
				cell.pressed = cell.raw
				events = append(events, Event{Row: r, Col: c, Pressed: cell.pressed})
			}
		}
	}
	return events, nil
}
