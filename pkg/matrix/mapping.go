// Package matrix scans the writing-slate button grid and maps grid
// positions to display cells and dots.
package matrix

// Geometry describes the button grid and how it tiles into Braille
// cells. Both controllers must be built from the same Geometry: the
// cell/dot mapping is part of the wire contract between them.
type Geometry struct {
	Rows        int
	Cols        int
	RowsPerCell int
	ColsPerCell int
}

// DefaultGeometry matches the reference hardware: a 10x10 slate tiled
// into 4x3 blocks per cell.
var DefaultGeometry = Geometry{Rows: 10, Cols: 10, RowsPerCell: 4, ColsPerCell: 3}

// CellsPerRow is the number of cells across one row of blocks.
func (g Geometry) CellsPerRow() int {
	return (g.Cols + g.ColsPerCell - 1) / g.ColsPerCell
}

// Cells is the total number of cell positions addressable on the grid.
func (g Geometry) Cells() int {
	cellRows := (g.Rows + g.RowsPerCell - 1) / g.RowsPerCell
	return cellRows * g.CellsPerRow()
}

// CellDot maps a button position to its cell index and dot number.
// Dot is 1-6 for positions inside the 3x2 dot block of a cell and 0 for
// the spare positions outside it (0 means "no dot").
func (g Geometry) CellDot(row, col int) (cell, dot int) {
	cell = (row/g.RowsPerCell)*g.CellsPerRow() + col/g.ColsPerCell
	localRow, localCol := row%g.RowsPerCell, col%g.ColsPerCell
	if localRow < 3 && localCol < 2 {
		dot = localRow*2 + localCol + 1
	}
	return
}

// Valid reports whether a position is inside the grid.
func (g Geometry) Valid(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}
