package tictactoe

import "github.com/rocketscienceinc/tictactoe-learner/internal/entity"

// StateKey is the canonical encoding of a grid: one symbol per cell in
// row-major order. Equal grids give equal keys and distinct grids distinct keys.
type StateKey string

func encodeKey(cells []entity.Cell) StateKey {
	buf := make([]byte, len(cells))
	for i, cell := range cells {
		buf[i] = cell.Symbol()
	}

	return StateKey(buf)
}

// Cells decodes the key back into a grid. ok is false if the key holds an
// unknown symbol.
func (that StateKey) Cells() ([]entity.Cell, bool) {
	cells := make([]entity.Cell, len(that))
	for i := 0; i < len(that); i++ {
		cell, ok := entity.CellFromSymbol(that[i])
		if !ok {
			return nil, false
		}
		cells[i] = cell
	}

	return cells, true
}

// Valid reports whether every symbol in the key decodes to a cell.
func (that StateKey) Valid() bool {
	_, ok := that.Cells()
	return ok
}

// AvailableCells lists the empty cell indices of the encoded grid.
func (that StateKey) AvailableCells() []int {
	available := make([]int, 0, len(that))
	for i := 0; i < len(that); i++ {
		if cell, ok := entity.CellFromSymbol(that[i]); ok && cell.IsEmpty() {
			available = append(available, i)
		}
	}

	return available
}
