package tictactoe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
)

var ErrInvalidDimensions = errors.New("invalid board dimensions")

// MoveRecord is one entry of the move history: who moved where, and the
// state key of the grid right before the move.
type MoveRecord struct {
	Key    StateKey
	Player entity.Player
	Cell   int
}

// Board is a rows x cols grid. A line wins when every cell along a full row,
// a full column or, on square boards, a full diagonal has the same occupant.
type Board struct {
	rows  int
	cols  int
	cells []entity.Cell
	moves []MoveRecord
	lines [][]int
}

func NewBoard(rows, cols int) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}

	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]entity.Cell, rows*cols),
		lines: winLines(rows, cols),
	}, nil
}

// winLines lists rows, then columns, then both diagonals when the board is square.
func winLines(rows, cols int) [][]int {
	lines := make([][]int, 0, rows+cols+2)

	for row := 0; row < rows; row++ {
		line := make([]int, cols)
		for col := 0; col < cols; col++ {
			line[col] = row*cols + col
		}
		lines = append(lines, line)
	}

	for col := 0; col < cols; col++ {
		line := make([]int, rows)
		for row := 0; row < rows; row++ {
			line[row] = row*cols + col
		}
		lines = append(lines, line)
	}

	if rows == cols {
		diag := make([]int, rows)
		anti := make([]int, rows)
		for i := 0; i < rows; i++ {
			diag[i] = i*cols + i
			anti[i] = i*cols + (cols - 1 - i)
		}
		lines = append(lines, diag, anti)
	}

	return lines
}

func (that *Board) Rows() int { return that.rows }
func (that *Board) Cols() int { return that.cols }

// Size is the number of cells.
func (that *Board) Size() int { return len(that.cells) }

// Set places player at (row, col).
func (that *Board) Set(row, col int, player entity.Player) error {
	if row < 0 || row >= that.rows || col < 0 || col >= that.cols {
		return fmt.Errorf("%w: %w: row %d col %d", apperror.ErrIllegalMove, apperror.ErrInvalidCell, row, col)
	}

	return that.SetByIndex(that.index(row, col), player)
}

// SetByIndex places player at a flat row-major index. On error the grid and
// the move history are left unchanged.
func (that *Board) SetByIndex(index int, player entity.Player) error {
	if index < 0 || index >= len(that.cells) {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrIllegalMove, apperror.ErrInvalidCell, index)
	}

	if !player.IsValid() {
		return fmt.Errorf("%w: unknown player %s", apperror.ErrIllegalMove, player)
	}

	if !that.cells[index].IsEmpty() {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrIllegalMove, apperror.ErrCellOccupied, index)
	}

	that.moves = append(that.moves, MoveRecord{
		Key:    that.Key(),
		Player: player,
		Cell:   index,
	})
	that.cells[index] = entity.Occupied(player)

	return nil
}

// Key encodes the current grid.
func (that *Board) Key() StateKey {
	return encodeKey(that.cells)
}

// AvailableCells lists the indices of empty cells in ascending order.
func (that *Board) AvailableCells() []int {
	available := make([]int, 0, len(that.cells))
	for i, cell := range that.cells {
		if cell.IsEmpty() {
			available = append(available, i)
		}
	}

	return available
}

func (that *Board) MovesAvailable() bool {
	for _, cell := range that.cells {
		if cell.IsEmpty() {
			return true
		}
	}

	return false
}

// Moves returns a copy of the move history, oldest first.
func (that *Board) Moves() []MoveRecord {
	moves := make([]MoveRecord, len(that.moves))
	copy(moves, that.moves)

	return moves
}

// IsEmpty reports whether no move has been made yet.
func (that *Board) IsEmpty() bool {
	return len(that.moves) == 0 && len(that.AvailableCells()) == len(that.cells)
}

// DetermineWinner checks every line first, so a full board with a completed
// line is a win. ok is false while the game is still going.
func (that *Board) DetermineWinner() (GameResult, bool) {
	for _, line := range that.lines {
		if player, won := that.checkLine(line); won {
			return GameResult{winner: player}, true
		}
	}

	if that.MovesAvailable() {
		return GameResult{}, false
	}

	return GameResult{}, true
}

func (that *Board) checkLine(line []int) (entity.Player, bool) {
	first, occupied := that.cells[line[0]].Player()
	if !occupied {
		return 0, false
	}

	for _, index := range line[1:] {
		if player, ok := that.cells[index].Player(); !ok || player != first {
			return 0, false
		}
	}

	return first, true
}

// Reset empties the grid and clears the move history.
func (that *Board) Reset() {
	for i := range that.cells {
		that.cells[i] = entity.EmptyCell
	}
	that.moves = that.moves[:0]
}

// String renders the grid as rows of symbols separated by '/'.
func (that *Board) String() string {
	key := string(that.Key())
	rows := make([]string, 0, that.rows)
	for row := 0; row < that.rows; row++ {
		rows = append(rows, key[row*that.cols:(row+1)*that.cols])
	}

	return strings.Join(rows, "/")
}

func (that *Board) index(row, col int) int {
	return row*that.cols + col
}
