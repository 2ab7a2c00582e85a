package tictactoe

// View is the read-only surface of a board that players decide on.
type View interface {
	Rows() int
	Cols() int
	Key() StateKey
	AvailableCells() []int
	Moves() []MoveRecord
}

var _ View = (*Board)(nil)
