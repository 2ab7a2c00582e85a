package entity

// Cell is either empty or occupied by a player. The zero value is an empty cell.
type Cell struct {
	player Player
}

var EmptyCell = Cell{}

func Occupied(player Player) Cell {
	return Cell{player: player}
}

func (that Cell) IsEmpty() bool {
	return that.player == 0
}

// Player returns the occupant, false for an empty cell.
func (that Cell) Player() (Player, bool) {
	return that.player, !that.IsEmpty()
}

// Symbol is the single-character form used in state keys and rendering.
func (that Cell) Symbol() byte {
	switch that.player {
	case PlayerX:
		return symbolX[0]
	case PlayerO:
		return symbolO[0]
	default:
		return symbolEmpty[0]
	}
}

// CellFromSymbol is the inverse of Symbol.
func CellFromSymbol(symbol byte) (Cell, bool) {
	switch symbol {
	case symbolX[0]:
		return Occupied(PlayerX), true
	case symbolO[0]:
		return Occupied(PlayerO), true
	case symbolEmpty[0]:
		return EmptyCell, true
	default:
		return Cell{}, false
	}
}
