package entity

import "fmt"

// Player is one of the two marks that take turns on the board.
type Player uint8

const (
	PlayerX Player = iota + 1
	PlayerO
)

const (
	symbolX     = "X"
	symbolO     = "O"
	symbolEmpty = "-"
)

func (that Player) String() string {
	switch that {
	case PlayerX:
		return symbolX
	case PlayerO:
		return symbolO
	default:
		return fmt.Sprintf("Player(%d)", uint8(that))
	}
}

// Opponent returns the player that moves after this one.
func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Player) IsValid() bool {
	return that == PlayerX || that == PlayerO
}

// ParsePlayer accepts "x", "X", "o" or "O".
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "x", symbolX:
		return PlayerX, nil
	case "o", symbolO:
		return PlayerO, nil
	default:
		return 0, fmt.Errorf("unknown player %q", s)
	}
}
