package apperror

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
)

var (
	ErrIllegalMove    = errors.New("illegal move")
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrBoardNotEmpty  = errors.New("board is not empty")
	ErrStalledAgent   = errors.New("agent has no viable move")
	ErrPersistence    = errors.New("memory persistence failed")
	ErrMemoryNotFound = errors.New("memory not found")
)

// StalledAgentError reports which player could not move and the board it was looking at.
type StalledAgentError struct {
	Player entity.Player
	Board  string
}

func (that *StalledAgentError) Error() string {
	return fmt.Sprintf("%s: player %s on board %s", ErrStalledAgent, that.Player, that.Board)
}

func (that *StalledAgentError) Unwrap() error {
	return ErrStalledAgent
}
