package tictactoe

import "github.com/rocketscienceinc/tictactoe-learner/internal/entity"

// GameResult is either a win for one player or a tie. Only the board produces it.
type GameResult struct {
	winner entity.Player
}

// Winner returns the winning player, false for a tie.
func (that GameResult) Winner() (entity.Player, bool) {
	return that.winner, that.winner != 0
}

func (that GameResult) IsTie() bool {
	return that.winner == 0
}

// WonBy reports whether player won the game.
func (that GameResult) WonBy(player entity.Player) bool {
	return that.winner != 0 && that.winner == player
}

// LostBy reports whether player lost the game.
func (that GameResult) LostBy(player entity.Player) bool {
	return that.winner != 0 && that.winner != player
}

func (that GameResult) String() string {
	if that.IsTie() {
		return "tie"
	}

	return that.winner.String() + " wins"
}
