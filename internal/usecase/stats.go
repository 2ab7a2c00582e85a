package usecase

import (
	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

// Stats tallies a training run. Games counts stalled games too.
type Stats struct {
	Games   int
	XWins   int
	OWins   int
	Ties    int
	Stalled int
	Batches []BatchStats
}

// BatchStats is the tally of one consecutive window of games.
type BatchStats struct {
	Index   int
	Games   int
	XWins   int
	OWins   int
	Ties    int
	Stalled int
}

// WinRate is the share of the batch's games won by player.
func (that BatchStats) WinRate(player entity.Player) float64 {
	if that.Games == 0 {
		return 0
	}

	wins := that.XWins
	if player == entity.PlayerO {
		wins = that.OWins
	}

	return float64(wins) / float64(that.Games)
}

func (that *Stats) record(batch int, result tictactoe.GameResult, err error) {
	for len(that.Batches) <= batch {
		that.Batches = append(that.Batches, BatchStats{Index: len(that.Batches)})
	}
	current := &that.Batches[batch]

	that.Games++
	current.Games++

	if err != nil {
		that.Stalled++
		current.Stalled++
		return
	}

	winner, won := result.Winner()
	switch {
	case !won:
		that.Ties++
		current.Ties++
	case winner == entity.PlayerX:
		that.XWins++
		current.XWins++
	default:
		that.OWins++
		current.OWins++
	}
}
