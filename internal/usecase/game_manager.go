package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

// Agent is one side of a game. DetermineMove returns false when it has no move.
type Agent interface {
	DetermineMove(view tictactoe.View) (int, bool)
	Learn(view tictactoe.View, result tictactoe.GameResult)
}

// ResultObserver is told about every game a GameManager finishes.
type ResultObserver interface {
	ObserveGame(result tictactoe.GameResult, moves int)
	ObserveStalled(player entity.Player)
}

type GameManager struct {
	logger    *slog.Logger
	observer  ResultObserver
	batchSize int
}

// NewGameManager creates a GameManager. observer may be nil; a batchSize of
// zero puts every game of a training run into one batch.
func NewGameManager(logger *slog.Logger, observer ResultObserver, batchSize int) *GameManager {
	return &GameManager{
		logger:    logger.With("component", "game_manager"),
		observer:  observer,
		batchSize: batchSize,
	}
}

// PlayOneGame alternates the agents, X first, until the board reports a
// result, then lets both agents learn from it.
func (that *GameManager) PlayOneGame(board *tictactoe.Board, agentX, agentO Agent) (tictactoe.GameResult, error) {
	if !board.IsEmpty() {
		return tictactoe.GameResult{}, apperror.ErrBoardNotEmpty
	}

	current := entity.PlayerX
	for {
		agent := agentX
		if current == entity.PlayerO {
			agent = agentO
		}

		cell, ok := agent.DetermineMove(board)
		if !ok {
			return tictactoe.GameResult{}, &apperror.StalledAgentError{Player: current, Board: board.String()}
		}

		if err := board.SetByIndex(cell, current); err != nil {
			return tictactoe.GameResult{}, fmt.Errorf("player %s failed to make turn: %w", current, err)
		}

		if result, done := board.DetermineWinner(); done {
			agentX.Learn(board, result)
			agentO.Learn(board, result)

			return result, nil
		}

		current = current.Opponent()
	}
}

// Train plays games on board, resetting it before each one. A stalled agent
// aborts only its own game. ctx is checked between games.
func (that *GameManager) Train(ctx context.Context, board *tictactoe.Board, agentX, agentO Agent, games int) (*Stats, error) {
	log := that.logger.With("method", "Train")

	stats := &Stats{}
	batch := that.batchSize
	if batch <= 0 {
		batch = max(games, 1)
	}

	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("training interrupted after %d games: %w", stats.Games, err)
		}

		board.Reset()
		result, err := that.PlayOneGame(board, agentX, agentO)

		var stalled *apperror.StalledAgentError
		switch {
		case errors.As(err, &stalled):
			log.Error("agent stalled", "game", i+1, "player", stalled.Player.String(), "board", stalled.Board)
			that.observeStalled(stalled.Player)
		case err != nil:
			return stats, fmt.Errorf("game %d: %w", i+1, err)
		default:
			log.Debug("game finished", "game", i+1, "result", result.String(), "moves", len(board.Moves()))
			that.observeGame(result, len(board.Moves()))
		}

		stats.record(i/batch, result, err)

		if (i+1)%batch == 0 || i+1 == games {
			current := stats.Batches[len(stats.Batches)-1]
			log.Info("batch finished",
				"batch", current.Index+1,
				"games", current.Games,
				"x_wins", current.XWins,
				"o_wins", current.OWins,
				"ties", current.Ties,
				"stalled", current.Stalled,
				"x_win_rate", current.WinRate(entity.PlayerX),
			)
		}
	}

	return stats, nil
}

func (that *GameManager) observeGame(result tictactoe.GameResult, moves int) {
	if that.observer != nil {
		that.observer.ObserveGame(result, moves)
	}
}

func (that *GameManager) observeStalled(player entity.Player) {
	if that.observer != nil {
		that.observer.ObserveStalled(player)
	}
}
