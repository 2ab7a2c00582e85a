package usecase

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-learner/internal/bot"
	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

type mockAgent struct {
	mock.Mock
}

func (that *mockAgent) DetermineMove(view tictactoe.View) (int, bool) {
	args := that.Called(view)
	return args.Int(0), args.Bool(1)
}

func (that *mockAgent) Learn(view tictactoe.View, result tictactoe.GameResult) {
	that.Called(view, result)
}

type countingObserver struct {
	games   int
	moves   int
	stalled []entity.Player
}

func (that *countingObserver) ObserveGame(_ tictactoe.GameResult, moves int) {
	that.games++
	that.moves += moves
}

func (that *countingObserver) ObserveStalled(player entity.Player) {
	that.stalled = append(that.stalled, player)
}

// randomAgent plays a uniformly random open cell and never learns.
type randomAgent struct {
	rnd *rand.Rand
}

func (that *randomAgent) DetermineMove(view tictactoe.View) (int, bool) {
	available := view.AvailableCells()
	if len(available) == 0 {
		return 0, false
	}

	return available[that.rnd.Intn(len(available))], true
}

func (that *randomAgent) Learn(tictactoe.View, tictactoe.GameResult) {}

// stallOnce reports no move on its first call and then defers to next.
type stallOnce struct {
	next    Agent
	stalled bool
}

func (that *stallOnce) DetermineMove(view tictactoe.View) (int, bool) {
	if !that.stalled {
		that.stalled = true
		return 0, false
	}

	return that.next.DetermineMove(view)
}

func (that *stallOnce) Learn(view tictactoe.View, result tictactoe.GameResult) {
	that.next.Learn(view, result)
}

func newTestManager(observer ResultObserver, batchSize int) *GameManager {
	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return NewGameManager(logger, observer, batchSize)
}

func newBoard(t *testing.T) *tictactoe.Board {
	t.Helper()

	board, err := tictactoe.NewBoard(3, 3)
	require.NoError(t, err)

	return board
}

func TestGameManager_PlayOneGame(t *testing.T) {
	xWins := mock.MatchedBy(func(result tictactoe.GameResult) bool {
		return result.WonBy(entity.PlayerX)
	})

	t.Run("Alternates turns and lets both agents learn", func(t *testing.T) {
		// Given: X plays the top row while O plays the middle row
		agentX := &mockAgent{}
		agentO := &mockAgent{}
		agentX.On("DetermineMove", mock.Anything).Return(0, true).Once()
		agentO.On("DetermineMove", mock.Anything).Return(3, true).Once()
		agentX.On("DetermineMove", mock.Anything).Return(1, true).Once()
		agentO.On("DetermineMove", mock.Anything).Return(4, true).Once()
		agentX.On("DetermineMove", mock.Anything).Return(2, true).Once()
		agentX.On("Learn", mock.Anything, xWins).Once()
		agentO.On("Learn", mock.Anything, xWins).Once()
		board := newBoard(t)

		// When: one game is played
		result, err := newTestManager(nil, 0).PlayOneGame(board, agentX, agentO)

		// Then: X wins and both agents learned once
		require.NoError(t, err)
		assert.True(t, result.WonBy(entity.PlayerX))
		assert.Equal(t, "XXX/OO-/---", board.String())
		agentX.AssertExpectations(t)
		agentO.AssertExpectations(t)
	})

	t.Run("Stalled agent aborts the game", func(t *testing.T) {
		// Given: O has no move after X opens
		agentX := &mockAgent{}
		agentO := &mockAgent{}
		agentX.On("DetermineMove", mock.Anything).Return(4, true).Once()
		agentO.On("DetermineMove", mock.Anything).Return(0, false).Once()
		board := newBoard(t)

		// When: the game is played
		_, err := newTestManager(nil, 0).PlayOneGame(board, agentX, agentO)

		// Then: the stalled player and the board are reported and nobody learns
		require.ErrorIs(t, err, apperror.ErrStalledAgent)
		var stalled *apperror.StalledAgentError
		require.ErrorAs(t, err, &stalled)
		assert.Equal(t, entity.PlayerO, stalled.Player)
		assert.Equal(t, "---/-X-/---", stalled.Board)
		agentX.AssertNotCalled(t, "Learn", mock.Anything, mock.Anything)
		agentO.AssertNotCalled(t, "Learn", mock.Anything, mock.Anything)
	})

	t.Run("Illegal agent move is reported", func(t *testing.T) {
		// Given: O tries the cell X just took
		agentX := &mockAgent{}
		agentO := &mockAgent{}
		agentX.On("DetermineMove", mock.Anything).Return(0, true).Once()
		agentO.On("DetermineMove", mock.Anything).Return(0, true).Once()

		// When: the game is played
		_, err := newTestManager(nil, 0).PlayOneGame(newBoard(t), agentX, agentO)

		// Then: the board error comes back
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Requires an empty board", func(t *testing.T) {
		board := newBoard(t)
		require.NoError(t, board.SetByIndex(0, entity.PlayerX))

		_, err := newTestManager(nil, 0).PlayOneGame(board, &mockAgent{}, &mockAgent{})

		require.ErrorIs(t, err, apperror.ErrBoardNotEmpty)
	})
}

func TestGameManager_Train(t *testing.T) {
	ctx := context.Background()

	t.Run("Every game is a win or a tie", func(t *testing.T) {
		// Given: two learning bots
		rnd := rand.New(rand.NewSource(1))
		agentX := bot.New(entity.PlayerX, bot.DefaultConfig(), rnd)
		agentO := bot.New(entity.PlayerO, bot.DefaultConfig(), rnd)
		observer := &countingObserver{}

		// When: they train for 200 games
		stats, err := newTestManager(observer, 50).Train(ctx, newBoard(t), agentX, agentO, 200)

		// Then: the tallies add up and nobody stalled
		require.NoError(t, err)
		assert.Equal(t, 200, stats.Games)
		assert.Equal(t, 0, stats.Stalled)
		assert.Equal(t, 200, stats.XWins+stats.OWins+stats.Ties)
		assert.Equal(t, 200, observer.games)
		assert.Empty(t, observer.stalled)
		assert.Greater(t, agentX.Len(), 0)
		assert.Greater(t, agentO.Len(), 0)

		require.Len(t, stats.Batches, 4)
		total := 0
		for i, batch := range stats.Batches {
			assert.Equal(t, i, batch.Index)
			assert.Equal(t, 50, batch.Games)
			total += batch.XWins + batch.OWins + batch.Ties
		}
		assert.Equal(t, 200, total)
	})

	t.Run("Stalled game does not stop training", func(t *testing.T) {
		// Given: an X agent that stalls in the first game only
		rnd := rand.New(rand.NewSource(2))
		agentX := &stallOnce{next: bot.New(entity.PlayerX, bot.DefaultConfig(), rnd)}
		agentO := bot.New(entity.PlayerO, bot.DefaultConfig(), rnd)
		observer := &countingObserver{}

		// When: they train for 10 games
		stats, err := newTestManager(observer, 0).Train(ctx, newBoard(t), agentX, agentO, 10)

		// Then: one game is counted as stalled and the rest finished
		require.NoError(t, err)
		assert.Equal(t, 10, stats.Games)
		assert.Equal(t, 1, stats.Stalled)
		assert.Equal(t, 9, stats.XWins+stats.OWins+stats.Ties)
		assert.Equal(t, []entity.Player{entity.PlayerX}, observer.stalled)
		require.Len(t, stats.Batches, 1)
	})

	t.Run("Canceled context stops before the next game", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		stats, err := newTestManager(nil, 0).Train(canceled, newBoard(t), &mockAgent{}, &mockAgent{}, 5)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, stats.Games)
	})

	t.Run("Imported zero weights do not stall training", func(t *testing.T) {
		// Given: X loaded a memory where the empty board has only zero weights
		agentX := bot.New(entity.PlayerX, bot.DefaultConfig(), rand.New(rand.NewSource(5)))
		require.NoError(t, agentX.Import([]byte(`{"version":1,"player":"X","states":{"---------":[0,0,0,0,0,0,0,0,0]}}`)))
		agentO := &randomAgent{rnd: rand.New(rand.NewSource(6))}

		// When: 50 games are played
		stats, err := newTestManager(nil, 0).Train(ctx, newBoard(t), agentX, agentO, 50)

		// Then: every game finishes
		require.NoError(t, err)
		assert.Equal(t, 50, stats.Games)
		assert.Zero(t, stats.Stalled)
	})

	t.Run("Learning bot improves against a random player", func(t *testing.T) {
		if testing.Short() {
			t.Skip("long training run")
		}

		// Given: a learning X against an O that never learns
		agentX := bot.New(entity.PlayerX, bot.DefaultConfig(), rand.New(rand.NewSource(3)))
		agentO := &randomAgent{rnd: rand.New(rand.NewSource(4))}

		// When: X trains for 10 batches
		stats, err := newTestManager(nil, 500).Train(ctx, newBoard(t), agentX, agentO, 5000)

		// Then: X wins more often in the last batch than in the first
		require.NoError(t, err)
		require.Len(t, stats.Batches, 10)
		first := stats.Batches[0].WinRate(entity.PlayerX)
		last := stats.Batches[9].WinRate(entity.PlayerX)
		assert.Greater(t, last, first)
	})
}

func TestBatchStats_WinRate(t *testing.T) {
	batch := BatchStats{Games: 4, XWins: 3, OWins: 1}

	assert.InDelta(t, 0.75, batch.WinRate(entity.PlayerX), 1e-9)
	assert.InDelta(t, 0.25, batch.WinRate(entity.PlayerO), 1e-9)
	assert.Zero(t, BatchStats{}.WinRate(entity.PlayerX))
}
