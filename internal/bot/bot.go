package bot

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

// Random is the source of move selection draws. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// Bot plays one side of the game and learns from finished games. Its memory
// maps a state key to one weight per cell; a move is sampled proportionally
// to the weights of the current state.
type Bot struct {
	mu sync.Mutex

	player entity.Player
	conf   Config
	rnd    Random
	memory map[tictactoe.StateKey][]int
}

func New(player entity.Player, conf Config, rnd Random) *Bot {
	return &Bot{
		player: player,
		conf:   conf.withDefaults(),
		rnd:    rnd,
		memory: make(map[tictactoe.StateKey][]int),
	}
}

func (that *Bot) Player() entity.Player {
	return that.player
}

// DetermineMove samples a cell for the current state. ok is false only when
// the state has no positive weight, which the caller must treat as fatal.
func (that *Bot) DetermineMove(b tictactoe.View) (int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	key := b.Key()
	weights, found := that.memory[key]
	if !found {
		weights = that.defaultWeights(len(key), b.AvailableCells())
		that.memory[key] = weights
	}

	return that.sample(weights)
}

func (that *Bot) sample(weights []int) (int, bool) {
	total := 0
	for _, weight := range weights {
		if weight > 0 {
			total += weight
		}
	}

	if total <= 0 {
		return 0, false
	}

	// draw is in [1, total]
	draw := that.rnd.Intn(total) + 1
	for cell, weight := range weights {
		if weight <= 0 {
			continue
		}

		if draw <= weight {
			return cell, true
		}
		draw -= weight
	}

	return 0, false
}

// Learn walks the move history and updates the weights of every move this
// bot made in the finished game.
func (that *Bot) Learn(b tictactoe.View, result tictactoe.GameResult) {
	that.mu.Lock()
	defer that.mu.Unlock()

	moves := b.Moves()

	last := -1
	for i, move := range moves {
		if move.Player == that.player {
			last = i
		}
	}

	for i, move := range moves {
		if move.Player != that.player {
			continue
		}

		weights := that.entry(move.Key)
		if move.Cell < 0 || move.Cell >= len(weights) {
			continue
		}

		decisive := i == last
		switch {
		case result.WonBy(that.player):
			if decisive {
				weights[move.Cell] = max(weights[move.Cell]+that.conf.WinningMoveBoost, 0)
			} else {
				weights[move.Cell] = max(weights[move.Cell]+that.conf.WinBoost, 0)
			}
		case result.IsTie():
			weights[move.Cell] = max(weights[move.Cell]+that.conf.TieBoost, 0)
		case result.LostBy(that.player):
			if decisive {
				weights[move.Cell] = 0
			} else {
				weights[move.Cell] = max(weights[move.Cell]-that.conf.LoseBoost, 0)
			}
		}

		if starved(weights) {
			copy(weights, that.defaultWeights(len(move.Key), move.Key.AvailableCells()))
		}
	}
}

// entry returns the stored vector for key, creating the default one if the
// state was never seen.
func (that *Bot) entry(key tictactoe.StateKey) []int {
	weights, found := that.memory[key]
	if !found {
		weights = that.defaultWeights(len(key), key.AvailableCells())
		that.memory[key] = weights
	}

	return weights
}

func (that *Bot) defaultWeights(size int, available []int) []int {
	weights := make([]int, size)
	for _, cell := range available {
		weights[cell] = that.conf.DefaultWeight
	}

	return weights
}

func starved(weights []int) bool {
	for _, weight := range weights {
		if weight > 0 {
			return false
		}
	}

	return true
}

// Weights returns a copy of the stored vector for key, nil if the state is unknown.
func (that *Bot) Weights(key tictactoe.StateKey) []int {
	that.mu.Lock()
	defer that.mu.Unlock()

	weights, found := that.memory[key]
	if !found {
		return nil
	}

	return append([]int(nil), weights...)
}

// Len is the number of states in memory.
func (that *Bot) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.memory)
}
