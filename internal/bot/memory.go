package bot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

const memoryVersion = 1

var errMalformedKey = errors.New("malformed key")

type memoryDocument struct {
	Version int                          `json:"version"`
	Player  string                       `json:"player"`
	States  map[tictactoe.StateKey][]int `json:"states"`
}

// Export serializes the whole memory table.
func (that *Bot) Export() ([]byte, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	doc := memoryDocument{
		Version: memoryVersion,
		Player:  that.player.String(),
		States:  that.memory,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: could not marshal memory: %w", apperror.ErrPersistence, err)
	}

	return data, nil
}

// Import replaces the memory table with the one in data. The current table
// is kept if data is corrupt or was exported by the other player.
func (that *Bot) Import(data []byte) error {
	var doc memoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: could not unmarshal memory: %w", apperror.ErrPersistence, err)
	}

	if doc.Version != memoryVersion {
		return fmt.Errorf("%w: unsupported memory version %d", apperror.ErrPersistence, doc.Version)
	}

	if doc.Player != that.player.String() {
		return fmt.Errorf("%w: memory belongs to player %q, not %s", apperror.ErrPersistence, doc.Player, that.player)
	}

	memory := make(map[tictactoe.StateKey][]int, len(doc.States))
	for key, weights := range doc.States {
		if err := validateEntry(key, weights); err != nil {
			return fmt.Errorf("%w: state %q: %w", apperror.ErrPersistence, key, err)
		}

		// a state with open cells but nothing to sample is reset, as Learn would
		if available := key.AvailableCells(); len(available) > 0 && starved(weights) {
			weights = that.defaultWeights(len(weights), available)
		}
		memory[key] = weights
	}

	that.mu.Lock()
	that.memory = memory
	that.mu.Unlock()

	return nil
}

func validateEntry(key tictactoe.StateKey, weights []int) error {
	cells, ok := key.Cells()
	if !ok || len(cells) == 0 {
		return errMalformedKey
	}

	if len(weights) != len(cells) {
		return fmt.Errorf("got %d weights for %d cells", len(weights), len(cells))
	}

	for i, weight := range weights {
		if weight < 0 {
			return fmt.Errorf("negative weight %d at cell %d", weight, i)
		}

		if weight > 0 && !cells[i].IsEmpty() {
			return fmt.Errorf("positive weight at occupied cell %d", i)
		}
	}

	return nil
}
