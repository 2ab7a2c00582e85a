package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
)

// fileMemory keeps each memory in its own file; the name is the file path.
type fileMemory struct{}

func NewFileMemoryRepository() MemoryRepository {
	return &fileMemory{}
}

// Save writes to a temporary file in the same directory and renames it over
// the target, so a crash never leaves a half-written memory behind.
func (that *fileMemory) Save(_ context.Context, name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create memory directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not write memory %s: %w", name, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close memory %s: %w", name, err)
	}

	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("could not save memory %s: %w", name, err)
	}

	return nil
}

func (that *fileMemory) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMemoryNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("could not read memory %s: %w", name, err)
	}

	return data, nil
}
