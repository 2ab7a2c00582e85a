package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
)

func TestFileMemoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save then Load", func(t *testing.T) {
		// Given: a path in a directory that does not exist yet
		path := filepath.Join(t.TempDir(), "nested", "memory_x.json")
		memoryRepo := NewFileMemoryRepository()

		// When: a memory is saved and loaded back
		require.NoError(t, memoryRepo.Save(ctx, path, []byte(`{"version":1}`)))
		loaded, err := memoryRepo.Load(ctx, path)

		// Then: the bytes match and no temp file is left
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"version":1}`), loaded)
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory_o.json")
		memoryRepo := NewFileMemoryRepository()

		require.NoError(t, memoryRepo.Save(ctx, path, []byte("first")))
		require.NoError(t, memoryRepo.Save(ctx, path, []byte("second")))

		loaded, err := memoryRepo.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		memoryRepo := NewFileMemoryRepository()

		_, err := memoryRepo.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))

		require.ErrorIs(t, err, apperror.ErrMemoryNotFound)
	})
}
