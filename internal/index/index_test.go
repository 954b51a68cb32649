package index

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "svcs/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, string) {
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "index.txt"), dir), dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStore(t *testing.T) {
	store, dir := setupStore(t)

	t.Run("EmptyIndex", func(t *testing.T) {
		_, err := store.List()
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("TrackMissingFile", func(t *testing.T) {
		_, err := store.Track("missing.txt")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		assert.Equal(t, "Can't find 'missing.txt'.", err.Error())
	})

	t.Run("TrackDirectory", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
		_, err := store.Track("sub")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("TrackPreservesOrder", func(t *testing.T) {
		writeFile(t, dir, "b.txt", "b")
		writeFile(t, dir, "a.txt", "a")

		added, err := store.Track("b.txt")
		require.NoError(t, err)
		assert.True(t, added)

		added, err = store.Track("a.txt")
		require.NoError(t, err)
		assert.True(t, added)

		paths, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"b.txt", "a.txt"}, paths)
	})

	t.Run("TrackSameBasenameTwice", func(t *testing.T) {
		before, err := os.ReadFile(filepath.Join(dir, "index.txt"))
		require.NoError(t, err)

		added, err := store.Track("a.txt")
		require.NoError(t, err)
		assert.False(t, added)

		writeFile(t, dir, "nested/a.txt", "other")
		added, err = store.Track("nested/a.txt")
		require.NoError(t, err)
		assert.False(t, added)

		after, err := os.ReadFile(filepath.Join(dir, "index.txt"))
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("BasenameIsNotSubstring", func(t *testing.T) {
		writeFile(t, dir, "data.txt", "d")
		added, err := store.Track("data.txt")
		require.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("PersistedFormat", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "index.txt"))
		require.NoError(t, err)
		assert.Equal(t, "b.txt\na.txt\ndata.txt\n", string(data))
	})
}

func TestTrackNestedPathKeepsPathAsGiven(t *testing.T) {
	store, dir := setupStore(t)
	writeFile(t, dir, "docs/readme.md", "# hi")

	added, err := store.Track("docs/readme.md")
	require.NoError(t, err)
	assert.True(t, added)

	paths, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/readme.md"}, paths)
	assert.Equal(t, filepath.Join(dir, "docs/readme.md"), store.Resolve(paths[0]))
}
