package author

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	store := NewStore(path)

	name, ok, err := store.Get()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)

	name, err = store.Name()
	require.NoError(t, err)
	assert.Equal(t, DefaultName, name)

	require.NoError(t, store.Set("Alice Smith"))

	name, ok, err = store.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Alice Smith", name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", string(data))
}

func TestEmptyFileFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	name, err := NewStore(path).Name()
	require.NoError(t, err)
	assert.Equal(t, "name", name)
}
