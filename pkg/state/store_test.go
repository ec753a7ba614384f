package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save([]string{"a", "b"}))
	set, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, set)

	// later saves merge, never overwrite
	require.NoError(t, store.Save([]string{"c"}))
	set, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}, "c": {}}, set)
}

func TestFileStore_Load(t *testing.T) {
	t.Run("missing file is empty set", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
		set, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, set)
	})

	t.Run("corrupt file is empty set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seen.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
		set, err := NewFileStore(path).Load()
		require.NoError(t, err)
		assert.Empty(t, set)
	})

	t.Run("non-array json is empty set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seen.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))
		set, err := NewFileStore(path).Load()
		require.NoError(t, err)
		assert.Empty(t, set)
	})
}

func TestFileStore_ConcurrentWriters(t *testing.T) {
	// two stores on the same file, each saving after the other loaded;
	// the merge-on-save keeps both sides
	path := filepath.Join(t.TempDir(), "seen.json")
	first := NewFileStore(path)
	second := NewFileStore(path)

	require.NoError(t, first.Save([]string{"a"}))
	require.NoError(t, second.Save([]string{"b"}))

	set, err := first.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, set)
}

func TestFileStore_SortedOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save([]string{"z", "a", "m"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","m","z"]`, string(data))
}

func TestNew_BackendSelection(t *testing.T) {
	dir := t.TempDir()

	store, err := New(filepath.Join(dir, "seen.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = New(filepath.Join(dir, "seen.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.(*SQLiteStore).Close())
}
