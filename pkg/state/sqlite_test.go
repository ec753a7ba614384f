package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "seen.db"))
	require.NoError(t, err)
	defer store.Close()

	set, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, set)

	require.NoError(t, store.Save([]string{"a", "b"}))
	set, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, set)

	// duplicates are ignored, new ids merge in
	require.NoError(t, store.Save([]string{"b", "c"}))
	set, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}, "c": {}}, set)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save([]string{"a"}))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()
	set, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}}, set)
}
