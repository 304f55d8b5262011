package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltKVStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.data")
	store, err := NewBoltKVStore(path, "github")
	require.NoError(t, err)

	data, err := store.ReadKey([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.UpdateKey([]byte("co/golang/go"), []byte(`{"Created":1}`)))
	data, err = store.ReadKey([]byte("co/golang/go"))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"Created":1}`), data)

	require.NoError(t, store.UpdateKey([]byte("co/golang/go"), []byte(`{"Created":2}`)))
	data, err = store.ReadKey([]byte("co/golang/go"))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"Created":2}`), data)

	require.NoError(t, store.Close())

	// Data survives reopening.
	store, err = NewBoltKVStore(path, "github")
	require.NoError(t, err)
	defer store.Close()

	data, err = store.ReadKey([]byte("co/golang/go"))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"Created":2}`), data)
}

func TestNewBoltKVStoreErrors(t *testing.T) {
	t.Parallel()

	_, err := NewBoltKVStore(filepath.Join(t.TempDir(), "test.data"), "")
	assert.Error(t, err)

	_, err = NewBoltKVStore(filepath.Join(t.TempDir(), "missing", "dir", "test.data"), "github")
	assert.Error(t, err)
}
