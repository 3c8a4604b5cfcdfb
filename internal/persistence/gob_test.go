package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Name  string
	Lines []uint32
}

func TestSaveAndLoadGob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.gob")
	want := snapshot{Name: "doc", Lines: []uint32{1, 2, 3}}

	require.NoError(t, SaveGob(path, want))

	var got snapshot
	require.NoError(t, LoadGob(path, &got))
	assert.Equal(t, want, got)

	// Overwrites leave no temporary files behind
	require.NoError(t, SaveGob(path, snapshot{Name: "other"}))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadGob_Errors(t *testing.T) {
	dir := t.TempDir()

	var got snapshot
	err := LoadGob(filepath.Join(dir, "missing.gob"), &got)
	assert.Equal(t, os.ErrNotExist, err)

	corrupt := filepath.Join(dir, "corrupt.gob")
	require.NoError(t, os.WriteFile(corrupt, []byte("not gob"), 0600))
	err = LoadGob(corrupt, &got)
	require.Error(t, err)
	assert.NotEqual(t, os.ErrNotExist, err)
}
