package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	winnowerrors "github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

func doc(id, text string) model.Document {
	return model.Document{Meta: model.DocumentMeta{ID: id, Name: id + ".go", Extension: ".go"}, Text: text}
}

func TestDocumentStore_AddGetDelete(t *testing.T) {
	ds := NewDocumentStore()

	first, err := ds.Add(doc("a", "x"))
	require.NoError(t, err)
	second, err := ds.Add(doc("b", "y"))
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	got, ok := ds.Get("b")
	require.True(t, ok)
	assert.Equal(t, "y", got.Text)

	_, err = ds.Add(doc("a", "again"))
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentAlreadyExists))

	_, err = ds.Add(doc("  ", "blank"))
	assert.True(t, errors.Is(err, winnowerrors.ErrInvalidInput))

	assert.True(t, ds.Delete("a"))
	assert.False(t, ds.Delete("a"))
	_, ok = ds.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, ds.Len())
}

func TestDocumentStore_DeleteInternal(t *testing.T) {
	ds := NewDocumentStore()

	stale, err := ds.Add(doc("a", "old"))
	require.NoError(t, err)
	require.True(t, ds.Delete("a"))
	current, err := ds.Add(doc("a", "new"))
	require.NoError(t, err)

	// The earlier registration must not remove its successor
	assert.False(t, ds.DeleteInternal("a", stale))
	got, ok := ds.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.Text)

	assert.True(t, ds.DeleteInternal("a", current))
	assert.Equal(t, 0, ds.Len())
	assert.False(t, ds.DeleteInternal("missing", 0))
}

func TestDocumentStore_ListInRegistrationOrder(t *testing.T) {
	ds := NewDocumentStore()
	for _, id := range []string{"c", "a", "b"} {
		_, err := ds.Add(doc(id, ""))
		require.NoError(t, err)
	}

	metas := ds.List()
	require.Len(t, metas, 3)
	assert.Equal(t, "c", metas[0].ID)
	assert.Equal(t, "a", metas[1].ID)
	assert.Equal(t, "b", metas[2].ID)
}

func TestDocumentStore_Gob(t *testing.T) {
	ds := NewDocumentStore()
	_, err := ds.Add(doc("a", "line one\nline two"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(ds))

	decoded := &DocumentStore{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

	got, ok := decoded.Get("a")
	require.True(t, ok)
	assert.Equal(t, "line one\nline two", got.Text)
	assert.Equal(t, ds.NextID, decoded.NextID)

	// New documents continue the ID sequence
	next, err := decoded.Add(doc("b", ""))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), next)
}

func TestFingerprintStore(t *testing.T) {
	ctx := context.Background()
	fs := NewFingerprintStore()
	keyA := model.FingerprintKey{DocumentID: "a", Signature: "xxhash:k5:w4"}
	keyA2 := model.FingerprintKey{DocumentID: "a", Signature: "blake3:k5:w4"}
	keyB := model.FingerprintKey{DocumentID: "b", Signature: "xxhash:k5:w4"}

	_, ok, err := fs.Get(ctx, keyA)
	require.NoError(t, err)
	assert.False(t, ok)

	fps := []model.Fingerprint{{Hash: 9, StartLine: 1, EndLine: 2}}
	require.NoError(t, fs.Put(ctx, keyA, fps))
	require.NoError(t, fs.Put(ctx, keyA2, nil))
	require.NoError(t, fs.Put(ctx, keyB, fps))

	got, ok, err := fs.Get(ctx, keyA)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, fps, got)

	// Empty sets are cached, not treated as misses
	got, ok, _ = fs.Get(ctx, keyA2)
	assert.True(t, ok)
	assert.NotNil(t, got)

	require.NoError(t, fs.DeleteDocument(ctx, "a"))
	assert.Equal(t, 1, fs.Len())
	_, ok, _ = fs.Get(ctx, keyA2)
	assert.False(t, ok)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(fs))
	decoded := &FingerprintStore{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))
	got, ok, _ = decoded.Get(ctx, keyB)
	assert.True(t, ok)
	assert.Equal(t, fps, got)
}
