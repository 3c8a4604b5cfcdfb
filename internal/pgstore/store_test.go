package pgstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-winnow/model"
)

// connect skips unless WINNOW_TEST_DATABASE_URL points at a disposable database.
func connect(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("WINNOW_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("WINNOW_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := connect(t)
	ctx := context.Background()
	docID := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = s.DeleteDocument(context.Background(), docID) })

	key := model.FingerprintKey{DocumentID: docID, Signature: "xxhash:k5:w4", ContentHash: "9f2c"}
	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Hashes above 2^53 must survive the JSON column
	fps := []model.Fingerprint{{Hash: 18446744073709551557, StartLine: 3, EndLine: 9}}
	require.NoError(t, s.Put(ctx, key, fps))

	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, fps, got)

	// Upsert replaces
	require.NoError(t, s.Put(ctx, key, nil))
	got, ok, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)

	require.NoError(t, s.DeleteDocument(ctx, docID))
	_, ok, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
