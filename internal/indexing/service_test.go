package indexing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/cache"
	winnowerrors "github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
	"github.com/gcbaptista/go-winnow/store"
)

const goSource = `package main

import "fmt"

func main() {
	for i := 0; i < 10; i++ {
		fmt.Println("iteration", i)
	}
}
`

func setupTestService(t *testing.T) (*Service, *store.FingerprintStore) {
	t.Helper()
	backend := store.NewFingerprintStore()
	svc, err := NewService(store.NewDocumentStore(), cache.New(backend), config.FingerprintSettings{KValue: 3, WindowSizeValue: 2})
	require.NoError(t, err)
	return svc, backend
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, cache.New(store.NewFingerprintStore()), config.DefaultFingerprintSettings())
	assert.Error(t, err)

	_, err = NewService(store.NewDocumentStore(), nil, config.DefaultFingerprintSettings())
	assert.Error(t, err)

	_, err = NewService(store.NewDocumentStore(), cache.New(store.NewFingerprintStore()),
		config.FingerprintSettings{KValue: -3})
	assert.True(t, errors.Is(err, winnowerrors.ErrConfiguration))

	svc, err := NewService(store.NewDocumentStore(), cache.New(store.NewFingerprintStore()), config.FingerprintSettings{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFingerprintSettings(), svc.Settings())
}

func TestAddDocument_FingerprintsAreCached(t *testing.T) {
	svc, backend := setupTestService(t)
	ctx := context.Background()

	doc := model.Document{Meta: model.DocumentMeta{ID: "main", Path: "cmd/main.go"}, Text: goSource}
	require.NoError(t, svc.AddDocument(ctx, doc))

	stored, err := svc.Document("main")
	require.NoError(t, err)
	assert.Equal(t, "main.go", stored.Meta.Name)
	assert.Equal(t, ".go", stored.Meta.Extension)
	assert.Equal(t, 1, backend.Len())

	fps, err := svc.Fingerprints(ctx, "main")
	require.NoError(t, err)
	assert.NotEmpty(t, fps)

	direct, err := Fingerprint(goSource, ".go", svc.Settings())
	require.NoError(t, err)
	assert.Equal(t, direct, fps)
}

func TestAddDocuments_BatchIsValidatedFirst(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	err := svc.AddDocuments(ctx, []model.Document{
		{Meta: model.DocumentMeta{ID: "a"}, Text: "x"},
		{Meta: model.DocumentMeta{ID: "a"}, Text: "y"},
	})
	assert.True(t, errors.Is(err, winnowerrors.ErrInvalidInput))
	_, err = svc.Document("a")
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentNotFound), "no document may be added from a rejected batch")

	err = svc.AddDocuments(ctx, []model.Document{
		{Meta: model.DocumentMeta{ID: "a"}, Text: "x"},
		{Meta: model.DocumentMeta{ID: ""}, Text: "y"},
	})
	assert.True(t, errors.Is(err, winnowerrors.ErrInvalidInput))

	require.NoError(t, svc.AddDocuments(ctx, []model.Document{
		{Meta: model.DocumentMeta{ID: "a"}, Text: "x y z"},
		{Meta: model.DocumentMeta{ID: "b"}, Text: ""},
	}))

	err = svc.AddDocuments(ctx, []model.Document{{Meta: model.DocumentMeta{ID: "b"}}})
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentAlreadyExists))

	// Texts shorter than k still register, with no fingerprints
	fps, err := svc.Fingerprints(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, fps)
}

func TestDeleteDocument(t *testing.T) {
	svc, backend := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddDocument(ctx, model.Document{Meta: model.DocumentMeta{ID: "a"}, Text: goSource}))
	require.NoError(t, svc.DeleteDocument(ctx, "a"))
	assert.Equal(t, 0, backend.Len())

	err := svc.DeleteDocument(ctx, "a")
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentNotFound))

	_, err = svc.Fingerprints(ctx, "a")
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentNotFound))
}

func TestFingerprint_IgnoresComments(t *testing.T) {
	settings := config.FingerprintSettings{KValue: 3, WindowSizeValue: 2, HashAlgorithm: config.HashXXHash}
	plain := "a = b + c\nd = a * 2\n"
	commented := "# setup\na = b + c\n# compute\nd = a * 2\n"

	fpPlain, err := Fingerprint(plain, ".py", settings)
	require.NoError(t, err)
	fpCommented, err := Fingerprint(commented, ".py", settings)
	require.NoError(t, err)

	require.Equal(t, len(fpPlain), len(fpCommented))
	for i := range fpPlain {
		assert.Equal(t, fpPlain[i].Hash, fpCommented[i].Hash)
	}
}

func TestContentHash(t *testing.T) {
	base := model.Document{Meta: model.DocumentMeta{ID: "a", Extension: ".go"}, Text: goSource}

	otherText := base
	otherText.Text = goSource + "\n"
	otherExt := base
	otherExt.Meta.Extension = ".txt"
	otherID := base
	otherID.Meta.ID = "b"

	assert.NotEqual(t, ContentHash(base), ContentHash(otherText))
	assert.NotEqual(t, ContentHash(base), ContentHash(otherExt))
	assert.Equal(t, ContentHash(base), ContentHash(otherID))
}

func TestFingerprint_SplitIdentifiers(t *testing.T) {
	text := "readConfigFile(path)\nwriteOutputFile(path)\n"
	settings := config.FingerprintSettings{KValue: 2, WindowSizeValue: 1, HashAlgorithm: config.HashXXHash}

	whole, err := Fingerprint(text, ".txt", settings)
	require.NoError(t, err)
	settings.SplitIdentifiers = true
	split, err := Fingerprint(text, ".txt", settings)
	require.NoError(t, err)

	// Splitting adds tokens, so the k-gram sequence grows
	assert.Greater(t, len(split), len(whole))
}
