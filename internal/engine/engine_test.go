package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/engine"
	winnowerrors "github.com/gcbaptista/go-winnow/internal/errors"
	testutil "github.com/gcbaptista/go-winnow/internal/testing"
	"github.com/gcbaptista/go-winnow/model"
	"github.com/gcbaptista/go-winnow/store"
)

func TestNewEngine_InvalidSettings(t *testing.T) {
	_, err := engine.NewEngine(engine.Options{
		Settings: config.FingerprintSettings{KValue: -1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, winnowerrors.ErrConfiguration))
}

func TestEngine_Documents(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	ctx := context.Background()
	testutil.AddTestDocuments(t, eng)

	metas := eng.ListDocuments()
	require.Len(t, metas, 3)
	assert.Equal(t, "alpha", metas[0].ID)
	assert.Equal(t, "main.go", metas[0].Name)
	assert.Equal(t, ".go", metas[0].Extension)

	doc, err := eng.GetDocument("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta/util.go", doc.Meta.Path)

	fps, err := eng.Fingerprints(ctx, "alpha")
	require.NoError(t, err)
	assert.NotEmpty(t, fps)

	err = eng.AddDocument(ctx, model.Document{Meta: model.DocumentMeta{ID: "alpha"}})
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentAlreadyExists))

	require.NoError(t, eng.DeleteDocument(ctx, "gamma"))
	_, err = eng.GetDocument("gamma")
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentNotFound))
	assert.True(t, errors.Is(eng.DeleteDocument(ctx, "gamma"), winnowerrors.ErrDocumentNotFound))
}

func TestEngine_Compare(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	ctx := context.Background()
	testutil.AddTestDocuments(t, eng)

	result, err := eng.Compare(ctx, "alpha", "beta")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, "alpha", result.SourceFile.DocumentID)
	assert.Equal(t, "beta", result.TargetFile.DocumentID)
	assert.Greater(t, result.SourceFile.TotalLinesMatched, uint32(0))
	assert.Greater(t, result.TargetFile.MatchPercentage, 0.0)
	assert.LessOrEqual(t, result.TargetFile.MatchPercentage, 1.0)
	require.NotEmpty(t, result.SourceFile.LinesMatched)
	require.NotEmpty(t, result.TargetFile.LinesMatched)

	// Every match identifier appears on both sides
	sourceIDs := make(map[uuid.UUID]bool)
	for _, m := range result.SourceFile.LinesMatched {
		sourceIDs[m.MatchID] = true
	}
	for _, m := range result.TargetFile.LinesMatched {
		assert.True(t, sourceIDs[m.MatchID], "target match %s has no source counterpart", m.MatchID)
	}

	unrelated, err := eng.Compare(ctx, "alpha", "gamma")
	require.NoError(t, err)
	assert.Zero(t, unrelated.SourceFile.TotalLinesMatched)
	assert.Equal(t, 0.0, unrelated.TargetFile.MatchPercentage)
	assert.Empty(t, unrelated.TargetFile.LinesMatched)

	_, err = eng.Compare(ctx, "alpha", "missing")
	assert.True(t, errors.Is(err, winnowerrors.ErrDocumentNotFound))
}

func TestEngine_FingerprintText(t *testing.T) {
	eng := testutil.CreateTestEngine(t)

	fps, err := eng.FingerprintText("a b c d e f g h i j", ".txt", config.FingerprintSettings{})
	require.NoError(t, err)
	assert.NotEmpty(t, fps)

	fps, err = eng.FingerprintText("a b c", ".txt", config.FingerprintSettings{})
	require.NoError(t, err)
	assert.Empty(t, fps)

	_, err = eng.FingerprintText("a b c", ".txt", config.FingerprintSettings{HashAlgorithm: "md5"})
	assert.True(t, errors.Is(err, winnowerrors.ErrConfiguration))
}

func TestEngine_CompareBatch(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.AddTestDocuments(t, eng)

	pairs := []model.ComparisonPair{
		{SourceID: "alpha", TargetID: "beta"},
		{SourceID: "alpha", TargetID: "missing"},
		{SourceID: "beta", TargetID: "gamma"},
	}

	var lastDone, lastTotal int
	progress := func(done, total int) {
		if done > lastDone {
			lastDone = done
		}
		lastTotal = total
	}
	outcomes, err := eng.CompareBatch(context.Background(), pairs, serialized(progress))
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "alpha", outcomes[0].SourceID)
	assert.NotNil(t, outcomes[0].Result)
	assert.Empty(t, outcomes[0].Error)

	assert.Nil(t, outcomes[1].Result)
	assert.Contains(t, outcomes[1].Error, "missing")

	assert.NotNil(t, outcomes[2].Result)
	assert.Equal(t, 3, lastDone)
	assert.Equal(t, 3, lastTotal)
}

func TestEngine_CompareBatchCancelled(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.AddTestDocuments(t, eng)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := eng.CompareBatch(ctx, []model.ComparisonPair{
		{SourceID: "alpha", TargetID: "beta"},
		{SourceID: "beta", TargetID: "alpha"},
	}, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, outcomes, 2)
	for _, outcome := range outcomes {
		assert.Nil(t, outcome.Result)
		assert.NotEmpty(t, outcome.Error)
	}
}

func TestEngine_PersistAndReload(t *testing.T) {
	dir := t.TempDir()
	opts := engine.Options{DataDir: dir, Settings: testutil.TestSettings()}

	eng, err := engine.NewEngine(opts)
	require.NoError(t, err)
	testutil.AddTestDocuments(t, eng)
	before, err := eng.Compare(context.Background(), "alpha", "beta")
	require.NoError(t, err)
	require.NoError(t, eng.Close())

	reloaded, err := engine.NewEngine(opts)
	require.NoError(t, err)
	defer func() { _ = reloaded.Close() }()

	assert.Len(t, reloaded.ListDocuments(), 3)
	after, err := reloaded.Compare(context.Background(), "alpha", "beta")
	require.NoError(t, err)
	assert.Equal(t, before.SourceFile.TotalLinesMatched, after.SourceFile.TotalLinesMatched)

	// Fingerprints came from the snapshot, not from recomputation
	assert.Zero(t, reloaded.CacheStats().Computations)

	// Different settings keep the documents but recompute fingerprints
	changed := opts
	changed.Settings.KValue = 6
	recomputed, err := engine.NewEngine(changed)
	require.NoError(t, err)
	defer func() { _ = recomputed.Close() }()
	_, err = recomputed.Fingerprints(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, int64(1), recomputed.CacheStats().Computations)
}

// heldBackend parks the first Put until release is closed.
type heldBackend struct {
	*store.FingerprintStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newHeldBackend() *heldBackend {
	return &heldBackend{
		FingerprintStore: store.NewFingerprintStore(),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
}

func (b *heldBackend) Put(ctx context.Context, key model.FingerprintKey, fps []model.Fingerprint) error {
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.entered)
		<-b.release
	}
	return b.FingerprintStore.Put(ctx, key, fps)
}

func TestEngine_ReAddedDocumentGetsFreshFingerprints(t *testing.T) {
	backend := newHeldBackend()
	eng, err := engine.NewEngine(engine.Options{Settings: testutil.TestSettings(), Backend: backend})
	require.NoError(t, err)
	defer func() { _ = eng.Close() }()
	ctx := context.Background()

	fixtures := testutil.TestDocuments()
	before := model.Document{Meta: model.DocumentMeta{ID: "x", Path: "x/main.go"}, Text: fixtures[0].Text}
	after := model.Document{Meta: model.DocumentMeta{ID: "x", Path: "x/main.go"}, Text: fixtures[1].Text}

	added := make(chan error, 1)
	go func() { added <- eng.AddDocument(ctx, before) }()
	<-backend.entered

	// Replace the document while its first fingerprints are still being stored
	require.NoError(t, eng.DeleteDocument(ctx, "x"))
	require.NoError(t, eng.AddDocument(ctx, after))
	close(backend.release)
	require.NoError(t, <-added)

	want, err := eng.FingerprintText(after.Text, ".go", config.FingerprintSettings{})
	require.NoError(t, err)
	stale, err := eng.FingerprintText(before.Text, ".go", config.FingerprintSettings{})
	require.NoError(t, err)
	require.NotEqual(t, stale, want)

	got, err := eng.Fingerprints(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	doc, err := eng.GetDocument("x")
	require.NoError(t, err)
	assert.Equal(t, after.Text, doc.Text)
}
