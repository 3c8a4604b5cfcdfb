package engine_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/gcbaptista/go-winnow/internal/testing"
	"github.com/gcbaptista/go-winnow/model"
	"github.com/gcbaptista/go-winnow/services"
)

func serialized(progress services.ProgressFunc) services.ProgressFunc {
	var mu sync.Mutex
	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		progress(done, total)
	}
}

func TestEngine_CompareBatchAsync(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.AddTestDocuments(t, eng)

	jobID, err := eng.CompareBatchAsync([]model.ComparisonPair{
		{SourceID: "alpha", TargetID: "beta"},
		{SourceID: "gamma", TargetID: "missing"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job := testutil.WaitForJobCompletion(t, eng, jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, model.JobTypeCompareBatch)

	require.Len(t, job.Outcomes, 2)
	assert.NotNil(t, job.Outcomes[0].Result)
	assert.NotEmpty(t, job.Outcomes[1].Error)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 2, job.Progress.Current)
	assert.Equal(t, "2", job.Metadata["pairs"])

	metrics := eng.JobMetrics()
	assert.Equal(t, int64(2), metrics.PairsCompared)
	assert.Equal(t, int64(1), metrics.PairsFailed)

	completed := model.JobStatusCompleted
	assert.Len(t, eng.ListJobs(&completed), 1)
}

func TestEngine_AddDocumentsAsync(t *testing.T) {
	eng := testutil.CreateTestEngine(t)

	jobID, err := eng.AddDocumentsAsync(testutil.TestDocuments())
	require.NoError(t, err)

	job := testutil.WaitForJobCompletion(t, eng, jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, model.JobTypeAddDocuments)
	assert.Len(t, eng.ListDocuments(), 3)

	_, err = eng.AddDocumentsAsync(nil)
	assert.Error(t, err)
	_, err = eng.CompareBatchAsync(nil)
	assert.Error(t, err)

	assert.Error(t, eng.CancelJob(jobID), "finished jobs cannot be cancelled")
}
