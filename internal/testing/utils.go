// Package testing provides utilities and helpers for testing the engine and the API.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/engine"
	"github.com/gcbaptista/go-winnow/model"
	"github.com/gcbaptista/go-winnow/services"
)

// TestSettings are small enough that the fixtures below produce fingerprints.
func TestSettings() config.FingerprintSettings {
	return config.FingerprintSettings{KValue: 5, WindowSizeValue: 4, HashAlgorithm: config.HashXXHash}
}

// CreateTestEngine creates an engine persisting into a per-test directory.
// The engine is closed when the test finishes.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.NewEngine(engine.Options{
		DataDir:    t.TempDir(),
		Settings:   TestSettings(),
		MaxWorkers: 4,
		MaxJobs:    2,
	})
	require.NoError(t, err, "Failed to create test engine")

	t.Cleanup(func() {
		if err := eng.Close(); err != nil {
			t.Logf("Failed to close engine: %v", err)
		}
	})
	return eng
}

const sharedBlock = `func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
`

// TestDocuments returns two Go files sharing one function and a third file
// unrelated to both.
func TestDocuments() []model.Document {
	return []model.Document{
		{
			Meta: model.DocumentMeta{ID: "alpha", Path: "alpha/main.go"},
			Text: "package alpha\n\n" + sharedBlock + "\nfunc greet(name string) string {\n\treturn \"hello \" + name\n}\n",
		},
		{
			Meta: model.DocumentMeta{ID: "beta", Path: "beta/util.go"},
			Text: "package beta\n\nimport \"fmt\"\n\nvar verbose = false\n\n" + sharedBlock,
		},
		{
			Meta: model.DocumentMeta{ID: "gamma", Path: "gamma/notes.txt"},
			Text: "completely different prose\nwith nothing in common\nat all\n",
		},
	}
}

// AddTestDocuments registers TestDocuments with eng.
func AddTestDocuments(t *testing.T, eng services.DocumentManager) []model.Document {
	t.Helper()
	docs := TestDocuments()
	require.NoError(t, eng.AddDocuments(context.Background(), docs), "Failed to add test documents")
	return docs
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  true,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed successfully in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed, model.JobStatusCancelled:
				t.Fatalf("Job %s ended as %s: %s", jobID, job.Status, job.Error)
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
