package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/internal/jobs"
	"github.com/gcbaptista/go-winnow/model"
)

// CompareBatchAsync starts a batch comparison job and returns its ID. The
// outcomes are attached to the job when it finishes.
func (e *Engine) CompareBatchAsync(pairs []model.ComparisonPair) (string, error) {
	if len(pairs) == 0 {
		return "", errors.NewValidationError("pairs", "at least one pair is required")
	}
	pairs = append([]model.ComparisonPair(nil), pairs...)

	jobID := e.jobManager.CreateJob(model.JobTypeCompareBatch, map[string]string{
		"operation": "compare_batch",
		"pairs":     strconv.Itoa(len(pairs)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, id string) error {
		e.jobManager.UpdateJobProgress(id, 0, len(pairs), "Comparing pairs")
		outcomes, err := e.CompareBatch(ctx, pairs, func(done, total int) {
			e.jobManager.UpdateJobProgress(id, done, total, fmt.Sprintf("Compared %d of %d pairs", done, total))
		})
		e.jobManager.SetJobOutcomes(id, outcomes)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to start compare batch job: %w", err)
	}
	return jobID, nil
}

// AddDocumentsAsync registers documents in a background job and returns its ID.
func (e *Engine) AddDocumentsAsync(docs []model.Document) (string, error) {
	if len(docs) == 0 {
		return "", errors.NewValidationError("documents", "at least one document is required")
	}
	docs = append([]model.Document(nil), docs...)

	jobID := e.jobManager.CreateJob(model.JobTypeAddDocuments, map[string]string{
		"operation": "add_documents",
		"documents": strconv.Itoa(len(docs)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, id string) error {
		e.jobManager.UpdateJobProgress(id, 0, len(docs), "Adding documents")
		if err := e.AddDocuments(ctx, docs); err != nil {
			return err
		}
		e.jobManager.UpdateJobProgress(id, len(docs), len(docs), "Documents added")
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start add documents job: %w", err)
	}
	return jobID, nil
}

// GetJob returns a snapshot of a background job.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns background jobs, newest first.
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// CancelJob stops a queued or running job.
func (e *Engine) CancelJob(jobID string) error {
	return e.jobManager.CancelJob(jobID)
}

// JobMetrics returns job counters.
func (e *Engine) JobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}
