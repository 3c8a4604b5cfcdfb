package services

import (
	"context"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/cache"
	"github.com/gcbaptista/go-winnow/internal/jobs"
	"github.com/gcbaptista/go-winnow/model"
)

// ProgressFunc reports how many of total items are done.
type ProgressFunc func(done, total int)

// DocumentManager registers documents and serves their fingerprints.
type DocumentManager interface {
	AddDocument(ctx context.Context, doc model.Document) error
	AddDocuments(ctx context.Context, docs []model.Document) error
	AddDocumentsAsync(docs []model.Document) (string, error) // Returns job ID
	GetDocument(docID string) (model.Document, error)
	DeleteDocument(ctx context.Context, docID string) error
	ListDocuments() []model.DocumentMeta
	Fingerprints(ctx context.Context, docID string) ([]model.Fingerprint, error)
}

// Fingerprinter fingerprints text that is not registered.
type Fingerprinter interface {
	FingerprintText(text, extension string, settings config.FingerprintSettings) ([]model.Fingerprint, error)
}

// Comparer runs pairwise comparisons between registered documents.
type Comparer interface {
	Compare(ctx context.Context, sourceID, targetID string) (*model.ComparisonResult, error)
	CompareBatch(ctx context.Context, pairs []model.ComparisonPair, progress ProgressFunc) ([]model.PairOutcome, error)
	CompareBatchAsync(pairs []model.ComparisonPair) (string, error) // Returns job ID
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
	CancelJob(jobID string) error
	JobMetrics() jobs.JobMetricsData
}

// Engine is everything the HTTP API needs.
type Engine interface {
	DocumentManager
	Fingerprinter
	Comparer
	JobManager
	Settings() config.FingerprintSettings
	CacheStats() cache.Stats
}
