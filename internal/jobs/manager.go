package jobs

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

// JobFunc is the body of a background job. It must return promptly once ctx
// is cancelled.
type JobFunc func(ctx context.Context, jobID string) error

// Manager runs background jobs on a bounded number of worker slots and keeps
// their status for polling.
type Manager struct {
	mu      sync.RWMutex
	jobs    map[string]*model.Job
	cancels map[string]context.CancelFunc
	workers chan struct{} // Limits concurrent jobs
	ctx     context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
	metrics *JobMetrics
}

// NewManager creates a new job manager with specified worker count
func NewManager(maxWorkers int) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Manager{
		jobs:    make(map[string]*model.Job),
		cancels: make(map[string]context.CancelFunc),
		workers: make(chan struct{}, maxWorkers),
		ctx:     ctx,
		stop:    stop,
		metrics: NewJobMetrics(),
	}
}

// Start begins the job manager and starts background cleanup
func (m *Manager) Start() {
	log.Printf("Job manager started with %d max workers", cap(m.workers))
	go m.cleanupRoutine()
}

// Stop cancels every queued and running job and waits for them to return.
func (m *Manager) Stop() {
	m.stop()
	m.wg.Wait()
	log.Printf("Job manager stopped")
}

// CreateJob creates a new pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	log.Printf("Created job %s (type: %s)", job.ID, job.Type)
	return job.ID
}

// GetJob returns a snapshot of a job.
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return snapshot(job), nil
}

// ListJobs returns snapshots of all jobs, newest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, snapshot(job))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func snapshot(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	if job.Outcomes != nil {
		jobCopy.Outcomes = append([]model.PairOutcome(nil), job.Outcomes...)
	}
	return &jobCopy
}

// ExecuteJob queues a pending job. It returns immediately; the job stays
// pending until a worker slot frees up.
func (m *Manager) ExecuteJob(jobID string, jobFunc JobFunc) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	if _, queued := m.cancels[jobID]; queued {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is already queued", jobID)
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancels[jobID] = cancel
	jobType := job.Type
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.forget(jobID)

		select {
		case m.workers <- struct{}{}:
		case <-ctx.Done():
			m.updateJobStatus(jobID, model.JobStatusCancelled, "job cancelled before start")
			return
		}
		defer func() { <-m.workers }()

		m.updateJobStatus(jobID, model.JobStatusRunning, "")
		startTime := time.Now()
		err := jobFunc(ctx, jobID)
		executionTime := time.Since(startTime)

		switch {
		case err != nil && stderrors.Is(err, context.Canceled):
			m.updateJobStatus(jobID, model.JobStatusCancelled, err.Error())
			log.Printf("Job %s cancelled after %v", jobID, executionTime)
		case err != nil:
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
			m.metrics.RecordJobFailed(jobType)
			log.Printf("Job %s failed after %v: %v", jobID, executionTime, err)
		default:
			m.updateJobStatus(jobID, model.JobStatusCompleted, "")
			m.metrics.RecordJobCompleted(jobType, executionTime)
			log.Printf("Job %s completed successfully in %v", jobID, executionTime)
		}
	}()

	return nil
}

// CancelJob asks a queued or running job to stop.
func (m *Manager) CancelJob(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return errors.NewJobNotFoundError(jobID)
	}
	cancel, active := m.cancels[jobID]
	if !active || (job.Status != model.JobStatusPending && job.Status != model.JobStatusRunning) {
		return fmt.Errorf("job with ID '%s' is not active (current: %s)", jobID, job.Status)
	}

	m.metrics.RecordJobStatusChange(job.Status, model.JobStatusCancelling)
	job.Status = model.JobStatusCancelling
	cancel()
	return nil
}

func (m *Manager) forget(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[jobID]; ok {
		cancel()
		delete(m.cancels, jobID)
	}
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// SetJobOutcomes attaches the per-pair results of a batch comparison job.
func (m *Manager) SetJobOutcomes(jobID string, outcomes []model.PairOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	job.Outcomes = outcomes

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Error != "" {
			failed++
		}
	}
	m.metrics.RecordComparisons(len(outcomes), failed)
}

// updateJobStatus updates the status of a job (internal method)
func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}

	now := time.Now()
	switch status {
	case model.JobStatusRunning:
		job.StartedAt = &now
	case model.JobStatusCompleted, model.JobStatusFailed, model.JobStatusCancelled:
		job.CompletedAt = &now
	}

	m.metrics.RecordJobStatusChange(oldStatus, status)
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOldJobs removes finished jobs older than maxAge
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Printf("Cleaned up %d old jobs", cleaned)
	}
}

// GetMetrics returns current job performance metrics
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}

// GetJobSuccessRate returns the overall job success rate
func (m *Manager) GetJobSuccessRate() float64 {
	return m.metrics.GetSuccessRate()
}

// GetCurrentWorkload returns the number of currently active jobs
func (m *Manager) GetCurrentWorkload() int64 {
	return m.metrics.GetCurrentWorkload()
}
