package engine

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/cache"
	"github.com/gcbaptista/go-winnow/internal/compare"
	"github.com/gcbaptista/go-winnow/internal/indexing"
	"github.com/gcbaptista/go-winnow/internal/jobs"
	"github.com/gcbaptista/go-winnow/internal/merge"
	"github.com/gcbaptista/go-winnow/store"
)

// Options configures an Engine.
type Options struct {
	// DataDir holds gob snapshots. Empty disables persistence.
	DataDir  string
	Settings config.FingerprintSettings
	// MaxWorkers bounds concurrent comparisons inside one batch.
	MaxWorkers int
	// MaxJobs bounds concurrently running background jobs.
	MaxJobs int
	// Backend stores fingerprints. Defaults to an in-memory store that is
	// snapshotted with the documents.
	Backend cache.Backend
	// NewID mints comparison and match identifiers. Defaults to random UUIDs.
	NewID merge.IDGenerator
}

// Engine registers documents and compares them.
// It implements the services.Engine interface.
type Engine struct {
	persistMu sync.Mutex // Serializes snapshots

	dataDir      string
	settings     config.FingerprintSettings
	maxWorkers   int
	documents    *store.DocumentStore
	fingerprints *store.FingerprintStore // nil when an external backend is used
	cache        *cache.Cache
	indexer      *indexing.Service
	comparer     compare.Comparer
	jobManager   *jobs.Manager
}

// NewEngine creates an engine, restoring any snapshot found in the data directory.
func NewEngine(opts Options) (*Engine, error) {
	settings := opts.Settings
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = runtime.NumCPU()
	}
	if opts.MaxJobs < 1 {
		opts.MaxJobs = 2
	}

	e := &Engine{
		dataDir:    opts.DataDir,
		settings:   settings,
		maxWorkers: opts.MaxWorkers,
		documents:  store.NewDocumentStore(),
		comparer:   compare.Comparer{NewID: opts.NewID},
		jobManager: jobs.NewManager(opts.MaxJobs),
	}

	backend := opts.Backend
	if backend == nil {
		e.fingerprints = store.NewFingerprintStore()
		backend = e.fingerprints
	}

	if e.dataDir != "" {
		if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
			log.Printf("Warning: Could not create data directory %s: %v. Proceeding without persistence.", e.dataDir, err)
			e.dataDir = ""
		} else {
			e.loadFromDisk()
		}
	}

	e.cache = cache.New(backend)
	indexer, err := indexing.NewService(e.documents, e.cache, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexing service: %w", err)
	}
	e.indexer = indexer

	e.jobManager.Start()
	return e, nil
}

// Close stops background jobs and writes a final snapshot.
func (e *Engine) Close() error {
	e.jobManager.Stop()
	return e.Persist()
}

// Settings returns the fingerprint settings of the engine.
func (e *Engine) Settings() config.FingerprintSettings {
	return e.settings
}

// CacheStats returns fingerprint cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}
