package engine

import (
	"context"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/indexing"
	"github.com/gcbaptista/go-winnow/model"
)

// AddDocument registers and fingerprints one document.
func (e *Engine) AddDocument(ctx context.Context, doc model.Document) error {
	if err := e.indexer.AddDocument(ctx, doc); err != nil {
		return err
	}
	return e.Persist()
}

// AddDocuments registers a batch of documents; an invalid batch adds nothing.
func (e *Engine) AddDocuments(ctx context.Context, docs []model.Document) error {
	if err := e.indexer.AddDocuments(ctx, docs); err != nil {
		return err
	}
	return e.Persist()
}

// GetDocument returns a registered document.
func (e *Engine) GetDocument(docID string) (model.Document, error) {
	return e.indexer.Document(docID)
}

// DeleteDocument removes a document and its fingerprints.
func (e *Engine) DeleteDocument(ctx context.Context, docID string) error {
	if err := e.indexer.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	return e.Persist()
}

// ListDocuments returns the metadata of all documents in registration order.
func (e *Engine) ListDocuments() []model.DocumentMeta {
	return e.documents.List()
}

// Fingerprints returns the cached fingerprints of a document.
func (e *Engine) Fingerprints(ctx context.Context, docID string) ([]model.Fingerprint, error) {
	return e.indexer.Fingerprints(ctx, docID)
}

// FingerprintText fingerprints unregistered text. Unset settings fall back
// to the engine's.
func (e *Engine) FingerprintText(text, extension string, settings config.FingerprintSettings) ([]model.Fingerprint, error) {
	if settings.KValue == 0 {
		settings.KValue = e.settings.KValue
	}
	if settings.WindowSizeValue == 0 {
		settings.WindowSizeValue = e.settings.WindowSizeValue
	}
	if settings.HashAlgorithm == "" {
		settings.HashAlgorithm = e.settings.HashAlgorithm
	}
	return indexing.Fingerprint(text, extension, settings)
}
