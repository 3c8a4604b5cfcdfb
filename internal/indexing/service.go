// Package indexing registers documents and turns them into fingerprints.
package indexing

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/cache"
	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/internal/tokenizer"
	"github.com/gcbaptista/go-winnow/internal/winnow"
	"github.com/gcbaptista/go-winnow/model"
	"github.com/gcbaptista/go-winnow/store"
)

// Service implements document ingestion for one fingerprint configuration.
type Service struct {
	documentStore *store.DocumentStore
	cache         *cache.Cache
	settings      config.FingerprintSettings
}

// NewService creates a new indexing Service.
func NewService(documentStore *store.DocumentStore, fingerprintCache *cache.Cache, settings config.FingerprintSettings) (*Service, error) {
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if fingerprintCache == nil {
		return nil, fmt.Errorf("fingerprint cache cannot be nil")
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		documentStore: documentStore,
		cache:         fingerprintCache,
		settings:      settings,
	}, nil
}

// Settings returns the fingerprint settings documents are indexed with.
func (s *Service) Settings() config.FingerprintSettings {
	return s.settings
}

// Fingerprint lexes text with the lexer registered for extension and winnows
// the resulting tokens.
func Fingerprint(text, extension string, settings config.FingerprintSettings) ([]model.Fingerprint, error) {
	tokens, err := tokenizer.ForExtension(extension).Lex(text)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize: %w", err)
	}
	if settings.SplitIdentifiers {
		tokens = tokenizer.SplitIdentifiers(tokens)
	}
	return winnow.Index(tokens, settings)
}

// AddDocuments validates the whole batch before registering any document,
// then stores and fingerprints each one.
func (s *Service) AddDocuments(ctx context.Context, docs []model.Document) error {
	seen := make(map[string]struct{}, len(docs))
	for i := range docs {
		docs[i] = normalizeMeta(docs[i])
		docID, ok := docs[i].GetDocumentID()
		if !ok {
			return errors.NewValidationError(fmt.Sprintf("documents[%d].id", i), "document ID is required and cannot be blank")
		}
		if _, dup := seen[docID]; dup {
			return errors.NewValidationError(fmt.Sprintf("documents[%d].id", i), fmt.Sprintf("duplicate document ID '%s' in batch", docID))
		}
		seen[docID] = struct{}{}
		if _, exists := s.documentStore.Get(docID); exists {
			return errors.NewDocumentAlreadyExistsError(docID)
		}
	}

	for _, doc := range docs {
		if err := s.AddDocument(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// AddDocument registers one document and caches its fingerprints. The
// document is not kept if fingerprinting fails.
func (s *Service) AddDocument(ctx context.Context, doc model.Document) error {
	doc = normalizeMeta(doc)
	internalID, err := s.documentStore.Add(doc)
	if err != nil {
		return err
	}

	if _, err := s.Fingerprints(ctx, doc.Meta.ID); err != nil {
		// The ID may have been deleted and registered again meanwhile
		s.documentStore.DeleteInternal(doc.Meta.ID, internalID)
		return fmt.Errorf("failed to fingerprint document '%s': %w", doc.Meta.ID, err)
	}
	return nil
}

// Document returns a registered document.
func (s *Service) Document(docID string) (model.Document, error) {
	doc, ok := s.documentStore.Get(docID)
	if !ok {
		return model.Document{}, errors.NewDocumentNotFoundError(docID)
	}
	return doc, nil
}

// DeleteDocument removes a document and its cached fingerprints.
func (s *Service) DeleteDocument(ctx context.Context, docID string) error {
	if !s.documentStore.Delete(docID) {
		return errors.NewDocumentNotFoundError(docID)
	}
	if err := s.cache.Invalidate(ctx, docID); err != nil {
		return fmt.Errorf("failed to drop fingerprints of '%s': %w", docID, err)
	}
	return nil
}

// Fingerprints returns the fingerprints of a registered document, computing
// them at most once per settings signature and document content.
func (s *Service) Fingerprints(ctx context.Context, docID string) ([]model.Fingerprint, error) {
	doc, err := s.Document(docID)
	if err != nil {
		return nil, err
	}

	key := model.FingerprintKey{
		DocumentID:  docID,
		Signature:   s.settings.Signature(),
		ContentHash: ContentHash(doc),
	}
	return s.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]model.Fingerprint, error) {
		return Fingerprint(doc.Text, doc.Meta.Extension, s.settings)
	})
}

// ContentHash digests what fingerprinting reads from a document: the lexer
// extension and the text.
func ContentHash(doc model.Document) string {
	d := xxhash.New()
	_, _ = d.WriteString(doc.Meta.Extension)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(doc.Text)
	return strconv.FormatUint(d.Sum64(), 16)
}

// normalizeMeta fills Name and Extension from Path when they are missing.
func normalizeMeta(doc model.Document) model.Document {
	doc.Meta.ID = strings.TrimSpace(doc.Meta.ID)
	if doc.Meta.Path != "" {
		if doc.Meta.Name == "" {
			doc.Meta.Name = filepath.Base(doc.Meta.Path)
		}
		if doc.Meta.Extension == "" {
			doc.Meta.Extension = filepath.Ext(doc.Meta.Path)
		}
	}
	return doc
}
