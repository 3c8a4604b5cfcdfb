package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

type DocumentStore struct {
	Mu                     sync.RWMutex
	Docs                   map[uint32]model.Document // Internal ID to full document
	ExternalIDtoInternalID map[string]uint32         // User-provided ID to internal uint32 ID
	NextID                 uint32
}

// gobDocumentStoreData is a helper struct for Gob encoding/decoding DocumentStore data.
// It excludes the mutex.
type gobDocumentStoreData struct {
	Docs                   map[uint32]model.Document
	ExternalIDtoInternalID map[string]uint32
	NextID                 uint32
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
	}
}

// Add registers a document under its external ID and returns the internal ID.
func (ds *DocumentStore) Add(doc model.Document) (uint32, error) {
	docID, ok := doc.GetDocumentID()
	if !ok {
		return 0, errors.NewValidationError("id", "document ID is required and cannot be blank")
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	if _, exists := ds.ExternalIDtoInternalID[docID]; exists {
		return 0, errors.NewDocumentAlreadyExistsError(docID)
	}

	internalID := ds.NextID
	ds.NextID++
	ds.Docs[internalID] = doc
	ds.ExternalIDtoInternalID[docID] = internalID
	return internalID, nil
}

// Get returns the document registered under the external ID.
func (ds *DocumentStore) Get(docID string) (model.Document, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	internalID, ok := ds.ExternalIDtoInternalID[docID]
	if !ok {
		return model.Document{}, false
	}
	doc, ok := ds.Docs[internalID]
	return doc, ok
}

// Delete removes a document and reports whether it existed.
func (ds *DocumentStore) Delete(docID string) bool {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	internalID, ok := ds.ExternalIDtoInternalID[docID]
	if !ok {
		return false
	}
	delete(ds.Docs, internalID)
	delete(ds.ExternalIDtoInternalID, docID)
	return true
}

// DeleteInternal removes a document only while its external ID still maps to
// internalID, and reports whether it did.
func (ds *DocumentStore) DeleteInternal(docID string, internalID uint32) bool {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	current, ok := ds.ExternalIDtoInternalID[docID]
	if !ok || current != internalID {
		return false
	}
	delete(ds.Docs, internalID)
	delete(ds.ExternalIDtoInternalID, docID)
	return true
}

// List returns the metadata of every document in registration order.
func (ds *DocumentStore) List() []model.DocumentMeta {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	ids := make([]uint32, 0, len(ds.Docs))
	for id := range ds.Docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	metas := make([]model.DocumentMeta, 0, len(ids))
	for _, id := range ids {
		metas = append(metas, ds.Docs[id].Meta)
	}
	return metas
}

// Len returns the number of stored documents.
func (ds *DocumentStore) Len() int {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	return len(ds.Docs)
}

// GobEncode implements the gob.GobEncoder interface for DocumentStore.
func (ds *DocumentStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	dataToEncode := gobDocumentStoreData{
		Docs:                   ds.Docs,
		ExternalIDtoInternalID: ds.ExternalIDtoInternalID,
		NextID:                 ds.NextID,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for DocumentStore.
func (ds *DocumentStore) GobDecode(data []byte) error {
	decodedData := gobDocumentStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = decodedData.Docs
	ds.ExternalIDtoInternalID = decodedData.ExternalIDtoInternalID
	ds.NextID = decodedData.NextID

	// Ensure maps are initialized if they were nil after decoding
	if ds.Docs == nil {
		ds.Docs = make(map[uint32]model.Document)
	}
	if ds.ExternalIDtoInternalID == nil {
		ds.ExternalIDtoInternalID = make(map[string]uint32)
	}
	return nil
}
