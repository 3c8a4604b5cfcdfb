package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/gcbaptista/go-winnow/model"
)

// FingerprintStore is the in-memory fingerprint cache backend.
type FingerprintStore struct {
	Mu           sync.RWMutex
	Fingerprints map[model.FingerprintKey][]model.Fingerprint
}

// gobFingerprintStoreData is a helper struct for Gob encoding/decoding FingerprintStore data.
// It excludes the mutex.
type gobFingerprintStoreData struct {
	Fingerprints map[model.FingerprintKey][]model.Fingerprint
}

// NewFingerprintStore creates an empty store.
func NewFingerprintStore() *FingerprintStore {
	return &FingerprintStore{Fingerprints: make(map[model.FingerprintKey][]model.Fingerprint)}
}

func (fs *FingerprintStore) Get(_ context.Context, key model.FingerprintKey) ([]model.Fingerprint, bool, error) {
	fs.Mu.RLock()
	defer fs.Mu.RUnlock()

	fps, ok := fs.Fingerprints[key]
	return fps, ok, nil
}

func (fs *FingerprintStore) Put(_ context.Context, key model.FingerprintKey, fingerprints []model.Fingerprint) error {
	fs.Mu.Lock()
	defer fs.Mu.Unlock()

	if fingerprints == nil {
		fingerprints = []model.Fingerprint{}
	}
	fs.Fingerprints[key] = fingerprints
	return nil
}

func (fs *FingerprintStore) DeleteDocument(_ context.Context, documentID string) error {
	fs.Mu.Lock()
	defer fs.Mu.Unlock()

	for key := range fs.Fingerprints {
		if key.DocumentID == documentID {
			delete(fs.Fingerprints, key)
		}
	}
	return nil
}

// Len returns the number of cached fingerprint sets.
func (fs *FingerprintStore) Len() int {
	fs.Mu.RLock()
	defer fs.Mu.RUnlock()
	return len(fs.Fingerprints)
}

// GobEncode implements the gob.GobEncoder interface for FingerprintStore.
func (fs *FingerprintStore) GobEncode() ([]byte, error) {
	fs.Mu.RLock()
	defer fs.Mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobFingerprintStoreData{Fingerprints: fs.Fingerprints}); err != nil {
		return nil, fmt.Errorf("failed to gob encode fingerprint store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for FingerprintStore.
func (fs *FingerprintStore) GobDecode(data []byte) error {
	decodedData := gobFingerprintStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode fingerprint store data: %w", err)
	}

	fs.Mu.Lock()
	defer fs.Mu.Unlock()

	fs.Fingerprints = decodedData.Fingerprints
	if fs.Fingerprints == nil {
		fs.Fingerprints = make(map[model.FingerprintKey][]model.Fingerprint)
	}
	return nil
}
