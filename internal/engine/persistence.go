package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/persistence"
	"github.com/gcbaptista/go-winnow/store"
)

const (
	dataDirPerm       = 0755
	settingsFile      = "settings.gob"
	documentStoreFile = "document_store.gob"
	fingerprintFile   = "fingerprints.gob"
)

// loadFromDisk restores documents and, when the settings match, cached
// fingerprints. Missing or unreadable files leave the stores empty.
func (e *Engine) loadFromDisk() {
	log.Printf("Loading snapshot from disk: %s", e.dataDir)

	docStore := store.NewDocumentStore()
	dsPath := filepath.Join(e.dataDir, documentStoreFile)
	if err := persistence.LoadGob(dsPath, docStore); err == os.ErrNotExist {
		log.Printf("Info: Document store file %s not found. Initializing empty store.", dsPath)
		return
	} else if err != nil {
		log.Printf("Warning: Failed to load document store from %s: %v. Proceeding with empty store.", dsPath, err)
		return
	}
	e.documents = docStore

	if e.fingerprints == nil {
		return
	}

	var saved config.FingerprintSettings
	settingsPath := filepath.Join(e.dataDir, settingsFile)
	if err := persistence.LoadGob(settingsPath, &saved); err != nil {
		log.Printf("Info: No usable settings snapshot at %s (%v). Fingerprints will be recomputed.", settingsPath, err)
		return
	}
	if saved.Signature() != e.settings.Signature() {
		log.Printf("Info: Fingerprint settings changed from %s to %s. Fingerprints will be recomputed.", saved.Signature(), e.settings.Signature())
		return
	}

	fpStore := store.NewFingerprintStore()
	fpPath := filepath.Join(e.dataDir, fingerprintFile)
	if err := persistence.LoadGob(fpPath, fpStore); err != nil && err != os.ErrNotExist {
		log.Printf("Warning: Failed to load fingerprints from %s: %v. Fingerprints will be recomputed.", fpPath, err)
		return
	} else if err == nil {
		e.fingerprints.Fingerprints = fpStore.Fingerprints
	}
	log.Printf("Loaded %d documents and %d fingerprint sets", e.documents.Len(), e.fingerprints.Len())
}

// Persist writes a snapshot of the engine state. It is a no-op without a data directory.
func (e *Engine) Persist() error {
	if e.dataDir == "" {
		return nil
	}
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	if err := persistence.SaveGob(filepath.Join(e.dataDir, settingsFile), e.settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := persistence.SaveGob(filepath.Join(e.dataDir, documentStoreFile), e.documents); err != nil {
		return fmt.Errorf("failed to save document store: %w", err)
	}
	if e.fingerprints != nil {
		if err := persistence.SaveGob(filepath.Join(e.dataDir, fingerprintFile), e.fingerprints); err != nil {
			return fmt.Errorf("failed to save fingerprints: %w", err)
		}
	}
	return nil
}
