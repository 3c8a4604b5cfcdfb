// Package pgstore keeps fingerprints in PostgreSQL so that several server
// instances can share one cache.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gcbaptista/go-winnow/internal/cache"
	"github.com/gcbaptista/go-winnow/model"
)

var _ cache.Backend = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
	document_id  TEXT        NOT NULL,
	signature    TEXT        NOT NULL,
	content_hash TEXT        NOT NULL,
	fingerprints JSONB       NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (document_id, signature, content_hash)
)`

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the fingerprints table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create fingerprints table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key model.FingerprintKey) ([]model.Fingerprint, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT fingerprints FROM fingerprints WHERE document_id = $1 AND signature = $2 AND content_hash = $3`,
		key.DocumentID, key.Signature, key.ContentHash,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get fingerprints %s: %w", key, err)
	}

	fps := make([]model.Fingerprint, 0)
	if err := json.Unmarshal(raw, &fps); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal fingerprints %s: %w", key, err)
	}
	return fps, true, nil
}

func (s *Store) Put(ctx context.Context, key model.FingerprintKey, fingerprints []model.Fingerprint) error {
	if fingerprints == nil {
		fingerprints = []model.Fingerprint{}
	}
	jsonBytes, err := json.Marshal(fingerprints)
	if err != nil {
		return fmt.Errorf("failed to marshal fingerprints: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO fingerprints (document_id, signature, content_hash, fingerprints)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (document_id, signature, content_hash) DO UPDATE SET fingerprints = $4, created_at = NOW()`,
		key.DocumentID, key.Signature, key.ContentHash, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save fingerprints %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM fingerprints WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete fingerprints of %s: %w", documentID, err)
	}
	return nil
}
