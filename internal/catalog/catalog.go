// Package catalog defines the record types and store contract for the
// artifact catalog: descriptors of stored model artifacts plus an audit
// trail of emulator model loads.
package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested catalog record does not exist.
var ErrNotFound = errors.New("catalog: record not found")

// ArtifactRecord describes one stored model artifact.
type ArtifactRecord struct {
	Key       string    `json:"key"`
	Model     string    `json:"model"`
	Version   string    `json:"version"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadRecord is one audit entry for a model load.
type LoadRecord struct {
	Model      string    `json:"model"`
	ConfigHash string    `json:"config_hash"`
	CacheHit   bool      `json:"cache_hit"`
	At         time.Time `json:"at"`
}

// Store is the catalog persistence contract. PutArtifact upserts by key.
// ListArtifacts and Loads filter by model name; an empty model returns
// everything.
type Store interface {
	PutArtifact(ctx context.Context, rec ArtifactRecord) error
	Artifact(ctx context.Context, key string) (ArtifactRecord, error)
	ListArtifacts(ctx context.Context, model string) ([]ArtifactRecord, error)
	RecordLoad(ctx context.Context, rec LoadRecord) error
	Loads(ctx context.Context, model string) ([]LoadRecord, error)
}
