// Package memory provides an in-memory implementation of the catalog store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cosmocore/internal/catalog"
)

// Compile-time contract assertion ensuring memory.Store adheres to the catalog interface.
var _ catalog.Store = (*Store)(nil)

type state struct {
	artifacts map[string]catalog.ArtifactRecord
	loads     []catalog.LoadRecord
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Artifacts []catalog.ArtifactRecord `json:"artifacts"`
	Loads     []catalog.LoadRecord     `json:"loads"`
}

func newState() state {
	return state{artifacts: make(map[string]catalog.ArtifactRecord)}
}

func snapshotFromState(st state) Snapshot {
	var snap Snapshot
	for _, rec := range st.artifacts {
		snap.Artifacts = append(snap.Artifacts, rec)
	}
	sort.Slice(snap.Artifacts, func(i, j int) bool { return snap.Artifacts[i].Key < snap.Artifacts[j].Key })
	snap.Loads = append(snap.Loads, st.loads...)
	return snap
}

func stateFromSnapshot(snap Snapshot) state {
	st := newState()
	for _, rec := range snap.Artifacts {
		st.artifacts[rec.Key] = rec
	}
	st.loads = append(st.loads, snap.Loads...)
	return st
}

// Store provides an in-memory catalog.
type Store struct {
	mu    sync.RWMutex
	state state
	now   func() time.Time
}

// NewStore constructs an empty in-memory catalog.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snap)
}

// SetNowFunc swaps the time provider, for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// PutArtifact inserts or replaces the record keyed by rec.Key. A zero
// CreatedAt is stamped with the current time.
func (s *Store) PutArtifact(_ context.Context, rec catalog.ArtifactRecord) error {
	if rec.Key == "" {
		return fmt.Errorf("artifact record requires a key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	s.state.artifacts[rec.Key] = rec
	return nil
}

// Artifact returns the record for key, or catalog.ErrNotFound.
func (s *Store) Artifact(_ context.Context, key string) (catalog.ArtifactRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.state.artifacts[key]
	if !ok {
		return catalog.ArtifactRecord{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, key)
	}
	return rec, nil
}

// ListArtifacts returns records for one model (or all, when model is empty)
// sorted by key.
func (s *Store) ListArtifacts(_ context.Context, model string) ([]catalog.ArtifactRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.ArtifactRecord
	for _, rec := range s.state.artifacts {
		if model == "" || rec.Model == model {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// RecordLoad appends one load audit entry. A zero At is stamped with the
// current time.
func (s *Store) RecordLoad(_ context.Context, rec catalog.LoadRecord) error {
	if rec.Model == "" {
		return fmt.Errorf("load record requires a model name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.At.IsZero() {
		rec.At = s.now().UTC()
	}
	s.state.loads = append(s.state.loads, rec)
	return nil
}

// Loads returns the audit entries for one model (or all, when model is
// empty) in insertion order.
func (s *Store) Loads(_ context.Context, model string) ([]catalog.LoadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.LoadRecord
	for _, rec := range s.state.loads {
		if model == "" || rec.Model == model {
			out = append(out, rec)
		}
	}
	return out, nil
}
