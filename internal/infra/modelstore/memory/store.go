// Package memory implements an in-process artifact store for tests.
package memory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"cosmocore/internal/modelstore/core"
)

type storedArtifact struct {
	artifact core.Artifact
	data     []byte
}

// Store implements core.Store backed by process memory.
type Store struct {
	mu        sync.RWMutex
	artifacts map[string]storedArtifact
}

// New returns an empty in-memory artifact store.
func New() *Store { return &Store{artifacts: make(map[string]storedArtifact)} }

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.artifacts[key]; exists {
		return core.Artifact{}, fmt.Errorf("%w: %s", core.ErrAlreadyExists, key)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return core.Artifact{}, err
	}
	sum := sha256.Sum256(b)
	art := core.Artifact{
		Key:         key,
		Size:        int64(len(b)),
		ContentType: opts.ContentType,
		Checksum:    hex.EncodeToString(sum[:]),
		Metadata:    core.CloneMetadata(opts.Metadata),
		UploadedAt:  time.Now().UTC(),
	}
	s.artifacts[key] = storedArtifact{artifact: art, data: b}
	return art, nil
}

func (s *Store) Get(_ context.Context, key string) (core.Artifact, io.ReadCloser, error) {
	s.mu.RLock()
	stored, ok := s.artifacts[key]
	s.mu.RUnlock()
	if !ok {
		return core.Artifact{}, nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	data := make([]byte, len(stored.data))
	copy(data, stored.data)
	art := stored.artifact
	art.Metadata = core.CloneMetadata(art.Metadata)
	return art, io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) Head(_ context.Context, key string) (core.Artifact, error) {
	s.mu.RLock()
	stored, ok := s.artifacts[key]
	s.mu.RUnlock()
	if !ok {
		return core.Artifact{}, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	art := stored.artifact
	art.Metadata = core.CloneMetadata(art.Metadata)
	return art, nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.artifacts[key]
	if ok {
		delete(s.artifacts, key)
	}
	return ok, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]core.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Artifact, 0, len(s.artifacts))
	for key, stored := range s.artifacts {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		art := stored.artifact
		art.Metadata = core.CloneMetadata(art.Metadata)
		out = append(out, art)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
