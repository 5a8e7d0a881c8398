// Package core defines the artifact store abstractions shared by the
// modelstore facade and the backend implementations.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete artifact store backend.
type Driver string

const (
	// DriverFilesystem is the local filesystem backend (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 is an S3 / MinIO compatible backend.
	DriverS3 Driver = "s3"
	// DriverMemory is the in-process backend used in tests.
	DriverMemory Driver = "memory"
)

// PutOptions carries optional parameters for Put.
type PutOptions struct {
	ContentType string            // MIME type, optional
	Metadata    map[string]string // small flat key-value metadata (bounds, provenance)
}

// Artifact describes a stored model artifact.
type Artifact struct {
	Key         string            `json:"key"`
	Size        int64             `json:"size_bytes"`
	ContentType string            `json:"content_type,omitempty"`
	Checksum    string            `json:"checksum,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UploadedAt  time.Time         `json:"uploaded_at"`
}

// Store is the artifact store abstraction consumed by the emulator loader.
// Artifacts are immutable: Put is create-only and never overwrites a key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Artifact, error)
	Get(ctx context.Context, key string) (Artifact, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Artifact, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Artifact, error)
	Driver() Driver
}

var (
	// ErrNotFound is returned for keys with no stored artifact.
	ErrNotFound = errors.New("modelstore: artifact not found")
	// ErrAlreadyExists is returned by Put for keys that already hold one.
	ErrAlreadyExists = errors.New("modelstore: artifact already exists")
)

// CloneMetadata copies a metadata map so stored state never aliases caller
// maps.
func CloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
