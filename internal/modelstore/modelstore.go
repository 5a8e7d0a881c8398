// Package modelstore re-exports the artifact store abstractions and selects a
// backend from the environment. Other packages depend on modelstore.Store;
// only this package wraps the infra-backed implementations.
package modelstore

import (
	"cosmocore/internal/modelstore/core"
)

type (
	// Driver identifies an artifact store backend.
	Driver = core.Driver
	// PutOptions configures an artifact write.
	PutOptions = core.PutOptions
	// Artifact describes a stored model artifact.
	Artifact = core.Artifact
	// Store is the interface for artifact store backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem backend.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible backend.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-process test backend.
	DriverMemory = core.DriverMemory
)

var (
	// ErrNotFound is returned for keys with no stored artifact.
	ErrNotFound = core.ErrNotFound
	// ErrAlreadyExists is returned by Put for keys that already hold one.
	ErrAlreadyExists = core.ErrAlreadyExists
)
