package emulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/cespare/xxhash/v2"

	"cosmocore/internal/catalog"
	"cosmocore/internal/modelstore"
)

// BoundsMetadataKey is the artifact metadata key holding the trained bounds
// as a JSON object of parameter name to {"min": x, "max": y}.
const BoundsMetadataKey = "bounds"

// ArtifactLoader loads models from a model artifact store. The model payload
// is the raw artifact bytes; the trained bounds ride along as artifact
// metadata. An optional catalog receives one audit record per load.
type ArtifactLoader struct {
	store  modelstore.Store
	audit  catalog.Store
	prefix string
}

// ArtifactLoaderOption adjusts an ArtifactLoader.
type ArtifactLoaderOption func(*ArtifactLoader)

// WithAudit installs a catalog that records every artifact load.
func WithAudit(audit catalog.Store) ArtifactLoaderOption {
	return func(l *ArtifactLoader) { l.audit = audit }
}

// WithKeyPrefix prepends a path prefix to every artifact key.
func WithKeyPrefix(prefix string) ArtifactLoaderOption {
	return func(l *ArtifactLoader) { l.prefix = prefix }
}

// NewArtifactLoader builds a Loader over a model artifact store.
func NewArtifactLoader(store modelstore.Store, opts ...ArtifactLoaderOption) *ArtifactLoader {
	l := &ArtifactLoader{store: store}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ Loader = (*ArtifactLoader)(nil)

// Load fetches the artifact keyed by the model name, optionally under a
// "version" entry from the configuration. A missing artifact maps to
// ErrUnknownModel; malformed bounds metadata maps to ErrMalformedBounds.
func (l *ArtifactLoader) Load(ctx context.Context, name string, config Config) (any, *Bounds, error) {
	key := l.key(name, config)
	art, rc, err := l.store.Get(ctx, key)
	if errors.Is(err, modelstore.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: no artifact at %s", ErrUnknownModel, key)
	}
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read artifact %s: %w", key, err)
	}

	bounds, err := boundsFromMetadata(art.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("artifact %s: %w", key, err)
	}

	if l.audit != nil {
		hash, err := ConfigHash(config)
		if err != nil {
			return nil, nil, err
		}
		if err := l.audit.RecordLoad(ctx, catalog.LoadRecord{Model: name, ConfigHash: hash}); err != nil {
			return nil, nil, fmt.Errorf("record load of %s: %w", name, err)
		}
	}
	return payload, bounds, nil
}

func (l *ArtifactLoader) key(name string, config Config) string {
	key := name
	if version, ok := config["version"].(string); ok && version != "" {
		key = path.Join(name, version)
	}
	if l.prefix != "" {
		key = path.Join(l.prefix, key)
	}
	return key
}

func boundsFromMetadata(md map[string]string) (*Bounds, error) {
	raw, ok := md[BoundsMetadataKey]
	if !ok || raw == "" {
		return nil, nil
	}
	var ranges map[string]Range
	if err := json.Unmarshal([]byte(raw), &ranges); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBounds, err)
	}
	return NewBounds(ranges)
}

// ConfigHash digests a configuration into a stable hex string. Equal
// configurations hash equally; map key order does not matter.
func ConfigHash(config Config) (string, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("hash emulator config: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
