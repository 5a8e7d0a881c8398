package identity

import (
	"expvar"
	"sync/atomic"
)

// Process-wide representation cache counters. Published via expvar for
// deployments that want process-local observability without external
// dependencies.
var (
	cacheHits          atomic.Int64
	cacheMisses        atomic.Int64
	cacheInvalidations atomic.Int64
)

// CacheStats captures a point-in-time view of the representation cache
// counters.
type CacheStats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Invalidations int64 `json:"invalidations"`
}

// ReadCacheStats returns the current process-wide cache counters.
func ReadCacheStats() CacheStats {
	return CacheStats{
		Hits:          cacheHits.Load(),
		Misses:        cacheMisses.Load(),
		Invalidations: cacheInvalidations.Load(),
	}
}

func init() {
	expvar.Publish("cosmocore_identity_cache", expvar.Func(func() any {
		return ReadCacheStats()
	}))
}
