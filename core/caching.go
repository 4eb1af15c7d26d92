package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// defaultCacheTTL applies when the analyzer has no explicit TTL
const defaultCacheTTL = 7 * 24 * time.Hour

// resultCacheKey identifies one analysis. Resolved hashes make a hit safe to reuse
// even when the branch names move.
type resultCacheKey struct {
	RepoRoot       string
	SourceHash     string
	TargetHash     string
	Filters        schema.Filters
	MethodExcludes []string
}

// String creates a stable hash of all inputs of the analysis
func (k resultCacheKey) String() string {
	m := k.Filters.Map()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s:%s", k.RepoRoot, k.SourceHash, k.TargetHash)
	for _, name := range names {
		fmt.Fprintf(&b, ":%s=%v", name, m[name])
	}
	fmt.Fprintf(&b, ":excludes=%s", strings.Join(k.MethodExcludes, ","))
	return fmt.Sprintf("%x", sha256.Sum256([]byte(b.String())))
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) *schema.AnalysisResult {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > ttl {
		return nil
	}

	var result schema.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		contract.LogDebug("discarding unreadable cache entry", "key", key, "error", err)
		return nil
	}
	return &result
}

// storeResult writes the result to the cache. Failures only cost a recomputation.
func storeResult(store contract.CacheStore, key string, result *schema.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		contract.LogWarn("Cannot encode analysis result for cache", err)
		return
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Cannot write analysis result to cache", err)
	}
}
