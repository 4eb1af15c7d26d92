package core

import (
	"context"

	"github.com/huangsam/changescope/internal/contract"
)

// Context keys for analysis options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	analysisIDKey     contextKey = "analysisID"
	cacheManagerKey   contextKey = "cacheManager"
)

// WithSuppressHeader marks the context so that no analysis header is printed.
// The MCP server uses it since stdout belongs to the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withAnalysisID stores the tracking ID of the current run
func withAnalysisID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, analysisIDKey, id)
}

// getAnalysisID returns the tracking ID of the current run, if any
func getAnalysisID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(analysisIDKey).(int64)
	return id, ok
}

// contextWithCacheManager makes the stores reachable from worker goroutines
func contextWithCacheManager(ctx context.Context, mgr contract.CacheManager) context.Context {
	if mgr == nil {
		return ctx
	}
	return context.WithValue(ctx, cacheManagerKey, mgr)
}

// cacheManagerFromContext returns the cache manager or nil
func cacheManagerFromContext(ctx context.Context) contract.CacheManager {
	mgr, _ := ctx.Value(cacheManagerKey).(contract.CacheManager)
	return mgr
}
