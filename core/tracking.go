package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
)

// beginTracking opens an analysis run if a store is configured.
// The returned function closes the run with the number of analyzed files.
func (a *ChangeAnalyzer) beginTracking(ctx context.Context, sourceRef, targetRef string, filters schema.Filters) (context.Context, func(totalFiles int)) {
	noop := func(int) {}
	if a.mgr == nil {
		return ctx, noop
	}
	analysisStore := a.mgr.GetAnalysisStore()
	if analysisStore == nil {
		return ctx, noop
	}

	configParams := map[string]any{
		"repo_path":       a.repoPath,
		"workers":         a.workers,
		"filters":         filters.Map(),
		"method_excludes": a.methodExcludes,
	}
	analysisID, err := analysisStore.BeginAnalysis(time.Now(), sourceRef, targetRef, configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return ctx, noop
	}
	if analysisID <= 0 {
		return ctx, noop
	}

	ctx = contextWithCacheManager(withAnalysisID(ctx, analysisID), a.mgr)
	return ctx, func(totalFiles int) {
		if err := analysisStore.EndAnalysis(analysisID, time.Now(), totalFiles); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
	}
}

// recordFileChange stores one record under the run in ctx, if any.
func recordFileChange(ctx context.Context, rec *schema.FileChangeRecord) {
	analysisID, ok := getAnalysisID(ctx)
	if !ok || analysisID <= 0 {
		return
	}
	mgr := cacheManagerFromContext(ctx)
	if mgr == nil {
		return
	}
	analysisStore := mgr.GetAnalysisStore()
	if analysisStore == nil {
		return
	}

	row := schema.NewFileChangeRow(analysisID, rec, time.Now())
	if err := analysisStore.RecordFileChange(row); err != nil {
		logTrackingError("RecordFileChange", rec.Path, err)
	}
}

// recordCachedFiles tracks the records of a cached result as part of the current run.
func recordCachedFiles(ctx context.Context, records []schema.FileChangeRecord) {
	for i := range records {
		recordFileChange(ctx, &records[i])
	}
}

// logTrackingError logs database tracking errors without disrupting analysis.
func logTrackingError(operation, path string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s", operation), err, "path", path)
}
