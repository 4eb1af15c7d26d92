package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/changescope/core/agg"
	"github.com/huangsam/changescope/core/classify"
	"github.com/huangsam/changescope/core/static"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"golang.org/x/sync/errgroup"
)

// ChangeAnalyzer turns the difference between two refs into an AnalysisResult.
// It holds no state between calls and is safe for concurrent use.
type ChangeAnalyzer struct {
	client         contract.GitClient
	repoPath       string
	workers        int
	methodExcludes []string
	classifier     *classify.Classifier
	mgr            contract.CacheManager
	cacheTTL       time.Duration
}

// Option configures a ChangeAnalyzer.
type Option func(*ChangeAnalyzer)

// WithWorkers bounds the number of files analyzed at once.
func WithWorkers(n int) Option {
	return func(a *ChangeAnalyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithMethodExcludes replaces the words the method pattern must not capture.
func WithMethodExcludes(words []string) Option {
	return func(a *ChangeAnalyzer) {
		a.methodExcludes = words
	}
}

// WithCacheManager enables result caching and run tracking.
// A non-positive ttl keeps the seven day default.
func WithCacheManager(mgr contract.CacheManager, ttl time.Duration) Option {
	return func(a *ChangeAnalyzer) {
		a.mgr = mgr
		if ttl > 0 {
			a.cacheTTL = ttl
		}
	}
}

// NewChangeAnalyzer creates an analyzer for the repository at repoPath.
func NewChangeAnalyzer(client contract.GitClient, repoPath string, opts ...Option) *ChangeAnalyzer {
	a := &ChangeAnalyzer{
		client:   client,
		repoPath: repoPath,
		workers:  contract.DefaultWorkers,
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.classifier = classify.New(classify.WithMethodExcludes(a.methodExcludes))
	return a
}

// NewChangeAnalyzerFromConfig creates an analyzer from validated configuration.
func NewChangeAnalyzerFromConfig(client contract.GitClient, cfg *contract.Config, mgr contract.CacheManager) *ChangeAnalyzer {
	return NewChangeAnalyzer(client, cfg.RepoPath,
		WithWorkers(cfg.Workers),
		WithMethodExcludes(cfg.MethodExcludes),
		WithCacheManager(mgr, cfg.CacheTTL),
	)
}

// AnalyzeBranchDiff analyzes what sourceRef has that targetRef lacks.
// Failing to resolve a ref or to enumerate the diff or commits fails the call.
// A file whose content cannot be fetched only degrades its own record.
// A cancelled context yields no result at all.
func (a *ChangeAnalyzer) AnalyzeBranchDiff(ctx context.Context, sourceRef, targetRef string, filters schema.Filters) (*schema.AnalysisResult, error) {
	sourceHash, err := a.resolve(ctx, sourceRef)
	if err != nil {
		return nil, err
	}
	targetHash, err := a.resolve(ctx, targetRef)
	if err != nil {
		return nil, err
	}

	if !shouldSuppressHeader(ctx) {
		contract.Logger().Info("Analyzing change", "source", sourceRef, "target", targetRef, "path", a.repoPath)
	}

	var resultStore contract.CacheStore
	if a.mgr != nil {
		resultStore = a.mgr.GetResultStore()
	}
	key := resultCacheKey{
		RepoRoot:       a.repoPath,
		SourceHash:     sourceHash,
		TargetHash:     targetHash,
		Filters:        filters,
		MethodExcludes: a.methodExcludes,
	}.String()

	ctx, finish := a.beginTracking(ctx, sourceRef, targetRef, filters)

	if resultStore != nil {
		if cached := checkCacheHit(resultStore, key, a.cacheTTL); cached != nil {
			contract.LogDebug("result cache hit", "ref", sourceRef)
			recordCachedFiles(ctx, cached.Files)
			finish(len(cached.Files))
			return cached, nil
		}
	}

	result, err := a.analyze(ctx, sourceRef, targetRef, filters)
	if err != nil {
		finish(0)
		return nil, err
	}
	result.Summary.SourceCommit = sourceHash
	result.Summary.TargetCommit = targetHash
	finish(len(result.Files))

	if resultStore != nil {
		storeResult(resultStore, key, result)
	}
	return result, nil
}

func (a *ChangeAnalyzer) resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", &contract.RepositoryAccessError{Op: "resolve", Err: errors.New("empty ref")}
	}
	hash, err := a.client.ResolveRef(ctx, a.repoPath, ref)
	if err != nil {
		return "", contract.NewRepositoryAccessError("resolve", ref, err)
	}
	return hash, nil
}

// analyze runs the uncached pipeline.
func (a *ChangeAnalyzer) analyze(ctx context.Context, sourceRef, targetRef string, filters schema.Filters) (*schema.AnalysisResult, error) {
	var (
		commits []schema.CommitRecord
		summary schema.DiffSummary
		entries []schema.DiffEntry
	)

	// --- 1. Enumeration Phase ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commits, err = agg.FetchCommits(gctx, a.client, a.repoPath, sourceRef, targetRef, filters)
		if err != nil {
			return contract.NewRepositoryAccessError("commit log", sourceRef, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		summary, err = a.client.DiffSummary(gctx, a.repoPath, targetRef, sourceRef, filters)
		if err != nil {
			return contract.NewRepositoryAccessError("diff summary", "", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = a.client.DiffFiles(gctx, a.repoPath, targetRef, sourceRef, filters)
		if err != nil {
			return contract.NewRepositoryAccessError("diff files", "", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	// --- 2. Per-File Analysis ---
	refs := effectiveRefs(sourceRef, targetRef, filters)
	records := a.analyzeFiles(ctx, refs, entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 3. Aggregation ---
	statusCounts := make(map[schema.FileStatus]int, len(schema.ValidFileStatuses))
	for i := range records {
		statusCounts[records[i].Status()]++
	}

	return &schema.AnalysisResult{
		Summary: schema.AnalysisSummary{
			RunID:        uuid.NewString(),
			RepoPath:     a.repoPath,
			SourceRef:    sourceRef,
			TargetRef:    targetRef,
			FilesChanged: summary.FilesChanged,
			Insertions:   summary.Insertions,
			Deletions:    summary.Deletions,
			StatusCounts: statusCounts,
			CommitCount:  len(commits),
			Filters:      filters,
			GeneratedAt:  time.Now().UTC(),
		},
		Files:    records,
		Commits:  agg.AggregateCommits(commits),
		Insights: generateInsights(summary, records),
		Metrics:  rollupMetrics(records),
	}, nil
}

// diffRefs are the refs used for per-file diffs and content.
type diffRefs struct {
	source  string
	target  string
	filters schema.Filters
}

// effectiveRefs narrows the compared refs to the commit or range filter when one is set.
func effectiveRefs(sourceRef, targetRef string, filters schema.Filters) diffRefs {
	switch {
	case filters.Commit != "":
		return diffRefs{source: filters.Commit, target: filters.Commit + "^", filters: filters}
	case filters.From != "" && filters.To != "":
		return diffRefs{source: filters.To, target: filters.From, filters: filters}
	default:
		return diffRefs{source: sourceRef, target: targetRef, filters: filters}
	}
}

// analyzeFiles processes all entries using a worker pool.
// Results are written by index so that they keep the diff order.
func (a *ChangeAnalyzer) analyzeFiles(ctx context.Context, refs diffRefs, entries []schema.DiffEntry) []schema.FileChangeRecord {
	records := make([]schema.FileChangeRecord, len(entries))
	if len(entries) == 0 {
		return records
	}

	indexCh := make(chan int, len(entries))
	var wg sync.WaitGroup

	// Start worker pool
	for range min(a.workers, len(entries)) {
		wg.Go(func() {
			for i := range indexCh {
				if ctx.Err() != nil {
					continue
				}
				records[i] = a.analyzeFile(ctx, refs, entries[i])
				recordFileChange(ctx, &records[i])
			}
		})
	}

	for i := range entries {
		indexCh <- i
	}
	close(indexCh)

	wg.Wait()
	return records
}

// analyzeFile builds the record of one changed path.
func (a *ChangeAnalyzer) analyzeFile(ctx context.Context, refs diffRefs, e schema.DiffEntry) schema.FileChangeRecord {
	rec := schema.FileChangeRecord{
		Path:     e.Path,
		Language: classify.DetectLanguage(e.Path),
	}

	switch e.Status {
	case schema.StatusRenamed:
		rec.Change = schema.RenamedChange{OldPath: e.OldPath}
		return rec
	case schema.StatusAdded:
		rec.Change = schema.AddedChange{}
	case schema.StatusDeleted:
		rec.Change = schema.DeletedChange{}
	default:
		rec.Change = schema.ModifiedChange{}
	}

	diff, err := a.client.FileDiff(ctx, a.repoPath, refs.target, refs.source, e.Path, refs.filters)
	if err != nil {
		logUnavailable(ctx, e.Path, err)
		return rec
	}

	var change schema.FileChange
	switch e.Status {
	case schema.StatusAdded:
		change, err = a.analyzeAdded(ctx, refs, e.Path)
	case schema.StatusDeleted:
		change, err = a.analyzeDeleted(ctx, refs, e.Path)
	default:
		change, err = a.analyzeModified(ctx, refs, e.Path)
	}
	if err != nil {
		logUnavailable(ctx, e.Path, err)
		return rec
	}

	rec.Additions = diff.Additions
	rec.Deletions = diff.Deletions
	rec.Diff = diff.Text
	rec.Change = change
	return rec
}

func (a *ChangeAnalyzer) analyzeAdded(ctx context.Context, refs diffRefs, path string) (schema.FileChange, error) {
	content, err := a.client.FileContentAt(ctx, a.repoPath, refs.source, path)
	if err != nil {
		return nil, err
	}
	snap, report := a.analyzeSnapshot(path, content)
	return schema.AddedChange{Snapshot: snap, Static: report}, nil
}

func (a *ChangeAnalyzer) analyzeDeleted(ctx context.Context, refs diffRefs, path string) (schema.FileChange, error) {
	content, err := a.client.FileContentAt(ctx, a.repoPath, refs.target, path)
	if err != nil {
		return nil, err
	}
	snap := a.classifier.Analyze(path, content)
	return schema.DeletedChange{Snapshot: &snap}, nil
}

// analyzeModified runs the primary analysis on the target side and diffs it against the source side.
func (a *ChangeAnalyzer) analyzeModified(ctx context.Context, refs diffRefs, path string) (schema.FileChange, error) {
	oldContent, err := a.client.FileContentAt(ctx, a.repoPath, refs.target, path)
	if err != nil {
		return nil, err
	}
	newContent, err := a.client.FileContentAt(ctx, a.repoPath, refs.source, path)
	if err != nil {
		return nil, err
	}

	oldSnap, report := a.analyzeSnapshot(path, oldContent)
	newSnap := a.classifier.Analyze(path, newContent)
	functional := ComputeFunctionalChanges(oldSnap, &newSnap)
	delta := ComputeLineDelta(oldContent, newContent)

	return schema.ModifiedChange{
		Snapshot:   oldSnap,
		Static:     report,
		Functional: &functional,
		LineDelta:  &delta,
	}, nil
}

// analyzeSnapshot classifies content and runs the static passes on it.
// The static report is nil for empty content.
func (a *ChangeAnalyzer) analyzeSnapshot(path, content string) (*schema.FileSnapshotAnalysis, *schema.StaticReport) {
	snap := a.classifier.Analyze(path, content)
	report, err := static.Analyze(content, snap.Language)
	if err != nil {
		contract.LogDebug("no static report", "path", path, "error", err)
		return &snap, nil
	}
	return &snap, &report
}

// logUnavailable reports a degraded record without disrupting the analysis.
func logUnavailable(ctx context.Context, path string, err error) {
	if ctx.Err() != nil {
		return
	}
	contract.LogWarn("File content unavailable, keeping a degraded record", err, "path", path)
}
