package iocache

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newSQLiteAnalysisStore(t *testing.T) *AnalysisStoreImpl {
	t.Helper()
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*AnalysisStoreImpl)
}

func sampleRow(analysisID int64, path string) schema.FileChangeRow {
	score := int32(82)
	grade := "B"
	return schema.FileChangeRow{
		AnalysisID:   analysisID,
		FilePath:     path,
		Status:       "modified",
		Language:     "javascript",
		Additions:    12,
		Deletions:    3,
		Complexity:   6,
		QualityScore: &score,
		QualityGrade: &grade,
		ImpactScore:  4,
		ImpactLevel:  "medium",
		IssueCount:   2,
		AnalysisTime: fixedTime.Add(time.Second),
	}
}

func TestAnalysisStore_NoneBackend(t *testing.T) {
	store, err := NewAnalysisStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginAnalysis(fixedTime, "feature", "main", map[string]any{"k": "v"})
	assert.NoError(t, err)
	assert.Zero(t, id)

	assert.NoError(t, store.EndAnalysis(1, fixedTime, 10))
	assert.NoError(t, store.RecordFileChange(sampleRow(1, "a.js")))

	runs, err := store.GetAllAnalysisRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)
	rows, err := store.GetAllFileChanges()
	assert.NoError(t, err)
	assert.Nil(t, rows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestAnalysisStore_Lifecycle(t *testing.T) {
	store := newSQLiteAnalysisStore(t)

	config := map[string]any{"workers": 4, "repo_path": "/repo"}
	id, err := store.BeginAnalysis(fixedTime, "feature", "main", config)
	require.NoError(t, err)
	assert.Positive(t, id)

	require.NoError(t, store.RecordFileChange(sampleRow(id, "src/app.js")))
	deleted := schema.FileChangeRow{
		AnalysisID: id, FilePath: "src/gone.js", Status: "deleted", Language: "javascript",
		Deletions: 40, ImpactScore: 4, ImpactLevel: "medium", AnalysisTime: fixedTime,
	}
	require.NoError(t, store.RecordFileChange(deleted))
	require.NoError(t, store.EndAnalysis(id, fixedTime.Add(1500*time.Millisecond), 2))

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, id, run.AnalysisID)
	assert.Equal(t, "feature", run.SourceRef)
	assert.Equal(t, "main", run.TargetRef)
	assert.Equal(t, int32(2), run.TotalFilesAnalyzed)
	assert.True(t, fixedTime.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, fixedTime.Add(1500*time.Millisecond).Equal(*run.EndTime))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	require.NotNil(t, run.ConfigParams)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &decoded))
	assert.Equal(t, "/repo", decoded["repo_path"])

	rows, err := store.GetAllFileChanges()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "src/app.js", rows[0].FilePath)
	require.NotNil(t, rows[0].QualityGrade)
	assert.Equal(t, "B", *rows[0].QualityGrade)
	assert.True(t, fixedTime.Add(time.Second).Equal(rows[0].AnalysisTime))
	assert.Equal(t, "src/gone.js", rows[1].FilePath)
	assert.Nil(t, rows[1].QualityScore)
	assert.Nil(t, rows[1].QualityGrade)
}

func TestAnalysisStore_UnfinishedRun(t *testing.T) {
	store := newSQLiteAnalysisStore(t)

	_, err := store.BeginAnalysis(fixedTime, "HEAD", "main", nil)
	require.NoError(t, err)

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
	assert.Zero(t, runs[0].TotalFilesAnalyzed)
}

func TestAnalysisStore_DuplicatePathRejected(t *testing.T) {
	store := newSQLiteAnalysisStore(t)
	id, err := store.BeginAnalysis(fixedTime, "a", "b", nil)
	require.NoError(t, err)

	require.NoError(t, store.RecordFileChange(sampleRow(id, "x.js")))
	assert.Error(t, store.RecordFileChange(sampleRow(id, "x.js")))
}

func TestAnalysisStore_EndUnknownRun(t *testing.T) {
	store := newSQLiteAnalysisStore(t)
	assert.Error(t, store.EndAnalysis(999, fixedTime, 0))
}

func TestAnalysisStore_GetStatus(t *testing.T) {
	store := newSQLiteAnalysisStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[analysisRunsTable])

	first, err := store.BeginAnalysis(fixedTime, "a", "b", nil)
	require.NoError(t, err)
	second, err := store.BeginAnalysis(fixedTime.Add(time.Hour), "c", "d", nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordFileChange(sampleRow(first, "one.js")))
	require.NoError(t, store.RecordFileChange(sampleRow(second, "one.js")))
	require.NoError(t, store.RecordFileChange(sampleRow(second, "two.js")))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
	assert.True(t, fixedTime.Add(time.Hour).Equal(status.LastRunTime))
	assert.True(t, fixedTime.Equal(status.OldestRunTime))
	assert.Equal(t, 3, status.TotalFileChanges)
	assert.Equal(t, int64(2), status.TableSizes[analysisRunsTable])
	assert.Equal(t, int64(3), status.TableSizes[fileChangesTable])
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintAnalysisStatus(&buf, schema.AnalysisStatus{
		Backend:          "sqlite",
		Connected:        true,
		TotalRuns:        1,
		LastRunID:        7,
		LastRunTime:      fixedTime,
		OldestRunTime:    fixedTime,
		TotalFileChanges: 4,
		TableSizes:       map[string]int64{fileChangesTable: 4, analysisRunsTable: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: 7")
	assert.Contains(t, out, "Total File Changes: 4")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(analysisRunsTable)), bytes.Index(buf.Bytes(), []byte(fileChangesTable)))

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())
}

func TestInitStoresNoneBackend(t *testing.T) {
	require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
	assert.NotNil(t, Manager.GetResultStore())
	assert.NotNil(t, Manager.GetAnalysisStore())

	// Later calls are no-ops
	require.NoError(t, InitStores("oracle", "", "oracle", ""))
	CloseCaching()
	CloseCaching()
}
