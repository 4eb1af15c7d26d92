package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable = "changescope_analysis_runs"
	fileChangesTable  = "changescope_file_changes"
)

// fileChangeColumns is the column order shared by inserts and selects.
var fileChangeColumns = []string{
	"analysis_id", "file_path", "status", "language", "additions", "deletions",
	"complexity", "quality_score", "quality_grade", "impact_score", "impact_level",
	"issue_count", "analysis_time",
}

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the analysis tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{fileChangesTable, getCreateFileChangesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for the runs table.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				source_ref VARCHAR(255) NOT NULL,
				target_ref VARCHAR(255) NOT NULL,
				total_files_analyzed INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				source_ref TEXT NOT NULL,
				target_ref TEXT NOT NULL,
				total_files_analyzed INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				source_ref TEXT NOT NULL,
				target_ref TEXT NOT NULL,
				total_files_analyzed INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateFileChangesQuery returns the CREATE TABLE query for the file changes table.
func getCreateFileChangesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fileChangesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				file_path VARCHAR(512) NOT NULL,
				status VARCHAR(16) NOT NULL,
				language VARCHAR(32) NOT NULL,
				additions INT NOT NULL,
				deletions INT NOT NULL,
				complexity INT NOT NULL,
				quality_score INT,
				quality_grade VARCHAR(2),
				impact_score INT NOT NULL,
				impact_level VARCHAR(16) NOT NULL,
				issue_count INT NOT NULL,
				analysis_time DATETIME(6) NOT NULL,
				PRIMARY KEY (analysis_id, file_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				file_path TEXT NOT NULL,
				status TEXT NOT NULL,
				language TEXT NOT NULL,
				additions INT NOT NULL,
				deletions INT NOT NULL,
				complexity INT NOT NULL,
				quality_score INT,
				quality_grade TEXT,
				impact_score INT NOT NULL,
				impact_level TEXT NOT NULL,
				issue_count INT NOT NULL,
				analysis_time TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (analysis_id, file_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				file_path TEXT NOT NULL,
				status TEXT NOT NULL,
				language TEXT NOT NULL,
				additions INTEGER NOT NULL,
				deletions INTEGER NOT NULL,
				complexity INTEGER NOT NULL,
				quality_score INTEGER,
				quality_grade TEXT,
				impact_score INTEGER NOT NULL,
				impact_level TEXT NOT NULL,
				issue_count INTEGER NOT NULL,
				analysis_time TEXT NOT NULL,
				PRIMARY KEY (analysis_id, file_path)
			);
		`, quotedTableName)
	}
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, sourceRef, targetRef string, configParams map[string]any) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	args := []any{formatTime(startTime, as.backend), sourceRef, targetRef, string(configJSON)}
	cols := "start_time, source_ref, target_ref, config_params"
	values := strings.Join(placeholders(as.backend, len(args)), ", ")

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING analysis_id`, quotedTableName, cols, values)
		err = as.db.QueryRow(query, args...).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quotedTableName, cols, values)
		var result sql.Result
		result, err = as.db.Exec(query, args...)
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalFiles int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	ph := placeholders(as.backend, 4)

	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, ph[0])
	start := timeScanner{backend: as.backend}
	if err := as.db.QueryRow(query, analysisID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}
	if startTime == nil {
		return fmt.Errorf("analysis %d has no start_time", analysisID)
	}

	durationMs := endTime.Sub(*startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_files_analyzed = %s WHERE analysis_id = %s`,
		quotedTableName, ph[0], ph[1], ph[2], ph[3])
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalFiles, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordFileChange stores one flattened file change under its analysis run.
func (as *AnalysisStoreImpl) RecordFileChange(row schema.FileChangeRow) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(fileChangesTable, as.backend),
		strings.Join(fileChangeColumns, ", "),
		strings.Join(placeholders(as.backend, len(fileChangeColumns)), ", "))

	_, err := as.db.Exec(query,
		row.AnalysisID, row.FilePath, row.Status, row.Language, row.Additions, row.Deletions,
		row.Complexity, row.QualityScore, row.QualityGrade, row.ImpactScore, row.ImpactLevel,
		row.IssueCount, formatTime(row.AnalysisTime, as.backend),
	)
	if err != nil {
		return fmt.Errorf("failed to insert file change: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := timeScanner{backend: as.backend}
		lastRunQuery := fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable)
		if err := as.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if t, err := last.value(); err != nil {
			return status, err
		} else if t != nil {
			status.LastRunTime = *t
		}

		oldest := timeScanner{backend: as.backend}
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runsTable)
		if err := as.db.QueryRow(oldestRunQuery).Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		if t, err := oldest.value(); err != nil {
			return status, err
		} else if t != nil {
			status.OldestRunTime = *t
		}
	}

	for _, table := range []string{analysisRunsTable, fileChangesTable} {
		var count int64
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalFileChanges = int(status.TableSizes[fileChangesTable])

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, start_time, end_time, run_duration_ms, source_ref, target_ref,
		total_files_analyzed, config_params FROM %s ORDER BY analysis_id`, quoteTableName(analysisRunsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		start := timeScanner{backend: as.backend}
		end := timeScanner{backend: as.backend}
		if err := rows.Scan(&record.AnalysisID, start.dest(), end.dest(), &record.RunDurationMs,
			&record.SourceRef, &record.TargetRef, &record.TotalFilesAnalyzed, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllFileChanges retrieves all file change rows from the store.
func (as *AnalysisStoreImpl) GetAllFileChanges() ([]schema.FileChangeRow, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY analysis_id, file_path`,
		strings.Join(fileChangeColumns, ", "), quoteTableName(fileChangesTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query file changes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileChangeRow
	for rows.Next() {
		var row schema.FileChangeRow
		at := timeScanner{backend: as.backend}
		if err := rows.Scan(&row.AnalysisID, &row.FilePath, &row.Status, &row.Language, &row.Additions,
			&row.Deletions, &row.Complexity, &row.QualityScore, &row.QualityGrade, &row.ImpactScore,
			&row.ImpactLevel, &row.IssueCount, at.dest()); err != nil {
			return nil, fmt.Errorf("failed to scan file change: %w", err)
		}
		analysisTime, err := at.value()
		if err != nil {
			return nil, err
		}
		if analysisTime != nil {
			row.AnalysisTime = *analysisTime
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file changes: %w", err)
	}
	return results, nil
}
