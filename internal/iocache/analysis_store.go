package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable   = "locscore_analysis_runs"
	locationScoresTable = "locscore_location_scores"
)

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

	db, err := openDatabase(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("analysis store: %w", err)
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
		{locationScoresTable, getCreateLocationScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for locscore_analysis_runs.
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
				locations_total INT NOT NULL DEFAULT 0,
				generation VARCHAR(26) NOT NULL,
				source VARCHAR(16) NOT NULL,
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
				locations_total INT NOT NULL DEFAULT 0,
				generation TEXT NOT NULL,
				source TEXT NOT NULL,
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
				locations_total INTEGER NOT NULL DEFAULT 0,
				generation TEXT NOT NULL,
				source TEXT NOT NULL,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateLocationScoresQuery returns the CREATE TABLE query for locscore_location_scores.
func getCreateLocationScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(locationScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				location VARCHAR(255) NOT NULL,
				month CHAR(7) NOT NULL,
				record_date DATETIME(6) NOT NULL,
				overall_score INT NOT NULL,
				tier VARCHAR(16) NOT NULL,
				rating VARCHAR(64) NOT NULL,
				location_rank INT NOT NULL,
				category_scores TEXT NOT NULL,
				PRIMARY KEY (analysis_id, month, location)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				location TEXT NOT NULL,
				month CHAR(7) NOT NULL,
				record_date TIMESTAMPTZ NOT NULL,
				overall_score INT NOT NULL,
				tier TEXT NOT NULL,
				rating TEXT NOT NULL,
				location_rank INT NOT NULL,
				category_scores TEXT NOT NULL,
				PRIMARY KEY (analysis_id, month, location)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				location TEXT NOT NULL,
				month TEXT NOT NULL,
				record_date TEXT NOT NULL,
				overall_score INTEGER NOT NULL,
				tier TEXT NOT NULL,
				rating TEXT NOT NULL,
				location_rank INTEGER NOT NULL,
				category_scores TEXT NOT NULL,
				PRIMARY KEY (analysis_id, month, location)
			);
		`, quotedTableName)
	}
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, generation string, source schema.DataSource, configParams map[string]any) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	args := []any{formatTime(startTime, as.backend), generation, string(source), string(configJSON)}

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, generation, source, config_params) VALUES ($1, $2, $3, $4) RETURNING analysis_id`, quotedTableName)
		err = as.db.QueryRow(query, args...).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, generation, source, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
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
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalLocations int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, placeholder(as.backend, 1))
	row := as.db.QueryRow(query, analysisID)

	var startTime time.Time
	switch as.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
		}
		var err error
		if startTime, err = parseTime(startTimeStr); err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, locations_total = %s WHERE analysis_id = %s`,
		quotedTableName,
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3), placeholder(as.backend, 4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalLocations, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordLocationScores stores the scored records of a run in one transaction.
func (as *AnalysisStoreImpl) RecordLocationScores(analysisID int64, records []schema.ScoredRecord) error {
	if as.backend == schema.NoneBackend || as.db == nil || len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (analysis_id, location, month, record_date, overall_score, tier, rating, location_rank, category_scores)
		VALUES (%s)
	`, quoteTableName(locationScoresTable, as.backend), placeholders(as.backend, 9))

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare location score insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		categories, err := json.Marshal(r.CategoryScores)
		if err != nil {
			return fmt.Errorf("failed to marshal category scores of %s: %w", r.Location, err)
		}
		if _, err := stmt.Exec(analysisID, r.Location, r.Month, formatTime(r.Date, as.backend),
			r.OverallScore, string(r.Tier), r.Rating, r.Rank, string(categories)); err != nil {
			return fmt.Errorf("failed to insert score of %s in %s: %w", r.Location, r.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit location scores: %w", err)
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
		lastRunQuery := fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable)
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runsTable)

		switch as.backend {
		case schema.SQLiteBackend:
			var lastRunTimeStr, oldestRunTimeStr string
			if err := as.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			if err := as.db.QueryRow(oldestRunQuery).Scan(&oldestRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			var err error
			if status.LastRunTime, err = parseTime(lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			if status.OldestRunTime, err = parseTime(oldestRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := as.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			if err := as.db.QueryRow(oldestRunQuery).Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}
	}

	for _, table := range []string{analysisRunsTable, locationScoresTable} {
		var count int64
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalLocationScores = int(status.TableSizes[locationScoresTable])

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, start_time, end_time, run_duration_ms, locations_total, generation, source, config_params
		FROM %s ORDER BY analysis_id`, quoteTableName(analysisRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord

		switch as.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.AnalysisID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.LocationsTotal, &record.Generation, &record.Source, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.AnalysisID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.LocationsTotal, &record.Generation, &record.Source, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllLocationScores retrieves all stored location scores.
func (as *AnalysisStoreImpl) GetAllLocationScores() ([]schema.LocationScoreRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, location, month, record_date, overall_score, tier, rating, location_rank, category_scores
		FROM %s ORDER BY analysis_id, month, location_rank`, quoteTableName(locationScoresTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query location scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LocationScoreRecord
	for rows.Next() {
		var record schema.LocationScoreRecord

		switch as.backend {
		case schema.SQLiteBackend:
			var recordDateStr string
			if err := rows.Scan(&record.AnalysisID, &record.Location, &record.Month, &recordDateStr, &record.OverallScore,
				&record.Tier, &record.Rating, &record.Rank, &record.CategoryScores); err != nil {
				return nil, fmt.Errorf("failed to scan location score: %w", err)
			}
			if record.RecordDate, err = parseTime(recordDateStr); err != nil {
				return nil, fmt.Errorf("failed to parse record_date: %w", err)
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.AnalysisID, &record.Location, &record.Month, &record.RecordDate, &record.OverallScore,
				&record.Tier, &record.Rating, &record.Rank, &record.CategoryScores); err != nil {
				return nil, fmt.Errorf("failed to scan location score: %w", err)
			}
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location scores: %w", err)
	}
	return results, nil
}
