package datastore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// HistoryDB stores run history and per-page outcomes in SQLite
type HistoryDB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// RunHistoryEntry represents a record in the run_history table
type RunHistoryEntry struct {
	ID          int64
	RunID       string
	Catalog     string
	StartedAt   time.Time
	FinishedAt  sql.NullTime
	Status      string
	NumPages    int
	Passed      int
	Failed      int
	Skipped     int
	ResultsPath sql.NullString
}

// PageFailureCount is how often a page failed across recorded runs
type PageFailureCount struct {
	Page     string
	Failures int
	Runs     int
}

// NewHistoryDB opens (creating if needed) the history database at path
func NewHistoryDB(path string, logger zerolog.Logger) (*HistoryDB, error) {
	logger = logger.With().Str("component", "HistoryDB").Logger()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, common.WrapErrorf(err, "failed to create history database directory %s", dir)
		}
	}

	dbInstance, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapErrorf(err, "sql.Open failed for %s", path)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY
	dbInstance.SetMaxOpenConns(1)

	h := &HistoryDB{db: dbInstance, logger: logger}
	if err := h.InitSchema(context.Background()); err != nil {
		_ = h.Close()
		return nil, common.WrapError(err, "failed to initialize schema")
	}

	logger.Debug().Str("path", path).Msg("History database ready")
	return h, nil
}

// Close closes the database connection
func (h *HistoryDB) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// InitSchema creates the run_history and page_history tables if missing
func (h *HistoryDB) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS run_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT UNIQUE NOT NULL,
			catalog TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			status TEXT NOT NULL,
			num_pages INTEGER NOT NULL,
			passed INTEGER DEFAULT 0,
			failed INTEGER DEFAULT 0,
			skipped INTEGER DEFAULT 0,
			results_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS page_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES run_history(run_id),
			page TEXT NOT NULL,
			url TEXT NOT NULL,
			status TEXT NOT NULL,
			error_kind TEXT,
			error TEXT,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			frames INTEGER DEFAULT 0,
			measured_ms INTEGER DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_page_history_page ON page_history(page)`,
	}

	for _, stmt := range statements {
		if _, err := h.db.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(err, "failed to create history tables")
		}
	}
	return nil
}

// RecordRunStart inserts a run with status STARTED and returns its row ID
func (h *HistoryDB) RecordRunStart(ctx context.Context, runID, catalog string, numPages int, startedAt time.Time) (int64, error) {
	query := `INSERT INTO run_history (run_id, catalog, num_pages, started_at, status) VALUES (?, ?, ?, ?, ?)`
	result, err := h.db.ExecContext(ctx, query, runID, catalog, numPages, startedAt.UTC(), string(models.RunStatusStarted))
	if err != nil {
		return 0, common.WrapError(err, "failed to insert run start record")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, common.WrapError(err, "failed to get last insert ID")
	}
	h.logger.Debug().Int64("db_id", id).Str("run_id", runID).Msg("Recorded run start")
	return id, nil
}

// RecordPageResult appends one page outcome to page_history
func (h *HistoryDB) RecordPageResult(ctx context.Context, r models.PageResult) error {
	query := `INSERT INTO page_history (run_id, page, url, status, error_kind, error, started_at, duration_ms, frames, measured_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := h.db.ExecContext(ctx, query,
		r.RunID, r.Page, r.URL, string(r.Status),
		nullString(r.ErrorKind), nullString(r.Error),
		r.StartedAt.UTC(), r.Duration.Milliseconds(),
		r.Frames, r.MeasuredWindow.Milliseconds(),
	)
	if err != nil {
		return common.WrapErrorf(err, "failed to record result for page %s", r.Page)
	}
	return nil
}

// UpdateRunCompletion stores the final counts and status of a run
func (h *HistoryDB) UpdateRunCompletion(ctx context.Context, s *models.RunSummary) error {
	query := `UPDATE run_history SET finished_at = ?, status = ?, passed = ?, failed = ?, skipped = ?, results_path = ? WHERE run_id = ?`
	res, err := h.db.ExecContext(ctx, query,
		s.FinishedAt.UTC(), string(s.Status), s.Passed, s.Failed, s.Skipped,
		nullString(s.ResultsPath), s.RunID,
	)
	if err != nil {
		return common.WrapErrorf(err, "failed to update run completion for %s", s.RunID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.WrapErrorf(common.ErrNotFound, "run %s", s.RunID)
	}
	h.logger.Debug().Str("run_id", s.RunID).Str("status", string(s.Status)).Msg("Updated run completion")
	return nil
}

// RecentRuns returns up to limit runs, newest first
func (h *HistoryDB) RecentRuns(ctx context.Context, limit int) ([]RunHistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, run_id, catalog, started_at, finished_at, status, num_pages, passed, failed, skipped, results_path
		FROM run_history ORDER BY started_at DESC, id DESC LIMIT ?`
	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, common.WrapError(err, "failed to query recent runs")
	}
	defer rows.Close()

	var entries []RunHistoryEntry
	for rows.Next() {
		var e RunHistoryEntry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Catalog, &e.StartedAt, &e.FinishedAt, &e.Status,
			&e.NumPages, &e.Passed, &e.Failed, &e.Skipped, &e.ResultsPath); err != nil {
			return nil, common.WrapError(err, "failed to scan run row")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetRun returns a single run by run ID
func (h *HistoryDB) GetRun(ctx context.Context, runID string) (*RunHistoryEntry, error) {
	query := `SELECT id, run_id, catalog, started_at, finished_at, status, num_pages, passed, failed, skipped, results_path
		FROM run_history WHERE run_id = ?`

	var e RunHistoryEntry
	err := h.db.QueryRowContext(ctx, query, runID).Scan(&e.ID, &e.RunID, &e.Catalog, &e.StartedAt, &e.FinishedAt,
		&e.Status, &e.NumPages, &e.Passed, &e.Failed, &e.Skipped, &e.ResultsPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.WrapErrorf(common.ErrNotFound, "run %s", runID)
		}
		return nil, common.WrapErrorf(err, "failed to query run %s", runID)
	}
	return &e, nil
}

// PageFailureCounts reports per-page failure counts across all recorded runs,
// most failures first
func (h *HistoryDB) PageFailureCounts(ctx context.Context) ([]PageFailureCount, error) {
	query := `SELECT page,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS failures,
			COUNT(*) AS runs
		FROM page_history
		GROUP BY page
		ORDER BY failures DESC, page ASC`
	rows, err := h.db.QueryContext(ctx, query, string(models.PageStatusFailed))
	if err != nil {
		return nil, common.WrapError(err, "failed to query page failures")
	}
	defer rows.Close()

	var counts []PageFailureCount
	for rows.Next() {
		var c PageFailureCount
		if err := rows.Scan(&c.Page, &c.Failures, &c.Runs); err != nil {
			return nil, common.WrapError(err, "failed to scan failure row")
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// PageResults returns the page outcomes recorded for runID in run order.
// Only the columns kept in page_history are filled in.
func (h *HistoryDB) PageResults(ctx context.Context, runID string) ([]models.PageResult, error) {
	query := `SELECT page, url, status, error_kind, error, started_at, duration_ms, frames, measured_ms
		FROM page_history WHERE run_id = ? ORDER BY id ASC`
	rows, err := h.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to query page results for %s", runID)
	}
	defer rows.Close()

	var results []models.PageResult
	for rows.Next() {
		var (
			r                    models.PageResult
			status               string
			errorKind, errorText sql.NullString
			durationMs, measured int64
		)
		if err := rows.Scan(&r.Page, &r.URL, &status, &errorKind, &errorText, &r.StartedAt,
			&durationMs, &r.Frames, &measured); err != nil {
			return nil, common.WrapError(err, "failed to scan page row")
		}
		r.RunID = runID
		r.Status = models.PageStatus(status)
		r.ErrorKind = errorKind.String
		r.Error = errorText.String
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.MeasuredWindow = time.Duration(measured) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
