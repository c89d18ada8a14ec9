package datastore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryDB(t *testing.T) *HistoryDB {
	t.Helper()
	db, err := NewHistoryDB(filepath.Join(t.TempDir(), "history", "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleSummary(runID string, start time.Time, statuses ...models.PageStatus) *models.RunSummary {
	s := models.NewRunSummary(runID, "tough_canvas_cases", len(statuses), start)
	pages := []string{"geo_apis", "runway", "hakim", "canvas_lines"}
	for i, st := range statuses {
		r := models.PageResult{
			RunID:     runID,
			Page:      pages[i%len(pages)],
			URL:       "http://example.com/" + pages[i%len(pages)],
			Status:    st,
			StartedAt: start.Add(time.Duration(i) * time.Second),
			Duration:  6 * time.Second,
		}
		if st == models.PageStatusFailed {
			r.ErrorKind = models.ErrorKindNavigationTimeout
			r.Error = "readiness never signalled"
		}
		s.Add(r)
	}
	s.Finish(start.Add(time.Minute), false)
	return s
}

// recordSummary stores a run the way the CLI does: start, each page, completion.
func recordSummary(t *testing.T, db *HistoryDB, s *models.RunSummary) {
	t.Helper()
	ctx := context.Background()
	_, err := db.RecordRunStart(ctx, s.RunID, s.Catalog, s.Total, s.StartedAt)
	require.NoError(t, err)
	for _, r := range s.Results {
		require.NoError(t, db.RecordPageResult(ctx, r))
	}
	require.NoError(t, db.UpdateRunCompletion(ctx, s))
}

func TestHistoryDB_RunLifecycle(t *testing.T) {
	db := newTestHistoryDB(t)
	ctx := context.Background()
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := db.RecordRunStart(ctx, "run-1", "tough_canvas_cases", 2, start)
	require.NoError(t, err)
	assert.Positive(t, id)

	summary := sampleSummary("run-1", start, models.PageStatusPassed, models.PageStatusFailed)
	for _, r := range summary.Results {
		require.NoError(t, db.RecordPageResult(ctx, r))
	}
	summary.ResultsPath = "database/results/run-1.parquet"
	require.NoError(t, db.UpdateRunCompletion(ctx, summary))

	entry, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, string(models.RunStatusFailed), entry.Status)
	assert.Equal(t, 1, entry.Passed)
	assert.Equal(t, 1, entry.Failed)
	assert.True(t, entry.FinishedAt.Valid)
	assert.True(t, entry.StartedAt.Equal(start))
	assert.Equal(t, "database/results/run-1.parquet", entry.ResultsPath.String)

	pages, err := db.PageResults(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "geo_apis", pages[0].Page)
	assert.Equal(t, models.PageStatusPassed, pages[0].Status)
	assert.Empty(t, pages[0].ErrorKind)
	assert.Equal(t, "runway", pages[1].Page)
	assert.Equal(t, models.PageStatusFailed, pages[1].Status)
	assert.Equal(t, models.ErrorKindNavigationTimeout, pages[1].ErrorKind)
	assert.Equal(t, 6*time.Second, pages[1].Duration)
	assert.True(t, pages[1].StartedAt.Equal(start.Add(time.Second)))
}

func TestHistoryDB_InterruptedRunKeepsPages(t *testing.T) {
	db := newTestHistoryDB(t)
	ctx := context.Background()
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	summary := sampleSummary("run-crash", start, models.PageStatusPassed)

	_, err := db.RecordRunStart(ctx, "run-crash", summary.Catalog, 4, start)
	require.NoError(t, err)
	require.NoError(t, db.RecordPageResult(ctx, summary.Results[0]))

	entry, err := db.GetRun(ctx, "run-crash")
	require.NoError(t, err)
	assert.Equal(t, string(models.RunStatusStarted), entry.Status)
	assert.False(t, entry.FinishedAt.Valid)

	pages, err := db.PageResults(ctx, "run-crash")
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestHistoryDB_UpdateUnknownRun(t *testing.T) {
	db := newTestHistoryDB(t)

	err := db.UpdateRunCompletion(context.Background(), sampleSummary("missing", time.Now()))
	assert.True(t, IsNotFound(err))

	_, err = db.GetRun(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestHistoryDB_RecentRunsAndFailures(t *testing.T) {
	db := newTestHistoryDB(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	recordSummary(t, db, sampleSummary("run-a", base, models.PageStatusPassed, models.PageStatusFailed))
	recordSummary(t, db, sampleSummary("run-b", base.Add(time.Hour), models.PageStatusPassed, models.PageStatusFailed))
	recordSummary(t, db, sampleSummary("run-c", base.Add(2*time.Hour), models.PageStatusPassed, models.PageStatusPassed))

	runs, err := db.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].RunID)
	assert.Equal(t, "run-b", runs[1].RunID)

	counts, err := db.PageFailureCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, PageFailureCount{Page: "runway", Failures: 2, Runs: 3}, counts[0])
	assert.Equal(t, PageFailureCount{Page: "geo_apis", Failures: 0, Runs: 3}, counts[1])
}

func TestHistoryDB_RecordRunStartDuplicate(t *testing.T) {
	db := newTestHistoryDB(t)
	ctx := context.Background()
	start := time.Now()

	_, err := db.RecordRunStart(ctx, "dup", "tough_canvas_cases", 1, start)
	require.NoError(t, err)
	_, err = db.RecordRunStart(ctx, "dup", "tough_canvas_cases", 1, start)
	assert.Error(t, err)

	runs, err := db.RecentRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
