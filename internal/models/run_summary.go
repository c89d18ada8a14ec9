package models

import "time"

// RunStatus is the overall state of a run
type RunStatus string

const (
	RunStatusStarted   RunStatus = "STARTED"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusCancelled RunStatus = "CANCELLED"
)

// RunSummary aggregates the page results of one run
type RunSummary struct {
	RunID       string       `json:"run_id"`
	Catalog     string       `json:"catalog"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Status      RunStatus    `json:"status"`
	Total       int          `json:"total"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Results     []PageResult `json:"results"`
	ResultsPath string       `json:"results_path,omitempty"`
}

// NewRunSummary starts a summary for a run over total pages
func NewRunSummary(runID, catalog string, total int, startedAt time.Time) *RunSummary {
	return &RunSummary{
		RunID:     runID,
		Catalog:   catalog,
		StartedAt: startedAt,
		Status:    RunStatusStarted,
		Total:     total,
		Results:   make([]PageResult, 0, total),
	}
}

// Add records a page result and updates the counts
func (s *RunSummary) Add(result PageResult) {
	s.Results = append(s.Results, result)
	switch result.Status {
	case PageStatusPassed:
		s.Passed++
	case PageStatusFailed:
		s.Failed++
	case PageStatusSkipped:
		s.Skipped++
	}
}

// Finish stamps the end time and derives the final status
func (s *RunSummary) Finish(finishedAt time.Time, cancelled bool) {
	s.FinishedAt = finishedAt
	switch {
	case cancelled:
		s.Status = RunStatusCancelled
	case s.Failed > 0:
		s.Status = RunStatusFailed
	default:
		s.Status = RunStatusCompleted
	}
}

// Duration is the wall time of the run
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// FailedPages lists the names of pages that failed
func (s *RunSummary) FailedPages() []string {
	var names []string
	for _, r := range s.Results {
		if r.Status == PageStatusFailed {
			names = append(names, r.Page)
		}
	}
	return names
}
