package datastore

import (
	"time"

	"github.com/aleister1102/toughcanvas/internal/models"
)

// ParquetPageResult is the on-disk row for one page of a run.
// Durations are milliseconds and timestamps are Unix milliseconds.
type ParquetPageResult struct {
	RunID                string  `parquet:"run_id"`
	Page                 string  `parquet:"page"`
	URL                  string  `parquet:"url"`
	Status               string  `parquet:"status"`
	ErrorKind            *string `parquet:"error_kind,optional"`
	Error                *string `parquet:"error,optional"`
	StartedAt            int64   `parquet:"started_at"`
	DurationMs           int64   `parquet:"duration_ms"`
	Label                *string `parquet:"label,optional"`
	HeldMs               int64   `parquet:"held_ms"`
	NavigatedInMs        int64   `parquet:"navigated_in_ms"`
	Frames               int32   `parquet:"frames"`
	MeasuredWindowMs     int64   `parquet:"measured_window_ms"`
	CPUUsagePercent      float64 `parquet:"cpu_usage_percent"`
	SystemMemUsedPercent float64 `parquet:"system_mem_used_percent"`
	HostContended        bool    `parquet:"host_contended"`
}

// ToParquetPageResult converts a page result to its Parquet row
func ToParquetPageResult(r models.PageResult) ParquetPageResult {
	return ParquetPageResult{
		RunID:                r.RunID,
		Page:                 r.Page,
		URL:                  r.URL,
		Status:               string(r.Status),
		ErrorKind:            StringPtrOrNil(r.ErrorKind),
		Error:                StringPtrOrNil(r.Error),
		StartedAt:            r.StartedAt.UnixMilli(),
		DurationMs:           r.Duration.Milliseconds(),
		Label:                StringPtrOrNil(r.Label),
		HeldMs:               r.Held.Milliseconds(),
		NavigatedInMs:        r.NavigatedIn.Milliseconds(),
		Frames:               int32(r.Frames),
		MeasuredWindowMs:     r.MeasuredWindow.Milliseconds(),
		CPUUsagePercent:      r.CPUUsagePercent,
		SystemMemUsedPercent: r.SystemMemUsedPercent,
		HostContended:        r.HostContended,
	}
}

// ToPageResult converts a Parquet row back to a page result
func (p ParquetPageResult) ToPageResult() models.PageResult {
	return models.PageResult{
		RunID:                p.RunID,
		Page:                 p.Page,
		URL:                  p.URL,
		Status:               models.PageStatus(p.Status),
		ErrorKind:            StringFromPtr(p.ErrorKind),
		Error:                StringFromPtr(p.Error),
		StartedAt:            time.UnixMilli(p.StartedAt).UTC(),
		Duration:             time.Duration(p.DurationMs) * time.Millisecond,
		Label:                StringFromPtr(p.Label),
		Held:                 time.Duration(p.HeldMs) * time.Millisecond,
		NavigatedIn:          time.Duration(p.NavigatedInMs) * time.Millisecond,
		Frames:               int(p.Frames),
		MeasuredWindow:       time.Duration(p.MeasuredWindowMs) * time.Millisecond,
		CPUUsagePercent:      p.CPUUsagePercent,
		SystemMemUsedPercent: p.SystemMemUsedPercent,
		HostContended:        p.HostContended,
	}
}

// StringPtrOrNil returns nil for the empty string
func StringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringFromPtr returns "" for nil
func StringFromPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
