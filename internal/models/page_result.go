package models

import "time"

// PageStatus is the outcome of one page in a run
type PageStatus string

const (
	PageStatusPassed  PageStatus = "passed"
	PageStatusFailed  PageStatus = "failed"
	PageStatusSkipped PageStatus = "skipped"
)

// Error kinds recorded against failed pages
const (
	ErrorKindNavigationTimeout = "navigation_timeout"
	ErrorKindNavigation        = "navigation"
	ErrorKindInteraction       = "interaction"
	ErrorKindPageTimeout       = "page_timeout"
	ErrorKindCancelled         = "cancelled"
)

// PageResult is what a run recorded for one page
type PageResult struct {
	RunID       string        `json:"run_id"`
	Page        string        `json:"page"`
	URL         string        `json:"url"`
	Status      PageStatus    `json:"status"`
	ErrorKind   string        `json:"error_kind,omitempty"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Label       string        `json:"label,omitempty"`
	Held        time.Duration `json:"held"`
	NavigatedIn time.Duration `json:"navigated_in"`

	// Frame statistics, present when the driver reports them
	Frames         int           `json:"frames,omitempty"`
	MeasuredWindow time.Duration `json:"measured_window,omitempty"`

	// Host usage sampled when the page finished
	CPUUsagePercent      float64 `json:"cpu_usage_percent,omitempty"`
	SystemMemUsedPercent float64 `json:"system_mem_used_percent,omitempty"`
	HostContended        bool    `json:"host_contended,omitempty"`
}

// FPS is the frame rate observed over the measured window
func (r PageResult) FPS() float64 {
	if r.MeasuredWindow <= 0 {
		return 0
	}
	return float64(r.Frames) / r.MeasuredWindow.Seconds()
}
