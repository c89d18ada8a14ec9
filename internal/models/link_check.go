package models

import "time"

// LinkCheckResult is the probe outcome for one page URL
type LinkCheckResult struct {
	Page       string    `json:"page"`
	URL        string    `json:"url"`
	Local      bool      `json:"local"`
	Reachable  bool      `json:"reachable"`
	StatusCode int       `json:"status_code,omitempty"`
	FinalURL   string    `json:"final_url,omitempty"`
	Title      string    `json:"title,omitempty"`
	WebServer  string    `json:"webserver,omitempty"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}
