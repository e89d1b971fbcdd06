package domain

import (
	"encoding/json"
	"time"
)

// ReportKind distinguishes the two submission tables.
type ReportKind string

const (
	ReportWeekly  ReportKind = "weekly"
	ReportMonthly ReportKind = "monthly"
)

// Report is a single submitted check-in or monthly report row. Data is the
// client-supplied payload, stored opaquely as JSON.
type Report struct {
	ID          int64           `json:"id"`
	Kind        ReportKind      `json:"-"`
	UserEmail   string          `json:"user_email"`
	UserName    string          `json:"user_name"`
	Data        json.RawMessage `json:"data"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
