package ports

import (
	"context"
	"encoding/json"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// SubmissionInput is a weekly or monthly submission from the extension.
type SubmissionInput struct {
	UserEmail string
	UserName  string
	Data      json.RawMessage
}

// ReportBundle groups both report kinds the way clients consume them.
type ReportBundle struct {
	Weekly  []domain.Report
	Monthly []domain.Report
}

type ReportService interface {
	SubmitWeekly(ctx context.Context, in SubmissionInput) error
	SubmitMonthly(ctx context.Context, in SubmissionInput) error
	MyReports(ctx context.Context, email string) (ReportBundle, error)
	AllReports(ctx context.Context) (ReportBundle, error)
}
