package ports

import (
	"context"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// ReportRepository persists weekly check-ins and monthly reports.
type ReportRepository interface {
	Insert(ctx context.Context, report *domain.Report) (*domain.Report, error)
	// ListByEmail returns the newest rows first, capped at limit.
	ListByEmail(ctx context.Context, kind domain.ReportKind, email string, limit int) ([]domain.Report, error)
	ListAll(ctx context.Context, kind domain.ReportKind) ([]domain.Report, error)
}
