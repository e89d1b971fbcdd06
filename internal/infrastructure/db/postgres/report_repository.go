package postgres

import (
	"context"
	"database/sql"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// ReportRepository persists weekly check-ins and monthly reports in their
// respective tables. The two tables share a shape; the kind selects one.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func tableFor(kind domain.ReportKind) string {
	if kind == domain.ReportMonthly {
		return "monthly_reports"
	}
	return "weekly_checkins"
}

func (r *ReportRepository) Insert(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO `+tableFor(report.Kind)+` (user_email, user_name, data, submitted_at)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING id, user_email, user_name, data, submitted_at`,
		report.UserEmail, report.UserName, []byte(report.Data),
	)
	stored := domain.Report{Kind: report.Kind}
	var data []byte
	if err := row.Scan(&stored.ID, &stored.UserEmail, &stored.UserName, &data, &stored.SubmittedAt); err != nil {
		return nil, storeErr("ReportRepository.Insert", err)
	}
	stored.Data = data
	return &stored, nil
}

func (r *ReportRepository) ListByEmail(ctx context.Context, kind domain.ReportKind, email string, limit int) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, user_name, data, submitted_at
		 FROM `+tableFor(kind)+`
		 WHERE lower(user_email) = lower($1)
		 ORDER BY submitted_at DESC
		 LIMIT $2`,
		email, limit,
	)
	if err != nil {
		return nil, storeErr("ReportRepository.ListByEmail", err)
	}
	return collectReports(kind, rows)
}

func (r *ReportRepository) ListAll(ctx context.Context, kind domain.ReportKind) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, user_name, data, submitted_at
		 FROM `+tableFor(kind)+`
		 ORDER BY submitted_at DESC`,
	)
	if err != nil {
		return nil, storeErr("ReportRepository.ListAll", err)
	}
	return collectReports(kind, rows)
}

func collectReports(kind domain.ReportKind, rows *sql.Rows) ([]domain.Report, error) {
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report := domain.Report{Kind: kind}
		var (
			email, name sql.NullString
			data        []byte
		)
		if err := rows.Scan(&report.ID, &email, &name, &data, &report.SubmittedAt); err != nil {
			return nil, storeErr("ReportRepository.collect", err)
		}
		report.UserEmail = email.String
		report.UserName = name.String
		report.Data = data
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("ReportRepository.collect", err)
	}
	return reports, nil
}
