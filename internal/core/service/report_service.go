package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chismoso/checkin-api/internal/api/metrics"
	"github.com/chismoso/checkin-api/internal/core/domain"
	"github.com/chismoso/checkin-api/internal/core/ports"
)

const myReportsLimit = 100

// ReportService stores weekly check-ins and monthly reports and notifies
// the admin recipient when a monthly report lands. The dedup checker and
// notifier are optional; a nil value disables the corresponding behaviour.
type ReportService struct {
	repo      ports.ReportRepository
	dedup     ports.DedupChecker
	notifier  ports.Notifier
	recipient string
	log       zerolog.Logger
}

func NewReportService(repo ports.ReportRepository, dedup ports.DedupChecker, notifier ports.Notifier, recipient string, log zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, dedup: dedup, notifier: notifier, recipient: recipient, log: log}
}

func (s *ReportService) SubmitWeekly(ctx context.Context, in ports.SubmissionInput) error {
	_, err := s.submit(ctx, domain.ReportWeekly, in)
	return err
}

func (s *ReportService) SubmitMonthly(ctx context.Context, in ports.SubmissionInput) error {
	report, err := s.submit(ctx, domain.ReportMonthly, in)
	if err != nil || report == nil {
		return err
	}

	if s.notifier != nil && s.recipient != "" {
		n := ports.Notification{
			To:      s.recipient,
			Subject: fmt.Sprintf("Monthly Report: %s", in.UserName),
			HTML:    monthlyReportHTML(in),
		}
		// Delivery failures must not fail the submission.
		if err := s.notifier.Send(ctx, n); err != nil {
			metrics.NotificationsTotal.WithLabelValues("failure").Inc()
			s.log.Warn().Err(err).Str("user_email", in.UserEmail).Msg("monthly report notification failed")
		} else {
			metrics.NotificationsTotal.WithLabelValues("success").Inc()
		}
	}
	return nil
}

// submit persists one report row. Duplicate submissions (identical sender
// and payload within the dedup window) are acknowledged without a second
// insert; nil report means a dedup hit.
func (s *ReportService) submit(ctx context.Context, kind domain.ReportKind, in ports.SubmissionInput) (*domain.Report, error) {
	key := submissionKey(kind, in)

	if s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("dedup check failed, storing anyway")
		} else if isDup {
			metrics.ReportsDedupTotal.WithLabelValues("hit").Inc()
			return nil, nil
		} else {
			metrics.ReportsDedupTotal.WithLabelValues("miss").Inc()
		}
	}

	report, err := s.repo.Insert(ctx, &domain.Report{
		Kind:      kind,
		UserEmail: in.UserEmail,
		UserName:  in.UserName,
		Data:      in.Data,
	})
	if err != nil {
		return nil, err
	}
	metrics.ReportsSubmittedTotal.WithLabelValues(string(kind)).Inc()

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("dedup mark failed")
		}
	}
	return report, nil
}

func (s *ReportService) MyReports(ctx context.Context, email string) (ports.ReportBundle, error) {
	weekly, err := s.repo.ListByEmail(ctx, domain.ReportWeekly, email, myReportsLimit)
	if err != nil {
		return ports.ReportBundle{}, err
	}
	monthly, err := s.repo.ListByEmail(ctx, domain.ReportMonthly, email, myReportsLimit)
	if err != nil {
		return ports.ReportBundle{}, err
	}
	return ports.ReportBundle{Weekly: weekly, Monthly: monthly}, nil
}

func (s *ReportService) AllReports(ctx context.Context) (ports.ReportBundle, error) {
	weekly, err := s.repo.ListAll(ctx, domain.ReportWeekly)
	if err != nil {
		return ports.ReportBundle{}, err
	}
	monthly, err := s.repo.ListAll(ctx, domain.ReportMonthly)
	if err != nil {
		return ports.ReportBundle{}, err
	}
	return ports.ReportBundle{Weekly: weekly, Monthly: monthly}, nil
}

func submissionKey(kind domain.ReportKind, in ports.SubmissionInput) string {
	sum := sha256.Sum256(append([]byte(string(kind)+":"+domain.NormalizeEmail(in.UserEmail)+":"), in.Data...))
	return hex.EncodeToString(sum[:])
}

// monthlyReportHTML renders the notification body: the headline fields the
// admin scans first, then the full payload.
func monthlyReportHTML(in ports.SubmissionInput) string {
	var payload struct {
		MonthName         string `json:"monthName"`
		ExecutiveSnapshot struct {
			Team           string `json:"team"`
			BusinessImpact string `json:"businessImpact"`
		} `json:"executiveSnapshot"`
	}
	_ = json.Unmarshal(in.Data, &payload)

	pretty := in.Data
	var buf map[string]any
	if err := json.Unmarshal(in.Data, &buf); err == nil {
		if b, err := json.MarshalIndent(buf, "", "  "); err == nil {
			pretty = b
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New Monthly Report from %s</h2>", html.EscapeString(in.UserName))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(in.UserEmail))
	fmt.Fprintf(&b, "<p><strong>Month:</strong> %s</p>", html.EscapeString(orNA(payload.MonthName)))
	b.WriteString("<hr><h3>Executive Snapshot</h3>")
	fmt.Fprintf(&b, "<p><strong>Team:</strong> %s</p>", html.EscapeString(orNA(payload.ExecutiveSnapshot.Team)))
	fmt.Fprintf(&b, "<p><strong>Business Impact:</strong> %s</p>", html.EscapeString(orNA(payload.ExecutiveSnapshot.BusinessImpact)))
	fmt.Fprintf(&b, "<hr><pre>%s</pre>", html.EscapeString(string(pretty)))
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
