package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chismoso/checkin-api/internal/core/domain"
	"github.com/chismoso/checkin-api/internal/core/ports"
)

// ReportHandler handles check-in and monthly report submissions and reads.
type ReportHandler struct {
	reportService ports.ReportService
}

func NewReportHandler(reportService ports.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SubmitWeekly stores a weekly check-in.
//
// @Summary      Submit a weekly check-in
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body      submissionRequest  true  "Submission"
// @Success      200   {object}  submissionResponse
// @Failure      400   {object}  errorResponse
// @Router       /checkins/weekly [post]
func (h *ReportHandler) SubmitWeekly(c echo.Context) error {
	return h.submit(c, h.reportService.SubmitWeekly)
}

// SubmitMonthly stores a monthly report and notifies the admin recipient.
//
// @Summary      Submit a monthly report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body      submissionRequest  true  "Submission"
// @Success      200   {object}  submissionResponse
// @Failure      400   {object}  errorResponse
// @Router       /reports/monthly [post]
func (h *ReportHandler) SubmitMonthly(c echo.Context) error {
	return h.submit(c, h.reportService.SubmitMonthly)
}

func (h *ReportHandler) submit(c echo.Context, store func(ctx context.Context, in ports.SubmissionInput) error) error {
	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := store(c.Request().Context(), ports.SubmissionInput{
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
		Data:      req.Data,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, submissionResponse{Success: true})
}

// Mine returns the caller's own submissions, newest first.
//
// @Summary      Own submissions
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reportsResponse
// @Failure      401  {object}  errorResponse
// @Router       /reports/mine [get]
func (h *ReportHandler) Mine(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	bundle, err := h.reportService.MyReports(c.Request().Context(), subject.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reportsResponse{
		WeeklyCheckins: mergeReports(bundle.Weekly),
		MonthlyReports: mergeReports(bundle.Monthly),
	})
}

// All returns every submission across the team.
//
// @Summary      All submissions
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reportsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /reports [get]
func (h *ReportHandler) All(c echo.Context) error {
	bundle, err := h.reportService.AllReports(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reportsResponse{
		WeeklyCheckins: mergeReports(bundle.Weekly),
		MonthlyReports: mergeReports(bundle.Monthly),
	})
}

// mergeReports flattens each row's stored payload into the response item
// and overlays the server-side fields. The payload's own id, if any,
// survives as clientId while id and serverId always mean the row id;
// submitted marks the row as having reached the server.
func mergeReports(rows []domain.Report) []map[string]any {
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		item := map[string]any{}
		if len(row.Data) > 0 {
			_ = json.Unmarshal(row.Data, &item)
		}

		var clientID any
		if v, ok := item["id"]; ok {
			clientID = v
		}

		item["id"] = row.ID
		item["serverId"] = row.ID
		item["clientId"] = clientID
		item["userEmail"] = row.UserEmail
		item["userName"] = row.UserName
		item["submittedAt"] = row.SubmittedAt
		item["submitted"] = true
		items = append(items, item)
	}
	return items
}
