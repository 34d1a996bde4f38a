package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cryptobud/cryptobud/internal/adapter/http/dto"
	"github.com/cryptobud/cryptobud/internal/adapter/http/middleware"
	"github.com/cryptobud/cryptobud/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	YearlyReport(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error)
	UpcomingExemptions(ctx context.Context, userID string, asOf time.Time) ([]domain.Exemption, error)
}

// ReportHandler handles tax report HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Yearly computes the tax report for the requested year.
func (h *ReportHandler) Yearly(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	year := parseIntQuery(r, "year", time.Now().Year())

	report, err := h.reportUC.YearlyReport(r.Context(), user.ID, year)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
}

// Upcoming lists lots that become tax exempt within the next year.
func (h *ReportHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	exemptions, err := h.reportUC.UpcomingExemptions(r.Context(), user.ID, time.Now())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to project exemptions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExemptionsFromDomain(exemptions))
}
