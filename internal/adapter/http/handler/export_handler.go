package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cryptobud/cryptobud/internal/adapter/http/middleware"
	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/export"
)

// ExportService defines the behavior needed by ExportHandler.
type ExportService interface {
	AllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// ExportHandler serves CSV downloads of transactions and reports.
type ExportHandler struct {
	transactionUC ExportService
	reportUC      ReportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(transactionUC ExportService, reportUC ReportService) *ExportHandler {
	return &ExportHandler{
		transactionUC: transactionUC,
		reportUC:      reportUC,
	}
}

// Transactions streams the user's full history as CSV.
func (h *ExportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	transactions, err := h.transactionUC.AllTransactions(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load transactions", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := export.WriteTransactions(w, transactions); err != nil {
		// Headers are already sent; nothing useful left to report.
		return
	}
}

// Report streams the tax report for the requested year as CSV.
func (h *ExportHandler) Report(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%d.csv"`, year))
	if err := export.WriteReport(w, report); err != nil {
		return
	}
}
