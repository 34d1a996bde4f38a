package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/domain"
)

type exportServiceStub struct {
	allFn func(ctx context.Context, userID string) ([]domain.Transaction, error)
}

func (s *exportServiceStub) AllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.allFn(ctx, userID)
}

func TestExportHandler_Transactions(t *testing.T) {
	handler := NewExportHandler(&exportServiceStub{
		allFn: func(ctx context.Context, userID string) ([]domain.Transaction, error) {
			return []domain.Transaction{
				{
					Date:      time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
					Asset:     "BTC",
					Amount:    decimal.NewFromInt(1),
					UnitPrice: decimal.NewFromInt(20000),
					Kind:      domain.KindPurchase,
					Venue:     "21bitcoin",
				},
			}, nil
		},
	}, &reportServiceStub{})

	req := withUser(httptest.NewRequest(http.MethodGet, "/export/transactions.csv", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Transactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions.csv") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "date,kind,asset") {
		t.Fatalf("expected CSV header, got:\n%s", body)
	}
	if !strings.Contains(body, "BTC") || !strings.Contains(body, "purchase") {
		t.Fatalf("expected transaction row, got:\n%s", body)
	}
}

func TestExportHandler_Report(t *testing.T) {
	var capturedYear int
	handler := NewExportHandler(&exportServiceStub{}, &reportServiceStub{
		yearlyFn: func(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error) {
			capturedYear = year
			return &domain.YearlyTaxReport{
				Year:             year,
				TotalTaxableGain: decimal.NewFromInt(5000),
				TotalExemptGain:  decimal.NewFromInt(20000),
			}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/export/report.csv?year=2024", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Report(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedYear != 2024 {
		t.Fatalf("expected year 2024, got %d", capturedYear)
	}
	if !strings.Contains(rec.Body.String(), "total_taxable_gain,5000") {
		t.Fatalf("expected summary row, got:\n%s", rec.Body.String())
	}
}
