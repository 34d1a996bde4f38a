package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/adapter/http/dto"
	"github.com/cryptobud/cryptobud/internal/domain"
)

type reportServiceStub struct {
	yearlyFn   func(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error)
	upcomingFn func(ctx context.Context, userID string, asOf time.Time) ([]domain.Exemption, error)
}

func (s *reportServiceStub) YearlyReport(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error) {
	return s.yearlyFn(ctx, userID, year)
}

func (s *reportServiceStub) UpcomingExemptions(ctx context.Context, userID string, asOf time.Time) ([]domain.Exemption, error) {
	return s.upcomingFn(ctx, userID, asOf)
}

func TestReportHandler_Yearly(t *testing.T) {
	report := &domain.YearlyTaxReport{
		Year:             2024,
		TotalTaxableGain: decimal.NewFromInt(5000),
		TotalExemptGain:  decimal.NewFromInt(20000),
		Disposals: []domain.DisposalOutcome{
			{
				Kind:        domain.KindDisposal,
				Asset:       "BTC",
				Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				Proceeds:    decimal.NewFromInt(60000),
				CostBasis:   decimal.NewFromInt(35000),
				TaxableGain: decimal.NewFromInt(5000),
				ExemptGain:  decimal.NewFromInt(20000),
			},
		},
	}

	var capturedUser string
	var capturedYear int
	handler := NewReportHandler(&reportServiceStub{
		yearlyFn: func(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error) {
			capturedUser, capturedYear = userID, year
			return report, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/report?year=2024", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Yearly(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedUser != "user-1" || capturedYear != 2024 {
		t.Fatalf("expected report for user-1/2024, got %s/%d", capturedUser, capturedYear)
	}

	var resp dto.ReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.TotalTaxableGain.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected taxable gain 5000, got %s", resp.TotalTaxableGain)
	}
	if len(resp.Disposals) != 1 {
		t.Fatalf("expected 1 disposal, got %d", len(resp.Disposals))
	}
}

func TestReportHandler_Yearly_DefaultsToCurrentYear(t *testing.T) {
	var capturedYear int
	handler := NewReportHandler(&reportServiceStub{
		yearlyFn: func(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error) {
			capturedYear = year
			return &domain.YearlyTaxReport{Year: year}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/report", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Yearly(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capturedYear != time.Now().Year() {
		t.Fatalf("expected current year, got %d", capturedYear)
	}
}

func TestReportHandler_Yearly_InsufficientLots(t *testing.T) {
	handler := NewReportHandler(&reportServiceStub{
		yearlyFn: func(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error) {
			return nil, &domain.InsufficientLotsError{
				Asset:     "BTC",
				Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Unmatched: decimal.NewFromInt(3),
			}
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/report?year=2024", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Yearly(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestReportHandler_Upcoming(t *testing.T) {
	exemptFrom := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	handler := NewReportHandler(&reportServiceStub{
		upcomingFn: func(ctx context.Context, userID string, asOf time.Time) ([]domain.Exemption, error) {
			return []domain.Exemption{
				{
					Asset:           "BTC",
					PurchaseDate:    time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
					ExemptFrom:      exemptFrom,
					RemainingAmount: decimal.NewFromFloat(0.5),
					DaysRemaining:   120,
				},
			}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/report/upcoming", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Upcoming(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []dto.ExemptionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].DaysRemaining != 120 {
		t.Fatalf("unexpected exemptions: %+v", resp)
	}
}
