package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/importer"
	"github.com/cryptobud/cryptobud/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID        string          `json:"id,omitempty"`
	Date      time.Time       `json:"date"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Kind      string          `json:"kind"`
	Venue     string          `json:"venue,omitempty"`
	FeeAmount decimal.Decimal `json:"fee_amount"`
	FeeAsset  string          `json:"fee_asset,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		Date:      t.Date,
		Asset:     t.Asset,
		Amount:    t.Amount,
		UnitPrice: t.UnitPrice,
		Kind:      string(t.Kind),
		Venue:     t.Venue,
		FeeAmount: t.FeeAmount,
		FeeAsset:  t.FeeAsset,
		Notes:     t.Notes,
	}
}

// ImportStatsResponse summarizes a previewed import.
type ImportStatsResponse struct {
	TotalAcquired  decimal.Decimal `json:"total_acquired"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	Remaining      decimal.Decimal `json:"remaining"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	Count          int             `json:"count"`
}

// ImportPreviewResponse is the response to an upload before confirmation.
type ImportPreviewResponse struct {
	Venue        string                `json:"venue"`
	Transactions []TransactionResponse `json:"transactions"`
	Stats        ImportStatsResponse   `json:"stats"`
}

// ImportPreviewFromUseCase converts a use case preview to a response.
func ImportPreviewFromUseCase(p *usecase.ImportPreview) ImportPreviewResponse {
	transactions := make([]TransactionResponse, len(p.Transactions))
	for i := range p.Transactions {
		transactions[i] = TransactionFromDomain(&p.Transactions[i])
	}
	return ImportPreviewResponse{
		Venue:        p.Venue,
		Transactions: transactions,
		Stats:        fromImporterStats(p.Stats),
	}
}

func fromImporterStats(s importer.Stats) ImportStatsResponse {
	return ImportStatsResponse{
		TotalAcquired:  s.TotalAcquired,
		TotalCost:      s.TotalCost,
		TotalWithdrawn: s.TotalWithdrawn,
		Remaining:      s.Remaining,
		AveragePrice:   s.AveragePrice,
		Count:          s.Count,
	}
}

// ConfirmImportResponse reports how many transactions were persisted.
type ConfirmImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// TransactionListResponse is a paginated transaction listing.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// LotUsageResponse describes one lot consumed by a disposal.
type LotUsageResponse struct {
	LotDate     time.Time       `json:"lot_date"`
	Amount      decimal.Decimal `json:"amount"`
	HoldingDays int             `json:"holding_days"`
}

// DisposalResponse describes the tax outcome of one disposal.
type DisposalResponse struct {
	Kind        string             `json:"kind"`
	Asset       string             `json:"asset"`
	Date        time.Time          `json:"date"`
	Proceeds    decimal.Decimal    `json:"proceeds"`
	CostBasis   decimal.Decimal    `json:"cost_basis"`
	TaxableGain decimal.Decimal    `json:"taxable_gain"`
	ExemptGain  decimal.Decimal    `json:"exempt_gain"`
	LotsUsed    []LotUsageResponse `json:"lots_used"`
}

// ReportResponse represents a yearly tax report.
type ReportResponse struct {
	Year                 int                `json:"year"`
	TotalTaxableGain     decimal.Decimal    `json:"total_taxable_gain"`
	TotalExemptGain      decimal.Decimal    `json:"total_exempt_gain"`
	TotalStakingIncome   decimal.Decimal    `json:"total_staking_income"`
	StakingOverThreshold bool               `json:"staking_over_threshold"`
	Disposals            []DisposalResponse `json:"disposals"`
	Transfers            []DisposalResponse `json:"transfers"`
}

// ReportFromDomain converts a yearly report to a response.
func ReportFromDomain(r *domain.YearlyTaxReport) ReportResponse {
	return ReportResponse{
		Year:                 r.Year,
		TotalTaxableGain:     r.TotalTaxableGain,
		TotalExemptGain:      r.TotalExemptGain,
		TotalStakingIncome:   r.TotalStakingIncome,
		StakingOverThreshold: r.StakingOverThreshold,
		Disposals:            fromDisposals(r.Disposals),
		Transfers:            fromDisposals(r.Transfers),
	}
}

func fromDisposals(outcomes []domain.DisposalOutcome) []DisposalResponse {
	responses := make([]DisposalResponse, len(outcomes))
	for i, o := range outcomes {
		lots := make([]LotUsageResponse, len(o.LotsUsed))
		for j, l := range o.LotsUsed {
			lots[j] = LotUsageResponse{LotDate: l.LotDate, Amount: l.Amount, HoldingDays: l.HoldingDays}
		}
		responses[i] = DisposalResponse{
			Kind:        string(o.Kind),
			Asset:       o.Asset,
			Date:        o.Date,
			Proceeds:    o.Proceeds,
			CostBasis:   o.CostBasis,
			TaxableGain: o.TaxableGain,
			ExemptGain:  o.ExemptGain,
			LotsUsed:    lots,
		}
	}
	return responses
}

// ExemptionResponse describes a lot approaching tax exemption.
type ExemptionResponse struct {
	Asset           string          `json:"asset"`
	PurchaseDate    time.Time       `json:"purchase_date"`
	ExemptFrom      time.Time       `json:"exempt_from"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DaysRemaining   int             `json:"days_remaining"`
}

// ExemptionsFromDomain converts projected exemptions to responses.
func ExemptionsFromDomain(exemptions []domain.Exemption) []ExemptionResponse {
	responses := make([]ExemptionResponse, len(exemptions))
	for i, e := range exemptions {
		responses[i] = ExemptionResponse{
			Asset:           e.Asset,
			PurchaseDate:    e.PurchaseDate,
			ExemptFrom:      e.ExemptFrom,
			RemainingAmount: e.RemainingAmount,
			DaysRemaining:   e.DaysRemaining,
		}
	}
	return responses
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
