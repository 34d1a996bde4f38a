// Package export renders transaction histories and tax reports as CSV
// for download and offline archiving.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cryptobud/cryptobud/internal/domain"
)

const dateLayout = time.RFC3339

var transactionHeader = []string{
	"date", "kind", "asset", "amount", "unit_price", "value",
	"fee_amount", "fee_asset", "venue", "notes",
}

// WriteTransactions renders transactions as CSV in the order given.
func WriteTransactions(w io.Writer, transactions []domain.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range transactions {
		t := &transactions[i]
		row := []string{
			t.Date.Format(dateLayout),
			string(t.Kind),
			t.Asset,
			t.Amount.String(),
			t.UnitPrice.String(),
			t.Value().String(),
			t.FeeAmount.String(),
			t.FeeAsset,
			t.Venue,
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var reportHeader = []string{
	"kind", "asset", "date", "proceeds", "cost_basis",
	"taxable_gain", "exempt_gain", "lots_used",
}

// WriteReport renders a yearly tax report as CSV. Summary totals come first
// as comment-style rows, followed by one row per disposal and transfer.
func WriteReport(w io.Writer, report *domain.YearlyTaxReport) error {
	cw := csv.NewWriter(w)

	summary := [][]string{
		{"year", fmt.Sprintf("%d", report.Year)},
		{"total_taxable_gain", report.TotalTaxableGain.String()},
		{"total_exempt_gain", report.TotalExemptGain.String()},
		{"total_staking_income", report.TotalStakingIncome.String()},
		{"staking_over_threshold", fmt.Sprintf("%t", report.StakingOverThreshold)},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, outcome := range report.Disposals {
		if err := cw.Write(reportRow(&outcome)); err != nil {
			return fmt.Errorf("write disposal: %w", err)
		}
	}
	for _, outcome := range report.Transfers {
		if err := cw.Write(reportRow(&outcome)); err != nil {
			return fmt.Errorf("write transfer: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func reportRow(o *domain.DisposalOutcome) []string {
	return []string{
		string(o.Kind),
		o.Asset,
		o.Date.Format(dateLayout),
		o.Proceeds.String(),
		o.CostBasis.String(),
		o.TaxableGain.String(),
		o.ExemptGain.String(),
		fmt.Sprintf("%d", len(o.LotsUsed)),
	}
}
