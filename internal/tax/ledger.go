// Package tax implements the FIFO capital-gains computation over canonical
// transactions. It is pure: no I/O, no shared state, safe to invoke
// concurrently across independent calls.
package tax

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/domain"
)

// ComputeYearlyReport replays all transactions in chronological order and
// aggregates a tax report for the target year. The FIFO lot queues are kept
// consistent across all years, so disposals outside the target year still
// deplete lot history; only outcomes realized in the target year appear in
// the report.
//
// The computation is all-or-nothing: a malformed transaction or a disposal
// exceeding the available lot history fails the whole call.
func ComputeYearlyReport(transactions []domain.Transaction, year int) (*domain.YearlyTaxReport, error) {
	ordered, err := sortedByDate(transactions)
	if err != nil {
		return nil, err
	}

	report := &domain.YearlyTaxReport{
		Year:               year,
		TotalTaxableGain:   decimal.Zero,
		TotalExemptGain:    decimal.Zero,
		TotalStakingIncome: decimal.Zero,
	}

	// One FIFO queue per asset. Lots of different assets must never mix:
	// a disposal of asset B cannot consume purchases of asset A.
	queues := make(map[string][]*domain.PurchaseLot)

	for i := range ordered {
		tx := &ordered[i]

		switch {
		case tx.Kind == domain.KindPurchase:
			queues[tx.Asset] = append(queues[tx.Asset], domain.NewPurchaseLot(tx))

		case tx.Kind.Disposes():
			outcome, err := matchDisposal(queues, tx)
			if err != nil {
				return nil, err
			}
			if tx.Date.Year() != year {
				continue
			}
			if tx.Kind == domain.KindWithdrawal {
				report.Transfers = append(report.Transfers, outcome)
			} else {
				report.Disposals = append(report.Disposals, outcome)
				report.TotalTaxableGain = report.TotalTaxableGain.Add(outcome.TaxableGain)
				report.TotalExemptGain = report.TotalExemptGain.Add(outcome.ExemptGain)
			}

		case tx.Kind == domain.KindStakingReward:
			if tx.Date.Year() == year {
				report.TotalStakingIncome = report.TotalStakingIncome.Add(tx.Value())
			}
		}
	}

	report.StakingOverThreshold = report.TotalStakingIncome.GreaterThan(domain.StakingExemptionThreshold)

	return report, nil
}

// matchDisposal consumes lots from the asset's FIFO queue, oldest first,
// until the disposed amount is fully matched. Gains are classified per
// consumed portion: exempt when the lot was held at least
// domain.HoldingPeriodDays (inclusive), taxable otherwise.
//
// Withdrawals deplete lot history like disposals but are transfers, not
// taxable events: their outcome carries the consumed cost basis and zero
// gain in both classes.
func matchDisposal(queues map[string][]*domain.PurchaseLot, tx *domain.Transaction) (domain.DisposalOutcome, error) {
	outcome := domain.DisposalOutcome{
		Kind:        tx.Kind,
		Asset:       tx.Asset,
		Date:        tx.Date,
		Proceeds:    tx.Value(),
		CostBasis:   decimal.Zero,
		TaxableGain: decimal.Zero,
		ExemptGain:  decimal.Zero,
	}

	queue := queues[tx.Asset]
	remaining := tx.Amount

	for remaining.IsPositive() && len(queue) > 0 {
		lot := queue[0]

		consumed := lot.Consume(remaining)
		remaining = remaining.Sub(consumed)

		holdingDays := lot.HoldingDays(tx.Date)
		cost := consumed.Mul(lot.UnitCost)
		outcome.CostBasis = outcome.CostBasis.Add(cost)

		if tx.Kind == domain.KindDisposal {
			gain := consumed.Mul(tx.UnitPrice.Sub(lot.UnitCost))
			if holdingDays >= domain.HoldingPeriodDays {
				outcome.ExemptGain = outcome.ExemptGain.Add(gain)
			} else {
				outcome.TaxableGain = outcome.TaxableGain.Add(gain)
			}
		}

		outcome.LotsUsed = append(outcome.LotsUsed, domain.LotUsage{
			LotDate:     lot.PurchaseDate,
			Amount:      consumed,
			HoldingDays: holdingDays,
		})

		if lot.Exhausted() {
			queue = queue[1:]
		}
	}

	queues[tx.Asset] = queue

	if remaining.IsPositive() {
		return outcome, &domain.InsufficientLotsError{
			Asset:     tx.Asset,
			Date:      tx.Date,
			Unmatched: remaining,
		}
	}

	return outcome, nil
}

// sortedByDate validates every transaction and returns a copy sorted
// ascending by date. The sort is stable: ties keep input order. The caller's
// slice is never mutated.
func sortedByDate(transactions []domain.Transaction) ([]domain.Transaction, error) {
	for i := range transactions {
		if err := transactions[i].Validate(); err != nil {
			return nil, err
		}
	}

	ordered := make([]domain.Transaction, len(transactions))
	copy(ordered, transactions)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	return ordered, nil
}
