package importer

import (
	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/domain"
)

// Stats summarizes a set of canonical transactions for the import preview.
type Stats struct {
	TotalAcquired  decimal.Decimal
	TotalCost      decimal.Decimal
	TotalWithdrawn decimal.Decimal
	Remaining      decimal.Decimal
	AveragePrice   decimal.Decimal
	Count          int
}

// Summarize computes preview statistics over normalized transactions.
func Summarize(transactions []domain.Transaction) Stats {
	stats := Stats{
		TotalAcquired:  decimal.Zero,
		TotalCost:      decimal.Zero,
		TotalWithdrawn: decimal.Zero,
		AveragePrice:   decimal.Zero,
		Count:          len(transactions),
	}

	for i := range transactions {
		tx := &transactions[i]
		switch tx.Kind {
		case domain.KindPurchase:
			stats.TotalAcquired = stats.TotalAcquired.Add(tx.Amount)
			stats.TotalCost = stats.TotalCost.Add(tx.Value())
		case domain.KindWithdrawal:
			stats.TotalWithdrawn = stats.TotalWithdrawn.Add(tx.Amount)
		}
	}

	stats.Remaining = stats.TotalAcquired.Sub(stats.TotalWithdrawn)
	if stats.TotalAcquired.IsPositive() {
		stats.AveragePrice = stats.TotalCost.Div(stats.TotalAcquired)
	}

	return stats
}
