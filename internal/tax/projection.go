package tax

import (
	"sort"
	"time"

	"github.com/cryptobud/cryptobud/internal/domain"
)

// ProjectUpcomingExemptions computes, for every purchase lot still open as of
// asOf, the date it crosses the holding-period threshold, and returns the
// lots whose threshold falls within the following holding period. The reply
// is sorted ascending by that date.
//
// The projection replays a disposable copy of the lot queues; it never
// touches state shared with ComputeYearlyReport.
func ProjectUpcomingExemptions(transactions []domain.Transaction, asOf time.Time) ([]domain.Exemption, error) {
	ordered, err := sortedByDate(transactions)
	if err != nil {
		return nil, err
	}

	queues := make(map[string][]*domain.PurchaseLot)

	for i := range ordered {
		tx := &ordered[i]
		if tx.Date.After(asOf) {
			break
		}

		switch {
		case tx.Kind == domain.KindPurchase:
			queues[tx.Asset] = append(queues[tx.Asset], domain.NewPurchaseLot(tx))
		case tx.Kind.Disposes():
			if _, err := matchDisposal(queues, tx); err != nil {
				return nil, err
			}
		}
	}

	horizon := asOf.AddDate(0, 0, domain.HoldingPeriodDays)

	var upcoming []domain.Exemption
	for asset, queue := range queues {
		for _, lot := range queue {
			exemptFrom := lot.PurchaseDate.AddDate(0, 0, domain.HoldingPeriodDays)
			if !exemptFrom.After(asOf) || exemptFrom.After(horizon) {
				continue
			}
			upcoming = append(upcoming, domain.Exemption{
				Asset:           asset,
				PurchaseDate:    lot.PurchaseDate,
				ExemptFrom:      exemptFrom,
				RemainingAmount: lot.RemainingAmount,
				DaysRemaining:   domain.DaysBetween(asOf, exemptFrom),
			})
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ExemptFrom.Before(upcoming[j].ExemptFrom)
	})

	return upcoming, nil
}
