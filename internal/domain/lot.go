package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLot is an open (partially unconsumed) purchase in a FIFO queue.
// RemainingAmount only ever decreases; a lot at zero is retired and must
// never be matched again.
type PurchaseLot struct {
	PurchaseDate    time.Time
	UnitCost        decimal.Decimal
	OriginalAmount  decimal.Decimal
	RemainingAmount decimal.Decimal
}

// NewPurchaseLot opens a lot from a purchase transaction.
func NewPurchaseLot(t *Transaction) *PurchaseLot {
	return &PurchaseLot{
		PurchaseDate:    t.Date,
		UnitCost:        t.UnitPrice,
		OriginalAmount:  t.Amount,
		RemainingAmount: t.Amount,
	}
}

// Consume draws down up to amount from the lot and returns the quantity
// actually taken, min(amount, remaining).
func (l *PurchaseLot) Consume(amount decimal.Decimal) decimal.Decimal {
	taken := decimal.Min(amount, l.RemainingAmount)
	l.RemainingAmount = l.RemainingAmount.Sub(taken)
	return taken
}

// Exhausted reports whether the lot has been fully consumed.
func (l *PurchaseLot) Exhausted() bool {
	return !l.RemainingAmount.IsPositive()
}

// HoldingDays returns the whole days between purchase and disposal, rounded
// up. The absolute difference is used, so the result is order-independent.
func (l *PurchaseLot) HoldingDays(at time.Time) int {
	return DaysBetween(l.PurchaseDate, at)
}

// DaysBetween returns the whole days between two instants, rounded up, using
// the absolute difference.
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}
