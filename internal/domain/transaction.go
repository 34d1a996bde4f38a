package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a canonical transaction.
type TransactionKind string

const (
	// KindPurchase is an acquisition of the tracked asset.
	KindPurchase TransactionKind = "purchase"

	// KindDisposal is a sale of the tracked asset at a market price.
	KindDisposal TransactionKind = "disposal"

	// KindStakingReward is asset income from staking, valued at receipt.
	KindStakingReward TransactionKind = "staking_reward"

	// KindWithdrawal is a transfer of the asset off the exchange. It carries
	// no proceeds but still depletes the FIFO lot history.
	KindWithdrawal TransactionKind = "withdrawal"
)

var validKinds = map[TransactionKind]bool{
	KindPurchase:      true,
	KindDisposal:      true,
	KindStakingReward: true,
	KindWithdrawal:    true,
}

// IsValid checks if the kind is one of the known transaction kinds.
func (k TransactionKind) IsValid() bool {
	return validKinds[k]
}

// Disposes reports whether the kind consumes purchase lots.
func (k TransactionKind) Disposes() bool {
	return k == KindDisposal || k == KindWithdrawal
}

// Transaction is the canonical record of one asset movement. It is created
// once by a normalizer (or by hand) and never mutated afterwards.
type Transaction struct {
	ID        string
	UserID    string
	Date      time.Time
	Asset     string
	Amount    decimal.Decimal
	UnitPrice decimal.Decimal
	Kind      TransactionKind
	Venue     string
	FeeAmount decimal.Decimal
	FeeAsset  string
	Notes     string
	CreatedAt time.Time
}

// Validate checks the numeric and structural integrity of the transaction.
// It returns a *MalformedTransactionError naming the first offending field.
func (t *Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return &MalformedTransactionError{Field: "kind", Value: string(t.Kind)}
	}
	if t.Asset == "" {
		return &MalformedTransactionError{Field: "asset", Value: ""}
	}
	if t.Date.IsZero() {
		return &MalformedTransactionError{Field: "date", Value: "zero"}
	}
	if !t.Amount.IsPositive() {
		return &MalformedTransactionError{Field: "amount", Value: t.Amount.String()}
	}
	if t.UnitPrice.IsNegative() {
		return &MalformedTransactionError{Field: "unit_price", Value: t.UnitPrice.String()}
	}
	if t.FeeAmount.IsNegative() {
		return &MalformedTransactionError{Field: "fee_amount", Value: t.FeeAmount.String()}
	}
	return nil
}

// Value returns the transaction's worth in the reporting currency.
func (t *Transaction) Value() decimal.Decimal {
	return t.Amount.Mul(t.UnitPrice)
}
