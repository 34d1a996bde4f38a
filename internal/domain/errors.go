package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// Normalizer errors
	ErrUnrecognizedFormat = errors.New("unrecognized export format")
)

// MalformedDateError reports a date string that does not match the source
// format exactly. There are no fallback formats.
type MalformedDateError struct {
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date %q: expected DD.MM.YYYY HH:MM:SS", e.Value)
}

// MalformedTransactionError reports an unparseable or invalid transaction
// field. The whole computation fails; no partial report is produced.
type MalformedTransactionError struct {
	Field string
	Value string
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("malformed transaction: field %q has invalid value %q", e.Field, e.Value)
}

// InsufficientLotsError reports a disposal that exceeds the matchable lot
// history for its asset. Callers must treat this as missing prior purchase
// history, not as a truncated match.
type InsufficientLotsError struct {
	Asset     string
	Date      time.Time
	Unmatched decimal.Decimal
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("insufficient purchase lots for %s disposal on %s: %s unmatched",
		e.Asset, e.Date.Format("2006-01-02"), e.Unmatched)
}
