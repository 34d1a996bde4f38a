package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// MaxImportRows caps the number of rows accepted from one upload. Larger
	// files are a data problem at the boundary, not a core concern.
	MaxImportRows = 50000

	// ReportCacheTTL is how long a computed yearly report stays cached
	ReportCacheTTL = 15 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
