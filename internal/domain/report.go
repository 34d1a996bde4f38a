package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingPeriodDays is the holding period after which a disposal gain is
// tax-exempt (§23 EStG). The comparison is inclusive: exactly this many days
// counts as exempt.
const HoldingPeriodDays = 365

// StakingExemptionThreshold is the annual staking income ceiling, in
// reporting-currency units, below which staking rewards incur no tax
// (§22 Nr. 3 EStG).
var StakingExemptionThreshold = decimal.NewFromInt(256)

// LotUsage describes one lot drawn down while matching a disposal.
type LotUsage struct {
	LotDate     time.Time
	Amount      decimal.Decimal
	HoldingDays int
}

// DisposalOutcome is the result of matching one disposal (or withdrawal)
// against the FIFO lot history.
type DisposalOutcome struct {
	Kind        TransactionKind
	Asset       string
	Date        time.Time
	Proceeds    decimal.Decimal
	CostBasis   decimal.Decimal
	TaxableGain decimal.Decimal
	ExemptGain  decimal.Decimal
	LotsUsed    []LotUsage
}

// YearlyTaxReport aggregates all tax-relevant outcomes of one calendar year.
// Totals are sums over Disposals only; Transfers deplete lot history but
// carry no gain (a transfer to one's own wallet is not a disposal).
type YearlyTaxReport struct {
	Year                 int
	TotalTaxableGain     decimal.Decimal
	TotalExemptGain      decimal.Decimal
	TotalStakingIncome   decimal.Decimal
	StakingOverThreshold bool
	Disposals            []DisposalOutcome
	Transfers            []DisposalOutcome
}

// Exemption is one still-open lot approaching its tax-free date.
type Exemption struct {
	Asset           string
	PurchaseDate    time.Time
	ExemptFrom      time.Time
	RemainingAmount decimal.Decimal
	DaysRemaining   int
}
