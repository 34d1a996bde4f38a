package importer

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/domain"
)

// FormatBitcoin21 is the registry name of the 21bitcoin CSV export.
const FormatBitcoin21 = "bitcoin21"

// bitcoin21DateLayout is the only accepted date shape: DD.MM.YYYY HH:MM:SS.
const bitcoin21DateLayout = "02.01.2006 15:04:05"

func init() {
	Register(FormatBitcoin21, func() Normalizer { return NewBitcoin21() })
}

// Bitcoin21 normalizes the 21bitcoin transaction export. The export lists
// trades, deposits and withdrawals with buy/sell legs; only movements of the
// tracked asset become canonical transactions.
type Bitcoin21 struct {
	// Asset is the tracked asset symbol.
	Asset string
	// ReportingCurrency is the currency cost basis is expressed in. Fees
	// denominated in it are folded into the purchase price.
	ReportingCurrency string
}

// NewBitcoin21 creates a normalizer tracking BTC with EUR cost basis.
func NewBitcoin21() *Bitcoin21 {
	return &Bitcoin21{
		Asset:             "BTC",
		ReportingCurrency: "EUR",
	}
}

// Venue returns the source exchange identifier.
func (n *Bitcoin21) Venue() string {
	return "21bitcoin"
}

// Columns of the 21bitcoin export this normalizer reads.
var bitcoin21Columns = []string{
	"transaction_date",
	"buy_asset",
	"buy_amount",
	"sell_asset",
	"sell_amount",
	"fee_asset",
	"fee_amount",
	"transaction_type",
}

// Normalize parses the export into canonical transactions, preserving file
// order. The ledger sorts chronologically; this function does not.
func (n *Bitcoin21) Normalize(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.ErrUnrecognizedFormat
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var transactions []domain.Transaction
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		tx, ok, err := n.normalizeRow(columns, row)
		if err != nil {
			return nil, err
		}
		if ok {
			transactions = append(transactions, tx)
		}
	}

	return transactions, nil
}

func (n *Bitcoin21) normalizeRow(columns map[string]int, row []string) (domain.Transaction, bool, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	switch field("transaction_type") {
	case "deposit":
		// Pure fiat movement, nothing to track.
		return domain.Transaction{}, false, nil

	case "trade":
		if field("buy_asset") != n.Asset {
			return domain.Transaction{}, false, nil
		}

		date, err := parseBitcoin21Date(field("transaction_date"))
		if err != nil {
			return domain.Transaction{}, false, err
		}
		buyAmount, err := parseAmount("buy_amount", field("buy_amount"))
		if err != nil {
			return domain.Transaction{}, false, err
		}
		if !buyAmount.IsPositive() {
			return domain.Transaction{}, false, &domain.MalformedTransactionError{
				Field: "buy_amount", Value: field("buy_amount"),
			}
		}
		sellAmount, err := parseAmount("sell_amount", field("sell_amount"))
		if err != nil {
			return domain.Transaction{}, false, err
		}
		feeAmount, err := parseOptionalAmount("fee_amount", field("fee_amount"))
		if err != nil {
			return domain.Transaction{}, false, err
		}

		// Fees in the reporting currency are part of the acquisition cost.
		totalCost := sellAmount
		if field("fee_asset") == n.ReportingCurrency {
			totalCost = totalCost.Add(feeAmount)
		}

		return domain.Transaction{
			Date:      date,
			Asset:     n.Asset,
			Amount:    buyAmount,
			UnitPrice: totalCost.Div(buyAmount),
			Kind:      domain.KindPurchase,
			Venue:     n.Venue(),
			FeeAmount: feeAmount,
			FeeAsset:  field("fee_asset"),
			Notes:     field("note"),
		}, true, nil

	case "withdrawal":
		if field("sell_asset") != n.Asset {
			return domain.Transaction{}, false, nil
		}

		date, err := parseBitcoin21Date(field("transaction_date"))
		if err != nil {
			return domain.Transaction{}, false, err
		}
		sellAmount, err := parseAmount("sell_amount", field("sell_amount"))
		if err != nil {
			return domain.Transaction{}, false, err
		}
		feeAmount, err := parseOptionalAmount("fee_amount", field("fee_amount"))
		if err != nil {
			return domain.Transaction{}, false, err
		}

		// A transfer realizes no proceeds.
		return domain.Transaction{
			Date:      date,
			Asset:     n.Asset,
			Amount:    sellAmount,
			UnitPrice: decimal.Zero,
			Kind:      domain.KindWithdrawal,
			Venue:     n.Venue(),
			FeeAmount: feeAmount,
			FeeAsset:  field("fee_asset"),
			Notes:     field("note"),
		}, true, nil
	}

	// Not recognized as an asset movement.
	return domain.Transaction{}, false, nil
}

// mapColumns resolves the header into column indices. All expected columns
// must be present, otherwise the file is not a 21bitcoin export.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range bitcoin21Columns {
		if _, ok := columns[name]; !ok {
			return nil, domain.ErrUnrecognizedFormat
		}
	}

	return columns, nil
}

func parseBitcoin21Date(value string) (time.Time, error) {
	// Naive local time: the export carries no timezone.
	date, err := time.ParseInLocation(bitcoin21DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, &domain.MalformedDateError{Value: value}
	}
	return date, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &domain.MalformedTransactionError{Field: field, Value: value}
	}
	return amount, nil
}

// parseOptionalAmount treats an empty field as zero.
func parseOptionalAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parseAmount(field, value)
}
