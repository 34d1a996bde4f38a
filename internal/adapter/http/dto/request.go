package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/usecase"
)

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// TransactionRequest represents one previewed transaction being confirmed.
type TransactionRequest struct {
	Date      time.Time       `json:"date"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Kind      string          `json:"kind"`
	Venue     string          `json:"venue"`
	FeeAmount decimal.Decimal `json:"fee_amount"`
	FeeAsset  string          `json:"fee_asset,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// ToDomain converts to a domain transaction.
func (r *TransactionRequest) ToDomain() domain.Transaction {
	return domain.Transaction{
		Date:      r.Date,
		Asset:     r.Asset,
		Amount:    r.Amount,
		UnitPrice: r.UnitPrice,
		Kind:      domain.TransactionKind(r.Kind),
		Venue:     r.Venue,
		FeeAmount: r.FeeAmount,
		FeeAsset:  r.FeeAsset,
		Notes:     r.Notes,
	}
}

// ConfirmImportRequest represents a request to persist previewed transactions.
type ConfirmImportRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
}

// ToDomain converts all transactions.
func (r *ConfirmImportRequest) ToDomain() []domain.Transaction {
	transactions := make([]domain.Transaction, len(r.Transactions))
	for i := range r.Transactions {
		transactions[i] = r.Transactions[i].ToDomain()
	}
	return transactions
}
