package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/usecase"
	"github.com/cryptobud/cryptobud/internal/usecase/mocks"
)

const sampleExport = `id,exchange_name,depot_name,transaction_date,buy_asset,buy_amount,sell_asset,sell_amount,fee_asset,fee_amount,transaction_type,note,linked_transaction
1,21bitcoin,main,10.01.2023 10:00:00,BTC,1.0,EUR,20000,EUR,10,trade,,
2,21bitcoin,main,01.02.2023 09:00:00,EUR,500,,,,,deposit,,
3,21bitcoin,main,01.03.2023 12:00:00,,,BTC,0.25,BTC,0.0001,withdrawal,,
`

func newTransactionUseCase() (*usecase.TransactionUseCase, *mocks.MockTransactionRepository, *mocks.MockCache) {
	repo := mocks.NewMockTransactionRepository()
	cache := mocks.NewMockCache()
	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		repo,
		cache,
		mocks.NewMockIDGenerator(),
		nil,
	)
	return uc, repo, cache
}

func TestTransactionUseCase_PreviewImport(t *testing.T) {
	uc, _, _ := newTransactionUseCase()

	preview, err := uc.PreviewImport(context.Background(), "bitcoin21", strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(preview.Transactions) != 2 {
		t.Fatalf("expected 2 transactions (deposit dropped), got %d", len(preview.Transactions))
	}
	if preview.Venue != "21bitcoin" {
		t.Errorf("expected venue 21bitcoin, got %q", preview.Venue)
	}
	if !preview.Stats.TotalAcquired.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1 BTC acquired, got %s", preview.Stats.TotalAcquired)
	}
	if !preview.Stats.TotalWithdrawn.Equal(decimal.NewFromFloat(0.25)) {
		t.Errorf("expected 0.25 BTC withdrawn, got %s", preview.Stats.TotalWithdrawn)
	}
}

func TestTransactionUseCase_PreviewImport_UnknownFormat(t *testing.T) {
	uc, _, _ := newTransactionUseCase()

	_, err := uc.PreviewImport(context.Background(), "kraken", strings.NewReader(sampleExport))
	if !errors.Is(err, domain.ErrUnrecognizedFormat) {
		t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
	}
}

func TestTransactionUseCase_ConfirmImport(t *testing.T) {
	uc, repo, cache := newTransactionUseCase()
	ctx := context.Background()

	// A cached report for the user must be invalidated by the import.
	cache.Set(ctx, "report:user-1:2023", []byte("{}"), time.Minute)
	cache.Set(ctx, "report:user-2:2023", []byte("{}"), time.Minute)

	transactions := []domain.Transaction{
		{
			Date:      time.Date(2023, 1, 10, 10, 0, 0, 0, time.UTC),
			Asset:     "BTC",
			Amount:    decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(20000),
			Kind:      domain.KindPurchase,
			Venue:     "21bitcoin",
		},
	}

	inserted, err := uc.ConfirmImport(ctx, "user-1", transactions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted != 1 {
		t.Errorf("expected 1 inserted, got %d", inserted)
	}

	stored, err := repo.AllByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored transaction, got %d", len(stored))
	}
	if stored[0].ID == "" || stored[0].UserID != "user-1" {
		t.Errorf("expected assigned ID and user scope, got %+v", stored[0])
	}

	if _, err := cache.Get(ctx, "report:user-1:2023"); err == nil {
		t.Error("expected user-1 report cache to be invalidated")
	}
	if _, err := cache.Get(ctx, "report:user-2:2023"); err != nil {
		t.Error("other users' cached reports must survive")
	}
}

func TestTransactionUseCase_ConfirmImport_BoundsDBTransaction(t *testing.T) {
	manager := mocks.NewMockTransactionManager()
	var deadline time.Time
	var hasDeadline bool
	manager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		deadline, hasDeadline = ctx.Deadline()
		return &mocks.MockTransaction{}, nil
	}
	uc := usecase.NewTransactionUseCase(
		manager,
		mocks.NewMockTransactionRepository(),
		mocks.NewMockCache(),
		mocks.NewMockIDGenerator(),
		nil,
	)

	transactions := []domain.Transaction{
		{
			Date:      time.Date(2023, 1, 10, 10, 0, 0, 0, time.UTC),
			Asset:     "BTC",
			Amount:    decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(20000),
			Kind:      domain.KindPurchase,
			Venue:     "21bitcoin",
		},
	}

	before := time.Now()
	if _, err := uc.ConfirmImport(context.Background(), "user-1", transactions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !hasDeadline {
		t.Fatal("expected the batch write context to carry a deadline")
	}
	if remaining := deadline.Sub(before); remaining > usecase.DefaultTransactionTimeout {
		t.Errorf("deadline %s exceeds the transaction timeout", remaining)
	}
}

func TestTransactionUseCase_ConfirmImport_Invalid(t *testing.T) {
	uc, repo, _ := newTransactionUseCase()

	transactions := []domain.Transaction{
		{
			Date:   time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
			Asset:  "BTC",
			Amount: decimal.NewFromInt(-1),
			Kind:   domain.KindPurchase,
		},
	}

	_, err := uc.ConfirmImport(context.Background(), "user-1", transactions)

	var malformed *domain.MalformedTransactionError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedTransactionError, got %v", err)
	}

	stored, _ := repo.AllByUser(context.Background(), "user-1")
	if len(stored) != 0 {
		t.Error("nothing may be persisted when validation fails")
	}
}

func TestTransactionUseCase_DeleteTransaction(t *testing.T) {
	uc, repo, _ := newTransactionUseCase()
	ctx := context.Background()

	repo.CreateBatch(ctx, nil, []*domain.Transaction{
		{ID: "tx-1", UserID: "user-1", Asset: "BTC"},
		{ID: "tx-2", UserID: "user-2", Asset: "BTC"},
	})

	if err := uc.DeleteTransaction(ctx, "user-1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another user's transaction looks like it does not exist.
	err := uc.DeleteTransaction(ctx, "user-1", "tx-2")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionUseCase_ListTransactions(t *testing.T) {
	uc, repo, _ := newTransactionUseCase()
	ctx := context.Background()

	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.CreateBatch(ctx, nil, []*domain.Transaction{
		{ID: "tx-1", UserID: "user-1", Date: day},
		{ID: "tx-2", UserID: "user-1", Date: day.AddDate(0, 1, 0)},
		{ID: "tx-3", UserID: "user-2", Date: day},
	})

	transactions, total, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{
		UserID: "user-1",
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if transactions[0].ID != "tx-2" {
		t.Errorf("expected newest first, got %s", transactions[0].ID)
	}
}
