package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/importer"
	"github.com/cryptobud/cryptobud/internal/infrastructure/metrics"
)

// TransactionUseCase handles import and management of canonical transactions.
type TransactionUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	cache           Cache
	idGen           IDGenerator
	metrics         *metrics.Metrics
	retrier         Retrier
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		cache:           cache,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// WithRetrier returns the use case configured to retry the import
// transaction on transient database failures.
func (uc *TransactionUseCase) WithRetrier(retrier Retrier) *TransactionUseCase {
	uc.retrier = retrier
	return uc
}

// ImportPreview is the result of normalizing an uploaded export file.
// Nothing is persisted until the preview is confirmed.
type ImportPreview struct {
	Transactions []domain.Transaction
	Stats        importer.Stats
	Venue        string
}

// PreviewImport normalizes an uploaded export file without persisting
// anything. An upload with no recognizable asset movements yields an empty
// preview, not an error.
func (uc *TransactionUseCase) PreviewImport(ctx context.Context, format string, file io.Reader) (*ImportPreview, error) {
	normalizer, err := importer.New(format)
	if err != nil {
		return nil, err
	}

	transactions, err := normalizer.Normalize(file)
	if err != nil {
		return nil, err
	}
	if len(transactions) > MaxImportRows {
		return nil, fmt.Errorf("import exceeds %d rows", MaxImportRows)
	}

	if uc.metrics != nil {
		uc.metrics.ImportsPreviewed.Inc()
	}

	return &ImportPreview{
		Transactions: transactions,
		Stats:        importer.Summarize(transactions),
		Venue:        normalizer.Venue(),
	}, nil
}

// ConfirmImport persists previewed transactions for the user in one database
// transaction. Duplicates already stored for the user are skipped; the
// returned count covers actually inserted rows.
func (uc *TransactionUseCase) ConfirmImport(ctx context.Context, userID string, transactions []domain.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	if len(transactions) > MaxImportRows {
		return 0, fmt.Errorf("import exceeds %d rows", MaxImportRows)
	}

	start := time.Now()
	now := start.UTC()
	records := make([]*domain.Transaction, len(transactions))
	for i := range transactions {
		record := transactions[i]
		if err := record.Validate(); err != nil {
			return 0, err
		}
		record.ID = uc.idGen.Generate()
		record.UserID = userID
		record.CreatedAt = now
		records[i] = &record
	}

	var inserted int
	persist := func() error {
		var err error
		inserted, err = uc.persistBatch(ctx, records)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, persist)
	} else {
		err = persist()
	}
	if err != nil {
		return 0, err
	}

	uc.invalidateReports(ctx, userID)

	if uc.metrics != nil {
		uc.metrics.ImportsConfirmed.Inc()
		uc.metrics.TransactionsImported.Add(float64(inserted))
		uc.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	}

	return inserted, nil
}

// persistBatch writes the whole batch inside one database transaction. The
// transaction is bounded by DefaultTransactionTimeout so a stalled batch
// cannot hold row locks indefinitely.
func (uc *TransactionUseCase) persistBatch(ctx context.Context, records []*domain.Transaction) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	dbTx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer dbTx.Rollback(ctx)

	inserted, err := uc.transactionRepo.CreateBatch(ctx, dbTx, records)
	if err != nil {
		return 0, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, err
	}

	return inserted, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListTransactions lists the user's transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, int64, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	transactions, err := uc.transactionRepo.ListByUser(ctx, input.UserID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := uc.transactionRepo.CountByUser(ctx, input.UserID)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// AllTransactions returns the user's full history in chronological order,
// for report computation and exports.
func (uc *TransactionUseCase) AllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return uc.transactionRepo.AllByUser(ctx, userID)
}

// DeleteTransaction removes one of the user's transactions. Deleting another
// user's transaction is reported as not found.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, userID, id string) error {
	record, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return domain.ErrTransactionNotFound
	}

	if err := uc.transactionRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateReports(ctx, userID)

	return nil
}

// invalidateReports drops all cached reports for the user. Cache failures
// must not fail the mutation; a stale entry expires on its own TTL.
func (uc *TransactionUseCase) invalidateReports(ctx context.Context, userID string) {
	if err := uc.cache.DeleteByPrefix(ctx, reportCachePrefix(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate report cache")
	}
}
