package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const insertTransactionQuery = `
	INSERT INTO transactions
		(id, user_id, date, asset, amount, unit_price, kind, venue, fee_amount, fee_asset, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT ON CONSTRAINT transactions_natural_key DO NOTHING
`

// CreateBatch inserts transactions inside the given database transaction.
// Rows matching an already stored transaction are skipped; the returned
// count covers actually inserted rows.
func (r *TransactionRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, transactions []*domain.Transaction) (int, error) {
	pgxTx := tx.(*Tx).PgxTx()

	inserted := 0
	for _, t := range transactions {
		tag, err := pgxTx.Exec(ctx, insertTransactionQuery,
			t.ID,
			t.UserID,
			t.Date,
			t.Asset,
			t.Amount,
			t.UnitPrice,
			t.Kind,
			t.Venue,
			t.FeeAmount,
			t.FeeAsset,
			t.Notes,
			t.CreatedAt,
		)
		if err != nil {
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

const selectTransactionColumns = `
	id, user_id, date, asset, amount, unit_price, kind, venue, fee_amount, fee_asset, notes, created_at
`

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	var t domain.Transaction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.UserID,
		&t.Date,
		&t.Asset,
		&t.Amount,
		&t.UnitPrice,
		&t.Kind,
		&t.Venue,
		&t.FeeAmount,
		&t.FeeAsset,
		&t.Notes,
		&t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ListByUser retrieves a page of the user's transactions, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}

// AllByUser retrieves the user's full history in chronological order.
func (r *TransactionRepository) AllByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// Delete removes a transaction by ID.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// CountByUser counts the user's stored transactions.
func (r *TransactionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func scanTransaction(rows pgx.Rows, t *domain.Transaction) error {
	return rows.Scan(
		&t.ID,
		&t.UserID,
		&t.Date,
		&t.Asset,
		&t.Amount,
		&t.UnitPrice,
		&t.Kind,
		&t.Venue,
		&t.FeeAmount,
		&t.FeeAsset,
		&t.Notes,
		&t.CreatedAt,
	)
}
