package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakePool struct {
	tx  pgx.Tx
	err error
}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	return f.tx, f.err
}

type fakePgxTx struct {
	pgx.Tx
	rollbackErr error
}

func (f *fakePgxTx) Rollback(ctx context.Context) error {
	return f.rollbackErr
}

func TestTxManager_BeginWrapsPoolError(t *testing.T) {
	poolErr := errors.New("pool exhausted")
	m := newTxManagerWithPool(&fakePool{err: poolErr})

	_, err := m.Begin(context.Background())
	if !errors.Is(err, poolErr) {
		t.Fatalf("expected wrapped pool error, got %v", err)
	}
}

func TestTx_RollbackAfterCommitIsNoop(t *testing.T) {
	tx := &Tx{tx: &fakePgxTx{rollbackErr: pgx.ErrTxClosed}}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("expected rollback on a closed transaction to succeed, got %v", err)
	}
}

func TestTx_RollbackReportsRealFailures(t *testing.T) {
	rollbackErr := errors.New("connection lost")
	tx := &Tx{tx: &fakePgxTx{rollbackErr: rollbackErr}}

	if err := tx.Rollback(context.Background()); !errors.Is(err, rollbackErr) {
		t.Fatalf("expected rollback error to surface, got %v", err)
	}
}
