package database

import (
	"context"
	"errors"
)

var errNoTransaction = errors.New("no transaction in context")

type txKey struct{}

type txInfo struct {
	tx    Transaction
	owned bool
}

func withTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, txInfo{tx: tx, owned: owned})
}

func txFromContext(ctx context.Context) (txInfo, bool) {
	info, ok := ctx.Value(txKey{}).(txInfo)
	if !ok || info.tx == nil {
		return txInfo{}, false
	}
	return info, true
}

// ExecutorFromContext returns the transaction stored in ctx, or conn when
// there is none.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if info, ok := txFromContext(ctx); ok {
		return info.tx
	}
	return conn
}

// UnitOfWork scopes a group of repository calls to one transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxUnitOfWork implements UnitOfWork for any Connection. A Begin inside an
// existing transaction joins it; only the outermost unit commits.
type TxUnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a unit of work over conn.
func NewUnitOfWork(conn Connection) *TxUnitOfWork {
	return &TxUnitOfWork{conn: conn}
}

func (u *TxUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := txFromContext(ctx); ok {
		return withTx(ctx, info.tx, false), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return withTx(ctx, tx, true), nil
}

func (u *TxUnitOfWork) Commit(ctx context.Context) error {
	info, ok := txFromContext(ctx)
	if !ok {
		return errNoTransaction
	}
	if !info.owned {
		return nil
	}
	return info.tx.Commit(ctx)
}

func (u *TxUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := txFromContext(ctx)
	if !ok {
		return errNoTransaction
	}
	if !info.owned {
		return nil
	}
	return info.tx.Rollback(ctx)
}

// WithUnitOfWork runs fn in a transaction, rolling back when it fails.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}
