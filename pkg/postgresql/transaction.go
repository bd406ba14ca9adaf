package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/relayer/pkg/errors"
)

type contextKey string

const txKey contextKey = "postgresql_transaction"

// GetTx extracts the transaction carried by ctx.
func GetTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// WithTx runs fn inside one transaction, committing when fn returns nil and
// rolling back otherwise. A ctx that already carries a transaction is reused
// so repositories can be composed.
func WithTx(ctx context.Context, db PostgreSQLClient, fn func(ctx context.Context) error) (err error) {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Transient("postgres begin", err)
	}
	txCtx := context.WithValue(ctx, txKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.NewTracer("rollback failed: " + rbErr.Error()).Wrap(err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Transient("postgres commit", err)
	}
	return nil
}

// Transactor runs a unit of work inside one transaction.
//
//go:generate mockgen -source=transaction.go -destination=mock/transaction_mock.go -package=mock
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type transactor struct {
	db PostgreSQLClient
}

// NewTransactor returns a Transactor backed by db.
func NewTransactor(db PostgreSQLClient) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, t.db, fn)
}
