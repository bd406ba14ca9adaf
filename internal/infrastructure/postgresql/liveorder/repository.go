package liveorder

import (
	"context"

	"github.com/jackc/pgx/v5"
	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
)

const columns = `pair, order_hash, account, side, price, amount, balance, matching, fill, fee, fee_asset, expiry, created_at, updated_at, initial_sequence, current_sequence`

const (
	insertQuery = `INSERT INTO live_orders (` + columns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (pair, order_hash) DO UPDATE SET balance = EXCLUDED.balance, matching = EXCLUDED.matching, fill = EXCLUDED.fill, updated_at = EXCLUDED.updated_at, current_sequence = EXCLUDED.current_sequence
WHERE live_orders.current_sequence < EXCLUDED.current_sequence`
	updateQuery = `UPDATE live_orders SET balance = $3, matching = $4, fill = $5, updated_at = $6, current_sequence = $7
WHERE pair = $1 AND order_hash = $2 AND current_sequence < $7`
	deleteQuery = `DELETE FROM live_orders WHERE pair = $1 AND order_hash = $2`
	getQuery    = `SELECT ` + columns + ` FROM live_orders WHERE pair = $1 AND order_hash = $2`
	listQuery   = `SELECT ` + columns + ` FROM live_orders WHERE pair = $1 ORDER BY initial_sequence`
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

var _ orderv1.LiveOrderRepository = (*repository)(nil)

// NewRepository creates a new live order repository.
func NewRepository(db postgresql.PostgreSQLClient, log logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: log,
	}
}

// Insert stores a new live order. Replaying an insert that is already
// reflected in the row is a no-op.
func (r *repository) Insert(ctx context.Context, o orderv1.LiveOrder) error {
	cmd, err := r.db.Exec(ctx, insertQuery,
		o.Pair,
		o.OrderHash,
		o.Account,
		string(o.Side),
		o.Price,
		o.Amount,
		o.Balance,
		o.Matching,
		o.Fill,
		o.Fee,
		o.FeeAsset,
		o.Expiry,
		o.CreatedAt,
		o.UpdatedAt,
		o.InitialSequence,
		o.CurrentSequence,
	)
	if err != nil {
		return errors.Transient("insert live order", err)
	}

	r.logger.DebugContext(ctx, "inserted live order",
		logger.Pair(o.Pair),
		logger.OrderHash(o.OrderHash),
		logger.NewField("rows", cmd.RowsAffected()),
	)
	return nil
}

// Update writes the mutable fields of o when o is newer than the stored row.
func (r *repository) Update(ctx context.Context, o orderv1.LiveOrder) error {
	cmd, err := r.db.Exec(ctx, updateQuery,
		o.Pair,
		o.OrderHash,
		o.Balance,
		o.Matching,
		o.Fill,
		o.UpdatedAt,
		o.CurrentSequence,
	)
	if err != nil {
		return errors.Transient("update live order", err)
	}

	r.logger.DebugContext(ctx, "updated live order",
		logger.Pair(o.Pair),
		logger.OrderHash(o.OrderHash),
		logger.NewField("rows", cmd.RowsAffected()),
	)
	return nil
}

// Delete removes a live order. Deleting a missing row is not an error.
func (r *repository) Delete(ctx context.Context, pair, orderHash string) error {
	if _, err := r.db.Exec(ctx, deleteQuery, pair, orderHash); err != nil {
		return errors.Transient("delete live order", err)
	}
	return nil
}

// Get returns nil, nil when the order is not stored.
func (r *repository) Get(ctx context.Context, pair, orderHash string) (*orderv1.LiveOrder, error) {
	o, err := scan(r.db.QueryRow(ctx, getQuery, pair, orderHash))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Transient("get live order", err)
	}
	return o, nil
}

// ListByPair returns every stored order of pair in creation order.
func (r *repository) ListByPair(ctx context.Context, pair string) ([]orderv1.LiveOrder, error) {
	rows, err := r.db.Query(ctx, listQuery, pair)
	if err != nil {
		return nil, errors.Transient("list live orders", err)
	}
	defer rows.Close()

	orders := []orderv1.LiveOrder{}
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Transient("list live orders", err)
	}
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*orderv1.LiveOrder, error) {
	o := &orderv1.LiveOrder{}
	var side string
	err := row.Scan(
		&o.Pair,
		&o.OrderHash,
		&o.Account,
		&side,
		&o.Price,
		&o.Amount,
		&o.Balance,
		&o.Matching,
		&o.Fill,
		&o.Fee,
		&o.FeeAsset,
		&o.Expiry,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.InitialSequence,
		&o.CurrentSequence,
	)
	if err != nil {
		return nil, err
	}
	o.Side = orderv1.Side(side)
	return o, nil
}
