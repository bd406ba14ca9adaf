package userorder

import (
	"context"
	"time"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/muhammadchandra19/relayer/pkg/util"
)

const columns = `account, year_month, pair, order_hash, sequence, status, type, side, price, amount, balance, matching, fill, fee, fee_asset, expiry, initial_sequence, created_at, updated_at, updated_by`

const (
	insertQuery = `INSERT INTO user_orders (` + columns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
ON CONFLICT DO NOTHING`
	listQuery = `SELECT ` + columns + ` FROM user_orders WHERE account = $1 AND year_month = $2
ORDER BY pair, order_hash, sequence, status`
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

var _ orderv1.UserOrderRepository = (*repository)(nil)

// NewRepository creates a new user order repository.
func NewRepository(db postgresql.PostgreSQLClient, log logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: log,
	}
}

// Insert appends an audit row. Rows are never updated; inserting the same
// (account, month, pair, orderHash, sequence, status) twice keeps the first.
func (r *repository) Insert(ctx context.Context, o orderv1.UserOrder) error {
	_, err := r.db.Exec(ctx, insertQuery,
		o.Account,
		util.YearMonth(time.UnixMilli(o.UpdatedAt)),
		o.Pair,
		o.OrderHash,
		o.CurrentSequence,
		string(o.Status),
		string(o.Type),
		string(o.Side),
		o.Price,
		o.Amount,
		o.Balance,
		o.Matching,
		o.Fill,
		o.Fee,
		o.FeeAsset,
		o.Expiry,
		o.InitialSequence,
		o.CreatedAt,
		o.UpdatedAt,
		o.UpdatedBy,
	)
	if err != nil {
		return errors.Transient("insert user order", err)
	}
	return nil
}

// ListByAccount returns the audit rows of account written in yearMonth
// (formatted 2006-01).
func (r *repository) ListByAccount(ctx context.Context, account, yearMonth string) ([]orderv1.UserOrder, error) {
	rows, err := r.db.Query(ctx, listQuery, account, yearMonth)
	if err != nil {
		return nil, errors.Transient("list user orders", err)
	}
	defer rows.Close()

	orders := []orderv1.UserOrder{}
	for rows.Next() {
		var (
			o                 orderv1.UserOrder
			month             string
			status, typ, side string
		)
		if err := rows.Scan(
			&o.Account,
			&month,
			&o.Pair,
			&o.OrderHash,
			&o.CurrentSequence,
			&status,
			&typ,
			&side,
			&o.Price,
			&o.Amount,
			&o.Balance,
			&o.Matching,
			&o.Fill,
			&o.Fee,
			&o.FeeAsset,
			&o.Expiry,
			&o.InitialSequence,
			&o.CreatedAt,
			&o.UpdatedAt,
			&o.UpdatedBy,
		); err != nil {
			return nil, errors.TracerFromError(err)
		}
		o.Status = orderv1.Status(status)
		o.Type = orderv1.Method(typ)
		o.Side = orderv1.Side(side)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Transient("list user orders", err)
	}
	return orders, nil
}
