package raworder

import (
	"context"

	"github.com/jackc/pgx/v5"
	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
)

const (
	insertQuery = `INSERT INTO raw_orders (order_hash, pair, signed_order, terminated_sequence, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (order_hash) DO UPDATE SET signed_order = EXCLUDED.signed_order, created_at = EXCLUDED.created_at
WHERE raw_orders.signed_order = '{}'::jsonb`
	terminateQuery = `INSERT INTO raw_orders (order_hash, pair, signed_order, terminated_sequence, created_at, updated_at)
VALUES ($1, $2, '{}'::jsonb, $3, $4, $4) ON CONFLICT (order_hash) DO UPDATE SET terminated_sequence = EXCLUDED.terminated_sequence, updated_at = EXCLUDED.updated_at
WHERE raw_orders.terminated_sequence < EXCLUDED.terminated_sequence`
	getQuery = `SELECT order_hash, pair, signed_order, terminated_sequence, created_at, updated_at FROM raw_orders WHERE order_hash = $1`
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
	now    func() int64
}

var _ orderv1.RawOrderRepository = (*repository)(nil)

// NewRepository creates a new raw order repository.
func NewRepository(db postgresql.PostgreSQLClient, log logger.Interface, now func() int64) *repository {
	return &repository{
		db:     db,
		logger: log,
		now:    now,
	}
}

// Insert keeps the first payload stored for an orderHash. A placeholder left
// by an earlier Terminate is filled in.
func (r *repository) Insert(ctx context.Context, o orderv1.RawOrder) error {
	signed := []byte(o.SignedOrder)
	if len(signed) == 0 {
		signed = []byte("{}")
	}
	_, err := r.db.Exec(ctx, insertQuery,
		o.OrderHash,
		o.Pair,
		signed,
		o.TerminatedSequence,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return errors.Transient("insert raw order", err)
	}
	return nil
}

// Terminate tombstones the order at sequence.
func (r *repository) Terminate(ctx context.Context, pair, orderHash string, sequence int64) error {
	cmd, err := r.db.Exec(ctx, terminateQuery, orderHash, pair, sequence, r.now())
	if err != nil {
		return errors.Transient("terminate raw order", err)
	}
	r.logger.DebugContext(ctx, "terminated raw order",
		logger.OrderHash(orderHash),
		logger.NewField("rows", cmd.RowsAffected()),
	)
	return nil
}

// Get returns nil, nil when the order is not stored.
func (r *repository) Get(ctx context.Context, orderHash string) (*orderv1.RawOrder, error) {
	o := &orderv1.RawOrder{}
	var signed []byte
	err := r.db.QueryRow(ctx, getQuery, orderHash).Scan(
		&o.OrderHash,
		&o.Pair,
		&signed,
		&o.TerminatedSequence,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Transient("get raw order", err)
	}
	o.SignedOrder = signed
	return o, nil
}
