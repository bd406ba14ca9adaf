package raworder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	pkgerrors "github.com/muhammadchandra19/relayer/pkg/errors"
	mockLogger "github.com/muhammadchandra19/relayer/pkg/logger/mock"
	mockPg "github.com/muhammadchandra19/relayer/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fixedNow() int64 { return 1_700_000_000_000 }

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestRawOrder_Insert(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		order    orderv1.RawOrder
		payload  []byte
		execErr  error
		assertFn func(t *testing.T, err error)
	}{
		{
			name:    "stores signed payload",
			order:   orderv1.RawOrder{OrderHash: "0xabc", Pair: "ZRX|WETH", SignedOrder: json.RawMessage(`{"maker":"0x1"}`), CreatedAt: 1, UpdatedAt: 1},
			payload: []byte(`{"maker":"0x1"}`),
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "empty payload stored as empty object",
			order:   orderv1.RawOrder{OrderHash: "0xabc", Pair: "ZRX|WETH", CreatedAt: 1, UpdatedAt: 1},
			payload: []byte("{}"),
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "exec error",
			order:   orderv1.RawOrder{OrderHash: "0xabc", Pair: "ZRX|WETH", CreatedAt: 1, UpdatedAt: 1},
			payload: []byte("{}"),
			execErr: errors.New("broken pipe"),
			assertFn: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.TransientInfraError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			pg.EXPECT().
				Exec(ctx, insertQuery, tc.order.OrderHash, tc.order.Pair, tc.payload, int64(0), int64(1), int64(1)).
				Return(pgconn.NewCommandTag("INSERT 0 1"), tc.execErr)

			err := NewRepository(pg, mockLogger.NewMockInterface(ctrl), fixedNow).Insert(ctx, tc.order)
			tc.assertFn(t, err)
		})
	}
}

func TestRawOrder_Terminate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	log := mockLogger.NewMockInterface(ctrl)

	pg.EXPECT().Exec(ctx, terminateQuery, "0xabc", "ZRX|WETH", int64(9), fixedNow()).Return(pgconn.NewCommandTag("UPDATE 1"), nil)
	log.EXPECT().DebugContext(ctx, "terminated raw order", gomock.Any(), gomock.Any())

	assert.NoError(t, NewRepository(pg, log, fixedNow).Terminate(ctx, "ZRX|WETH", "0xabc", 9))
}

func TestRawOrder_GetMissing(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	pg.EXPECT().QueryRow(ctx, getQuery, "0xabc").Return(errRow{err: pgx.ErrNoRows})

	got, err := NewRepository(pg, mockLogger.NewMockInterface(ctrl), fixedNow).Get(ctx, "0xabc")
	require.NoError(t, err)
	assert.Nil(t, got)
}
