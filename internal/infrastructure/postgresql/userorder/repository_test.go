package userorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	pkgerrors "github.com/muhammadchandra19/relayer/pkg/errors"
	mockLogger "github.com/muhammadchandra19/relayer/pkg/logger/mock"
	mockPg "github.com/muhammadchandra19/relayer/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testUserOrder() orderv1.UserOrder {
	updated := time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC).UnixMilli()
	return orderv1.NewUserOrder(orderv1.LiveOrder{
		Pair:            "ZRX|WETH",
		OrderHash:       "0xabc",
		Account:         "0xacc",
		Side:            orderv1.SideAsk,
		Price:           0.02,
		Amount:          10,
		Balance:         10,
		CreatedAt:       updated,
		UpdatedAt:       updated,
		InitialSequence: 4,
		CurrentSequence: 4,
	}, orderv1.MethodAdd, "relay-1")
}

func TestUserOrder_Insert(t *testing.T) {
	ctx := context.Background()
	o := testUserOrder()

	testCases := []struct {
		name     string
		execErr  error
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "exec error",
			execErr: errors.New("too many connections"),
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
				Exec(ctx, insertQuery,
					"0xacc", "2024-03", "ZRX|WETH", "0xabc", int64(4), "confirmed", "add", "ask",
					0.02, 10.0, 10.0, 0.0, 0.0, 0.0, "", int64(0), int64(4), o.CreatedAt, o.UpdatedAt, "relay-1",
				).
				Return(pgconn.NewCommandTag("INSERT 0 1"), tc.execErr)

			err := NewRepository(pg, mockLogger.NewMockInterface(ctrl)).Insert(ctx, o)
			tc.assertFn(t, err)
		})
	}
}
