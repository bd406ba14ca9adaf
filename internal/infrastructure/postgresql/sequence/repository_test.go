package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/muhammadchandra19/relayer/pkg/errors"
	mockLogger "github.com/muhammadchandra19/relayer/pkg/logger/mock"
	mockPg "github.com/muhammadchandra19/relayer/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSequence_Save(t *testing.T) {
	ctx := context.Background()

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
			execErr: errors.New("connection refused"),
			assertFn: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.TransientInfraError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			pg.EXPECT().Exec(ctx, saveQuery, "ZRX|WETH", int64(42)).Return(pgconn.NewCommandTag("INSERT 0 1"), tc.execErr)

			tc.assertFn(t, NewRepository(pg, mockLogger.NewMockInterface(ctrl)).Save(ctx, "ZRX|WETH", 42))
		})
	}
}

func TestSequence_LoadAll(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	rows := mockPg.NewMockRowsInterface(ctrl)
	log := mockLogger.NewMockInterface(ctrl)

	pg.EXPECT().Query(ctx, loadQuery).Return(rows, nil)
	gomock.InOrder(
		rows.EXPECT().Next().Return(true),
		rows.EXPECT().Scan(gomock.Any(), gomock.Any()).DoAndReturn(func(dest ...any) error {
			*dest[0].(*string) = "ZRX|WETH"
			*dest[1].(*int64) = 17
			return nil
		}),
		rows.EXPECT().Next().Return(false),
	)
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()
	log.EXPECT().Info("loaded sequences", gomock.Any())

	got, err := NewRepository(pg, log).LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"ZRX|WETH": 17}, got)
}
