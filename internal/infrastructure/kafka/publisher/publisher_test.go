package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	publisher_mock "github.com/muhammadchandra19/relayer/internal/infrastructure/kafka/publisher/mock"
	pkgerrors "github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMatchPublisher_PublishMatch(t *testing.T) {
	ctx := context.Background()
	match := orderv1.MatchRequest{
		ID:    "01HZX",
		Pair:  "ZRX|WETH",
		Left:  orderv1.MatchSide{OrderHash: "0xa", Balance: 3},
		Right: orderv1.MatchSide{OrderHash: "0xb", Balance: 3},
		Price: 0.01,
	}

	testCases := []struct {
		name     string
		writeErr error
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:     "broker unavailable",
			writeErr: errors.New("leader not available"),
			assertFn: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.TransientInfraError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			writer := publisher_mock.NewMockMessageWriter(ctrl)
			writer.EXPECT().WriteMessages(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				require.Len(t, msgs, 1)
				assert.Equal(t, "ZRX|WETH", string(msgs[0].Key))

				var got orderv1.MatchRequest
				require.NoError(t, json.Unmarshal(msgs[0].Value, &got))
				assert.Equal(t, match, got)
				return tc.writeErr
			})

			tc.assertFn(t, NewMatchPublisher(writer, logger.NewNopLogger()).PublishMatch(ctx, match))
		})
	}
}

func TestUserOrderPublisher_PublishUserOrder(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	writer := publisher_mock.NewMockMessageWriter(ctrl)

	order := orderv1.NewUserOrder(orderv1.LiveOrder{Pair: "ZRX|WETH", OrderHash: "0xa", Account: "0xacc"}, orderv1.MethodTerminate, "relay-1")
	writer.EXPECT().WriteMessages(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
		require.Len(t, msgs, 1)
		assert.Equal(t, "0xacc", string(msgs[0].Key))
		assert.Contains(t, msgs[0].Headers, kafka.Header{Key: "status", Value: []byte("terminate")})
		return nil
	})
	writer.EXPECT().Close().Return(nil)

	p := NewUserOrderPublisher(writer, logger.NewNopLogger())
	require.NoError(t, p.PublishUserOrder(ctx, order))
	assert.NoError(t, p.Close())
}
