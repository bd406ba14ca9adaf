package sequencer

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	orderv1_mock "github.com/muhammadchandra19/relayer/internal/domain/order/v1/mock"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func dial(t *testing.T, seq *orderv1_mock.MockSequencer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewServer(seq, logger.NewNopLogger()).Handler(healthcheck.HealthCheck{}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/sequence", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestServer_Sequence(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(m *orderv1_mock.MockSequencer)
		pair   string
		status string
		seq    int64
	}{
		{
			name: "issued",
			setup: func(m *orderv1_mock.MockSequencer) {
				m.EXPECT().NextSequence(gomock.Any(), "ZRX|WETH").Return(int64(7), nil)
			},
			pair:   "ZRX|WETH",
			status: protocolv1.StatusOK,
			seq:    7,
		},
		{
			name: "unknown pair",
			setup: func(m *orderv1_mock.MockSequencer) {
				m.EXPECT().NextSequence(gomock.Any(), "FOO|BAR").
					Return(int64(0), errors.New(errors.UnknownPair, "unknown pair FOO|BAR", "pair"))
			},
			pair:   "FOO|BAR",
			status: string(errors.UnknownPair),
		},
		{
			name: "store down",
			setup: func(m *orderv1_mock.MockSequencer) {
				m.EXPECT().NextSequence(gomock.Any(), "ZRX|WETH").
					Return(int64(0), errors.Transient("sequence save", context.DeadlineExceeded))
			},
			pair:   "ZRX|WETH",
			status: string(errors.TransientInfraError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := orderv1_mock.NewMockSequencer(gomock.NewController(t))
			tt.setup(seq)
			conn := dial(t, seq)

			require.NoError(t, conn.WriteJSON(protocolv1.SequenceRequest{Channel: protocolv1.ChannelSequence, Method: tt.pair}))
			_, data, err := conn.ReadMessage()
			require.NoError(t, err)
			res, err := protocolv1.DecodeSequenceResponse(data)
			require.NoError(t, err)

			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.pair, res.Method)
			assert.Equal(t, tt.seq, res.Sequence)
		})
	}
}

func TestServer_SkipsMalformedRequests(t *testing.T) {
	seq := orderv1_mock.NewMockSequencer(gomock.NewController(t))
	seq.EXPECT().NextSequence(gomock.Any(), "ZRX|WETH").Return(int64(1), nil)
	conn := dial(t, seq)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"channel":"orders"}`)))
	require.NoError(t, conn.WriteJSON(protocolv1.SequenceRequest{Channel: protocolv1.ChannelSequence, Method: "ZRX|WETH"}))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	res, err := protocolv1.DecodeSequenceResponse(data)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Sequence)
}
