package sequence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/wsconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSequencer answers every request with an increasing sequence. When
// dropFirst is set, the first request is never answered and its connection
// is closed.
type fakeSequencer struct {
	next      atomic.Int64
	requests  atomic.Int32
	dropFirst bool
}

func (f *fakeSequencer) start(t *testing.T) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			req, err := protocolv1.DecodeSequenceRequest(data)
			if err != nil {
				return
			}
			if f.requests.Add(1) == 1 && f.dropFirst {
				return
			}
			res := protocolv1.SequenceResponse{Channel: protocolv1.ChannelSequence, Status: protocolv1.StatusOK, Method: req.Method}
			if req.Method == "UNKNOWN|PAIR" {
				res.Status = string(errors.UnknownPair)
			} else {
				res.Sequence = f.next.Add(1)
			}
			if err := conn.WriteJSON(res); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func connected(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient(url, logger.NewNopLogger(), wsconn.WithBaseDelay(time.Millisecond))
	c.Connect(context.Background())
	t.Cleanup(c.Disconnect)
	require.Eventually(t, func() bool { return c.State() == wsconn.Connected }, time.Second, 5*time.Millisecond)
	return c
}

func TestClient_NextSequence(t *testing.T) {
	f := &fakeSequencer{}
	c := connected(t, f.start(t))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	first, err := c.NextSequence(ctx, "ZRX|WETH")
	require.NoError(t, err)
	second, err := c.NextSequence(ctx, "ZRX|WETH")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestClient_NextSequenceUnknownPair(t *testing.T) {
	f := &fakeSequencer{}
	c := connected(t, f.start(t))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.NextSequence(ctx, "UNKNOWN|PAIR")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.UnknownPair))
}

func TestClient_NextSequenceWhileDisconnected(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1", logger.NewNopLogger())

	_, err := c.NextSequence(context.Background(), "ZRX|WETH")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ServiceUnavailable))
}

func TestClient_ReissuesAfterReconnect(t *testing.T) {
	f := &fakeSequencer{dropFirst: true}
	c := connected(t, f.start(t))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	seq, err := c.NextSequence(ctx, "ZRX|WETH")

	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
	assert.Equal(t, int32(2), f.requests.Load())
}

func TestClient_ContextCancelled(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	c := connected(t, "ws"+strings.TrimPrefix(srv.URL, "http"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.NextSequence(ctx, "ZRX|WETH")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.pending)
}

func TestClient_WaitConnected(t *testing.T) {
	f := &fakeSequencer{}
	up := f.start(t)

	down := httptest.NewServer(http.NotFoundHandler())
	downURL := "ws" + strings.TrimPrefix(down.URL, "http")
	down.Close()

	tests := []struct {
		name     string
		url      string
		connect  bool
		wantCode errors.ErrorCode
	}{
		{name: "connected", url: up, connect: true},
		{name: "never connected", url: up, wantCode: errors.ServiceUnavailable},
		{name: "redial gives up", url: downURL, connect: true, wantCode: errors.ServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.url, logger.NewNopLogger(), wsconn.WithBaseDelay(time.Millisecond), wsconn.WithMaxAttempts(2))
			t.Cleanup(c.Disconnect)
			if tt.connect {
				c.Connect(context.Background())
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := c.WaitConnected(ctx)

			if tt.wantCode == "" {
				require.NoError(t, err)
				_, err = c.NextSequence(ctx, "ZRX|WETH")
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode))
		})
	}
}
