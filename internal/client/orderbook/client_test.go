package orderbook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/wsconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pair = "ZRX|WETH"

// fakeRelay calls onSub for the n-th subscription it receives (1-based).
// Returning false closes the connection.
type fakeRelay struct {
	subs  atomic.Int32
	onSub func(conn *websocket.Conn, n int32) bool
}

func (f *fakeRelay) start(t *testing.T) string {
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
			msg, err := protocolv1.DecodeClientMessage(data)
			if err != nil {
				return
			}
			req, ok := msg.(*protocolv1.SubscribeRequest)
			if !ok || req.Method != protocolv1.MethodSub {
				continue
			}
			if !f.onSub(conn, f.subs.Add(1)) {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func snapshot(version int64) *protocolv1.SnapshotMessage {
	return protocolv1.NewSnapshotMessage(&orderbookv1.Snapshot{
		Pair:    pair,
		Version: version,
		Bids:    []orderbookv1.SnapshotLevel{{Price: 10, Balance: 100, Count: 1}},
		Asks:    []orderbookv1.SnapshotLevel{},
	})
}

func update(prev, version int64) *protocolv1.UpdateMessage {
	return protocolv1.NewUpdateMessage(&orderbookv1.SnapshotUpdate{
		Pair:        pair,
		Updates:     []orderbookv1.UpdateLevel{{Price: 10, Change: -10, Count: 0, Side: orderbookv1.SideBid}},
		PrevVersion: prev,
		Version:     version,
	})
}

func newConnectedClient(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient(url, logger.NewNopLogger(), metrics.NopMetrics(), nil, wsconn.WithBaseDelay(time.Millisecond))
	c.Connect(context.Background())
	t.Cleanup(c.Disconnect)
	require.Eventually(t, func() bool { return c.State() == wsconn.Connected }, time.Second, 5*time.Millisecond)
	return c
}

func versionOf(c *Client) int64 {
	s, ok := c.Snapshot(pair)
	if !ok {
		return 0
	}
	return s.Version
}

func TestClient_SubscribeAppliesUpdates(t *testing.T) {
	f := &fakeRelay{onSub: func(conn *websocket.Conn, _ int32) bool {
		_ = conn.WriteJSON(snapshot(10))
		_ = conn.WriteJSON(update(10, 11))
		return true
	}}
	c := newConnectedClient(t, f.start(t))

	require.NoError(t, c.Subscribe(pair))

	require.Eventually(t, func() bool { return versionOf(c) == 11 }, time.Second, 5*time.Millisecond)
	s, _ := c.Snapshot(pair)
	assert.Equal(t, []orderbookv1.SnapshotLevel{{Price: 10, Balance: 90, Count: 1}}, s.Bids)
}

func TestClient_GapResubscribes(t *testing.T) {
	f := &fakeRelay{onSub: func(conn *websocket.Conn, n int32) bool {
		if n == 1 {
			_ = conn.WriteJSON(snapshot(10))
			_ = conn.WriteJSON(update(12, 13))
			return true
		}
		_ = conn.WriteJSON(snapshot(13))
		return true
	}}
	c := newConnectedClient(t, f.start(t))

	require.NoError(t, c.Subscribe(pair))

	require.Eventually(t, func() bool { return versionOf(c) == 13 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), f.subs.Load())
}

func TestClient_ResubscribesAfterReconnect(t *testing.T) {
	f := &fakeRelay{onSub: func(conn *websocket.Conn, n int32) bool {
		if n == 1 {
			return false
		}
		_ = conn.WriteJSON(snapshot(20))
		return true
	}}
	c := newConnectedClient(t, f.start(t))

	require.NoError(t, c.Subscribe(pair))

	require.Eventually(t, func() bool { return versionOf(c) == 20 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), f.subs.Load())
}

func TestClient_Unsubscribe(t *testing.T) {
	f := &fakeRelay{onSub: func(conn *websocket.Conn, _ int32) bool {
		_ = conn.WriteJSON(snapshot(10))
		return true
	}}
	c := newConnectedClient(t, f.start(t))
	require.NoError(t, c.Subscribe(pair))
	require.Eventually(t, func() bool { return versionOf(c) == 10 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Unsubscribe(pair))

	_, ok := c.Snapshot(pair)
	assert.False(t, ok)
}
