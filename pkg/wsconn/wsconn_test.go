package wsconn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer echoes every message and records the live server-side
// connections so tests can drop them.
type echoServer struct {
	*httptest.Server
	mu    sync.Mutex
	conns []*websocket.Conn
}

func newEchoServer(t *testing.T) *echoServer {
	t.Helper()
	s := &echoServer{}
	upgrader := websocket.Upgrader{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *echoServer) url() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *echoServer) dropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

func TestConn_SendAndReceive(t *testing.T) {
	srv := newEchoServer(t)

	received := make(chan string, 1)
	c := New(srv.url(), WithOnMessage(func(data []byte) { received <- string(data) }))
	t.Cleanup(c.Disconnect)

	c.Connect(context.Background())
	require.Eventually(t, func() bool { return c.State() == Connected }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Send(map[string]string{"channel": "sequence"}))
	select {
	case msg := <-received:
		assert.JSONEq(t, `{"channel":"sequence"}`, msg)
	case <-time.After(time.Second):
		t.Fatal("no echo received")
	}
}

func TestConn_SendWhileDisconnected(t *testing.T) {
	c := New("ws://127.0.0.1:1")

	err := c.Send("ping")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ServiceUnavailable))
	assert.Equal(t, Disconnected, c.State())
}

func TestConn_ReconnectsAfterDrop(t *testing.T) {
	srv := newEchoServer(t)

	var connects atomic.Int32
	c := New(srv.url(),
		WithBaseDelay(time.Millisecond),
		WithOnConnect(func() { connects.Add(1) }),
	)
	t.Cleanup(c.Disconnect)

	c.Connect(context.Background())
	require.Eventually(t, func() bool { return connects.Load() == 1 }, time.Second, 5*time.Millisecond)

	srv.dropAll()

	require.Eventually(t, func() bool { return connects.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Connected, c.State())
}

func TestConn_FailsAfterMaxAttempts(t *testing.T) {
	srv := newEchoServer(t)
	url := srv.url()
	srv.Close()

	c := New(url, WithBaseDelay(time.Millisecond), WithMaxAttempts(3))
	t.Cleanup(c.Disconnect)

	c.Connect(context.Background())

	require.Eventually(t, func() bool { return c.State() == Failed }, time.Second, 5*time.Millisecond)
	assert.True(t, errors.IsCode(c.Send("ping"), errors.ServiceUnavailable))
}

// attemptCounter counts every Add regardless of labels.
type attemptCounter struct {
	n      *atomic.Int64
	target string
}

func (c *attemptCounter) With(labelValues ...string) metrics.Counter {
	return &attemptCounter{n: c.n, target: labelValues[len(labelValues)-1]}
}

func (c *attemptCounter) Add(delta float64) {
	if c.target != "" {
		c.n.Add(int64(delta))
	}
}

func TestConn_CountsRedialAttempts(t *testing.T) {
	srv := newEchoServer(t)
	url := srv.url()
	srv.Close()

	attempts := &attemptCounter{n: &atomic.Int64{}}
	c := New(url, WithBaseDelay(time.Millisecond), WithMaxAttempts(3), WithReconnectCounter(attempts))
	t.Cleanup(c.Disconnect)

	c.Connect(context.Background())

	require.Eventually(t, func() bool { return c.State() == Failed }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(3), attempts.n.Load())
}

func TestConn_Disconnect(t *testing.T) {
	srv := newEchoServer(t)

	c := New(srv.url())
	c.Connect(context.Background())
	require.Eventually(t, func() bool { return c.State() == Connected }, time.Second, 5*time.Millisecond)

	c.Disconnect()

	assert.Equal(t, Disconnected, c.State())
	assert.Error(t, c.Send("ping"))
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		Disconnected: "disconnected",
		Connecting:   "connecting",
		Connected:    "connected",
		Failed:       "failed",
		State(42):    "unknown",
	}
	for s, want := range tests {
		assert.Equal(t, want, s.String())
	}
}
