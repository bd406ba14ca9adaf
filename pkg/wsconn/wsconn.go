// Package wsconn keeps an outbound WebSocket connection open, redialing with
// a linear backoff after it drops.
package wsconn

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// State is the lifecycle state of a Conn.
type State int

const (
	// Disconnected is the initial state and the state after Disconnect.
	Disconnected State = iota
	// Connecting means a dial is in progress or a redial is waiting out its backoff.
	Connecting
	// Connected means messages can be sent.
	Connected
	// Failed means every redial attempt failed. Only Connect leaves it.
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	}
	return "unknown"
}

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = time.Second
	defaultWriteWait   = 10 * time.Second
)

// Conn is a supervised WebSocket connection. Its methods are safe for use by
// multiple goroutines.
type Conn struct {
	url         string
	dialer      *websocket.Dialer
	maxAttempts int
	baseDelay   time.Duration
	writeWait   time.Duration
	onMessage   func(data []byte)
	onConnect   func()
	logger      logger.Interface
	reconnects  metrics.Counter

	mu     sync.Mutex
	state  State
	conn   *websocket.Conn
	cancel context.CancelFunc
	wg     sync.WaitGroup

	writeMu sync.Mutex
}

// Option configures a Conn.
type Option func(*Conn)

// WithMaxAttempts sets how many redials are made before giving up.
func WithMaxAttempts(n int) Option {
	return func(c *Conn) { c.maxAttempts = n }
}

// WithBaseDelay sets the backoff unit: attempt n waits n times delay.
func WithBaseDelay(delay time.Duration) Option {
	return func(c *Conn) { c.baseDelay = delay }
}

// WithWriteWait bounds the time a single Send may take.
func WithWriteWait(d time.Duration) Option {
	return func(c *Conn) { c.writeWait = d }
}

// WithOnMessage registers the handler of every received message. It runs on
// the reading goroutine.
func WithOnMessage(fn func(data []byte)) Option {
	return func(c *Conn) { c.onMessage = fn }
}

// WithOnConnect registers a hook run after every successful dial, before any
// message is read.
func WithOnConnect(fn func()) Option {
	return func(c *Conn) { c.onConnect = fn }
}

// WithLogger sets the logger.
func WithLogger(log logger.Interface) Option {
	return func(c *Conn) { c.logger = log }
}

// WithReconnectCounter counts redial attempts, labelled by target url.
func WithReconnectCounter(counter metrics.Counter) Option {
	return func(c *Conn) { c.reconnects = counter }
}

// New returns a disconnected Conn to url.
func New(url string, opts ...Option) *Conn {
	c := &Conn{
		url:         url,
		dialer:      websocket.DefaultDialer,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		writeWait:   defaultWriteWait,
		onMessage:   func([]byte) {},
		onConnect:   func() {},
		logger:      logger.NewNopLogger(),
		reconnects:  discard.NewCounter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect starts the supervisor. It is a no-op unless the Conn is
// Disconnected or Failed.
func (c *Conn) Connect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Disconnected && c.state != Failed {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.state = Connecting
	c.wg.Add(1)
	go c.supervise(ctx)
}

// Disconnect stops the supervisor and closes the connection.
func (c *Conn) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	c.setState(Disconnected)
}

// Send writes v as JSON. It fails with ServiceUnavailable unless Connected.
func (c *Conn) Send(v any) error {
	c.mu.Lock()
	conn, state := c.conn, c.state
	c.mu.Unlock()
	if state != Connected || conn == nil {
		return errors.New(errors.ServiceUnavailable, "connection to "+c.url+" is "+state.String(), "")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.writeWait > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	}
	if err := conn.WriteJSON(v); err != nil {
		// the reader sees the close and the supervisor redials
		_ = conn.Close()
		return errors.Transient("websocket write", err)
	}
	return nil
}

func (c *Conn) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Conn) supervise(ctx context.Context) {
	defer c.wg.Done()

	conn, err := c.dial(ctx)
	for {
		if err != nil {
			conn, err = c.redial(ctx)
			if err != nil {
				if ctx.Err() == nil {
					c.setState(Failed)
					c.logger.Error(errors.NewTracer("giving up on "+c.url).Wrap(err), logger.NewField("attempts", c.maxAttempts))
				}
				return
			}
		}

		c.serve(ctx, conn)
		if ctx.Err() != nil {
			return
		}
		c.setState(Connecting)
		c.logger.Warn("connection dropped", logger.NewField("url", c.url))
		err = errors.New(errors.TransientInfraError, "connection dropped", "")
	}
}

func (c *Conn) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, errors.Transient("websocket dial", err)
	}
	return conn, nil
}

// redial tries up to maxAttempts times, waiting attempt times baseDelay
// before each try.
func (c *Conn) redial(ctx context.Context) (*websocket.Conn, error) {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.reconnects.With("target", c.url).Add(1)

		timer := time.NewTimer(c.baseDelay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		var conn *websocket.Conn
		conn, err = c.dial(ctx)
		if err == nil {
			c.logger.Info("reconnected", logger.NewField("url", c.url), logger.NewField("attempt", attempt))
			return conn, nil
		}
		c.logger.Warn("failed to redial", logger.NewField("url", c.url), logger.NewField("attempt", attempt))
	}
	return nil, err
}

// serve marks conn as current and reads from it until it fails or ctx ends.
func (c *Conn) serve(ctx context.Context, conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.state = Connected
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		c.writeMu.Lock()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		_ = conn.Close()
	})
	defer func() {
		stop()
		_ = conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	c.onConnect()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.onMessage(data)
	}
}
