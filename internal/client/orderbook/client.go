// Package orderbook subscribes to relayed order books and keeps reconciled
// local copies of them.
package orderbook

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/internal/usecase/reconcile"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/wsconn"
)

// Client tracks a set of pairs over one relay connection.
type Client struct {
	conn    *wsconn.Conn
	cache   *reconcile.Cache
	logger  logger.Interface
	metrics *metrics.Metrics
}

// NewClient creates a disconnected client of the relay at url. listener,
// when not nil, is told about every synced snapshot change.
func NewClient(url string, log logger.Interface, m *metrics.Metrics, listener reconcile.Listener, opts ...wsconn.Option) *Client {
	c := &Client{logger: log, metrics: m}

	var cacheOpts []reconcile.Option
	if listener != nil {
		cacheOpts = append(cacheOpts, reconcile.WithListener(listener))
	}
	c.cache = reconcile.NewCache(c, log, cacheOpts...)

	opts = append(opts,
		wsconn.WithLogger(log),
		wsconn.WithReconnectCounter(m.ReconnectAttempts),
		wsconn.WithOnMessage(c.handleMessage),
		wsconn.WithOnConnect(c.resubscribeAll),
	)
	c.conn = wsconn.New(url, opts...)
	return c
}

// Connect starts connecting in the background.
func (c *Client) Connect(ctx context.Context) {
	c.conn.Connect(ctx)
}

// Disconnect closes the connection. Tracked pairs are kept.
func (c *Client) Disconnect() {
	c.conn.Disconnect()
}

// State returns the connection state.
func (c *Client) State() wsconn.State {
	return c.conn.State()
}

// Subscribe starts tracking pair. When the connection is down the error is
// returned but the pair stays tracked and is subscribed on reconnect.
func (c *Client) Subscribe(pair string) error {
	c.cache.Subscribe(pair)
	return c.send(protocolv1.MethodSub, pair)
}

// Unsubscribe stops tracking pair.
func (c *Client) Unsubscribe(pair string) error {
	c.cache.Unsubscribe(pair)
	return c.send(protocolv1.MethodUnsub, pair)
}

// Snapshot returns the synced snapshot of pair.
func (c *Client) Snapshot(pair string) (*orderbookv1.Snapshot, bool) {
	return c.cache.Snapshot(pair)
}

// Resubscribe asks the relay for a fresh snapshot of pair.
func (c *Client) Resubscribe(pair string) {
	c.metrics.Resubscribes.With("pair", pair).Add(1)
	if err := c.send(protocolv1.MethodSub, pair); err != nil {
		c.logger.Warn("resubscribe deferred to reconnect", logger.Pair(pair), logger.NewField("error", err.Error()))
	}
}

func (c *Client) send(method, pair string) error {
	return c.conn.Send(protocolv1.SubscribeRequest{
		Method:  method,
		Channel: protocolv1.ChannelOrderBooks,
		Pair:    pair,
	})
}

// resubscribeAll resets and resubscribes every tracked pair; updates missed
// while disconnected can only be recovered from a new snapshot.
func (c *Client) resubscribeAll() {
	for _, pair := range c.cache.Pairs() {
		c.cache.Subscribe(pair)
		if err := c.send(protocolv1.MethodSub, pair); err != nil {
			c.logger.Error(err, logger.Pair(pair), logger.Action("resubscribe"))
			return
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	msg, err := protocolv1.DecodeServerMessage(data)
	if err != nil {
		c.logger.Warn("skipping malformed server message", logger.NewField("error", err.Error()))
		return
	}

	switch m := msg.(type) {
	case *protocolv1.SnapshotMessage:
		c.cache.HandleSnapshot(m.OrderBookSnapshot)
	case *protocolv1.UpdateMessage:
		c.cache.HandleUpdate(m.OrderBookUpdate)
	case *protocolv1.ErrorMessage:
		c.logger.Warn("relay error", logger.Pair(m.Pair), logger.NewField("method", m.Method), logger.NewField("status", m.Status))
	case *protocolv1.OrderResponse:
		c.logger.Debug("ignoring order response", logger.Pair(m.Pair), logger.OrderHash(m.OrderHash))
	}
}
