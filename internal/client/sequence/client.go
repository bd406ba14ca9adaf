// Package sequence is the client side of the sequencer protocol.
package sequence

import (
	"context"
	"sync"
	"time"

	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/wsconn"
)

type result struct {
	sequence int64
	err      error
}

// Client asks a remote sequencer for sequences over one persistent
// connection. Responses for a pair arrive in request order.
type Client struct {
	conn   *wsconn.Conn
	logger logger.Interface

	mu      sync.Mutex
	pending map[string][]chan result
}

// NewClient creates a disconnected client of the sequencer at url.
func NewClient(url string, log logger.Interface, opts ...wsconn.Option) *Client {
	c := &Client{
		logger:  log,
		pending: map[string][]chan result{},
	}
	opts = append(opts,
		wsconn.WithLogger(log),
		wsconn.WithOnMessage(c.handleMessage),
		wsconn.WithOnConnect(c.reissue),
	)
	c.conn = wsconn.New(url, opts...)
	return c
}

// Connect starts connecting in the background.
func (c *Client) Connect(ctx context.Context) {
	c.conn.Connect(ctx)
}

// Disconnect closes the connection and fails every waiting request.
func (c *Client) Disconnect() {
	c.conn.Disconnect()

	c.mu.Lock()
	defer c.mu.Unlock()
	for pair, waiters := range c.pending {
		for _, ch := range waiters {
			ch <- result{err: errors.New(errors.ServiceUnavailable, "sequencer disconnected", "pair")}
		}
		delete(c.pending, pair)
	}
}

// WaitConnected blocks until the connection is up. It fails once the
// connection gives up redialing, is disconnected, or ctx ends.
func (c *Client) WaitConnected(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		switch state := c.conn.State(); state {
		case wsconn.Connected:
			return nil
		case wsconn.Failed, wsconn.Disconnected:
			return errors.New(errors.ServiceUnavailable, "sequencer is "+state.String(), "")
		}
		select {
		case <-ctx.Done():
			return errors.Transient("wait for sequencer", ctx.Err())
		case <-ticker.C:
		}
	}
}

// State returns the connection state.
func (c *Client) State() wsconn.State {
	return c.conn.State()
}

// NextSequence returns the next sequence of pair. It fails immediately with
// ServiceUnavailable while the connection is down. A request whose response
// is lost to a reconnect is sent again once the connection is back.
func (c *Client) NextSequence(ctx context.Context, pair string) (int64, error) {
	if state := c.conn.State(); state != wsconn.Connected {
		return 0, errors.New(errors.ServiceUnavailable, "sequencer is "+state.String(), "pair")
	}

	ch := make(chan result, 1)
	c.mu.Lock()
	c.pending[pair] = append(c.pending[pair], ch)
	c.mu.Unlock()

	if err := c.conn.Send(protocolv1.SequenceRequest{Channel: protocolv1.ChannelSequence, Method: pair}); err != nil {
		if !errors.IsCode(err, errors.TransientInfraError) {
			c.remove(pair, ch)
			return 0, err
		}
		// the write failed mid-flight; reissue resends it after reconnect
	}

	select {
	case r := <-ch:
		return r.sequence, r.err
	case <-ctx.Done():
		c.remove(pair, ch)
		return 0, ctx.Err()
	}
}

func (c *Client) remove(pair string, ch chan result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	waiters := c.pending[pair]
	for i, w := range waiters {
		if w == ch {
			c.pending[pair] = append(waiters[:i:i], waiters[i+1:]...)
			break
		}
	}
	if len(c.pending[pair]) == 0 {
		delete(c.pending, pair)
	}
}

func (c *Client) handleMessage(data []byte) {
	res, err := protocolv1.DecodeSequenceResponse(data)
	if err != nil {
		c.logger.Warn("skipping malformed sequence response", logger.NewField("error", err.Error()))
		return
	}

	c.mu.Lock()
	waiters := c.pending[res.Method]
	if len(waiters) == 0 {
		c.mu.Unlock()
		c.logger.Debug("sequence response without request", logger.Pair(res.Method))
		return
	}
	ch := waiters[0]
	c.pending[res.Method] = waiters[1:]
	if len(c.pending[res.Method]) == 0 {
		delete(c.pending, res.Method)
	}
	c.mu.Unlock()

	if res.Status != protocolv1.StatusOK {
		ch <- result{err: errors.New(errors.ErrorCode(res.Status), "sequencer rejected "+res.Method, "pair")}
		return
	}
	ch <- result{sequence: res.Sequence}
}

// reissue resends one request per waiter; responses to requests sent on the
// previous connection are lost with it.
func (c *Client) reissue() {
	c.mu.Lock()
	var requests []string
	for pair, waiters := range c.pending {
		for range waiters {
			requests = append(requests, pair)
		}
	}
	c.mu.Unlock()

	for _, pair := range requests {
		if err := c.conn.Send(protocolv1.SequenceRequest{Channel: protocolv1.ChannelSequence, Method: pair}); err != nil {
			c.logger.Error(err, logger.Pair(pair), logger.Action("reissue_sequence_request"))
			return
		}
	}
	if len(requests) > 0 {
		c.logger.Info("reissued sequence requests", logger.NewField("count", len(requests)))
	}
}
