// Package orderbook runs the authoritative order book of one pair: it folds
// sequenced mutations into the book, matches crossing orders and publishes
// snapshots and deltas.
package orderbook

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/internal/usecase/matching"
	"github.com/muhammadchandra19/relayer/internal/usecase/persistence"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis"
	"github.com/muhammadchandra19/relayer/pkg/util"
	v9 "github.com/redis/go-redis/v9"
)

// Options tunes a Server.
type Options struct {
	// Requestor identifies mutations this server persists so it can ignore
	// them when they come back on the update channel.
	Requestor         string
	CustodianInterval time.Duration
	ReloadInterval    time.Duration
}

// DefaultOptions returns the default server options.
func DefaultOptions() *Options {
	return &Options{
		Requestor:         "orderbook",
		CustodianInterval: 10 * time.Second,
		ReloadInterval:    5 * time.Minute,
	}
}

// Server owns the book of one pair.
type Server struct {
	pair        string
	redis       redis.Client
	persistence orderv1.Persistence
	publisher   orderbookv1.Publisher
	custodian   orderbookv1.Custodian
	engine      *matching.Engine
	logger      logger.Interface
	metrics     *metrics.Metrics
	options     *Options
	now         func() int64

	mu    sync.Mutex
	state *State

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a Server for pair.
func NewServer(
	pair string,
	rdb redis.Client,
	p orderv1.Persistence,
	publisher orderbookv1.Publisher,
	custodian orderbookv1.Custodian,
	engine *matching.Engine,
	log logger.Interface,
	m *metrics.Metrics,
	options *Options,
) *Server {
	return &Server{
		pair:        pair,
		redis:       rdb,
		persistence: p,
		publisher:   publisher,
		custodian:   custodian,
		engine:      engine,
		logger:      log,
		metrics:     m,
		options:     options,
		now:         util.NowMillis,
		state:       newState(pair),
	}
}

// Start subscribes to the pair's order updates, loads the book, checks the
// custodian and starts the periodic loops. A custodian configuration error
// is returned before anything runs.
func (s *Server) Start(ctx context.Context) error {
	tradeable, err := s.custodian.Tradeable(ctx, s.pair)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Tradeable = tradeable
	s.mu.Unlock()

	sub, err := s.redis.Subscribe(ctx, persistence.OrderUpdateChannel(s.redis.Config(), s.pair))
	if err != nil {
		return err
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer sub.Close()
		s.consume(ctx, sub.Channel())
	}()

	if err := s.LoadLiveOrders(ctx); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.Action("load_live_orders"))
	}
	if err := s.CheckCustodianState(ctx); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.Action("check_custodian"))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()

	s.logger.Info("order book server started", logger.Pair(s.pair), logger.NewField("requestor", s.options.Requestor))
	return nil
}

// Stop cancels the loops and waits for them to return.
func (s *Server) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("order book server stopped", logger.Pair(s.pair))
		return nil
	case <-ctx.Done():
		s.logger.Warn("order book server stop timeout exceeded", logger.Pair(s.pair))
		return ctx.Err()
	}
}

func (s *Server) consume(ctx context.Context, messages <-chan *v9.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var update orderv1.OrderUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				s.logger.WarnContext(ctx, "skipping malformed order update", logger.Pair(s.pair))
				continue
			}
			s.HandleOrderUpdate(ctx, update)
		}
	}
}

// run re-polls the custodian and reloads the book on fixed intervals.
func (s *Server) run(ctx context.Context) {
	custodianTicker := time.NewTicker(s.options.CustodianInterval)
	defer custodianTicker.Stop()
	reloadTicker := time.NewTicker(s.options.ReloadInterval)
	defer reloadTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-custodianTicker.C:
			if err := s.CheckCustodianState(ctx); err != nil {
				s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.Action("check_custodian"))
			}
		case <-reloadTicker.C:
			if err := s.LoadLiveOrders(ctx); err != nil {
				s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.Action("load_live_orders"))
			}
		}
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Server) Snapshot() *orderbookv1.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot.Clone()
}

// nextVersion is max(now, previous+1) so versions grow even when the clock
// does not.
func (s *Server) nextVersion() int64 {
	return max(s.now(), s.state.Snapshot.Version+1)
}
