// Package relay is the public WebSocket surface: order book subscriptions
// and order submission.
package relay

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	v9 "github.com/redis/go-redis/v9"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/internal/usecase/reconcile"
	"github.com/muhammadchandra19/relayer/pkg/httplib"
	"github.com/muhammadchandra19/relayer/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// SnapshotSource reads the stored snapshot of a pair and streams the
// snapshot and update messages published for it.
type SnapshotSource interface {
	Snapshot(ctx context.Context, pair string) (*orderbookv1.Snapshot, error)
	Subscribe(ctx context.Context, pairs ...string) (*v9.PubSub, error)
}

// Options tunes a Relay.
type Options struct {
	// Requestor is recorded as updatedBy on mutations submitted here.
	Requestor string
	Pairs     []string
	WriteWait time.Duration
	// ResyncInterval batches reloads of stored snapshots after a gap.
	ResyncInterval time.Duration
}

// DefaultOptions returns the default relay options.
func DefaultOptions() *Options {
	return &Options{
		Requestor: "relay",
		Pairs:     []string{"ZRX|WETH"},
		WriteWait: 10 * time.Second,

		ResyncInterval: time.Second,
	}
}

// Relay fans published order book messages out to subscribed sessions and
// forwards order mutations to the durable queue.
type Relay struct {
	persistence orderv1.Persistence
	userOrders  orderv1.UserOrderRepository
	snapshots   SnapshotSource
	cache       *reconcile.Cache
	logger      logger.Interface
	options     *Options
	pairs       map[string]struct{}
	upgrader    websocket.Upgrader
	resync      chan string

	mu          sync.RWMutex
	subscribers map[string]map[*session]struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRelay creates a Relay.
func NewRelay(
	p orderv1.Persistence,
	userOrders orderv1.UserOrderRepository,
	snapshots SnapshotSource,
	log logger.Interface,
	options *Options,
) *Relay {
	r := &Relay{
		persistence: p,
		userOrders:  userOrders,
		snapshots:   snapshots,
		logger:      log,
		options:     options,
		pairs:       make(map[string]struct{}, len(options.Pairs)),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		resync:      make(chan string, 64),
		subscribers: map[string]map[*session]struct{}{},
	}
	for _, pair := range options.Pairs {
		r.pairs[pair] = struct{}{}
	}
	r.cache = reconcile.NewCache(r, log)
	return r
}

// Handler returns the HTTP routes of the relay.
func (r *Relay) Handler(hc healthcheck.HealthCheck) http.Handler {
	router := httplib.NewRouter(hc)
	router.Get("/ws", r.serveWS)
	router.Route("/accounts/{account}", func(router chi.Router) {
		router.Get("/orders", r.listUserOrders)
	})
	return router
}

// Start subscribes to every served pair, seeds the local snapshots and
// starts relaying.
func (r *Relay) Start(ctx context.Context) error {
	sub, err := r.snapshots.Subscribe(ctx, r.options.Pairs...)
	if err != nil {
		return err
	}

	for _, pair := range r.options.Pairs {
		r.cache.Subscribe(pair)
		r.seed(ctx, pair)
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer sub.Close()
		r.run(ctx, sub.Channel())
	}()

	r.logger.Info("relay started", logger.NewField("pairs", r.options.Pairs))
	return nil
}

// Stop ends relaying and waits for it to finish.
func (r *Relay) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("relay stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("relay stop timeout exceeded")
		return ctx.Err()
	}
}

// Resubscribe schedules a reload of pair's stored snapshot after the local
// copy fell behind.
func (r *Relay) Resubscribe(pair string) {
	select {
	case r.resync <- pair:
	default:
		r.logger.Warn("resync already pending", logger.Pair(pair))
	}
}

func (r *Relay) seed(ctx context.Context, pair string) {
	s, err := r.snapshots.Snapshot(ctx, pair)
	if err != nil {
		r.logger.ErrorContext(ctx, err, logger.Pair(pair), logger.Action("load_snapshot"))
		return
	}
	if s != nil {
		r.cache.HandleSnapshot(s)
	}
}

func (r *Relay) run(ctx context.Context, messages <-chan *v9.Message) {
	ticker := time.NewTicker(r.options.ResyncInterval)
	defer ticker.Stop()

	stale := map[string]struct{}{}
	for {
		select {
		case <-ctx.Done():
			return
		case pair := <-r.resync:
			stale[pair] = struct{}{}
		case <-ticker.C:
			for pair := range stale {
				r.seed(ctx, pair)
			}
			clear(stale)
		case msg, ok := <-messages:
			if !ok {
				return
			}
			r.relay(ctx, []byte(msg.Payload))
		}
	}
}

// relay folds one published message into the local snapshot and forwards
// it unchanged to the pair's subscribers.
func (r *Relay) relay(ctx context.Context, payload []byte) {
	msg, err := protocolv1.DecodeServerMessage(payload)
	if err != nil {
		r.logger.WarnContext(ctx, "skipping malformed order book message", logger.NewField("error", err.Error()))
		return
	}

	var pair string
	switch m := msg.(type) {
	case *protocolv1.SnapshotMessage:
		pair = m.Pair
		r.cache.HandleSnapshot(m.OrderBookSnapshot)
	case *protocolv1.UpdateMessage:
		pair = m.Pair
		r.cache.HandleUpdate(m.OrderBookUpdate)
	default:
		return
	}

	r.mu.RLock()
	sessions := make([]*session, 0, len(r.subscribers[pair]))
	for s := range r.subscribers[pair] {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		if err := s.writeRaw(payload); err != nil {
			r.logger.DebugContext(ctx, "dropping slow or closed session", logger.Pair(pair))
			s.close()
		}
	}
}

// snapshot returns the freshest snapshot of pair known to the relay.
func (r *Relay) snapshot(ctx context.Context, pair string) (*orderbookv1.Snapshot, error) {
	if s, ok := r.cache.Snapshot(pair); ok {
		return s, nil
	}
	return r.snapshots.Snapshot(ctx, pair)
}

func (r *Relay) join(pair string, s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subscribers[pair] == nil {
		r.subscribers[pair] = map[*session]struct{}{}
	}
	r.subscribers[pair][s] = struct{}{}
}

func (r *Relay) leave(pair string, s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers[pair], s)
	if len(r.subscribers[pair]) == 0 {
		delete(r.subscribers, pair)
	}
}

func (r *Relay) leaveAll(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pair, sessions := range r.subscribers {
		delete(sessions, s)
		if len(sessions) == 0 {
			delete(r.subscribers, pair)
		}
	}
}

func (r *Relay) serves(pair string) bool {
	_, ok := r.pairs[pair]
	return ok
}
