// Package persistence is the durable order queue: mutations are staged in
// Redis, applied to PostgreSQL by a worker and read back through a view that
// lets staged state override stored state.
package persistence

import (
	"context"
	"encoding/json"
	"sort"

	v9 "github.com/redis/go-redis/v9"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/muhammadchandra19/relayer/pkg/redis"
	"github.com/muhammadchandra19/relayer/pkg/util"
)

// Repositories groups the table store the queue drains into.
type Repositories struct {
	Live  orderv1.LiveOrderRepository
	Raw   orderv1.RawOrderRepository
	Audit orderv1.UserOrderRepository
}

// Publishers groups the downstream event sinks.
type Publishers struct {
	UserOrders orderv1.UserOrderPublisher
	Matches    orderv1.MatchPublisher
}

// Persistence implements orderv1.Persistence and the queue workers.
type Persistence struct {
	redis      redis.Client
	tx         postgresql.Transactor
	repos      Repositories
	publishers Publishers
	sequencer  orderv1.Sequencer
	logger     logger.Interface
	metrics    *metrics.Metrics
	now        func() int64
}

var _ orderv1.Persistence = (*Persistence)(nil)

// Option configures a Persistence.
type Option func(*Persistence)

// WithClock overrides the millisecond clock used for timestamps.
func WithClock(now func() int64) Option {
	return func(p *Persistence) {
		p.now = now
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Persistence) {
		p.metrics = m
	}
}

// NewPersistence creates a new Persistence.
func NewPersistence(
	rdb redis.Client,
	tx postgresql.Transactor,
	repos Repositories,
	publishers Publishers,
	sequencer orderv1.Sequencer,
	log logger.Interface,
	opts ...Option,
) *Persistence {
	p := &Persistence{
		redis:      rdb,
		tx:         tx,
		repos:      repos,
		publishers: publishers,
		sequencer:  sequencer,
		logger:     log,
		metrics:    metrics.NopMetrics(),
		now:        util.NowMillis,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PersistOrder validates req against the current view, sequences it and
// stages the resulting LiveOrder. The returned UserOrder is the audit row of
// the mutation.
func (p *Persistence) PersistOrder(ctx context.Context, req orderv1.PersistRequest) (*orderv1.UserOrder, error) {
	if !req.Method.Valid() {
		return nil, errors.New(errors.ValidationError, "unknown method "+string(req.Method), "method")
	}
	if req.Pair == "" || req.OrderHash == "" {
		return nil, errors.New(errors.ValidationError, "pair and orderHash are required", "orderHash")
	}

	current, err := p.GetLiveOrderInPersistence(ctx, req.Pair, req.OrderHash)
	if err != nil {
		return nil, err
	}
	switch {
	case req.Method == orderv1.MethodAdd && current != nil:
		return nil, errors.New(errors.ValidationError, "order already exists", "orderHash")
	case req.Method != orderv1.MethodAdd && current == nil:
		return nil, errors.New(errors.ValidationError, "order does not exist", "orderHash")
	case req.Method == orderv1.MethodAdd && req.Order == nil:
		return nil, errors.New(errors.ValidationError, "order is required", "order")
	}
	if req.Method == orderv1.MethodAdd {
		raw, err := p.repos.Raw.Get(ctx, req.OrderHash)
		if err != nil {
			return nil, err
		}
		if raw != nil && raw.TerminatedSequence > 0 {
			return nil, errors.New(errors.ValidationError, "order was terminated", "orderHash")
		}
	}

	seq, err := p.sequencer.NextSequence(ctx, req.Pair)
	if err != nil {
		if errors.IsCode(err, errors.UnknownPair) || errors.IsCode(err, errors.ServiceUnavailable) {
			return nil, err
		}
		return nil, errors.NewTracer("next sequence").Wrap(
			errors.New(errors.ServiceUnavailable, "sequencer unavailable: "+err.Error(), "sequence"))
	}

	order, err := p.buildLiveOrder(req, current, seq)
	if err != nil {
		return nil, err
	}

	item := orderv1.QueueItem{Method: req.Method, LiveOrder: order, SignedOrder: req.SignedOrder}
	if err := p.stage(ctx, item); err != nil {
		return nil, err
	}

	p.publishOrderUpdate(ctx, orderv1.OrderUpdate{Method: req.Method, LiveOrder: order, Requestor: req.Requestor})

	userOrder := orderv1.NewUserOrder(order, req.Method, req.Requestor)
	p.recordUserOrder(ctx, userOrder)
	return &userOrder, nil
}

func (p *Persistence) buildLiveOrder(req orderv1.PersistRequest, current *orderv1.LiveOrder, seq int64) (orderv1.LiveOrder, error) {
	now := p.now()

	var order orderv1.LiveOrder
	switch req.Method {
	case orderv1.MethodAdd:
		order = *req.Order
		order.Pair = req.Pair
		order.OrderHash = req.OrderHash
		order.Balance = order.Amount
		order.Matching = 0
		order.Fill = 0
		order.CreatedAt = now
		order.InitialSequence = seq
	case orderv1.MethodUpdate:
		order = *current
		order.Balance = req.Balance
		order.Matching = req.Matching
		order.Fill = req.Fill
	case orderv1.MethodTerminate:
		order = *current
	}
	order.UpdatedAt = now
	order.CurrentSequence = seq

	if err := order.Validate(); err != nil {
		return orderv1.LiveOrder{}, err
	}
	return order, nil
}

// stage writes the cache entry and appends its key to the queue in one
// MULTI/EXEC.
func (p *Persistence) stage(ctx context.Context, item orderv1.QueueItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return errors.TracerFromError(err)
	}

	keys := orderKeys(p.redis.Config(), item.LiveOrder.Pair)
	field := item.CacheKey()
	return p.redis.TxPipelined(ctx, func(pipe v9.Pipeliner) error {
		pipe.HSet(ctx, keys.cache, field, payload)
		pipe.RPush(ctx, keys.queue, field)
		return nil
	})
}

func (p *Persistence) publishOrderUpdate(ctx context.Context, update orderv1.OrderUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		p.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.Pair(update.LiveOrder.Pair))
		return
	}
	if _, err := p.redis.Publish(ctx, OrderUpdateChannel(p.redis.Config(), update.LiveOrder.Pair), payload); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Pair(update.LiveOrder.Pair),
			logger.OrderHash(update.LiveOrder.OrderHash),
		)
	}
}

// recordUserOrder writes the audit row and emits it downstream. The mutation
// is already staged, so failures are logged rather than returned.
func (p *Persistence) recordUserOrder(ctx context.Context, userOrder orderv1.UserOrder) {
	if err := p.repos.Audit.Insert(ctx, userOrder); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Pair(userOrder.Pair), logger.OrderHash(userOrder.OrderHash))
	}
	if err := p.publishers.UserOrders.PublishUserOrder(ctx, userOrder); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Pair(userOrder.Pair), logger.OrderHash(userOrder.OrderHash))
	}
}

// GetLiveOrderInPersistence returns the order as the queue will leave it:
// a staged terminate hides it, a staged update or add wins over the table
// store. It returns nil when the order is unknown or terminated.
func (p *Persistence) GetLiveOrderInPersistence(ctx context.Context, pair, orderHash string) (*orderv1.LiveOrder, error) {
	keys := orderKeys(p.redis.Config(), pair)

	for _, method := range []orderv1.Method{orderv1.MethodTerminate, orderv1.MethodUpdate, orderv1.MethodAdd} {
		payload, err := p.redis.HGet(ctx, keys.cache, orderv1.CacheKey(method, orderHash))
		if err != nil {
			return nil, err
		}
		if payload == "" {
			continue
		}
		if method == orderv1.MethodTerminate {
			return nil, nil
		}
		var item orderv1.QueueItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, errors.New(errors.ValidationError, "malformed cache entry: "+err.Error(), "orderHash")
		}
		return &item.LiveOrder, nil
	}

	return p.repos.Live.Get(ctx, pair, orderHash)
}

// GetAllLiveOrdersInPersistence returns every live order of pair keyed by
// orderHash, with staged mutations folded over the table store in sequence
// order.
func (p *Persistence) GetAllLiveOrdersInPersistence(ctx context.Context, pair string) (map[string]orderv1.LiveOrder, error) {
	stored, err := p.repos.Live.ListByPair(ctx, pair)
	if err != nil {
		return nil, err
	}
	orders := make(map[string]orderv1.LiveOrder, len(stored))
	for _, o := range stored {
		orders[o.OrderHash] = o
	}

	staged, err := p.redis.HGetAll(ctx, orderKeys(p.redis.Config(), pair).cache)
	if err != nil {
		return nil, err
	}
	items := make([]orderv1.QueueItem, 0, len(staged))
	for field, payload := range staged {
		var item orderv1.QueueItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			p.logger.WarnContext(ctx, "skipping malformed cache entry", logger.Pair(pair), logger.NewField("field", field))
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LiveOrder.CurrentSequence < items[j].LiveOrder.CurrentSequence
	})

	for _, item := range items {
		hash := item.LiveOrder.OrderHash
		if item.Method == orderv1.MethodTerminate {
			delete(orders, hash)
			continue
		}
		if existing, ok := orders[hash]; ok && existing.CurrentSequence >= item.LiveOrder.CurrentSequence {
			continue
		}
		orders[hash] = item.LiveOrder
	}
	return orders, nil
}
