package orderbook

import (
	"context"
	"sort"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/internal/usecase/orderbook"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// LoadLiveOrders rebuilds the book from the durable store, matches any
// crossing orders, publishes a fresh snapshot and then replays the updates
// buffered while loading.
func (s *Server) LoadLiveOrders(ctx context.Context) error {
	s.mu.Lock()
	s.state.LoadingOrders = true
	s.mu.Unlock()

	orders, err := s.persistence.GetAllLiveOrdersInPersistence(ctx, s.pair)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.rebuild(ctx, orders)
	}

	st := s.state
	st.LoadingOrders = false
	buffered := st.Buffered
	st.Buffered = nil
	for _, u := range buffered {
		s.handle(ctx, u)
	}
	return err
}

func (s *Server) rebuild(ctx context.Context, orders map[string]orderv1.LiveOrder) {
	st := s.state
	st.LiveOrders = orders
	st.ProcessedUpdates = make(map[string]int64, len(orders))
	var maxSequence int64
	for hash, o := range orders {
		st.ProcessedUpdates[hash] = o.CurrentSequence
		maxSequence = max(maxSequence, o.CurrentSequence)
	}
	st.OrderSnapshotSequence = max(st.OrderSnapshotSequence, maxSequence)
	st.Book = orderbook.ConstructOrderBook(orders)

	result := s.engine.FindMatchingOrders(s.pair, st.Book, st.LiveOrders, false)
	s.settle(ctx, result)

	st.Snapshot = orderbook.RenderOrderBookSnapshot(s.pair, s.nextVersion(), st.Book)
	s.metrics.SnapshotVersion.With("pair", s.pair).Set(float64(st.Snapshot.Version))
	if err := s.publisher.PublishSnapshot(ctx, st.Snapshot.Clone()); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.Action("publish_snapshot"))
	}
	s.logger.InfoContext(ctx, "order book loaded",
		logger.Pair(s.pair),
		logger.NewField("orders", len(orders)),
		logger.NewField("matches", len(result.MatchRequests)),
		logger.NewField("version", st.Snapshot.Version),
	)
}

// CheckCustodianState polls the custodian. While the pair is halted every
// resting order is terminated and only terminate mutations are accepted.
func (s *Server) CheckCustodianState(ctx context.Context) error {
	tradeable, err := s.custodian.Tradeable(ctx, s.pair)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Tradeable != tradeable {
		s.logger.InfoContext(ctx, "custodian state changed", logger.Pair(s.pair), logger.NewField("tradeable", tradeable))
	}
	st.Tradeable = tradeable
	if tradeable || len(st.LiveOrders) == 0 {
		return nil
	}

	s.publishUpdate(ctx, orderbook.ZeroAllLevels(st.Snapshot))

	orders := make([]orderv1.LiveOrder, 0, len(st.LiveOrders))
	for _, o := range st.LiveOrders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].InitialSequence < orders[j].InitialSequence })

	// orders whose terminate fails stay live and are retried on the next poll
	for _, o := range orders {
		uo, err := s.persistence.PersistOrder(ctx, orderv1.PersistRequest{
			Method:    orderv1.MethodTerminate,
			Pair:      s.pair,
			OrderHash: o.OrderHash,
			Requestor: s.options.Requestor,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.OrderHash(o.OrderHash), logger.Action("terminate_on_halt"))
			continue
		}
		delete(st.LiveOrders, o.OrderHash)
		st.ProcessedUpdates[o.OrderHash] = uo.CurrentSequence
	}
	st.Book = orderbook.ConstructOrderBook(map[string]orderv1.LiveOrder{})
	return nil
}
