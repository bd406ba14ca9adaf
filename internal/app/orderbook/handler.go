package orderbook

import (
	"context"
	"slices"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/relayer/internal/usecase/matching"
	"github.com/muhammadchandra19/relayer/internal/usecase/orderbook"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// HandleOrderUpdate folds one staged mutation into the book. Mutations that
// arrive while the book is being rebuilt are buffered and replayed after it.
func (s *Server) HandleOrderUpdate(ctx context.Context, update orderv1.OrderUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Requestor == s.options.Requestor {
		s.drop(dropOwn)
		return
	}
	if s.state.LoadingOrders {
		s.state.Buffered = append(s.state.Buffered, update)
		return
	}
	s.handle(ctx, update)
}

func (s *Server) handle(ctx context.Context, update orderv1.OrderUpdate) {
	st := s.state
	o := update.LiveOrder
	seq := o.CurrentSequence

	switch {
	case !update.Method.Valid():
		s.drop(dropUnknownMethod)
		return
	case !st.Tradeable && update.Method != orderv1.MethodTerminate:
		s.drop(dropHalted)
		return
	case seq <= st.OrderSnapshotSequence:
		s.drop(dropStale)
		return
	case st.ProcessedUpdates[o.OrderHash] >= seq:
		s.drop(dropDuplicate)
		return
	}

	prev, existed := st.LiveOrders[o.OrderHash]
	if update.Method == orderv1.MethodTerminate && !existed {
		st.ProcessedUpdates[o.OrderHash] = seq
		s.drop(dropAbsent)
		return
	}

	var updates []orderbookv1.UpdateLevel
	if update.Method == orderv1.MethodTerminate {
		delete(st.LiveOrders, o.OrderHash)
		countDelta := orderbook.UpdateOrderBook(st.Book, orderbook.LevelOf(prev), prev.IsBid(), true)
		if countDelta != 0 {
			updates = append(updates, orderbook.LevelUpdate(prev.Price, prev.Balance, 0, countDelta, prev.IsBid()))
		}
	} else {
		st.LiveOrders[o.OrderHash] = o
		var prevBalance float64
		if existed && !orderbook.IsEmpty(prev.Balance) {
			prevBalance = prev.Balance
		}
		countDelta := orderbook.UpdateOrderBook(st.Book, orderbook.LevelOf(o), o.IsBid(), false)
		if countDelta != 0 || !orderbook.IsEmpty(o.Balance-prevBalance) {
			updates = append(updates, orderbook.LevelUpdate(o.Price, prevBalance, o.Balance, countDelta, o.IsBid()))
		}
	}
	st.ProcessedUpdates[o.OrderHash] = seq
	s.metrics.MutationsApplied.With("pair", s.pair, "method", string(update.Method)).Add(1)

	if update.Method != orderv1.MethodTerminate && !orderbook.IsEmpty(o.Balance) {
		result := s.engine.FindMatchingOrders(s.pair, st.Book, st.LiveOrders, true)
		for _, c := range result.LevelUpdates {
			countDelta := orderbook.UpdateOrderBook(st.Book, c.Level, c.IsBid, false)
			updates = append(updates, orderbook.LevelUpdate(c.Level.Price, c.PrevBalance, c.Level.Balance, countDelta, c.IsBid))
		}
		s.settle(ctx, result)
	}

	s.publishUpdate(ctx, updates)
}

// settle persists the new balances of every matched order and stages the
// matches for settlement. Matches are only staged once all balances are
// durable.
func (s *Server) settle(ctx context.Context, result matching.Result) {
	if len(result.MatchRequests) == 0 {
		return
	}
	for _, hash := range matchedOrders(result.MatchRequests) {
		if err := s.persistBalance(ctx, hash); err != nil {
			s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.OrderHash(hash), logger.Action("persist_match"))
			return
		}
	}
	if err := s.persistence.AddMatchingOrders(ctx, s.pair, result.MatchRequests); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.Action("add_matching_orders"))
	}
}

func (s *Server) persistBalance(ctx context.Context, hash string) error {
	o := s.state.LiveOrders[hash]
	uo, err := s.persistence.PersistOrder(ctx, orderv1.PersistRequest{
		Method:    orderv1.MethodUpdate,
		Pair:      s.pair,
		OrderHash: hash,
		Balance:   o.Balance,
		Matching:  o.Matching,
		Fill:      o.Fill,
		Requestor: s.options.Requestor,
	})
	if err != nil {
		return err
	}
	o.CurrentSequence = uo.CurrentSequence
	o.UpdatedAt = uo.UpdatedAt
	s.state.LiveOrders[hash] = o
	s.state.ProcessedUpdates[hash] = uo.CurrentSequence
	return nil
}

// matchedOrders lists every order taking part in matches, in first-seen order.
func matchedOrders(matches []orderv1.MatchRequest) []string {
	var hashes []string
	for _, m := range matches {
		for _, h := range []string{m.Left.OrderHash, m.Right.OrderHash} {
			if !slices.Contains(hashes, h) {
				hashes = append(hashes, h)
			}
		}
	}
	return hashes
}

func (s *Server) publishUpdate(ctx context.Context, updates []orderbookv1.UpdateLevel) {
	if len(updates) == 0 {
		return
	}
	st := s.state
	update := &orderbookv1.SnapshotUpdate{
		Pair:        s.pair,
		Updates:     updates,
		PrevVersion: st.Snapshot.Version,
		Version:     s.nextVersion(),
	}
	if err := orderbook.UpdateOrderBookSnapshot(st.Snapshot, update); err != nil {
		s.logger.ErrorContext(ctx, errors.NewTracer("apply update to own snapshot").Wrap(err), logger.Pair(s.pair))
		return
	}
	s.metrics.SnapshotVersion.With("pair", s.pair).Set(float64(st.Snapshot.Version))
	if err := s.publisher.PublishUpdate(ctx, update, st.Snapshot.Clone()); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Pair(s.pair), logger.Action("publish_update"))
	}
}

func (s *Server) drop(reason string) {
	s.metrics.MutationsDropped.With("pair", s.pair, "reason", reason).Add(1)
}
