package matching

import (
	"time"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/relayer/internal/usecase/orderbook"
	"github.com/oklog/ulid/v2"
)

// BookChange is the new state of one order touched by matching.
type BookChange struct {
	Level       orderbookv1.Level
	IsBid       bool
	PrevBalance float64
}

// Result of a matching pass. LevelUpdates is only filled for incremental
// passes.
type Result struct {
	MatchRequests []orderv1.MatchRequest
	LevelUpdates  []BookChange
}

// Engine finds crossing orders of a book.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for expiry checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how match ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates a new matching engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindMatchingOrders walks both sides in price-time priority while the best
// bid crosses the best ask. Each fill is min(bid.balance, ask.balance); both
// LiveOrders in liveOrders lose that balance and gain it as matching.
// Expired orders and crosses between orders of the same account are skipped.
//
// With incremental set the book is left untouched and the changed levels are
// returned for the caller to apply and publish. Without it the changes are
// applied to book directly and LevelUpdates is empty.
func (e *Engine) FindMatchingOrders(
	pair string,
	book *orderbookv1.OrderBook,
	liveOrders map[string]orderv1.LiveOrder,
	incremental bool,
) Result {
	now := e.now()
	nowMs := now.UnixMilli()

	var (
		result  Result
		changes []BookChange
		index   = map[string]int{}
	)
	record := func(o orderv1.LiveOrder, prev float64) {
		if i, ok := index[o.OrderHash]; ok {
			changes[i].Level.Balance = o.Balance
			return
		}
		index[o.OrderHash] = len(changes)
		changes = append(changes, BookChange{Level: orderbook.LevelOf(o), IsBid: o.IsBid(), PrevBalance: prev})
	}

	tradeable := func(level orderbookv1.Level) (orderv1.LiveOrder, bool) {
		o, ok := liveOrders[level.OrderHash]
		if !ok || orderbook.IsEmpty(o.Balance) || o.IsExpired(nowMs) {
			return o, false
		}
		return o, true
	}

	bi, ai := 0, 0
	for bi < len(book.Bids) && ai < len(book.Asks) {
		bid, ok := tradeable(book.Bids[bi])
		if !ok {
			bi++
			continue
		}
		best, ok := tradeable(book.Asks[ai])
		if !ok {
			ai++
			continue
		}
		if bid.Price < best.Price {
			break
		}
		// An ask of the bid's own account stays in place for later bids.
		ask, ok := counterAsk(book.Asks[ai:], bid, tradeable)
		if !ok {
			bi++
			continue
		}

		fill := min(bid.Balance, ask.Balance)
		price := ask.Price
		if bid.InitialSequence < ask.InitialSequence {
			price = bid.Price
		}

		bidPrev, askPrev := bid.Balance, ask.Balance
		bid.Balance -= fill
		bid.Matching += fill
		ask.Balance -= fill
		ask.Matching += fill
		if orderbook.IsEmpty(bid.Balance) {
			bid.Balance = 0
		}
		if orderbook.IsEmpty(ask.Balance) {
			ask.Balance = 0
		}
		liveOrders[bid.OrderHash] = bid
		liveOrders[ask.OrderHash] = ask
		record(bid, bidPrev)
		record(ask, askPrev)

		result.MatchRequests = append(result.MatchRequests, orderv1.MatchRequest{
			ID:        e.newID(),
			Pair:      pair,
			Left:      orderv1.MatchSide{OrderHash: bid.OrderHash, Balance: fill},
			Right:     orderv1.MatchSide{OrderHash: ask.OrderHash, Balance: fill},
			Price:     price,
			CreatedAt: nowMs,
		})

		if bid.Balance == 0 {
			bi++
		}
	}

	if incremental {
		result.LevelUpdates = changes
		return result
	}
	for _, c := range changes {
		orderbook.UpdateOrderBook(book, c.Level, c.IsBid, false)
	}
	return result
}

// counterAsk returns the first tradeable ask in asks that crosses bid and
// belongs to another account.
func counterAsk(
	asks []orderbookv1.Level,
	bid orderv1.LiveOrder,
	tradeable func(orderbookv1.Level) (orderv1.LiveOrder, bool),
) (orderv1.LiveOrder, bool) {
	for _, level := range asks {
		ask, ok := tradeable(level)
		if !ok {
			continue
		}
		if bid.Price < ask.Price {
			break
		}
		if ask.Account != bid.Account {
			return ask, true
		}
	}
	return orderv1.LiveOrder{}, false
}
