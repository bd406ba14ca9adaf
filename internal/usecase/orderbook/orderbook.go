// Package orderbook builds and maintains the priced ladder of a pair. Every
// function here is pure; callers own the book and serialise access to it.
package orderbook

import (
	"sort"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
)

// Dust is the balance under which a level counts as empty.
const Dust = 1e-9

// IsEmpty reports whether balance is zero within Dust.
func IsEmpty(balance float64) bool {
	return balance <= Dust
}

// before reports whether a sorts ahead of b on its side.
func before(a, b orderbookv1.Level, isBid bool) bool {
	if a.Price != b.Price {
		if isBid {
			return a.Price > b.Price
		}
		return a.Price < b.Price
	}
	return a.InitialSequence < b.InitialSequence
}

// ConstructOrderBook builds both sides from scratch, leaving out orders
// without balance.
func ConstructOrderBook(liveOrders map[string]orderv1.LiveOrder) *orderbookv1.OrderBook {
	book := &orderbookv1.OrderBook{
		Bids: []orderbookv1.Level{},
		Asks: []orderbookv1.Level{},
	}
	for _, o := range liveOrders {
		if IsEmpty(o.Balance) {
			continue
		}
		level := LevelOf(o)
		if o.IsBid() {
			book.Bids = append(book.Bids, level)
		} else {
			book.Asks = append(book.Asks, level)
		}
	}
	sort.SliceStable(book.Bids, func(i, j int) bool { return before(book.Bids[i], book.Bids[j], true) })
	sort.SliceStable(book.Asks, func(i, j int) bool { return before(book.Asks[i], book.Asks[j], false) })
	return book
}

// LevelOf returns the book level of a live order.
func LevelOf(o orderv1.LiveOrder) orderbookv1.Level {
	return orderbookv1.Level{
		OrderHash:       o.OrderHash,
		Price:           o.Price,
		Balance:         o.Balance,
		InitialSequence: o.InitialSequence,
	}
}

func indexOf(levels []orderbookv1.Level, level orderbookv1.Level, isBid bool) (int, bool) {
	i := sort.Search(len(levels), func(i int) bool { return !before(levels[i], level, isBid) })
	if i < len(levels) && levels[i].OrderHash == level.OrderHash {
		return i, true
	}
	for j := range levels {
		if levels[j].OrderHash == level.OrderHash {
			return j, true
		}
	}
	return i, false
}

// UpdateOrderBook applies level to the book and returns the change in the
// number of orders: +1 for an insert, 0 for an in-place balance update or
// a no-op, -1 when the level is removed because it was terminated or its
// balance reached zero.
func UpdateOrderBook(book *orderbookv1.OrderBook, level orderbookv1.Level, isBid, isTerminate bool) int {
	side := &book.Asks
	if isBid {
		side = &book.Bids
	}
	levels := *side

	i, found := indexOf(levels, level, isBid)
	if found {
		if isTerminate || IsEmpty(level.Balance) {
			*side = append(levels[:i], levels[i+1:]...)
			return -1
		}
		levels[i].Balance = level.Balance
		return 0
	}

	if isTerminate || IsEmpty(level.Balance) {
		return 0
	}
	levels = append(levels, orderbookv1.Level{})
	copy(levels[i+1:], levels[i:])
	levels[i] = level
	*side = levels
	return 1
}

func aggregate(levels []orderbookv1.Level) []orderbookv1.SnapshotLevel {
	out := []orderbookv1.SnapshotLevel{}
	for _, l := range levels {
		if IsEmpty(l.Balance) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Price == l.Price {
			out[n-1].Balance += l.Balance
			out[n-1].Count++
			continue
		}
		out = append(out, orderbookv1.SnapshotLevel{Price: l.Price, Balance: l.Balance, Count: 1})
	}
	return out
}

// RenderOrderBookSnapshot aggregates the book into price levels.
func RenderOrderBookSnapshot(pair string, version int64, book *orderbookv1.OrderBook) *orderbookv1.Snapshot {
	return &orderbookv1.Snapshot{
		Pair:    pair,
		Version: version,
		Bids:    aggregate(book.Bids),
		Asks:    aggregate(book.Asks),
	}
}

// UpdateOrderBookSnapshot applies update to snapshot in place. The update is
// rejected unless update.PrevVersion equals snapshot.Version: older updates
// fail with a StaleError, newer ones with a GapError.
func UpdateOrderBookSnapshot(snapshot *orderbookv1.Snapshot, update *orderbookv1.SnapshotUpdate) error {
	switch {
	case update.PrevVersion < snapshot.Version:
		return errors.New(errors.StaleError, "update already applied", "prevVersion")
	case update.PrevVersion > snapshot.Version:
		return errors.New(errors.GapError, "update does not follow snapshot", "prevVersion")
	}

	for _, u := range update.Updates {
		isBid := u.Side == orderbookv1.SideBid
		side := &snapshot.Asks
		if isBid {
			side = &snapshot.Bids
		}
		*side = applyLevel(*side, u, isBid)
	}
	snapshot.Version = update.Version
	return nil
}

func applyLevel(levels []orderbookv1.SnapshotLevel, u orderbookv1.UpdateLevel, isBid bool) []orderbookv1.SnapshotLevel {
	i := sort.Search(len(levels), func(i int) bool {
		if isBid {
			return levels[i].Price <= u.Price
		}
		return levels[i].Price >= u.Price
	})

	if i < len(levels) && levels[i].Price == u.Price {
		levels[i].Balance += u.Change
		levels[i].Count += u.Count
		if IsEmpty(levels[i].Balance) || levels[i].Count <= 0 {
			return append(levels[:i], levels[i+1:]...)
		}
		return levels
	}

	if u.Count <= 0 || IsEmpty(u.Change) {
		return levels
	}
	levels = append(levels, orderbookv1.SnapshotLevel{})
	copy(levels[i+1:], levels[i:])
	levels[i] = orderbookv1.SnapshotLevel{Price: u.Price, Balance: u.Change, Count: u.Count}
	return levels
}

// LevelUpdate describes the snapshot change caused by moving one order from
// prevBalance to newBalance.
func LevelUpdate(price, prevBalance, newBalance float64, countDelta int, isBid bool) orderbookv1.UpdateLevel {
	side := orderbookv1.SideAsk
	if isBid {
		side = orderbookv1.SideBid
	}
	return orderbookv1.UpdateLevel{
		Price:  price,
		Change: newBalance - prevBalance,
		Count:  countDelta,
		Side:   side,
	}
}

// ZeroAllLevels returns the updates that empty every level of snapshot.
func ZeroAllLevels(snapshot *orderbookv1.Snapshot) []orderbookv1.UpdateLevel {
	updates := make([]orderbookv1.UpdateLevel, 0, len(snapshot.Bids)+len(snapshot.Asks))
	for _, l := range snapshot.Bids {
		updates = append(updates, orderbookv1.UpdateLevel{Price: l.Price, Change: -l.Balance, Count: -l.Count, Side: orderbookv1.SideBid})
	}
	for _, l := range snapshot.Asks {
		updates = append(updates, orderbookv1.UpdateLevel{Price: l.Price, Change: -l.Balance, Count: -l.Count, Side: orderbookv1.SideAsk})
	}
	return updates
}
