package orderbook

import (
	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
)

// State is everything the server owns for its pair.
type State struct {
	LiveOrders map[string]orderv1.LiveOrder
	Book       *orderbookv1.OrderBook
	Snapshot   *orderbookv1.Snapshot
	// OrderSnapshotSequence is the highest currentSequence folded into the
	// last full rebuild.
	OrderSnapshotSequence int64
	// ProcessedUpdates maps orderHash to the last sequence applied to it.
	ProcessedUpdates map[string]int64
	LoadingOrders    bool
	// Buffered holds updates received while LoadingOrders, in arrival order.
	Buffered  []orderv1.OrderUpdate
	Tradeable bool
}

func newState(pair string) *State {
	return &State{
		LiveOrders:       map[string]orderv1.LiveOrder{},
		Book:             &orderbookv1.OrderBook{Bids: []orderbookv1.Level{}, Asks: []orderbookv1.Level{}},
		Snapshot:         &orderbookv1.Snapshot{Pair: pair, Bids: []orderbookv1.SnapshotLevel{}, Asks: []orderbookv1.SnapshotLevel{}},
		ProcessedUpdates: map[string]int64{},
	}
}

// Drop reasons reported on the mutations_dropped metric.
const (
	dropOwn           = "own"
	dropHalted        = "halted"
	dropUnknownMethod = "unknown_method"
	dropStale         = "stale"
	dropDuplicate     = "duplicate"
	dropAbsent        = "absent"
)
