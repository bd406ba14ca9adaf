package matching

import (
	"fmt"
	"testing"
	"time"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/relayer/internal/usecase/orderbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var now = time.UnixMilli(1_700_000_000_000)

func newTestEngine() *Engine {
	n := 0
	return NewEngine(
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("m%d", n)
		}),
	)
}

func order(hash, account string, side orderv1.Side, price, balance float64, seq int64) orderv1.LiveOrder {
	return orderv1.LiveOrder{
		Pair:            "ZRX|WETH",
		OrderHash:       hash,
		Account:         account,
		Side:            side,
		Price:           price,
		Amount:          balance,
		Balance:         balance,
		InitialSequence: seq,
		CurrentSequence: seq,
	}
}

func TestFindMatchingOrders(t *testing.T) {
	testCases := []struct {
		name        string
		orders      []orderv1.LiveOrder
		incremental bool
		assertFn    func(t *testing.T, res Result, live map[string]orderv1.LiveOrder, book *orderbookv1.OrderBook)
	}{
		{
			name: "no cross",
			orders: []orderv1.LiveOrder{
				order("b1", "alice", orderv1.SideBid, 10, 5, 1),
				order("a1", "bob", orderv1.SideAsk, 11, 5, 2),
			},
			incremental: true,
			assertFn: func(t *testing.T, res Result, live map[string]orderv1.LiveOrder, book *orderbookv1.OrderBook) {
				assert.Empty(t, res.MatchRequests)
				assert.Empty(t, res.LevelUpdates)
			},
		},
		{
			name: "oldest ask at equal price fills first",
			orders: []orderv1.LiveOrder{
				order("b1", "alice", orderv1.SideBid, 11, 6, 5),
				order("a2", "bob", orderv1.SideAsk, 10, 4, 3),
				order("a1", "carol", orderv1.SideAsk, 10, 4, 1),
			},
			incremental: true,
			assertFn: func(t *testing.T, res Result, live map[string]orderv1.LiveOrder, book *orderbookv1.OrderBook) {
				require.Len(t, res.MatchRequests, 2)
				assert.Equal(t, orderv1.MatchRequest{
					ID:        "m1",
					Pair:      "ZRX|WETH",
					Left:      orderv1.MatchSide{OrderHash: "b1", Balance: 4},
					Right:     orderv1.MatchSide{OrderHash: "a1", Balance: 4},
					Price:     10,
					CreatedAt: now.UnixMilli(),
				}, res.MatchRequests[0])
				assert.Equal(t, "a2", res.MatchRequests[1].Right.OrderHash)
				assert.Equal(t, 2.0, res.MatchRequests[1].Left.Balance)

				assert.Equal(t, 0.0, live["b1"].Balance)
				assert.Equal(t, 6.0, live["b1"].Matching)
				assert.Equal(t, 0.0, live["a1"].Balance)
				assert.Equal(t, 2.0, live["a2"].Balance)
				assert.Equal(t, 2.0, live["a2"].Matching)

				require.Len(t, res.LevelUpdates, 3)
				assert.Equal(t, BookChange{
					Level:       orderbookv1.Level{OrderHash: "b1", Price: 11, Balance: 0, InitialSequence: 5},
					IsBid:       true,
					PrevBalance: 6,
				}, res.LevelUpdates[0])

				// incremental leaves the book alone
				assert.Len(t, book.Bids, 1)
				assert.Len(t, book.Asks, 2)
			},
		},
		{
			name: "full sweep applies to the book",
			orders: []orderv1.LiveOrder{
				order("b1", "alice", orderv1.SideBid, 11, 6, 5),
				order("a1", "carol", orderv1.SideAsk, 10, 4, 1),
				order("a2", "bob", orderv1.SideAsk, 12, 4, 3),
			},
			incremental: false,
			assertFn: func(t *testing.T, res Result, live map[string]orderv1.LiveOrder, book *orderbookv1.OrderBook) {
				require.Len(t, res.MatchRequests, 1)
				assert.Empty(t, res.LevelUpdates)
				assert.Equal(t, []orderbookv1.Level{{OrderHash: "b1", Price: 11, Balance: 2, InitialSequence: 5}}, book.Bids)
				assert.Equal(t, []orderbookv1.Level{{OrderHash: "a2", Price: 12, Balance: 4, InitialSequence: 3}}, book.Asks)
			},
		},
		{
			name: "same account is skipped",
			orders: []orderv1.LiveOrder{
				order("b1", "alice", orderv1.SideBid, 11, 6, 5),
				order("a1", "alice", orderv1.SideAsk, 10, 4, 1),
				order("a2", "bob", orderv1.SideAsk, 10.5, 4, 3),
			},
			incremental: true,
			assertFn: func(t *testing.T, res Result, live map[string]orderv1.LiveOrder, book *orderbookv1.OrderBook) {
				require.Len(t, res.MatchRequests, 1)
				assert.Equal(t, "a2", res.MatchRequests[0].Right.OrderHash)
				assert.Equal(t, 4.0, live["a1"].Balance)
			},
		},
		{
			name: "own-account ask stays available to later bids",
			orders: []orderv1.LiveOrder{
				order("b1", "alice", orderv1.SideBid, 10, 5, 1),
				order("b2", "bob", orderv1.SideBid, 10, 5, 2),
				order("a1", "alice", orderv1.SideAsk, 9, 5, 3),
				order("a2", "carol", orderv1.SideAsk, 9.5, 5, 4),
			},
			incremental: false,
			assertFn: func(t *testing.T, res Result, live map[string]orderv1.LiveOrder, book *orderbookv1.OrderBook) {
				require.Len(t, res.MatchRequests, 2)
				assert.Equal(t, "b1", res.MatchRequests[0].Left.OrderHash)
				assert.Equal(t, "a2", res.MatchRequests[0].Right.OrderHash)
				assert.Equal(t, "b2", res.MatchRequests[1].Left.OrderHash)
				assert.Equal(t, "a1", res.MatchRequests[1].Right.OrderHash)
				assert.Equal(t, 5.0, live["a1"].Matching)

				assert.Empty(t, book.Bids)
				assert.Empty(t, book.Asks)
			},
		},
		{
			name: "expired order is skipped",
			orders: func() []orderv1.LiveOrder {
				expired := order("a1", "carol", orderv1.SideAsk, 10, 4, 1)
				expired.Expiry = now.UnixMilli() - 1
				return []orderv1.LiveOrder{
					order("b1", "alice", orderv1.SideBid, 11, 6, 5),
					expired,
				}
			}(),
			incremental: true,
			assertFn: func(t *testing.T, res Result, live map[string]orderv1.LiveOrder, book *orderbookv1.OrderBook) {
				assert.Empty(t, res.MatchRequests)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			live := map[string]orderv1.LiveOrder{}
			for _, o := range tc.orders {
				live[o.OrderHash] = o
			}
			book := orderbook.ConstructOrderBook(live)

			res := newTestEngine().FindMatchingOrders("ZRX|WETH", book, live, tc.incremental)
			tc.assertFn(t, res, live, book)
		})
	}
}

func TestFindMatchingOrders_Conservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		live := map[string]orderv1.LiveOrder{}
		n := rapid.IntRange(1, 20).Draw(t, "orders")
		for i := 0; i < n; i++ {
			side := orderv1.SideAsk
			if rapid.Bool().Draw(t, "bid") {
				side = orderv1.SideBid
			}
			hash := fmt.Sprintf("o%d", i)
			live[hash] = order(hash, fmt.Sprintf("acct%d", i), side,
				float64(rapid.IntRange(1, 5).Draw(t, "price")),
				float64(rapid.IntRange(1, 10).Draw(t, "balance")),
				int64(i+1))
		}
		before := map[string]orderv1.LiveOrder{}
		for k, v := range live {
			before[k] = v
		}

		book := orderbook.ConstructOrderBook(live)
		res := newTestEngine().FindMatchingOrders("ZRX|WETH", book, live, false)

		filled := map[string]float64{}
		for _, m := range res.MatchRequests {
			if m.Left.Balance != m.Right.Balance || m.Left.Balance <= 0 {
				t.Fatalf("unbalanced match %+v", m)
			}
			if live[m.Left.OrderHash].Side != orderv1.SideBid || live[m.Right.OrderHash].Side != orderv1.SideAsk {
				t.Fatalf("left must be a bid and right an ask: %+v", m)
			}
			filled[m.Left.OrderHash] += m.Left.Balance
			filled[m.Right.OrderHash] += m.Right.Balance
		}
		for hash, o := range live {
			if o.Balance < 0 {
				t.Fatalf("negative balance on %s", hash)
			}
			if got := before[hash].Balance - o.Balance; got != filled[hash] {
				t.Fatalf("%s lost %v but matched %v", hash, got, filled[hash])
			}
			if o.Matching != filled[hash] {
				t.Fatalf("%s matching %v want %v", hash, o.Matching, filled[hash])
			}
		}

		// nothing crosses after a full sweep
		if len(book.Bids) > 0 && len(book.Asks) > 0 && book.Bids[0].Price >= book.Asks[0].Price {
			t.Fatalf("book still crosses: %+v / %+v", book.Bids[0], book.Asks[0])
		}
	})
}
