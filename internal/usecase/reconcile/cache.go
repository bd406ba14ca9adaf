// Package reconcile keeps local copies of order book snapshots in step with
// the update stream, detecting gaps and asking for a fresh snapshot when one
// is found.
package reconcile

import (
	"sort"
	"sync"

	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/relayer/internal/usecase/orderbook"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// Resubscriber requests a fresh snapshot of pair.
//
//go:generate mockgen -source cache.go -destination=mock/cache_mock.go -package=reconcile_mock
type Resubscriber interface {
	Resubscribe(pair string)
}

// Listener is told about every snapshot change of a synced pair.
type Listener func(snapshot *orderbookv1.Snapshot)

// PairState is the reconciliation state of one pair.
type PairState struct {
	SnapshotAvailable bool
	Snapshot          *orderbookv1.Snapshot
	PendingUpdates    []*orderbookv1.SnapshotUpdate
}

// Cache tracks subscribed pairs. A pair is Subscribing until a snapshot
// arrives whose pending updates drain without a gap, then Synced. A gap seen
// while Synced sends it back to Subscribing.
type Cache struct {
	mu           sync.Mutex
	pairs        map[string]*PairState
	resubscriber Resubscriber
	listener     Listener
	logger       logger.Interface
}

// Option configures a Cache.
type Option func(*Cache)

// WithListener registers l for snapshot changes.
func WithListener(l Listener) Option {
	return func(c *Cache) { c.listener = l }
}

// NewCache creates an empty cache.
func NewCache(resubscriber Resubscriber, log logger.Interface, opts ...Option) *Cache {
	c := &Cache{
		pairs:        map[string]*PairState{},
		resubscriber: resubscriber,
		logger:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe starts tracking pair, discarding anything known about it.
func (c *Cache) Subscribe(pair string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs[pair] = &PairState{}
}

// Unsubscribe stops tracking pair.
func (c *Cache) Unsubscribe(pair string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pairs, pair)
}

// Pairs returns every tracked pair.
func (c *Cache) Pairs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	pairs := make([]string, 0, len(c.pairs))
	for pair := range c.pairs {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)
	return pairs
}

// Snapshot returns a copy of the synced snapshot of pair.
func (c *Cache) Snapshot(pair string) (*orderbookv1.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.pairs[pair]
	if !ok || !state.SnapshotAvailable {
		return nil, false
	}
	return state.Snapshot.Clone(), true
}

// State returns a copy of the state of pair.
func (c *Cache) State(pair string) (PairState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.pairs[pair]
	if !ok {
		return PairState{}, false
	}
	return PairState{
		SnapshotAvailable: state.SnapshotAvailable,
		Snapshot:          state.Snapshot.Clone(),
		PendingUpdates:    append([]*orderbookv1.SnapshotUpdate(nil), state.PendingUpdates...),
	}, true
}

// HandleSnapshot stores snapshot and replays buffered updates onto it in
// version order. Updates older than the snapshot are dropped. If an update
// does not follow on, it and everything after it stay buffered and the pair
// is resubscribed instead of being marked synced.
func (c *Cache) HandleSnapshot(snapshot *orderbookv1.Snapshot) {
	c.mu.Lock()
	state, ok := c.pairs[snapshot.Pair]
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("snapshot for untracked pair", logger.Pair(snapshot.Pair))
		return
	}

	state.Snapshot = snapshot.Clone()
	pending := state.PendingUpdates
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	kept := make([]*orderbookv1.SnapshotUpdate, 0, len(pending))
	gap := false
	for _, u := range pending {
		switch {
		case gap:
			kept = append(kept, u)
		case u.PrevVersion < state.Snapshot.Version:
			c.logger.Debug("dropping stale update",
				logger.Pair(snapshot.Pair),
				logger.NewField("prevVersion", u.PrevVersion),
				logger.NewField("version", state.Snapshot.Version),
			)
		case u.PrevVersion == state.Snapshot.Version:
			_ = orderbook.UpdateOrderBookSnapshot(state.Snapshot, u)
		default:
			gap = true
			kept = append(kept, u)
		}
	}
	state.PendingUpdates = kept
	state.SnapshotAvailable = !gap

	var synced *orderbookv1.Snapshot
	if !gap && c.listener != nil {
		synced = state.Snapshot.Clone()
	}
	c.mu.Unlock()

	if gap {
		c.logger.Info("gap after snapshot, resubscribing", logger.Pair(snapshot.Pair))
		c.resubscriber.Resubscribe(snapshot.Pair)
		return
	}
	if synced != nil {
		c.listener(synced)
	}
}

// HandleUpdate applies update when it follows the local snapshot, buffers it
// while the pair is not synced, and drops it when already applied. An update
// ahead of the local snapshot is buffered and the pair is resubscribed.
func (c *Cache) HandleUpdate(update *orderbookv1.SnapshotUpdate) {
	c.mu.Lock()
	state, ok := c.pairs[update.Pair]
	if !ok {
		c.mu.Unlock()
		return
	}

	if !state.SnapshotAvailable {
		state.PendingUpdates = append(state.PendingUpdates, update)
		c.mu.Unlock()
		return
	}

	switch version := state.Snapshot.Version; {
	case update.PrevVersion < version:
		c.mu.Unlock()
		c.logger.Debug("dropping stale update",
			logger.Pair(update.Pair),
			logger.NewField("prevVersion", update.PrevVersion),
			logger.NewField("version", version),
		)
	case update.PrevVersion == version:
		_ = orderbook.UpdateOrderBookSnapshot(state.Snapshot, update)
		var synced *orderbookv1.Snapshot
		if c.listener != nil {
			synced = state.Snapshot.Clone()
		}
		c.mu.Unlock()
		if synced != nil {
			c.listener(synced)
		}
	default:
		state.PendingUpdates = append(state.PendingUpdates, update)
		state.SnapshotAvailable = false
		c.mu.Unlock()
		c.logger.Info("gap in update stream, resubscribing",
			logger.Pair(update.Pair),
			logger.NewField("prevVersion", update.PrevVersion),
		)
		c.resubscriber.Resubscribe(update.Pair)
	}
}
