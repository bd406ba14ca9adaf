// Package snapshot keeps the latest order book snapshot of every pair in
// Redis and fans snapshots and deltas out over pub/sub.
package snapshot

import (
	"context"
	"encoding/json"

	v9 "github.com/redis/go-redis/v9"

	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis"
)

// Key is the string key holding pair's latest snapshot.
func Key(cfg *redis.Config, pair string) string {
	return cfg.Key("orderBookSnapshot", pair)
}

// Channel is the pub/sub channel carrying pair's snapshot and update
// messages in their wire form.
func Channel(cfg *redis.Config, pair string) string {
	return cfg.Key("orderBookUpdate", pair)
}

// Store implements orderbookv1.Publisher on Redis.
type Store struct {
	redis  redis.Client
	logger logger.Interface
}

var _ orderbookv1.Publisher = (*Store)(nil)

// NewStore creates a new Store.
func NewStore(rdb redis.Client, log logger.Interface) *Store {
	return &Store{
		redis:  rdb,
		logger: log,
	}
}

// PublishSnapshot stores s and announces it on the pair's channel.
func (st *Store) PublishSnapshot(ctx context.Context, s *orderbookv1.Snapshot) error {
	message, err := json.Marshal(protocolv1.NewSnapshotMessage(s))
	if err != nil {
		return errors.TracerFromError(err)
	}
	if err := st.write(ctx, s, message); err != nil {
		return err
	}

	st.logger.InfoContext(ctx, "snapshot published",
		logger.Pair(s.Pair),
		logger.NewField("version", s.Version),
		logger.NewField("bids", len(s.Bids)),
		logger.NewField("asks", len(s.Asks)),
	)
	return nil
}

// PublishUpdate stores s, the book after u, and publishes u.
func (st *Store) PublishUpdate(ctx context.Context, u *orderbookv1.SnapshotUpdate, s *orderbookv1.Snapshot) error {
	if s.Version != u.Version {
		return errors.New(errors.ValidationError, "snapshot does not match update version", "version")
	}
	message, err := json.Marshal(protocolv1.NewUpdateMessage(u))
	if err != nil {
		return errors.TracerFromError(err)
	}
	return st.write(ctx, s, message)
}

func (st *Store) write(ctx context.Context, s *orderbookv1.Snapshot, message []byte) error {
	stored, err := json.Marshal(s)
	if err != nil {
		return errors.TracerFromError(err)
	}

	cfg := st.redis.Config()
	return st.redis.TxPipelined(ctx, func(pipe v9.Pipeliner) error {
		pipe.Set(ctx, Key(cfg, s.Pair), stored, 0)
		pipe.Publish(ctx, Channel(cfg, s.Pair), message)
		return nil
	})
}

// Snapshot returns the stored snapshot of pair, or nil when none was
// published yet.
func (st *Store) Snapshot(ctx context.Context, pair string) (*orderbookv1.Snapshot, error) {
	stored, err := st.redis.Get(ctx, Key(st.redis.Config(), pair))
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return nil, nil
	}

	var s orderbookv1.Snapshot
	if err := json.Unmarshal([]byte(stored), &s); err != nil {
		return nil, errors.New(errors.ValidationError, "malformed stored snapshot: "+err.Error(), "snapshot")
	}
	return &s, nil
}

// Subscribe opens a subscription to the channels of pairs.
func (st *Store) Subscribe(ctx context.Context, pairs ...string) (*v9.PubSub, error) {
	channels := make([]string, len(pairs))
	for i, pair := range pairs {
		channels[i] = Channel(st.redis.Config(), pair)
	}
	return st.redis.Subscribe(ctx, channels...)
}
