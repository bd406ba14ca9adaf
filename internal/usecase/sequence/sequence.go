// Package sequence hands out per-pair strictly increasing sequence numbers.
package sequence

import (
	"context"

	v9 "github.com/redis/go-redis/v9"

	sequencev1 "github.com/muhammadchandra19/relayer/internal/domain/sequence/v1"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis"
)

// raiseScript sets KEYS[1] to ARGV[1] when the stored counter is lower and
// returns the resulting counter.
var raiseScript = v9.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local target = tonumber(ARGV[1])
if target > current then
	redis.call('SET', KEYS[1], target)
	return target
end
return current
`)

// Sequencer increments a Redis counter per pair and mirrors it to the
// durable counter store.
type Sequencer struct {
	redis    redis.Client
	counters sequencev1.CounterRepository
	pairs    map[string]struct{}
	logger   logger.Interface
	metrics  *metrics.Metrics
}

// NewSequencer creates a Sequencer serving pairs.
func NewSequencer(rdb redis.Client, counters sequencev1.CounterRepository, pairs []string, log logger.Interface, m *metrics.Metrics) *Sequencer {
	registered := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		registered[pair] = struct{}{}
	}
	return &Sequencer{
		redis:    rdb,
		counters: counters,
		pairs:    registered,
		logger:   log,
		metrics:  m,
	}
}

func (s *Sequencer) key(pair string) string {
	return s.redis.Config().Key("sequence", pair)
}

// Serves reports whether pair is registered.
func (s *Sequencer) Serves(pair string) bool {
	_, ok := s.pairs[pair]
	return ok
}

// NextSequence increments and returns the counter of pair. The new value is
// persisted before it is returned.
func (s *Sequencer) NextSequence(ctx context.Context, pair string) (int64, error) {
	if !s.Serves(pair) {
		return 0, errors.New(errors.UnknownPair, "unknown pair "+pair, "pair")
	}

	seq, err := s.redis.Incr(ctx, s.key(pair))
	if err != nil {
		return 0, err
	}
	if err := s.counters.Save(ctx, pair, seq); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Pair(pair), logger.Sequence(seq))
		return 0, err
	}

	s.metrics.SequencesIssued.With("pair", pair).Add(1)
	return seq, nil
}

// Load raises every registered pair's counter to at least its persisted
// value. Counters are never lowered.
func (s *Sequencer) Load(ctx context.Context) error {
	persisted, err := s.counters.LoadAll(ctx)
	if err != nil {
		return err
	}

	for pair := range s.pairs {
		res, err := s.redis.RunScript(ctx, raiseScript, []string{s.key(pair)}, persisted[pair])
		if err != nil {
			return err
		}
		s.logger.Info("sequence loaded",
			logger.Pair(pair),
			logger.NewField("persisted", persisted[pair]),
			logger.NewField("current", res),
		)
	}
	return nil
}
