package persistence

import (
	"context"
	"encoding/json"

	v9 "github.com/redis/go-redis/v9"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// AddMatchingOrders stages matches in the match sub-queue of pair, all or
// nothing.
func (p *Persistence) AddMatchingOrders(ctx context.Context, pair string, matches []orderv1.MatchRequest) error {
	if len(matches) == 0 {
		return nil
	}

	values := make(map[string]any, len(matches))
	ids := make([]any, 0, len(matches))
	for _, m := range matches {
		payload, err := json.Marshal(m)
		if err != nil {
			return errors.TracerFromError(err)
		}
		values[m.ID] = payload
		ids = append(ids, m.ID)
	}

	keys := matchKeys(p.redis.Config(), pair)
	err := p.redis.TxPipelined(ctx, func(pipe v9.Pipeliner) error {
		pipe.HSet(ctx, keys.cache, values)
		pipe.RPush(ctx, keys.queue, ids...)
		return nil
	})
	if err != nil {
		return err
	}

	p.metrics.MatchesFound.With("pair", pair).Add(float64(len(matches)))
	p.logger.InfoContext(ctx, "matches staged", logger.Pair(pair), logger.NewField("count", len(matches)))
	return nil
}

// ProcessMatchQueue hands the oldest staged match of pair to settlement. It
// follows the ProcessOrderQueue contract.
func (p *Persistence) ProcessMatchQueue(ctx context.Context, pair string) (bool, error) {
	return p.drain(ctx, pair, matchKeys(p.redis.Config(), pair), p.settleMatch)
}

func (p *Persistence) settleMatch(ctx context.Context, field, payload string) ([]string, error) {
	var match orderv1.MatchRequest
	if err := json.Unmarshal([]byte(payload), &match); err != nil {
		return nil, errors.New(errors.ValidationError, "malformed match: "+err.Error(), field)
	}
	if err := p.publishers.Matches.PublishMatch(ctx, match); err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "match handed to settlement",
		logger.Pair(match.Pair),
		logger.NewField("matchId", match.ID),
		logger.NewField("left", match.Left.OrderHash),
		logger.NewField("right", match.Right.OrderHash),
	)
	return nil, nil
}
