package persistence

import (
	"context"
	"encoding/json"

	v9 "github.com/redis/go-redis/v9"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// ackScript drops the processing entry ARGV[1] and deletes its cache field
// when it still holds the payload that was applied (ARGV[2]). Any further
// ARGV are cache fields made obsolete by the applied item.
var ackScript = v9.NewScript(`
if redis.call('HGET', KEYS[1], ARGV[1]) == ARGV[2] then
	redis.call('HDEL', KEYS[1], ARGV[1])
end
for i = 3, #ARGV do
	redis.call('HDEL', KEYS[1], ARGV[i])
end
redis.call('LREM', KEYS[2], 1, ARGV[1])
return 1
`)

// requeueScript puts a failed item back: the cache field is restored unless
// a newer mutation replaced it (or ARGV[2] is empty), and the key moves from
// the processing list to the back of the queue.
var requeueScript = v9.NewScript(`
if ARGV[2] ~= '' and redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
end
redis.call('LREM', KEYS[3], 1, ARGV[1])
redis.call('RPUSH', KEYS[2], ARGV[1])
return 1
`)

// errNotApplied is returned by a handler whose item must wait for an
// earlier item that is still queued.
var errNotApplied = errors.New(errors.TransientInfraError, "depends on an item that is still queued", "queue")

type handler func(ctx context.Context, field, payload string) (obsolete []string, err error)

// drain pops one field from the queue and hands its payload to handle. It
// reports whether the queue made progress.
func (p *Persistence) drain(ctx context.Context, pair string, keys queueKeys, handle handler) (bool, error) {
	field, err := p.redis.LMove(ctx, keys.queue, keys.processing, "LEFT", "RIGHT")
	if err != nil {
		return false, err
	}
	if field == "" {
		return false, nil
	}

	payload, err := p.redis.HGet(ctx, keys.cache, field)
	if err != nil {
		p.requeue(ctx, pair, keys, field, "")
		return false, err
	}
	if payload == "" {
		// Already applied through a duplicate key.
		return true, p.ack(ctx, keys, field, "")
	}

	obsolete, err := handle(ctx, field, payload)
	if errors.IsCode(err, errors.ValidationError) {
		p.logger.ErrorContext(ctx, err, logger.Pair(pair), logger.NewField("field", field))
		p.metrics.MutationsDropped.With("pair", pair, "reason", "invalid").Add(1)
		return true, p.ack(ctx, keys, field, payload)
	}
	if err != nil {
		p.requeue(ctx, pair, keys, field, payload)
		return false, err
	}
	return true, p.ack(ctx, keys, field, payload, obsolete...)
}

func (p *Persistence) ack(ctx context.Context, keys queueKeys, field, payload string, obsolete ...string) error {
	args := make([]any, 0, 2+len(obsolete))
	args = append(args, field, payload)
	for _, o := range obsolete {
		args = append(args, o)
	}
	_, err := p.redis.RunScript(ctx, ackScript, []string{keys.cache, keys.processing}, args...)
	return err
}

func (p *Persistence) requeue(ctx context.Context, pair string, keys queueKeys, field, payload string) {
	p.metrics.QueueRetries.With("pair", pair).Add(1)
	if _, err := p.redis.RunScript(ctx, requeueScript, []string{keys.cache, keys.queue, keys.processing}, field, payload); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Pair(pair), logger.NewField("field", field))
	}
}

// recover moves every field left in the processing list back to the head of
// the queue, keeping their order.
func (p *Persistence) recover(ctx context.Context, keys queueKeys) (int, error) {
	moved := 0
	for {
		field, err := p.redis.LMove(ctx, keys.processing, keys.queue, "RIGHT", "LEFT")
		if err != nil {
			return moved, err
		}
		if field == "" {
			return moved, nil
		}
		moved++
	}
}

// ProcessOrderQueue applies the oldest staged mutation of pair to the table
// store. It returns false when the queue is empty or the apply failed; in the
// latter case the item is back in the queue and the error is returned so the
// caller can back off.
func (p *Persistence) ProcessOrderQueue(ctx context.Context, pair string) (bool, error) {
	return p.drain(ctx, pair, orderKeys(p.redis.Config(), pair), p.applyOrder)
}

// RecoverProcessing returns order keys a crashed worker left between pop and
// acknowledge to the queue. Run it before the first ProcessOrderQueue of a
// worker, while no other worker drains pair.
func (p *Persistence) RecoverProcessing(ctx context.Context, pair string) (int, error) {
	moved, err := p.recover(ctx, orderKeys(p.redis.Config(), pair))
	if err != nil {
		return moved, err
	}
	matches, err := p.recover(ctx, matchKeys(p.redis.Config(), pair))
	return moved + matches, err
}

func (p *Persistence) applyOrder(ctx context.Context, field, payload string) ([]string, error) {
	var item orderv1.QueueItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return nil, errors.New(errors.ValidationError, "malformed queue item: "+err.Error(), field)
	}
	if !item.Method.Valid() || item.CacheKey() != field {
		return nil, errors.New(errors.ValidationError, "queue item does not match its key", field)
	}

	err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
		return p.apply(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	o := item.LiveOrder
	p.metrics.MutationsApplied.With("pair", o.Pair, "method", string(item.Method)).Add(1)
	p.logger.DebugContext(ctx, "applied queue item",
		logger.Pair(o.Pair),
		logger.Action(string(item.Method)),
		logger.OrderHash(o.OrderHash),
		logger.Sequence(o.CurrentSequence),
	)

	if item.Method == orderv1.MethodTerminate {
		return []string{
			orderv1.CacheKey(orderv1.MethodAdd, o.OrderHash),
			orderv1.CacheKey(orderv1.MethodUpdate, o.OrderHash),
		}, nil
	}
	return nil, nil
}

// apply writes item to the table store. Every branch is safe to repeat.
func (p *Persistence) apply(ctx context.Context, item orderv1.QueueItem) error {
	o := item.LiveOrder

	switch item.Method {
	case orderv1.MethodAdd:
		signed := item.SignedOrder
		if len(signed) == 0 {
			signed = json.RawMessage("{}")
		}
		err := p.repos.Raw.Insert(ctx, orderv1.RawOrder{
			OrderHash:   o.OrderHash,
			Pair:        o.Pair,
			SignedOrder: signed,
			CreatedAt:   o.CreatedAt,
			UpdatedAt:   o.UpdatedAt,
		})
		if err != nil {
			return err
		}
		raw, err := p.repos.Raw.Get(ctx, o.OrderHash)
		if err != nil {
			return err
		}
		if raw != nil && raw.TerminatedSequence > 0 {
			return nil
		}
		return p.repos.Live.Insert(ctx, o)

	case orderv1.MethodUpdate:
		stored, err := p.repos.Live.Get(ctx, o.Pair, o.OrderHash)
		if err != nil {
			return err
		}
		if stored == nil {
			pending, err := p.redis.HGet(ctx, orderKeys(p.redis.Config(), o.Pair).cache, orderv1.CacheKey(orderv1.MethodAdd, o.OrderHash))
			if err != nil {
				return err
			}
			if pending != "" {
				return errNotApplied
			}
			return nil
		}
		return p.repos.Live.Update(ctx, o)

	case orderv1.MethodTerminate:
		if err := p.repos.Live.Delete(ctx, o.Pair, o.OrderHash); err != nil {
			return err
		}
		return p.repos.Raw.Terminate(ctx, o.Pair, o.OrderHash, o.CurrentSequence)
	}
	return nil
}
