// Package custodian reads the trading-halt switch of each pair from Redis.
package custodian

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis"
)

// States stored under the custodian key.
const (
	StateTrading = "trading"
	StateHalted  = "halted"
)

// Custodian implements orderbookv1.Custodian.
type Custodian struct {
	redis  redis.Client
	logger logger.Interface
}

var _ orderbookv1.Custodian = (*Custodian)(nil)

// NewCustodian creates a new Custodian.
func NewCustodian(rdb redis.Client, log logger.Interface) *Custodian {
	return &Custodian{
		redis:  rdb,
		logger: log,
	}
}

func (c *Custodian) key(pair string) string {
	return c.redis.Config().Key("custodianState", pair)
}

// Tradeable reports whether pair is trading. A pair without a state is a
// configuration error.
func (c *Custodian) Tradeable(ctx context.Context, pair string) (bool, error) {
	state, err := c.redis.Get(ctx, c.key(pair))
	if err != nil {
		return false, err
	}

	switch state {
	case StateTrading:
		return true, nil
	case StateHalted:
		return false, nil
	case "":
		return false, errors.New(errors.FatalConfigError, "no custodian state for "+pair, "pair")
	default:
		return false, errors.New(errors.FatalConfigError, "unknown custodian state "+state, "pair")
	}
}

// SetState switches pair between trading and halted.
func (c *Custodian) SetState(ctx context.Context, pair string, tradeable bool) error {
	state := StateHalted
	if tradeable {
		state = StateTrading
	}
	if err := c.redis.Set(ctx, c.key(pair), state, 0); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "custodian state changed", logger.Pair(pair), logger.NewField("state", state))
	return nil
}
