package redis

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger logger.Interface
	config *Config
	rdb    redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(log logger.Interface, config *Config) Client {
	return &client{
		logger: log,
		config: config,
	}
}

func (c *client) Config() *Config {
	return c.config
}

func (c *client) validate() error {
	if c.config == nil {
		return errors.New(errors.RedisConfigError, "Redis config is nil", "connect")
	}
	if len(c.config.Addrs) == 0 {
		return errors.New(errors.RedisConfigError, "Redis addresses are empty", "connect")
	}
	if c.config.Mode != Standalone && c.config.Mode != Cluster {
		return errors.New(errors.RedisConfigError, "Invalid Redis mode", "connect")
	}
	if c.config.ConnectTimeout <= 0 {
		return errors.New(errors.RedisConfigError, "Invalid Redis connect timeout", "connect")
	}
	if c.config.PoolSize <= 0 {
		return errors.New(errors.RedisConfigError, "Invalid Redis pool size", "connect")
	}
	if c.config.MaxIdleConns < 0 || c.config.MinIdleConns < 0 {
		return errors.New(errors.RedisConfigError, "Invalid Redis idle connections", "connect")
	}
	if c.config.ConnMaxLifetime <= 0 || c.config.ConnMaxIdleTime <= 0 {
		return errors.New(errors.RedisConfigError, "Invalid Redis connection lifetime", "connect")
	}
	if c.config.PoolTimeout <= 0 {
		return errors.New(errors.RedisConfigError, "Invalid Redis pool timeout", "connect")
	}
	if c.config.MaxRetries < 0 || c.config.MinRetryBackoff < 0 || c.config.MaxRetryBackoff < 0 {
		return errors.New(errors.RedisConfigError, "Invalid Redis retry settings", "connect")
	}
	return nil
}

func (c *client) Connect(ctx context.Context) error {
	if err := c.validate(); err != nil {
		return err
	}

	switch c.config.Mode {
	case Standalone:
		c.rdb = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		c.rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Transient("redis connect", err)
	}
	return nil
}

// Reconnect retries Connect with exponential backoff and jitter. It reports
// whether a connection was re-established before retries ran out.
func (c *client) Reconnect(ctx context.Context) bool {
	baseDelay := c.config.MinRetryBackoff
	maxDelay := c.config.MaxRetryBackoff

	for i := range c.config.ReconnectMaxRetries {
		backoff := min(baseDelay*time.Duration(math.Pow(2, float64(i))), maxDelay)
		jitter := time.Duration(rand.IntN(1000)) * time.Millisecond
		totalDelay := backoff + jitter

		c.logger.Info("reconnecting to redis",
			logger.NewField("attempt", i+1),
			logger.NewField("delay", totalDelay),
		)

		select {
		case <-ctx.Done():
			c.logger.Info("redis reconnect cancelled", logger.NewField("reason", ctx.Err()))
			return false
		case <-time.After(totalDelay):
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Connect(connectCtx)
			cancel()
			if err == nil {
				c.logger.Info("reconnected to redis", logger.NewField("attempt", i+1))
				return true
			}
			c.logger.Error(errors.TracerFromError(err), logger.NewField("attempt", i+1))
		}
	}

	return false
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		return errors.New(errors.RedisDisconnectionError, err.Error(), "disconnect")
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.New(errors.RedisPingError, "Failed to ping Redis", "ping")
	}
	return nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Transient("redis get", err)
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.Transient("redis set", err)
	}
	return nil
}

func (c *client) Del(ctx context.Context, keys ...string) (int64, error) {
	deleted, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.Transient("redis del", err)
	}
	return deleted, nil
}

func (c *client) Incr(ctx context.Context, key string) (int64, error) {
	val, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Transient("redis incr", err)
	}
	return val, nil
}

func (c *client) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := c.rdb.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Transient("redis hget", err)
	}
	return val, nil
}

func (c *client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	vals, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.Transient("redis hgetall", err)
	}
	return vals, nil
}

func (c *client) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	affected, err := c.rdb.HSet(ctx, key, values).Result()
	if err != nil {
		return 0, errors.Transient("redis hset", err)
	}
	return affected, nil
}

func (c *client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	deleted, err := c.rdb.HDel(ctx, key, fields...).Result()
	if err != nil {
		return 0, errors.Transient("redis hdel", err)
	}
	return deleted, nil
}

func (c *client) RPush(ctx context.Context, key string, values ...any) (int64, error) {
	n, err := c.rdb.RPush(ctx, key, values...).Result()
	if err != nil {
		return 0, errors.Transient("redis rpush", err)
	}
	return n, nil
}

// LMove returns "" when the source list is empty.
func (c *client) LMove(ctx context.Context, source, destination, srcpos, destpos string) (string, error) {
	val, err := c.rdb.LMove(ctx, source, destination, srcpos, destpos).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Transient("redis lmove", err)
	}
	return val, nil
}

func (c *client) LRem(ctx context.Context, key string, count int64, value any) (int64, error) {
	n, err := c.rdb.LRem(ctx, key, count, value).Result()
	if err != nil {
		return 0, errors.Transient("redis lrem", err)
	}
	return n, nil
}

func (c *client) LLen(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, errors.Transient("redis llen", err)
	}
	return n, nil
}

func (c *client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := c.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, errors.Transient("redis lrange", err)
	}
	return vals, nil
}

func (c *client) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) error {
	if _, err := c.rdb.TxPipelined(ctx, fn); err != nil {
		return errors.Transient("redis multi", err)
	}
	return nil
}

// RunScript evaluates script by SHA and falls back to EVAL on NOSCRIPT.
// A nil reply is returned as (nil, nil).
func (c *client) RunScript(ctx context.Context, script *redis.Script, keys []string, args ...any) (any, error) {
	val, err := script.Run(ctx, c.rdb, keys, args...).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Transient("redis script", err)
	}
	return val, nil
}

func (c *client) Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error) {
	pubSub := c.rdb.Subscribe(ctx, channels...)
	if _, err := pubSub.Receive(ctx); err != nil {
		_ = pubSub.Close()
		return nil, errors.Transient("redis subscribe", err)
	}
	return pubSub, nil
}

// Publish returns the number of subscribers that received message. Zero
// receivers is not an error.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	published, err := c.rdb.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, errors.Transient("redis publish", err)
	}
	return published, nil
}
