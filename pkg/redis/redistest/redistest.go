// Package redistest connects a redis.Client to an in-process miniredis.
package redistest

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis"
	"github.com/stretchr/testify/require"
)

// New starts a miniredis server bound to t and returns a connected client.
func New(t *testing.T) (redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := redis.DefaultConfig()
	cfg.Addrs = []string{mr.Addr()}
	cfg.MaxRetries = 0
	c := redis.NewClient(logger.NewNopLogger(), cfg)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() { _ = c.Disconnect(context.Background()) })
	return c, mr
}
