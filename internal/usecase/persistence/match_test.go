package persistence

import (
	"context"
	"errors"
	"testing"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	pkgerrors "github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchQueue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	keys := matchKeys(f.rdb.Config(), pair)

	matches := []orderv1.MatchRequest{
		{ID: "m1", Pair: pair, Left: orderv1.MatchSide{OrderHash: "0xa", Balance: 5}, Right: orderv1.MatchSide{OrderHash: "0xb", Balance: 5}, Price: 0.01, CreatedAt: now},
		{ID: "m2", Pair: pair, Left: orderv1.MatchSide{OrderHash: "0xa", Balance: 2}, Right: orderv1.MatchSide{OrderHash: "0xc", Balance: 2}, Price: 0.01, CreatedAt: now},
	}
	require.NoError(t, f.p.AddMatchingOrders(ctx, pair, matches))
	require.NoError(t, f.p.AddMatchingOrders(ctx, pair, nil))
	assert.Equal(t, []string{"m1", "m2"}, f.list(t, keys.queue))

	f.matches.EXPECT().PublishMatch(ctx, matches[0]).Return(pkgerrors.Transient("kafka write", errors.New("leader not available")))
	progressed, err := f.p.ProcessMatchQueue(ctx, pair)
	assert.False(t, progressed)
	assert.Error(t, err)
	assert.Equal(t, []string{"m2", "m1"}, f.list(t, keys.queue))

	f.matches.EXPECT().PublishMatch(ctx, matches[1]).Return(nil)
	f.matches.EXPECT().PublishMatch(ctx, matches[0]).Return(nil)
	for i := 0; i < 2; i++ {
		progressed, err := f.p.ProcessMatchQueue(ctx, pair)
		require.NoError(t, err)
		require.True(t, progressed)
	}

	progressed, err = f.p.ProcessMatchQueue(ctx, pair)
	assert.NoError(t, err)
	assert.False(t, progressed)
	assert.False(t, f.mr.Exists(keys.cache))
}
