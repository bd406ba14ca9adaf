package custodian

import (
	"context"
	"testing"

	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis/redistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustodian_Tradeable(t *testing.T) {
	ctx := context.Background()
	const pair = "ZRX|WETH"

	testCases := []struct {
		name     string
		state    string
		assertFn func(t *testing.T, tradeable bool, err error)
	}{
		{
			name:  "trading",
			state: StateTrading,
			assertFn: func(t *testing.T, tradeable bool, err error) {
				require.NoError(t, err)
				assert.True(t, tradeable)
			},
		},
		{
			name:  "halted",
			state: StateHalted,
			assertFn: func(t *testing.T, tradeable bool, err error) {
				require.NoError(t, err)
				assert.False(t, tradeable)
			},
		},
		{
			name: "missing",
			assertFn: func(t *testing.T, tradeable bool, err error) {
				assert.True(t, errors.IsCode(err, errors.FatalConfigError))
			},
		},
		{
			name:  "garbage",
			state: "maybe",
			assertFn: func(t *testing.T, tradeable bool, err error) {
				assert.True(t, errors.IsCode(err, errors.FatalConfigError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rdb, mr := redistest.New(t)
			c := NewCustodian(rdb, logger.NewNopLogger())
			if tc.state != "" {
				require.NoError(t, mr.Set(c.key(pair), tc.state))
			}

			tradeable, err := c.Tradeable(ctx, pair)
			tc.assertFn(t, tradeable, err)
		})
	}
}

func TestCustodian_SetState(t *testing.T) {
	ctx := context.Background()
	rdb, _ := redistest.New(t)
	c := NewCustodian(rdb, logger.NewNopLogger())

	require.NoError(t, c.SetState(ctx, "ZRX|WETH", false))
	tradeable, err := c.Tradeable(ctx, "ZRX|WETH")
	require.NoError(t, err)
	assert.False(t, tradeable)

	require.NoError(t, c.SetState(ctx, "ZRX|WETH", true))
	tradeable, err = c.Tradeable(ctx, "ZRX|WETH")
	require.NoError(t, err)
	assert.True(t, tradeable)
}
