package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
)

func TestGenerateOrders(t *testing.T) {
	orders := generateOrders(rand.New(rand.NewSource(1)), "ZRX|WETH", 200, 0.0005, 0.0001)
	require.Len(t, orders, 200)

	hashes := map[string]struct{}{}
	for _, o := range orders {
		assert.Equal(t, string(orderv1.MethodAdd), o.Method)
		assert.Equal(t, protocolv1.ChannelOrders, o.Channel)
		assert.Equal(t, "ZRX|WETH", o.Pair)

		payload, err := protocolv1.DecodeOrderPayload(o.Order)
		require.NoError(t, err)
		assert.Equal(t, "ZRX", payload.FeeAsset)

		hashes[o.OrderHash] = struct{}{}
	}
	assert.Len(t, hashes, 200)
}
