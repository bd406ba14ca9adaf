package orderv1

import (
	"testing"

	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func validOrder() LiveOrder {
	return LiveOrder{
		Pair:            "ZRX|WETH",
		OrderHash:       "0xabc",
		Account:         "0x1",
		Side:            SideBid,
		Price:           0.01,
		Amount:          100,
		Balance:         100,
		InitialSequence: 3,
		CurrentSequence: 3,
	}
}

func TestLiveOrder_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(o *LiveOrder)
		wantErr bool
	}{
		{name: "valid", mutate: func(o *LiveOrder) {}},
		{name: "missing hash", mutate: func(o *LiveOrder) { o.OrderHash = "" }, wantErr: true},
		{name: "bad side", mutate: func(o *LiveOrder) { o.Side = "buy" }, wantErr: true},
		{name: "zero price", mutate: func(o *LiveOrder) { o.Price = 0 }, wantErr: true},
		{name: "negative balance", mutate: func(o *LiveOrder) { o.Balance = -1 }, wantErr: true},
		{name: "balance above amount", mutate: func(o *LiveOrder) { o.Balance = 101 }, wantErr: true},
		{name: "sequence went back", mutate: func(o *LiveOrder) { o.CurrentSequence = 2 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOrder()
			tc.mutate(&o)
			err := o.Validate()
			if tc.wantErr {
				assert.True(t, errors.IsCode(err, errors.ValidationError))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewUserOrder_Status(t *testing.T) {
	testCases := []struct {
		name   string
		method Method
		mutate func(o *LiveOrder)
		want   Status
	}{
		{name: "add", method: MethodAdd, mutate: func(o *LiveOrder) {}, want: StatusConfirmed},
		{name: "terminate", method: MethodTerminate, mutate: func(o *LiveOrder) {}, want: StatusTerminate},
		{name: "matching", method: MethodUpdate, mutate: func(o *LiveOrder) { o.Balance, o.Matching = 60, 40 }, want: StatusMatching},
		{name: "partial fill", method: MethodUpdate, mutate: func(o *LiveOrder) { o.Balance, o.Fill = 60, 40 }, want: StatusPartialFill},
		{name: "fill", method: MethodUpdate, mutate: func(o *LiveOrder) { o.Balance, o.Fill = 0, 100 }, want: StatusFill},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOrder()
			tc.mutate(&o)
			uo := NewUserOrder(o, tc.method, "relay")
			assert.Equal(t, tc.want, uo.Status)
			assert.Equal(t, tc.method, uo.Type)
			assert.Equal(t, "relay", uo.UpdatedBy)
		})
	}
}

func TestParseCacheKey(t *testing.T) {
	method, hash, err := ParseCacheKey(CacheKey(MethodUpdate, "0xabc"))
	assert.NoError(t, err)
	assert.Equal(t, MethodUpdate, method)
	assert.Equal(t, "0xabc", hash)

	for _, key := range []string{"0xabc", "cancel|0xabc", "add|"} {
		_, _, err := ParseCacheKey(key)
		assert.True(t, errors.IsCode(err, errors.ValidationError), key)
	}
}

func TestLiveOrder_IsExpired(t *testing.T) {
	o := validOrder()
	assert.False(t, o.IsExpired(1000))
	o.Expiry = 1000
	assert.True(t, o.IsExpired(1000))
	assert.False(t, o.IsExpired(999))
}
