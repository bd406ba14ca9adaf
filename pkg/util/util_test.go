package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	assert.NotEmpty(t, GetRequestID(ctx))

	ctx = WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))

	assert.Empty(t, GetRequestID(context.Background()))
}

func TestWithRequestor(t *testing.T) {
	ctx := WithRequestor(context.Background(), "orderBookServer|ZRX|WETH")
	assert.Equal(t, "orderBookServer|ZRX|WETH", GetRequestor(ctx))
	assert.Empty(t, GetRequestor(context.Background()))
}

func TestYearMonth(t *testing.T) {
	ts := time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-03", YearMonth(ts))
}
