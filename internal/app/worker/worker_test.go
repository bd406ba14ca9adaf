package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue hands out a fixed number of order and match items per pair and
// fails the first failOrders order drains.
type fakeQueue struct {
	mu         sync.Mutex
	recovered  []string
	orders     map[string]int
	matches    map[string]int
	failOrders int
	orderCalls int
	recoverErr error
}

func (q *fakeQueue) RecoverProcessing(_ context.Context, pair string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.recovered = append(q.recovered, pair)
	return 1, q.recoverErr
}

func (q *fakeQueue) ProcessOrderQueue(_ context.Context, pair string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.orderCalls++
	if q.failOrders > 0 {
		q.failOrders--
		return false, errors.New("db down")
	}
	if q.orders[pair] == 0 {
		return false, nil
	}
	q.orders[pair]--
	return true, nil
}

func (q *fakeQueue) ProcessMatchQueue(_ context.Context, pair string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.matches[pair] == 0 {
		return false, nil
	}
	q.matches[pair]--
	return true, nil
}

func (q *fakeQueue) remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, v := range q.orders {
		n += v
	}
	for _, v := range q.matches {
		n += v
	}
	return n
}

func testOptions(pairs ...string) *Options {
	return &Options{
		Pairs:         pairs,
		IdleInterval:  time.Millisecond,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 5 * time.Millisecond,
	}
}

func TestWorker_DrainsEveryPair(t *testing.T) {
	q := &fakeQueue{
		orders:  map[string]int{"ZRX|WETH": 3, "DAI|WETH": 2},
		matches: map[string]int{"ZRX|WETH": 1},
	}
	w := NewWorker(q, logger.NewNopLogger(), testOptions("ZRX|WETH", "DAI|WETH"))

	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop(context.Background()) })

	require.Eventually(t, func() bool { return q.remaining() == 0 }, time.Second, time.Millisecond)
	assert.ElementsMatch(t, []string{"ZRX|WETH", "DAI|WETH"}, q.recovered)
}

func TestWorker_RetriesAfterFailure(t *testing.T) {
	q := &fakeQueue{
		orders:     map[string]int{"ZRX|WETH": 2},
		matches:    map[string]int{},
		failOrders: 3,
	}
	w := NewWorker(q, logger.NewNopLogger(), testOptions("ZRX|WETH"))

	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop(context.Background()) })

	require.Eventually(t, func() bool { return q.remaining() == 0 }, time.Second, time.Millisecond)
	q.mu.Lock()
	defer q.mu.Unlock()
	assert.GreaterOrEqual(t, q.orderCalls, 5)
}

func TestWorker_StartFailsWhenRecoveryFails(t *testing.T) {
	q := &fakeQueue{recoverErr: errors.New("redis down")}
	w := NewWorker(q, logger.NewNopLogger(), testOptions("ZRX|WETH"))

	assert.Error(t, w.Start(context.Background()))
}

func TestWorker_Stop(t *testing.T) {
	q := &fakeQueue{orders: map[string]int{}, matches: map[string]int{}}
	w := NewWorker(q, logger.NewNopLogger(), testOptions("ZRX|WETH"))
	require.NoError(t, w.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, w.Stop(ctx))
}
