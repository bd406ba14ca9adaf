package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	sequencev1_mock "github.com/muhammadchandra19/relayer/internal/domain/sequence/v1/mock"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	pkgerrors "github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis/redistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const pair = "ZRX|WETH"

func TestSequencer_NextSequence(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		pair     string
		mockFn   func(counters *sequencev1_mock.MockCounterRepository)
		assertFn func(t *testing.T, seq int64, err error)
	}{
		{
			name: "increments and persists",
			pair: pair,
			mockFn: func(counters *sequencev1_mock.MockCounterRepository) {
				counters.EXPECT().Save(ctx, pair, int64(1)).Return(nil)
			},
			assertFn: func(t *testing.T, seq int64, err error) {
				require.NoError(t, err)
				assert.Equal(t, int64(1), seq)
			},
		},
		{
			name:   "unknown pair",
			pair:   "FOO|BAR",
			mockFn: func(counters *sequencev1_mock.MockCounterRepository) {},
			assertFn: func(t *testing.T, seq int64, err error) {
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.UnknownPair))
			},
		},
		{
			name: "persist failure is returned",
			pair: pair,
			mockFn: func(counters *sequencev1_mock.MockCounterRepository) {
				counters.EXPECT().Save(ctx, pair, int64(1)).Return(pkgerrors.Transient("save sequence", errors.New("down")))
			},
			assertFn: func(t *testing.T, seq int64, err error) {
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.TransientInfraError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			rdb, _ := redistest.New(t)
			counters := sequencev1_mock.NewMockCounterRepository(ctrl)
			tc.mockFn(counters)

			s := NewSequencer(rdb, counters, []string{pair}, logger.NewNopLogger(), metrics.NopMetrics())
			seq, err := s.NextSequence(ctx, tc.pair)
			tc.assertFn(t, seq, err)
		})
	}
}

func TestSequencer_ConcurrentCallersNeverShareASequence(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	rdb, _ := redistest.New(t)
	counters := sequencev1_mock.NewMockCounterRepository(ctrl)
	counters.EXPECT().Save(ctx, pair, gomock.Any()).Return(nil).Times(50)

	s := NewSequencer(rdb, counters, []string{pair}, logger.NewNopLogger(), metrics.NopMetrics())

	var (
		mu   sync.Mutex
		seen = map[int64]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := s.NextSequence(ctx, pair)
			assert.NoError(t, err)
			mu.Lock()
			seen[seq] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
	for i := int64(1); i <= 50; i++ {
		assert.True(t, seen[i], "missing sequence %d", i)
	}
}

func TestSequencer_LoadNeverLowersCounter(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	rdb, mr := redistest.New(t)
	counters := sequencev1_mock.NewMockCounterRepository(ctrl)

	require.NoError(t, mr.Set(rdb.Config().Key("sequence", "DAI|WETH"), "40"))
	counters.EXPECT().LoadAll(ctx).Return(map[string]int64{pair: 17, "DAI|WETH": 12}, nil)

	s := NewSequencer(rdb, counters, []string{pair, "DAI|WETH"}, logger.NewNopLogger(), metrics.NopMetrics())
	require.NoError(t, s.Load(ctx))

	counters.EXPECT().Save(ctx, pair, int64(18)).Return(nil)
	counters.EXPECT().Save(ctx, "DAI|WETH", int64(41)).Return(nil)

	seq, err := s.NextSequence(ctx, pair)
	require.NoError(t, err)
	assert.Equal(t, int64(18), seq)

	seq, err = s.NextSequence(ctx, "DAI|WETH")
	require.NoError(t, err)
	assert.Equal(t, int64(41), seq)
}
