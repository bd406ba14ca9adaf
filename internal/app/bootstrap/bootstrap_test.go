package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	pgmock "github.com/muhammadchandra19/relayer/pkg/postgresql/mock"
	"github.com/muhammadchandra19/relayer/pkg/redis/redistest"
)

func TestHealthCheck(t *testing.T) {
	rdb, mr := redistest.New(t)
	ctrl := gomock.NewController(t)
	db := pgmock.NewMockPostgreSQLClient(ctrl)

	t.Run("all dependencies up", func(t *testing.T) {
		db.EXPECT().Ping(gomock.Any()).Return(nil)

		rec := httptest.NewRecorder()
		HealthCheck(rdb, db).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"redis":"ok","postgres":"ok"}`, rec.Body.String())
	})

	t.Run("postgres down", func(t *testing.T) {
		db.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		HealthCheck(rdb, db).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})

	t.Run("redis only", func(t *testing.T) {
		mr.Close()

		rec := httptest.NewRecorder()
		HealthCheck(rdb, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "postgres")
	})
}

func TestQueueClose(t *testing.T) {
	rdb, _ := redistest.New(t)
	db := pgmock.NewMockPostgreSQLClient(gomock.NewController(t))

	q := NewQueue(rdb, db, config.Kafka{Brokers: []string{"localhost:9092"}, MatchTopic: "matches", UserOrderTopic: "user-orders"}, nil, logger.NewNopLogger(), metrics.NopMetrics())
	require.NotNil(t, q.Persistence)

	moved, err := q.RecoverProcessing(context.Background(), "ZRX|WETH")
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.NoError(t, q.Close())
}
