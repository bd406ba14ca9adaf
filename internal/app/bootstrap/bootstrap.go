// Package bootstrap wires the infrastructure shared by the relayer binaries.
package bootstrap

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/kafka/publisher"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/postgresql/liveorder"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/postgresql/raworder"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/postgresql/userorder"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/internal/usecase/persistence"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/muhammadchandra19/relayer/pkg/redis"
	"github.com/muhammadchandra19/relayer/pkg/util"
)

// ShutdownTimeout bounds the graceful stop of every binary.
const ShutdownTimeout = 30 * time.Second

// NewLogger builds the process logger at the configured level.
func NewLogger(cfg config.App) (*logger.Logger, error) {
	return logger.NewLogger(
		logger.WithLoggingLevel(cfg.LogLevel),
		logger.WithOutputPaths(cfg.LogOutput),
	)
}

// OpenRedis connects a redis client, retrying with backoff when the first
// attempt fails.
func OpenRedis(ctx context.Context, cfg redis.Config, log logger.Interface) (redis.Client, error) {
	rdb := redis.NewClient(log, &cfg)
	if err := rdb.Connect(ctx); err != nil {
		if errors.IsCode(err, errors.RedisConfigError) {
			return nil, err
		}
		log.Warn("redis unavailable, retrying", logger.NewField("error", err.Error()))
		if !rdb.Reconnect(ctx) {
			return nil, err
		}
	}
	return rdb, nil
}

// OpenPostgres opens the postgres pool.
func OpenPostgres(ctx context.Context, cfg postgresql.Config) (*postgresql.Client, error) {
	db, err := postgresql.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.NewTracer("open postgres").Wrap(err)
	}
	return db, nil
}

// Queue is a durable order queue together with the Kafka publishers it owns.
type Queue struct {
	*persistence.Persistence
	closers []io.Closer
}

// NewQueue wires the durable order queue onto redis, postgres and Kafka.
// sequencer may be nil for processes that only drain the queue.
func NewQueue(
	rdb redis.Client,
	db postgresql.PostgreSQLClient,
	kafkaCfg config.Kafka,
	sequencer orderv1.Sequencer,
	log logger.Interface,
	m *metrics.Metrics,
) *Queue {
	matches := publisher.NewMatchPublisher(publisher.NewWriter(kafkaCfg, kafkaCfg.MatchTopic), log)
	userOrders := publisher.NewUserOrderPublisher(publisher.NewWriter(kafkaCfg, kafkaCfg.UserOrderTopic), log)

	p := persistence.NewPersistence(
		rdb,
		postgresql.NewTransactor(db),
		persistence.Repositories{
			Live:  liveorder.NewRepository(db, log),
			Raw:   raworder.NewRepository(db, log, util.NowMillis),
			Audit: userorder.NewRepository(db, log),
		},
		persistence.Publishers{
			UserOrders: userOrders,
			Matches:    matches,
		},
		sequencer,
		log,
		persistence.WithMetrics(m),
	)
	return &Queue{
		Persistence: p,
		closers:     []io.Closer{matches, userOrders},
	}
}

// Close flushes and closes the Kafka publishers.
func (q *Queue) Close() error {
	var first error
	for _, c := range q.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// HealthCheck checks redis and, when db is set, postgres. A db offering
// CheckHealth is checked with a query instead of a ping.
func HealthCheck(rdb redis.Client, db postgresql.PostgreSQLClient) healthcheck.HealthCheck {
	checks := map[string]healthcheck.Checker{
		"redis": rdb.Ping,
	}
	if db != nil {
		checks["postgres"] = db.Ping
		if h, ok := db.(interface{ CheckHealth(context.Context) error }); ok {
			checks["postgres"] = h.CheckHealth
		}
	}
	return healthcheck.HealthCheck{Checks: checks, Timeout: 2 * time.Second}
}

// Serve starts an HTTP server on addr in the background.
func Serve(addr string, handler http.Handler, log logger.Interface) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http server listening", logger.NewField("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logger.Action("serve_http"))
		}
	}()
	return srv
}

// WaitForSignal blocks until SIGINT or SIGTERM.
func WaitForSignal(log logger.Interface) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("received shutdown signal", logger.NewField("signal", sig.String()))
}

// ShutdownContext returns the context a binary stops its components under.
func ShutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ShutdownTimeout)
}
