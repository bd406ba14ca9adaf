package main

import (
	"context"

	"github.com/muhammadchandra19/relayer/internal/app/bootstrap"
	"github.com/muhammadchandra19/relayer/internal/app/orderbook"
	sequenceclient "github.com/muhammadchandra19/relayer/internal/client/sequence"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/redis/custodian"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/redis/snapshot"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/internal/usecase/matching"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/httplib"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/muhammadchandra19/relayer/pkg/redis"
	"github.com/muhammadchandra19/relayer/pkg/wsconn"
)

// Config is the order book server configuration.
type Config struct {
	App       config.App             `envPrefix:"APP_"`
	Redis     redis.Config           `envPrefix:"REDIS_"`
	Postgres  postgresql.Config      `envPrefix:"POSTGRES_"`
	Kafka     config.Kafka           `envPrefix:"KAFKA_"`
	Sequencer config.SequencerClient `envPrefix:"SEQUENCER_"`
	OrderBook config.OrderBook       `envPrefix:"ORDERBOOK_"`
}

var cfg *Config
var log *logger.Logger

func init() {
	cfg = &Config{}
	config.MustLoad(cfg)

	l, err := bootstrap.NewLogger(cfg.App)
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = log.Sync() }()

	m := metrics.PrometheusMetrics("orderbook")

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Error(err, logger.Action("connect_redis"))
		return
	}
	defer func() { _ = rdb.Disconnect(context.Background()) }()

	db, err := bootstrap.OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Error(err, logger.Action("connect_postgres"))
		return
	}
	defer db.Close()

	sequencer := sequenceclient.NewClient(
		cfg.Sequencer.URL,
		log,
		wsconn.WithMaxAttempts(cfg.Sequencer.MaxAttempts),
		wsconn.WithBaseDelay(cfg.Sequencer.BaseDelay),
		wsconn.WithReconnectCounter(m.ReconnectAttempts),
	)
	sequencer.Connect(ctx)
	defer sequencer.Disconnect()
	if err := sequencer.WaitConnected(ctx); err != nil {
		log.Error(err, logger.Action("connect_sequencer"))
		return
	}

	queue := bootstrap.NewQueue(rdb, db, cfg.Kafka, sequencer, log, m)
	defer func() {
		if err := queue.Close(); err != nil {
			log.Error(err, logger.Action("close_publishers"))
		}
	}()

	store := snapshot.NewStore(rdb, log)
	guard := custodian.NewCustodian(rdb, log)
	options := &orderbook.Options{
		Requestor:         cfg.OrderBook.Requestor,
		CustodianInterval: cfg.OrderBook.CustodianInterval,
		ReloadInterval:    cfg.OrderBook.ReloadInterval,
	}

	servers := make([]*orderbook.Server, 0, len(cfg.App.Pairs))
	for _, pair := range cfg.App.Pairs {
		server := orderbook.NewServer(pair, rdb, queue, store, guard, matching.NewEngine(), log, m, options)
		if err := server.Start(ctx); err != nil {
			log.Error(err, logger.Action("start_orderbook"), logger.Pair(pair))
			return
		}
		servers = append(servers, server)
		log.Info("order book server started", logger.Pair(pair))
	}

	srv := bootstrap.Serve(cfg.App.HTTPAddr, httplib.NewRouter(bootstrap.HealthCheck(rdb, db)), log)

	bootstrap.WaitForSignal(log)
	cancel()

	shutdownCtx, shutdownCancel := bootstrap.ShutdownContext()
	defer shutdownCancel()

	for _, server := range servers {
		if err := server.Stop(shutdownCtx); err != nil {
			log.Error(err, logger.Action("stop_orderbook"))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Action("stop_http"))
	}
	log.Info("order book servers stopped")
}
