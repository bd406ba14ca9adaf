package main

import (
	"context"

	"github.com/muhammadchandra19/relayer/internal/app/bootstrap"
	"github.com/muhammadchandra19/relayer/internal/app/relay"
	sequenceclient "github.com/muhammadchandra19/relayer/internal/client/sequence"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/postgresql/userorder"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/redis/snapshot"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/muhammadchandra19/relayer/pkg/redis"
	"github.com/muhammadchandra19/relayer/pkg/wsconn"
)

// Config is the public relay configuration.
type Config struct {
	App       config.App             `envPrefix:"APP_"`
	Redis     redis.Config           `envPrefix:"REDIS_"`
	Postgres  postgresql.Config      `envPrefix:"POSTGRES_"`
	Kafka     config.Kafka           `envPrefix:"KAFKA_"`
	Sequencer config.SequencerClient `envPrefix:"SEQUENCER_"`
	Relay     config.Relay           `envPrefix:"RELAY_"`
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

	m := metrics.PrometheusMetrics("relay")

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

	r := relay.NewRelay(queue, userorder.NewRepository(db, log), snapshot.NewStore(rdb, log), log, &relay.Options{
		Requestor:      cfg.Relay.Requestor,
		Pairs:          cfg.App.Pairs,
		WriteWait:      cfg.Relay.WriteWait,
		ResyncInterval: cfg.Relay.ResyncInterval,
	})
	if err := r.Start(ctx); err != nil {
		log.Error(err, logger.Action("start_relay"))
		return
	}

	srv := bootstrap.Serve(cfg.App.HTTPAddr, r.Handler(bootstrap.HealthCheck(rdb, db)), log)
	log.Info("relay started", logger.NewField("pairs", cfg.App.Pairs))

	bootstrap.WaitForSignal(log)
	cancel()

	shutdownCtx, shutdownCancel := bootstrap.ShutdownContext()
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Action("stop_http"))
	}
	if err := r.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Action("stop_relay"))
	}
	log.Info("relay stopped")
}
