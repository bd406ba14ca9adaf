package main

import (
	"context"

	"github.com/muhammadchandra19/relayer/internal/app/bootstrap"
	"github.com/muhammadchandra19/relayer/internal/app/worker"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/httplib"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/muhammadchandra19/relayer/pkg/redis"
)

// Config is the queue worker configuration.
type Config struct {
	App      config.App        `envPrefix:"APP_"`
	Redis    redis.Config      `envPrefix:"REDIS_"`
	Postgres postgresql.Config `envPrefix:"POSTGRES_"`
	Kafka    config.Kafka      `envPrefix:"KAFKA_"`
	Worker   config.Worker     `envPrefix:"WORKER_"`
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

	m := metrics.PrometheusMetrics("worker")

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

	// The worker only drains; it never sequences new mutations.
	queue := bootstrap.NewQueue(rdb, db, cfg.Kafka, nil, log, m)
	defer func() {
		if err := queue.Close(); err != nil {
			log.Error(err, logger.Action("close_publishers"))
		}
	}()

	w := worker.NewWorker(queue, log, &worker.Options{
		Pairs:         cfg.App.Pairs,
		IdleInterval:  cfg.Worker.IdleInterval,
		RetryDelay:    cfg.Worker.RetryDelay,
		MaxRetryDelay: cfg.Worker.MaxRetryDelay,
	})
	if err := w.Start(ctx); err != nil {
		log.Error(err, logger.Action("start_worker"))
		return
	}
	log.Info("queue worker started", logger.NewField("pairs", cfg.App.Pairs))

	srv := bootstrap.Serve(cfg.App.HTTPAddr, httplib.NewRouter(bootstrap.HealthCheck(rdb, db)), log)

	bootstrap.WaitForSignal(log)
	cancel()

	shutdownCtx, shutdownCancel := bootstrap.ShutdownContext()
	defer shutdownCancel()

	if err := w.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Action("stop_worker"))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Action("stop_http"))
	}
	log.Info("queue worker stopped")
}
