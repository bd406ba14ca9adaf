package main

import (
	"context"

	"github.com/muhammadchandra19/relayer/internal/app/bootstrap"
	"github.com/muhammadchandra19/relayer/internal/app/sequencer"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/postgresql/sequence"
	"github.com/muhammadchandra19/relayer/internal/metrics"
	usecasesequence "github.com/muhammadchandra19/relayer/internal/usecase/sequence"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/muhammadchandra19/relayer/pkg/redis"
)

// Config is the sequencer configuration.
type Config struct {
	App      config.App        `envPrefix:"APP_"`
	Redis    redis.Config      `envPrefix:"REDIS_"`
	Postgres postgresql.Config `envPrefix:"POSTGRES_"`
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

	seq := usecasesequence.NewSequencer(
		rdb,
		sequence.NewRepository(db, log),
		cfg.App.Pairs,
		log,
		metrics.PrometheusMetrics("sequencer"),
	)
	if err := seq.Load(ctx); err != nil {
		log.Error(err, logger.Action("load_sequences"))
		return
	}

	srv := bootstrap.Serve(cfg.App.HTTPAddr, sequencer.NewServer(seq, log).Handler(bootstrap.HealthCheck(rdb, db)), log)
	log.Info("sequencer started", logger.NewField("pairs", cfg.App.Pairs))

	bootstrap.WaitForSignal(log)
	cancel()

	shutdownCtx, shutdownCancel := bootstrap.ShutdownContext()
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Action("stop_http"))
	}
	log.Info("sequencer stopped")
}
