package main

import (
	"context"
	"flag"

	"github.com/muhammadchandra19/relayer/internal/app/bootstrap"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/redis/custodian"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/redis"
)

// Config is the operator tool configuration.
type Config struct {
	App   config.App   `envPrefix:"APP_"`
	Redis redis.Config `envPrefix:"REDIS_"`
}

func main() {
	var (
		pair   = flag.String("pair", "ZRX|WETH", "Pair to operate on")
		action = flag.String("action", "status", "One of status, halt or resume")
	)
	flag.Parse()

	cfg := &Config{}
	config.MustLoad(cfg)

	log, err := bootstrap.NewLogger(cfg.App)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Error(err, logger.Action("connect_redis"))
		return
	}
	defer func() { _ = rdb.Disconnect(ctx) }()

	guard := custodian.NewCustodian(rdb, log)

	switch *action {
	case "halt", "resume":
		if err := guard.SetState(ctx, *pair, *action == "resume"); err != nil {
			log.Error(err, logger.Action(*action), logger.Pair(*pair))
			return
		}
		fallthrough
	case "status":
		tradeable, err := guard.Tradeable(ctx, *pair)
		if err != nil {
			log.Error(err, logger.Action("status"), logger.Pair(*pair))
			return
		}
		log.Info("custodian state", logger.Pair(*pair), logger.NewField("tradeable", tradeable))
	default:
		log.Warn("invalid action, use status, halt or resume", logger.NewField("action", *action))
	}
}
