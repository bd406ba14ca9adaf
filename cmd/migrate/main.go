package main

import (
	"context"
	"flag"

	"github.com/muhammadchandra19/relayer/internal/app/bootstrap"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/postgresql/migrations"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/migration"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
)

// Config is the migration tool configuration.
type Config struct {
	App      config.App        `envPrefix:"APP_"`
	Postgres postgresql.Config `envPrefix:"POSTGRES_"`
}

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	cfg := &Config{}
	config.MustLoad(cfg)

	log, err := bootstrap.NewLogger(cfg.App)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	db, err := bootstrap.OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Error(err, logger.Action("connect_postgres"))
		return
	}
	defer db.Close()

	runner := migration.NewRunner(db, migrations.FS, log)

	switch *direction {
	case "up":
		err = runner.Up(ctx, *steps)
	case "down":
		err = runner.Down(ctx, *steps)
	default:
		log.Warn("invalid direction, use up or down", logger.NewField("direction", *direction))
		return
	}
	if err != nil {
		log.Error(err, logger.Action("migrate_"+*direction))
		return
	}

	log.Info("migration completed", logger.NewField("direction", *direction), logger.NewField("steps", *steps))
}
