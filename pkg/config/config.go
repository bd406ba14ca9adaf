package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and an optional
// .env file, panicking on error.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// App holds the settings shared by every relayer binary.
type App struct {
	Name        string   `env:"NAME" envDefault:"relayer"`
	Environment string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogOutput   []string `env:"LOG_OUTPUT" envSeparator:"," envDefault:"stdout"`
	Pairs       []string `env:"PAIRS" envSeparator:"," envDefault:"ZRX|WETH"`
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
}

// Kafka holds the broker settings used by the event publishers.
type Kafka struct {
	Brokers        []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	MatchTopic     string   `env:"MATCH_TOPIC" envDefault:"matches"`
	UserOrderTopic string   `env:"USER_ORDER_TOPIC" envDefault:"user-orders"`
	RequiredAckAll bool     `env:"REQUIRED_ACK_ALL" envDefault:"true"`
	BatchTimeoutMS int      `env:"BATCH_TIMEOUT_MS" envDefault:"10"`
}

// SequencerClient locates the sequencer and bounds reconnects to it.
type SequencerClient struct {
	URL         string        `env:"URL" envDefault:"ws://localhost:8081/sequence"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	BaseDelay   time.Duration `env:"BASE_DELAY" envDefault:"1s"`
}

// OrderBook holds the order book server settings.
type OrderBook struct {
	Requestor         string        `env:"REQUESTOR" envDefault:"orderbook"`
	CustodianInterval time.Duration `env:"CUSTODIAN_INTERVAL" envDefault:"10s"`
	ReloadInterval    time.Duration `env:"RELOAD_INTERVAL" envDefault:"5m"`
}

// Worker holds the queue drain settings.
type Worker struct {
	IdleInterval  time.Duration `env:"IDLE_INTERVAL" envDefault:"100ms"`
	RetryDelay    time.Duration `env:"RETRY_DELAY" envDefault:"500ms"`
	MaxRetryDelay time.Duration `env:"MAX_RETRY_DELAY" envDefault:"10s"`
}

// Relay holds the public relay settings.
type Relay struct {
	Requestor      string        `env:"REQUESTOR" envDefault:"relay"`
	WriteWait      time.Duration `env:"WRITE_WAIT" envDefault:"10s"`
	ResyncInterval time.Duration `env:"RESYNC_INTERVAL" envDefault:"1s"`
}
