package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	App       App             `envPrefix:"APP_"`
	Kafka     Kafka           `envPrefix:"KAFKA_"`
	Sequencer SequencerClient `envPrefix:"SEQUENCER_"`
	OrderBook OrderBook       `envPrefix:"ORDERBOOK_"`
	Worker    Worker          `envPrefix:"WORKER_"`
	Relay     Relay           `envPrefix:"RELAY_"`
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_PAIRS", "ZRX|WETH,DAI|WETH")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg := &testConfig{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, []string{"ZRX|WETH", "DAI|WETH"}, cfg.App.Pairs)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "matches", cfg.Kafka.MatchTopic)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestLoadServiceDefaults(t *testing.T) {
	t.Setenv("ORDERBOOK_RELOAD_INTERVAL", "30s")
	t.Setenv("SEQUENCER_URL", "ws://sequencer:8081/sequence")

	cfg := &testConfig{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, "ws://sequencer:8081/sequence", cfg.Sequencer.URL)
	assert.Equal(t, 5, cfg.Sequencer.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Sequencer.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.OrderBook.ReloadInterval)
	assert.Equal(t, "orderbook", cfg.OrderBook.Requestor)
	assert.Equal(t, 10*time.Second, cfg.Worker.MaxRetryDelay)
	assert.Equal(t, "relay", cfg.Relay.Requestor)
}

func TestMustLoadPanicsOnInvalidValue(t *testing.T) {
	t.Setenv("KAFKA_BATCH_TIMEOUT_MS", "not-a-number")

	assert.Panics(t, func() {
		MustLoad(&testConfig{})
	})
}
