package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/wsconn"
)

func main() {
	var (
		url         = flag.String("url", "ws://localhost:8080/ws", "Relay WebSocket URL")
		pair        = flag.String("pair", "ZRX|WETH", "Pair to submit orders for")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending orders")
		count       = flag.Int("count", 1000, "Number of orders to generate")
		basePrice   = flag.Float64("base-price", 0.0005, "Base price for orders")
		priceSpread = flag.Float64("price-spread", 0.0001, "Price spread range")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		logLevel    = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithLoggingLevel(*logLevel))
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connected := make(chan struct{}, 1)
	conn := wsconn.New(*url,
		wsconn.WithLogger(log),
		wsconn.WithOnConnect(func() {
			select {
			case connected <- struct{}{}:
			default:
			}
		}),
		wsconn.WithOnMessage(func(data []byte) {
			log.Debug("relay response", logger.NewField("message", string(data)))
		}),
	)
	conn.Connect(ctx)
	defer conn.Disconnect()

	select {
	case <-connected:
	case <-time.After(30 * time.Second):
		log.Warn("relay unreachable", logger.NewField("url", *url))
		return
	}

	orders := generateOrders(rand.New(rand.NewSource(*seed)), *pair, *count, *basePrice, *priceSpread)
	log.Info("sending orders", logger.Pair(*pair), logger.NewField("count", len(orders)), logger.NewField("delay", delay.String()))

	sent := 0
	for i, order := range orders {
		if err := conn.Send(order); err != nil {
			log.Error(err, logger.NewField("index", i), logger.OrderHash(order.OrderHash))
			continue
		}
		sent++
		if sent%100 == 0 {
			log.Info("progress", logger.NewField("sent", sent))
		}
		time.Sleep(*delay)
	}

	// give the last responses a moment to arrive
	time.Sleep(time.Second)
	log.Info("done", logger.NewField("sent", sent), logger.NewField("total", len(orders)))
}
