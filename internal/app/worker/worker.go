// Package worker drains the durable order and match queues into the table
// store and the settlement topic.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// Queue is the durable order queue as seen by a drain worker.
type Queue interface {
	RecoverProcessing(ctx context.Context, pair string) (int, error)
	ProcessOrderQueue(ctx context.Context, pair string) (bool, error)
	ProcessMatchQueue(ctx context.Context, pair string) (bool, error)
}

// Options tunes a Worker.
type Options struct {
	Pairs []string
	// IdleInterval is the pause after a queue was found empty.
	IdleInterval time.Duration
	// RetryDelay is the backoff unit after a failed drain; consecutive
	// failures wait failures times RetryDelay, capped at MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// DefaultOptions returns the default worker options.
func DefaultOptions() *Options {
	return &Options{
		Pairs:         []string{"ZRX|WETH"},
		IdleInterval:  100 * time.Millisecond,
		RetryDelay:    500 * time.Millisecond,
		MaxRetryDelay: 10 * time.Second,
	}
}

type drainFunc func(ctx context.Context, pair string) (bool, error)

// Worker runs one order drain loop and one match drain loop per pair.
type Worker struct {
	queue   Queue
	logger  logger.Interface
	options *Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker creates a Worker.
func NewWorker(queue Queue, log logger.Interface, options *Options) *Worker {
	return &Worker{
		queue:   queue,
		logger:  log,
		options: options,
	}
}

// Start moves entries stranded by a previous crash back onto the queues and
// starts the drain loops.
func (w *Worker) Start(ctx context.Context) error {
	for _, pair := range w.options.Pairs {
		n, err := w.queue.RecoverProcessing(ctx, pair)
		if err != nil {
			return err
		}
		if n > 0 {
			w.logger.Info("recovered in-flight queue entries", logger.Pair(pair), logger.NewField("count", n))
		}
	}

	ctx, w.cancel = context.WithCancel(ctx)
	for _, pair := range w.options.Pairs {
		w.wg.Add(2)
		go w.loop(ctx, pair, "orders", w.queue.ProcessOrderQueue)
		go w.loop(ctx, pair, "matches", w.queue.ProcessMatchQueue)
	}

	w.logger.Info("queue worker started", logger.NewField("pairs", w.options.Pairs))
	return nil
}

// Stop cancels the drain loops and waits for the current items to finish.
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("queue worker stopped")
		return nil
	case <-ctx.Done():
		w.logger.Warn("queue worker stop timeout exceeded")
		return ctx.Err()
	}
}

func (w *Worker) loop(ctx context.Context, pair, queue string, drain drainFunc) {
	defer w.wg.Done()

	failures := 0
	for {
		progressed, err := drain(ctx, pair)

		var wait time.Duration
		switch {
		case err != nil:
			failures++
			wait = min(w.options.RetryDelay*time.Duration(failures), w.options.MaxRetryDelay)
			w.logger.ErrorContext(ctx, err, logger.Pair(pair), logger.NewField("queue", queue), logger.NewField("retryIn", wait.String()))
		case progressed:
			failures = 0
		default:
			failures = 0
			wait = w.options.IdleInterval
		}

		if wait == 0 {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
