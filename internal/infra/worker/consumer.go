package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/queue"
)

// Consumer runs standing settlement-consume loops. Each worker blocks in
// ConsumeOne; a handler failure dead-letters that message inside the queue,
// so the loop just logs and keeps going.
type Consumer struct {
	queue   queue.SettlementQueue
	handle  queue.Handler
	n       int
	log     *zerolog.Logger
	wg      sync.WaitGroup
	quit    chan struct{}
	backoff time.Duration
}

func NewConsumer(q queue.SettlementQueue, handle queue.Handler, workers int, logger *zerolog.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		queue:   q,
		handle:  handle,
		n:       workers,
		log:     logger,
		quit:    make(chan struct{}),
		backoff: time.Second,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	for i := 0; i < c.n; i++ {
		c.wg.Add(1)
		go func(id int) {
			defer c.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-c.quit:
					return
				default:
				}
				if err := c.consume(ctx, id); err != nil {
					if ctx.Err() != nil {
						return
					}
					// Broker hiccup or dead-lettered message; don't spin.
					select {
					case <-time.After(c.backoff):
					case <-ctx.Done():
						return
					case <-c.quit:
						return
					}
				}
			}
		}(i)
	}
}

func (c *Consumer) consume(ctx context.Context, id int) error {
	err := c.queue.ConsumeOne(ctx, func(ctx context.Context, req *model.SettlementRequest) error {
		return c.handle(ctx, req)
	})
	if err != nil && ctx.Err() == nil {
		c.log.Error().Err(err).Int("worker", id).Msg("settlement consume error")
	}
	return err
}

func (c *Consumer) Stop() {
	close(c.quit)
	c.wg.Wait()
}
