package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/queue"
	"membership-billing/internal/infra/metrics"
)

var _ queue.SettlementQueue = (*SettlementQueue)(nil)

// SettlementQueue is an at-least-once channel on Redis lists.
//
// Publish LPUSHes the JSON-encoded settlement onto the named list. ConsumeOne
// BRPOPLPUSHes into <name>:processing, so a crash between pop and ack leaves
// the raw message parked there instead of lost. A successful handler run
// removes it (ack); a failed run moves it to <name>:dead -- a ledger write
// that failed once is unlikely to succeed on blind redelivery, so it goes to
// the inspection path rather than back onto the queue.
//
// Each operation is a self-contained round trip; no broker state is held
// between calls.
type SettlementQueue struct {
	cli  RedisClient
	name string
	log  *zerolog.Logger
}

func NewSettlementQueue(cli RedisClient, name string, logger *zerolog.Logger) *SettlementQueue {
	return &SettlementQueue{cli: cli, name: name, log: logger}
}

func (q *SettlementQueue) processing() string { return q.name + ":processing" }
func (q *SettlementQueue) dead() string       { return q.name + ":dead" }

func (q *SettlementQueue) Publish(ctx context.Context, req *model.SettlementRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("queue publish: marshal: %w", err)
	}
	if err := q.cli.LPush(ctx, q.name, data); err != nil {
		return fmt.Errorf("queue publish: %w", err)
	}
	metrics.IncQueueMessage("published")
	q.log.Debug().Str("queue", q.name).Str("transaction_id", req.TransactionID).Msg("settlement published")
	return nil
}

// ConsumeOne blocks until exactly one message is available and hands it to
// handle. The message is acknowledged only after handle returns nil.
func (q *SettlementQueue) ConsumeOne(ctx context.Context, handle queue.Handler) error {
	raw, err := q.cli.BRPopLPush(ctx, q.name, q.processing(), 0)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	var req model.SettlementRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		q.reject(ctx, raw)
		return fmt.Errorf("queue consume: decode: %w", err)
	}

	if err := handle(ctx, &req); err != nil {
		q.reject(ctx, raw)
		return fmt.Errorf("queue consume: handler: %w", err)
	}

	if err := q.cli.LRem(ctx, q.processing(), 1, raw); err != nil {
		// The handler committed; redelivery from the processing list would
		// double-apply. Surface loudly instead of retrying.
		q.log.Error().Err(err).Str("queue", q.name).Msg("ack failed after successful handling")
		return fmt.Errorf("queue ack: %w", err)
	}
	metrics.IncQueueMessage("acked")
	return nil
}

// reject removes the message from the processing list and parks it on the
// dead-letter list. Reject-without-requeue, never silent loss.
func (q *SettlementQueue) reject(ctx context.Context, raw string) {
	if err := q.cli.LRem(ctx, q.processing(), 1, raw); err != nil {
		q.log.Error().Err(err).Str("queue", q.name).Msg("dead-letter: remove from processing failed")
	}
	if err := q.cli.LPush(ctx, q.dead(), raw); err != nil {
		q.log.Error().Err(err).Str("queue", q.name).Msg("dead-letter: push failed")
		return
	}
	metrics.IncQueueMessage("dead_lettered")
}
