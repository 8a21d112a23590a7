package queue

import (
	"context"

	"membership-billing/internal/domain/model"
)

// Handler processes exactly one settlement. A nil return acknowledges the
// message; an error rejects it without requeue (dead-letter path).
type Handler func(ctx context.Context, req *model.SettlementRequest) error

// SettlementQueue is a durable, named, at-least-once channel between callback
// verification and the ledger write.
//
// ConsumeOne blocks until one message is available, hands it to the handler,
// and acknowledges or dead-letters it based on the handler's result. Callers
// own the retry topology: either a request-scoped publish-then-consume or a
// standing worker loop.
type SettlementQueue interface {
	Publish(ctx context.Context, req *model.SettlementRequest) error
	ConsumeOne(ctx context.Context, handle Handler) error
}
