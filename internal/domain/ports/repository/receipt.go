package repository

import (
	"context"

	"membership-billing/internal/domain/model"
)

// ReceiptRepository is append-only: receipts are never updated or deleted.
type ReceiptRepository interface {
	Insert(ctx context.Context, tx Tx, r *model.Receipt) error
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.Receipt, error)
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.Receipt, error)
	// RevenueByCurrency sums receipt amounts grouped by currency.
	RevenueByCurrency(ctx context.Context, tx Tx) (map[string]float64, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
