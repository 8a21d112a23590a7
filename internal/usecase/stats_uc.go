package usecase

import (
	"context"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
)

var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase backs the admin panel: user/receipt counts and revenue.
type StatsUseCase interface {
	Totals(ctx context.Context) (users, receipts int, revenue map[string]float64, err error)
	RecentReceipts(ctx context.Context, limit int) ([]*model.Receipt, error)
}

type statsUC struct {
	users    repository.UserRepository
	receipts repository.ReceiptRepository
}

func NewStatsUseCase(users repository.UserRepository, receipts repository.ReceiptRepository) *statsUC {
	return &statsUC{users: users, receipts: receipts}
}

func (u *statsUC) Totals(ctx context.Context) (int, int, map[string]float64, error) {
	userCount, err := u.users.CountUsers(ctx, nil)
	if err != nil {
		return 0, 0, nil, err
	}
	receiptCount, err := u.receipts.Count(ctx, nil)
	if err != nil {
		return 0, 0, nil, err
	}
	revenue, err := u.receipts.RevenueByCurrency(ctx, nil)
	if err != nil {
		return 0, 0, nil, err
	}
	return userCount, receiptCount, revenue, nil
}

func (u *statsUC) RecentReceipts(ctx context.Context, limit int) ([]*model.Receipt, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return u.receipts.ListRecent(ctx, nil, limit)
}
