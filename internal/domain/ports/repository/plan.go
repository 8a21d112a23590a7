package repository

import (
	"context"

	"membership-billing/internal/domain/model"
)

type MembershipPlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.MembershipPlan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.MembershipPlan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.MembershipPlan, error)
}
