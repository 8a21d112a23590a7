package usecase

import (
	"context"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
)

var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	Create(ctx context.Context, name string, durationDays int, priceVND int64) (*model.MembershipPlan, error)
	List(ctx context.Context) ([]*model.MembershipPlan, error)
}

type planUC struct {
	plans repository.MembershipPlanRepository
}

func NewPlanUseCase(plans repository.MembershipPlanRepository) *planUC {
	return &planUC{plans: plans}
}

func (u *planUC) Create(ctx context.Context, name string, durationDays int, priceVND int64) (*model.MembershipPlan, error) {
	plan, err := model.NewMembershipPlan("", name, durationDays, priceVND)
	if err != nil {
		return nil, err
	}
	if err := u.plans.Save(ctx, nil, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *planUC) List(ctx context.Context) ([]*model.MembershipPlan, error) {
	return u.plans.ListAll(ctx, nil)
}
