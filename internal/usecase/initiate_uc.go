package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	"membership-billing/internal/domain/ports/repository"
	"membership-billing/internal/infra/metrics"
)

// Compile-time check
var _ PaymentInitiator = (*initiatorUC)(nil)

type PaymentInitiator interface {
	// Initiate validates the purchase intent and returns the gateway redirect
	// URL. No internal ledger state is created; the intent exists only at the
	// external provider until its callback comes back.
	Initiate(ctx context.Context, gateway, planID, userID, platform, ipAddr, bankCode string) (string, error)
}

type initiatorUC struct {
	users    repository.UserRepository
	plans    repository.MembershipPlanRepository
	gateways map[string]adapter.PaymentGateway
	log      *zerolog.Logger
}

func NewPaymentInitiator(users repository.UserRepository, plans repository.MembershipPlanRepository, gateways []adapter.PaymentGateway, logger *zerolog.Logger) *initiatorUC {
	byName := make(map[string]adapter.PaymentGateway, len(gateways))
	for _, g := range gateways {
		byName[g.Name()] = g
	}
	return &initiatorUC{users: users, plans: plans, gateways: byName, log: logger}
}

func (u *initiatorUC) Initiate(ctx context.Context, gateway, planID, userID, platform, ipAddr, bankCode string) (string, error) {
	gw, ok := u.gateways[strings.ToLower(gateway)]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownGateway, gateway)
	}

	user, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return "", fmt.Errorf("initiate: user %s: %w", userID, err)
	}
	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		return "", fmt.Errorf("initiate: plan %s: %w", planID, err)
	}
	if plan.PriceVND <= 0 || plan.DurationDays <= 0 {
		return "", fmt.Errorf("initiate: plan %s not purchasable: %w", planID, domain.ErrInvalidArgument)
	}

	if platform == "" {
		platform = model.PlatformWeb
	}
	ord := adapter.Order{
		Intent: model.PurchaseIntent{
			UserID:   user.ID,
			PlanID:   plan.ID,
			Platform: platform,
		},
		PriceVND: plan.PriceVND,
		PlanName: plan.Name,
		TxnRef:   uuid.NewString(),
		IPAddr:   ipAddr,
		BankCode: bankCode,
	}

	redirectURL, err := gw.CreateOrder(ctx, ord)
	if err != nil {
		metrics.IncInitiation(gw.Name(), "error")
		u.log.Error().Err(err).Str("gateway", gw.Name()).Str("user_id", userID).Msg("create order failed")
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)
	}

	metrics.IncInitiation(gw.Name(), "ok")
	u.log.Info().Str("gateway", gw.Name()).Str("user_id", userID).Str("plan_id", planID).
		Str("txn_ref", ord.TxnRef).Msg("payment initiated")
	return redirectURL, nil
}
