package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
	"membership-billing/internal/infra/logging"
	"membership-billing/internal/infra/metrics"
)

// Compile-time check
var _ LedgerFinalizer = (*finalizerUC)(nil)

// LedgerFinalizer is the only component allowed to mutate a user's membership
// window. Finalize runs one transaction: lock + load the user, load the plan,
// stack the window, save the user, insert the receipt. Any failure aborts the
// whole transaction -- no partial ledger state is ever observable.
//
// There is no dedupe by transaction id: delivering the same settlement twice
// extends the window twice and writes two receipts.
type LedgerFinalizer interface {
	Finalize(ctx context.Context, req *model.SettlementRequest) (*model.Receipt, error)
}

type finalizerUC struct {
	users    repository.UserRepository
	plans    repository.MembershipPlanRepository
	receipts repository.ReceiptRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
	now      func() time.Time
}

func NewLedgerFinalizer(users repository.UserRepository, plans repository.MembershipPlanRepository, receipts repository.ReceiptRepository, tm repository.TransactionManager, logger *zerolog.Logger) *finalizerUC {
	return &finalizerUC{
		users:    users,
		plans:    plans,
		receipts: receipts,
		tm:       tm,
		log:      logger,
		now:      time.Now,
	}
}

func (u *finalizerUC) Finalize(ctx context.Context, req *model.SettlementRequest) (*model.Receipt, error) {
	defer logging.TraceDuration(u.log, "LedgerFinalizer.Finalize")()

	var receipt *model.Receipt
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		user, err := u.users.FindByIDForUpdate(ctx, tx, req.UserID)
		if err != nil {
			return fmt.Errorf("finalize: user %s: %w", req.UserID, err)
		}
		plan, err := u.plans.FindByID(ctx, tx, req.PlanID)
		if err != nil {
			return fmt.Errorf("finalize: plan %s: %w", req.PlanID, err)
		}

		now := u.now()
		until := user.ExtendMembership(plan.DurationDays, now)
		if err := u.users.Save(ctx, tx, user); err != nil {
			return fmt.Errorf("finalize: save user: %w", err)
		}

		receipt = model.NewReceipt(req, now)
		if err := u.receipts.Insert(ctx, tx, receipt); err != nil {
			return fmt.Errorf("finalize: insert receipt: %w", err)
		}

		u.log.Info().Str("user_id", user.ID).Str("plan_id", plan.ID).
			Str("transaction_id", req.TransactionID).Time("active_until", until).
			Msg("settlement finalized")
		return nil
	})
	if err != nil {
		metrics.IncSettlement(req.PaymentGateway, "failed")
		return nil, err
	}

	metrics.IncSettlement(req.PaymentGateway, "applied")
	metrics.AddRevenue(req.Amount.Currency, req.Amount.Value)
	return receipt, nil
}
