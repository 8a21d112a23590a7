package usecase

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	"membership-billing/internal/infra/metrics"
)

// Compile-time check
var _ CallbackReconciler = (*reconcilerUC)(nil)

// CallbackReconciler turns a provider's asynchronous success signal into a
// gateway-agnostic settlement request. Both entry points return (nil, nil)
// for a cancelled, failed or unverifiable payment -- that is an expected
// outcome, not an error. A non-nil error means the provider was unreachable.
type CallbackReconciler interface {
	// ReconcileCapture drives the card/wallet capture path (PayPal).
	ReconcileCapture(ctx context.Context, orderToken string) (*model.SettlementRequest, error)
	// ReconcileReturn drives the signed-callback path (VNPay).
	ReconcileReturn(ctx context.Context, params url.Values) (*model.SettlementRequest, error)
}

type reconcilerUC struct {
	capture  adapter.PaymentGateway // order-token capture protocol
	callback adapter.PaymentGateway // signed-parameter protocol
	log      *zerolog.Logger
}

func NewCallbackReconciler(capture, callback adapter.PaymentGateway, logger *zerolog.Logger) *reconcilerUC {
	return &reconcilerUC{capture: capture, callback: callback, log: logger}
}

func (u *reconcilerUC) ReconcileCapture(ctx context.Context, orderToken string) (*model.SettlementRequest, error) {
	req, err := u.capture.VerifyAndExtract(ctx, adapter.Callback{OrderToken: orderToken})
	return u.observe(u.capture.Name(), req, err)
}

func (u *reconcilerUC) ReconcileReturn(ctx context.Context, params url.Values) (*model.SettlementRequest, error) {
	req, err := u.callback.VerifyAndExtract(ctx, adapter.Callback{Params: params})
	return u.observe(u.callback.Name(), req, err)
}

func (u *reconcilerUC) observe(gateway string, req *model.SettlementRequest, err error) (*model.SettlementRequest, error) {
	switch {
	case err != nil:
		metrics.IncCallback(gateway, "error")
		u.log.Error().Err(err).Str("gateway", gateway).Msg("callback verification errored")
		return nil, err
	case req == nil:
		metrics.IncCallback(gateway, "rejected")
		u.log.Info().Str("gateway", gateway).Msg("callback rejected or cancelled")
		return nil, nil
	default:
		metrics.IncCallback(gateway, "verified")
		u.log.Info().Str("gateway", gateway).Str("user_id", req.UserID).
			Str("transaction_id", req.TransactionID).Msg("callback verified")
		return req, nil
	}
}
