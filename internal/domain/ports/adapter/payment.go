package adapter

import (
	"context"
	"net/url"

	"membership-billing/internal/domain/model"
)

// Order is everything a gateway needs to create a hosted payment for a plan.
// PriceVND is the plan price in whole dong; each gateway converts to its own
// currency/unit (PayPal quotes USD via a fixed rate, VNPay uses minor units).
type Order struct {
	Intent   model.PurchaseIntent
	PriceVND int64
	PlanName string
	TxnRef   string // merchant transaction reference (VNPay vnp_TxnRef)
	IPAddr   string // client IP, required by VNPay
	BankCode string // optional VNPay bank preselect
}

// Callback carries a provider's asynchronous success signal back to us.
// Exactly one of the fields is populated, depending on the gateway:
// PayPal redirects with an order token, VNPay with the full signed query.
type Callback struct {
	OrderToken string
	Params     url.Values
}

// PaymentGateway is the hex port for payment providers.
//
// VerifyAndExtract returns (nil, nil) for a verified-failure or unverifiable
// callback: a cancelled or tampered payment is expected traffic, not an error.
// A non-nil error means the provider itself could not be consulted.
type PaymentGateway interface {
	Name() string

	// CreateOrder initiates a payment with the provider and returns the URL
	// the buyer must be redirected to. No internal state is touched.
	CreateOrder(ctx context.Context, ord Order) (redirectURL string, err error)

	// VerifyAndExtract authenticates a callback and normalizes it into a
	// gateway-agnostic settlement request.
	VerifyAndExtract(ctx context.Context, cb Callback) (*model.SettlementRequest, error)
}
