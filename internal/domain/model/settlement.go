package model

import (
	"strings"

	"membership-billing/internal/domain"
)

// Settlement kinds. Only membership purchases exist today.
const KindMembership = "membership"

// Platform fallback used when a callback carries no usable correlation data.
const PlatformWeb = "WEB"

// PurchaseIntent identifies who is buying what, on which client platform.
// It is never persisted; its identity travels through the gateway inside the
// provider's opaque metadata field (see EncodeCorrelation).
type PurchaseIntent struct {
	UserID   string
	PlanID   string
	Platform string
}

// EncodeCorrelation renders the intent as the pipe-delimited correlation id
// carried by the gateway for the life of the transaction. Order-significant,
// no escaping: ids containing '|' would corrupt decoding. Hex/uuid ids don't,
// and the format is kept as-is rather than made self-describing.
func (p PurchaseIntent) EncodeCorrelation() string {
	return p.UserID + "|" + p.PlanID + "|" + p.Platform
}

// DecodeCorrelation is the inverse of EncodeCorrelation. A missing platform
// segment falls back to PlatformWeb: platform is advisory, not
// security-critical, so a short triple is tolerated. Fewer than two segments
// is unusable and returns ErrInvalidArgument.
func DecodeCorrelation(raw string) (PurchaseIntent, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return PurchaseIntent{}, domain.ErrInvalidArgument
	}
	intent := PurchaseIntent{UserID: parts[0], PlanID: parts[1], Platform: PlatformWeb}
	if len(parts) >= 3 && parts[2] != "" {
		intent.Platform = parts[2]
	}
	return intent, nil
}

// Amount is a normalized monetary value as reported by the gateway.
type Amount struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// SettlementRequest is the gateway-agnostic message produced by a verified
// success callback and consumed by the ledger finalizer. Immutable once
// created; JSON is the queue wire format.
type SettlementRequest struct {
	UserID         string `json:"user_id"`
	PlanID         string `json:"plan_id"`
	Platform       string `json:"platform"`
	Amount         Amount `json:"amount"`
	TransactionID  string `json:"transaction_id"`
	PaymentMethod  string `json:"payment_method"`
	PaymentGateway string `json:"payment_gateway"`
	Kind           string `json:"kind"`
}
