package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is the append-only financial record written once per finalized
// settlement. TransactionID is the provider's id, stored for audit; it is not
// unique-indexed, so a replayed settlement writes a second receipt.
type Receipt struct {
	ID             string
	UserID         string
	PlanID         string
	Amount         Amount
	PaymentMethod  string
	PaymentGateway string
	TransactionID  string
	CreatedAt      time.Time
}

// NewReceipt builds a receipt from a settlement at the given instant.
func NewReceipt(req *SettlementRequest, at time.Time) *Receipt {
	return &Receipt{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		PlanID:         req.PlanID,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		PaymentGateway: req.PaymentGateway,
		TransactionID:  req.TransactionID,
		CreatedAt:      at,
	}
}
