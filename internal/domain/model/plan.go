package model

import (
	"time"

	"github.com/google/uuid"

	"membership-billing/internal/domain"
)

// MembershipPlan is a purchasable plan with a fixed duration and a price
// denominated in VND.
type MembershipPlan struct {
	ID           string
	Name         string
	DurationDays int
	PriceVND     int64
	CreatedAt    time.Time
}

func (p *MembershipPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewMembershipPlan validates and constructs a plan.
func NewMembershipPlan(id, name string, durationDays int, priceVND int64) (*MembershipPlan, error) {
	if name == "" || durationDays <= 0 || priceVND <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &MembershipPlan{
		ID:           id,
		Name:         name,
		DurationDays: durationDays,
		PriceVND:     priceVND,
		CreatedAt:    time.Now(),
	}, nil
}
