package model

import (
	"time"

	"github.com/google/uuid"

	"membership-billing/internal/domain"
)

// User is the account that owns a membership window. ActiveUntil is nil for
// users who never purchased; a past timestamp means the membership lapsed.
type User struct {
	ID           string
	Email        string
	Username     string
	ActiveUntil  *time.Time
	RegisteredAt time.Time
	DeletedAt    *time.Time
}

// NewUser validates and constructs a user.
func NewUser(id, email, username string) (*User, error) {
	if email == "" || username == "" {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &User{
		ID:           id,
		Email:        email,
		Username:     username,
		RegisteredAt: time.Now(),
	}, nil
}

func (u *User) IsDeleted() bool { return u != nil && u.DeletedAt != nil }

// MembershipActive reports whether the user's window covers the given instant.
func (u *User) MembershipActive(at time.Time) bool {
	return u != nil && u.ActiveUntil != nil && u.ActiveUntil.After(at)
}

// ExtendMembership stacks durationDays on top of the remaining window,
// anchored at max(now, ActiveUntil). Unused time is never discarded.
func (u *User) ExtendMembership(durationDays int, now time.Time) time.Time {
	anchor := now
	if u.ActiveUntil != nil && u.ActiveUntil.After(now) {
		anchor = *u.ActiveUntil
	}
	until := anchor.Add(time.Duration(durationDays) * 24 * time.Hour)
	u.ActiveUntil = &until
	return until
}
