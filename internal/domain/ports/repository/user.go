package repository

import (
	"context"

	"membership-billing/internal/domain/model"
)

// UserRepository persists accounts. FindByID never returns soft-deleted users.
type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// FindByIDForUpdate takes a row lock; only valid inside a transaction.
	FindByIDForUpdate(ctx context.Context, tx Tx, id string) (*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
