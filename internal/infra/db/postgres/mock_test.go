//go:build !integration

package postgres

import (
	"context"
	"time"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
	red "membership-billing/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerPlanRepo mocks the database repository that the decorator wraps.
type mockInnerPlanRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, plan *model.MembershipPlan) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error)
}

func (m *mockInnerPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.MembershipPlan) error {
	return m.SaveFunc(ctx, tx, plan)
}
func (m *mockInnerPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error) {
	return m.ListAllFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc        func(ctx context.Context, key string) (string, error)
	SetFunc        func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc        func(ctx context.Context, keys ...string) error
	PingFunc       func(ctx context.Context) error
	LPushFunc      func(ctx context.Context, key string, values ...interface{}) error
	BRPopLPushFunc func(ctx context.Context, source, destination string, timeout time.Duration) (string, error)
	LRemFunc       func(ctx context.Context, key string, count int64, value interface{}) error
	LLenFunc       func(ctx context.Context, key string) (int64, error)
	CloseFunc      func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
func (m *mockRedisClient) LPush(ctx context.Context, key string, values ...interface{}) error {
	if m.LPushFunc != nil {
		return m.LPushFunc(ctx, key, values...)
	}
	return nil
}
func (m *mockRedisClient) BRPopLPush(ctx context.Context, source, destination string, timeout time.Duration) (string, error) {
	if m.BRPopLPushFunc != nil {
		return m.BRPopLPushFunc(ctx, source, destination, timeout)
	}
	return "", nil
}
func (m *mockRedisClient) LRem(ctx context.Context, key string, count int64, value interface{}) error {
	if m.LRemFunc != nil {
		return m.LRemFunc(ctx, key, count, value)
	}
	return nil
}
func (m *mockRedisClient) LLen(ctx context.Context, key string) (int64, error) {
	if m.LLenFunc != nil {
		return m.LLenFunc(ctx, key)
	}
	return 0, nil
}
func (m *mockRedisClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
