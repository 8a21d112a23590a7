package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
	"membership-billing/internal/infra/metrics"
	red "membership-billing/internal/infra/redis"
)

var _ repository.MembershipPlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator serves plan reads from Redis. Plans change rarely
// and are read on every initiation and finalization.
type planRepoCacheDecorator struct {
	inner repository.MembershipPlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.MembershipPlanRepository, cache red.RedisClient) repository.MembershipPlanRepository {
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error) {
	// Reads inside a transaction go straight to the source of truth.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := fmt.Sprintf("plan:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("plan", "hit")
		var plan model.MembershipPlan
		if json.Unmarshal([]byte(val), &plan) == nil {
			return &plan, nil
		}
	} else if err != redis.Nil {
		// Redis down: fall through to the inner repo.
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		bytes, _ := json.Marshal(plan)
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return plan, nil
}

// Writes invalidate both the single-plan and list entries.
func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.MembershipPlan) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", plan.ID), "plans:all")
	return d.inner.Save(ctx, tx, plan)
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error) {
	if tx != nil {
		return d.inner.ListAll(ctx, tx)
	}
	const key = "plans:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("plan_list", "hit")
		var plans []*model.MembershipPlan
		if json.Unmarshal([]byte(val), &plans) == nil {
			return plans, nil
		}
	}

	metrics.IncCacheRequest("plan_list", "miss")
	plans, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(plans) > 0 {
		bytes, _ := json.Marshal(plans)
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return plans, nil
}
