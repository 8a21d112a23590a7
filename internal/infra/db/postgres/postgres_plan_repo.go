package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.MembershipPlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

func (r *PostgresPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.MembershipPlan) error {
	const q = `
INSERT INTO membership_plans (id, name, duration_days, price_vnd, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
  SET name          = EXCLUDED.name,
      duration_days = EXCLUDED.duration_days,
      price_vnd     = EXCLUDED.price_vnd;
`
	ex, err := pick(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, plan.ID, plan.Name, plan.DurationDays, plan.PriceVND, plan.CreatedAt); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error) {
	const q = `
SELECT id, name, duration_days, price_vnd, created_at
  FROM membership_plans
 WHERE id = $1;
`
	ex, err := pick(r.pool, tx)
	if err != nil {
		return nil, err
	}
	row := ex.QueryRow(ctx, q, id)
	var p model.MembershipPlan
	if err := row.Scan(&p.ID, &p.Name, &p.DurationDays, &p.PriceVND, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return &p, nil
}

func (r *PostgresPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error) {
	const q = `
SELECT id, name, duration_days, price_vnd, created_at
  FROM membership_plans
 ORDER BY price_vnd;
`
	ex, err := pick(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var out []*model.MembershipPlan
	for rows.Next() {
		var p model.MembershipPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationDays, &p.PriceVND, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
