package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
)

var _ repository.ReceiptRepository = (*PostgresReceiptRepo)(nil)

// PostgresReceiptRepo is append-only: there is no update or delete path.
type PostgresReceiptRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresReceiptRepo(pool *pgxpool.Pool) *PostgresReceiptRepo {
	return &PostgresReceiptRepo{pool: pool}
}

func (r *PostgresReceiptRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.Receipt) error {
	const q = `
INSERT INTO receipts (
  id, user_id, plan_id, amount, currency,
  payment_method, payment_gateway, transaction_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);
`
	ex, err := pick(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q,
		rec.ID, rec.UserID, rec.PlanID, rec.Amount.Value, rec.Amount.Currency,
		rec.PaymentMethod, rec.PaymentGateway, rec.TransactionID, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

const receiptColumns = `id, user_id, plan_id, amount, currency, payment_method, payment_gateway, transaction_id, created_at`

func scanReceipts(rows pgx.Rows) ([]*model.Receipt, error) {
	defer rows.Close()
	var out []*model.Receipt
	for rows.Next() {
		var rec model.Receipt
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PlanID, &rec.Amount.Value, &rec.Amount.Currency,
			&rec.PaymentMethod, &rec.PaymentGateway, &rec.TransactionID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *PostgresReceiptRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Receipt, error) {
	ex, err := pick(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2;`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list receipts by user: %w", err)
	}
	return scanReceipts(rows)
}

func (r *PostgresReceiptRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Receipt, error) {
	ex, err := pick(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx,
		`SELECT `+receiptColumns+` FROM receipts ORDER BY created_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent receipts: %w", err)
	}
	return scanReceipts(rows)
}

func (r *PostgresReceiptRepo) RevenueByCurrency(ctx context.Context, tx repository.Tx) (map[string]float64, error) {
	ex, err := pick(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `SELECT currency, COALESCE(SUM(amount),0) FROM receipts GROUP BY currency;`)
	if err != nil {
		return nil, fmt.Errorf("revenue by currency: %w", err)
	}
	defer rows.Close()
	out := make(map[string]float64)
	for rows.Next() {
		var cur string
		var sum float64
		if err := rows.Scan(&cur, &sum); err != nil {
			return nil, err
		}
		out[cur] = sum
	}
	return out, rows.Err()
}

func (r *PostgresReceiptRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := pick(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM receipts;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count receipts: %w", err)
	}
	return n, nil
}
