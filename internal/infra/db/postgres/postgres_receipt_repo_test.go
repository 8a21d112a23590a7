//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"membership-billing/internal/domain/model"
)

// seedAccount inserts a user and plan so receipts satisfy their FKs.
func seedAccount(t *testing.T) (*model.User, *model.MembershipPlan) {
	t.Helper()
	ctx := context.Background()
	u, err := model.NewUser("", "buyer@example.com", "buyer")
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if err := NewPostgresUserRepo(testPool).Save(ctx, nil, u); err != nil {
		t.Fatalf("save user: %v", err)
	}
	p, err := model.NewMembershipPlan("", "Gold", 30, 150000)
	if err != nil {
		t.Fatalf("new plan: %v", err)
	}
	if err := NewPostgresPlanRepo(testPool).Save(ctx, nil, p); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	return u, p
}

func TestReceiptRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewPostgresReceiptRepo(testPool)
	ctx := context.Background()

	newReceipt := func(u *model.User, p *model.MembershipPlan, txnID, currency string, value float64, at time.Time) *model.Receipt {
		return &model.Receipt{
			ID:             uuid.NewString(),
			UserID:         u.ID,
			PlanID:         p.ID,
			Amount:         model.Amount{Value: value, Currency: currency},
			PaymentMethod:  "ATM",
			PaymentGateway: "vnpay",
			TransactionID:  txnID,
			CreatedAt:      at,
		}
	}

	t.Run("should insert and list receipts", func(t *testing.T) {
		cleanup(t)
		u, p := seedAccount(t)

		now := time.Now().UTC()
		first := newReceipt(u, p, "VNP-1", "VND", 150000, now.Add(-time.Hour))
		second := newReceipt(u, p, "VNP-2", "VND", 150000, now)
		for _, rec := range []*model.Receipt{first, second} {
			if err := repo.Insert(ctx, nil, rec); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
		}

		byUser, err := repo.ListByUser(ctx, nil, u.ID, 10)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(byUser) != 2 || byUser[0].TransactionID != "VNP-2" {
			t.Errorf("expected newest first, got %+v", byUser)
		}

		recent, err := repo.ListRecent(ctx, nil, 1)
		if err != nil {
			t.Fatalf("ListRecent failed: %v", err)
		}
		if len(recent) != 1 || recent[0].TransactionID != "VNP-2" {
			t.Errorf("limit/order mismatch: %+v", recent)
		}
	})

	t.Run("allows duplicate transaction ids", func(t *testing.T) {
		cleanup(t)
		u, p := seedAccount(t)

		now := time.Now().UTC()
		if err := repo.Insert(ctx, nil, newReceipt(u, p, "VNP-1", "VND", 150000, now)); err != nil {
			t.Fatalf("first insert: %v", err)
		}
		if err := repo.Insert(ctx, nil, newReceipt(u, p, "VNP-1", "VND", 150000, now)); err != nil {
			t.Fatalf("replayed settlement must still insert: %v", err)
		}
		n, err := repo.Count(ctx, nil)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 receipts, got %d", n)
		}
	})

	t.Run("sums revenue per currency", func(t *testing.T) {
		cleanup(t)
		u, p := seedAccount(t)

		now := time.Now().UTC()
		_ = repo.Insert(ctx, nil, newReceipt(u, p, "VNP-1", "VND", 150000, now))
		_ = repo.Insert(ctx, nil, newReceipt(u, p, "VNP-2", "VND", 150000, now))
		_ = repo.Insert(ctx, nil, newReceipt(u, p, "CAP-1", "USD", 6.00, now))

		revenue, err := repo.RevenueByCurrency(ctx, nil)
		if err != nil {
			t.Fatalf("RevenueByCurrency failed: %v", err)
		}
		if revenue["VND"] != 300000 || revenue["USD"] != 6.00 {
			t.Errorf("revenue mismatch: %v", revenue)
		}
	})
}
