//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	"membership-billing/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- MockUserRepo ---

type MockUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.User

	SaveFunc              func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc          func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindByIDForUpdateFunc func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	CountUsersFunc        func(ctx context.Context, tx repository.Tx) (int, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{byID: map[string]*model.User{}}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDForUpdateFunc != nil {
		return r.FindByIDForUpdateFunc(ctx, tx, id)
	}
	return r.FindByID(ctx, tx, id)
}

func (r *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	if r.CountUsersFunc != nil {
		return r.CountUsersFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

// --- MockPlanRepo ---

type MockPlanRepo struct {
	mu   sync.Mutex
	data map[string]*model.MembershipPlan

	SaveFunc     func(ctx context.Context, tx repository.Tx, p *model.MembershipPlan) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error)
}

var _ repository.MembershipPlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{data: map[string]*model.MembershipPlan{}}
}

func (r *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.MembershipPlan) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.data[cp.ID] = &cp
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error) {
	if r.ListAllFunc != nil {
		return r.ListAllFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.MembershipPlan, 0, len(r.data))
	for _, p := range r.data {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// --- MockReceiptRepo ---

type MockReceiptRepo struct {
	mu   sync.Mutex
	rows []*model.Receipt

	InsertFunc func(ctx context.Context, tx repository.Tx, rec *model.Receipt) error
}

var _ repository.ReceiptRepository = (*MockReceiptRepo)(nil)

func NewMockReceiptRepo() *MockReceiptRepo {
	return &MockReceiptRepo{}
}

func (r *MockReceiptRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.Receipt) error {
	if r.InsertFunc != nil {
		return r.InsertFunc(ctx, tx, rec)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MockReceiptRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Receipt
	for _, rec := range r.rows {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MockReceiptRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Receipt, 0, len(r.rows))
	for i := len(r.rows) - 1; i >= 0; i-- {
		cp := *r.rows[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MockReceiptRepo) RevenueByCurrency(ctx context.Context, tx repository.Tx) (map[string]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string]float64{}
	for _, rec := range r.rows {
		sums[rec.Amount.Currency] += rec.Amount.Value
	}
	return sums, nil
}

func (r *MockReceiptRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

// All returns a snapshot of inserted receipts for assertions.
func (r *MockReceiptRepo) All() []*model.Receipt {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Receipt, len(r.rows))
	copy(out, r.rows)
	return out
}

// --- MockTxManager ---

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	// Execute the function immediately with NoTX. Suitable for tests that
	// don't need to verify transactional behavior.
	return fn(ctx, repository.NoTX)
}

// --- MockPaymentGateway ---

type MockPaymentGateway struct {
	GatewayName          string
	CreateOrderFunc      func(ctx context.Context, ord adapter.Order) (string, error)
	VerifyAndExtractFunc func(ctx context.Context, cb adapter.Callback) (*model.SettlementRequest, error)
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string {
	if m.GatewayName != "" {
		return m.GatewayName
	}
	return "mock"
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, ord adapter.Order) (string, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, ord)
	}
	return "https://pay.example.com/checkout/" + ord.TxnRef, nil
}

func (m *MockPaymentGateway) VerifyAndExtract(ctx context.Context, cb adapter.Callback) (*model.SettlementRequest, error) {
	if m.VerifyAndExtractFunc != nil {
		return m.VerifyAndExtractFunc(ctx, cb)
	}
	return nil, nil
}
