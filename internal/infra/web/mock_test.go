//go:build !integration

package web

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/queue"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Mock use cases ---

type mockInitiator struct {
	InitiateFunc func(ctx context.Context, gateway, planID, userID, platform, ipAddr, bankCode string) (string, error)
}

func (m *mockInitiator) Initiate(ctx context.Context, gateway, planID, userID, platform, ipAddr, bankCode string) (string, error) {
	return m.InitiateFunc(ctx, gateway, planID, userID, platform, ipAddr, bankCode)
}

type mockReconciler struct {
	CaptureFunc func(ctx context.Context, orderToken string) (*model.SettlementRequest, error)
	ReturnFunc  func(ctx context.Context, params url.Values) (*model.SettlementRequest, error)
}

func (m *mockReconciler) ReconcileCapture(ctx context.Context, orderToken string) (*model.SettlementRequest, error) {
	return m.CaptureFunc(ctx, orderToken)
}

func (m *mockReconciler) ReconcileReturn(ctx context.Context, params url.Values) (*model.SettlementRequest, error) {
	return m.ReturnFunc(ctx, params)
}

type mockFinalizer struct {
	mu        sync.Mutex
	finalized []*model.SettlementRequest
	Err       error
}

func (m *mockFinalizer) Finalize(ctx context.Context, req *model.SettlementRequest) (*model.Receipt, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalized = append(m.finalized, req)
	return model.NewReceipt(req, time.Now()), nil
}

func (m *mockFinalizer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.finalized)
}

type mockPlanUC struct {
	Plans []*model.MembershipPlan
}

func (m *mockPlanUC) Create(ctx context.Context, name string, durationDays int, priceVND int64) (*model.MembershipPlan, error) {
	p, err := model.NewMembershipPlan("", name, durationDays, priceVND)
	if err != nil {
		return nil, err
	}
	m.Plans = append(m.Plans, p)
	return p, nil
}

func (m *mockPlanUC) List(ctx context.Context) ([]*model.MembershipPlan, error) {
	return m.Plans, nil
}

type mockStatsUC struct {
	Users    int
	Receipts []*model.Receipt
	Revenue  map[string]float64
}

func (m *mockStatsUC) Totals(ctx context.Context) (int, int, map[string]float64, error) {
	return m.Users, len(m.Receipts), m.Revenue, nil
}

func (m *mockStatsUC) RecentReceipts(ctx context.Context, limit int) ([]*model.Receipt, error) {
	if limit > 0 && limit < len(m.Receipts) {
		return m.Receipts[:limit], nil
	}
	return m.Receipts, nil
}

// --- In-memory settlement queue ---

type memQueue struct {
	mu   sync.Mutex
	msgs []*model.SettlementRequest
}

var _ queue.SettlementQueue = (*memQueue)(nil)

func (q *memQueue) Publish(ctx context.Context, req *model.SettlementRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := *req
	q.msgs = append(q.msgs, &cp)
	return nil
}

func (q *memQueue) ConsumeOne(ctx context.Context, handle queue.Handler) error {
	q.mu.Lock()
	if len(q.msgs) == 0 {
		q.mu.Unlock()
		return context.DeadlineExceeded
	}
	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	q.mu.Unlock()
	return handle(ctx, msg)
}

func (q *memQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}
