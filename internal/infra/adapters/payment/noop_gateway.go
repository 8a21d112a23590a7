package payment

import (
	"context"
	"fmt"
	"sync"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopGateway)(nil)

// NoopGateway is a simple in-memory gateway to use in dev and tests.
// Every created order settles successfully when its token comes back.
type NoopGateway struct {
	mu     sync.Mutex
	seq    int64
	orders map[string]adapter.Order // token -> order
}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{orders: make(map[string]adapter.Order)}
}

func (g *NoopGateway) Name() string { return "noop" }

func (g *NoopGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopGateway) CreateOrder(ctx context.Context, ord adapter.Order) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	token := g.next()
	g.orders[token] = ord
	return "https://example.test/pay/" + token, nil
}

func (g *NoopGateway) VerifyAndExtract(ctx context.Context, cb adapter.Callback) (*model.SettlementRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ord, ok := g.orders[cb.OrderToken]
	if !ok {
		return nil, nil
	}
	return &model.SettlementRequest{
		UserID:   ord.Intent.UserID,
		PlanID:   ord.Intent.PlanID,
		Platform: ord.Intent.Platform,
		Amount: model.Amount{
			Value:    float64(ord.PriceVND),
			Currency: "VND",
		},
		TransactionID:  "ref-" + cb.OrderToken,
		PaymentMethod:  "noop",
		PaymentGateway: g.Name(),
		Kind:           model.KindMembership,
	}, nil
}
