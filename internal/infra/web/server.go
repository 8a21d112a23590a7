package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/queue"
	"membership-billing/internal/usecase"
)

// Server wires the public payment surface: initiation, the two gateway
// return paths, and the rendered result pages.
type Server struct {
	initiator  usecase.PaymentInitiator
	reconciler usecase.CallbackReconciler
	finalizer  usecase.LedgerFinalizer
	queue      queue.SettlementQueue
	planUC     usecase.PlanUseCase
	statsUC    usecase.StatsUseCase
	auth       *AdminAuth
	adminPass  string
	workerMode bool // true: a background consumer drains the queue
	log        *zerolog.Logger
}

func NewServer(
	initiator usecase.PaymentInitiator,
	reconciler usecase.CallbackReconciler,
	finalizer usecase.LedgerFinalizer,
	q queue.SettlementQueue,
	planUC usecase.PlanUseCase,
	statsUC usecase.StatsUseCase,
	auth *AdminAuth,
	adminPass string,
	workerMode bool,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		initiator:  initiator,
		reconciler: reconciler,
		finalizer:  finalizer,
		queue:      q,
		planUC:     planUC,
		statsUC:    statsUC,
		auth:       auth,
		adminPass:  adminPass,
		workerMode: workerMode,
		log:        logger,
	}
}

// RegisterRoutes attaches all handlers to the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/payments/initiate", s.handleInitiate)
	mux.HandleFunc("/api/v1/payments/paypal/return", s.handlePayPalReturn)
	mux.HandleFunc("/api/v1/payments/paypal/cancel", s.handlePayPalCancel)
	mux.HandleFunc("/api/v1/payments/vnpay/return", s.handleVNPayReturn)
	mux.HandleFunc("/api/v1/plans", plansListHandler(s.planUC))

	mux.HandleFunc("/admin/login", s.handleAdminLogin)
	mux.HandleFunc("/admin/logout", s.handleAdminLogout)
	mux.Handle("/admin/api/receipts", s.authMiddleware(receiptsHandler(s.statsUC)))
	mux.Handle("/admin/api/stats", s.authMiddleware(statsHandler(s.statsUC)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// authMiddleware guards the admin API with the session JWT.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.adminPass) == 0 {
			s.log.Error().Msg("admin password is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.FromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// settle pushes a verified settlement through the queue. In the default
// topology the request that received the callback also drains its own
// message, so the buyer sees the receipt on the result page; with a standing
// worker the page only confirms verification.
func (s *Server) settle(ctx context.Context, req *model.SettlementRequest) (*model.Receipt, error) {
	if err := s.queue.Publish(ctx, req); err != nil {
		return nil, err
	}
	if s.workerMode {
		return nil, nil
	}
	var receipt *model.Receipt
	err := s.queue.ConsumeOne(ctx, func(ctx context.Context, msg *model.SettlementRequest) error {
		r, err := s.finalizer.Finalize(ctx, msg)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *Server) handlePayPalReturn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	token := r.URL.Query().Get("token")
	if token == "" {
		s.renderResult(w, http.StatusBadRequest, resultPage{Failed: true, Reason: "missing order token"})
		return
	}

	req, err := s.reconciler.ReconcileCapture(ctx, token)
	if err != nil {
		s.renderResult(w, http.StatusBadGateway, resultPage{Failed: true, Reason: "payment could not be verified, please contact support"})
		return
	}
	if req == nil {
		s.renderResult(w, http.StatusOK, resultPage{Failed: true, Reason: "payment was not completed"})
		return
	}
	s.finishSettlement(ctx, w, req)
}

func (s *Server) handlePayPalCancel(w http.ResponseWriter, r *http.Request) {
	s.renderResult(w, http.StatusOK, resultPage{Failed: true, Reason: "payment cancelled"})
}

func (s *Server) handleVNPayReturn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	req, err := s.reconciler.ReconcileReturn(ctx, r.URL.Query())
	if err != nil {
		s.renderResult(w, http.StatusBadGateway, resultPage{Failed: true, Reason: "payment could not be verified, please contact support"})
		return
	}
	if req == nil {
		s.renderResult(w, http.StatusOK, resultPage{Failed: true, Reason: "payment failed or was cancelled"})
		return
	}
	s.finishSettlement(ctx, w, req)
}

func (s *Server) finishSettlement(ctx context.Context, w http.ResponseWriter, req *model.SettlementRequest) {
	receipt, err := s.settle(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("transaction_id", req.TransactionID).Msg("settlement failed")
		s.renderResult(w, http.StatusInternalServerError, resultPage{Failed: true, Reason: "payment received but could not be recorded, please contact support"})
		return
	}

	page := resultPage{Gateway: req.PaymentGateway}
	if receipt != nil {
		page.Amount = fmt.Sprintf("%.2f %s", receipt.Amount.Value, receipt.Amount.Currency)
		page.Method = receipt.PaymentMethod
		page.ReceiptID = receipt.ID
	}
	s.renderResult(w, http.StatusOK, page)
}

type resultPage struct {
	Failed    bool
	Reason    string
	Gateway   string
	Amount    string
	Method    string
	ReceiptID string
}

var page = template.Must(template.New("result").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Payment {{if .Failed}}Result{{else}}Success{{end}}</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:560px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.ok{color:#057a55} .fail{color:#b00020}
.small{font-size:12px;color:#666}
</style>
</head>
<body>
<div class="card">
  {{if .Failed}}
    <h2 class="fail">Payment Not Completed</h2>
    <p>{{.Reason}}</p>
  {{else}}
    <h2 class="ok">Payment Successful</h2>
    <p>Your membership has been extended.</p>
    {{if .Amount}}<p>{{.Amount}} via {{.Gateway}}{{if .Method}} ({{.Method}}){{end}}</p>{{end}}
    {{if .ReceiptID}}<div class="small">Receipt {{.ReceiptID}}</div>{{end}}
  {{end}}
</div>
</body>
</html>`))

func (s *Server) renderResult(w http.ResponseWriter, code int, data resultPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = page.Execute(w, data)
}
