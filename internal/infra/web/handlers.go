package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"membership-billing/internal/domain"
	"membership-billing/internal/usecase"
)

type initiateRequest struct {
	Gateway  string `json:"gateway"`
	UserID   string `json:"user_id"`
	PlanID   string `json:"plan_id"`
	Platform string `json:"platform"`
	BankCode string `json:"bank_code"`
}

func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	redirectURL, err := s.initiator.Initiate(ctx, req.Gateway, req.PlanID, req.UserID, req.Platform, clientIP(r), req.BankCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Unknown user or plan", http.StatusNotFound)
		case errors.Is(err, domain.ErrUnknownGateway), errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "Invalid purchase request", http.StatusBadRequest)
		default:
			s.log.Error().Err(err).Msg("initiate failed")
			http.Error(w, "Payment initiation failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"redirect_url": redirectURL})
}

// clientIP prefers the proxy header; VNPay requires the buyer IP on the order.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func plansListHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := planUC.List(r.Context())
		if err != nil {
			http.Error(w, "Failed to list plans", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plans)
	}
}

// ===== Admin =====

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.adminPass == "" || subtle.ConstantTimeCompare([]byte(body.Password), []byte(s.adminPass)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if _, err := s.auth.Issue(w); err != nil {
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func receiptsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		receipts, err := statsUC.RecentReceipts(r.Context(), limit)
		if err != nil {
			http.Error(w, "Failed to list receipts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(receipts)
	}
}

func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, receipts, revenue, err := statsUC.Totals(r.Context())
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}
		response := struct {
			TotalUsers    int                `json:"total_users"`
			TotalReceipts int                `json:"total_receipts"`
			Revenue       map[string]float64 `json:"revenue"`
		}{
			TotalUsers:    users,
			TotalReceipts: receipts,
			Revenue:       revenue,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}
