package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"membership-billing/internal/config"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*PayPalGateway)(nil)

// PayPalGateway implements adapter.PaymentGateway using the Orders v2 REST
// API: create an approve-and-capture order, then capture it when the buyer
// returns. An access token is fetched per call; no token cache is kept.
type PayPalGateway struct {
	clientID  string
	secret    string
	sandbox   bool
	usdRate   float64 // VND per USD quoting divisor
	returnURL string
	cancelURL string
	client    *http.Client
	baseURL   string
}

func NewPayPalGateway(cfg config.PayPalConfig, returnURL, cancelURL string) (*PayPalGateway, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("paypal client id/secret empty")
	}
	if _, err := url.Parse(returnURL); err != nil {
		return nil, fmt.Errorf("invalid return url: %w", err)
	}
	base := "https://api-m.paypal.com"
	if cfg.Sandbox {
		base = "https://api-m.sandbox.paypal.com"
	}
	return &PayPalGateway{
		clientID:  cfg.ClientID,
		secret:    cfg.ClientSecret,
		sandbox:   cfg.Sandbox,
		usdRate:   cfg.USDRate,
		returnURL: returnURL,
		cancelURL: cancelURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   base,
	}, nil
}

// SetBaseURL overrides the API host (tests).
func (g *PayPalGateway) SetBaseURL(base string) { g.baseURL = base }

func (g *PayPalGateway) Name() string { return "paypal" }

func (g *PayPalGateway) token(ctx context.Context) (string, error) {
	body := bytes.NewBufferString("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", body)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.clientID, g.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK || out.AccessToken == "" {
		return "", fmt.Errorf("paypal oauth failed: http %d", resp.StatusCode)
	}
	return out.AccessToken, nil
}

// usdValue quotes a VND price in USD using the fixed configured rate.
// A known approximation; there is no live FX lookup.
func (g *PayPalGateway) usdValue(priceVND int64) string {
	return strconv.FormatFloat(float64(priceVND)/g.usdRate, 'f', 2, 64)
}

// CreateOrder creates a CAPTURE-intent order carrying the correlation id in
// custom_id and returns the buyer approval URL.
func (g *PayPalGateway) CreateOrder(ctx context.Context, ord adapter.Order) (string, error) {
	tok, err := g.token(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"description": ord.PlanName,
			"custom_id":   ord.Intent.EncodeCorrelation(),
			"amount": map[string]any{
				"currency_code": "USD",
				"value":         g.usdValue(ord.PriceVND),
			},
		}},
		"application_context": map[string]any{
			"return_url": g.returnURL,
			"cancel_url": g.cancelURL,
		},
	}
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v2/checkout/orders", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 || out.ID == "" {
		return "", fmt.Errorf("paypal create order failed: http %d", resp.StatusCode)
	}
	for _, l := range out.Links {
		if l.Rel == "approve" {
			return l.Href, nil
		}
	}
	return "", errors.New("paypal create order: no approve link")
}

// VerifyAndExtract captures the approved order. The capture result is the
// source of truth for amount and currency, not whatever the client claims.
// A capture that is not COMPLETED resolves to (nil, nil).
func (g *PayPalGateway) VerifyAndExtract(ctx context.Context, cb adapter.Callback) (*model.SettlementRequest, error) {
	if cb.OrderToken == "" {
		return nil, nil
	}
	tok, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", g.baseURL, url.PathEscape(cb.OrderToken))
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID       string `json:"id"`
					Status   string `json:"status"`
					CustomID string `json:"custom_id"`
					Amount   struct {
						CurrencyCode string `json:"currency_code"`
						Value        string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("paypal capture failed: http %d", resp.StatusCode)
	}
	if out.Status != "COMPLETED" {
		return nil, nil
	}
	if len(out.PurchaseUnits) == 0 || len(out.PurchaseUnits[0].Payments.Captures) == 0 {
		return nil, nil
	}
	cap := out.PurchaseUnits[0].Payments.Captures[0]

	intent, err := model.DecodeCorrelation(cap.CustomID)
	if err != nil {
		return nil, nil
	}
	value, err := strconv.ParseFloat(cap.Amount.Value, 64)
	if err != nil {
		return nil, nil
	}

	return &model.SettlementRequest{
		UserID:   intent.UserID,
		PlanID:   intent.PlanID,
		Platform: intent.Platform,
		Amount: model.Amount{
			Value:    value,
			Currency: cap.Amount.CurrencyCode,
		},
		TransactionID:  cap.ID,
		PaymentMethod:  "paypal",
		PaymentGateway: g.Name(),
		Kind:           model.KindMembership,
	}, nil
}
