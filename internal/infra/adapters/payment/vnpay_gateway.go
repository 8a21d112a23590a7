package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"membership-billing/internal/config"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*VNPayGateway)(nil)

const vnpSuccessCode = "00"

// VNPayGateway implements adapter.PaymentGateway for VNPay's signed-redirect
// protocol. There is no server-to-server call: the order is encoded into a
// signed pay URL, and settlement arrives as a signed return/IPN query.
type VNPayGateway struct {
	tmnCode   string
	payURL    string
	returnURL string
	codec     *SignatureCodec
	now       func() time.Time
}

func NewVNPayGateway(cfg config.VNPayConfig, returnURL string) (*VNPayGateway, error) {
	if cfg.TmnCode == "" || cfg.HashSecret == "" {
		return nil, errors.New("vnpay tmn_code and hash_secret are required")
	}
	if _, err := url.Parse(cfg.PayURL); err != nil {
		return nil, fmt.Errorf("invalid vnpay pay url: %w", err)
	}
	return &VNPayGateway{
		tmnCode:   cfg.TmnCode,
		payURL:    cfg.PayURL,
		returnURL: returnURL,
		codec:     NewSignatureCodec(cfg.HashSecret),
		now:       time.Now,
	}, nil
}

func (g *VNPayGateway) Name() string { return "vnpay" }

// CreateOrder builds the signed redirect URL. The price is passed through in
// minor units (x100), no currency conversion. The correlation id rides in
// vnp_OrderInfo.
func (g *VNPayGateway) CreateOrder(ctx context.Context, ord adapter.Order) (string, error) {
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", g.tmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(ord.PriceVND*100, 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", ord.TxnRef)
	params.Set("vnp_OrderInfo", ord.Intent.EncodeCorrelation())
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", g.returnURL)
	params.Set("vnp_IpAddr", ord.IPAddr)
	params.Set("vnp_CreateDate", g.now().Format("20060102150405"))
	if ord.BankCode != "" {
		params.Set("vnp_BankCode", ord.BankCode)
	}
	params.Set(vnpSecureHash, g.codec.Sign(params))
	return g.payURL + "?" + params.Encode(), nil
}

// VerifyAndExtract authenticates the signed callback. It accepts only a
// matching signature AND response code "00"; anything else resolves to
// (nil, nil) -- a failed or tampered payment is expected traffic.
func (g *VNPayGateway) VerifyAndExtract(ctx context.Context, cb adapter.Callback) (*model.SettlementRequest, error) {
	params := cb.Params
	if params == nil {
		return nil, nil
	}
	if !g.codec.Verify(params, params.Get(vnpSecureHash)) {
		return nil, nil
	}
	if params.Get("vnp_ResponseCode") != vnpSuccessCode {
		return nil, nil
	}

	raw, err := strconv.ParseInt(params.Get("vnp_Amount"), 10, 64)
	if err != nil || raw <= 0 {
		return nil, nil
	}

	// OrderInfo may arrive percent-encoded depending on the transport.
	info := params.Get("vnp_OrderInfo")
	if dec, err := url.QueryUnescape(info); err == nil {
		info = dec
	}
	intent, err := model.DecodeCorrelation(info)
	if err != nil {
		return nil, nil
	}

	txnID := params.Get("vnp_TransactionNo")
	if txnID == "" {
		txnID = params.Get("vnp_TxnRef")
	}
	method := params.Get("vnp_CardType")
	if method == "" {
		method = params.Get("vnp_BankCode")
	}

	return &model.SettlementRequest{
		UserID:   intent.UserID,
		PlanID:   intent.PlanID,
		Platform: intent.Platform,
		Amount: model.Amount{
			Value:    float64(raw) / 100, // inverse of the x100 at initiation
			Currency: "VND",
		},
		TransactionID:  txnID,
		PaymentMethod:  method,
		PaymentGateway: g.Name(),
		Kind:           model.KindMembership,
	}, nil
}
