package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminCookieName = "billing_admin"

// AdminAuth issues and validates the short-lived session JWT that guards the
// billing admin API. Sessions are HMAC-signed and carried either in the
// session cookie or as a bearer token.
type AdminAuth struct {
	secret       []byte
	cookieDomain string
	secureCookie bool
	ttl          time.Duration
}

func NewAdminAuth(secret string, secure bool, domain string, ttl time.Duration) *AdminAuth {
	return &AdminAuth{
		secret:       []byte(secret),
		cookieDomain: domain, // "" keeps the cookie host-only
		secureCookie: secure,
		ttl:          ttl,
	}
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue mints a session token and sets it as the admin cookie.
func (a *AdminAuth) Issue(w http.ResponseWriter) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: "billing-admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   "billing-admin",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, a.cookie(signed, int(a.ttl.Seconds())))
	return signed, nil
}

// Clear expires the admin cookie. The JWT itself stays valid until its TTL;
// revocation here only drops the browser session.
func (a *AdminAuth) Clear(w http.ResponseWriter) {
	http.SetCookie(w, a.cookie("", -1))
}

func (a *AdminAuth) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     adminCookieName,
		Value:    value,
		Path:     "/",
		Domain:   a.cookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// FromRequest extracts and validates the session from the Authorization
// header or, failing that, the admin cookie.
func (a *AdminAuth) FromRequest(r *http.Request) (*AdminClaims, error) {
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	if c, err := r.Cookie(adminCookieName); err == nil {
		return a.parse(c.Value)
	}
	return nil, errors.New("missing session")
}

func (a *AdminAuth) parse(tok string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid session")
	}
	return claims, nil
}
