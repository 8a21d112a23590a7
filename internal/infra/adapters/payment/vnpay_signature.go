package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VNPay secure-hash parameter names. Both are stripped before canonicalizing.
const (
	vnpSecureHash     = "vnp_SecureHash"
	vnpSecureHashType = "vnp_SecureHashType"
)

// SignatureCodec canonicalizes a VNPay parameter set and signs/verifies it
// with HMAC-SHA512. The canonical form is the exact string VNPay hashes on
// their side: keys sorted lexicographically, values query-escaped (space
// becomes '+'), the secure-hash fields excluded.
type SignatureCodec struct {
	secret []byte
}

func NewSignatureCodec(secret string) *SignatureCodec {
	return &SignatureCodec{secret: []byte(secret)}
}

// Canonicalize builds the deterministic signing input for params.
func (c *SignatureCodec) Canonicalize(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == vnpSecureHash || k == vnpSecureHashType {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}
	return b.String()
}

// Sign returns lowercase hex HMAC-SHA512 of the canonical form.
func (c *SignatureCodec) Sign(params url.Values) string {
	mac := hmac.New(sha512.New, c.secret)
	mac.Write([]byte(c.Canonicalize(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature and compares byte-exact, so an
// uppercase-hex presentation does not verify. It never errors; a mismatch
// simply means the callback must be treated as unverified.
func (c *SignatureCodec) Verify(params url.Values, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(c.Sign(params)), []byte(signature))
}
