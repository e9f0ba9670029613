// internal/payfast/signature.go
package payfast

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Sign computes the ITN signature: an MD5 digest over the alphabetically
// sorted, percent-encoded field=value pairs, with the merchant
// passphrase appended as a final pair when one is configured. The
// signature field itself and empty values are excluded from the digest.
func Sign(form url.Values, passphrase string) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		if k == "signature" {
			continue
		}
		if form.Get(k) == "" {
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
		b.WriteString(url.QueryEscape(form.Get(k)))
	}
	if passphrase != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString("passphrase=")
		b.WriteString(url.QueryEscape(passphrase))
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Verify checks the posted signature against a locally computed one.
// Comparison is constant-time and case-insensitive on the hex digest.
func Verify(form url.Values, passphrase string) bool {
	posted := strings.ToLower(form.Get("signature"))
	if posted == "" {
		return false
	}
	expected := Sign(form, passphrase)
	return subtle.ConstantTimeCompare([]byte(posted), []byte(expected)) == 1
}
