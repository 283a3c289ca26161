package scribd

import (
	"crypto/md5"
	"encoding/hex"
	"io"
)

// sign computes the api_sig value: the hex MD5 digest of the secret followed
// by name+value of every non-file field in name order. fields must already be
// sorted.
//
// MD5 is what the service verifies; changing the digest breaks the wire
// format.
func sign(secret string, fields []formField) string {
	h := md5.New()
	io.WriteString(h, secret)
	for _, f := range fields {
		if f.File != nil {
			continue
		}
		io.WriteString(h, f.Name)
		io.WriteString(h, f.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Sign returns the request signature for the given fields and secret.
func Sign(secret string, fields Fields) string {
	return sign(secret, fields.normalize())
}
