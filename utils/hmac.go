package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// TokenFingerprint computes HMAC-SHA256 of a bearer token under the given
// secret and returns it hex-encoded. Used as the redis cache key for
// identity lookups so raw tokens never land in the cache.
func TokenFingerprint(secretKey, token string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}
