package secure

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Tag computes the hex-encoded HMAC-SHA256 of payload under key.
func Tag(payload string, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyTag recomputes the tag for payload and compares it against the
// claimed one in constant time. An empty claimed tag never verifies.
func VerifyTag(payload string, key []byte, claimed string) bool {
	if claimed == "" {
		return false
	}
	want, err := hex.DecodeString(claimed)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	return hmac.Equal(mac.Sum(nil), want)
}
