package esimaccess

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the RT-Signature of a request: the lower-case hex HMAC-SHA256 of
// timestamp + requestID + accessCode + body, keyed by the secret.
func Sign(secret, timestamp, requestID, accessCode string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(requestID))
	mac.Write([]byte(accessCode))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the request.
func Verify(signature, secret, timestamp, requestID, accessCode string, body []byte) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + requestID + accessCode))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
