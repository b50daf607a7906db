package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Sign generates the hex-encoded HMAC-SHA256 signature over the canonical
// query string, as required by the futures signed endpoints.
func Sign(secretKey, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Timestamp generates a request timestamp in milliseconds
func Timestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
