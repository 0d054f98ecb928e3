package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// MaxRequestAge is how far a request timestamp may drift from now
const MaxRequestAge = 5 * time.Minute

// ValidateSlackRequest validates the Slack request signature
// See: https://api.slack.com/authentication/verifying-requests-from-slack
func ValidateSlackRequest(body []byte, timestamp string, signature string, signingSecret string) bool {
	return validateSlackRequestAt(time.Now(), body, timestamp, signature, signingSecret)
}

func validateSlackRequestAt(now time.Time, body []byte, timestamp string, signature string, signingSecret string) bool {
	if signature == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	// Reject replays in either direction
	window := int64(MaxRequestAge / time.Second)
	if ts < now.Unix()-window || ts > now.Unix()+window {
		return false
	}

	expectedSig := computeSignature(body, timestamp, signingSecret)

	// Compare with provided signature using constant-time comparison
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// computeSignature returns "v0=" + hex(HMAC-SHA256(secret, "v0:<timestamp>:<body>"))
func computeSignature(body []byte, timestamp string, signingSecret string) string {
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte("v0:" + timestamp + ":"))
	h.Write(body)
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}
