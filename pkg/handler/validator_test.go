package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"
)

func sign(t *testing.T, body []byte, timestamp, signingSecret string) string {
	t.Helper()
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	return "v0=" + fmt.Sprintf("%x", h.Sum(nil))
}

func TestValidateSlackRequest(t *testing.T) {
	signingSecret := "test-signing-secret"
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	body := []byte(`{"type":"url_verification","challenge":"test"}`)

	// Generate valid signature
	validSig := sign(t, body, timestamp, signingSecret)

	tests := []struct {
		name      string
		body      []byte
		timestamp string
		signature string
		secret    string
		want      bool
	}{
		{
			name:      "valid signature",
			body:      body,
			timestamp: timestamp,
			signature: validSig,
			secret:    signingSecret,
			want:      true,
		},
		{
			name:      "invalid signature",
			body:      body,
			timestamp: timestamp,
			signature: "v0=invalidsig",
			secret:    signingSecret,
			want:      false,
		},
		{
			name:      "wrong signing secret",
			body:      body,
			timestamp: timestamp,
			signature: validSig,
			secret:    "wrong-secret",
			want:      false,
		},
		{
			name:      "tampered body",
			body:      []byte(`{"type":"url_verification","challenge":"evil"}`),
			timestamp: timestamp,
			signature: validSig,
			secret:    signingSecret,
			want:      false,
		},
		{
			name:      "old timestamp",
			body:      body,
			timestamp: strconv.FormatInt(time.Now().Unix()-400, 10), // 400 seconds old
			signature: validSig,
			secret:    signingSecret,
			want:      false,
		},
		{
			name:      "invalid timestamp format",
			body:      body,
			timestamp: "not-a-number",
			signature: validSig,
			secret:    signingSecret,
			want:      false,
		},
		{
			name:      "empty signature",
			body:      body,
			timestamp: timestamp,
			signature: "",
			secret:    signingSecret,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSlackRequest(tt.body, tt.timestamp, tt.signature, tt.secret)
			if got != tt.want {
				t.Errorf("ValidateSlackRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateSlackRequestTimestampWindow(t *testing.T) {
	secret := "test-secret"
	body := []byte("test")
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name   string
		offset int64
		want   bool
	}{
		{"now", 0, true},
		{"300 seconds old", -300, true},
		{"301 seconds old", -301, false},
		{"300 seconds ahead", 300, true},
		{"301 seconds ahead", 301, false},
		{"far past", math.MinInt64, false},
		{"far future", math.MaxInt64 - 1700000000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := strconv.FormatInt(now.Unix()+tt.offset, 10)
			sig := sign(t, body, ts, secret)
			if got := validateSlackRequestAt(now, body, ts, sig, secret); got != tt.want {
				t.Errorf("validateSlackRequestAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateSlackRequestConstantTimeComparison(t *testing.T) {
	secret := "test-key"
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	body := []byte("test")

	validSig := sign(t, body, timestamp, secret)

	// Signature that's similar but wrong
	wrongSig := "v0=" + "0" + validSig[4:]
	if wrongSig == validSig {
		wrongSig = "v0=" + "1" + validSig[4:]
	}

	if ValidateSlackRequest(body, timestamp, wrongSig, secret) {
		t.Error("ValidateSlackRequest() should reject similar but invalid signature")
	}
}

func TestComputeSignatureMatchesSlackExample(t *testing.T) {
	// Example from Slack's request verification documentation
	body := []byte("token=xyzz0WbapA4vBCDEFasx0q6G&team_id=T1DC2JH3J&team_domain=testteamnow&channel_id=G8PSS9T3V&channel_name=foobar&user_id=U2CERLKJA&user_name=roadrunner&command=%2Fwebhook-collect&text=&response_url=https%3A%2F%2Fhooks.slack.com%2Fcommands%2FT1DC2JH3J%2F397700885554%2F96rGlfmibIGlgcZRskXaIFfN&trigger_id=398738663015.47445629121.803a0bc887a14d10d2c447fce8b6703c")
	got := computeSignature(body, "1531420618", "8f742231b10e8888abcd99yyyzzz85a5")
	want := "v0=a2114d57b48eac39b9ad189dd8316235a7b4a8d21a10bd27519666489c69b503"
	if got != want {
		t.Errorf("computeSignature() = %s, want %s", got, want)
	}
}
