package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"
)

// MaxRequestAge is how far a request timestamp may drift from now
const MaxRequestAge = 300 * time.Second

// ErrAuthentication is wrapped by every request verification failure
var ErrAuthentication = errors.New("request authentication failed")

// VerifyRequest validates the Slack request signature against now.
// See: https://api.slack.com/authentication/verifying-requests-from-slack
func VerifyRequest(body []byte, timestamp, signature, signingKey string, now time.Time) error {
	if timestamp == "" || signature == "" {
		return fmt.Errorf("%w: missing signature headers", ErrAuthentication)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp %q", ErrAuthentication, timestamp)
	}

	// drift in either direction
	age := now.Unix() - ts
	if age < 0 {
		age = -age
	}
	if age > int64(MaxRequestAge/time.Second) {
		return fmt.Errorf("%w: timestamp %d outside window (current: %d)", ErrAuthentication, ts, now.Unix())
	}

	if !hmac.Equal([]byte(Sign(body, timestamp, signingKey)), []byte(signature)) {
		return fmt.Errorf("%w: signature mismatch", ErrAuthentication)
	}

	return nil
}

// Sign computes the v0 signature Slack sends for body at timestamp
func Sign(body []byte, timestamp, signingKey string) string {
	h := hmac.New(sha256.New, []byte(signingKey))
	h.Write([]byte("v0:" + timestamp + ":"))
	h.Write(body)
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

// ValidateSlackRequest reports whether the request is authentic right now
func ValidateSlackRequest(body []byte, timestamp string, signature string, signingKey string) bool {
	if err := VerifyRequest(body, timestamp, signature, signingKey, time.Now()); err != nil {
		log.Printf("Rejected Slack request: %v", err)
		return false
	}
	return true
}
