package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrMissingCredentials is returned when the timestamp or signature header is absent
	ErrMissingCredentials = errors.New("request timestamp or signature header is missing")
	// ErrStaleRequest is returned when the request timestamp falls outside the replay window
	ErrStaleRequest = errors.New("request timestamp is outside the replay window")
	// ErrSignatureMismatch is returned when the signature doesn't match the one computed over the raw body
	ErrSignatureMismatch = errors.New("request signature does not match")
)

const signatureVersion = "v0"

// Verifier checks that an inbound request was signed by Slack with the app's signing secret
type Verifier interface {
	Verify(rawBody []byte, timestampHeader, signatureHeader string) (err error)
}

// NewVerifier returns a Verifier rejecting requests older (or newer) than maxAge
func NewVerifier(signingSecret string, maxAge time.Duration) Verifier {
	return &verifier{
		signingSecret: []byte(signingSecret),
		maxAge:        maxAge,
		now:           time.Now,
		compare:       subtle.ConstantTimeCompare,
	}
}

type verifier struct {
	signingSecret []byte
	maxAge        time.Duration
	now           func() time.Time
	compare       func(x, y []byte) int
}

func (v *verifier) Verify(rawBody []byte, timestampHeader, signatureHeader string) (err error) {

	// https://api.slack.com/authentication/verifying-requests-from-slack
	if timestampHeader == "" || signatureHeader == "" {
		return ErrMissingCredentials
	}

	timestamp, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q is not a unix timestamp", ErrStaleRequest, timestampHeader)
	}

	// bounds are compared directly, subtracting an arbitrary timestamp from now can overflow
	now := v.now().Unix()
	maxAge := int64(v.maxAge / time.Second)
	if timestamp < now-maxAge || timestamp > now+maxAge {
		return fmt.Errorf("%w: timestamp %v is more than %v seconds away from %v", ErrStaleRequest, timestamp, maxAge, now)
	}

	expected := []byte(v.Sign(rawBody, timestampHeader))
	actual := []byte(signatureHeader)

	// the comparator is only safe for equal-length input
	if len(expected) != len(actual) {
		return ErrSignatureMismatch
	}

	if v.compare(expected, actual) != 1 {
		return ErrSignatureMismatch
	}

	return nil
}

// Sign returns the v0 signature for a raw body sent with the given timestamp header
func (v *verifier) Sign(rawBody []byte, timestampHeader string) string {
	mac := hmac.New(sha256.New, v.signingSecret)
	mac.Write([]byte(signatureVersion + ":" + timestampHeader + ":"))
	mac.Write(rawBody)

	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}
