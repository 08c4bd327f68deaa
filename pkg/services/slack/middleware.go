package slack

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/metrics"
	"github.com/rs/zerolog/log"
)

const (
	timestampHeader      = "X-Request-Timestamp"
	signatureHeader      = "X-Request-Signature"
	slackTimestampHeader = "X-Slack-Request-Timestamp"
	slackSignatureHeader = "X-Slack-Signature"

	// rawBodyKey holds the verified request body in the gin context
	rawBodyKey = "slack.rawBody"

	maxBodyBytes = 1 << 20
)

// VerifyRequestSignature rejects any request that doesn't carry a valid and fresh Slack signature; it has to run
// before the request body is bound, since the signature covers the exact bytes as sent
func VerifyRequestSignature(verifier Verifier, inboundRequestTotals metrics.Counter) gin.HandlerFunc {
	return func(c *gin.Context) {

		route := c.FullPath()

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			log.Error().Err(err).Str("route", route).Msg("Reading body from Slack request failed")
			inboundRequestTotals.With("route", route, "result", "unreadable").Add(1)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		// restore the body so it can be bound by the handlers
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		err = verifier.Verify(body, getHeader(c, timestampHeader, slackTimestampHeader), getHeader(c, signatureHeader, slackSignatureHeader))
		if err != nil {
			result, statusCode := rejection(err)
			log.Warn().Err(err).Str("route", route).Str("clientIP", c.ClientIP()).Msg("Rejected unverified Slack request")
			inboundRequestTotals.With("route", route, "result", result).Add(1)
			c.AbortWithStatusJSON(statusCode, gin.H{"code": http.StatusText(statusCode), "message": err.Error()})
			return
		}

		inboundRequestTotals.With("route", route, "result", "verified").Add(1)
		c.Set(rawBodyKey, body)

		c.Next()
	}
}

func getHeader(c *gin.Context, names ...string) string {
	for _, name := range names {
		if value := c.GetHeader(name); value != "" {
			return value
		}
	}
	return ""
}

func rejection(err error) (result string, statusCode int) {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "missing_credentials", http.StatusBadRequest
	case errors.Is(err, ErrStaleRequest):
		return "stale_request", http.StatusUnauthorized
	default:
		return "signature_mismatch", http.StatusUnauthorized
	}
}

// getRawBody returns the body stored by VerifyRequestSignature
func getRawBody(c *gin.Context) []byte {
	if value, ok := c.Get(rawBodyKey); ok {
		if body, ok := value.([]byte); ok {
			return body
		}
	}
	return nil
}
