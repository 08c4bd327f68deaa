package slackapi

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/strategiotech/bd-barry/pkg/api"
)

// NewMetricsClient returns a new instance of a metrics Client.
func NewMetricsClient(c Client, requestCount metrics.Counter, requestLatency metrics.Histogram) Client {
	return &metricsClient{c, requestCount, requestLatency}
}

type metricsClient struct {
	Client         Client
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
}

func (c *metricsClient) ExchangeOAuthCode(ctx context.Context, code, redirectURI string) (response *OAuthV2Response, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "ExchangeOAuthCode", begin)
	}(time.Now())

	return c.Client.ExchangeOAuthCode(ctx, code, redirectURI)
}

func (c *metricsClient) PostResponse(ctx context.Context, responseURL string, message ResponseMessage) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "PostResponse", begin)
	}(time.Now())

	return c.Client.PostResponse(ctx, responseURL, message)
}
