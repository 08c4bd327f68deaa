package credentials

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

func (c *metricsClient) Put(ctx context.Context, workspaceID, accessToken string) (err error) {
	defer func(begin time.Time) { api.UpdateMetrics(c.requestCount, c.requestLatency, "Put", begin) }(time.Now())

	return c.Client.Put(ctx, workspaceID, accessToken)
}

func (c *metricsClient) Get(ctx context.Context, workspaceID string) (accessToken string, err error) {
	defer func(begin time.Time) { api.UpdateMetrics(c.requestCount, c.requestLatency, "Get", begin) }(time.Now())

	return c.Client.Get(ctx, workspaceID)
}
