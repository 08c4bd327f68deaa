package hubspotapi

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

func (c *metricsClient) GetDeals(ctx context.Context, limit int) (deals []*Deal, err error) {
	defer func(begin time.Time) { api.UpdateMetrics(c.requestCount, c.requestLatency, "GetDeals", begin) }(time.Now())

	return c.Client.GetDeals(ctx, limit)
}

func (c *metricsClient) SearchContactByEmail(ctx context.Context, email string) (contact *Contact, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "SearchContactByEmail", begin)
	}(time.Now())

	return c.Client.SearchContactByEmail(ctx, email)
}

func (c *metricsClient) CreateNote(ctx context.Context, contactID, body string, timestamp time.Time) (note *Note, err error) {
	defer func(begin time.Time) { api.UpdateMetrics(c.requestCount, c.requestLatency, "CreateNote", begin) }(time.Now())

	return c.Client.CreateNote(ctx, contactID, body, timestamp)
}
