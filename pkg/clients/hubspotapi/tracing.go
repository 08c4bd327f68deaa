package hubspotapi

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/strategiotech/bd-barry/pkg/api"
)

// NewTracingClient returns a new instance of a tracing Client.
func NewTracingClient(c Client) Client {
	return &tracingClient{c, "hubspotapi"}
}

type tracingClient struct {
	Client Client
	prefix string
}

func (c *tracingClient) GetDeals(ctx context.Context, limit int) (deals []*Deal, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "GetDeals"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.GetDeals(ctx, limit)
}

func (c *tracingClient) SearchContactByEmail(ctx context.Context, email string) (contact *Contact, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "SearchContactByEmail"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.SearchContactByEmail(ctx, email)
}

func (c *tracingClient) CreateNote(ctx context.Context, contactID, body string, timestamp time.Time) (note *Note, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "CreateNote"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.CreateNote(ctx, contactID, body, timestamp)
}
