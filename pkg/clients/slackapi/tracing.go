package slackapi

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/strategiotech/bd-barry/pkg/api"
)

// NewTracingClient returns a new instance of a tracing Client.
func NewTracingClient(c Client) Client {
	return &tracingClient{c, "slackapi"}
}

type tracingClient struct {
	Client Client
	prefix string
}

func (c *tracingClient) ExchangeOAuthCode(ctx context.Context, code, redirectURI string) (response *OAuthV2Response, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "ExchangeOAuthCode"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.ExchangeOAuthCode(ctx, code, redirectURI)
}

func (c *tracingClient) PostResponse(ctx context.Context, responseURL string, message ResponseMessage) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "PostResponse"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.PostResponse(ctx, responseURL, message)
}
