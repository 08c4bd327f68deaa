package credentials

import (
	"context"
	"errors"

	"github.com/opentracing/opentracing-go"
	"github.com/strategiotech/bd-barry/pkg/api"
)

// NewTracingClient returns a new instance of a tracing Client.
func NewTracingClient(c Client) Client {
	return &tracingClient{c, "credentials"}
}

type tracingClient struct {
	Client Client
	prefix string
}

func (c *tracingClient) Put(ctx context.Context, workspaceID, accessToken string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "Put"))
	defer func() { api.FinishSpanWithError(span, err) }()
	span.SetTag("workspace", workspaceID)

	return c.Client.Put(ctx, workspaceID, accessToken)
}

func (c *tracingClient) Get(ctx context.Context, workspaceID string) (accessToken string, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "Get"))
	defer func() {
		if errors.Is(err, ErrNotFound) {
			// an uninstalled workspace is a regular outcome, not a failed span
			api.FinishSpan(span)
			return
		}
		api.FinishSpanWithError(span, err)
	}()
	span.SetTag("workspace", workspaceID)

	return c.Client.Get(ctx, workspaceID)
}
