package credentials

import (
	"context"

	"github.com/strategiotech/bd-barry/pkg/api"
)

// NewLoggingClient returns a new instance of a logging Client.
func NewLoggingClient(c Client) Client {
	return &loggingClient{c, "credentials"}
}

type loggingClient struct {
	Client Client
	prefix string
}

func (c *loggingClient) Put(ctx context.Context, workspaceID, accessToken string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "Put", err) }()

	return c.Client.Put(ctx, workspaceID, accessToken)
}

func (c *loggingClient) Get(ctx context.Context, workspaceID string) (accessToken string, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "Get", err, ErrNotFound) }()

	return c.Client.Get(ctx, workspaceID)
}
