package slackapi

import (
	"context"

	"github.com/strategiotech/bd-barry/pkg/api"
)

// NewLoggingClient returns a new instance of a logging Client.
func NewLoggingClient(c Client) Client {
	return &loggingClient{c, "slackapi"}
}

type loggingClient struct {
	Client Client
	prefix string
}

func (c *loggingClient) ExchangeOAuthCode(ctx context.Context, code, redirectURI string) (response *OAuthV2Response, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "ExchangeOAuthCode", err) }()

	return c.Client.ExchangeOAuthCode(ctx, code, redirectURI)
}

func (c *loggingClient) PostResponse(ctx context.Context, responseURL string, message ResponseMessage) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "PostResponse", err) }()

	return c.Client.PostResponse(ctx, responseURL, message)
}
