package hubspotapi

import (
	"context"
	"time"

	"github.com/strategiotech/bd-barry/pkg/api"
)

// NewLoggingClient returns a new instance of a logging Client.
func NewLoggingClient(c Client) Client {
	return &loggingClient{c, "hubspotapi"}
}

type loggingClient struct {
	Client Client
	prefix string
}

func (c *loggingClient) GetDeals(ctx context.Context, limit int) (deals []*Deal, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "GetDeals", err) }()

	return c.Client.GetDeals(ctx, limit)
}

func (c *loggingClient) SearchContactByEmail(ctx context.Context, email string) (contact *Contact, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "SearchContactByEmail", err, ErrContactNotFound) }()

	return c.Client.SearchContactByEmail(ctx, email)
}

func (c *loggingClient) CreateNote(ctx context.Context, contactID, body string, timestamp time.Time) (note *Note, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "CreateNote", err) }()

	return c.Client.CreateNote(ctx, contactID, body, timestamp)
}
