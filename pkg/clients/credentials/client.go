package credentials

import (
	"context"
	"errors"
	"sync"
	"time"

	crypt "github.com/estafette/estafette-ci-crypt"
)

var (
	// ErrNotFound is returned for workspaces that haven't installed the app
	ErrNotFound = errors.New("no credential installed for workspace")
	// ErrInvalidCredential is returned when storing a credential without workspace id or token
	ErrInvalidCredential = errors.New("workspace id and access token are required")
)

// Client stores the access token per installed workspace
//
//go:generate mockgen -package=credentials -destination ./mock.go -source=client.go
type Client interface {
	Put(ctx context.Context, workspaceID, accessToken string) (err error)
	Get(ctx context.Context, workspaceID string) (accessToken string, err error)
}

// NewClient returns an in-memory credentials.Client; credentials are lost on restart. When secretHelper is
// non-nil tokens are kept encrypted while at rest in memory.
func NewClient(secretHelper crypt.SecretHelper) Client {
	return &client{
		secretHelper: secretHelper,
		credentials:  map[string]WorkspaceCredential{},
		now:          time.Now,
	}
}

type client struct {
	secretHelper crypt.SecretHelper
	mutex        sync.RWMutex
	credentials  map[string]WorkspaceCredential
	now          func() time.Time
}

func (c *client) Put(ctx context.Context, workspaceID, accessToken string) (err error) {
	if workspaceID == "" || accessToken == "" {
		return ErrInvalidCredential
	}

	// encrypt outside the lock, the map only ever sees the complete credential
	storedToken := accessToken
	if c.secretHelper != nil {
		storedToken, err = c.secretHelper.Encrypt(accessToken, crypt.DefaultPipelineAllowList)
		if err != nil {
			return err
		}
	}

	credential := WorkspaceCredential{
		WorkspaceID: workspaceID,
		AccessToken: storedToken,
		InstalledAt: c.now().UTC(),
	}

	c.mutex.Lock()
	c.credentials[workspaceID] = credential
	c.mutex.Unlock()

	return nil
}

func (c *client) Get(ctx context.Context, workspaceID string) (accessToken string, err error) {
	c.mutex.RLock()
	credential, ok := c.credentials[workspaceID]
	c.mutex.RUnlock()

	if !ok {
		return "", ErrNotFound
	}

	if c.secretHelper == nil {
		return credential.AccessToken, nil
	}

	accessToken, _, err = c.secretHelper.Decrypt(credential.AccessToken, workspaceID)
	if err != nil {
		return "", err
	}

	return accessToken, nil
}
