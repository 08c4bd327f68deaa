package credentials

import "time"

// WorkspaceCredential is the access token issued to a workspace when it installed the app
type WorkspaceCredential struct {
	WorkspaceID string    `json:"workspaceID"`
	AccessToken string    `json:"-"`
	InstalledAt time.Time `json:"installedAt"`
}
