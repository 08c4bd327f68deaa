package api

import (
	"errors"
	"strings"
	"time"
)

// APIConfig represent the configuration for the entire api application
type APIConfig struct {
	APIServer    *APIServerConfig       `yaml:"apiServer,omitempty"`
	Integrations *APIConfigIntegrations `yaml:"integrations,omitempty"`
	Credentials  *CredentialsConfig     `yaml:"credentials,omitempty"`
}

func (c *APIConfig) SetDefaults() {
	if c.APIServer == nil {
		c.APIServer = &APIServerConfig{}
	}
	c.APIServer.SetDefaults()

	if c.Integrations == nil {
		c.Integrations = &APIConfigIntegrations{}
	}
	c.Integrations.SetDefaults()

	if c.Credentials == nil {
		c.Credentials = &CredentialsConfig{}
	}
	c.Credentials.SetDefaults()
}

func (c *APIConfig) Validate() (err error) {
	err = c.APIServer.Validate()
	if err != nil {
		return
	}

	err = c.Integrations.Validate()
	if err != nil {
		return
	}

	err = c.Credentials.Validate()
	if err != nil {
		return
	}

	return nil
}

// APIServerConfig represents configuration for the api server
type APIServerConfig struct {
	BaseURL string `yaml:"baseURL" envconfig:"redirect_url"`
	Port    int    `yaml:"port" envconfig:"port"`
}

func (c *APIServerConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 3000
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

func (c *APIServerConfig) Validate() (err error) {
	if c.BaseURL == "" {
		return errors.New("Configuration item 'apiServer.baseURL' is required; please set it to the public https url of this server, it's used to build the OAuth redirect uri")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return errors.New("Configuration item 'apiServer.baseURL' has to start with http:// or https://")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("Configuration item 'apiServer.port' has to be a valid tcp port")
	}

	return nil
}

// OAuthRedirectURI returns the redirect uri registered with the Slack app; it has to match byte for byte
func (c *APIServerConfig) OAuthRedirectURI() string {
	return c.BaseURL + "/slack/oauth_redirect"
}

// APIConfigIntegrations contains config for 3rd party integrations
type APIConfigIntegrations struct {
	Slack   *SlackConfig   `yaml:"slack,omitempty"`
	Hubspot *HubspotConfig `yaml:"hubspot,omitempty"`
}

func (c *APIConfigIntegrations) SetDefaults() {
	if c.Slack == nil {
		c.Slack = &SlackConfig{}
	}
	c.Slack.SetDefaults()

	if c.Hubspot == nil {
		c.Hubspot = &HubspotConfig{}
	}
	c.Hubspot.SetDefaults()
}

func (c *APIConfigIntegrations) Validate() (err error) {
	err = c.Slack.Validate()
	if err != nil {
		return
	}

	err = c.Hubspot.Validate()
	if err != nil {
		return
	}

	return nil
}

// SlackConfig is used to configure slack integration
type SlackConfig struct {
	SigningSecret          string        `yaml:"signingSecret" envconfig:"signing_secret"`
	ClientID               string        `yaml:"clientID" envconfig:"client_id"`
	ClientSecret           string        `yaml:"clientSecret" envconfig:"client_secret"`
	Scopes                 []string      `yaml:"scopes" envconfig:"scopes"`
	AuthorizeURL           string        `yaml:"authorizeURL" envconfig:"authorize_url"`
	OAuthAccessURL         string        `yaml:"oauthAccessURL" envconfig:"oauth_access_url"`
	MaxRequestAge          time.Duration `yaml:"maxRequestAge" envconfig:"max_request_age"`
	EventChannelBufferSize int           `yaml:"eventChannelBufferSize" envconfig:"event_channel_buffer_size"`
	MaxWorkers             int           `yaml:"maxWorkers" envconfig:"max_workers"`
	CommandTimeout         time.Duration `yaml:"commandTimeout" envconfig:"command_timeout"`
}

func (c *SlackConfig) SetDefaults() {
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"commands", "chat:write", "incoming-webhook"}
	}
	if c.AuthorizeURL == "" {
		c.AuthorizeURL = "https://slack.com/oauth/v2/authorize"
	}
	if c.OAuthAccessURL == "" {
		c.OAuthAccessURL = "https://slack.com/api/oauth.v2.access"
	}
	if c.MaxRequestAge == 0 {
		c.MaxRequestAge = 5 * time.Minute
	}
	if c.EventChannelBufferSize == 0 {
		c.EventChannelBufferSize = 100
	}
	if c.MaxWorkers == 0 {
		c.MaxWorkers = 5
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = 30 * time.Second
	}
}

func (c *SlackConfig) Validate() (err error) {
	if c.SigningSecret == "" {
		return errors.New("Configuration item 'integrations.slack.signingSecret' is required; please set it to the Slack app signing secret")
	}
	if c.ClientID == "" {
		return errors.New("Configuration item 'integrations.slack.clientID' is required; please set it to a Slack client id")
	}
	if c.ClientSecret == "" {
		return errors.New("Configuration item 'integrations.slack.clientSecret' is required; please set it to a Slack client secret")
	}
	if c.MaxWorkers < 1 {
		return errors.New("Configuration item 'integrations.slack.maxWorkers' has to be at least 1")
	}
	if c.EventChannelBufferSize < 0 {
		return errors.New("Configuration item 'integrations.slack.eventChannelBufferSize' cannot be negative")
	}

	return nil
}

// HubspotConfig is used to configure the hubspot crm integration
type HubspotConfig struct {
	Token   string `yaml:"token" envconfig:"token"`
	BaseURL string `yaml:"baseURL" envconfig:"base_url"`
}

func (c *HubspotConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.hubapi.com"
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

func (c *HubspotConfig) Validate() (err error) {
	if c.Token == "" {
		return errors.New("Configuration item 'integrations.hubspot.token' is required; please set it to a HubSpot private app token")
	}

	return nil
}

// CredentialsConfig configures the in-memory workspace credential store
type CredentialsConfig struct {
	EncryptionKey string `yaml:"encryptionKey" envconfig:"encryption_key"`
}

func (c *CredentialsConfig) SetDefaults() {
}

func (c *CredentialsConfig) Validate() (err error) {
	if c.EncryptionKey != "" && len(c.EncryptionKey) != 32 {
		return errors.New("Configuration item 'credentials.encryptionKey' has to be 32 characters long to be usable as AES-256 key")
	}

	return nil
}
