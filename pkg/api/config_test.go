package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(content), 0600)
	assert.Nil(t, err)
	return path
}

const validConfigYaml = `apiServer:
  baseURL: https://bd-barry.onrender.com/
integrations:
  slack:
    signingSecret: 8f742231b10e8888abcd99yyyzzz85a5
    clientID: "1234.5678"
    clientSecret: shhh
  hubspot:
    token: pat-na1-abc
`

func TestReadConfig(t *testing.T) {

	t.Run("ReadsValuesFromYamlFile", func(t *testing.T) {

		configReader := NewConfigReader()

		// act
		config, err := configReader.ReadConfig(writeConfigFile(t, validConfigYaml))

		assert.Nil(t, err)
		assert.Equal(t, "https://bd-barry.onrender.com", config.APIServer.BaseURL)
		assert.Equal(t, "8f742231b10e8888abcd99yyyzzz85a5", config.Integrations.Slack.SigningSecret)
		assert.Equal(t, "1234.5678", config.Integrations.Slack.ClientID)
		assert.Equal(t, "shhh", config.Integrations.Slack.ClientSecret)
		assert.Equal(t, "pat-na1-abc", config.Integrations.Hubspot.Token)
	})

	t.Run("FillsInDefaults", func(t *testing.T) {

		configReader := NewConfigReader()

		// act
		config, err := configReader.ReadConfig(writeConfigFile(t, validConfigYaml))

		assert.Nil(t, err)
		assert.Equal(t, 3000, config.APIServer.Port)
		assert.Equal(t, 5*time.Minute, config.Integrations.Slack.MaxRequestAge)
		assert.Equal(t, 5, config.Integrations.Slack.MaxWorkers)
		assert.Equal(t, 100, config.Integrations.Slack.EventChannelBufferSize)
		assert.Equal(t, "https://slack.com/api/oauth.v2.access", config.Integrations.Slack.OAuthAccessURL)
		assert.Equal(t, "https://api.hubapi.com", config.Integrations.Hubspot.BaseURL)
		assert.Equal(t, []string{"commands", "chat:write", "incoming-webhook"}, config.Integrations.Slack.Scopes)
	})

	t.Run("OverridesValuesFromEnvironmentVariables", func(t *testing.T) {

		t.Setenv("SLACK_SIGNING_SECRET", "from-env")
		t.Setenv("HUBSPOT_TOKEN", "pat-from-env")
		t.Setenv("REDIRECT_URL", "https://example.com")
		t.Setenv("PORT", "8080")
		t.Setenv("SLACK_MAX_WORKERS", "2")

		configReader := NewConfigReader()

		// act
		config, err := configReader.ReadConfig(writeConfigFile(t, validConfigYaml))

		assert.Nil(t, err)
		assert.Equal(t, "from-env", config.Integrations.Slack.SigningSecret)
		assert.Equal(t, "pat-from-env", config.Integrations.Hubspot.Token)
		assert.Equal(t, "https://example.com", config.APIServer.BaseURL)
		assert.Equal(t, 8080, config.APIServer.Port)
		assert.Equal(t, 2, config.Integrations.Slack.MaxWorkers)
	})

	t.Run("ReadsEverythingFromEnvironmentVariablesWithoutFile", func(t *testing.T) {

		t.Setenv("SLACK_SIGNING_SECRET", "secret")
		t.Setenv("SLACK_CLIENT_ID", "id")
		t.Setenv("SLACK_CLIENT_SECRET", "client-secret")
		t.Setenv("HUBSPOT_TOKEN", "pat")
		t.Setenv("REDIRECT_URL", "https://bd-barry.onrender.com")

		configReader := NewConfigReader()

		// act
		config, err := configReader.ReadConfig("")

		assert.Nil(t, err)
		assert.Equal(t, "https://bd-barry.onrender.com/slack/oauth_redirect", config.APIServer.OAuthRedirectURI())
	})

	t.Run("ReturnsErrorIfSigningSecretIsMissing", func(t *testing.T) {

		configReader := NewConfigReader()

		// act
		_, err := configReader.ReadConfig(writeConfigFile(t, `apiServer:
  baseURL: https://bd-barry.onrender.com
integrations:
  slack:
    clientID: "1234.5678"
    clientSecret: shhh
  hubspot:
    token: pat-na1-abc
`))

		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "signingSecret")
	})

	t.Run("ReturnsErrorIfFileDoesNotExist", func(t *testing.T) {

		configReader := NewConfigReader()

		// act
		_, err := configReader.ReadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.NotNil(t, err)
	})
}

func TestCredentialsConfigValidate(t *testing.T) {

	t.Run("AllowsEmptyEncryptionKey", func(t *testing.T) {

		config := CredentialsConfig{}

		// act
		err := config.Validate()

		assert.Nil(t, err)
	})

	t.Run("ReturnsErrorForKeyThatIsNot32Characters", func(t *testing.T) {

		config := CredentialsConfig{EncryptionKey: "too-short"}

		// act
		err := config.Validate()

		assert.NotNil(t, err)
	})
}
