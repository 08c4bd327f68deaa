package api

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v2"
)

// ConfigReader reads the api config from file and environment variables
type ConfigReader interface {
	ReadConfig(configPath string) (*APIConfig, error)
}

type configReaderImpl struct {
}

// NewConfigReader returns a new config.ConfigReader
func NewConfigReader() ConfigReader {
	return &configReaderImpl{}
}

// ReadConfig reads the optional yaml file at configPath, overrides it with environment variables, fills in
// defaults and validates the result
func (h *configReaderImpl) ReadConfig(configPath string) (config *APIConfig, err error) {

	config = &APIConfig{}

	if configPath != "" {
		log.Info().Msgf("Reading %v file...", configPath)

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		// unmarshal into structs
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	err = h.overrideFromEnv(config)
	if err != nil {
		return nil, err
	}

	// fill in all the defaults for empty values
	config.SetDefaults()

	// validate the config
	err = config.Validate()
	if err != nil {
		return nil, err
	}

	log.Info().Msg("Finished reading configuration successfully")

	return config, nil
}

// overrideFromEnv applies SLACK_*, HUBSPOT_*, CREDENTIALS_* and the unprefixed REDIRECT_URL and PORT
// environment variables on top of the file based configuration
func (h *configReaderImpl) overrideFromEnv(config *APIConfig) (err error) {
	if config.APIServer == nil {
		config.APIServer = &APIServerConfig{}
	}
	if config.Integrations == nil {
		config.Integrations = &APIConfigIntegrations{}
	}
	if config.Integrations.Slack == nil {
		config.Integrations.Slack = &SlackConfig{}
	}
	if config.Integrations.Hubspot == nil {
		config.Integrations.Hubspot = &HubspotConfig{}
	}
	if config.Credentials == nil {
		config.Credentials = &CredentialsConfig{}
	}

	if err = envconfig.Process("", config.APIServer); err != nil {
		return
	}
	if err = envconfig.Process("slack", config.Integrations.Slack); err != nil {
		return
	}
	if err = envconfig.Process("hubspot", config.Integrations.Hubspot); err != nil {
		return
	}
	if err = envconfig.Process("credentials", config.Credentials); err != nil {
		return
	}

	return nil
}
