package main

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/golang/mock/gomock"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
	"github.com/strategiotech/bd-barry/pkg/services/slack"
	"github.com/stretchr/testify/assert"
)

func getTestConfig() *api.APIConfig {
	config := &api.APIConfig{
		APIServer: &api.APIServerConfig{
			BaseURL: "https://bd-barry.onrender.com",
		},
		Integrations: &api.APIConfigIntegrations{
			Slack: &api.SlackConfig{
				SigningSecret: "8f742231b10e8888abcd99yyyzzz85a5",
				ClientID:      "1234.5678",
				ClientSecret:  "shhh",
			},
			Hubspot: &api.HubspotConfig{
				Token: "pat-na1-abc",
			},
		},
	}
	config.SetDefaults()

	return config
}

func TestConfigureGinGonic(t *testing.T) {

	t.Run("DoesNotPanic", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := getTestConfig()
		slackService := slack.NewMockService(ctrl)
		stopChannel := make(chan struct{})
		defer close(stopChannel)
		dispatcher := slack.NewDispatcher(stopChannel, &sync.WaitGroup{}, config.Integrations.Slack, slackService, slackapi.NewMockClient(ctrl))
		slackHandler := slack.NewHandler(config, slackService, dispatcher)

		assert.NotPanics(t, func() {
			// act
			_ = configureGinGonic(config, slackHandler, discard.NewCounter())
		})
	})

	t.Run("ServesProbesAndRejectsUnsignedCommands", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := getTestConfig()
		slackService := slack.NewMockService(ctrl)
		stopChannel := make(chan struct{})
		defer close(stopChannel)
		dispatcher := slack.NewDispatcher(stopChannel, &sync.WaitGroup{}, config.Integrations.Slack, slackService, slackapi.NewMockClient(ctrl))
		router := configureGinGonic(config, slack.NewHandler(config, slackService, dispatcher), discard.NewCounter())

		liveness := httptest.NewRecorder()
		readiness := httptest.NewRecorder()
		command := httptest.NewRecorder()

		// act
		router.ServeHTTP(liveness, httptest.NewRequest(http.MethodGet, "/liveness", nil))
		router.ServeHTTP(readiness, httptest.NewRequest(http.MethodGet, "/readiness", nil))
		router.ServeHTTP(command, httptest.NewRequest(http.MethodPost, "/slack/commands", nil))

		assert.Equal(t, http.StatusOK, liveness.Code)
		assert.Equal(t, "I'm alive!", liveness.Body.String())
		assert.Equal(t, http.StatusOK, readiness.Code)
		assert.Equal(t, "I'm ready!", readiness.Body.String())
		assert.Equal(t, http.StatusBadRequest, command.Code)
	})
}
