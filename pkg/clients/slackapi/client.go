package slackapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"github.com/sethgrid/pester"
	"github.com/slack-go/slack"
	"github.com/strategiotech/bd-barry/pkg/api"
)

// Client is the interface for communicating with the Slack api
//
//go:generate mockgen -package=slackapi -destination ./mock.go -source=client.go
type Client interface {
	ExchangeOAuthCode(ctx context.Context, code, redirectURI string) (response *OAuthV2Response, err error)
	PostResponse(ctx context.Context, responseURL string, message ResponseMessage) (err error)
}

// NewClient returns a slackapi.Client to communicate with the Slack API
func NewClient(config *api.SlackConfig) Client {
	return &client{
		config:     config,
		httpClient: &http.Client{Transport: &nethttp.Transport{}, Timeout: 10 * time.Second},
	}
}

type client struct {
	config     *api.SlackConfig
	httpClient *http.Client
}

// ExchangeOAuthCode trades an authorization code for a workspace access token; the call is made exactly once
func (c *client) ExchangeOAuthCode(ctx context.Context, code, redirectURI string) (response *OAuthV2Response, err error) {

	// https://api.slack.com/methods/oauth.v2.access
	form := url.Values{}
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	// a code can only be redeemed once, so retrying would only produce invalid_code errors
	client := pester.NewExtendedClient(c.httpClient)
	client.MaxRetries = 1
	client.KeepLog = true
	client.Timeout = time.Second * 10

	request, err := http.NewRequest(http.MethodPost, c.config.OAuthAccessURL, strings.NewReader(form.Encode()))
	if err != nil {
		return
	}
	request = request.WithContext(ctx)
	request.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	span := opentracing.SpanFromContext(ctx)
	var ht *nethttp.Tracer
	if span != nil {
		// collect additional information on setting up connections
		request, ht = nethttp.TraceRequest(span.Tracer(), request)
	}

	// perform actual request
	httpResponse, err := client.Do(request)
	if err != nil {
		return
	}
	defer httpResponse.Body.Close()
	if ht != nil {
		ht.Finish()
	}

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return nil, fmt.Errorf("slack oauth.v2.access responded with status code %v", httpResponse.StatusCode)
	}

	// unmarshal json body
	var oauthResponse OAuthV2Response
	err = json.Unmarshal(body, &oauthResponse)
	if err != nil {
		log.Warn().Err(err).Int("statusCode", httpResponse.StatusCode).Msg("Failed unmarshalling slack oauth.v2.access response")
		return nil, err
	}

	if !oauthResponse.OK {
		return &oauthResponse, &OAuthAccessError{Code: oauthResponse.Error}
	}

	return &oauthResponse, nil
}

// PostResponse delivers a message to the short-lived response url of a slash command
func (c *client) PostResponse(ctx context.Context, responseURL string, message ResponseMessage) (err error) {

	if responseURL == "" {
		return fmt.Errorf("response url is empty")
	}

	responseType := message.ResponseType
	if responseType == "" {
		responseType = ResponseTypeEphemeral
	}

	return slack.PostWebhookCustomHTTPContext(ctx, responseURL, c.httpClient, &slack.WebhookMessage{
		Text:            message.Text,
		ResponseType:    string(responseType),
		ReplaceOriginal: message.ReplaceOriginal,
	})
}
