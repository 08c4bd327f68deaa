package slack

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
	"golang.org/x/oauth2"
)

// NewHandler returns a slack.Handler
func NewHandler(config *api.APIConfig, service Service, dispatcher Dispatcher) Handler {
	return Handler{
		config:     config,
		service:    service,
		dispatcher: dispatcher,
		oauthConfig: &oauth2.Config{
			ClientID:     config.Integrations.Slack.ClientID,
			ClientSecret: config.Integrations.Slack.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.Integrations.Slack.AuthorizeURL,
				TokenURL: config.Integrations.Slack.OAuthAccessURL,
			},
			RedirectURL: config.APIServer.OAuthRedirectURI(),
			// slack expects a comma separated scope list
			Scopes: []string{strings.Join(config.Integrations.Slack.Scopes, ",")},
		},
		pageTemplate: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

type Handler struct {
	config       *api.APIConfig
	service      Service
	dispatcher   Dispatcher
	oauthConfig  *oauth2.Config
	pageTemplate *template.Template
}

// RegisterRoutes adds the Slack routes; every POST route is guarded by the signature verification middleware
func (h *Handler) RegisterRoutes(routes gin.IRoutes, verifyRequestSignature gin.HandlerFunc) {
	routes.POST("/slack/commands", verifyRequestSignature, h.HandleCommand)
	routes.POST("/slack/events", verifyRequestSignature, h.HandleEvent)
	routes.GET("/slack/install", h.Install)
	routes.GET("/slack/oauth_redirect", h.HandleOAuthRedirect)
}

// HandleCommand acknowledges a verified slash command right away and leaves the actual work to the dispatcher
func (h *Handler) HandleCommand(c *gin.Context) {

	// https://api.slack.com/interactivity/slash-commands

	// the events api can be pointed at the commands url as well
	if isEventPayload(c) {
		h.HandleEvent(c)
		return
	}

	var slashCommand slackapi.SlashCommand
	// This will infer what binder to use depending on the content-type header.
	err := c.ShouldBind(&slashCommand)
	if err != nil {
		log.Error().Err(err).Msg("Binding form data from Slack command webhook failed")
		c.String(http.StatusBadRequest, "Binding form data from Slack command webhook failed")
		return
	}

	if !IsSupportedCommand(slashCommand.Command) {
		log.Debug().Str("command", slashCommand.Command).Msg("Ignoring unsupported Slack command")
		c.Status(http.StatusOK)
		return
	}

	installed, err := h.service.IsInstalled(c.Request.Context(), slashCommand.TeamID)
	if err != nil {
		log.Error().Err(err).Str("teamID", slashCommand.TeamID).Msg("Looking up Slack workspace credential failed")
		c.JSON(http.StatusOK, ephemeral("Something went wrong looking up this workspace's installation, please try again."))
		return
	}
	if !installed {
		log.Info().Str("teamID", slashCommand.TeamID).Str("command", slashCommand.Command).Msg("Received Slack command from workspace without installation")
		c.JSON(http.StatusOK, ephemeral("BD Barry isn't installed in this workspace yet. Install it via "+h.config.APIServer.BaseURL+"/slack/install and try again."))
		return
	}

	if slashCommand.ResponseURL == "" {
		c.JSON(http.StatusOK, ephemeral("Slack didn't provide a response url for this command, so the result can't be delivered."))
		return
	}

	task := CommandTask{
		ID:         uuid.New().String(),
		Command:    slashCommand,
		ReceivedAt: time.Now().UTC(),
	}
	if span := opentracing.SpanFromContext(c.Request.Context()); span != nil {
		task.SpanContext = span.Context()
	}

	if !h.dispatcher.Enqueue(task) {
		log.Warn().Str("command", slashCommand.Command).Str("teamID", slashCommand.TeamID).Msg("Slack command task channel is full")
		c.JSON(http.StatusOK, ephemeral("BD Barry is busy right now, please try again in a minute."))
		return
	}

	log.Debug().Str("taskID", task.ID).Str("command", slashCommand.Command).Str("teamID", slashCommand.TeamID).Msg("Enqueued Slack command task")

	c.JSON(http.StatusOK, ephemeral("Working on it…"))
}

// HandleEvent answers the url verification challenge and acknowledges any other Events API callback
func (h *Handler) HandleEvent(c *gin.Context) {

	// https://api.slack.com/apis/connections/events-api
	body := getRawBody(c)

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil && event.Type == "" {
		log.Error().Err(err).Msg("Deserializing body to Slack event failed")
		c.Status(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		err = json.Unmarshal(body, &challenge)
		if err != nil {
			log.Error().Err(err).Msg("Deserializing body to Slack url verification challenge failed")
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, gin.H{"challenge": challenge.Challenge})
		return

	case slackevents.CallbackEvent:
		log.Debug().Err(err).Str("teamID", event.TeamID).Str("eventType", event.InnerEvent.Type).Msg("Received Slack event callback")

	default:
		log.Debug().Str("type", event.Type).Msg("Received unhandled Slack event")
	}

	c.Status(http.StatusOK)
}

// Install redirects to Slack's authorize page with a fresh single use state
func (h *Handler) Install(c *gin.Context) {

	state, err := h.service.NewInstallState(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Creating oauth state for Slack install failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, h.oauthConfig.AuthCodeURL(state))
}

// HandleOAuthRedirect completes an install by exchanging the authorization code for a workspace token
func (h *Handler) HandleOAuthRedirect(c *gin.Context) {

	// https://api.slack.com/authentication/oauth-v2
	if denied := c.Query("error"); denied != "" {
		log.Info().Str("error", denied).Msg("Slack install was not authorized")
		h.renderPage(c, http.StatusBadRequest, "Installation cancelled", "Slack reported: "+denied+". Start the install again to add BD Barry to your workspace.")
		return
	}

	credential, err := h.service.Install(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		var rejectedErr *ExchangeRejectedError
		var transportErr *TransportError

		switch {
		case errors.Is(err, ErrMissingCode):
			h.renderPage(c, http.StatusBadRequest, "Installation failed", "The redirect from Slack didn't include an authorization code.")
		case errors.Is(err, ErrInvalidState):
			h.renderPage(c, http.StatusBadRequest, "Installation failed", "This install link has expired or was already used. Start the install again.")
		case errors.Is(err, ErrRedirectURIMismatch):
			log.Error().Err(err).Str("redirectURI", h.config.APIServer.OAuthRedirectURI()).Msg("Slack rejected the oauth redirect uri")
			h.renderPage(c, http.StatusBadGateway, "Installation failed", "Slack rejected the redirect url. Make sure "+h.config.APIServer.OAuthRedirectURI()+" is registered as redirect url of the Slack app.")
		case errors.As(err, &rejectedErr):
			log.Error().Err(err).Msg("Slack rejected the oauth code exchange")
			h.renderPage(c, http.StatusBadGateway, "Installation failed", "Slack rejected the installation: "+rejectedErr.Reason+".")
		case errors.As(err, &transportErr):
			log.Error().Err(err).Msg("Calling Slack for the oauth code exchange failed")
			h.renderPage(c, http.StatusBadGateway, "Installation failed", "Slack couldn't be reached to complete the installation. Please try again.")
		default:
			log.Error().Err(err).Msg("Completing Slack install failed")
			h.renderPage(c, http.StatusInternalServerError, "Installation failed", "Something went wrong completing the installation. Please try again.")
		}
		return
	}

	log.Info().Str("teamID", credential.WorkspaceID).Msg("Installed app in Slack workspace")

	h.renderPage(c, http.StatusOK, "✅ BD Barry installed successfully!", "You can now use /pipeline-summary, /add-note and /follow-up in your workspace.")
}

func (h *Handler) renderPage(c *gin.Context, statusCode int, title, message string) {
	c.Render(statusCode, render.HTML{
		Template: h.pageTemplate,
		Name:     "page",
		Data:     gin.H{"title": title, "message": message},
	})
}

func ephemeral(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: string(slackapi.ResponseTypeEphemeral),
		Text:         text,
	}
}

func isEventPayload(c *gin.Context) bool {
	if c.ContentType() != binding.MIMEJSON {
		return false
	}

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(getRawBody(c), &envelope); err != nil {
		return false
	}

	return envelope.Type != ""
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>BD Barry</title></head>
<body style="font-family: sans-serif; margin: 4em auto; max-width: 40em;">
<h1>{{ .title }}</h1>
<p>{{ .message }}</p>
</body>
</html>
`
