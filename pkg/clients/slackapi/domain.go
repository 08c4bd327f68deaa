package slackapi

import "fmt"

// SlashCommand represents a slash command from Slack; it binds from both form and json payloads
type SlashCommand struct {
	Token          string `form:"token" json:"token"`
	TeamID         string `form:"team_id" json:"team_id"`
	TeamDomain     string `form:"team_domain" json:"team_domain"`
	EnterpriseID   string `form:"enterprise_id" json:"enterprise_id"`
	EnterpriseName string `form:"enterprise_name" json:"enterprise_name"`
	ChannelID      string `form:"channel_id" json:"channel_id"`
	ChannelName    string `form:"channel_name" json:"channel_name"`
	UserID         string `form:"user_id" json:"user_id"`
	UserName       string `form:"user_name" json:"user_name"`
	Command        string `form:"command" json:"command"`
	Text           string `form:"text" json:"text"`
	ResponseURL    string `form:"response_url" json:"response_url"`
	TriggerID      string `form:"trigger_id" json:"trigger_id"`
	APIAppID       string `form:"api_app_id" json:"api_app_id"`
}

// OAuthV2Response represents the response of the oauth.v2.access endpoint
type OAuthV2Response struct {
	OK          bool       `json:"ok"`
	Error       string     `json:"error,omitempty"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	Scope       string     `json:"scope"`
	BotUserID   string     `json:"bot_user_id"`
	AppID       string     `json:"app_id"`
	TeamID      string     `json:"team_id,omitempty"`
	Team        *OAuthTeam `json:"team,omitempty"`
	Enterprise  *OAuthTeam `json:"enterprise,omitempty"`
}

// OAuthTeam identifies the workspace (or enterprise) that granted the token
type OAuthTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetTeamID returns the workspace id from the nested team object, falling back to a flat team_id field
func (r *OAuthV2Response) GetTeamID() string {
	if r.Team != nil && r.Team.ID != "" {
		return r.Team.ID
	}
	return r.TeamID
}

// OAuthAccessError is returned when the token endpoint answered with ok=false
type OAuthAccessError struct {
	Code string
}

func (e *OAuthAccessError) Error() string {
	return fmt.Sprintf("slack oauth.v2.access responded with error %q", e.Code)
}

// IsRedirectURIMismatch indicates the redirect uri didn't match the one registered for the app
func (e *OAuthAccessError) IsRedirectURIMismatch() bool {
	return e.Code == "bad_redirect_uri" || e.Code == "redirect_uri_mismatch"
}

// ResponseType controls who sees a message posted to a response url
type ResponseType string

const (
	ResponseTypeEphemeral ResponseType = "ephemeral"
	ResponseTypeInChannel ResponseType = "in_channel"
)

// ResponseMessage is the text posted back to a slash command's response url
type ResponseMessage struct {
	Text            string
	ResponseType    ResponseType
	ReplaceOriginal bool
}
