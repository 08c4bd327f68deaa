package slack

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/credentials"
	"github.com/strategiotech/bd-barry/pkg/clients/hubspotapi"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
)

var (
	// ErrMissingCode is returned when the oauth redirect doesn't carry an authorization code
	ErrMissingCode = errors.New("oauth redirect is missing the authorization code")
	// ErrInvalidState is returned when the oauth redirect carries a state that wasn't issued or has expired
	ErrInvalidState = errors.New("oauth state is unknown or expired")
	// ErrRedirectURIMismatch matches rejections caused by a redirect uri that isn't registered for the app
	ErrRedirectURIMismatch = errors.New("oauth redirect uri does not match the one registered for the app")
)

// ExchangeRejectedError is returned when Slack's token endpoint refused the authorization code
type ExchangeRejectedError struct {
	Reason string
}

func (e *ExchangeRejectedError) Error() string {
	return fmt.Sprintf("slack rejected the authorization code: %v", e.Reason)
}

// Is lets errors.Is(err, ErrRedirectURIMismatch) single out redirect uri rejections
func (e *ExchangeRejectedError) Is(target error) bool {
	if target != ErrRedirectURIMismatch {
		return false
	}
	accessErr := slackapi.OAuthAccessError{Code: e.Reason}
	return accessErr.IsRedirectURIMismatch()
}

// TransportError is returned when the token endpoint couldn't be reached or answered with garbage
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling slack token endpoint failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

const (
	// CommandPipelineSummary lists the active deals
	CommandPipelineSummary = "/pipeline-summary"
	// CommandAddNote adds a note to a contact
	CommandAddNote = "/add-note"
	// CommandFollowUp records a follow-up date on a contact
	CommandFollowUp = "/follow-up"

	installStateTTL  = 10 * time.Minute
	installStatesMax = 1000
	pipelineDealsMax = 10
	followUpDaysMax  = 365
)

// IsSupportedCommand indicates whether a slash command has a handler; other commands are acknowledged and ignored
func IsSupportedCommand(command string) bool {
	switch command {
	case CommandPipelineSummary, CommandAddNote, CommandFollowUp:
		return true
	}
	return false
}

// Service handles the app installation and the execution of slash commands
//
//go:generate mockgen -package=slack -destination ./mock.go -source=service.go
type Service interface {
	NewInstallState(ctx context.Context) (state string, err error)
	Install(ctx context.Context, code, state string) (credential *credentials.WorkspaceCredential, err error)
	IsInstalled(ctx context.Context, workspaceID string) (installed bool, err error)
	ExecuteCommand(ctx context.Context, command slackapi.SlashCommand) (message slackapi.ResponseMessage, err error)
}

// NewService returns a slack.Service
func NewService(config *api.APIConfig, slackapiClient slackapi.Client, hubspotapiClient hubspotapi.Client, credentialsClient credentials.Client) Service {
	return &service{
		config:            config,
		slackapiClient:    slackapiClient,
		hubspotapiClient:  hubspotapiClient,
		credentialsClient: credentialsClient,
		installStates:     map[string]time.Time{},
		installStatesMax:  installStatesMax,
		now:               time.Now,
	}
}

type service struct {
	config            *api.APIConfig
	slackapiClient    slackapi.Client
	hubspotapiClient  hubspotapi.Client
	credentialsClient credentials.Client

	installStatesMutex sync.Mutex
	installStates      map[string]time.Time
	// installStateOrder holds issued states oldest first; with a fixed ttl that's also expiry order
	installStateOrder []string
	installStatesMax  int
	now               func() time.Time
}

func (s *service) NewInstallState(ctx context.Context) (state string, err error) {
	state = uuid.New().String()
	now := s.now()

	s.installStatesMutex.Lock()
	defer s.installStatesMutex.Unlock()

	// drop expired states, and the oldest ones once the cap is reached
	for len(s.installStateOrder) > 0 {
		oldest := s.installStateOrder[0]
		expiry, ok := s.installStates[oldest]
		if ok && !now.After(expiry) && len(s.installStateOrder) < s.installStatesMax {
			break
		}
		delete(s.installStates, oldest)
		s.installStateOrder = s.installStateOrder[1:]
	}

	s.installStates[state] = now.Add(installStateTTL)
	s.installStateOrder = append(s.installStateOrder, state)

	return state, nil
}

// consumeInstallState removes the state, so it can only be used once
func (s *service) consumeInstallState(state string) bool {
	s.installStatesMutex.Lock()
	defer s.installStatesMutex.Unlock()

	expiry, ok := s.installStates[state]
	if !ok {
		return false
	}
	delete(s.installStates, state)

	return !s.now().After(expiry)
}

func (s *service) Install(ctx context.Context, code, state string) (credential *credentials.WorkspaceCredential, err error) {

	if code == "" {
		return nil, ErrMissingCode
	}

	// installs started from the Slack app directory don't carry a state
	if state != "" && !s.consumeInstallState(state) {
		return nil, ErrInvalidState
	}

	response, err := s.slackapiClient.ExchangeOAuthCode(ctx, code, s.config.APIServer.OAuthRedirectURI())
	if err != nil {
		var accessErr *slackapi.OAuthAccessError
		if errors.As(err, &accessErr) {
			return nil, &ExchangeRejectedError{Reason: accessErr.Code}
		}
		return nil, &TransportError{Cause: err}
	}

	workspaceID := response.GetTeamID()
	if workspaceID == "" || response.AccessToken == "" {
		return nil, &ExchangeRejectedError{Reason: "response is missing team id or access token"}
	}

	err = s.credentialsClient.Put(ctx, workspaceID, response.AccessToken)
	if err != nil {
		return nil, err
	}

	return &credentials.WorkspaceCredential{
		WorkspaceID: workspaceID,
		AccessToken: response.AccessToken,
		InstalledAt: s.now().UTC(),
	}, nil
}

func (s *service) IsInstalled(ctx context.Context, workspaceID string) (installed bool, err error) {
	if workspaceID == "" {
		return false, nil
	}

	_, err = s.credentialsClient.Get(ctx, workspaceID)
	if errors.Is(err, credentials.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *service) ExecuteCommand(ctx context.Context, command slackapi.SlashCommand) (message slackapi.ResponseMessage, err error) {
	switch command.Command {
	case CommandPipelineSummary:
		return s.pipelineSummary(ctx)
	case CommandAddNote:
		return s.addNote(ctx, command)
	case CommandFollowUp:
		return s.followUp(ctx, command)
	}

	return slackapi.ResponseMessage{}, nil
}

func (s *service) pipelineSummary(ctx context.Context) (message slackapi.ResponseMessage, err error) {
	deals, err := s.hubspotapiClient.GetDeals(ctx, pipelineDealsMax)
	if err != nil {
		return crmErrorMessage("fetch the pipeline", err), err
	}

	return slackapi.ResponseMessage{
		Text:         formatPipelineSummary(deals),
		ResponseType: slackapi.ResponseTypeInChannel,
	}, nil
}

func (s *service) addNote(ctx context.Context, command slackapi.SlashCommand) (message slackapi.ResponseMessage, err error) {
	email, noteText := splitFirstArgument(command.Text)
	email = unlinkEmailAddress(email)
	if email == "" || noteText == "" {
		return usageMessage("Usage: `/add-note [email] [text]`"), nil
	}
	if !isEmailAddress(email) {
		return usageMessage(fmt.Sprintf("`%v` isn't a valid email address. Usage: `/add-note [email] [text]`", email)), nil
	}

	contact, err := s.hubspotapiClient.SearchContactByEmail(ctx, email)
	if errors.Is(err, hubspotapi.ErrContactNotFound) {
		return usageMessage(fmt.Sprintf("No HubSpot contact found for %v.", email)), nil
	}
	if err != nil {
		return crmErrorMessage("look up the contact", err), err
	}

	_, err = s.hubspotapiClient.CreateNote(ctx, contact.ID, formatNoteBody(noteText, command.UserName), s.now())
	if err != nil {
		return crmErrorMessage("add the note", err), err
	}

	return slackapi.ResponseMessage{
		Text:         fmt.Sprintf("Note added to %v.", formatContact(contact)),
		ResponseType: slackapi.ResponseTypeEphemeral,
	}, nil
}

func (s *service) followUp(ctx context.Context, command slackapi.SlashCommand) (message slackapi.ResponseMessage, err error) {
	fields := strings.Fields(command.Text)
	if len(fields) != 2 {
		return usageMessage("Usage: `/follow-up [email] [days]`"), nil
	}
	email := unlinkEmailAddress(fields[0])
	if !isEmailAddress(email) {
		return usageMessage(fmt.Sprintf("`%v` isn't a valid email address. Usage: `/follow-up [email] [days]`", email)), nil
	}
	days, err := strconv.Atoi(fields[1])
	if err != nil || days < 1 || days > followUpDaysMax {
		return usageMessage(fmt.Sprintf("Days has to be a number between 1 and %v. Usage: `/follow-up [email] [days]`", followUpDaysMax)), nil
	}

	contact, err := s.hubspotapiClient.SearchContactByEmail(ctx, email)
	if errors.Is(err, hubspotapi.ErrContactNotFound) {
		return usageMessage(fmt.Sprintf("No HubSpot contact found for %v.", email)), nil
	}
	if err != nil {
		return crmErrorMessage("look up the contact", err), err
	}

	now := s.now()
	dueDate := now.AddDate(0, 0, days)

	_, err = s.hubspotapiClient.CreateNote(ctx, contact.ID, formatFollowUpNoteBody(dueDate, command.UserName), now)
	if err != nil {
		return crmErrorMessage("record the follow-up", err), err
	}

	return slackapi.ResponseMessage{
		Text:         fmt.Sprintf("Follow-up with %v recorded for %v.", formatContact(contact), formatDate(dueDate)),
		ResponseType: slackapi.ResponseTypeEphemeral,
	}, nil
}

// splitFirstArgument splits the command text into its first word and the remainder, keeping the remainder's spacing
func splitFirstArgument(text string) (first, rest string) {
	text = strings.TrimSpace(text)
	index := strings.IndexAny(text, " \t\n")
	if index < 0 {
		return text, ""
	}
	return text[:index], strings.TrimSpace(text[index:])
}

// unlinkEmailAddress turns Slack's auto-linked <mailto:jane@acme.com|jane@acme.com> back into the plain address
func unlinkEmailAddress(value string) string {
	if !strings.HasPrefix(value, "<mailto:") || !strings.HasSuffix(value, ">") {
		return value
	}
	value = strings.TrimSuffix(strings.TrimPrefix(value, "<mailto:"), ">")
	if index := strings.Index(value, "|"); index >= 0 {
		return value[index+1:]
	}
	return value
}

func isEmailAddress(value string) bool {
	address, err := mail.ParseAddress(value)
	return err == nil && address.Address == value
}
