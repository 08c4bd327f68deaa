package slack

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/credentials"
	"github.com/strategiotech/bd-barry/pkg/clients/hubspotapi"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
	"github.com/stretchr/testify/assert"
)

func getTestConfig() *api.APIConfig {
	config := &api.APIConfig{
		APIServer: &api.APIServerConfig{
			BaseURL: "https://bd-barry.onrender.com",
		},
		Integrations: &api.APIConfigIntegrations{
			Slack: &api.SlackConfig{
				SigningSecret: testSigningSecret,
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

func newTestService(slackapiClient slackapi.Client, hubspotapiClient hubspotapi.Client, credentialsClient credentials.Client) *service {
	return NewService(getTestConfig(), slackapiClient, hubspotapiClient, credentialsClient).(*service)
}

func TestInstall(t *testing.T) {

	t.Run("StoresIssuedTokenForWorkspace", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		credentialsClient := credentials.NewClient(nil)
		service := newTestService(slackapiClient, nil, credentialsClient)

		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), "abc123", "https://bd-barry.onrender.com/slack/oauth_redirect").
			DoAndReturn(func(ctx context.Context, code, redirectURI string) (*slackapi.OAuthV2Response, error) {
				// nothing is visible in the store while the exchange is in flight
				_, err := credentialsClient.Get(ctx, "T1")
				assert.True(t, errors.Is(err, credentials.ErrNotFound))

				return &slackapi.OAuthV2Response{OK: true, TeamID: "T1", AccessToken: "xoxb-1"}, nil
			}).
			Times(1)

		// act
		credential, err := service.Install(context.Background(), "abc123", "")

		assert.Nil(t, err)
		assert.Equal(t, "T1", credential.WorkspaceID)
		token, err := credentialsClient.Get(context.Background(), "T1")
		assert.Nil(t, err)
		assert.Equal(t, "xoxb-1", token)
	})

	t.Run("OverwritesTokenOnReinstall", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		credentialsClient := credentials.NewClient(nil)
		_ = credentialsClient.Put(context.Background(), "T1", "xoxb-old")
		service := newTestService(slackapiClient, nil, credentialsClient)

		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), "abc123", gomock.Any()).
			Return(&slackapi.OAuthV2Response{OK: true, Team: &slackapi.OAuthTeam{ID: "T1"}, AccessToken: "xoxb-new"}, nil)

		// act
		_, err := service.Install(context.Background(), "abc123", "")

		assert.Nil(t, err)
		token, _ := credentialsClient.Get(context.Background(), "T1")
		assert.Equal(t, "xoxb-new", token)
	})

	t.Run("ReturnsErrMissingCodeWithoutCallingSlackOrWritingStore", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		credentialsClient := credentials.NewMockClient(ctrl)
		service := newTestService(slackapiClient, nil, credentialsClient)

		slackapiClient.EXPECT().ExchangeOAuthCode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		credentialsClient.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		// act
		credential, err := service.Install(context.Background(), "", "")

		assert.True(t, errors.Is(err, ErrMissingCode))
		assert.Nil(t, credential)
	})

	t.Run("ReturnsExchangeRejectedErrorAndLeavesStoreUnchanged", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		credentialsClient := credentials.NewClient(nil)
		_ = credentialsClient.Put(context.Background(), "T1", "xoxb-1")
		service := newTestService(slackapiClient, nil, credentialsClient)

		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), "expired", gomock.Any()).
			Return(&slackapi.OAuthV2Response{OK: false, Error: "invalid_code"}, &slackapi.OAuthAccessError{Code: "invalid_code"})

		// act
		_, err := service.Install(context.Background(), "expired", "")

		var rejectedErr *ExchangeRejectedError
		assert.True(t, errors.As(err, &rejectedErr))
		assert.Equal(t, "invalid_code", rejectedErr.Reason)
		assert.False(t, errors.Is(err, ErrRedirectURIMismatch))
		token, _ := credentialsClient.Get(context.Background(), "T1")
		assert.Equal(t, "xoxb-1", token)
	})

	t.Run("SurfacesRedirectURIMismatchDistinctly", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		credentialsClient := credentials.NewMockClient(ctrl)
		service := newTestService(slackapiClient, nil, credentialsClient)

		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), "abc123", gomock.Any()).
			Return(nil, &slackapi.OAuthAccessError{Code: "bad_redirect_uri"})
		credentialsClient.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		// act
		_, err := service.Install(context.Background(), "abc123", "")

		var rejectedErr *ExchangeRejectedError
		assert.True(t, errors.As(err, &rejectedErr))
		assert.True(t, errors.Is(err, ErrRedirectURIMismatch))
	})

	t.Run("ReturnsTransportErrorForNetworkFaults", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		credentialsClient := credentials.NewMockClient(ctrl)
		service := newTestService(slackapiClient, nil, credentialsClient)

		cause := errors.New("dial tcp: connection refused")
		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), "abc123", gomock.Any()).
			Return(nil, cause).
			Times(1)
		credentialsClient.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		// act
		_, err := service.Install(context.Background(), "abc123", "")

		var transportErr *TransportError
		assert.True(t, errors.As(err, &transportErr))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("ReturnsExchangeRejectedErrorIfResponseLacksTeamOrToken", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		credentialsClient := credentials.NewMockClient(ctrl)
		service := newTestService(slackapiClient, nil, credentialsClient)

		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), "abc123", gomock.Any()).
			Return(&slackapi.OAuthV2Response{OK: true, AccessToken: "xoxb-1"}, nil)
		credentialsClient.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		// act
		_, err := service.Install(context.Background(), "abc123", "")

		var rejectedErr *ExchangeRejectedError
		assert.True(t, errors.As(err, &rejectedErr))
	})

	t.Run("AcceptsIssuedStateOnlyOnce", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		service := newTestService(slackapiClient, nil, credentials.NewClient(nil))

		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&slackapi.OAuthV2Response{OK: true, TeamID: "T1", AccessToken: "xoxb-1"}, nil).
			Times(1)

		state, err := service.NewInstallState(context.Background())
		assert.Nil(t, err)

		// act
		_, err = service.Install(context.Background(), "abc123", state)
		assert.Nil(t, err)
		_, err = service.Install(context.Background(), "abc123", state)

		assert.True(t, errors.Is(err, ErrInvalidState))
	})

	t.Run("ReturnsErrInvalidStateForUnknownOrExpiredState", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		service := newTestService(slackapiClient, nil, credentials.NewClient(nil))
		issuedAt := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return issuedAt }

		slackapiClient.EXPECT().ExchangeOAuthCode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		state, _ := service.NewInstallState(context.Background())
		service.now = func() time.Time { return issuedAt.Add(11 * time.Minute) }

		// act
		_, errExpired := service.Install(context.Background(), "abc123", state)
		_, errUnknown := service.Install(context.Background(), "abc123", "forged")

		assert.True(t, errors.Is(errExpired, ErrInvalidState))
		assert.True(t, errors.Is(errUnknown, ErrInvalidState))
	})
}

func TestNewInstallState(t *testing.T) {

	t.Run("ReturnsUniqueStates", func(t *testing.T) {

		service := newTestService(nil, nil, credentials.NewClient(nil))

		// act
		state1, err1 := service.NewInstallState(context.Background())
		state2, err2 := service.NewInstallState(context.Background())

		assert.Nil(t, err1)
		assert.Nil(t, err2)
		assert.NotEmpty(t, state1)
		assert.NotEqual(t, state1, state2)
	})

	t.Run("PrunesExpiredStates", func(t *testing.T) {

		service := newTestService(nil, nil, credentials.NewClient(nil))
		issuedAt := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return issuedAt }
		_, _ = service.NewInstallState(context.Background())
		service.now = func() time.Time { return issuedAt.Add(time.Hour) }

		// act
		_, _ = service.NewInstallState(context.Background())

		assert.Equal(t, 1, len(service.installStates))
	})

	t.Run("EvictsOldestStatesOnceCapIsReached", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		slackapiClient := slackapi.NewMockClient(ctrl)
		service := newTestService(slackapiClient, nil, credentials.NewClient(nil))
		service.installStatesMax = 3
		issuedAt := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return issuedAt }

		slackapiClient.
			EXPECT().
			ExchangeOAuthCode(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&slackapi.OAuthV2Response{OK: true, TeamID: "T1", AccessToken: "xoxb-1"}, nil).
			Times(1)

		states := []string{}
		for i := 0; i < 10; i++ {
			state, err := service.NewInstallState(context.Background())
			assert.Nil(t, err)
			states = append(states, state)
		}

		// act
		_, errEvicted := service.Install(context.Background(), "abc123", states[0])
		_, errNewest := service.Install(context.Background(), "abc123", states[9])

		assert.ErrorIs(t, errEvicted, ErrInvalidState)
		assert.Nil(t, errNewest)
		assert.LessOrEqual(t, len(service.installStates), 3)
		assert.LessOrEqual(t, len(service.installStateOrder), 3)
	})
}

func TestExchangeRejectedError(t *testing.T) {

	t.Run("MatchesErrRedirectURIMismatchOnlyForRedirectReasons", func(t *testing.T) {

		// act
		badRedirect := &ExchangeRejectedError{Reason: "bad_redirect_uri"}
		mismatch := &ExchangeRejectedError{Reason: "redirect_uri_mismatch"}
		invalidCode := &ExchangeRejectedError{Reason: "invalid_code"}

		assert.ErrorIs(t, badRedirect, ErrRedirectURIMismatch)
		assert.ErrorIs(t, mismatch, ErrRedirectURIMismatch)
		assert.NotErrorIs(t, invalidCode, ErrRedirectURIMismatch)
		assert.NotErrorIs(t, badRedirect, ErrInvalidState)
	})
}

func TestIsInstalled(t *testing.T) {

	t.Run("ReturnsFalseForUnknownWorkspace", func(t *testing.T) {

		service := newTestService(nil, nil, credentials.NewClient(nil))

		// act
		installed, err := service.IsInstalled(context.Background(), "T1")

		assert.Nil(t, err)
		assert.False(t, installed)
	})

	t.Run("ReturnsFalseForEmptyWorkspaceID", func(t *testing.T) {

		service := newTestService(nil, nil, credentials.NewClient(nil))

		// act
		installed, err := service.IsInstalled(context.Background(), "")

		assert.Nil(t, err)
		assert.False(t, installed)
	})

	t.Run("ReturnsTrueForInstalledWorkspace", func(t *testing.T) {

		credentialsClient := credentials.NewClient(nil)
		_ = credentialsClient.Put(context.Background(), "T1", "xoxb-1")
		service := newTestService(nil, nil, credentialsClient)

		// act
		installed, err := service.IsInstalled(context.Background(), "T1")

		assert.Nil(t, err)
		assert.True(t, installed)
	})
}

func TestExecuteCommand(t *testing.T) {

	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	contact := &hubspotapi.Contact{ID: "51", Properties: hubspotapi.ContactProperties{Email: "jane@acme.com", FirstName: "Jane", LastName: "Doe"}}

	t.Run("PipelineSummaryListsDealsWithTotal", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.
			EXPECT().
			GetDeals(gomock.Any(), 10).
			Return([]*hubspotapi.Deal{
				{ID: "1", Properties: hubspotapi.DealProperties{DealName: "Acme renewal", Amount: "1500", DealStage: "contractsent", CloseDate: "2026-11-01T00:00:00Z"}},
				{ID: "2", Properties: hubspotapi.DealProperties{DealName: "Globex", Amount: "2500.5", DealStage: "qualifiedtobuy"}},
			}, nil)

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/pipeline-summary"})

		assert.Nil(t, err)
		assert.Equal(t, slackapi.ResponseTypeInChannel, message.ResponseType)
		assert.Contains(t, message.Text, "*Acme renewal* – $1,500.00 – contractsent – closes 2026-11-01")
		assert.Contains(t, message.Text, "*Globex* – $2,500.50 – qualifiedtobuy")
		assert.Contains(t, message.Text, "*Total:* $4,000.50")
	})

	t.Run("PipelineSummaryReportsEmptyPipeline", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.EXPECT().GetDeals(gomock.Any(), gomock.Any()).Return([]*hubspotapi.Deal{}, nil)

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/pipeline-summary"})

		assert.Nil(t, err)
		assert.Equal(t, "No active deals found in HubSpot.", message.Text)
	})

	t.Run("PipelineSummaryRendersCrmFaultAsChatText", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.EXPECT().GetDeals(gomock.Any(), gomock.Any()).Return(nil, &hubspotapi.APIError{StatusCode: 401, Message: "Authentication credentials not found."})

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/pipeline-summary"})

		assert.NotNil(t, err)
		assert.Contains(t, message.Text, "Couldn't fetch the pipeline in HubSpot")
		assert.Contains(t, message.Text, "Authentication credentials not found.")
	})

	t.Run("AddNoteCreatesNoteOnContact", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)
		service.now = func() time.Time { return now }

		gomock.InOrder(
			hubspotapiClient.EXPECT().SearchContactByEmail(gomock.Any(), "jane@acme.com").Return(contact, nil),
			hubspotapiClient.EXPECT().CreateNote(gomock.Any(), "51", "Great meeting today,  needs follow-up\n\nAdded by roadrunner via Slack", now).Return(&hubspotapi.Note{ID: "901"}, nil),
		)

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/add-note", Text: " jane@acme.com Great meeting today,  needs follow-up ", UserName: "roadrunner"})

		assert.Nil(t, err)
		assert.Equal(t, "Note added to Jane Doe (jane@acme.com).", message.Text)
		assert.Equal(t, slackapi.ResponseTypeEphemeral, message.ResponseType)
	})

	t.Run("AddNoteAcceptsSlackLinkedEmailAddress", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.EXPECT().SearchContactByEmail(gomock.Any(), "jane@acme.com").Return(contact, nil)
		hubspotapiClient.EXPECT().CreateNote(gomock.Any(), "51", gomock.Any(), gomock.Any()).Return(&hubspotapi.Note{ID: "901"}, nil)

		// act
		_, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/add-note", Text: "<mailto:jane@acme.com|jane@acme.com> hello"})

		assert.Nil(t, err)
	})

	t.Run("AddNoteReportsUsageWithoutCallingCrm", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.EXPECT().SearchContactByEmail(gomock.Any(), gomock.Any()).Times(0)

		for _, text := range []string{"", "jane@acme.com", "   ", "not-an-email some text"} {

			// act
			message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/add-note", Text: text})

			assert.Nil(t, err)
			assert.Contains(t, message.Text, "Usage: `/add-note [email] [text]`", "text %q", text)
		}
	})

	t.Run("AddNoteReportsUnknownContact", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.EXPECT().SearchContactByEmail(gomock.Any(), "nobody@acme.com").Return(nil, hubspotapi.ErrContactNotFound)
		hubspotapiClient.EXPECT().CreateNote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/add-note", Text: "nobody@acme.com hello"})

		assert.Nil(t, err)
		assert.Equal(t, "No HubSpot contact found for nobody@acme.com.", message.Text)
	})

	t.Run("AddNoteRendersCreateFaultAsChatText", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.EXPECT().SearchContactByEmail(gomock.Any(), gomock.Any()).Return(contact, nil)
		hubspotapiClient.EXPECT().CreateNote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("connection reset"))

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/add-note", Text: "jane@acme.com hello"})

		assert.NotNil(t, err)
		assert.Contains(t, message.Text, "Couldn't add the note in HubSpot: connection reset")
	})

	t.Run("FollowUpRecordsDueDateNote", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)
		service.now = func() time.Time { return now }

		hubspotapiClient.EXPECT().SearchContactByEmail(gomock.Any(), "jane@acme.com").Return(contact, nil)
		hubspotapiClient.EXPECT().CreateNote(gomock.Any(), "51", "Follow up by 2026-10-19", now).Return(&hubspotapi.Note{ID: "902"}, nil)

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/follow-up", Text: "jane@acme.com 3"})

		assert.Nil(t, err)
		assert.Equal(t, "Follow-up with Jane Doe (jane@acme.com) recorded for 2026-10-19.", message.Text)
	})

	t.Run("FollowUpValidatesDays", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		hubspotapiClient.EXPECT().SearchContactByEmail(gomock.Any(), gomock.Any()).Times(0)

		for _, text := range []string{"jane@acme.com", "jane@acme.com 0", "jane@acme.com 366", "jane@acme.com three", "jane@acme.com 3 extra"} {

			// act
			message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/follow-up", Text: text})

			assert.Nil(t, err)
			assert.Contains(t, message.Text, "Usage: `/follow-up [email] [days]`", "text %q", text)
		}
	})

	t.Run("IgnoresUnknownCommands", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hubspotapiClient := hubspotapi.NewMockClient(ctrl)
		service := newTestService(nil, hubspotapiClient, nil)

		// act
		message, err := service.ExecuteCommand(context.Background(), slackapi.SlashCommand{Command: "/weather"})

		assert.Nil(t, err)
		assert.Equal(t, "", message.Text)
	})
}

func TestIsSupportedCommand(t *testing.T) {

	t.Run("ReturnsTrueForHandledCommandsOnly", func(t *testing.T) {

		assert.True(t, IsSupportedCommand("/pipeline-summary"))
		assert.True(t, IsSupportedCommand("/add-note"))
		assert.True(t, IsSupportedCommand("/follow-up"))
		assert.False(t, IsSupportedCommand("/Pipeline-Summary"))
		assert.False(t, IsSupportedCommand("/pipeline-summary "))
		assert.False(t, IsSupportedCommand(""))
	})
}
