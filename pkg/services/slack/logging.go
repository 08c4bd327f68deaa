package slack

import (
	"context"

	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/credentials"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
)

// NewLoggingService returns a new instance of a logging Service.
func NewLoggingService(s Service) Service {
	return &loggingService{s, "slack"}
}

type loggingService struct {
	Service Service
	prefix  string
}

func (s *loggingService) NewInstallState(ctx context.Context) (state string, err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "NewInstallState", err) }()

	return s.Service.NewInstallState(ctx)
}

func (s *loggingService) Install(ctx context.Context, code, state string) (credential *credentials.WorkspaceCredential, err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "Install", err, ErrMissingCode, ErrInvalidState) }()

	return s.Service.Install(ctx, code, state)
}

func (s *loggingService) IsInstalled(ctx context.Context, workspaceID string) (installed bool, err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "IsInstalled", err) }()

	return s.Service.IsInstalled(ctx, workspaceID)
}

func (s *loggingService) ExecuteCommand(ctx context.Context, command slackapi.SlashCommand) (message slackapi.ResponseMessage, err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "ExecuteCommand", err) }()

	return s.Service.ExecuteCommand(ctx, command)
}
