package slack

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/credentials"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
)

// NewTracingService returns a new instance of a tracing Service.
func NewTracingService(s Service) Service {
	return &tracingService{s, "slack"}
}

type tracingService struct {
	Service Service
	prefix  string
}

func (s *tracingService) NewInstallState(ctx context.Context) (state string, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "NewInstallState"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.NewInstallState(ctx)
}

func (s *tracingService) Install(ctx context.Context, code, state string) (credential *credentials.WorkspaceCredential, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "Install"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.Install(ctx, code, state)
}

func (s *tracingService) IsInstalled(ctx context.Context, workspaceID string) (installed bool, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "IsInstalled"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.IsInstalled(ctx, workspaceID)
}

func (s *tracingService) ExecuteCommand(ctx context.Context, command slackapi.SlashCommand) (message slackapi.ResponseMessage, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "ExecuteCommand"))
	defer func() { api.FinishSpanWithError(span, err) }()
	span.SetTag("command", command.Command)

	return s.Service.ExecuteCommand(ctx, command)
}
