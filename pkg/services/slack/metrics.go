package slack

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/credentials"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
)

// NewMetricsService returns a new instance of a metrics Service.
func NewMetricsService(s Service, requestCount metrics.Counter, requestLatency metrics.Histogram) Service {
	return &metricsService{s, requestCount, requestLatency}
}

type metricsService struct {
	Service        Service
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
}

func (s *metricsService) NewInstallState(ctx context.Context) (state string, err error) {
	defer func(begin time.Time) { api.UpdateMetrics(s.requestCount, s.requestLatency, "NewInstallState", begin) }(time.Now())

	return s.Service.NewInstallState(ctx)
}

func (s *metricsService) Install(ctx context.Context, code, state string) (credential *credentials.WorkspaceCredential, err error) {
	defer func(begin time.Time) { api.UpdateMetrics(s.requestCount, s.requestLatency, "Install", begin) }(time.Now())

	return s.Service.Install(ctx, code, state)
}

func (s *metricsService) IsInstalled(ctx context.Context, workspaceID string) (installed bool, err error) {
	defer func(begin time.Time) { api.UpdateMetrics(s.requestCount, s.requestLatency, "IsInstalled", begin) }(time.Now())

	return s.Service.IsInstalled(ctx, workspaceID)
}

func (s *metricsService) ExecuteCommand(ctx context.Context, command slackapi.SlashCommand) (message slackapi.ResponseMessage, err error) {
	defer func(begin time.Time) { api.UpdateMetrics(s.requestCount, s.requestLatency, "ExecuteCommand", begin) }(time.Now())

	return s.Service.ExecuteCommand(ctx, command)
}
