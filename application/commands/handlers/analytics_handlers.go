package handlers

import (
	"context"

	"go.uber.org/zap"

	"processflow/application/analytics"
	"processflow/application/commands"
	"processflow/application/commands/bus"
	pkgerrors "processflow/pkg/errors"
)

// AnalyticsHandlers executes the dashboard and report commands
type AnalyticsHandlers struct {
	dashboard *analytics.Dashboard
	reports   *analytics.ReportService
	logger    *zap.Logger
}

// NewAnalyticsHandlers creates the analytics command handlers
func NewAnalyticsHandlers(dashboard *analytics.Dashboard, reports *analytics.ReportService, logger *zap.Logger) *AnalyticsHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandlers{dashboard: dashboard, reports: reports, logger: logger}
}

// Register binds the analytics commands to the bus
func (h *AnalyticsHandlers) Register(b *bus.CommandBus) error {
	if err := b.Register(commands.RefreshDashboardCommand{}, bus.CommandHandlerFunc(h.refreshDashboard)); err != nil {
		return err
	}
	return b.Register(commands.GenerateReportCommand{}, bus.CommandHandlerFunc(h.generateReport))
}

// refreshDashboard tolerates partial failures: the view still carries the
// feeds that loaded, and the failed ones report their error
func (h *AnalyticsHandlers) refreshDashboard(ctx context.Context, _ bus.Command) (interface{}, error) {
	if h.dashboard == nil {
		return nil, pkgerrors.NewUnavailableError("analytics API")
	}
	if err := h.dashboard.Refresh(ctx); err != nil {
		if !analytics.IsRefreshError(err) {
			return nil, err
		}
		h.logger.Warn("Dashboard refreshed with failures", zap.Error(err))
	}
	return h.dashboard.View(), nil
}

func (h *AnalyticsHandlers) generateReport(ctx context.Context, _ bus.Command) (interface{}, error) {
	if h.reports == nil {
		return nil, pkgerrors.NewUnavailableError("analytics API")
	}
	return h.reports.Generate(ctx)
}
