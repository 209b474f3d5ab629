package di

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"processflow/application/analytics"
	"processflow/application/commands/bus"
	"processflow/application/ports"
	querybus "processflow/application/queries/bus"
	"processflow/application/services"
	"processflow/infrastructure/config"
	"processflow/infrastructure/dataset"
	"processflow/infrastructure/observability"
	"processflow/infrastructure/report"
	"processflow/infrastructure/storage"
)

// Container holds all application dependencies. Optional parts are nil
// when their feature is switched off.
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Metrics         *observability.Collector
	Tracing         *observability.TracerProvider
	EventBus        ports.EventBus
	Workspace       *services.Workspace
	ReportStore     *storage.ReportStore
	Dashboard       *analytics.Dashboard
	Reports         *analytics.ReportService
	CommandBus      *bus.CommandBus
	QueryBus        *querybus.QueryBus
	Dataset         *dataset.Source
	ReportGenerator *report.Generator
	Handler         http.Handler
}

// Close flushes traces and logs
func (c *Container) Close(ctx context.Context) {
	if c.Tracing != nil {
		if err := c.Tracing.Shutdown(ctx); err != nil {
			c.Logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	observability.Sync(c.Logger)
}
