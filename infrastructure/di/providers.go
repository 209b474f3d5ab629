package di

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"processflow/application/analytics"
	"processflow/application/commands/bus"
	commandhandlers "processflow/application/commands/handlers"
	"processflow/application/ports"
	querybus "processflow/application/queries/bus"
	queryhandlers "processflow/application/queries/handlers"
	"processflow/application/services"
	"processflow/domain/core/valueobjects"
	analyticsclient "processflow/infrastructure/analytics"
	"processflow/infrastructure/config"
	"processflow/infrastructure/dataset"
	"processflow/infrastructure/messaging"
	"processflow/infrastructure/messaging/eventbridge"
	"processflow/infrastructure/observability"
	"processflow/infrastructure/report"
	"processflow/infrastructure/storage"
	"processflow/interfaces/http/rest"
	pkgerrors "processflow/pkg/errors"
	pkgobservability "processflow/pkg/observability"
)

const serviceName = "processflow"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(observability.LogOptions{
		Level:       cfg.LogLevel,
		Development: !cfg.IsProduction(),
		File:        cfg.LogFile,
	})
}

// ProvideMetrics creates the Prometheus collector, or nil when metrics are off
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(serviceName)
}

// ProvideTracerProvider starts the OTLP exporter, or returns nil when tracing is off
func ProvideTracerProvider(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	if !cfg.EnableTracing {
		return nil, nil
	}
	return observability.InitTracing(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	if !cfg.EnableEventBridge {
		return aws.Config{Region: cfg.AWSRegion}, nil
	}
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(cfg *config.Config, awsCfg aws.Config) *awseventbridge.Client {
	if !cfg.EnableEventBridge {
		return nil
	}
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideEventBus logs every record event and forwards it to EventBridge
// when enabled
func ProvideEventBus(
	cfg *config.Config,
	client *awseventbridge.Client,
	metrics *observability.Collector,
	logger *zap.Logger,
) ports.EventBus {
	var eventBus ports.EventBus = messaging.NewLogBus(logger)
	if client != nil {
		eventBus = messaging.FanOut{
			eventBus,
			eventbridge.NewPublisher(client, cfg.EventBusName, logger),
		}
	}
	if metrics != nil {
		eventBus = observability.NewCountingBus(eventBus, metrics)
	}
	return eventBus
}

// ProvideWorkspace creates the flow graph workspace
func ProvideWorkspace(cfg *config.Config, eventBus ports.EventBus, logger *zap.Logger) *services.Workspace {
	return services.NewWorkspace(services.WorkspaceOptions{
		Positioner: valueobjects.NewRandomBox(cfg.CanvasBox, time.Now().UnixNano()),
		SeedMock:   cfg.SeedMockGraph,
	}, eventBus, logger)
}

// ProvideAnalyticsClient creates the analytics API client, or nil when no
// base URL is configured
func ProvideAnalyticsClient(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) *analyticsclient.Client {
	if cfg.APIBaseURL == "" {
		return nil
	}
	client := analyticsclient.NewClient(cfg.APIBaseURL, cfg.APITimeout(), analyticsclient.DefaultBreakerConfig(), logger)
	if metrics != nil {
		client.WithObserver(metrics)
	}
	return client
}

// ProvideReportStore creates the report destination
func ProvideReportStore(cfg *config.Config, logger *zap.Logger) (*storage.ReportStore, error) {
	return storage.NewReportStore(cfg.ReportDestination, logger)
}

// ProvideDashboard creates the chart feeds
func ProvideDashboard(client *analyticsclient.Client, logger *zap.Logger) *analytics.Dashboard {
	if client == nil {
		return nil
	}
	return analytics.NewDashboard(client, logger)
}

// ProvideReportService creates the report download service
func ProvideReportService(
	client *analyticsclient.Client,
	store *storage.ReportStore,
	logger *zap.Logger,
) *analytics.ReportService {
	if client == nil {
		return nil
	}
	return analytics.NewReportService(client, store, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	workspace *services.Workspace,
	dashboard *analytics.Dashboard,
	reports *analytics.ReportService,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	middlewares := []bus.Middleware{
		bus.TracingMiddleware(pkgobservability.NewTracer(serviceName)),
		bus.LoggingMiddleware(&zapLoggerAdapter{logger.Sugar()}),
	}
	if metrics != nil {
		middlewares = append(middlewares, bus.ObserverMiddleware(metrics))
	}
	commandBus := bus.NewCommandBus(middlewares...)

	if err := commandhandlers.NewRecordHandlers(workspace, logger).Register(commandBus); err != nil {
		return nil, err
	}
	if err := commandhandlers.NewAnalyticsHandlers(dashboard, reports, logger).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(workspace *services.Workspace, dashboard *analytics.Dashboard) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.TracingMiddleware(pkgobservability.NewTracer(serviceName)))
	if err := queryhandlers.NewReadHandlers(workspace, dashboard).Register(queryBus); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideDatasetSource loads the mock analytics dataset, or returns nil when
// DATASET_PATH is unset
func ProvideDatasetSource(cfg *config.Config, logger *zap.Logger) (*dataset.Source, error) {
	if cfg.DatasetPath == "" {
		return nil, nil
	}
	return dataset.NewSource(cfg.DatasetPath, logger)
}

// ProvideReportGenerator renders reports from the dataset
func ProvideReportGenerator(source *dataset.Source, logger *zap.Logger) *report.Generator {
	if source == nil {
		return nil
	}
	return report.NewGenerator(source, logger)
}

// ProvideErrorHandler creates the HTTP error writer
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter creates the REST router
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	tracing *observability.TracerProvider,
	client *analyticsclient.Client,
	reports *analytics.ReportService,
	source *dataset.Source,
	generator *report.Generator,
	logger *zap.Logger,
) *rest.Router {
	opts := rest.Options{
		EnableCORS:      cfg.EnableCORS,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		Reports:         reports,
		Dataset:         source,
		ReportGenerator: generator,
		ReportRateLimit: cfg.ReportRateLimit,
	}
	if tracing != nil {
		opts.Tracer = tracing.Tracer()
	}
	if client != nil {
		opts.Ready = client.Ready
	}
	return rest.NewRouter(commandBus, queryBus, errorHandler, opts, logger)
}

// ProvideHTTPHandler builds the routes
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}

// zapLoggerAdapter adapts zap to the command bus Logger interface
type zapLoggerAdapter struct {
	logger *zap.SugaredLogger
}

func (a *zapLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.logger.Debugw(msg, keysAndValues...)
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Infow(msg, keysAndValues...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Errorw(msg, keysAndValues...)
}
