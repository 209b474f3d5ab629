package ports

import (
	"context"
	"io"

	"processflow/domain/analytics"
	"processflow/domain/events"
)

// EventBus publishes record events to whoever listens. The application does
// not know which transport sits behind it.
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// AnalyticsSource fetches the chart data shown on the dashboard
type AnalyticsSource interface {
	TopImpact(ctx context.Context) (analytics.TopImpact, error)
	Scenarios(ctx context.Context) (analytics.Scenarios, error)
	TopScenariosTemperatures(ctx context.Context) (analytics.TopScenariosTemperatures, error)
	SetpointImpacts(ctx context.Context) ([]analytics.SetpointImpact, error)
}

// ReportSource generates and downloads the process report from the analytics API
type ReportSource interface {
	GenerateReport(ctx context.Context) error
	DownloadReport(ctx context.Context) (io.ReadCloser, error)
}

// ReportStore keeps a downloaded report
type ReportStore interface {
	SaveReport(ctx context.Context, name string, r io.Reader) (location string, err error)
	OpenReport(ctx context.Context, location string) (io.ReadCloser, error)
}
