package analytics

import (
	"context"
	"io"

	"go.uber.org/zap"

	"processflow/application/ports"
	pkgerrors "processflow/pkg/errors"
)

// ReportFileName is the name the downloaded report is saved under
const ReportFileName = "process_report.pdf"

// ReportService asks the analytics API for a report, then downloads and
// keeps it
type ReportService struct {
	source ports.ReportSource
	store  ports.ReportStore
	logger *zap.Logger
}

// NewReportService creates a report service
func NewReportService(source ports.ReportSource, store ports.ReportStore, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{source: source, store: store, logger: logger}
}

// Report is a saved report
type Report struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Generate runs generate then download and saves the result as
// process_report.pdf. Any failure is returned for the caller to surface.
func (s *ReportService) Generate(ctx context.Context) (Report, error) {
	if err := s.source.GenerateReport(ctx); err != nil {
		s.logger.Error("Report generation failed", zap.Error(err))
		return Report{}, pkgerrors.Wrap(err, "failed to generate report")
	}

	body, err := s.source.DownloadReport(ctx)
	if err != nil {
		s.logger.Error("Report download failed", zap.Error(err))
		return Report{}, pkgerrors.Wrap(err, "failed to download report")
	}
	defer body.Close()

	location, err := s.store.SaveReport(ctx, ReportFileName, body)
	if err != nil {
		s.logger.Error("Saving report failed", zap.Error(err))
		return Report{}, pkgerrors.Wrap(err, "failed to save report")
	}

	s.logger.Info("Report saved", zap.String("location", location))
	return Report{Name: ReportFileName, Location: location}, nil
}

// Open reads back a saved report
func (s *ReportService) Open(ctx context.Context, r Report) (io.ReadCloser, error) {
	rc, err := s.store.OpenReport(ctx, r.Location)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open report")
	}
	return rc, nil
}
