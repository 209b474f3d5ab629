// Package storage keeps generated reports on any afs-supported destination
// (local directory, mem://, s3://, gs://).
package storage

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"go.uber.org/zap"

	pkgerrors "processflow/pkg/errors"
)

const reportFileMode = 0o644

// ReportStore writes reports below a base URL
type ReportStore struct {
	fs      afs.Service
	baseURL string
	logger  *zap.Logger
}

// NewReportStore creates a store rooted at destination. A plain path is
// treated as a local directory.
func NewReportStore(destination string, logger *zap.Logger) (*ReportStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := normalize(destination)
	if err != nil {
		return nil, err
	}
	return &ReportStore{fs: afs.New(), baseURL: base, logger: logger}, nil
}

// SaveReport uploads r as name and returns its URL
func (s *ReportStore) SaveReport(ctx context.Context, name string, r io.Reader) (string, error) {
	location := s.baseURL + "/" + name
	if err := s.fs.Upload(ctx, location, reportFileMode, r); err != nil {
		return "", pkgerrors.NewInternalError("failed to store report").WithCause(err)
	}
	s.logger.Debug("Stored report", zap.String("location", location))
	return location, nil
}

// OpenReport reads a stored report back
func (s *ReportStore) OpenReport(ctx context.Context, location string) (io.ReadCloser, error) {
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, pkgerrors.NewNotFoundError("report").WithCause(err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// BaseURL is where reports are written
func (s *ReportStore) BaseURL() string { return s.baseURL }

func normalize(destination string) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		destination = "."
	}
	if strings.Contains(destination, "://") {
		return strings.TrimRight(destination, "/"), nil
	}
	abs, err := filepath.Abs(destination)
	if err != nil {
		return "", pkgerrors.NewValidationError("invalid report destination").WithCause(err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
