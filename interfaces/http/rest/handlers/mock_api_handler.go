package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"processflow/application/analytics"
	"processflow/infrastructure/dataset"
	"processflow/infrastructure/report"
	pkgerrors "processflow/pkg/errors"
	"processflow/pkg/utils"
)

// MockAPIHandler serves the analytics API from a local results file
type MockAPIHandler struct {
	base
	source  *dataset.Source
	reports *report.Generator
}

// NewMockAPIHandler creates the mock analytics API handler
func NewMockAPIHandler(
	source *dataset.Source,
	reports *report.Generator,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MockAPIHandler {
	return &MockAPIHandler{
		base:    base{errors: errorHandler, logger: logger},
		source:  source,
		reports: reports,
	}
}

// ProcessData handles GET /api/process-data
func (h *MockAPIHandler) ProcessData(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.source.Current().ProcessData())
}

// TopImpact handles GET /api/top-impact
func (h *MockAPIHandler) TopImpact(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.source.Current().TopImpact())
}

// Scenarios handles GET /api/scenarios
func (h *MockAPIHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.source.Current().Scenarios())
}

// TopScenariosTemperatures handles GET /api/top-scenarios-temperatures
func (h *MockAPIHandler) TopScenariosTemperatures(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.source.Current().TopScenariosTemperatures(dataset.TopScenarioCount))
}

// SetpointImpacts handles GET /api/setpoint-impacts
func (h *MockAPIHandler) SetpointImpacts(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.source.Current().SetpointImpacts())
}

// GenerateReport handles GET|POST /api/generate-report
func (h *MockAPIHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.reports.Generate()
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"message":      "Report generated successfully",
		"etag":         doc.ETag,
		"generated_at": utils.Timestamp(doc.GeneratedAt),
	})
}

// DownloadReport handles GET /api/download-report. It answers 404 until a
// report has been generated and 304 when the client already has it.
func (h *MockAPIHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.reports.Latest()
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.Header().Set("ETag", doc.ETag)
	w.Header().Set("Last-Modified", doc.GeneratedAt.UTC().Format(http.TimeFormat))
	if match := r.Header.Get("If-None-Match"); match != "" && match == doc.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+analytics.ReportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		h.logger.Warn("Report download interrupted", zap.Error(err))
	}
}
