package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"processflow/application/analytics"
	"processflow/application/commands"
	"processflow/application/commands/bus"
	"processflow/application/queries"
	querybus "processflow/application/queries/bus"
	pkgerrors "processflow/pkg/errors"
)

// DashboardHandler serves the charts and the process report
type DashboardHandler struct {
	base
	reports *analytics.ReportService
}

// NewDashboardHandler creates a new dashboard handler. reports may be nil
// when the analytics API is not configured.
func NewDashboardHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	reports *analytics.ReportService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		base:    base{commandBus: commandBus, queryBus: queryBus, errors: errorHandler, logger: logger},
		reports: reports,
	}
}

// GetDashboard handles GET /dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetDashboardQuery{})
}

// Refresh handles POST /dashboard/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RefreshDashboardCommand{}, http.StatusOK)
}

// GenerateReport handles POST /reports: it generates the report through the
// analytics API, saves it, and streams the saved PDF back
func (h *DashboardHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.commandBus.Send(r.Context(), commands.GenerateReportCommand{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	report := result.(analytics.Report)

	body, err := h.reports.Open(r.Context(), report)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Name+`"`)
	w.Header().Set("X-Report-Location", report.Location)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("Report stream interrupted", zap.Error(err))
	}
}
