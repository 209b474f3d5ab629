package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"processflow/application/analytics"
	"processflow/application/commands/bus"
	querybus "processflow/application/queries/bus"
	"processflow/infrastructure/dataset"
	"processflow/infrastructure/observability"
	"processflow/infrastructure/report"
	"processflow/interfaces/http/rest/handlers"
	"processflow/interfaces/http/rest/middleware"
	pkgerrors "processflow/pkg/errors"
	"processflow/pkg/ratelimit"
)

// Options are the optional parts of the router
type Options struct {
	EnableCORS  bool
	CORSOrigins []string
	// Metrics enables the metrics middleware and GET /metrics
	Metrics *observability.Collector
	// Tracer enables a server span per request
	Tracer trace.Tracer
	// Reports generates reports through the analytics API
	Reports *analytics.ReportService
	// Dataset and ReportGenerator enable the mock analytics API
	Dataset         *dataset.Source
	ReportGenerator *report.Generator
	// ReportRateLimit caps report generations per client IP per minute;
	// zero disables the limit
	ReportRateLimit int
	// Ready reports whether dependencies are usable
	Ready func() error
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Tracer != nil {
		router.Use(observability.TracingMiddleware(rt.opts.Tracer))
	}
	if rt.opts.Metrics != nil {
		router.Use(rt.opts.Metrics.Middleware)
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "ETag", "Content-Disposition"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.Handle(w, r, pkgerrors.NewNotFoundError("route"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.Handle(w, r, (&pkgerrors.AppError{
			Type:       pkgerrors.ErrorTypeValidation,
			Message:    "method not allowed",
			HTTPStatus: http.StatusMethodNotAllowed,
		}).WithCode("METHOD_NOT_ALLOWED"))
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.Metrics != nil {
		router.Handle("/metrics", rt.opts.Metrics.Handler())
	}

	nodeHandler := handlers.NewNodeHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
	edgeHandler := handlers.NewEdgeHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
	canvasHandler := handlers.NewCanvasHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
	dashboardHandler := handlers.NewDashboardHandler(rt.commandBus, rt.queryBus, rt.opts.Reports, rt.errors, rt.logger)
	reportLimit := middleware.RateLimit(ratelimit.PerMinute(rt.opts.ReportRateLimit), rt.errors)

	router.Route("/api/v2", func(r chi.Router) {
		// Node endpoints
		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", nodeHandler.ListNodes)
			r.Post("/", nodeHandler.CreateNode)
			r.Get("/options", nodeHandler.NodeOptions)
			r.Get("/{nodeID}", nodeHandler.GetNode)
			r.Put("/{nodeID}", nodeHandler.UpdateNode)
			r.Delete("/{nodeID}", nodeHandler.DeleteNode)
		})

		// Edge endpoints
		r.Route("/edges", func(r chi.Router) {
			r.Get("/", edgeHandler.ListEdges)
			r.Post("/", edgeHandler.CreateEdge)
			r.Get("/{edgeID}", edgeHandler.GetEdge)
			r.Put("/{edgeID}", edgeHandler.UpdateEdge)
			r.Delete("/{edgeID}", edgeHandler.DeleteEdge)
		})

		r.Post("/table/actions", canvasHandler.DispatchAction)

		// Canvas endpoints
		r.Route("/canvas", func(r chi.Router) {
			r.Get("/", canvasHandler.GetCanvas)
			r.Post("/connect", canvasHandler.Connect)
			r.Put("/nodes/{nodeID}/position", canvasHandler.MoveNode)
			r.Delete("/nodes/{nodeID}", canvasHandler.RemoveNode)
			r.Delete("/edges/{edgeID}", canvasHandler.RemoveEdge)
			r.Post("/reset", canvasHandler.Reset)
		})

		// Analytics endpoints
		r.Get("/dashboard", dashboardHandler.GetDashboard)
		r.Post("/dashboard/refresh", dashboardHandler.Refresh)
		r.With(reportLimit).Post("/reports", dashboardHandler.GenerateReport)
	})

	if rt.opts.Dataset != nil && rt.opts.ReportGenerator != nil {
		rt.mountMockAPI(router, reportLimit)
	}

	return router
}

// mountMockAPI serves the analytics API from the local dataset. The chart
// endpoints are also mounted at the root for clients whose base URL is
// this service.
func (rt *Router) mountMockAPI(router chi.Router, reportLimit func(http.Handler) http.Handler) {
	mock := handlers.NewMockAPIHandler(rt.opts.Dataset, rt.opts.ReportGenerator, rt.errors, rt.logger)

	charts := func(r chi.Router) {
		r.Get("/top-impact", mock.TopImpact)
		r.Get("/scenarios", mock.Scenarios)
		r.Get("/top-scenarios-temperatures", mock.TopScenariosTemperatures)
		r.Get("/setpoint-impacts", mock.SetpointImpacts)
	}

	router.Route("/api", func(r chi.Router) {
		charts(r)
		r.Get("/process-data", mock.ProcessData)
		r.With(reportLimit).Get("/generate-report", mock.GenerateReport)
		r.With(reportLimit).Post("/generate-report", mock.GenerateReport)
		r.Get("/download-report", mock.DownloadReport)
	})
	router.Group(charts)
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.opts.Ready != nil {
		if err := rt.opts.Ready(); err != nil {
			rt.errors.Handle(w, req, pkgerrors.NewUnavailableError("dependencies").WithCause(err))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
