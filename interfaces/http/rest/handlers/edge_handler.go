package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"processflow/application/commands"
	"processflow/application/commands/bus"
	"processflow/application/queries"
	querybus "processflow/application/queries/bus"
	pkgerrors "processflow/pkg/errors"
)

// EdgeHandler handles edge table requests
type EdgeHandler struct {
	base
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *EdgeHandler {
	return &EdgeHandler{base{commandBus: commandBus, queryBus: queryBus, errors: errorHandler, logger: logger}}
}

// ListEdges handles GET /edges
func (h *EdgeHandler) ListEdges(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListEdgesQuery{})
}

// CreateEdge handles POST /edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddEdgeCommand
	if err := decode(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// GetEdge handles GET /edges/{edgeID}
func (h *EdgeHandler) GetEdge(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetEdgeQuery{EdgeID: chi.URLParam(r, "edgeID")})
}

// UpdateEdge handles PUT /edges/{edgeID}
func (h *EdgeHandler) UpdateEdge(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateEdgeCommand
	if err := decode(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	cmd.EdgeID = chi.URLParam(r, "edgeID")
	h.send(w, r, cmd, http.StatusOK)
}

// DeleteEdge handles DELETE /edges/{edgeID}
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteEdgeCommand{EdgeID: chi.URLParam(r, "edgeID")}, http.StatusOK)
}
